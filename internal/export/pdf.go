package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
)

// FileName is the download name of the exported chart.
const FileName = "chart.pdf"

// PDFWriter embeds a chart raster on a single landscape page.
type PDFWriter struct {
	page   PageSize
	margin float64
	title  string
}

// NewPDFWriter builds a writer for the named page size.
func NewPDFWriter(pageSize string, marginMM float64, title string) (*PDFWriter, error) {
	page, err := LookupPageSize(pageSize)
	if err != nil {
		return nil, err
	}
	if marginMM < 0 {
		return nil, fmt.Errorf("export: negative margin")
	}
	return &PDFWriter{page: page, margin: marginMM, title: title}, nil
}

// Page returns the page geometry.
func (p *PDFWriter) Page() PageSize {
	return p.page
}

// Write renders img into a PDF and writes it to w.
func (p *PDFWriter) Write(w io.Writer, img *Image) error {
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: p.page.Height, Ht: p.page.Width},
	})
	if p.title != "" {
		doc.SetTitle(p.title, true)
	}
	doc.SetCreator("orgchart-viewer", true)
	doc.AddPage()

	opts := fpdf.ImageOptions{ImageType: strings.ToUpper(img.Format), ReadDpi: false}
	doc.RegisterImageOptionsReader("chart", opts, bytes.NewReader(img.Data))
	rect := Place(img.Width, img.Height, p.page, p.margin)
	doc.ImageOptions("chart", rect.X, rect.Y, rect.W, rect.H, false, opts, 0, "")

	if err := doc.Error(); err != nil {
		return fmt.Errorf("export: build pdf: %w", err)
	}
	return doc.Output(w)
}
