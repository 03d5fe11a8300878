package export

import (
	"fmt"
	"strings"
)

// PageSize is a page in millimetres, landscape.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var pageSizes = map[string]PageSize{
	"A3":     {Name: "A3", Width: 420, Height: 297},
	"A4":     {Name: "A4", Width: 297, Height: 210},
	"A5":     {Name: "A5", Width: 210, Height: 148},
	"LETTER": {Name: "Letter", Width: 279.4, Height: 215.9},
	"LEGAL":  {Name: "Legal", Width: 355.6, Height: 215.9},
}

// LookupPageSize resolves a page name to its landscape dimensions.
func LookupPageSize(name string) (PageSize, error) {
	size, ok := pageSizes[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, fmt.Errorf("export: unknown page size %q", name)
	}
	return size, nil
}

// Rect is a placement on the page in millimetres.
type Rect struct {
	X, Y, W, H float64
}

// Place scales an imgW x imgH raster to fit inside the page minus margin on
// every side, preserving aspect ratio, and centers it.
func Place(imgW, imgH int, page PageSize, margin float64) Rect {
	availW := page.Width - 2*margin
	availH := page.Height - 2*margin
	if imgW <= 0 || imgH <= 0 || availW <= 0 || availH <= 0 {
		return Rect{X: page.Width / 2, Y: page.Height / 2}
	}

	scale := availW / float64(imgW)
	if h := availH / float64(imgH); h < scale {
		scale = h
	}
	w := float64(imgW) * scale
	h := float64(imgH) * scale
	return Rect{
		X: (page.Width - w) / 2,
		Y: (page.Height - h) / 2,
		W: w,
		H: h,
	}
}
