package export

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 31, G: 119, B: 180, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeImageDataURL(t *testing.T) {
	img, err := DecodeImage("data:image/png;base64,"+pngBase64(t, 40, 20), 0)
	require.NoError(t, err)
	require.Equal(t, "png", img.Format)
	require.Equal(t, 40, img.Width)
	require.Equal(t, 20, img.Height)
}

func TestDecodeImageErrors(t *testing.T) {
	_, err := DecodeImage("   ", 0)
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = DecodeImage("data:image/png,notbase64", 0)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = DecodeImage("%%%not-base64%%%", 0)
	require.ErrorIs(t, err, ErrInvalidEncoding)

	_, err = DecodeImage(base64.StdEncoding.EncodeToString([]byte("plain text, not an image")), 0)
	require.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = DecodeImage(pngBase64(t, 200, 200), 16)
	require.ErrorIs(t, err, ErrImageTooLarge)
}

func TestPlacePreservesAspectAndCenters(t *testing.T) {
	a4 := PageSize{Name: "A4", Width: 297, Height: 210}

	wide := Place(2000, 500, a4, 5)
	require.InDelta(t, 287, wide.W, 1e-9)
	require.InDelta(t, 71.75, wide.H, 1e-9)
	require.InDelta(t, 5, wide.X, 1e-9)
	require.InDelta(t, (210-71.75)/2, wide.Y, 1e-9)

	tall := Place(500, 1000, a4, 5)
	require.InDelta(t, 200, tall.H, 1e-9)
	require.InDelta(t, 100, tall.W, 1e-9)
	require.InDelta(t, (297-100)/2.0, tall.X, 1e-9)
	require.InDelta(t, 5, tall.Y, 1e-9)

	require.InDelta(t, wide.W/wide.H, 2000.0/500.0, 1e-9)
}

func TestPlaceDegenerateInput(t *testing.T) {
	a4 := PageSize{Width: 297, Height: 210}
	require.Equal(t, Rect{X: 148.5, Y: 105}, Place(0, 10, a4, 5))
	require.Equal(t, Rect{X: 148.5, Y: 105}, Place(10, 10, a4, 200))
}

func TestLookupPageSize(t *testing.T) {
	size, err := LookupPageSize(" letter ")
	require.NoError(t, err)
	require.Equal(t, "Letter", size.Name)

	_, err = LookupPageSize("B7")
	require.Error(t, err)
}

func TestPDFWriterProducesDocument(t *testing.T) {
	img, err := DecodeImage(pngBase64(t, 300, 120), 0)
	require.NoError(t, err)

	writer, err := NewPDFWriter("A4", 5, "Organization Chart")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, writer.Write(&out, img))
	require.True(t, strings.HasPrefix(out.String(), "%PDF-"))
	require.Contains(t, out.String(), "/Subtype /Image")
}

func TestNewPDFWriterRejectsBadInput(t *testing.T) {
	_, err := NewPDFWriter("Z9", 5, "")
	require.Error(t, err)
	_, err = NewPDFWriter("A4", -1, "")
	require.Error(t, err)
}
