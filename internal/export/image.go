package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
)

var (
	// ErrEmptyImage is returned when the payload carries no image data.
	ErrEmptyImage = errors.New("export: empty image")
	// ErrImageTooLarge is returned when the decoded image exceeds the limit.
	ErrImageTooLarge = errors.New("export: image too large")
	// ErrUnsupportedImage is returned for formats other than PNG and JPEG.
	ErrUnsupportedImage = errors.New("export: unsupported image format")
	// ErrInvalidEncoding is returned when the payload is not valid base64.
	ErrInvalidEncoding = errors.New("export: invalid base64 payload")
)

// Image is a decoded raster ready to be placed on a page.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// DecodeImage accepts a raw base64 string or a data URL such as
// "data:image/png;base64,...". maxBytes <= 0 disables the size check.
func DecodeImage(payload string, maxBytes int) (*Image, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, ErrInvalidEncoding
		}
		payload = payload[comma+1:]
	}
	if payload == "" {
		return nil, ErrEmptyImage
	}
	if maxBytes > 0 && base64.StdEncoding.DecodedLen(len(payload)) > maxBytes+2 {
		return nil, ErrImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return nil, ErrImageTooLarge
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, ErrEmptyImage
	}
	return &Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
