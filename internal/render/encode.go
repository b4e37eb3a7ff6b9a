package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/factpanel/factpanel/internal/domain"
)

// Format selects the encoding of a rendered canvas.
type Format string

// Supported encodings. BMP is the panel's native format; PNG is for
// previews and platforms that reject BMP.
const (
	FormatBMP Format = "bmp"
	FormatPNG Format = "png"
)

// ParseFormat maps a query value to a Format. Empty selects BMP.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bmp":
		return FormatBMP, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("%w: unsupported image format %q", domain.ErrValidation, s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/bmp"
}

// Encode serializes img in the given format.
func Encode(img image.Image, f Format) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	default:
		if err := bmp.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode bmp: %w", err)
		}
	}
	return buf.Bytes(), nil
}
