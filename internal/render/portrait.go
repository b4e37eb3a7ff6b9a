package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"net/http"

	xdraw "golang.org/x/image/draw"

	// Portrait sources serve JPEG, PNG or WebP depending on the CDN.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	portraitHeight   = 120
	maxPortraitBytes = 10 << 20
)

// FetchPortrait downloads and decodes the header portrait. Callers treat a
// failure as cosmetic: the generator falls back to the centered-title layout.
func FetchPortrait(ctx context.Context, hc *http.Client, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch portrait: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("portrait fetch status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxPortraitBytes))
	if err != nil {
		return nil, fmt.Errorf("decode portrait: %w", err)
	}
	return img, nil
}

// SetPortrait installs the header portrait: grayscale, scaled to the header
// height preserving aspect ratio, then Floyd-Steinberg dithered to two
// colors. An empty image clears the portrait.
func (g *Generator) SetPortrait(src image.Image) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.portrait = processPortrait(src)
}

func processPortrait(src image.Image) *image.Paletted {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	if b.Dx() < 1 || b.Dy() < 1 {
		return nil
	}

	gray := image.NewGray(b)
	draw.Draw(gray, b, src, b.Min, draw.Src)

	targetWidth := b.Dx() * portraitHeight / b.Dy()
	if targetWidth < 1 {
		targetWidth = 1
	}
	scaled := image.NewGray(image.Rect(0, 0, targetWidth, portraitHeight))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), gray, b, xdraw.Src, nil)

	mono := image.NewPaletted(scaled.Bounds(), color.Palette{color.White, color.Black})
	draw.FloydSteinberg.Draw(mono, scaled.Bounds(), scaled, image.Point{})
	return mono
}
