// Package render composes monochrome canvases for e-ink display devices.
//
// Layout follows the panel's fixed geometry: a header band with an optional
// dithered portrait and title, a centered auto-sized fact body, and a footer
// carrying the fact ID and fetch timestamp. All drawing is two-color; only
// the portrait is dithered.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/factpanel/factpanel/internal/domain/display"
)

const (
	margin      = 20
	sidePadding = 40

	headerWithPortrait    = 180
	headerWithoutPortrait = 120
	footerBand            = 80
	footerRuleInset       = 60

	maxFontSize  = 48
	minFontSize  = 24
	fontSizeStep = 2

	titleSize     = 48
	metaSize      = 16
	errorBodySize = 32

	portraitTitleX = 200
	portraitTitleY = 60
	fallbackTitleY = 40

	errorTitle       = "Error"
	errorWrapColumns = 40
	errorLineSpacing = 10

	titleText = "Chuck Norris Fact"
)

// Generator renders display canvases at a fixed geometry. It is safe for
// concurrent use; renders are serialized because font faces carry internal
// drawing buffers.
type Generator struct {
	width  int
	height int

	mu        sync.Mutex
	portrait  *image.Paletted
	titleFace font.Face
	metaFace  font.Face
	errorFace font.Face
	bodyFaces map[int]font.Face
}

// New creates a Generator for the given canvas size using the embedded Go
// fonts (bold for the title, regular for body and metadata).
func New(width, height int) (*Generator, error) {
	if width < 1 || height < 1 {
		return nil, errors.New("render: canvas dimensions must be >= 1")
	}

	titleFont, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, err
	}
	textFont, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, err
	}

	g := &Generator{
		width:     width,
		height:    height,
		bodyFaces: make(map[int]font.Face),
	}

	if g.titleFace, err = newFace(titleFont, titleSize); err != nil {
		return nil, err
	}
	if g.metaFace, err = newFace(textFont, metaSize); err != nil {
		return nil, err
	}
	if g.errorFace, err = newFace(textFont, errorBodySize); err != nil {
		return nil, err
	}
	for size := minFontSize; size <= maxFontSize; size += fontSizeStep {
		if g.bodyFaces[size], err = newFace(textFont, size); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func newFace(f *opentype.Font, size int) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// HasPortrait reports whether a portrait has been installed.
func (g *Generator) HasPortrait() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.portrait != nil
}

// Render composes the canvas for a fact payload. A payload without fact text
// renders the error canvas instead, so the device always gets a full image.
func (g *Generator) Render(p display.Payload) image.Image {
	g.mu.Lock()
	defer g.mu.Unlock()

	if strings.TrimSpace(p.Fact) == "" {
		return g.renderError("No Chuck Norris fact available")
	}

	canvas := g.newCanvas()
	headerHeight := g.drawHeader(canvas)
	g.drawFact(canvas, p.Fact, headerHeight)
	g.drawFooter(canvas, p.FactID, p.Timestamp)
	return canvas
}

// RenderError composes the error canvas: a centered title plus the wrapped
// message. The device shows it in place of a fact rather than failing the
// poll.
func (g *Generator) RenderError(message string) image.Image {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renderError(message)
}

func (g *Generator) newCanvas() *image.Paletted {
	// Index 0 is white, so the zeroed pixel buffer is the background.
	return image.NewPaletted(image.Rect(0, 0, g.width, g.height), color.Palette{color.White, color.Black})
}

// drawHeader draws the portrait (when present), title and header rule.
// It returns the height of the header band the body must clear.
func (g *Generator) drawHeader(canvas *image.Paletted) int {
	if g.portrait != nil {
		pb := g.portrait.Bounds()
		dst := image.Rect(margin, margin, margin+pb.Dx(), margin+pb.Dy())
		draw.Draw(canvas, dst, g.portrait, pb.Min, draw.Src)

		drawText(canvas, g.titleFace, portraitTitleX, portraitTitleY, titleText)

		ruleY := margin + pb.Dy() + margin
		drawHLine(canvas, margin, g.width-margin, ruleY, 2)
		return headerWithPortrait
	}

	w := font.MeasureString(g.titleFace, titleText).Ceil()
	drawText(canvas, g.titleFace, (g.width-w)/2, fallbackTitleY, titleText)

	m := g.titleFace.Metrics()
	ruleY := fallbackTitleY + (m.Ascent + m.Descent).Ceil() + margin
	drawHLine(canvas, margin, g.width-margin, ruleY, 2)
	return headerWithoutPortrait
}

// drawFact wraps and centers the fact text in the content box, shrinking the
// font until the block fits. Text that still overflows at the minimum size
// is drawn anyway; the canvas clips it.
func (g *Generator) drawFact(canvas *image.Paletted, text string, headerHeight int) {
	contentWidth := g.width - 2*sidePadding
	contentHeight := g.height - headerHeight - footerBand
	maxWidth := contentWidth - sidePadding

	size := minFontSize
	face := g.bodyFaces[minFontSize]
	lines := wrapWidth(face, text, maxWidth)

	for s := maxFontSize; s >= minFontSize; s -= fontSizeStep {
		f := g.bodyFaces[s]
		ls := wrapWidth(f, text, maxWidth)
		w, h := blockSize(f, ls, lineSpacing(s))
		if w <= maxWidth && h <= contentHeight-sidePadding {
			size, face, lines = s, f, ls
			break
		}
	}

	_, blockH := blockSize(face, lines, lineSpacing(size))
	y := headerHeight + (contentHeight-blockH)/2
	drawLinesCentered(canvas, face, lines, g.width/2, y, lineSpacing(size))
}

// drawFooter draws the footer rule, fact ID on the left and the timestamp on
// the right.
func (g *Generator) drawFooter(canvas *image.Paletted, factID, timestamp string) {
	if factID == "" {
		factID = "Unknown"
	}

	footerY := g.height - footerRuleInset
	drawHLine(canvas, margin, g.width-margin, footerY, 1)

	drawText(canvas, g.metaFace, margin, footerY+10, "Fact ID: "+factID)

	ts := formatTimestamp(timestamp)
	w := font.MeasureString(g.metaFace, ts).Ceil()
	drawText(canvas, g.metaFace, g.width-w-margin, footerY+10, ts)
}

func (g *Generator) renderError(message string) image.Image {
	canvas := g.newCanvas()

	w := font.MeasureString(g.titleFace, errorTitle).Ceil()
	drawText(canvas, g.titleFace, (g.width-w)/2, fallbackTitleY, errorTitle)

	lines := wrapColumns(message, errorWrapColumns)
	_, blockH := blockSize(g.errorFace, lines, errorLineSpacing)
	y := (g.height - blockH) / 2
	drawLinesCentered(canvas, g.errorFace, lines, g.width/2, y, errorLineSpacing)

	return canvas
}

// lineSpacing scales with the font size, 0.3x in integer math.
func lineSpacing(size int) int {
	return size * 3 / 10
}

// formatTimestamp renders an RFC 3339 timestamp the way the footer shows it.
// Anything unparseable passes through raw.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.UTC().Format("2006-01-02 15:04:05") + " UTC"
}

// drawText draws a single line with (x, y) as its top-left corner.
func drawText(dst draw.Image, face font.Face, x, y int, s string) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}

// drawLinesCentered draws lines horizontally centered on centerX, the block
// starting at top y.
func drawLinesCentered(dst draw.Image, face font.Face, lines []string, centerX, y, spacing int) {
	m := face.Metrics()
	lineHeight := (m.Ascent + m.Descent).Ceil()
	for i, line := range lines {
		w := font.MeasureString(face, line).Ceil()
		d := font.Drawer{
			Dst:  dst,
			Src:  image.Black,
			Face: face,
			Dot:  fixed.P(centerX-w/2, y+i*(lineHeight+spacing)+m.Ascent.Ceil()),
		}
		d.DrawString(line)
	}
}

// blockSize measures the bounding box of wrapped lines at the given spacing.
func blockSize(face font.Face, lines []string, spacing int) (w, h int) {
	m := face.Metrics()
	lineHeight := (m.Ascent + m.Descent).Ceil()
	for _, line := range lines {
		if lw := font.MeasureString(face, line).Ceil(); lw > w {
			w = lw
		}
	}
	if n := len(lines); n > 0 {
		h = n*lineHeight + (n-1)*spacing
	}
	return w, h
}

// drawHLine fills a horizontal rule from x0 to x1 at the given thickness.
func drawHLine(dst draw.Image, x0, x1, y, thickness int) {
	draw.Draw(dst, image.Rect(x0, y, x1, y+thickness), image.Black, image.Point{}, draw.Src)
}
