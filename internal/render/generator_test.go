package render

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"github.com/factpanel/factpanel/internal/domain/display"
)

func testGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(800, 480)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func testPayload() display.Payload {
	return display.Payload{
		Status:      display.StatusOK,
		Fact:        "Some remarkable fact about roundhouse kicks.",
		FactID:      "abc123",
		Timestamp:   "2025-06-01T12:30:45Z",
		RefreshRate: 3600,
	}
}

// blackAt reports whether the canvas pixel at (x, y) is black.
func blackAt(t *testing.T, img image.Image, x, y int) bool {
	t.Helper()
	p, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("expected *image.Paletted, got %T", img)
	}
	return p.ColorIndexAt(x, y) == 1
}

// firstInkRow returns the first row in [yMin, yMax) containing a black pixel
// within columns [xMin, xMax), or -1.
func firstInkRow(t *testing.T, img image.Image, xMin, xMax, yMin, yMax int) int {
	t.Helper()
	for y := yMin; y < yMax; y++ {
		for x := xMin; x < xMax; x++ {
			if blackAt(t, img, x, y) {
				return y
			}
		}
	}
	return -1
}

func TestNewRejectsBadDimensions(t *testing.T) {
	if _, err := New(0, 480); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := New(800, -1); err == nil {
		t.Error("expected error for negative height")
	}
}

func TestRenderCanvasGeometry(t *testing.T) {
	g := testGenerator(t)

	img := g.Render(testPayload())

	p, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("expected *image.Paletted, got %T", img)
	}
	if got := p.Bounds(); got.Dx() != 800 || got.Dy() != 480 {
		t.Errorf("canvas = %dx%d, want 800x480", got.Dx(), got.Dy())
	}
	if len(p.Palette) != 2 {
		t.Errorf("palette has %d colors, want 2", len(p.Palette))
	}
}

func TestRenderDrawsFooterRule(t *testing.T) {
	g := testGenerator(t)

	img := g.Render(testPayload())

	// Footer rule spans margin..width-margin at height-60.
	for _, x := range []int{20, 400, 779} {
		if !blackAt(t, img, x, 420) {
			t.Errorf("expected footer rule ink at (%d, 420)", x)
		}
	}
	if blackAt(t, img, 10, 420) {
		t.Error("footer rule must not cross the left margin")
	}
}

func TestRenderDrawsTitleAndBody(t *testing.T) {
	g := testGenerator(t)

	img := g.Render(testPayload())

	// Title band (no portrait layout starts the title at y=40).
	if row := firstInkRow(t, img, 0, 800, 30, 110); row == -1 {
		t.Error("expected title ink in the header band")
	}
	// Body band between header (120) and footer (400).
	if row := firstInkRow(t, img, 60, 740, 125, 400); row == -1 {
		t.Error("expected fact ink in the content band")
	}
}

func TestRenderEmptyFactFallsBackToError(t *testing.T) {
	g := testGenerator(t)

	got := g.Render(display.Payload{Status: display.StatusOK})
	want := g.RenderError("No Chuck Norris fact available")

	gotBytes, err := Encode(got, FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	wantBytes, err := Encode(want, FormatPNG)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(gotBytes, wantBytes) {
		t.Error("payload without fact text should render the error canvas")
	}
}

func TestRenderLongFactShrinksAndStartsHigher(t *testing.T) {
	g := testGenerator(t)

	short := testPayload()
	short.Fact = "Short fact."

	long := testPayload()
	long.Fact = strings.Repeat("Many words that keep wrapping across the panel. ", 12)

	shortTop := firstInkRow(t, g.Render(short), 60, 740, 125, 400)
	longTop := firstInkRow(t, g.Render(long), 60, 740, 125, 400)

	if shortTop == -1 || longTop == -1 {
		t.Fatalf("expected body ink for both renders, got rows %d and %d", shortTop, longTop)
	}
	// The long fact wraps to a taller centered block, so its first ink row
	// sits above the short fact's.
	if longTop >= shortTop {
		t.Errorf("long fact block should start higher: long=%d short=%d", longTop, shortTop)
	}
}

func TestRenderWithPortrait(t *testing.T) {
	g := testGenerator(t)
	g.SetPortrait(gradientImage(240, 240))

	if !g.HasPortrait() {
		t.Fatal("expected portrait to be installed")
	}

	img := g.Render(testPayload())

	// Header rule moves to margin + portraitHeight + margin = 160.
	if !blackAt(t, img, 21, 160) {
		t.Error("expected header rule at y=160 with portrait")
	}
	// The dithered gradient leaves ink inside the portrait box.
	if row := firstInkRow(t, img, 20, 140, 20, 140); row == -1 {
		t.Error("expected portrait ink in the header")
	}
}

func TestRenderWithoutPortraitHasNoPortraitRule(t *testing.T) {
	g := testGenerator(t)

	img := g.Render(testPayload())

	// Column 21 only ever carries rules; the portrait-layout rule at y=160
	// must be absent.
	if blackAt(t, img, 21, 160) {
		t.Error("unexpected ink at (21, 160) without portrait")
	}
}

func TestRenderErrorCanvas(t *testing.T) {
	g := testGenerator(t)

	img := g.RenderError("fact API unreachable")

	p, ok := img.(*image.Paletted)
	if !ok {
		t.Fatalf("expected *image.Paletted, got %T", img)
	}
	if got := p.Bounds(); got.Dx() != 800 || got.Dy() != 480 {
		t.Errorf("canvas = %dx%d, want 800x480", got.Dx(), got.Dy())
	}
	// "Error" title near the top, message near the vertical center.
	if row := firstInkRow(t, img, 0, 800, 30, 110); row == -1 {
		t.Error("expected error title ink")
	}
	if row := firstInkRow(t, img, 0, 800, 200, 280); row == -1 {
		t.Error("expected error message ink near center")
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "utc", input: "2025-06-01T12:30:45Z", want: "2025-06-01 12:30:45 UTC"},
		{name: "offset normalized", input: "2025-06-01T14:30:45+02:00", want: "2025-06-01 12:30:45 UTC"},
		{name: "unparseable passes through", input: "garbage", want: "garbage"},
		{name: "empty passes through", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTimestamp(tt.input); got != tt.want {
				t.Errorf("formatTimestamp(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
