package render

import (
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func testFace(t *testing.T) font.Face {
	t.Helper()
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	face, err := newFace(f, 24)
	if err != nil {
		t.Fatal(err)
	}
	return face
}

func TestWrapWidth(t *testing.T) {
	face := testFace(t)
	text := "The quick brown fox jumps over the lazy dog and keeps on running"

	lines := wrapWidth(face, text, 200)

	if len(lines) < 2 {
		t.Fatalf("expected multiple lines at 200px, got %d", len(lines))
	}
	for _, line := range lines {
		if w := font.MeasureString(face, line).Ceil(); w > 200 {
			t.Errorf("line %q measures %dpx, over the 200px limit", line, w)
		}
	}
	if got := strings.Join(lines, " "); got != text {
		t.Errorf("wrapping must preserve words: got %q", got)
	}
}

func TestWrapWidthLongWord(t *testing.T) {
	face := testFace(t)
	text := "tiny Pneumonoultramicroscopicsilicovolcanoconiosis tiny"

	lines := wrapWidth(face, text, 100)

	// The oversized word stays unsplit on its own line.
	found := false
	for _, line := range lines {
		if line == "Pneumonoultramicroscopicsilicovolcanoconiosis" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected the long word on its own line, got %v", lines)
	}
}

func TestWrapWidthEmpty(t *testing.T) {
	face := testFace(t)
	if lines := wrapWidth(face, "   ", 200); lines != nil {
		t.Errorf("expected nil for blank text, got %v", lines)
	}
}

func TestWrapColumns(t *testing.T) {
	text := "one two three four five six seven eight nine ten eleven twelve"

	lines := wrapColumns(text, 20)

	for _, line := range lines {
		if len(line) > 20 {
			t.Errorf("line %q is %d chars, over the 20 char limit", line, len(line))
		}
	}
	if got := strings.Join(lines, " "); got != text {
		t.Errorf("wrapping must preserve words: got %q", got)
	}
}

func TestWrapColumnsSingleLongWord(t *testing.T) {
	lines := wrapColumns("abcdefghijklmnopqrstuvwxyz", 10)
	if len(lines) != 1 || lines[0] != "abcdefghijklmnopqrstuvwxyz" {
		t.Errorf("long single word should stay unsplit, got %v", lines)
	}
}
