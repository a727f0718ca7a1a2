package ocr

import (
	"image"
	"math"
	"testing"
)

func TestElementsFromWords(t *testing.T) {
	// 2550x3300 px at 300 DPI is US Letter.
	words := []Word{
		{Text: "Jeffrey", Box: image.Rect(300, 300, 700, 345), Confidence: 92},
		{Text: "Name:", Box: image.Rect(100, 300, 280, 345), Confidence: 95},
		{Text: "smudge", Box: image.Rect(100, 600, 200, 640), Confidence: 12},
		{Text: "", Box: image.Rect(0, 0, 10, 10), Confidence: 99},
	}
	elements := ElementsFromWords(words, 2550, 3300, 300, 40)
	if len(elements) != 2 {
		t.Fatalf("got %d elements, want 2", len(elements))
	}
	// Same row sorts left to right.
	if elements[0].Text != "Name:" || elements[1].Text != "Jeffrey" {
		t.Errorf("order = %q, %q", elements[0].Text, elements[1].Text)
	}
	if got := elements[0].Box.X; math.Abs(got-100.0/2550.0) > 1e-9 {
		t.Errorf("X = %v", got)
	}
	// 45 px tall at 300 DPI is 45/300*72 = 10.8 pt.
	if got := elements[0].FontSizePt; math.Abs(got-10.8) > 1e-9 {
		t.Errorf("FontSizePt = %v, want 10.8", got)
	}
}

func TestElementsFromWordsBadGeometry(t *testing.T) {
	if got := ElementsFromWords([]Word{{Text: "x"}}, 0, 100, 300, 0); got != nil {
		t.Errorf("zero-width raster: got %v", got)
	}
	words := []Word{{Text: "x", Box: image.Rect(10, 10, 10, 40), Confidence: 90}}
	if got := ElementsFromWords(words, 100, 100, 300, 0); len(got) != 0 {
		t.Errorf("empty box should be dropped, got %v", got)
	}
}

func TestPrepareImageUpscales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 600, 800))
	out := PrepareImage(src, 1200)
	if out.Bounds().Dx() != 1200 || out.Bounds().Dy() != 1600 {
		t.Errorf("bounds = %v, want 1200x1600", out.Bounds())
	}
}

func TestPrepareImageKeepsLargeRasters(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2550, 3300))
	out := PrepareImage(src, 1200)
	if out.Bounds().Dx() != 2550 || out.Bounds().Dy() != 3300 {
		t.Errorf("bounds = %v, want 2550x3300", out.Bounds())
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(image.NewGray(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty PNG")
	}
}
