package typo

import (
	"math"
	"testing"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
)

func makeElement(text, family string, sizePt, x, y, w, h float64) model.Element {
	return model.Element{
		Text:       text,
		Box:        geom.NewBox(x, y, w, h),
		FontFamily: family,
		FontSizePt: sizePt,
	}
}

func singlePageDoc(elements ...model.Element) *model.Document {
	return &model.Document{
		Filename: "test.pdf",
		Pages: []model.Page{
			{Index: 0, Size: geom.PageSize{WidthMM: 210, HeightMM: 297}, Elements: elements},
		},
	}
}

func TestBuildProfileMetricFamily(t *testing.T) {
	doc := singlePageDoc(
		makeElement("The quick brown fox", "Helvetica", 12, 0.1, 0.1, 0.3, 0.02),
	)
	profile := NewBuilder().Build(doc)

	if profile.DominantFamily != "Helvetica" {
		t.Errorf("Expected dominant family Helvetica, got %q", profile.DominantFamily)
	}

	metrics, exact := profile.Family("Helvetica")
	if !exact {
		t.Fatal("Expected exact family hit")
	}
	if metrics.Heuristic {
		t.Error("Helvetica should use metric table, not heuristic")
	}

	// 'm' at 12pt: 833/1000 * 12pt * 0.3528mm = 3.53mm
	want := 833.0 / 1000.0 * 12.0 * geom.PtToMM
	if got := metrics.CharWidthMM('m'); math.Abs(got-want) > 1e-9 {
		t.Errorf("CharWidthMM('m') = %f, want %f", got, want)
	}

	// Monotone sanity: 'i' narrower than 'm', 'W' wider than 'a'.
	if metrics.CharWidthMM('i') >= metrics.CharWidthMM('m') {
		t.Error("'i' should be narrower than 'm'")
	}
	if metrics.CharWidthMM('W') <= metrics.CharWidthMM('a') {
		t.Error("'W' should be wider than 'a'")
	}
}

func TestBuildProfileHeuristicFamily(t *testing.T) {
	// 20 characters over 40mm of box width: 2mm per character observed.
	doc := singlePageDoc(
		makeElement("aaaaaaaaaaaaaaaaaaaa", "Mystery-Sans", 10, 0.1, 0.1, 40.0/210.0, 0.02),
	)
	profile := NewBuilder().Build(doc)

	metrics, exact := profile.Family("Mystery-Sans")
	if !exact {
		t.Fatal("Expected exact family hit")
	}
	if !metrics.Heuristic {
		t.Fatal("Unknown family must be heuristic")
	}

	// Observed average calibrates the lowercase width to 2mm.
	if got := metrics.CharWidthMM('a'); math.Abs(got-2.0) > 1e-6 {
		t.Errorf("Calibrated lowercase width = %f, want 2.0", got)
	}
	// Uppercase wider, space narrower.
	if metrics.CharWidthMM('A') <= metrics.CharWidthMM('a') {
		t.Error("Uppercase should be wider than lowercase")
	}
	if metrics.CharWidthMM(' ') >= metrics.CharWidthMM('a') {
		t.Error("Space should be narrower than lowercase")
	}
}

func TestFamilyAliases(t *testing.T) {
	if lookupStandardWidths("Arial") == nil {
		t.Error("Arial should alias Helvetica")
	}
	if lookupStandardWidths("TimesNewRomanPSMT") == nil {
		t.Error("TimesNewRomanPSMT should alias Times-Roman")
	}
	if lookupStandardWidths("ABCDEF+Helvetica") == nil {
		t.Error("Subset prefix should be stripped")
	}
	if lookupStandardWidths("Wingdings-Custom") != nil {
		t.Error("Unknown family should have no table")
	}
}

func TestFamilyFallbackToDominant(t *testing.T) {
	doc := singlePageDoc(
		makeElement("lots of helvetica text here", "Helvetica", 11, 0.1, 0.1, 0.3, 0.02),
	)
	profile := NewBuilder().Build(doc)

	metrics, exact := profile.Family("Never-Seen")
	if exact {
		t.Error("Unprofiled family should not be an exact hit")
	}
	if metrics.Family != "Helvetica" {
		t.Errorf("Expected dominant-family fallback, got %q", metrics.Family)
	}
}

func TestStringWidthMM(t *testing.T) {
	doc := singlePageDoc(makeElement("x", "Courier", 10, 0.1, 0.1, 0.01, 0.02))
	profile := NewBuilder().Build(doc)
	metrics, _ := profile.Family("Courier")

	// Courier is monospaced: any 5 ASCII chars = 5 * 600/1000 * 10pt.
	want := 5 * 600.0 / 1000.0 * 10 * geom.PtToMM
	if got := metrics.StringWidthMM("Hello"); math.Abs(got-want) > 1e-9 {
		t.Errorf("StringWidthMM = %f, want %f", got, want)
	}
}

func TestDominantSize(t *testing.T) {
	weights := map[float64]int{10: 5, 12: 50, 24: 3}
	if got := dominantSize(weights, 11); got != 12 {
		t.Errorf("Expected 12, got %f", got)
	}
	if got := dominantSize(map[float64]int{}, 11); got != 11 {
		t.Errorf("Expected fallback 11, got %f", got)
	}
	// Zero sizes are ignored.
	if got := dominantSize(map[float64]int{0: 100}, 11); got != 11 {
		t.Errorf("Expected fallback for zero-only sizes, got %f", got)
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		r    rune
		want CharClass
	}{
		{'a', ClassLower}, {'Z', ClassUpper}, {'7', ClassDigit},
		{' ', ClassSpace}, {':', ClassPunct}, {'é', ClassLower},
	}
	for _, tt := range tests {
		if got := ClassOf(tt.r); got != tt.want {
			t.Errorf("ClassOf(%q) = %v, want %v", tt.r, got, tt.want)
		}
	}
}
