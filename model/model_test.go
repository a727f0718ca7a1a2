package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/moghammed/epstein-universal-unredaction/geom"
)

func TestIdentifierFormats(t *testing.T) {
	if got := BlockID(0, 3); got != "p0_b3" {
		t.Errorf("BlockID(0,3) = %q", got)
	}
	if got := RedactionID(12, 0); got != "p12_r0" {
		t.Errorf("RedactionID(12,0) = %q", got)
	}
}

func TestDocumentValidate(t *testing.T) {
	doc := &Document{
		Filename: "ok.pdf",
		Pages: []Page{
			{Index: 0, Size: geom.PageSize{WidthMM: 210, HeightMM: 297}},
			{Index: 1, Size: geom.PageSize{WidthMM: 210, HeightMM: 297}},
		},
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("Valid document rejected: %v", err)
	}
}

func TestDocumentValidateBadIndex(t *testing.T) {
	doc := &Document{
		Pages: []Page{
			{Index: 1, Size: geom.PageSize{WidthMM: 210, HeightMM: 297}},
		},
	}
	err := doc.Validate()
	if err == nil {
		t.Fatal("Expected error for misnumbered page")
	}
	var malformed *MalformedInputError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedInputError, got %T", err)
	}
	if malformed.Page != 0 {
		t.Errorf("Expected page 0, got %d", malformed.Page)
	}
}

func TestDocumentValidateBadSize(t *testing.T) {
	doc := &Document{
		Pages: []Page{
			{Index: 0, Size: geom.PageSize{WidthMM: 0, HeightMM: 297}},
		},
	}
	if doc.Validate() == nil {
		t.Fatal("Expected error for zero-width page")
	}
}

func TestColorLuminance(t *testing.T) {
	black := Color{0, 0, 0}
	white := Color{1, 1, 1}

	if black.Luminance() != 0 {
		t.Errorf("Black luminance should be 0, got %f", black.Luminance())
	}
	if l := white.Luminance(); l < 0.999 || l > 1.001 {
		t.Errorf("White luminance should be 1, got %f", l)
	}
}

func TestElementBaselineFallback(t *testing.T) {
	e := Element{Box: geom.NewBox(0.1, 0.2, 0.3, 0.05)}
	if got := e.BaselineY(); got != 0.25 {
		t.Errorf("Expected fallback baseline 0.25, got %f", got)
	}

	e.Baseline = 0.24
	if got := e.BaselineY(); got != 0.24 {
		t.Errorf("Expected explicit baseline 0.24, got %f", got)
	}
}

func TestFormatAnomalies(t *testing.T) {
	anomalies := []Anomaly{
		{Kind: AnomalyNoOverlap, Page: 2, EntityID: "p2_r0", Detail: "no block overlap"},
		{Kind: AnomalyDegenerateGeometry, Page: 0, Detail: "zero-area element"},
	}

	out := FormatAnomalies(anomalies)
	if !strings.Contains(out, "no-overlap") || !strings.Contains(out, "p2_r0") {
		t.Errorf("Missing detail in %q", out)
	}
	if len(strings.Split(out, "\n")) != 2 {
		t.Errorf("Expected 2 lines, got %q", out)
	}

	if FormatAnomalies(nil) != "" {
		t.Error("Empty anomaly list should format to empty string")
	}
}
