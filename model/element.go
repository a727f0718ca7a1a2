package model

import (
	"fmt"

	"github.com/moghammed/epstein-universal-unredaction/geom"
)

// Element is a positioned text run on a page, as produced by the ingestion
// collaborator. Coordinates are normalized to the page's unit square.
type Element struct {
	// Text is the rendered text of the run, NFC-normalized by ingestion.
	Text string `json:"text"`

	// Box is the run's bounding box in normalized coordinates.
	Box geom.Box `json:"box"`

	// Baseline is the normalized Y coordinate of the text baseline.
	// Zero means unknown; consumers fall back to Box.Bottom().
	Baseline float64 `json:"baseline,omitempty"`

	// FontFamily is the reported font family (e.g. "Helvetica-Bold").
	// Empty when the producer could not resolve it.
	FontFamily string `json:"font_family,omitempty"`

	// FontSizePt is the font size in points. Zero when unknown.
	FontSizePt float64 `json:"font_size_pt,omitempty"`
}

// BaselineY returns the baseline Y coordinate, falling back to the bottom
// edge of the bounding box when no baseline was reported.
func (e Element) BaselineY() float64 {
	if e.Baseline > 0 {
		return e.Baseline
	}
	return e.Box.Bottom()
}

// PrimitiveKind classifies a drawing primitive.
type PrimitiveKind int

const (
	// PrimitiveFill is a filled path (the only kind redaction detection
	// considers; a redaction is a filled rectangle).
	PrimitiveFill PrimitiveKind = iota
	// PrimitiveStroke is a stroked path (rules, underlines, table borders).
	PrimitiveStroke
	// PrimitiveImage is a placed raster image.
	PrimitiveImage
)

// MarshalText renders the kind for the JSON wire format.
func (k PrimitiveKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the wire-format kind.
func (k *PrimitiveKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "fill", "":
		*k = PrimitiveFill
	case "stroke":
		*k = PrimitiveStroke
	case "image":
		*k = PrimitiveImage
	default:
		return fmt.Errorf("unknown primitive kind %q", text)
	}
	return nil
}

func (k PrimitiveKind) String() string {
	switch k {
	case PrimitiveStroke:
		return "stroke"
	case PrimitiveImage:
		return "image"
	default:
		return "fill"
	}
}

// Color is an RGB color with components in [0,1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

// Luminance returns the perceptual luminance of the color in [0,1].
// Redaction ink is expected to be dark: low luminance.
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Primitive is a drawing primitive on a page in normalized coordinates.
type Primitive struct {
	Kind PrimitiveKind `json:"kind"`

	// Box is the primitive's bounding box.
	Box geom.Box `json:"box"`

	// Fill is the fill (or stroke) color.
	Fill Color `json:"fill"`

	// Opacity is the fill alpha in [0,1]; 1 is fully opaque.
	Opacity float64 `json:"opacity"`

	// Rectangularity is the fraction of Box actually covered by the
	// painted path, in [0,1]. 1 means an exact rectangle. Producers that
	// cannot measure it should report 1 for rectangle operators.
	Rectangularity float64 `json:"rectangularity"`
}
