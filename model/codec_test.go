package model

import (
	"testing"

	"github.com/moghammed/epstein-universal-unredaction/geom"
)

func TestDecodeDocument(t *testing.T) {
	payload := []byte(`{
		"filename": "deposition.pdf",
		"pages": [{
			"index": 0,
			"size": {"width_mm": 210, "height_mm": 297},
			"text_layer": "present",
			"elements": [{
				"text": "Name:",
				"box": {"x": 0.1, "y": 0.1, "w": 0.1, "h": 0.02},
				"font_family": "Helvetica",
				"font_size_pt": 11
			}],
			"primitives": [{
				"kind": "fill",
				"box": {"x": 0.35, "y": 0.1, "w": 0.2, "h": 0.02},
				"fill": {"r": 0, "g": 0, "b": 0},
				"opacity": 1,
				"rectangularity": 1
			}]
		}]
	}`)
	doc, err := DecodeDocument(payload)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if doc.Filename != "deposition.pdf" || len(doc.Pages) != 1 {
		t.Fatalf("doc = %+v", doc)
	}
	page := doc.Pages[0]
	if page.Size.WidthMM != 210 || page.TextLayer != TextLayerPresent {
		t.Errorf("page = %+v", page)
	}
	if len(page.Elements) != 1 || page.Elements[0].Text != "Name:" {
		t.Errorf("elements = %+v", page.Elements)
	}
	if len(page.Primitives) != 1 || page.Primitives[0].Kind != PrimitiveFill {
		t.Errorf("primitives = %+v", page.Primitives)
	}
}

func TestDecodeDocumentEnumErrors(t *testing.T) {
	bad := []byte(`{"pages": [{"index": 0, "size": {"width_mm": 210, "height_mm": 297}, "text_layer": "maybe"}]}`)
	if _, err := DecodeDocument(bad); err == nil {
		t.Fatal("expected an error for an unknown text layer status")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := &Document{
		Filename: "a.pdf",
		Pages: []Page{{
			Index:     0,
			Size:      geom.PageSize{WidthMM: 216, HeightMM: 279},
			TextLayer: TextLayerAbsent,
		}},
	}
	data, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("EncodeDocument: %v", err)
	}
	back, err := DecodeDocument(data)
	if err != nil {
		t.Fatalf("DecodeDocument: %v", err)
	}
	if back.Pages[0].TextLayer != TextLayerAbsent {
		t.Errorf("text layer = %v", back.Pages[0].TextLayer)
	}
	if back.Pages[0].Size != doc.Pages[0].Size {
		t.Errorf("size = %+v", back.Pages[0].Size)
	}
}
