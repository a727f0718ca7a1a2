package model

import (
	"fmt"

	"github.com/moghammed/epstein-universal-unredaction/geom"
)

// TextLayerStatus describes how much usable embedded text a page carries.
type TextLayerStatus int

const (
	// TextLayerPresent means the page has a full embedded text layer.
	TextLayerPresent TextLayerStatus = iota
	// TextLayerPartial means some regions have text, others are image-only.
	TextLayerPartial
	// TextLayerAbsent means the page is image-only (scanned without OCR).
	TextLayerAbsent
)

// MarshalText renders the status for the JSON wire format.
func (s TextLayerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses the wire-format status. Unknown values are an
// error so that a producer typo does not silently mean "present".
func (s *TextLayerStatus) UnmarshalText(text []byte) error {
	switch string(text) {
	case "present", "":
		*s = TextLayerPresent
	case "partial":
		*s = TextLayerPartial
	case "absent":
		*s = TextLayerAbsent
	default:
		return fmt.Errorf("unknown text layer status %q", text)
	}
	return nil
}

func (s TextLayerStatus) String() string {
	switch s {
	case TextLayerPartial:
		return "partial"
	case TextLayerAbsent:
		return "absent"
	default:
		return "present"
	}
}

// Page is one page of an ingested document: physical dimensions plus the
// ordered raw content handed over by the ingestion collaborator.
// Pages are immutable after creation.
type Page struct {
	// Index is the zero-based page index within the document.
	Index int `json:"index"`

	// Size holds the physical page dimensions in millimetres.
	Size geom.PageSize `json:"size"`

	// Elements are the positioned text runs in stream order.
	Elements []Element `json:"elements,omitempty"`

	// Primitives are the drawing primitives in stream order.
	Primitives []Primitive `json:"primitives,omitempty"`

	// TextLayer reports whether the page carried embedded text.
	TextLayer TextLayerStatus `json:"text_layer"`
}

// Document is the complete ingested input for one run.
type Document struct {
	// Filename identifies the source document (informational only).
	Filename string `json:"filename,omitempty"`

	// Pages in document order. Page i must have Index i.
	Pages []Page `json:"pages"`
}

// Validate checks the structural assumptions the pipeline relies on.
// It returns a MalformedInputError wrapping the first violation found.
func (d *Document) Validate() error {
	for i := range d.Pages {
		p := &d.Pages[i]
		if p.Index != i {
			return &MalformedInputError{Page: i, Reason: fmt.Sprintf("page index %d at position %d", p.Index, i)}
		}
		if p.Size.WidthMM <= 0 || p.Size.HeightMM <= 0 {
			return &MalformedInputError{Page: i, Reason: fmt.Sprintf("non-positive page size %+v", p.Size)}
		}
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// BlockID formats the canonical identifier for block index on a page.
func BlockID(page, index int) string {
	return fmt.Sprintf("p%d_b%d", page, index)
}

// RedactionID formats the canonical identifier for redaction index on a page.
func RedactionID(page, index int) string {
	return fmt.Sprintf("p%d_r%d", page, index)
}
