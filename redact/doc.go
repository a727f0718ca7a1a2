// Package redact detects opaque redaction boxes among a page's drawing
// primitives and anchors each one to the logical blocks it covers.
//
// A primitive qualifies as a redaction when it is a filled, sufficiently
// rectangular region above a minimum physical area with a dark, opaque
// fill. Glyph ink fails the area test; decorative rules fail the
// rectangularity or area tests. Each detected redaction is mapped to every
// block it overlaps above a minimum fraction of its own area; the block
// with the greatest overlap owns the redaction and supplies its context
// window. A redaction overlapping no block is flagged orphaned and still
// emitted.
//
// Context windows are bounded token runs drawn from the owning block only:
// text never crosses a block boundary, even when another block is visually
// adjacent.
package redact
