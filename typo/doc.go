// Package typo builds the document's typographic width model and converts
// each redaction's physical width into an estimated character-count range.
//
// Widths come from two sources. For the standard font families the package
// carries metric tables in 1000ths of an em, so a character's rendered
// width in millimetres is units/1000 x size(pt) x 25.4/72. For every other
// family the package falls back to a heuristic keyed by character class
// (digit, uppercase, lowercase, space, punctuation), calibrated against
// the average character width actually observed in that family's visible
// text. Gaps estimated through the fallback are flagged so downstream
// confidence can be reduced.
//
// The profile is built once per document and is immutable afterwards; it
// may be shared across goroutines without locking.
package typo
