// Package model defines the input representation the analysis pipeline
// consumes and the cross-cutting types every stage shares.
//
// # Input representation
//
// The ingestion collaborator (a PDF parsing library, an OCR engine, or a
// test fixture) hands the core a [Document]: per-page physical dimensions
// in millimetres, an ordered list of positioned text [Element] values, and
// an ordered list of drawing [Primitive] values. All geometry is expressed
// in normalized [0,1] page coordinates (see the geom package). A Document
// is immutable once built; every downstream stage holds read-only views.
//
// # Identifiers
//
// Blocks and redactions are addressed by the fixed textual patterns
// "p{page}_b{index}" and "p{page}_r{index}" with zero-based indices, so
// consumers and tests can reference entities deterministically. Use
// [BlockID] and [RedactionID] to format them.
//
// # Anomalies
//
// Per-entity problems (degenerate geometry, orphaned redactions, missing
// font metrics, empty dictionaries) never abort a run. They are recorded
// as [Anomaly] values carried alongside stage results so that degraded
// inferences stay visible in the final report.
package model
