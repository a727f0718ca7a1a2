package model

import (
	"fmt"
	"strings"
)

// AnomalyKind identifies a class of recoverable per-entity problem.
type AnomalyKind int

const (
	// AnomalyDegenerateGeometry marks a zero-area or inverted box that was
	// excluded from analysis.
	AnomalyDegenerateGeometry AnomalyKind = iota
	// AnomalyNoOverlap marks a redaction that resolved to no block.
	AnomalyNoOverlap
	// AnomalyProfileFallback marks a gap estimated with heuristic widths
	// because font metrics were unavailable.
	AnomalyProfileFallback
	// AnomalyEmptyDictionary marks a redaction with no candidate pool.
	AnomalyEmptyDictionary
	// AnomalyNarrowGap marks a gap narrower than a single character,
	// bounded as [0,1] with reduced confidence.
	AnomalyNarrowGap
	// AnomalyDeadlineTruncated marks a candidate list cut short by the
	// caller's deadline.
	AnomalyDeadlineTruncated
	// AnomalyTextLayerMissing marks a page without an embedded text layer
	// that could not be recovered by recognition.
	AnomalyTextLayerMissing
)

func (k AnomalyKind) String() string {
	switch k {
	case AnomalyNoOverlap:
		return "no-overlap"
	case AnomalyProfileFallback:
		return "profile-fallback"
	case AnomalyEmptyDictionary:
		return "empty-dictionary"
	case AnomalyNarrowGap:
		return "narrow-gap"
	case AnomalyDeadlineTruncated:
		return "deadline-truncated"
	case AnomalyTextLayerMissing:
		return "text-layer-missing"
	default:
		return "degenerate-geometry"
	}
}

// Anomaly records a recoverable problem attached to a page or entity.
// Anomalies are accumulated alongside stage results and surfaced in the
// final report; they are never fatal.
type Anomaly struct {
	Kind AnomalyKind

	// Page is the zero-based page index the anomaly belongs to.
	Page int

	// EntityID is the block or redaction identifier when the anomaly is
	// entity-scoped, empty for page-scoped anomalies.
	EntityID string

	// Detail is a human-readable explanation.
	Detail string
}

func (a Anomaly) String() string {
	if a.EntityID != "" {
		return fmt.Sprintf("[%s] page %d %s: %s", a.Kind, a.Page, a.EntityID, a.Detail)
	}
	return fmt.Sprintf("[%s] page %d: %s", a.Kind, a.Page, a.Detail)
}

// FormatAnomalies renders anomalies one per line for logs and reports.
func FormatAnomalies(anomalies []Anomaly) string {
	if len(anomalies) == 0 {
		return ""
	}
	lines := make([]string, len(anomalies))
	for i, a := range anomalies {
		lines[i] = a.String()
	}
	return strings.Join(lines, "\n")
}

// MalformedInputError reports page or element data that violates the
// pipeline's structural assumptions. It is fatal for the affected page;
// the run continues with the remaining pages.
type MalformedInputError struct {
	Page   int
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed input on page %d: %s", e.Page, e.Reason)
}
