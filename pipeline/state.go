package pipeline

import (
	"fmt"
	"sync"

	"github.com/moghammed/epstein-universal-unredaction/classify"
	"github.com/moghammed/epstein-universal-unredaction/match"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/redact"
	"github.com/moghammed/epstein-universal-unredaction/segment"
	"github.com/moghammed/epstein-universal-unredaction/typo"
)

// Section names a write-once slot of the pipeline state. A stage
// declares the sections it requires and the ones it produces; the
// runner enforces the ordering.
type Section string

const (
	SectionText        Section = "text"
	SectionBlocks      Section = "blocks"
	SectionRedactions  Section = "redactions"
	SectionProfile     Section = "profile"
	SectionGaps        Section = "gaps"
	SectionPredictions Section = "predictions"
	SectionRankings    Section = "rankings"
)

// State accumulates stage outputs over one document. Results only ever
// grow: each section is written once by its producing stage and read by
// later stages, and anomalies append. SetRanking is safe for concurrent
// use; the section setters are called from a single stage goroutine.
type State struct {
	// Document is the input, possibly enriched in place by recognition.
	Document *model.Document

	// Segments holds one segmentation result per page.
	Segments []*segment.Result

	// Redactions holds one location result per page.
	Redactions []*redact.Result

	// Profile is the document-wide typographic profile.
	Profile *typo.Profile

	// Gaps, Predictions and Rankings are keyed by redaction ID.
	Gaps        map[string]typo.Gap
	Predictions map[string]classify.Prediction
	Rankings    map[string][]match.Candidate

	// PageErrors holds one entry per page; a non-nil entry is the
	// MalformedInputError that excluded the page from the run.
	PageErrors []error

	mu        sync.Mutex
	anomalies []model.Anomaly
	produced  map[Section]bool
}

// NewState creates the state for one document run.
func NewState(doc *model.Document) *State {
	return &State{
		Document:    doc,
		Gaps:        make(map[string]typo.Gap),
		Predictions: make(map[string]classify.Prediction),
		Rankings:    make(map[string][]match.Candidate),
		produced:    make(map[Section]bool),
	}
}

// Produced reports whether a section has been written.
func (s *State) Produced(sec Section) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.produced[sec]
}

func (s *State) markProduced(sec Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.produced[sec] {
		return fmt.Errorf("section %q already produced", sec)
	}
	s.produced[sec] = true
	return nil
}

// AddAnomalies appends anomalies to the run's accumulated list.
func (s *State) AddAnomalies(anomalies ...model.Anomaly) {
	if len(anomalies) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anomalies = append(s.anomalies, anomalies...)
}

// Anomalies returns a copy of the accumulated anomalies.
func (s *State) Anomalies() []model.Anomaly {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Anomaly, len(s.anomalies))
	copy(out, s.anomalies)
	return out
}

// SetRanking stores the candidate list for one redaction. Called
// concurrently by ranking workers; each redaction is written once.
func (s *State) SetRanking(redactionID string, candidates []match.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Rankings[redactionID]; ok {
		return fmt.Errorf("ranking for %s already set", redactionID)
	}
	s.Rankings[redactionID] = candidates
	return nil
}

// AllRedactions flattens the per-page results in page order.
func (s *State) AllRedactions() []redact.Redaction {
	var out []redact.Redaction
	for _, r := range s.Redactions {
		if r != nil {
			out = append(out, r.Redactions...)
		}
	}
	return out
}
