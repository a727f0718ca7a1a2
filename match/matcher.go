package match

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/moghammed/epstein-universal-unredaction/classify"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/typo"
)

// Candidate is one scored replacement hypothesis for a redaction.
type Candidate struct {
	// Text is the candidate string.
	Text string

	// WidthMM is its rendered width under the active profile.
	WidthMM float64

	// DeltaMM is the signed difference WidthMM - gap width.
	DeltaMM float64

	// Score is the width-fit score in (0,1]; 1 is a perfect fit.
	Score float64
}

// Config holds the ranking parameters.
type Config struct {
	// SigmaMM is the width tolerance of the Gaussian score
	// exp(-delta^2 / (2 sigma^2)), in millimetres (default: 1.5).
	SigmaMM float64

	// TopN caps the ranked candidate list (default: 10).
	TopN int
}

// DefaultConfig returns the provisional default ranking parameters.
func DefaultConfig() Config {
	return Config{
		SigmaMM: 1.5,
		TopN:    10,
	}
}

// Matcher scores dictionary candidates against gaps. Immutable after
// construction; safe for concurrent use across redactions.
type Matcher struct {
	corpus *Corpus
	config Config
}

// NewMatcher creates a matcher over the given corpus with defaults.
func NewMatcher(corpus *Corpus) *Matcher {
	return &Matcher{corpus: corpus, config: DefaultConfig()}
}

// NewMatcherWithConfig creates a matcher with custom ranking parameters.
func NewMatcherWithConfig(corpus *Corpus, config Config) *Matcher {
	return &Matcher{corpus: corpus, config: config}
}

// Rank scores the candidate pool for one redaction and returns the top-N
// list, best first. With a prediction the pool is that content type's
// dictionary; otherwise the general pool filtered to the gap's
// character-count bounds. An empty pool yields an empty list, never an
// error. A context deadline gracefully truncates the scan: whatever was
// scored so far is ranked and returned with a truncation anomaly.
func (m *Matcher) Rank(ctx context.Context, page int, gap *typo.Gap, pred *classify.Prediction, metrics *typo.FamilyMetrics) ([]Candidate, []model.Anomaly) {
	var anomalies []model.Anomaly

	pool, filterByCount := m.pool(pred)
	if pool.Len() == 0 {
		anomalies = append(anomalies, model.Anomaly{
			Kind:     model.AnomalyEmptyDictionary,
			Page:     page,
			EntityID: gap.RedactionID,
			Detail:   "no candidate pool for redaction",
		})
		return nil, anomalies
	}

	twoSigmaSq := 2 * m.config.SigmaMM * m.config.SigmaMM

	type scored struct {
		Candidate
		freq float64
	}
	candidates := make([]scored, 0, pool.Len())
	for i, entry := range pool.Entries() {
		// The deadline check is amortized; dictionary scans are the only
		// long-running loop in the core.
		if i%256 == 0 && ctx.Err() != nil {
			anomalies = append(anomalies, model.Anomaly{
				Kind:     model.AnomalyDeadlineTruncated,
				Page:     page,
				EntityID: gap.RedactionID,
				Detail:   "dictionary scan stopped at deadline",
			})
			break
		}
		if filterByCount && !gap.Fits(utf8.RuneCountInString(entry.Text)) {
			continue
		}

		width := metrics.StringWidthMM(entry.Text)
		delta := width - gap.WidthMM
		candidates = append(candidates, scored{
			Candidate: Candidate{
				Text:    entry.Text,
				WidthMM: width,
				DeltaMM: delta,
				Score:   math.Exp(-(delta * delta) / twoSigmaSq),
			},
			freq: entry.Freq,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		if candidates[i].freq != candidates[j].freq {
			return candidates[i].freq > candidates[j].freq
		}
		return candidates[i].Text < candidates[j].Text
	})

	n := m.config.TopN
	if n > len(candidates) {
		n = len(candidates)
	}
	top := make([]Candidate, n)
	for i := range top {
		top[i] = candidates[i].Candidate
	}
	return top, anomalies
}

// pool selects the candidate pool and reports whether it should be
// pre-filtered by the gap's character-count bounds.
func (m *Matcher) pool(pred *classify.Prediction) (*Dictionary, bool) {
	if pred != nil {
		return m.corpus.ForType(pred.Type), false
	}
	return m.corpus.General(), true
}
