// Package report consolidates a pipeline run into a per-redaction
// summary, serialised as JSON and optionally rendered as a visual PDF
// overlay.
package report

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/pipeline"
)

// GapInfo is the serialised character-count estimate.
type GapInfo struct {
	WidthMM           float64 `json:"width_mm"`
	Family            string  `json:"family"`
	PointEstimate     int     `json:"point_estimate"`
	MinChars          int     `json:"min_chars"`
	MaxChars          int     `json:"max_chars"`
	Heuristic         bool    `json:"heuristic,omitempty"`
	ReducedConfidence bool    `json:"reduced_confidence,omitempty"`
}

// PredictionInfo is the serialised content-type prediction.
type PredictionInfo struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Rule       string  `json:"rule"`
}

// CandidateInfo is one ranked candidate.
type CandidateInfo struct {
	Text    string  `json:"text"`
	WidthMM float64 `json:"width_mm"`
	DeltaMM float64 `json:"delta_mm"`
	Score   float64 `json:"score"`
}

// Result is everything inferred about one redaction.
type Result struct {
	ID           string          `json:"id"`
	Page         int             `json:"page"`
	Box          geom.Box        `json:"box"`
	WidthMM      float64         `json:"width_mm"`
	OwnerBlockID string          `json:"owner_block_id,omitempty"`
	BlockIDs     []string        `json:"block_ids,omitempty"`
	Orphaned     bool            `json:"orphaned,omitempty"`
	PreContext   string          `json:"pre_context,omitempty"`
	PostContext  string          `json:"post_context,omitempty"`
	Gap          *GapInfo        `json:"gap,omitempty"`
	Prediction   *PredictionInfo `json:"prediction,omitempty"`
	Candidates   []CandidateInfo `json:"candidates,omitempty"`
}

// StageTiming is one stage's wall time in milliseconds.
type StageTiming struct {
	Stage        string  `json:"stage"`
	Milliseconds float64 `json:"ms"`
}

// Report is the consolidated output of one document run.
type Report struct {
	Filename     string        `json:"filename,omitempty"`
	GeneratedAt  time.Time     `json:"generated_at"`
	Pages        int           `json:"pages"`
	SkippedPages []int         `json:"skipped_pages,omitempty"`
	Redactions   []Result      `json:"redactions"`
	Anomalies    []string      `json:"anomalies,omitempty"`
	Timings      []StageTiming `json:"timings,omitempty"`
}

// Build flattens the pipeline state into a report. Redactions appear in
// page order then detection order, matching their IDs.
func Build(st *pipeline.State, timings []pipeline.Timing) *Report {
	r := &Report{
		Filename:    st.Document.Filename,
		GeneratedAt: time.Now().UTC(),
		Pages:       len(st.Document.Pages),
		Redactions:  make([]Result, 0),
	}
	for i, err := range st.PageErrors {
		if err != nil {
			r.SkippedPages = append(r.SkippedPages, i)
		}
	}

	for page, res := range st.Redactions {
		if res == nil {
			continue
		}
		size := st.Document.Pages[page].Size
		for _, red := range res.Redactions {
			out := Result{
				ID:           red.ID,
				Page:         page,
				Box:          red.Box,
				WidthMM:      red.Box.WidthMM(size),
				OwnerBlockID: red.OwnerBlockID,
				BlockIDs:     red.BlockIDs,
				Orphaned:     red.Orphaned,
				PreContext:   red.PreContext,
				PostContext:  red.PostContext,
			}
			if gap, ok := st.Gaps[red.ID]; ok {
				out.Gap = &GapInfo{
					WidthMM:           gap.WidthMM,
					Family:            gap.Family,
					PointEstimate:     gap.PointEstimate,
					MinChars:          gap.MinChars,
					MaxChars:          gap.MaxChars,
					Heuristic:         gap.Heuristic,
					ReducedConfidence: gap.ReducedConfidence,
				}
			}
			if pred, ok := st.Predictions[red.ID]; ok {
				out.Prediction = &PredictionInfo{
					Type:       string(pred.Type),
					Confidence: pred.Confidence,
					Rule:       pred.Rule,
				}
			}
			for _, c := range st.Rankings[red.ID] {
				out.Candidates = append(out.Candidates, CandidateInfo{
					Text:    c.Text,
					WidthMM: c.WidthMM,
					DeltaMM: c.DeltaMM,
					Score:   c.Score,
				})
			}
			r.Redactions = append(r.Redactions, out)
		}
	}

	for _, a := range st.Anomalies() {
		r.Anomalies = append(r.Anomalies, a.String())
	}
	for _, tm := range timings {
		r.Timings = append(r.Timings, StageTiming{
			Stage:        tm.Stage,
			Milliseconds: float64(tm.Duration.Microseconds()) / 1000.0,
		})
	}
	return r
}

// JSON serialises the report with indentation.
func (r *Report) JSON() ([]byte, error) {
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}
