package typo

import (
	"fmt"
	"math"

	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/redact"
	"github.com/moghammed/epstein-universal-unredaction/segment"
)

// Gap is the physical-width-derived character-count estimate for one
// redaction. Immutable once computed; one-to-one with its redaction.
type Gap struct {
	// RedactionID ties the gap to its redaction.
	RedactionID string

	// WidthMM is the redaction's physical width in millimetres.
	WidthMM float64

	// Family is the font family the estimate was made under.
	Family string

	// PointEstimate is the most likely character count.
	PointEstimate int

	// MinChars and MaxChars bound the plausible character count,
	// inclusive. MinChars <= PointEstimate <= MaxChars and MinChars >= 0.
	MinChars int

	// MaxChars is the inclusive upper bound.
	MaxChars int

	// ReducedConfidence is set for gaps narrower than a single character,
	// which are bounded [0,1] rather than discarded.
	ReducedConfidence bool

	// Heuristic is set when the width model used the character-class
	// fallback instead of real font metrics.
	Heuristic bool
}

// Estimator converts redactions into gaps under a fixed profile.
type Estimator struct {
	profile *Profile
	config  Config
}

// NewEstimator creates an estimator over the given profile.
func NewEstimator(profile *Profile) *Estimator {
	return &Estimator{profile: profile, config: profile.config}
}

// EstimateAll produces one Gap per redaction on the page. The active font
// family for each redaction is the dominant family of its owning block;
// orphaned redactions use the document-dominant family.
func (e *Estimator) EstimateAll(page *model.Page, seg *segment.Result, reds *redact.Result) ([]Gap, []model.Anomaly) {
	blocksByID := make(map[string]*segment.Block, len(seg.Blocks))
	for i := range seg.Blocks {
		blocksByID[seg.Blocks[i].ID] = &seg.Blocks[i]
	}

	gaps := make([]Gap, 0, len(reds.Redactions))
	var anomalies []model.Anomaly
	for i := range reds.Redactions {
		red := &reds.Redactions[i]

		family := e.profile.DominantFamily
		if blk, ok := blocksByID[red.OwnerBlockID]; ok {
			family = blockDominantFamily(page.Elements, blk, family)
		}

		gap := e.Estimate(red.ID, red.Box.WidthMM(page.Size), family)
		gaps = append(gaps, gap)

		if gap.Heuristic {
			anomalies = append(anomalies, model.Anomaly{
				Kind:     model.AnomalyProfileFallback,
				Page:     page.Index,
				EntityID: red.ID,
				Detail:   fmt.Sprintf("no metrics for font %q, class fallback used", family),
			})
		}
		if gap.ReducedConfidence {
			anomalies = append(anomalies, model.Anomaly{
				Kind:     model.AnomalyNarrowGap,
				Page:     page.Index,
				EntityID: red.ID,
				Detail:   fmt.Sprintf("gap %.2fmm narrower than one character", gap.WidthMM),
			})
		}
	}
	return gaps, anomalies
}

// Estimate converts a physical gap width into a character-count range
// under the given font family.
func (e *Estimator) Estimate(redactionID string, widthMM float64, family string) Gap {
	metrics, _ := e.profile.Family(family)
	tol := e.config.TrackingTolerance

	gap := Gap{
		RedactionID: redactionID,
		WidthMM:     widthMM,
		Family:      metrics.Family,
		Heuristic:   metrics.Heuristic,
	}

	// Tracking widens the widest char and narrows the narrowest one.
	maxCharW := metrics.MaxCharWidthMM() * (1 + tol)
	minCharW := metrics.MinCharWidthMM() * (1 - tol)

	if widthMM < minCharW {
		// Too narrow for a single character under the model; may still be
		// a short token or a lone punctuation mark.
		gap.MinChars = 0
		gap.MaxChars = 1
		gap.PointEstimate = clampInt(int(math.Round(widthMM/metrics.AvgCharWidthMM())), 0, 1)
		gap.ReducedConfidence = true
		return gap
	}

	gap.PointEstimate = int(math.Round(widthMM / metrics.AvgCharWidthMM()))
	gap.MinChars = int(math.Floor(widthMM / maxCharW))
	gap.MaxChars = int(math.Ceil(widthMM / minCharW))

	// Bound consistency: min <= point <= max, min >= 0.
	if gap.MinChars < 0 {
		gap.MinChars = 0
	}
	gap.PointEstimate = clampInt(gap.PointEstimate, gap.MinChars, gap.MaxChars)
	return gap
}

// Fits reports whether a string of n characters falls inside the gap's
// inclusive character-count bounds.
func (g *Gap) Fits(n int) bool {
	return n >= g.MinChars && n <= g.MaxChars
}

// BoundSpread is the width of the character-count bound; large spreads
// mean weak estimates.
func (g *Gap) BoundSpread() int {
	return g.MaxChars - g.MinChars
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// blockDominantFamily returns the most common font family among the
// block's elements, weighted by text length; fallback when none found.
func blockDominantFamily(elements []model.Element, blk *segment.Block, fallback string) string {
	counts := make(map[string]int)
	for _, idx := range blk.Elements {
		el := elements[idx]
		if el.FontFamily == "" {
			continue
		}
		counts[el.FontFamily] += len(el.Text)
	}
	best, bestCount := fallback, 0
	for family, count := range counts {
		if count > bestCount || (count == bestCount && bestCount > 0 && family < best) {
			best, bestCount = family, count
		}
	}
	return best
}
