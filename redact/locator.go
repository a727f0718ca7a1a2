package redact

import (
	"fmt"
	"sort"

	"github.com/tidwall/rtree"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/segment"
)

// Redaction is a detected opaque covering region with its block anchors
// and context window. Produced once; read-only afterwards.
type Redaction struct {
	// ID is the canonical identifier "p{page}_r{index}", indexed in
	// detection order.
	ID string

	// Box is the redaction's bounding box in normalized coordinates.
	Box geom.Box

	// BlockIDs are the identifiers of every block the redaction overlaps
	// above the configured fraction, best overlap first.
	BlockIDs []string

	// OwnerBlockID is the block supplying the context window (the largest
	// overlap). Empty for orphaned redactions.
	OwnerBlockID string

	// PreContext is the text immediately before the redaction within the
	// owning block, clipped to the token budget.
	PreContext string

	// PostContext is the text immediately after the redaction within the
	// owning block, clipped to the token budget.
	PostContext string

	// Orphaned is set when no block overlap qualified.
	Orphaned bool
}

// Config holds the detection and context-extraction thresholds.
type Config struct {
	// MinAreaMM2 is the minimum physical area, in square millimetres, for
	// a fill to count as a redaction (default: 40). Glyphs are far smaller.
	MinAreaMM2 float64

	// MaxLuminance is the maximum fill luminance; redaction ink is dark
	// (default: 0.25).
	MaxLuminance float64

	// MinOpacity is the minimum fill alpha (default: 0.9).
	MinOpacity float64

	// MinRectangularity is the minimum fraction of the bounding box the
	// painted path must cover (default: 0.85).
	MinRectangularity float64

	// MinBlockOverlap is the minimum fraction of the redaction's own area
	// a block must cover to be recorded as overlapping (default: 0.05).
	MinBlockOverlap float64

	// ContextTokens is the token budget for each side of the context
	// window (default: 12).
	ContextTokens int
}

// DefaultConfig returns the provisional default thresholds.
func DefaultConfig() Config {
	return Config{
		MinAreaMM2:        40.0,
		MaxLuminance:      0.25,
		MinOpacity:        0.9,
		MinRectangularity: 0.85,
		MinBlockOverlap:   0.05,
		ContextTokens:     12,
	}
}

// Result holds the located redactions for one page.
type Result struct {
	Redactions []Redaction
	Anomalies  []model.Anomaly
}

// Locator detects redactions and extracts their context windows.
type Locator struct {
	config Config
}

// NewLocator creates a locator with default configuration.
func NewLocator() *Locator {
	return &Locator{config: DefaultConfig()}
}

// NewLocatorWithConfig creates a locator with custom configuration.
func NewLocatorWithConfig(config Config) *Locator {
	return &Locator{config: config}
}

// Locate scans the page's primitives for redaction boxes and resolves each
// against the page's segmented blocks. Redactions are emitted in detection
// (stream) order; overlapping redactions are processed independently.
func (l *Locator) Locate(page *model.Page, seg *segment.Result) *Result {
	result := &Result{}

	// Spatial index over block boxes for overlap queries.
	var index rtree.RTreeG[int]
	for i, blk := range seg.Blocks {
		index.Insert(
			[2]float64{blk.Box.Left(), blk.Box.Top()},
			[2]float64{blk.Box.Right(), blk.Box.Bottom()},
			i,
		)
	}

	for _, prim := range page.Primitives {
		if !l.isRedaction(prim, page.Size) {
			continue
		}

		idx := len(result.Redactions)
		red := Redaction{
			ID:  model.RedactionID(page.Index, idx),
			Box: prim.Box,
		}

		overlaps := l.overlappingBlocks(&index, seg, red.Box)
		if len(overlaps) == 0 {
			red.Orphaned = true
			result.Anomalies = append(result.Anomalies, model.Anomaly{
				Kind:     model.AnomalyNoOverlap,
				Page:     page.Index,
				EntityID: red.ID,
				Detail:   "redaction overlaps no block",
			})
		} else {
			for _, o := range overlaps {
				red.BlockIDs = append(red.BlockIDs, seg.Blocks[o.block].ID)
			}
			owner := &seg.Blocks[overlaps[0].block]
			red.OwnerBlockID = owner.ID
			red.PreContext, red.PostContext = extractContext(page.Elements, owner, red.Box, l.config.ContextTokens)
		}

		result.Redactions = append(result.Redactions, red)
	}
	return result
}

// isRedaction applies the shape, size, and ink tests to one primitive.
func (l *Locator) isRedaction(p model.Primitive, size geom.PageSize) bool {
	if p.Kind != model.PrimitiveFill {
		return false
	}
	if p.Box.IsDegenerate() {
		return false
	}
	areaMM2 := p.Box.WidthMM(size) * p.Box.HeightMM(size)
	if areaMM2 < l.config.MinAreaMM2 {
		return false
	}
	if p.Fill.Luminance() > l.config.MaxLuminance {
		return false
	}
	if p.Opacity < l.config.MinOpacity {
		return false
	}
	if p.Rectangularity < l.config.MinRectangularity {
		return false
	}
	return true
}

type blockOverlap struct {
	block    int
	fraction float64
}

// overlappingBlocks returns the blocks overlapping box above the threshold,
// sorted by descending overlap fraction, then ascending block rank so the
// result is deterministic.
func (l *Locator) overlappingBlocks(index *rtree.RTreeG[int], seg *segment.Result, box geom.Box) []blockOverlap {
	var overlaps []blockOverlap
	index.Search(
		[2]float64{box.Left(), box.Top()},
		[2]float64{box.Right(), box.Bottom()},
		func(min, max [2]float64, block int) bool {
			frac := box.OverlapFraction(seg.Blocks[block].Box)
			if frac >= l.config.MinBlockOverlap {
				overlaps = append(overlaps, blockOverlap{block: block, fraction: frac})
			}
			return true
		},
	)
	sort.SliceStable(overlaps, func(i, j int) bool {
		if overlaps[i].fraction != overlaps[j].fraction {
			return overlaps[i].fraction > overlaps[j].fraction
		}
		return overlaps[i].block < overlaps[j].block
	})
	return overlaps
}

// String implements fmt.Stringer for debugging output.
func (r Redaction) String() string {
	return fmt.Sprintf("%s owner=%s orphaned=%v", r.ID, r.OwnerBlockID, r.Orphaned)
}
