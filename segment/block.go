package segment

import (
	"fmt"
	"sort"
	"strings"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
)

// Block is a logically coherent group of text elements with a computed
// reading-order rank. Blocks are produced once per page and never mutated
// afterwards.
type Block struct {
	// ID is the canonical identifier "p{page}_b{rank}".
	ID string

	// Box is the merged bounding box of the block's elements.
	Box geom.Box

	// Elements are indices into the page's element slice, in reading order.
	Elements []int

	// Lines are the block's elements grouped into lines, top to bottom.
	Lines []Line

	// Column is the zero-based column band the block belongs to.
	Column int

	// Rank is the block's position in the page's reading order.
	Rank int
}

// Text assembles the block's text in reading order, elements joined by
// single spaces and lines by newlines.
func (b *Block) Text(elements []model.Element) string {
	parts := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		words := make([]string, 0, len(line.Elements))
		for _, idx := range line.Elements {
			words = append(words, elements[idx].Text)
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, "\n")
}

// Config holds the segmentation thresholds. All defaults are provisional
// and exposed for empirical tuning against fixture documents.
type Config struct {
	// LineOverlapFraction is the minimum vertical-band overlap, as a
	// fraction of the smaller element height, for two elements to share a
	// line (default: 0.4).
	LineOverlapFraction float64

	// LineToleranceFactor scales the median element height into the
	// center-distance tolerance for line grouping (default: 0.5).
	LineToleranceFactor float64

	// BlockGapMultiplier is the multiple of the median line height a
	// vertical gap must exceed to start a new block (default: 1.5).
	BlockGapMultiplier float64

	// MinColumnGapMM is the minimum whitespace gap width, in millimetres,
	// to count as a column separator (default: 7).
	MinColumnGapMM float64

	// MinColumnGapHeightRatio is the minimum vertical extent of inspected
	// content, as a fraction of page height, before column gaps are
	// trusted (default: 0.5).
	MinColumnGapHeightRatio float64

	// SpanningThreshold is the normalized width above which an element is
	// treated as spanning content and excluded from column gap analysis
	// (default: 0.7).
	SpanningThreshold float64

	// MaxColumns caps the number of detected column bands (default: 6).
	MaxColumns int
}

// DefaultConfig returns the provisional default segmentation thresholds.
func DefaultConfig() Config {
	return Config{
		LineOverlapFraction:     0.4,
		LineToleranceFactor:     0.5,
		BlockGapMultiplier:      1.5,
		MinColumnGapMM:          7.0,
		MinColumnGapHeightRatio: 0.5,
		SpanningThreshold:       0.7,
		MaxColumns:              6,
	}
}

// Result holds the segmentation output for one page.
type Result struct {
	// Blocks in reading order.
	Blocks []Block

	// Anomalies recorded during segmentation (degenerate elements).
	Anomalies []model.Anomaly
}

// Engine segments pages into reading-order blocks.
type Engine struct {
	config Config
}

// NewEngine creates a segmentation engine with default configuration.
func NewEngine() *Engine {
	return &Engine{config: DefaultConfig()}
}

// NewEngineWithConfig creates a segmentation engine with custom configuration.
func NewEngineWithConfig(config Config) *Engine {
	return &Engine{config: config}
}

// Segment clusters the page's elements into blocks and assigns reading
// order. An empty page yields zero blocks. Every non-degenerate element
// is assigned to exactly one block.
func (e *Engine) Segment(page *model.Page) *Result {
	result := &Result{}

	valid := make([]int, 0, len(page.Elements))
	for i, el := range page.Elements {
		if el.Box.IsDegenerate() {
			result.Anomalies = append(result.Anomalies, model.Anomaly{
				Kind:   model.AnomalyDegenerateGeometry,
				Page:   page.Index,
				Detail: fmt.Sprintf("element %d has degenerate box %+v", i, el.Box),
			})
			continue
		}
		valid = append(valid, i)
	}
	if len(valid) == 0 {
		return result
	}

	minGapNorm := 0.0
	if page.Size.WidthMM > 0 {
		minGapNorm = e.config.MinColumnGapMM / page.Size.WidthMM
	}
	bands := detectColumnBands(page.Elements, valid, e.config, minGapNorm)

	// Distribute elements into bands by horizontal center.
	perBand := make([][]int, len(bands))
	for _, idx := range valid {
		b := bandIndex(bands, page.Elements[idx].Box.CenterX())
		perBand[b] = append(perBand[b], idx)
	}

	tolerance := e.config.LineToleranceFactor * medianElementHeight(page.Elements, valid)

	// Column-aware sweep: bands left to right, blocks top to bottom.
	var blocks []Block
	for band, indices := range perBand {
		if len(indices) == 0 {
			continue
		}
		lines := groupIntoLines(page.Elements, indices, e.config.LineOverlapFraction, tolerance)
		for _, blk := range e.groupLinesIntoBlocks(lines) {
			blk.Column = band
			blocks = append(blocks, blk)
		}
	}

	// Within a band blocks are already top to bottom; the band loop itself
	// provides the left-to-right primary order.
	for rank := range blocks {
		blocks[rank].Rank = rank
		blocks[rank].ID = model.BlockID(page.Index, rank)
	}
	result.Blocks = blocks
	return result
}

// groupLinesIntoBlocks splits a column's lines into blocks wherever the
// vertical gap exceeds the configured multiple of the median line height.
func (e *Engine) groupLinesIntoBlocks(lines []Line) []Block {
	if len(lines) == 0 {
		return nil
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Box.Top() < lines[j].Box.Top()
	})

	maxGap := e.config.BlockGapMultiplier * medianLineHeight(lines)

	var blocks []Block
	current := Block{Box: lines[0].Box, Lines: []Line{lines[0]}}
	current.Elements = append(current.Elements, lines[0].Elements...)

	for _, line := range lines[1:] {
		gap := line.Box.Top() - current.Lines[len(current.Lines)-1].Box.Bottom()
		if gap > maxGap {
			blocks = append(blocks, current)
			current = Block{Box: line.Box, Lines: []Line{line}}
			current.Elements = append(current.Elements, line.Elements...)
			continue
		}
		current.Box = current.Box.Union(line.Box)
		current.Lines = append(current.Lines, line)
		current.Elements = append(current.Elements, line.Elements...)
	}
	blocks = append(blocks, current)
	return blocks
}

// medianElementHeight returns the median height of the given elements.
func medianElementHeight(elements []model.Element, indices []int) float64 {
	if len(indices) == 0 {
		return 0
	}
	heights := make([]float64, len(indices))
	for i, idx := range indices {
		heights[i] = elements[idx].Box.H
	}
	sort.Float64s(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 1 {
		return heights[mid]
	}
	return (heights[mid-1] + heights[mid]) / 2
}
