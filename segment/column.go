package segment

import (
	"sort"

	"github.com/moghammed/epstein-universal-unredaction/model"
)

// columnBand is a vertical strip of the page holding one column of text.
type columnBand struct {
	left, right float64
}

// detectColumnBands splits the page into column bands by finding vertical
// whitespace gaps in the horizontal coverage of the elements. Elements
// spanning most of the page width (titles, headers) are excluded from gap
// analysis so they do not weld adjacent columns together.
func detectColumnBands(elements []model.Element, indices []int, cfg Config, minGapNorm float64) []columnBand {
	type interval struct{ left, right float64 }

	var intervals []interval
	var contentTop, contentBottom float64
	first := true
	for _, idx := range indices {
		box := elements[idx].Box
		if first || box.Top() < contentTop {
			contentTop = box.Top()
		}
		if first || box.Bottom() > contentBottom {
			contentBottom = box.Bottom()
		}
		first = false
		if box.W >= cfg.SpanningThreshold {
			continue
		}
		intervals = append(intervals, interval{box.Left(), box.Right()})
	}
	if len(intervals) == 0 {
		return []columnBand{{0, 1}}
	}

	// Require the inspected region to cover a meaningful share of the page
	// height before trusting a gap as a column separator.
	if contentBottom-contentTop < cfg.MinColumnGapHeightRatio {
		return []columnBand{{0, 1}}
	}

	sort.Slice(intervals, func(i, j int) bool { return intervals[i].left < intervals[j].left })

	// Merge overlapping coverage intervals; gaps between merged intervals
	// wider than the configured minimum are column separators.
	var merged []interval
	cur := intervals[0]
	for _, iv := range intervals[1:] {
		if iv.left <= cur.right+1e-9 {
			if iv.right > cur.right {
				cur.right = iv.right
			}
			continue
		}
		merged = append(merged, cur)
		cur = iv
	}
	merged = append(merged, cur)

	bands := []columnBand{{left: 0}}
	for i := 0; i < len(merged)-1 && len(bands) < cfg.MaxColumns; i++ {
		gap := merged[i+1].left - merged[i].right
		if gap >= minGapNorm {
			split := merged[i].right + gap/2
			bands[len(bands)-1].right = split
			bands = append(bands, columnBand{left: split})
		}
	}
	bands[len(bands)-1].right = 1
	return bands
}

// bandIndex returns the index of the band containing x, clamped to the
// nearest band for out-of-range values.
func bandIndex(bands []columnBand, x float64) int {
	for i, b := range bands {
		if x < b.right || i == len(bands)-1 {
			return i
		}
	}
	return len(bands) - 1
}
