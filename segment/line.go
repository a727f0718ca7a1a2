package segment

import (
	"sort"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
)

// Line is a horizontal run of elements sharing a vertical band.
type Line struct {
	// Box is the merged bounding box of the line's elements.
	Box geom.Box

	// Elements are indices into the page's element slice, left to right.
	Elements []int

	// Height is the tallest element height in the line.
	Height float64
}

// groupIntoLines clusters the given element indices into lines. Elements
// are assigned to the same line when their vertical bands overlap by at
// least overlapFraction of the smaller element's height, or their centers
// sit within tolerance of the line's running center.
func groupIntoLines(elements []model.Element, indices []int, overlapFraction, tolerance float64) []Line {
	if len(indices) == 0 {
		return nil
	}

	// Top-to-bottom sweep; stable so same-Y elements keep stream order.
	sorted := make([]int, len(indices))
	copy(sorted, indices)
	sort.SliceStable(sorted, func(i, j int) bool {
		return elements[sorted[i]].Box.CenterY() < elements[sorted[j]].Box.CenterY()
	})

	var lines []Line
	var current *Line
	for _, idx := range sorted {
		box := elements[idx].Box
		if current != nil && sameLine(current.Box, box, overlapFraction, tolerance) {
			current.Box = current.Box.Union(box)
			current.Elements = append(current.Elements, idx)
			if box.H > current.Height {
				current.Height = box.H
			}
			continue
		}
		if current != nil {
			lines = append(lines, *current)
		}
		current = &Line{Box: box, Elements: []int{idx}, Height: box.H}
	}
	if current != nil {
		lines = append(lines, *current)
	}

	// Left-to-right within each line; ties keep stream order.
	for i := range lines {
		line := &lines[i]
		sort.SliceStable(line.Elements, func(a, b int) bool {
			return elements[line.Elements[a]].Box.X < elements[line.Elements[b]].Box.X
		})
	}
	return lines
}

// sameLine reports whether box belongs to the line whose merged box is lineBox.
func sameLine(lineBox, box geom.Box, overlapFraction, tolerance float64) bool {
	minH := lineBox.H
	if box.H < minH {
		minH = box.H
	}
	if minH > 0 && lineBox.VerticalOverlap(box) >= overlapFraction*minH {
		return true
	}
	dy := lineBox.CenterY() - box.CenterY()
	if dy < 0 {
		dy = -dy
	}
	return dy <= tolerance
}

// medianLineHeight returns the median of the line heights, or 0 for no lines.
func medianLineHeight(lines []Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	heights := make([]float64, len(lines))
	for i, l := range lines {
		heights[i] = l.Height
	}
	sort.Float64s(heights)
	mid := len(heights) / 2
	if len(heights)%2 == 1 {
		return heights[mid]
	}
	return (heights[mid-1] + heights[mid]) / 2
}
