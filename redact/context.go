package redact

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/moghammed/epstein-universal-unredaction/geom"
	"github.com/moghammed/epstein-universal-unredaction/model"
	"github.com/moghammed/epstein-universal-unredaction/segment"
)

// extractContext walks the owning block's elements in reading order,
// splits them at the redaction's position, and returns up to budget
// tokens either side. Context never leaves the block.
func extractContext(elements []model.Element, block *segment.Block, box geom.Box, budget int) (pre, post string) {
	var before, after []string

	for _, line := range block.Lines {
		linePos := linePosition(line.Box, box)
		for _, idx := range line.Elements {
			el := elements[idx]
			side := linePos
			if side == lineAt {
				// Same line: split on the element's horizontal position
				// relative to the redaction box.
				if el.Box.CenterX() < box.Left() {
					side = lineBefore
				} else if el.Box.CenterX() > box.Right() {
					side = lineAfter
				} else {
					// Element under the redaction itself (partially
					// covered residue); not part of either context.
					continue
				}
			}
			for _, tok := range strings.Fields(el.Text) {
				if side == lineBefore {
					before = append(before, tok)
				} else {
					after = append(after, tok)
				}
			}
		}
	}

	if len(before) > budget {
		before = before[len(before)-budget:]
	}
	if len(after) > budget {
		after = after[:budget]
	}
	return norm.NFC.String(strings.Join(before, " ")), norm.NFC.String(strings.Join(after, " "))
}

type lineSide int

const (
	lineBefore lineSide = iota
	lineAt
	lineAfter
)

// linePosition classifies a line as before, containing, or after the
// redaction box in reading order.
func linePosition(lineBox, box geom.Box) lineSide {
	center := box.CenterY()
	if lineBox.Bottom() < center && !lineBox.Intersects(box) {
		return lineBefore
	}
	if lineBox.Top() > center && !lineBox.Intersects(box) {
		return lineAfter
	}
	return lineAt
}
