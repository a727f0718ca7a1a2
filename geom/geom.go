// Package geom provides the coordinate and unit conventions shared by the
// whole pipeline: axis-aligned boxes in normalized [0,1]x[0,1] page
// coordinates with the origin at the top-left, and conversions between
// normalized units, PDF points, and physical millimetres.
package geom

import "math"

// PtToMM is the physical size of one PDF point: 1 pt = 1/72 inch.
const PtToMM = 25.4 / 72.0

// PointsToMM converts PDF points to millimetres.
func PointsToMM(pts float64) float64 {
	return pts * PtToMM
}

// MMToPoints converts millimetres to PDF points.
func MMToPoints(mm float64) float64 {
	return mm / PtToMM
}

// Normalize divides value by extent and clamps the result to [0,1].
// Both arguments must be in the same unit. A non-positive extent yields 0.
func Normalize(value, extent float64) float64 {
	if extent <= 0 {
		return 0
	}
	return Clamp01(value / extent)
}

// Denormalize converts a normalized [0,1] value back to the unit of extent.
func Denormalize(norm, extent float64) float64 {
	return norm * extent
}

// Clamp01 clamps v to the [0,1] interval.
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// PageSize holds the physical dimensions of a page in millimetres.
type PageSize struct {
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

// Box is an axis-aligned rectangle in normalized page coordinates.
// (0,0) is the top-left corner of the page, (1,1) the bottom-right.
type Box struct {
	X float64 `json:"x"` // Left edge
	Y float64 `json:"y"` // Top edge
	W float64 `json:"w"` // Width
	H float64 `json:"h"` // Height
}

// NewBox creates a box from its top-left corner and dimensions.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Left returns the left edge X coordinate.
func (b Box) Left() float64 { return b.X }

// Right returns the right edge X coordinate.
func (b Box) Right() float64 { return b.X + b.W }

// Top returns the top edge Y coordinate.
func (b Box) Top() float64 { return b.Y }

// Bottom returns the bottom edge Y coordinate.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// Area returns the area of the box in normalized units.
func (b Box) Area() float64 { return b.W * b.H }

// IsDegenerate reports whether the box has no usable extent: zero or
// negative width or height.
func (b Box) IsDegenerate() bool {
	return b.W <= 0 || b.H <= 0
}

// Intersects reports whether two boxes overlap.
func (b Box) Intersects(other Box) bool {
	return !(b.Right() <= other.Left() ||
		b.Left() >= other.Right() ||
		b.Bottom() <= other.Top() ||
		b.Top() >= other.Bottom())
}

// Intersection returns the overlapping region of two boxes, or a zero Box
// when they do not overlap.
func (b Box) Intersection(other Box) Box {
	if !b.Intersects(other) {
		return Box{}
	}
	x := math.Max(b.Left(), other.Left())
	y := math.Max(b.Top(), other.Top())
	right := math.Min(b.Right(), other.Right())
	bottom := math.Min(b.Bottom(), other.Bottom())
	return Box{X: x, Y: y, W: right - x, H: bottom - y}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	return Box{X: x, Y: y, W: right - x, H: bottom - y}
}

// OverlapFraction returns the fraction of b's own area covered by other,
// in [0,1]. A degenerate b yields 0.
func (b Box) OverlapFraction(other Box) float64 {
	if b.IsDegenerate() {
		return 0
	}
	return b.Intersection(other).Area() / b.Area()
}

// VerticalOverlap returns the height of the Y-range shared by both boxes,
// or 0 when they do not share one. Used for grouping elements into lines.
func (b Box) VerticalOverlap(other Box) float64 {
	top := math.Max(b.Top(), other.Top())
	bottom := math.Min(b.Bottom(), other.Bottom())
	if bottom <= top {
		return 0
	}
	return bottom - top
}

// WidthMM returns the box width in millimetres given the page size.
func (b Box) WidthMM(size PageSize) float64 {
	return Denormalize(b.W, size.WidthMM)
}

// HeightMM returns the box height in millimetres given the page size.
func (b Box) HeightMM(size PageSize) float64 {
	return Denormalize(b.H, size.HeightMM)
}
