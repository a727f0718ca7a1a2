package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPointsToMM(t *testing.T) {
	// 72 points is exactly one inch
	if !almostEqual(PointsToMM(72), 25.4) {
		t.Errorf("Expected 72pt = 25.4mm, got %f", PointsToMM(72))
	}
	if !almostEqual(MMToPoints(PointsToMM(123.4)), 123.4) {
		t.Errorf("Point/mm round trip drifted")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		value  float64
		extent float64
		want   float64
	}{
		{"half", 105, 210, 0.5},
		{"clamped high", 300, 210, 1.0},
		{"clamped low", -5, 210, 0.0},
		{"zero extent", 10, 0, 0.0},
		{"negative extent", 10, -4, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.value, tt.extent); !almostEqual(got, tt.want) {
				t.Errorf("Normalize(%f, %f) = %f, want %f", tt.value, tt.extent, got, tt.want)
			}
		})
	}
}

func TestBoxEdges(t *testing.T) {
	b := NewBox(0.1, 0.2, 0.3, 0.4)

	if !almostEqual(b.Right(), 0.4) {
		t.Errorf("Right: got %f", b.Right())
	}
	if !almostEqual(b.Bottom(), 0.6) {
		t.Errorf("Bottom: got %f", b.Bottom())
	}
	if !almostEqual(b.CenterX(), 0.25) {
		t.Errorf("CenterX: got %f", b.CenterX())
	}
	if !almostEqual(b.Area(), 0.12) {
		t.Errorf("Area: got %f", b.Area())
	}
}

func TestBoxIntersection(t *testing.T) {
	a := NewBox(0.0, 0.0, 0.5, 0.5)
	b := NewBox(0.25, 0.25, 0.5, 0.5)

	if !a.Intersects(b) {
		t.Fatal("Expected boxes to intersect")
	}

	inter := a.Intersection(b)
	if !almostEqual(inter.X, 0.25) || !almostEqual(inter.Y, 0.25) ||
		!almostEqual(inter.W, 0.25) || !almostEqual(inter.H, 0.25) {
		t.Errorf("Unexpected intersection: %+v", inter)
	}

	far := NewBox(0.8, 0.8, 0.1, 0.1)
	if a.Intersects(far) {
		t.Error("Expected disjoint boxes")
	}
	if got := a.Intersection(far); got.Area() != 0 {
		t.Errorf("Disjoint intersection should be empty, got %+v", got)
	}
}

func TestBoxTouchingEdgesDoNotIntersect(t *testing.T) {
	a := NewBox(0.0, 0.0, 0.5, 0.5)
	b := NewBox(0.5, 0.0, 0.5, 0.5)
	if a.Intersects(b) {
		t.Error("Boxes sharing only an edge should not count as intersecting")
	}
}

func TestOverlapFraction(t *testing.T) {
	a := NewBox(0.0, 0.0, 0.2, 0.2)
	b := NewBox(0.1, 0.0, 0.2, 0.2)

	if got := a.OverlapFraction(b); !almostEqual(got, 0.5) {
		t.Errorf("Expected overlap fraction 0.5, got %f", got)
	}

	deg := NewBox(0.1, 0.1, 0, 0)
	if got := deg.OverlapFraction(a); got != 0 {
		t.Errorf("Degenerate box overlap should be 0, got %f", got)
	}
}

func TestVerticalOverlap(t *testing.T) {
	a := NewBox(0.0, 0.10, 0.5, 0.10)
	b := NewBox(0.6, 0.15, 0.5, 0.10)

	if got := a.VerticalOverlap(b); !almostEqual(got, 0.05) {
		t.Errorf("Expected vertical overlap 0.05, got %f", got)
	}

	c := NewBox(0.0, 0.5, 0.5, 0.1)
	if got := a.VerticalOverlap(c); got != 0 {
		t.Errorf("Expected no vertical overlap, got %f", got)
	}
}

func TestIsDegenerate(t *testing.T) {
	if NewBox(0.1, 0.1, 0.2, 0.2).IsDegenerate() {
		t.Error("Normal box flagged degenerate")
	}
	if !NewBox(0.1, 0.1, 0, 0.2).IsDegenerate() {
		t.Error("Zero-width box not flagged degenerate")
	}
	if !NewBox(0.1, 0.1, 0.2, -0.1).IsDegenerate() {
		t.Error("Negative-height box not flagged degenerate")
	}
}

func TestWidthMM(t *testing.T) {
	size := PageSize{WidthMM: 210, HeightMM: 297}
	b := NewBox(0.1, 0.1, 0.5, 0.2)

	if got := b.WidthMM(size); !almostEqual(got, 105) {
		t.Errorf("Expected 105mm, got %f", got)
	}
	if got := b.HeightMM(size); !almostEqual(got, 59.4) {
		t.Errorf("Expected 59.4mm, got %f", got)
	}
}
