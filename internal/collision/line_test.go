package collision

import (
	"hitgrid/internal/core"
	"testing"
)

func TestLineToAABBHitsNearFace(t *testing.T) {
	box := core.CenteredAABB(core.Vector2D{}, core.Vector2D{X: 4, Y: 4})

	hit, ok := LineToAABB(core.Vector2D{X: -10, Y: 0}, core.Vector2D{X: 10, Y: 0}, box)
	if !ok {
		t.Fatalf("Expected line to hit the box")
	}
	if hit.Distance != 8 {
		t.Fatalf("Expected distance 8, got %f", hit.Distance)
	}
	if hit.Point != (core.Vector2D{X: -2, Y: 0}) {
		t.Fatalf("Expected point (-2, 0), got %v", hit.Point)
	}
	if hit.Normal != (core.Vector2D{X: -1, Y: 0}) {
		t.Fatalf("Expected normal (-1, 0), got %v", hit.Normal)
	}
}

func TestLineToAABBRejectsShortSegment(t *testing.T) {
	box := core.CenteredAABB(core.Vector2D{}, core.Vector2D{X: 4, Y: 4})

	// The infinite ray would hit, the segment stops before the box
	if _, ok := LineToAABB(core.Vector2D{X: -10, Y: 0}, core.Vector2D{X: -5, Y: 0}, box); ok {
		t.Fatalf("Segment ending before the box should miss")
	}
}

func TestRayToAABBParallelOutsideSlab(t *testing.T) {
	box := core.RectAABB(0, 0, 4, 4)

	if _, _, ok := RayToAABB(core.Vector2D{X: -5, Y: 10}, core.Vector2D{X: 1, Y: 0}, box); ok {
		t.Fatalf("Ray parallel to the box outside its slab should miss")
	}
	if _, _, ok := RayToAABB(core.Vector2D{X: 10, Y: 2}, core.Vector2D{X: 1, Y: 0}, box); ok {
		t.Fatalf("Box behind the ray origin should miss")
	}
}

func TestLineToAABBStartingInside(t *testing.T) {
	box := core.RectAABB(0, 0, 4, 4)

	hit, ok := LineToAABB(core.Vector2D{X: 2, Y: 2}, core.Vector2D{X: 10, Y: 2}, box)
	if !ok {
		t.Fatalf("Expected a hit for a segment starting inside")
	}
	if hit.Distance != 0 || hit.Point != (core.Vector2D{X: 2, Y: 2}) {
		t.Fatalf("Expected hit at the origin, got %+v", hit)
	}
}

func TestLineToPolygonMatchesSlab(t *testing.T) {
	poly := boxPolygon(core.Vector2D{}, 4, 4)

	hit, ok := LineToPolygon(core.Vector2D{X: -10, Y: 0}, core.Vector2D{X: 10, Y: 0}, poly)
	if !ok {
		t.Fatalf("Expected line to hit the polygon")
	}
	if !hit.Point.ApproxEqual(core.Vector2D{X: -2, Y: 0}, tolerance) {
		t.Fatalf("Expected point (-2, 0), got %v", hit.Point)
	}
	if !hit.Normal.ApproxEqual(core.Vector2D{X: -1, Y: 0}, tolerance) {
		t.Fatalf("Expected normal (-1, 0), got %v", hit.Normal)
	}
	if hit.Distance < 8-tolerance || hit.Distance > 8+tolerance {
		t.Fatalf("Expected distance 8, got %f", hit.Distance)
	}
}

func TestLineToPolygonSkipsParallelEdges(t *testing.T) {
	poly := boxPolygon(core.Vector2D{}, 4, 4)

	// Runs exactly along the top edge; only parallel edges are touched there
	// while the crossing edges are hit at the corners
	hit, ok := LineToPolygon(core.Vector2D{X: -10, Y: 2}, core.Vector2D{X: 10, Y: 2}, poly)
	if !ok {
		t.Fatalf("Expected the corner to be reported through a crossing edge")
	}
	if hit.Normal.Y != 0 {
		t.Fatalf("Expected normal from a vertical edge, got %v", hit.Normal)
	}

	// Completely outside and parallel
	if _, ok := LineToPolygon(core.Vector2D{X: -10, Y: 5}, core.Vector2D{X: 10, Y: 5}, poly); ok {
		t.Fatalf("Parallel line outside the polygon should miss")
	}
}

func TestLineToPolygonDiagonal(t *testing.T) {
	triangle := []core.Vector2D{{X: 0, Y: -2}, {X: 2, Y: 2}, {X: -2, Y: 2}}
	poly := Polygon{Position: core.Vector2D{X: 5, Y: 5}, Vertices: triangle}

	hit, ok := LineToPolygon(core.Vector2D{X: 5, Y: -5}, core.Vector2D{X: 5, Y: 20}, poly)
	if !ok {
		t.Fatalf("Expected vertical line to hit the triangle")
	}
	if !hit.Point.ApproxEqual(core.Vector2D{X: 5, Y: 3}, tolerance) {
		t.Fatalf("Expected to enter at the apex (5, 3), got %v", hit.Point)
	}
}

func TestLineToPolygonStartingInside(t *testing.T) {
	triangle := []core.Vector2D{{X: 0, Y: -3}, {X: 3, Y: 2}, {X: -3, Y: 2}}
	poly := Polygon{Position: core.Vector2D{X: 1, Y: 1}, Vertices: triangle}
	start := core.Vector2D{X: 1, Y: 1}

	hit, ok := LineToPolygon(start, core.Vector2D{X: 1, Y: 11}, poly)
	if !ok {
		t.Fatalf("Expected a hit for a segment starting inside")
	}
	if hit.Distance != 0 || hit.Fraction != 0 || hit.Point != start {
		t.Fatalf("Expected hit at the start, got %+v", hit)
	}
	if hit.Normal != (core.Vector2D{X: 0, Y: -1}) {
		t.Fatalf("Expected normal (0, -1), got %v", hit.Normal)
	}
}
