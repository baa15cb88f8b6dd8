package collision

import (
	"hitgrid/internal/core"
	"math"
)

// LineHit is where a cast line first meets a shape.
// Fraction is the parametric position along the line (0 at the start, 1 at the end).
type LineHit struct {
	Fraction float64
	Distance float64
	Point    core.Vector2D
	Normal   core.Vector2D
}

// RayToAABB runs the slab test for the forward ray origin + t*dir.
// It returns the entry parameter and the normal of the face that was entered last.
// The entry parameter is negative when the origin starts inside the box.
func RayToAABB(origin, dir core.Vector2D, box core.AABB) (float64, core.Vector2D, bool) {
	tEntry := math.Inf(-1)
	tExit := math.Inf(1)
	entryAxis := -1

	slabs := [2][4]float64{
		{origin.X, dir.X, box.Min.X, box.Max.X},
		{origin.Y, dir.Y, box.Min.Y, box.Max.Y},
	}

	for axis, slab := range slabs {
		o, d, lo, hi := slab[0], slab[1], slab[2], slab[3]

		if math.Abs(d) < core.Epsilon {
			// Parallel to this slab: the ray has to already be inside it
			if o < lo || o > hi {
				return 0, core.Vector2D{}, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tEntry {
			tEntry = t1
			entryAxis = axis
		}
		if t2 < tExit {
			tExit = t2
		}
	}

	if tExit < tEntry || tExit < 0 {
		return 0, core.Vector2D{}, false
	}

	var normal core.Vector2D
	center := box.Center()
	switch entryAxis {
	case 0:
		normal.X = math.Copysign(1, origin.X-center.X)
	case 1:
		normal.Y = math.Copysign(1, origin.Y-center.Y)
	}

	return tEntry, normal, true
}

// LineToAABB intersects the segment start→end with an unrotated box.
// A segment starting inside the box hits at distance 0 with the normal facing back along the line.
func LineToAABB(start, end core.Vector2D, box core.AABB) (LineHit, bool) {
	dir := end.Sub(start)
	t, normal, ok := RayToAABB(start, dir, box)
	if !ok || t > 1 {
		return LineHit{}, false
	}

	if t < 0 {
		t = 0
		normal = dir.Normalize().Negate()
	}

	return LineHit{
		Fraction: t,
		Distance: t * dir.Length(),
		Point:    start.Add(dir.Scale(t)),
		Normal:   normal,
	}, true
}

// LineToPolygon intersects the segment start→end with every edge of the polygon
// and keeps the closest crossing. Edges parallel to the segment are skipped.
// A segment starting inside the polygon hits at distance 0, as in LineToAABB.
func LineToPolygon(start, end core.Vector2D, poly Polygon) (LineHit, bool) {
	r := end.Sub(start)
	if PolygonContainsPoint(poly, start) {
		return LineHit{
			Point:  start,
			Normal: r.Normalize().Negate(),
		}, true
	}

	n := len(poly.Vertices)

	best := math.Inf(1)
	var bestEdge core.Vector2D
	found := false

	for i := 0; i < n; i++ {
		p1 := poly.Position.Add(poly.Vertices[i])
		p2 := poly.Position.Add(poly.Vertices[(i+1)%n])
		s := p2.Sub(p1)

		denom := r.Cross(s)
		if denom == 0 {
			continue
		}

		qp := p1.Sub(start)
		t := qp.Cross(s) / denom
		u := qp.Cross(r) / denom
		if t < 0 || t > 1 || u < 0 || u > 1 {
			continue
		}

		if t < best {
			best = t
			bestEdge = s
			found = true
		}
	}

	if !found {
		return LineHit{}, false
	}

	return LineHit{
		Fraction: best,
		Distance: best * r.Length(),
		Point:    start.Add(r.Scale(best)),
		Normal:   OutwardNormal(bestEdge, SignedArea(poly.Vertices) >= 0),
	}, true
}
