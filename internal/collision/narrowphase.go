package collision

import (
	"hitgrid/internal/core"
	"math"
)

// Contact describes how two overlapping shapes intersect.
// Normal points from the other shape toward the tested shape; subtracting
// PenetrationVector from the tested shape's position separates the pair.
type Contact struct {
	Normal            core.Vector2D
	PenetrationVector core.Vector2D
}

// Polygon is the narrow-phase view of a convex polygon: local vertices around
// Position and one outward unit normal per tested axis.
type Polygon struct {
	Position core.Vector2D
	Vertices []core.Vector2D
	Normals  []core.Vector2D
}

// AABBToAABB tests two unrotated boxes through their Minkowski difference.
// Shapes that only touch do not collide.
func AABBToAABB(a, b core.AABB) (Contact, bool) {
	md := core.AABB{
		Min: a.Min.Sub(b.Max),
		Max: a.Max.Sub(b.Min),
	}

	// The origin must be strictly inside the difference
	if md.Min.X >= 0 || md.Max.X <= 0 || md.Min.Y >= 0 || md.Max.Y <= 0 {
		return Contact{}, false
	}

	out := closestPointOnBorder(md, a.Center().Sub(b.Center()))
	return out.contact(), true
}

// closestPointOnBorder finds the border of the difference closest to the origin,
// assuming the origin lies inside the box
func closestPointOnBorder(md core.AABB, offset core.Vector2D) exit {
	best := exit{depth: math.Inf(1)}
	for _, axis := range [2]core.Vector2D{{X: 1}, {Y: 1}} {
		candidate := newExit(-md.Min.Dot(axis), md.Max.Dot(axis), axis, offset)
		if candidate.shallowerThan(best) {
			best = candidate
		}
	}
	return best
}

// exit is one way out of an overlap: move the tested shape depth units along direction
type exit struct {
	depth     float64
	direction core.Vector2D
	alignment float64
	axis      core.Vector2D
}

// newExit picks the shorter way out along axis. plus is the distance along +axis,
// minus along -axis, offset runs from the other shape to the tested one.
// Equal distances leave along offset, or turn the same way around it when offset
// is perpendicular, so swapping the shapes mirrors the choice.
func newExit(plus, minus float64, axis, offset core.Vector2D) exit {
	e := exit{
		alignment: math.Abs(offset.Dot(axis)),
		axis:      canonicalAxis(axis),
	}

	switch {
	case plus < minus:
		e.depth, e.direction = plus, axis
	case minus < plus:
		e.depth, e.direction = minus, axis.Negate()
	default:
		e.depth, e.direction = plus, axis
		side := offset.Dot(axis)
		if side == 0 {
			side = offset.Cross(axis)
		}
		if side < 0 {
			e.direction = axis.Negate()
		}
	}
	return e
}

// shallowerThan orders exits without regard to which shape is being tested:
// depth first, then the axis best aligned with the offset, then a fixed axis order
func (e exit) shallowerThan(other exit) bool {
	if e.depth != other.depth {
		return e.depth < other.depth
	}
	if e.alignment != other.alignment {
		return e.alignment > other.alignment
	}
	if e.axis.X != other.axis.X {
		return e.axis.X < other.axis.X
	}
	return e.axis.Y < other.axis.Y
}

func (e exit) contact() Contact {
	return Contact{
		Normal:            e.direction,
		PenetrationVector: e.direction.Scale(-e.depth),
	}
}

// canonicalAxis maps axis and its negation to the same vector
func canonicalAxis(axis core.Vector2D) core.Vector2D {
	if axis.X < 0 || (axis.X == 0 && axis.Y < 0) {
		return axis.Negate()
	}
	return axis
}

// PolygonToPolygon runs the separating axis test over the normals of both polygons.
func PolygonToPolygon(a, b Polygon) (Contact, bool) {
	contact, ok, _ := separatingAxisTest(a, b)
	return contact, ok
}

// separatingAxisTest also reports how many axes were projected before it returned
func separatingAxisTest(a, b Polygon) (Contact, bool, int) {
	offset := a.Position.Sub(b.Position)
	best := exit{depth: math.Inf(1)}
	tested := 0

	for _, axes := range [2][]core.Vector2D{a.Normals, b.Normals} {
		for _, axis := range axes {
			tested++

			minA, maxA := project(a.Vertices, axis)
			minB, maxB := project(b.Vertices, axis)
			shift := offset.Dot(axis)

			// Distances A has to travel along +axis and -axis to leave B.
			// Swapping A and B swaps the two values exactly.
			plus := (maxB - minA) - shift
			minus := (maxA - minB) + shift

			// Separated or touching along this axis
			if plus <= 0 || minus <= 0 {
				return Contact{}, false, tested
			}

			if candidate := newExit(plus, minus, axis, offset); candidate.shallowerThan(best) {
				best = candidate
			}
		}
	}

	return best.contact(), true, tested
}

// project returns the interval covered by vertices along axis
func project(vertices []core.Vector2D, axis core.Vector2D) (float64, float64) {
	lo := vertices[0].Dot(axis)
	hi := lo
	for _, v := range vertices[1:] {
		d := v.Dot(axis)
		if d < lo {
			lo = d
		} else if d > hi {
			hi = d
		}
	}
	return lo, hi
}

// SignedArea returns the shoelace area; positive for counter-clockwise rings in a Y-up frame
func SignedArea(vertices []core.Vector2D) float64 {
	area := 0.0
	n := len(vertices)
	for i := 0; i < n; i++ {
		area += vertices[i].Cross(vertices[(i+1)%n])
	}
	return area / 2
}

// OutwardNormal returns the unit normal of edge pointing out of a ring with the given winding
func OutwardNormal(edge core.Vector2D, counterClockwise bool) core.Vector2D {
	if counterClockwise {
		return edge.Perpendicular().Normalize()
	}
	return edge.Perpendicular().Negate().Normalize()
}

// EdgeNormals computes the outward unit normal of every edge of a closed ring
func EdgeNormals(vertices []core.Vector2D, dst []core.Vector2D) []core.Vector2D {
	dst = dst[:0]
	ccw := SignedArea(vertices) >= 0
	n := len(vertices)
	for i := 0; i < n; i++ {
		edge := vertices[(i+1)%n].Sub(vertices[i])
		dst = append(dst, OutwardNormal(edge, ccw))
	}
	return dst
}

// PolygonContainsPoint reports whether p lies inside or on the border of a convex polygon
func PolygonContainsPoint(poly Polygon, p core.Vector2D) bool {
	local := p.Sub(poly.Position)
	hasNeg, hasPos := false, false
	n := len(poly.Vertices)
	for i := 0; i < n; i++ {
		a := poly.Vertices[i]
		b := poly.Vertices[(i+1)%n]
		d := b.Sub(a).Cross(local.Sub(a))
		if d < 0 {
			hasNeg = true
		} else if d > 0 {
			hasPos = true
		}
		if hasNeg && hasPos {
			return false
		}
	}
	return true
}
