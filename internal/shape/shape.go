// Package shape holds the geometric primitives colliders are made of.
//
// Shapes are mutable values with lazily recomputed caches. Every cache is guarded by a
// bit in a dirtyFlags value: the cache is valid iff its bit is clear. Setters only set
// bits; the getters recompute on demand.
//
// Pair tests use double dispatch. Shape.CollidesWith hands the receiver to the other
// shape's accept method, which calls back the receiver's collideBox or collidePolygon.
// Every concrete shape has to implement every pair method to satisfy Shape, so adding
// a variant without its pair tests does not compile.
package shape

import (
	"hitgrid/internal/collision"
	"hitgrid/internal/core"
)

// Shape is a box or a convex polygon positioned in world space
type Shape interface {
	// Position returns the world-space anchor of the shape
	Position() core.Vector2D
	// SetPosition moves the shape; caches are invalidated, not recomputed
	SetPosition(p core.Vector2D)
	// Bounds returns the current world-space bounding box
	Bounds() core.AABB
	// ContainsPoint reports whether p is inside the shape or on its border
	ContainsPoint(p core.Vector2D) bool
	// CheckOverlap reports whether the shapes overlap without computing a contact
	CheckOverlap(other Shape) bool
	// CollidesWith returns the contact with the receiver as the shape being pushed out
	CollidesWith(other Shape) (collision.Contact, bool)
	// CollidesWithLine returns where the segment start→end first meets the shape
	CollidesWithLine(start, end core.Vector2D) (collision.LineHit, bool)

	collideBox(other *Box) (collision.Contact, bool)
	collidePolygon(other *Polygon) (collision.Contact, bool)
	overlapBox(other *Box) bool
	overlapPolygon(other *Polygon) bool
	acceptCollide(self Shape) (collision.Contact, bool)
	acceptOverlap(self Shape) bool
}

var (
	_ Shape = (*Box)(nil)
	_ Shape = (*Polygon)(nil)
)

// dirtyFlags records which caches of a shape are stale
type dirtyFlags uint8

const (
	dirtyBounds dirtyFlags = 1 << iota
	dirtyNormals
	dirtyPolygon
)

func (f dirtyFlags) has(bits dirtyFlags) bool {
	return f&bits != 0
}

func (f *dirtyFlags) set(bits dirtyFlags) {
	*f |= bits
}

func (f *dirtyFlags) clear(bits dirtyFlags) {
	*f &^= bits
}
