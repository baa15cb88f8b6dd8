// Package collider binds a shape to an opaque payload and tracks its registration in a spatial index.
package collider

import (
	"hitgrid/internal/core"
	"hitgrid/internal/shape"
)

// Mask is a bit set of collision layers
type Mask uint32

// AllLayers matches every layer
const AllLayers Mask = ^Mask(0)

// Matches reports whether the masks share at least one layer
func (m Mask) Matches(other Mask) bool {
	return m&other != 0
}

// State is the registration state of a collider
type State uint8

const (
	Unregistered State = iota
	Registered
	Removed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Unregistered:
		return "unregistered"
	case Registered:
		return "registered"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Collider is a shape positioned in a spatial index. The payload is never inspected.
type Collider[T any] struct {
	Shape        shape.Shape
	Payload      T
	Layer        Mask
	CollidesWith Mask

	region core.GridRect
	state  State
}

// New creates an unregistered collider on layer 1 that collides with every layer
func New[T any](s shape.Shape, payload T) *Collider[T] {
	return &Collider[T]{
		Shape:        s,
		Payload:      payload,
		Layer:        1,
		CollidesWith: AllLayers,
		region:       core.EmptyGridRect,
	}
}

// Region returns the chunk rectangle the collider was inserted into.
// It is only meaningful while the collider is registered.
func (c *Collider[T]) Region() core.GridRect {
	return c.region
}

// State returns the registration state
func (c *Collider[T]) State() State {
	return c.state
}

// Bounds returns the world-space bounds of the shape
func (c *Collider[T]) Bounds() core.AABB {
	return c.Shape.Bounds()
}

// Accepts reports whether a query from this collider should consider other
func (c *Collider[T]) Accepts(other *Collider[T]) bool {
	return c.CollidesWith.Matches(other.Layer)
}

// CollidesWithCollider runs the narrow phase between the two shapes
func (c *Collider[T]) CollidesWithCollider(other *Collider[T]) (CollisionResult[T], bool) {
	contact, ok := c.Shape.CollidesWith(other.Shape)
	if !ok {
		return CollisionResult[T]{}, false
	}
	return CollisionResult[T]{
		Self:              c,
		Other:             other,
		Normal:            contact.Normal,
		PenetrationVector: contact.PenetrationVector,
	}, true
}

// MarkRegistered records the chunk rectangle the collider now occupies
func (c *Collider[T]) MarkRegistered(region core.GridRect) {
	c.region = region
	c.state = Registered
}

// MarkRemoved clears the registration region
func (c *Collider[T]) MarkRemoved() {
	c.region = core.EmptyGridRect
	c.state = Removed
}

// CollisionResult is the outcome of a narrow-phase test between two colliders.
// Subtracting PenetrationVector from Self's position separates the pair;
// Normal points from Other toward Self.
type CollisionResult[T any] struct {
	Self              *Collider[T]
	Other             *Collider[T]
	Normal            core.Vector2D
	PenetrationVector core.Vector2D
}

// LineCastResult is one hit of a line cast
type LineCastResult[T any] struct {
	Collider *Collider[T]
	Origin   core.Vector2D
	End      core.Vector2D
	Distance float64
	Point    core.Vector2D
	Normal   core.Vector2D
}
