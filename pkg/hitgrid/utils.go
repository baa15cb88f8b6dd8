package hitgrid

import (
	"hitgrid/internal/collider"
	"hitgrid/internal/core"
	"hitgrid/internal/shape"
)

// Value types shared with the internal packages
type (
	Vector2D = core.Vector2D
	AABB     = core.AABB
	Mask     = collider.Mask
	Shape    = shape.Shape
	Box      = shape.Box
	Polygon  = shape.Polygon
)

// AllLayers matches every layer
const AllLayers = collider.AllLayers

// Layer returns the mask of a single layer index in [0, 31]
func Layer(index uint) Mask {
	return Mask(1) << index
}

// Vector2D utility functions

// NewVector2D creates a new 2D vector
func NewVector2D(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// Distance calculates the Euclidean distance between two points
func Distance(a, b Vector2D) float64 {
	return b.Sub(a).Length()
}

// Lerp linearly interpolates between two vectors
func Lerp(a, b Vector2D, t float64) Vector2D {
	return a.Add(b.Sub(a).Scale(t))
}

// AABB utility functions

// NewAABB creates a new axis-aligned bounding box
func NewAABB(minX, minY, maxX, maxY float64) AABB {
	return AABB{
		Min: Vector2D{X: minX, Y: minY},
		Max: Vector2D{X: maxX, Y: maxY},
	}
}

// RectAABB creates an AABB from its top-left corner and size
func RectAABB(x, y, width, height float64) AABB {
	return core.RectAABB(x, y, width, height)
}

// AABBFromCenterSize creates an AABB from center point and size
func AABBFromCenterSize(center Vector2D, width, height float64) AABB {
	return core.CenteredAABB(center, Vector2D{X: width, Y: height})
}

// Shape utility functions

// NewBox creates an axis-aligned box centered on position
func NewBox(position Vector2D, width, height float64) *Box {
	return shape.NewBox(position, Vector2D{X: width, Y: height})
}

// NewRotatedBox creates a box rotated by rotation radians around its center
func NewRotatedBox(position Vector2D, width, height, rotation float64) *Box {
	return shape.NewRotatedBox(position, Vector2D{X: width, Y: height}, rotation)
}

// NewPolygon creates a convex polygon from vertices around position
func NewPolygon(position Vector2D, vertices []Vector2D) (*Polygon, error) {
	return shape.NewPolygon(position, vertices)
}

// NewRegularPolygon creates a regular polygon with the given number of sides
func NewRegularPolygon(position Vector2D, sides int, radius float64) (*Polygon, error) {
	return shape.NewRegularPolygon(position, sides, radius)
}

// Collider utility functions

// NewCollider creates an unregistered collider on layer 1 that collides with every layer
func NewCollider[T any](s Shape, payload T) *collider.Collider[T] {
	return collider.New(s, payload)
}

// NewLayeredCollider creates an unregistered collider with explicit masks
func NewLayeredCollider[T any](s Shape, payload T, layer, collidesWith Mask) *collider.Collider[T] {
	c := collider.New(s, payload)
	c.Layer = layer
	c.CollidesWith = collidesWith
	return c
}
