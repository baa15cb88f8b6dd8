package core

import (
	"errors"
	"math"
)

// Vector2D represents a 2D coordinate/vector
type Vector2D struct {
	X, Y float64
}

// AABB (Axis-Aligned Bounding Box) represents a rectangular boundary in world space
type AABB struct {
	Min, Max Vector2D
}

// GridRect is an inclusive rectangle of chunk coordinates
type GridRect struct {
	MinX, MinY, MaxX, MaxY int32
}

// Precondition violations reported by the collision packages
var (
	ErrInvalidChunkSize  = errors.New("chunk size must be a positive finite number")
	ErrDegeneratePolygon = errors.New("polygon needs at least 3 vertices and a non-zero area")
	ErrConcavePolygon    = errors.New("polygon must be convex")
	ErrNilCollider       = errors.New("collider and its shape cannot be nil")
	ErrAlreadyRegistered = errors.New("collider is already registered")
	ErrNotRegistered     = errors.New("collider is not registered")
	ErrChunkOutOfRange   = errors.New("chunk coordinate does not fit in 32 bits")
)

// RectAABB builds an AABB from a top-left corner and a size
func RectAABB(x, y, width, height float64) AABB {
	return AABB{
		Min: Vector2D{X: x, Y: y},
		Max: Vector2D{X: x + width, Y: y + height},
	}
}

// CenteredAABB builds an AABB around center with the given full size
func CenteredAABB(center, size Vector2D) AABB {
	half := size.Scale(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Width returns the horizontal extent
func (b AABB) Width() float64 {
	return b.Max.X - b.Min.X
}

// Height returns the vertical extent
func (b AABB) Height() float64 {
	return b.Max.Y - b.Min.Y
}

// Size returns the extents as a vector
func (b AABB) Size() Vector2D {
	return b.Max.Sub(b.Min)
}

// Center returns the center point
func (b AABB) Center() Vector2D {
	return Vector2D{
		X: (b.Min.X + b.Max.X) / 2,
		Y: (b.Min.Y + b.Max.Y) / 2,
	}
}

// Intersects reports whether two boxes overlap. Boxes sharing only an edge do not intersect.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X < other.Max.X && b.Max.X > other.Min.X &&
		b.Min.Y < other.Max.Y && b.Max.Y > other.Min.Y
}

// ContainsPoint reports whether p lies inside or on the border
func (b AABB) ContainsPoint(p Vector2D) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Union returns the smallest box covering both
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vector2D{X: math.Min(b.Min.X, other.Min.X), Y: math.Min(b.Min.Y, other.Min.Y)},
		Max: Vector2D{X: math.Max(b.Max.X, other.Max.X), Y: math.Max(b.Max.Y, other.Max.Y)},
	}
}

// Translate returns the box moved by offset
func (b AABB) Translate(offset Vector2D) AABB {
	return AABB{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Contains reports whether the chunk (x, y) is inside the rectangle
func (r GridRect) Contains(x, y int32) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Empty reports whether the rectangle covers no chunk
func (r GridRect) Empty() bool {
	return r.MinX > r.MaxX || r.MinY > r.MaxY
}

// Area returns the number of chunks covered
func (r GridRect) Area() int64 {
	if r.Empty() {
		return 0
	}
	return (int64(r.MaxX) - int64(r.MinX) + 1) * (int64(r.MaxY) - int64(r.MinY) + 1)
}

// Union returns the smallest rectangle covering both
func (r GridRect) Union(other GridRect) GridRect {
	return GridRect{
		MinX: min(r.MinX, other.MinX),
		MinY: min(r.MinY, other.MinY),
		MaxX: max(r.MaxX, other.MaxX),
		MaxY: max(r.MaxY, other.MaxY),
	}
}

// Intersect returns the overlap of both rectangles; the result may be Empty
func (r GridRect) Intersect(other GridRect) GridRect {
	return GridRect{
		MinX: max(r.MinX, other.MinX),
		MinY: max(r.MinY, other.MinY),
		MaxX: min(r.MaxX, other.MaxX),
		MaxY: min(r.MaxY, other.MaxY),
	}
}

// EmptyGridRect is the identity element for GridRect.Union
var EmptyGridRect = GridRect{
	MinX: math.MaxInt32, MinY: math.MaxInt32,
	MaxX: math.MinInt32, MaxY: math.MinInt32,
}

// ChunkKey packs two chunk coordinates into a single map key.
// The packing is a bijection over the full int32 range of both coordinates;
// coordinates that do not fit in 32 bits must be rejected before calling it.
func ChunkKey(x, y int32) int64 {
	return int64(x)<<32 | int64(uint32(y))
}

// UnpackChunkKey is the inverse of ChunkKey
func UnpackChunkKey(key int64) (x, y int32) {
	return int32(key >> 32), int32(uint32(key))
}
