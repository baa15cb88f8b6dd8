package shape

import (
	"hitgrid/internal/collision"
	"hitgrid/internal/core"
)

// Box is a rectangle centered on its position. With zero rotation the
// box takes the axis-aligned fast paths; otherwise it is tested through
// its derived polygon.
type Box struct {
	position core.Vector2D
	size     core.Vector2D
	rotation float64

	dirty   dirtyFlags
	bounds  core.AABB
	polygon *Polygon
}

// NewBox creates an axis-aligned box with the given full size
func NewBox(position, size core.Vector2D) *Box {
	return NewRotatedBox(position, size, 0)
}

// NewRotatedBox creates a box rotated by rotation radians around its center
func NewRotatedBox(position, size core.Vector2D, rotation float64) *Box {
	return &Box{
		position: position,
		size:     size,
		rotation: rotation,
		dirty:    dirtyBounds | dirtyPolygon,
	}
}

// Position returns the center of the box
func (b *Box) Position() core.Vector2D {
	return b.position
}

// SetPosition moves the center of the box
func (b *Box) SetPosition(position core.Vector2D) {
	if position == b.position {
		return
	}
	b.position = position
	b.dirty.set(dirtyBounds)
}

// Size returns the full width and height
func (b *Box) Size() core.Vector2D {
	return b.size
}

// SetSize resizes the box around its center
func (b *Box) SetSize(size core.Vector2D) {
	if size == b.size {
		return
	}
	b.size = size
	b.dirty.set(dirtyBounds | dirtyPolygon)
}

// Rotation returns the rotation in radians
func (b *Box) Rotation() float64 {
	return b.rotation
}

// SetRotation rotates the box around its center
func (b *Box) SetRotation(rotation float64) {
	if rotation == b.rotation {
		return
	}
	b.rotation = rotation
	b.dirty.set(dirtyBounds | dirtyPolygon)
}

// AxisAligned reports whether the box has no rotation
func (b *Box) AxisAligned() bool {
	return b.rotation == 0
}

// Polygon returns the four-corner polygon equivalent of the box, built lazily
func (b *Box) Polygon() *Polygon {
	if b.polygon == nil || b.dirty.has(dirtyPolygon) {
		hw, hh := b.size.X/2, b.size.Y/2
		corners := [4]core.Vector2D{
			{X: hw, Y: -hh},
			{X: hw, Y: hh},
			{X: -hw, Y: hh},
			{X: -hw, Y: -hh},
		}
		if b.rotation != 0 {
			for i := range corners {
				corners[i] = corners[i].Rotate(b.rotation)
			}
		}

		if b.polygon == nil {
			b.polygon = newBoxPolygon(b.position, corners[:])
		} else {
			b.polygon.vertices = append(b.polygon.vertices[:0], corners[:]...)
			b.polygon.dirty.set(dirtyBounds | dirtyNormals)
		}
		b.dirty.clear(dirtyPolygon)
	}

	b.polygon.SetPosition(b.position)
	return b.polygon
}

// Bounds returns the world-space bounding box
func (b *Box) Bounds() core.AABB {
	if b.dirty.has(dirtyBounds) {
		if b.AxisAligned() {
			b.bounds = core.CenteredAABB(b.position, b.size)
		} else {
			b.bounds = b.Polygon().Bounds()
		}
		b.dirty.clear(dirtyBounds)
	}
	return b.bounds
}

// ContainsPoint reports whether p is inside the box or on its border
func (b *Box) ContainsPoint(p core.Vector2D) bool {
	if b.AxisAligned() {
		return b.Bounds().ContainsPoint(p)
	}
	return b.Polygon().ContainsPoint(p)
}

// CheckOverlap reports whether the shapes overlap
func (b *Box) CheckOverlap(other Shape) bool {
	return other.acceptOverlap(b)
}

// CollidesWith returns the contact that pushes b out of other
func (b *Box) CollidesWith(other Shape) (collision.Contact, bool) {
	return other.acceptCollide(b)
}

// CollidesWithLine intersects the segment start→end with the box
func (b *Box) CollidesWithLine(start, end core.Vector2D) (collision.LineHit, bool) {
	if b.AxisAligned() {
		return collision.LineToAABB(start, end, b.Bounds())
	}
	return b.Polygon().CollidesWithLine(start, end)
}

func (b *Box) collideBox(other *Box) (collision.Contact, bool) {
	if b.AxisAligned() && other.AxisAligned() {
		return collision.AABBToAABB(b.Bounds(), other.Bounds())
	}
	return b.Polygon().collidePolygon(other.Polygon())
}

func (b *Box) collidePolygon(other *Polygon) (collision.Contact, bool) {
	return b.Polygon().collidePolygon(other)
}

func (b *Box) overlapBox(other *Box) bool {
	if b.AxisAligned() && other.AxisAligned() {
		return b.Bounds().Intersects(other.Bounds())
	}
	return b.Polygon().overlapPolygon(other.Polygon())
}

func (b *Box) overlapPolygon(other *Polygon) bool {
	return b.Polygon().overlapPolygon(other)
}

func (b *Box) acceptCollide(self Shape) (collision.Contact, bool) {
	return self.collideBox(b)
}

func (b *Box) acceptOverlap(self Shape) bool {
	return self.overlapBox(b)
}
