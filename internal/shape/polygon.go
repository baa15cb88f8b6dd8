package shape

import (
	"fmt"
	"hitgrid/internal/collision"
	"hitgrid/internal/core"
	"math"
)

// Polygon is a convex vertex ring around a local origin, translated by a position.
// Either winding is accepted.
type Polygon struct {
	position core.Vector2D
	vertices []core.Vector2D
	normals  []core.Vector2D
	isBox    bool

	dirty  dirtyFlags
	bounds core.AABB
}

// NewPolygon creates a polygon from local vertices. The slice is copied.
func NewPolygon(position core.Vector2D, vertices []core.Vector2D) (*Polygon, error) {
	p := &Polygon{position: position}
	if err := p.SetVertices(vertices); err != nil {
		return nil, err
	}
	return p, nil
}

// NewRegularPolygon creates a polygon with sides vertices on a circle of the given radius
func NewRegularPolygon(position core.Vector2D, sides int, radius float64) (*Polygon, error) {
	if sides < 3 {
		return nil, fmt.Errorf("regular polygon with %d sides: %w", sides, core.ErrDegeneratePolygon)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("regular polygon with radius %f: %w", radius, core.ErrDegeneratePolygon)
	}

	vertices := make([]core.Vector2D, sides)
	step := 2 * math.Pi / float64(sides)
	for i := range vertices {
		vertices[i] = core.Vector2D{X: radius, Y: 0}.Rotate(step * float64(i))
	}
	return NewPolygon(position, vertices)
}

// newBoxPolygon skips validation; the caller guarantees four corners of a rectangle
func newBoxPolygon(position core.Vector2D, corners []core.Vector2D) *Polygon {
	p := &Polygon{position: position, isBox: true}
	p.vertices = append(p.vertices, corners...)
	p.dirty.set(dirtyBounds | dirtyNormals)
	return p
}

// SetVertices replaces the local vertex ring
func (p *Polygon) SetVertices(vertices []core.Vector2D) error {
	if len(vertices) < 3 {
		return fmt.Errorf("polygon with %d vertices: %w", len(vertices), core.ErrDegeneratePolygon)
	}
	if math.Abs(collision.SignedArea(vertices)) < core.Epsilon {
		return fmt.Errorf("polygon has zero area: %w", core.ErrDegeneratePolygon)
	}
	if !isConvex(vertices) {
		return core.ErrConcavePolygon
	}

	p.vertices = append(p.vertices[:0], vertices...)
	p.isBox = false
	p.dirty.set(dirtyBounds | dirtyNormals)
	return nil
}

// isConvex checks that every turn along the ring goes the same way and that
// the ring winds around exactly once
func isConvex(vertices []core.Vector2D) bool {
	n := len(vertices)
	sign := 0.0
	winding := 0.0
	for i := 0; i < n; i++ {
		a, b, c := vertices[i], vertices[(i+1)%n], vertices[(i+2)%n]
		in, out := b.Sub(a), c.Sub(b)
		turn := in.Cross(out)
		if turn == 0 {
			// Straight on is fine, doubling back is not
			if in.Dot(out) < 0 {
				return false
			}
			continue
		}
		if sign == 0 {
			sign = turn
		} else if (turn > 0) != (sign > 0) {
			return false
		}
		winding += math.Atan2(turn, in.Dot(out))
	}
	return math.Abs(math.Abs(winding)-2*math.Pi) < 1e-6
}

// Position returns the world-space translation
func (p *Polygon) Position() core.Vector2D {
	return p.position
}

// SetPosition moves the polygon
func (p *Polygon) SetPosition(position core.Vector2D) {
	if position == p.position {
		return
	}
	p.position = position
	p.dirty.set(dirtyBounds)
}

// Vertices returns the local vertex ring. The slice must not be modified.
func (p *Polygon) Vertices() []core.Vector2D {
	return p.vertices
}

// WorldVertices appends the translated vertices to dst
func (p *Polygon) WorldVertices(dst []core.Vector2D) []core.Vector2D {
	for _, v := range p.vertices {
		dst = append(dst, v.Add(p.position))
	}
	return dst
}

// IsBox reports whether the polygon is a rectangle, in which case only two normals are kept
func (p *Polygon) IsBox() bool {
	return p.isBox
}

// Normals returns the cached outward unit normals, one per edge,
// or only the first two for a rectangle since opposite edges share an axis.
func (p *Polygon) Normals() []core.Vector2D {
	if p.dirty.has(dirtyNormals) {
		p.normals = collision.EdgeNormals(p.vertices, p.normals)
		if p.isBox {
			p.normals = p.normals[:2]
		}
		p.dirty.clear(dirtyNormals)
	}
	return p.normals
}

// Bounds returns the world-space bounding box
func (p *Polygon) Bounds() core.AABB {
	if p.dirty.has(dirtyBounds) {
		lo, hi := p.vertices[0], p.vertices[0]
		for _, v := range p.vertices[1:] {
			lo.X = math.Min(lo.X, v.X)
			lo.Y = math.Min(lo.Y, v.Y)
			hi.X = math.Max(hi.X, v.X)
			hi.Y = math.Max(hi.Y, v.Y)
		}
		p.bounds = core.AABB{Min: lo.Add(p.position), Max: hi.Add(p.position)}
		p.dirty.clear(dirtyBounds)
	}
	return p.bounds
}

func (p *Polygon) view() collision.Polygon {
	return collision.Polygon{
		Position: p.position,
		Vertices: p.vertices,
		Normals:  p.Normals(),
	}
}

// ContainsPoint reports whether point is inside the polygon or on its border
func (p *Polygon) ContainsPoint(point core.Vector2D) bool {
	if !p.Bounds().ContainsPoint(point) {
		return false
	}
	return collision.PolygonContainsPoint(p.view(), point)
}

// CheckOverlap reports whether the shapes overlap
func (p *Polygon) CheckOverlap(other Shape) bool {
	return other.acceptOverlap(p)
}

// CollidesWith returns the contact that pushes p out of other
func (p *Polygon) CollidesWith(other Shape) (collision.Contact, bool) {
	return other.acceptCollide(p)
}

// CollidesWithLine intersects the segment start→end with the polygon edges
func (p *Polygon) CollidesWithLine(start, end core.Vector2D) (collision.LineHit, bool) {
	return collision.LineToPolygon(start, end, p.view())
}

func (p *Polygon) collideBox(other *Box) (collision.Contact, bool) {
	return p.collidePolygon(other.Polygon())
}

func (p *Polygon) collidePolygon(other *Polygon) (collision.Contact, bool) {
	if !p.Bounds().Intersects(other.Bounds()) {
		return collision.Contact{}, false
	}
	return collision.PolygonToPolygon(p.view(), other.view())
}

func (p *Polygon) overlapBox(other *Box) bool {
	_, ok := p.collideBox(other)
	return ok
}

func (p *Polygon) overlapPolygon(other *Polygon) bool {
	_, ok := p.collidePolygon(other)
	return ok
}

func (p *Polygon) acceptCollide(self Shape) (collision.Contact, bool) {
	return self.collidePolygon(p)
}

func (p *Polygon) acceptOverlap(self Shape) bool {
	return self.overlapPolygon(p)
}
