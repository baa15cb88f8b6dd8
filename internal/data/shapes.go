package data

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
	"hitgrid/internal/collider"
	"hitgrid/internal/core"
	"hitgrid/internal/shape"
)

// Shape kinds accepted in a shape table
const (
	KindBox     = "box"
	KindPolygon = "polygon"
	KindRegular = "regular"
)

// ShapeTemplate describes a shape that can be stamped out at any position.
//   - box: Size (full width and height) and optional Rotation in degrees
//   - polygon: Vertices around the local origin
//   - regular: Sides and Radius
type ShapeTemplate struct {
	Name         string       `yaml:"name"`
	Kind         string       `yaml:"kind"`
	Size         [2]float64   `yaml:"size"`
	Rotation     float64      `yaml:"rotation"`
	Vertices     [][2]float64 `yaml:"vertices"`
	Sides        int          `yaml:"sides"`
	Radius       float64      `yaml:"radius"`
	Layer        uint32       `yaml:"layer"`
	CollidesWith uint32       `yaml:"collides_with"`
}

// Masks returns the layer masks of the template. Zero values fall back to
// layer 1 and all layers.
func (s *ShapeTemplate) Masks() (layer, collidesWith collider.Mask) {
	layer, collidesWith = 1, collider.AllLayers
	if s.Layer != 0 {
		layer = collider.Mask(s.Layer)
	}
	if s.CollidesWith != 0 {
		collidesWith = collider.Mask(s.CollidesWith)
	}
	return layer, collidesWith
}

// ShapeTable indexes shape templates by name.
type ShapeTable struct {
	byName map[string]*ShapeTemplate
	names  []string
}

// Get returns a template by name, or nil if not found.
func (t *ShapeTable) Get(name string) *ShapeTemplate {
	return t.byName[name]
}

// Names returns the template names in file order.
func (t *ShapeTable) Names() []string {
	return t.names
}

// Count returns the number of templates loaded.
func (t *ShapeTable) Count() int {
	return len(t.byName)
}

// Build creates a new shape from the named template, centered on position.
func (t *ShapeTable) Build(name string, position core.Vector2D) (shape.Shape, error) {
	tmpl := t.byName[name]
	if tmpl == nil {
		return nil, fmt.Errorf("shapes: unknown template %q", name)
	}
	return tmpl.Build(position)
}

// Build creates a new shape from the template, centered on position.
func (s *ShapeTemplate) Build(position core.Vector2D) (shape.Shape, error) {
	switch s.Kind {
	case KindBox:
		size := core.Vector2D{X: s.Size[0], Y: s.Size[1]}
		return shape.NewRotatedBox(position, size, s.Rotation*degToRad), nil
	case KindPolygon:
		vertices := make([]core.Vector2D, len(s.Vertices))
		for i, v := range s.Vertices {
			vertices[i] = core.Vector2D{X: v[0], Y: v[1]}
		}
		p, err := shape.NewPolygon(position, vertices)
		if err != nil {
			return nil, fmt.Errorf("shapes: template %q: %w", s.Name, err)
		}
		return p, nil
	case KindRegular:
		p, err := shape.NewRegularPolygon(position, s.Sides, s.Radius)
		if err != nil {
			return nil, fmt.Errorf("shapes: template %q: %w", s.Name, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("shapes: template %q has unknown kind %q", s.Name, s.Kind)
	}
}

const degToRad = math.Pi / 180

// --- YAML loading ---

type shapeFile struct {
	Shapes []ShapeTemplate `yaml:"shapes"`
}

// LoadShapeTable loads shape templates from YAML.
func LoadShapeTable(path string) (*ShapeTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("shapes: read %s: %w", path, err)
	}

	var f shapeFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("shapes: parse %s: %w", path, err)
	}

	t, err := NewShapeTable(f.Shapes)
	if err != nil {
		return nil, fmt.Errorf("%w (in %s)", err, path)
	}
	return t, nil
}

// NewShapeTable indexes templates by name. Every template is built once so that
// invalid geometry is reported here rather than at spawn time.
func NewShapeTable(templates []ShapeTemplate) (*ShapeTable, error) {
	t := &ShapeTable{
		byName: make(map[string]*ShapeTemplate, len(templates)),
		names:  make([]string, 0, len(templates)),
	}
	for i := range templates {
		s := &templates[i]
		if s.Name == "" {
			return nil, fmt.Errorf("shapes: entry %d has no name", i)
		}
		if _, dup := t.byName[s.Name]; dup {
			return nil, fmt.Errorf("shapes: duplicate template %q", s.Name)
		}
		if _, err := s.Build(core.Vector2D{}); err != nil {
			return nil, err
		}
		t.byName[s.Name] = s
		t.names = append(t.names, s.Name)
	}
	return t, nil
}
