package data

import (
	"errors"
	"hitgrid/internal/collider"
	"hitgrid/internal/core"
	"hitgrid/internal/shape"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeTable(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shapes.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write shape table: %v", err)
	}
	return path
}

const sampleTable = `
shapes:
  - name: crate
    kind: box
    size: [4, 2]
  - name: plank
    kind: box
    size: [8, 1]
    rotation: 90
    layer: 2
    collides_with: 5
  - name: wedge
    kind: polygon
    vertices: [[-2, -1], [2, -1], [0, 2]]
  - name: hex
    kind: regular
    sides: 6
    radius: 3
`

func TestLoadShapeTable(t *testing.T) {
	table, err := LoadShapeTable(writeTable(t, sampleTable))
	if err != nil {
		t.Fatalf("Failed to load shape table: %v", err)
	}

	if table.Count() != 4 {
		t.Fatalf("Expected 4 templates, got %d", table.Count())
	}
	names := table.Names()
	if names[0] != "crate" || names[3] != "hex" {
		t.Fatalf("Expected file order, got %v", names)
	}

	layer, collidesWith := table.Get("plank").Masks()
	if layer != 2 || collidesWith != 5 {
		t.Fatalf("Expected masks 2/5, got %d/%d", layer, collidesWith)
	}
	layer, collidesWith = table.Get("crate").Masks()
	if layer != 1 || collidesWith != collider.AllLayers {
		t.Fatalf("Expected default masks, got %d/%d", layer, collidesWith)
	}
}

func TestBuildShapes(t *testing.T) {
	table, err := LoadShapeTable(writeTable(t, sampleTable))
	if err != nil {
		t.Fatalf("Failed to load shape table: %v", err)
	}
	at := core.Vector2D{X: 10, Y: 20}

	crate, err := table.Build("crate", at)
	if err != nil {
		t.Fatalf("Failed to build crate: %v", err)
	}
	if crate.Bounds() != core.RectAABB(8, 19, 4, 2) {
		t.Fatalf("Unexpected crate bounds %+v", crate.Bounds())
	}

	plank, err := table.Build("plank", at)
	if err != nil {
		t.Fatalf("Failed to build plank: %v", err)
	}
	bounds := plank.Bounds()
	if math.Abs(bounds.Width()-1) > 1e-9 || math.Abs(bounds.Height()-8) > 1e-9 {
		t.Fatalf("Expected the rotated plank to stand upright, got %+v", bounds)
	}

	wedge, err := table.Build("wedge", at)
	if err != nil {
		t.Fatalf("Failed to build wedge: %v", err)
	}
	if _, ok := wedge.(*shape.Polygon); !ok {
		t.Fatalf("Expected a polygon, got %T", wedge)
	}

	hex, err := table.Build("hex", at)
	if err != nil {
		t.Fatalf("Failed to build hex: %v", err)
	}
	if got := len(hex.(*shape.Polygon).Vertices()); got != 6 {
		t.Fatalf("Expected 6 vertices, got %d", got)
	}

	if _, err := table.Build("missing", at); err == nil {
		t.Fatalf("Expected an error for an unknown template")
	}
}

func TestLoadShapeTableRejectsBadGeometry(t *testing.T) {
	path := writeTable(t, `
shapes:
  - name: sliver
    kind: polygon
    vertices: [[0, 0], [1, 1]]
`)
	if _, err := LoadShapeTable(path); !errors.Is(err, core.ErrDegeneratePolygon) {
		t.Fatalf("Expected ErrDegeneratePolygon, got %v", err)
	}
}

func TestLoadShapeTableRejectsDuplicatesAndUnknownKinds(t *testing.T) {
	dup := writeTable(t, `
shapes:
  - name: crate
    kind: box
    size: [1, 1]
  - name: crate
    kind: box
    size: [2, 2]
`)
	if _, err := LoadShapeTable(dup); err == nil {
		t.Fatalf("Expected an error for duplicate names")
	}

	unknown := writeTable(t, `
shapes:
  - name: blob
    kind: circle
`)
	if _, err := LoadShapeTable(unknown); err == nil {
		t.Fatalf("Expected an error for an unknown kind")
	}
}
