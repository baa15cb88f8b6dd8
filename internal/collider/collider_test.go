package collider

import (
	"hitgrid/internal/core"
	"hitgrid/internal/shape"
	"testing"
)

func TestNewCollider(t *testing.T) {
	c := New(shape.NewBox(core.Vector2D{}, core.Vector2D{X: 2, Y: 2}), "crate")

	if c.State() != Unregistered {
		t.Fatalf("Expected new collider to be unregistered, got %s", c.State())
	}
	if !c.Region().Empty() {
		t.Fatalf("Expected empty region, got %+v", c.Region())
	}
	if c.Layer != 1 || c.CollidesWith != AllLayers {
		t.Fatalf("Unexpected default masks %d / %d", c.Layer, c.CollidesWith)
	}
}

func TestLifecycleTransitions(t *testing.T) {
	c := New(shape.NewBox(core.Vector2D{}, core.Vector2D{X: 2, Y: 2}), 0)
	region := core.GridRect{MinX: -1, MinY: -1, MaxX: 0, MaxY: 0}

	c.MarkRegistered(region)
	if c.State() != Registered || c.Region() != region {
		t.Fatalf("Expected registered with region %+v, got %s %+v", region, c.State(), c.Region())
	}

	c.MarkRemoved()
	if c.State() != Removed || !c.Region().Empty() {
		t.Fatalf("Expected removed with empty region, got %s %+v", c.State(), c.Region())
	}

	c.MarkRegistered(region)
	if c.State() != Registered {
		t.Fatalf("Expected re-registration, got %s", c.State())
	}
}

func TestAccepts(t *testing.T) {
	player := New(shape.NewBox(core.Vector2D{}, core.Vector2D{X: 1, Y: 1}), "player")
	wall := New(shape.NewBox(core.Vector2D{}, core.Vector2D{X: 1, Y: 1}), "wall")
	pickup := New(shape.NewBox(core.Vector2D{}, core.Vector2D{X: 1, Y: 1}), "pickup")

	player.Layer = 1 << 0
	wall.Layer = 1 << 1
	pickup.Layer = 1 << 2
	player.CollidesWith = wall.Layer

	if !player.Accepts(wall) {
		t.Fatalf("Expected player to accept wall")
	}
	if player.Accepts(pickup) {
		t.Fatalf("Expected player to ignore pickup")
	}
}

func TestCollidesWithCollider(t *testing.T) {
	a := New(shape.NewBox(core.Vector2D{}, core.Vector2D{X: 10, Y: 10}), 1)
	b := New(shape.NewBox(core.Vector2D{X: 5}, core.Vector2D{X: 10, Y: 10}), 2)

	result, ok := a.CollidesWithCollider(b)
	if !ok {
		t.Fatalf("Expected colliders to collide")
	}
	if result.Self != a || result.Other != b {
		t.Fatalf("Result does not reference both colliders")
	}
	if result.PenetrationVector != (core.Vector2D{X: 5}) {
		t.Fatalf("Expected penetration (5, 0), got %v", result.PenetrationVector)
	}
	if result.Normal != (core.Vector2D{X: -1}) {
		t.Fatalf("Expected normal (-1, 0), got %v", result.Normal)
	}
}
