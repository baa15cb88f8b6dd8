package hitgrid

import (
	"math"
	"testing"
)

func TestVectorHelpers(t *testing.T) {
	a := NewVector2D(1, 2)
	b := NewVector2D(4, 6)

	if d := Distance(a, b); math.Abs(d-5) > 1e-9 {
		t.Fatalf("Expected distance 5, got %f", d)
	}
	if mid := Lerp(a, b, 0.5); mid != NewVector2D(2.5, 4) {
		t.Fatalf("Expected midpoint (2.5, 4), got %v", mid)
	}
	if Lerp(a, b, 0) != a || Lerp(a, b, 1) != b {
		t.Fatalf("Expected Lerp to return the endpoints at 0 and 1")
	}
}

func TestAABBHelpers(t *testing.T) {
	box := NewAABB(-2, -1, 4, 3)
	if box.Min != NewVector2D(-2, -1) || box.Max != NewVector2D(4, 3) {
		t.Fatalf("Unexpected box %+v", box)
	}
	if RectAABB(-2, -1, 6, 4) != box {
		t.Fatalf("Expected RectAABB to match NewAABB, got %+v", RectAABB(-2, -1, 6, 4))
	}
	if centered := AABBFromCenterSize(NewVector2D(1, 1), 6, 4); centered != box {
		t.Fatalf("Expected centered box %+v, got %+v", box, centered)
	}
}

func TestHelpersDriveQueries(t *testing.T) {
	w := newTestWorld(t)
	coin := NewCollider[string](NewBox(NewVector2D(6, 0), 1, 1), "coin")
	if err := w.Add(coin); err != nil {
		t.Fatalf("Failed to add coin: %v", err)
	}

	origin := NewVector2D(0, 0)
	reach := w.OverlapRect(AABBFromCenterSize(origin, 14, 14), AllLayers)
	defer reach.Release()
	if reach.Len() != 1 || reach.Items[0] != coin {
		t.Fatalf("Expected the coin within reach, got %d colliders", reach.Len())
	}

	end := NewVector2D(20, 0)
	half := w.Linecast(origin, Lerp(origin, end, 0.25), AllLayers, false)
	defer half.Release()
	if half.Len() != 0 {
		t.Fatalf("Expected the first quarter of the line to stop short, got %d hits", half.Len())
	}

	full := w.Linecast(origin, end, AllLayers, false)
	defer full.Release()
	if full.Len() != 1 || math.Abs(full.Items[0].Distance-Distance(origin, NewVector2D(5.5, 0))) > 1e-9 {
		t.Fatalf("Expected one hit at distance 5.5, got %d hits", full.Len())
	}
}
