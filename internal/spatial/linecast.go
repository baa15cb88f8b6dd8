package spatial

import (
	"cmp"
	"hitgrid/internal/collider"
	"hitgrid/internal/collision"
	"hitgrid/internal/core"
	"hitgrid/internal/pool"
	"math"
	"slices"
)

// Linecast returns the colliders on a layer in mask hit by the segment origin→end,
// nearest first. hitLimit <= 0 means no limit. With ignoreOriginColliders set,
// colliders whose shape contains origin are skipped. The caller must Release the list.
//
// The chunks under the segment are walked with a DDA from the chunk containing origin
// to the chunk containing end, both clipped to the world bounds.
func (h *Hash[T]) Linecast(origin, end core.Vector2D, mask collider.Mask, hitLimit int, ignoreOriginColliders bool) *pool.List[collider.LineCastResult[T]] {
	p := h.processor
	p.Begin(origin, end, mask, hitLimit, ignoreOriginColliders, h.hits.Get())

	world, ok := h.WorldBounds()
	if !ok {
		return p.End()
	}

	tStart, tStop, ok := clipSegment(origin, end, world)
	if !ok {
		return p.End()
	}

	dir := end.Sub(origin)
	start := origin.Add(dir.Scale(tStart))
	stop := origin.Add(dir.Scale(tStop))

	cx, cy := h.clampedCell(start)
	ex, ey := h.clampedCell(stop)

	stepX, tMaxX, tDeltaX := h.ddaAxis(origin.X, dir.X, cx)
	stepY, tMaxY, tDeltaY := h.ddaAxis(origin.Y, dir.Y, cy)

	// Rounding at chunk borders must never walk away from the end chunk
	if stepX == 0 || (stepX > 0) != (ex > cx) {
		ex = cx
	}
	if stepY == 0 || (stepY > 0) != (ey > cy) {
		ey = cy
	}

	for {
		tExit := math.Min(math.Min(tMaxX, tMaxY), 1)
		if cell, exists := h.chunks[core.ChunkKey(cx, cy)]; exists && len(cell) > 0 {
			if p.ProcessChunk(cell, tExit) {
				break
			}
		}

		if cx == ex && cy == ey {
			break
		}

		alongX := tMaxX < tMaxY
		if cx == ex {
			alongX = false
		} else if cy == ey {
			alongX = true
		}

		if alongX {
			cx += stepX
			tMaxX += tDeltaX
		} else {
			cy += stepY
			tMaxY += tDeltaY
		}
	}

	return p.End()
}

// ddaAxis returns the step direction, the parameter of the first chunk border
// crossed, and the parameter span of one chunk along a single axis
func (h *Hash[T]) ddaAxis(origin, delta float64, cell int32) (int32, float64, float64) {
	switch {
	case delta > 0:
		border := (float64(cell) + 1) * h.chunkSize
		return 1, (border - origin) / delta, h.chunkSize / delta
	case delta < 0:
		border := float64(cell) * h.chunkSize
		return -1, (border - origin) / delta, -h.chunkSize / delta
	default:
		return 0, math.Inf(1), math.Inf(1)
	}
}

// clampedCell returns the chunk containing p, clamped to the world bounds
func (h *Hash[T]) clampedCell(p core.Vector2D) (int32, int32) {
	wb := h.worldBounds
	clamp := func(v float64, lo, hi int32) int32 {
		c := math.Floor(v / h.chunkSize)
		if c < float64(lo) {
			return lo
		}
		if c > float64(hi) {
			return hi
		}
		return int32(c)
	}
	return clamp(p.X, wb.MinX, wb.MaxX), clamp(p.Y, wb.MinY, wb.MaxY)
}

// clipSegment returns the parameter range of the segment origin→end inside box
func clipSegment(origin, end core.Vector2D, box core.AABB) (float64, float64, bool) {
	dir := end.Sub(origin)

	tEnter, _, ok := collision.RayToAABB(origin, dir, box)
	if !ok || tEnter > 1 {
		return 0, 0, false
	}
	tLeave, _, ok := collision.RayToAABB(end, dir.Negate(), box)
	if !ok || tLeave > 1 {
		return 0, 0, false
	}

	return math.Max(tEnter, 0), 1 - math.Max(tLeave, 0), true
}

// pendingHit is a hit found in a chunk that may still be beaten by a hit in a later chunk
type pendingHit[T any] struct {
	fraction float64
	result   collider.LineCastResult[T]
}

// linecastProcessor collects the hits of a single line cast. It is reused by its hash
// across casts; Begin resets it and End hands the output list to the caller.
//
// A collider spanning several chunks can be met in a chunk the segment crosses before
// the one holding its hit point, so hits are kept pending until the walk has passed
// their parameter. Released hits are therefore in order and the limit counts only
// hits that are final.
type linecastProcessor[T any] struct {
	origin       core.Vector2D
	end          core.Vector2D
	dir          core.Vector2D
	mask         collider.Mask
	hitLimit     int
	ignoreOrigin bool

	seen    map[*collider.Collider[T]]struct{}
	pending []pendingHit[T]
	out     *pool.List[collider.LineCastResult[T]]
}

func newLinecastProcessor[T any]() *linecastProcessor[T] {
	return &linecastProcessor[T]{
		seen: make(map[*collider.Collider[T]]struct{}),
	}
}

// Begin resets the processor for a new cast writing into out
func (p *linecastProcessor[T]) Begin(origin, end core.Vector2D, mask collider.Mask, hitLimit int, ignoreOrigin bool, out *pool.List[collider.LineCastResult[T]]) {
	p.origin = origin
	p.end = end
	p.dir = end.Sub(origin)
	p.mask = mask
	p.hitLimit = hitLimit
	p.ignoreOrigin = ignoreOrigin
	p.out = out
	clear(p.seen)
	clear(p.pending)
	p.pending = p.pending[:0]
}

// ProcessChunk tests the colliders of one chunk. tExit is the parameter at which the
// segment leaves the chunk. It reports whether the hit limit has been reached.
func (p *linecastProcessor[T]) ProcessChunk(cell []*collider.Collider[T], tExit float64) bool {
	for _, c := range cell {
		if _, dup := p.seen[c]; dup {
			continue
		}
		p.seen[c] = struct{}{}

		if !p.mask.Matches(c.Layer) {
			continue
		}

		if t, _, ok := collision.RayToAABB(p.origin, p.dir, c.Bounds()); !ok || t > 1 {
			continue
		}

		hit, ok := c.Shape.CollidesWithLine(p.origin, p.end)
		if !ok {
			continue
		}
		if p.ignoreOrigin && c.Shape.ContainsPoint(p.origin) {
			continue
		}

		p.pending = append(p.pending, pendingHit[T]{
			fraction: hit.Fraction,
			result: collider.LineCastResult[T]{
				Collider: c,
				Origin:   p.origin,
				End:      p.end,
				Distance: hit.Distance,
				Point:    hit.Point,
				Normal:   hit.Normal,
			},
		})
	}

	return p.release(tExit)
}

// release moves pending hits with a parameter up to tExit to the output, nearest first
func (p *linecastProcessor[T]) release(tExit float64) bool {
	if p.full() {
		return true
	}
	if len(p.pending) == 0 {
		return false
	}

	slices.SortFunc(p.pending, func(a, b pendingHit[T]) int {
		return cmp.Compare(a.fraction, b.fraction)
	})

	n := 0
	for n < len(p.pending) && p.pending[n].fraction <= tExit && !p.full() {
		p.out.Append(p.pending[n].result)
		n++
	}

	rest := copy(p.pending, p.pending[n:])
	clear(p.pending[rest:])
	p.pending = p.pending[:rest]

	return p.full()
}

func (p *linecastProcessor[T]) full() bool {
	return p.hitLimit > 0 && p.out.Len() >= p.hitLimit
}

// End flushes the remaining hits and hands the output list to the caller
func (p *linecastProcessor[T]) End() *pool.List[collider.LineCastResult[T]] {
	p.release(math.Inf(1))

	out := p.out
	p.out = nil
	clear(p.seen)
	clear(p.pending)
	p.pending = p.pending[:0]
	return out
}
