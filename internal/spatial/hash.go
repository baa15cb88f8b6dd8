package spatial

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"hitgrid/internal/collider"
	"hitgrid/internal/core"
	"hitgrid/internal/pool"
	"hitgrid/internal/shape"
)

// Index is a broad-phase structure over colliders with payload T
type Index[T any] interface {
	Insert(c *collider.Collider[T]) error
	Remove(c *collider.Collider[T], forceFullScan bool) error
	Update(c *collider.Collider[T]) error
	Broadphase(rect core.AABB, mask collider.Mask) *pool.List[*collider.Collider[T]]
	OverlapRect(rect core.AABB, mask collider.Mask) *pool.List[*collider.Collider[T]]
	Linecast(origin, end core.Vector2D, mask collider.Mask, hitLimit int, ignoreOriginColliders bool) *pool.List[collider.LineCastResult[T]]
	Stats() Stats
}

var _ Index[struct{}] = (*Hash[struct{}])(nil)

// Stats summarizes the contents of a hash
type Stats struct {
	Chunks      int
	Colliders   int
	WorldBounds core.GridRect
}

// Hash is a sparse grid of square chunks. Each chunk lists every collider whose
// bounds touch it, so a collider spanning several chunks appears in each of them.
//
// Chunk coordinates are floor(world / chunkSize) and must fit in an int32 so that
// two of them pack into one ChunkKey. Chunks are never pruned and the world bounds
// only grow.
type Hash[T any] struct {
	chunkSize   float64
	chunks      map[int64][]*collider.Collider[T]
	worldBounds core.GridRect
	colliders   int

	lists     *pool.ListPool[*collider.Collider[T]]
	hits      *pool.ListPool[collider.LineCastResult[T]]
	seen      map[*collider.Collider[T]]struct{}
	probe     *shape.Box
	processor *linecastProcessor[T]

	log *zap.Logger
}

// NewHash creates an empty hash with square chunks of chunkSize world units
func NewHash[T any](chunkSize float64, log *zap.Logger) (*Hash[T], error) {
	if !(chunkSize > 0) || math.IsInf(chunkSize, 1) {
		return nil, fmt.Errorf("chunk size %v: %w", chunkSize, core.ErrInvalidChunkSize)
	}
	if log == nil {
		log = zap.NewNop()
	}

	h := &Hash[T]{
		chunkSize:   chunkSize,
		chunks:      make(map[int64][]*collider.Collider[T]),
		worldBounds: core.EmptyGridRect,
		lists:       pool.NewListPool[*collider.Collider[T]](),
		hits:        pool.NewListPool[collider.LineCastResult[T]](),
		seen:        make(map[*collider.Collider[T]]struct{}),
		probe:       shape.NewBox(core.Vector2D{}, core.Vector2D{}),
		log:         log,
	}
	h.processor = newLinecastProcessor[T]()

	log.Debug("spatial hash created", zap.Float64("chunk_size", chunkSize))
	return h, nil
}

// ChunkSize returns the side of a chunk in world units
func (h *Hash[T]) ChunkSize() float64 {
	return h.chunkSize
}

// Insert registers the collider in every chunk its bounds touch
func (h *Hash[T]) Insert(c *collider.Collider[T]) error {
	if c == nil || c.Shape == nil {
		return core.ErrNilCollider
	}
	if c.State() == collider.Registered {
		return fmt.Errorf("insert: %w", core.ErrAlreadyRegistered)
	}

	bounds := c.Bounds()
	region, err := h.cellRect(bounds)
	if err != nil {
		return fmt.Errorf("insert collider with bounds %+v: %w", bounds, err)
	}

	for x := int64(region.MinX); x <= int64(region.MaxX); x++ {
		for y := int64(region.MinY); y <= int64(region.MaxY); y++ {
			key := core.ChunkKey(int32(x), int32(y))
			h.chunks[key] = append(h.chunks[key], c)
		}
	}

	h.worldBounds = h.worldBounds.Union(region)
	h.colliders++
	c.MarkRegistered(region)
	return nil
}

// Remove unregisters the collider. By default only the chunks of its registration
// region are visited; forceFullScan visits every chunk and is meant for recovering
// from a corrupted region.
func (h *Hash[T]) Remove(c *collider.Collider[T], forceFullScan bool) error {
	if c == nil {
		return core.ErrNilCollider
	}
	if c.State() != collider.Registered {
		return fmt.Errorf("remove collider in state %s: %w", c.State(), core.ErrNotRegistered)
	}

	if forceFullScan {
		h.log.Warn("removing collider with a full chunk scan", zap.Int("chunks", len(h.chunks)))
		for key, cell := range h.chunks {
			h.chunks[key], _ = removeFromCell(cell, c)
		}
	} else {
		region := c.Region()
		for x := int64(region.MinX); x <= int64(region.MaxX); x++ {
			for y := int64(region.MinY); y <= int64(region.MaxY); y++ {
				key := core.ChunkKey(int32(x), int32(y))
				cell, found := removeFromCell(h.chunks[key], c)
				if !found {
					h.log.Warn("collider missing from a chunk of its region",
						zap.Int64("x", x), zap.Int64("y", y))
					continue
				}
				h.chunks[key] = cell
			}
		}
	}

	h.colliders--
	c.MarkRemoved()
	return nil
}

// removeFromCell swap-removes c from cell and reports whether it was present
func removeFromCell[T any](cell []*collider.Collider[T], c *collider.Collider[T]) ([]*collider.Collider[T], bool) {
	for i, other := range cell {
		if other != c {
			continue
		}
		last := len(cell) - 1
		cell[i] = cell[last]
		cell[last] = nil
		return cell[:last], true
	}
	return cell, false
}

// Update re-registers a collider after its shape moved or changed
func (h *Hash[T]) Update(c *collider.Collider[T]) error {
	if err := h.Remove(c, false); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if err := h.Insert(c); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// Broadphase returns every collider on a layer in mask whose bounds intersect rect.
// Each collider appears at most once. The caller must Release the list.
func (h *Hash[T]) Broadphase(rect core.AABB, mask collider.Mask) *pool.List[*collider.Collider[T]] {
	out := h.lists.Get()

	region := h.clampedCellRect(rect)
	if region.Empty() {
		return out
	}

	for x := int64(region.MinX); x <= int64(region.MaxX); x++ {
		for y := int64(region.MinY); y <= int64(region.MaxY); y++ {
			for _, c := range h.chunks[core.ChunkKey(int32(x), int32(y))] {
				if !mask.Matches(c.Layer) {
					continue
				}
				if _, dup := h.seen[c]; dup {
					continue
				}
				h.seen[c] = struct{}{}
				if rect.Intersects(c.Bounds()) {
					out.Append(c)
				}
			}
		}
	}

	clear(h.seen)
	return out
}

// OverlapRect narrows Broadphase to colliders whose shape overlaps rect.
// The broad-phase list is filtered in place.
func (h *Hash[T]) OverlapRect(rect core.AABB, mask collider.Mask) *pool.List[*collider.Collider[T]] {
	out := h.Broadphase(rect, mask)
	if out.Len() == 0 {
		return out
	}

	h.probe.SetPosition(rect.Center())
	h.probe.SetSize(rect.Size())

	kept := 0
	for _, c := range out.Items {
		if c.Shape.CheckOverlap(h.probe) {
			out.Items[kept] = c
			kept++
		}
	}
	clear(out.Items[kept:])
	out.Items = out.Items[:kept]
	return out
}

// Stats returns the current size of the hash
func (h *Hash[T]) Stats() Stats {
	return Stats{
		Chunks:      len(h.chunks),
		Colliders:   h.colliders,
		WorldBounds: h.worldBounds,
	}
}

// WorldBounds returns the area covered by every chunk ever used, in world units.
// ok is false while nothing has been inserted.
func (h *Hash[T]) WorldBounds() (core.AABB, bool) {
	if h.worldBounds.Empty() {
		return core.AABB{}, false
	}
	return core.AABB{
		Min: core.Vector2D{
			X: float64(h.worldBounds.MinX) * h.chunkSize,
			Y: float64(h.worldBounds.MinY) * h.chunkSize,
		},
		Max: core.Vector2D{
			X: (float64(h.worldBounds.MaxX) + 1) * h.chunkSize,
			Y: (float64(h.worldBounds.MaxY) + 1) * h.chunkSize,
		},
	}, true
}

// cellCoord converts a world coordinate to a chunk coordinate
func (h *Hash[T]) cellCoord(v float64) (int32, error) {
	c := math.Floor(v / h.chunkSize)
	if math.IsNaN(c) || c < math.MinInt32 || c > math.MaxInt32 {
		return 0, fmt.Errorf("coordinate %v: %w", v, core.ErrChunkOutOfRange)
	}
	return int32(c), nil
}

// cellRect returns the chunks touched by bounds
func (h *Hash[T]) cellRect(bounds core.AABB) (core.GridRect, error) {
	var r core.GridRect
	var err error
	if r.MinX, err = h.cellCoord(bounds.Min.X); err != nil {
		return r, err
	}
	if r.MinY, err = h.cellCoord(bounds.Min.Y); err != nil {
		return r, err
	}
	if r.MaxX, err = h.cellCoord(bounds.Max.X); err != nil {
		return r, err
	}
	if r.MaxY, err = h.cellCoord(bounds.Max.Y); err != nil {
		return r, err
	}
	return r, nil
}

// clampedCellRect returns the chunks touched by a query rectangle, clipped to the world bounds
func (h *Hash[T]) clampedCellRect(rect core.AABB) core.GridRect {
	world, ok := h.WorldBounds()
	if !ok || !rect.Intersects(world) {
		return core.EmptyGridRect
	}

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
	return core.GridRect{
		MinX: clamp(rect.Min.X, wb.MinX, wb.MaxX),
		MinY: clamp(rect.Min.Y, wb.MinY, wb.MaxY),
		MaxX: clamp(rect.Max.X, wb.MinX, wb.MaxX),
		MaxY: clamp(rect.Max.Y, wb.MinY, wb.MaxY),
	}
}
