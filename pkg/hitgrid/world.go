package hitgrid

import (
	"fmt"

	"go.uber.org/zap"
	"hitgrid/internal/collider"
	"hitgrid/internal/config"
	"hitgrid/internal/core"
	"hitgrid/internal/pool"
	"hitgrid/internal/spatial"
)

// World is the collision world: a spatial index plus the queries and movement
// helpers built on top of it
type World[T any] struct {
	index  spatial.Index[T]
	config *Config
	log    *zap.Logger
}

// Config holds configuration for the world
type Config struct {
	ChunkSize       float64
	DefaultHitLimit int // 0 = unlimited
	Logger          *zap.Logger
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:       64,
		DefaultHitLimit: 0,
	}
}

// ConfigFromFile reads the [hash] and [linecast] sections of a TOML config file
func ConfigFromFile(path string) (*Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{
		ChunkSize:       cfg.Hash.ChunkSize,
		DefaultHitLimit: cfg.Linecast.DefaultHitLimit,
	}, nil
}

// NewWorld creates an empty world
func NewWorld[T any](cfg *Config) (*World[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	hash, err := spatial.NewHash[T](cfg.ChunkSize, log.Named("hash"))
	if err != nil {
		return nil, fmt.Errorf("create world: %w", err)
	}

	log.Info("collision world created",
		zap.Float64("chunk_size", cfg.ChunkSize),
		zap.Int("default_hit_limit", cfg.DefaultHitLimit))

	return &World[T]{
		index:  hash,
		config: cfg,
		log:    log,
	}, nil
}

// Collider Management

// Add registers a collider
func (w *World[T]) Add(c *collider.Collider[T]) error {
	return w.index.Insert(c)
}

// Remove unregisters a collider using its registration region
func (w *World[T]) Remove(c *collider.Collider[T]) error {
	return w.index.Remove(c, false)
}

// RemoveForced unregisters a collider by scanning every chunk
func (w *World[T]) RemoveForced(c *collider.Collider[T]) error {
	return w.index.Remove(c, true)
}

// Update re-registers a collider after its shape changed
func (w *World[T]) Update(c *collider.Collider[T]) error {
	return w.index.Update(c)
}

// Spatial Queries

// Broadphase returns the colliders whose bounds intersect rect. Release the list when done.
func (w *World[T]) Broadphase(rect core.AABB, mask collider.Mask) *pool.List[*collider.Collider[T]] {
	return w.index.Broadphase(rect, mask)
}

// OverlapRect returns the colliders whose shape overlaps rect. Release the list when done.
func (w *World[T]) OverlapRect(rect core.AABB, mask collider.Mask) *pool.List[*collider.Collider[T]] {
	return w.index.OverlapRect(rect, mask)
}

// Linecast returns the hits along origin→end, nearest first, up to the configured
// default hit limit. Release the list when done.
func (w *World[T]) Linecast(origin, end core.Vector2D, mask collider.Mask, ignoreOriginColliders bool) *pool.List[collider.LineCastResult[T]] {
	return w.index.Linecast(origin, end, mask, w.config.DefaultHitLimit, ignoreOriginColliders)
}

// LinecastLimit is Linecast with an explicit hit limit; hitLimit <= 0 means unlimited
func (w *World[T]) LinecastLimit(origin, end core.Vector2D, mask collider.Mask, hitLimit int, ignoreOriginColliders bool) *pool.List[collider.LineCastResult[T]] {
	return w.index.Linecast(origin, end, mask, hitLimit, ignoreOriginColliders)
}

// Raycast returns the first hit along direction within maxDistance.
// Colliders containing origin are skipped so a caster does not hit itself.
func (w *World[T]) Raycast(origin, direction core.Vector2D, maxDistance float64, mask collider.Mask) (collider.LineCastResult[T], bool) {
	end := origin.Add(direction.Normalize().Scale(maxDistance))

	hits := w.index.Linecast(origin, end, mask, 1, true)
	defer hits.Release()

	if hits.Len() == 0 {
		return collider.LineCastResult[T]{}, false
	}
	return hits.Items[0], true
}

// Collision Detection

// CollisionsFor appends to dst every collision between c and the colliders it
// accepts, c excluded. c does not need to be registered; a registered c is
// returned by its own broadphase query and skipped.
func (w *World[T]) CollisionsFor(c *collider.Collider[T], dst []collider.CollisionResult[T]) []collider.CollisionResult[T] {
	candidates := w.index.Broadphase(c.Bounds(), c.CollidesWith)
	defer candidates.Release()

	for _, other := range candidates.Items {
		if other == c {
			continue
		}
		if result, ok := c.CollidesWithCollider(other); ok {
			dst = append(dst, result)
		}
	}
	return dst
}

// Move translates c by delta, then pushes it out of every collider it accepts.
// Each overlap is resolved against the position left by the previous ones.
// Candidates are gathered once, from the bounds after the translation: a push
// can leave c overlapping a collider outside that set, which CollisionsFor
// will report on the next call. A registered collider is re-registered at its
// final position.
func (w *World[T]) Move(c *collider.Collider[T], delta core.Vector2D) ([]collider.CollisionResult[T], error) {
	if c == nil || c.Shape == nil {
		return nil, core.ErrNilCollider
	}

	c.Shape.SetPosition(c.Shape.Position().Add(delta))

	var resolved []collider.CollisionResult[T]
	candidates := w.index.Broadphase(c.Bounds(), c.CollidesWith)
	for _, other := range candidates.Items {
		if other == c {
			continue
		}
		result, ok := c.CollidesWithCollider(other)
		if !ok {
			continue
		}
		c.Shape.SetPosition(c.Shape.Position().Sub(result.PenetrationVector))
		resolved = append(resolved, result)
	}
	candidates.Release()

	if c.State() == collider.Registered {
		if err := w.index.Update(c); err != nil {
			return resolved, fmt.Errorf("move: %w", err)
		}
	}
	return resolved, nil
}

// Performance and Debugging

// GetConfig returns the current world configuration
func (w *World[T]) GetConfig() *Config {
	return w.config
}

// Stats returns the size of the spatial index
func (w *World[T]) Stats() spatial.Stats {
	return w.index.Stats()
}

// ColliderCount returns the number of registered colliders
func (w *World[T]) ColliderCount() int {
	return w.index.Stats().Colliders
}
