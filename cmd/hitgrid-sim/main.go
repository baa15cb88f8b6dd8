package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"hitgrid/internal/collider"
	"hitgrid/internal/config"
	"hitgrid/internal/core"
	"hitgrid/internal/data"
	"hitgrid/pkg/hitgrid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// body is the payload of every simulated collider
type body struct {
	id       int
	template string
	velocity core.Vector2D
}

func run() error {
	configPath := flag.String("config", "", "TOML config file (defaults are used when empty)")
	shapesPath := flag.String("shapes", "", "YAML shape table, overrides simulation.shapes")
	frames := flag.Int("frames", -1, "number of frames to simulate, overrides simulation.frames")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *shapesPath != "" {
		cfg.Simulation.Shapes = *shapesPath
	}
	if *frames >= 0 {
		cfg.Simulation.Frames = *frames
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	table, err := loadShapes(cfg.Simulation.Shapes)
	if err != nil {
		return err
	}
	log.Info("shape table loaded", zap.Int("templates", table.Count()), zap.String("path", cfg.Simulation.Shapes))

	world, err := hitgrid.NewWorld[*body](&hitgrid.Config{
		ChunkSize:       cfg.Hash.ChunkSize,
		DefaultHitLimit: cfg.Linecast.DefaultHitLimit,
		Logger:          log,
	})
	if err != nil {
		return err
	}

	sim := &simulation{
		cfg:   cfg.Simulation,
		world: world,
		table: table,
		rng:   rand.New(rand.NewSource(cfg.Simulation.Seed)),
		log:   log,
	}
	if err := sim.spawn(); err != nil {
		return err
	}

	start := time.Now()
	for frame := 0; frame < cfg.Simulation.Frames; frame++ {
		if err := sim.step(frame); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	stats := world.Stats()
	log.Info("simulation finished",
		zap.Int("frames", cfg.Simulation.Frames),
		zap.Int("bodies", len(sim.colliders)),
		zap.Int("collisions", sim.collisions),
		zap.Int("ray_hits", sim.rayHits),
		zap.Int("chunks", stats.Chunks),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// builtinShapes is used when no shape table is configured
var builtinShapes = []data.ShapeTemplate{
	{Name: "crate", Kind: data.KindBox, Size: [2]float64{16, 16}},
	{Name: "plank", Kind: data.KindBox, Size: [2]float64{32, 6}, Rotation: 30},
	{Name: "wedge", Kind: data.KindPolygon, Vertices: [][2]float64{{-10, -8}, {10, -8}, {0, 12}}},
	{Name: "rock", Kind: data.KindRegular, Sides: 7, Radius: 9},
}

func loadShapes(path string) (*data.ShapeTable, error) {
	if path == "" {
		return data.NewShapeTable(builtinShapes)
	}
	return data.LoadShapeTable(path)
}

type simulation struct {
	cfg   config.SimulationConfig
	world *hitgrid.World[*body]
	table *data.ShapeTable
	rng   *rand.Rand
	log   *zap.Logger

	colliders  []*collider.Collider[*body]
	collisions int
	rayHits    int
}

// spawn places bodies at random positions with random headings
func (s *simulation) spawn() error {
	names := s.table.Names()
	if len(names) == 0 && s.cfg.Bodies > 0 {
		return fmt.Errorf("shape table is empty")
	}

	for i := 0; i < s.cfg.Bodies; i++ {
		name := names[s.rng.Intn(len(names))]
		position := core.Vector2D{
			X: s.rng.Float64() * s.cfg.WorldSize,
			Y: s.rng.Float64() * s.cfg.WorldSize,
		}

		sh, err := s.table.Build(name, position)
		if err != nil {
			return err
		}

		heading := s.rng.Float64() * 2 * math.Pi
		speed := 20 + s.rng.Float64()*80
		b := &body{
			id:       i,
			template: name,
			velocity: core.Vector2D{X: speed}.Rotate(heading),
		}

		c := collider.New(sh, b)
		c.Layer, c.CollidesWith = s.table.Get(name).Masks()
		if err := s.world.Add(c); err != nil {
			return fmt.Errorf("spawn body %d: %w", i, err)
		}
		s.colliders = append(s.colliders, c)
	}

	s.log.Info("bodies spawned", zap.Int("bodies", len(s.colliders)), zap.Float64("world_size", s.cfg.WorldSize))
	return nil
}

// step moves every body once, bounces it off whatever it hit, and casts a probe ray
func (s *simulation) step(frame int) error {
	dt := s.cfg.Tick.Seconds()

	for _, c := range s.colliders {
		b := c.Payload
		resolved, err := s.world.Move(c, b.velocity.Scale(dt))
		if err != nil {
			return err
		}
		for _, r := range resolved {
			// Reflect the part of the velocity heading into the other collider
			if d := b.velocity.Dot(r.Normal); d < 0 {
				b.velocity = b.velocity.Sub(r.Normal.Scale(2 * d))
			}
		}
		s.collisions += len(resolved)

		if err := s.keepInside(c); err != nil {
			return err
		}
	}

	origin := core.Vector2D{Y: s.rng.Float64() * s.cfg.WorldSize}
	end := core.Vector2D{X: s.cfg.WorldSize, Y: origin.Y}
	hits := s.world.Linecast(origin, end, collider.AllLayers, false)
	s.rayHits += hits.Len()
	if hits.Len() > 0 {
		s.log.Debug("probe ray",
			zap.Int("frame", frame),
			zap.Int("hits", hits.Len()),
			zap.Int("first_body", hits.Items[0].Collider.Payload.id),
			zap.String("first_template", hits.Items[0].Collider.Payload.template),
			zap.Float64("first_distance", hits.Items[0].Distance))
	}
	hits.Release()

	return nil
}

// keepInside clamps a body to the world square and turns it around at the edges
func (s *simulation) keepInside(c *collider.Collider[*body]) error {
	b := c.Payload
	bounds := c.Bounds()
	offset := core.Vector2D{}

	if bounds.Min.X < 0 {
		offset.X = -bounds.Min.X
		b.velocity.X = math.Abs(b.velocity.X)
	} else if bounds.Max.X > s.cfg.WorldSize {
		offset.X = s.cfg.WorldSize - bounds.Max.X
		b.velocity.X = -math.Abs(b.velocity.X)
	}
	if bounds.Min.Y < 0 {
		offset.Y = -bounds.Min.Y
		b.velocity.Y = math.Abs(b.velocity.Y)
	} else if bounds.Max.Y > s.cfg.WorldSize {
		offset.Y = s.cfg.WorldSize - bounds.Max.Y
		b.velocity.Y = -math.Abs(b.velocity.Y)
	}

	if offset == (core.Vector2D{}) {
		return nil
	}
	c.Shape.SetPosition(c.Shape.Position().Add(offset))
	return s.world.Update(c)
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
