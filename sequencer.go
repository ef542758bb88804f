package puzzleburst

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/tanema/gween/ease"
)

// Sequencer drives the explode -> secondary-fade -> base-reveal sequence over
// a grid of puzzle pieces. Each instance owns its own animation records and
// clock state; there are no package-level singletons, so multiple independent
// sequencers can coexist and tear down cleanly.
//
// The sequencer is single-threaded and frame-driven: the host calls Update
// once per frame, and all object state is recomputed from elapsed wall-clock
// time. Stage transitions happen inside Update when the elapsed time crosses
// a threshold, never via one-shot timers, so Restart needs no timer
// cancellation to be safe.
type Sequencer struct {
	grid    *Grid
	cfg     Config
	surface Rect
	rng     *rand.Rand
	now     func() time.Time // replaceable in tests

	nextID uint32
	byID   map[uint32]*AnimatedObject

	base         *AnimatedObject
	secondary    []*AnimatedObject
	pieces       []*AnimatedObject
	shapes       []Contour
	cellW, cellH float64

	stage Stage

	// Virtual clock: sequence time elapsed since the trigger, scaled by the
	// speed multiplier. Speed changes fold the elapsed portion in at the
	// old rate, so in-flight animations rescale instead of restarting.
	speed         float64
	speedBase     time.Time
	virtualAtBase time.Duration
}

// NewSequencer builds a sequencer over the given grid, projected onto the
// model's surface, with one renderable per piece plus the secondary and base
// overlay layers. The model must be Ready (ErrModelNotLoaded otherwise); the
// config is validated and read once.
//
// Objects are created back to front: base overlay, secondary overlays, then
// pieces, so a painter-order renderer layers them correctly.
func NewSequencer(grid *Grid, model ModelProvider, factory RenderableFactory, cfg Config) (*Sequencer, error) {
	if grid == nil {
		return nil, fmt.Errorf("puzzleburst: sequencer requires a grid")
	}
	if factory == nil {
		return nil, fmt.Errorf("puzzleburst: sequencer requires a renderable factory")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil || !model.Ready() {
		return nil, ErrModelNotLoaded
	}

	surface := model.Surface()
	s := &Sequencer{
		grid:    grid,
		cfg:     cfg,
		surface: surface,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		byID:    make(map[uint32]*AnimatedObject),
		cellW:   surface.Width / float64(grid.Cols()),
		cellH:   surface.Height / float64(grid.Rows()),
		stage:   StageIdle,
		speed:   cfg.SpeedMultiplier,
	}

	// Base overlay: covers the whole surface, revealed last.
	s.base = s.newObject(factory,
		Transform{Position: surface.Center(), Scale: 1},
		FillDescriptor{Color: cfg.BaseColor, Width: surface.Width, Height: surface.Height})

	// Secondary overlays: scattered across the surface, faded out along a
	// golden-angle spiral during the second stage.
	s.secondary = make([]*AnimatedObject, 0, cfg.SecondaryCount)
	for i := 0; i < cfg.SecondaryCount; i++ {
		pos := Vec2{
			X: surface.X + s.rng.Float64()*surface.Width,
			Y: surface.Y + s.rng.Float64()*surface.Height,
		}
		obj := s.newObject(factory,
			Transform{Position: pos, Scale: 1},
			FillDescriptor{Color: cfg.SecondaryColor, Width: 4, Height: 4})
		s.secondary = append(s.secondary, obj)
	}

	// Puzzle pieces.
	s.pieces = make([]*AnimatedObject, 0, grid.Len())
	s.shapes = make([]Contour, 0, grid.Len())
	for i := 0; i < grid.Len(); i++ {
		desc, err := grid.Piece(i)
		if err != nil {
			return nil, err
		}
		shape, err := ShapeForPiece(desc, s.cellW, s.cellH, cfg.Edge)
		if err != nil {
			return nil, err
		}
		cell, err := grid.CellRect(i, surface.Width, surface.Height)
		if err != nil {
			return nil, err
		}
		pos := Vec2{X: surface.X + cell.X + cell.Width/2, Y: surface.Y + cell.Y + cell.Height/2}
		fill := ColorWhite
		if len(cfg.Palette) > 0 {
			fill = cfg.Palette[i%len(cfg.Palette)]
		}
		obj := s.newObject(factory,
			Transform{Position: pos, Scale: 1},
			FillDescriptor{Color: fill, Contour: shape, Width: s.cellW, Height: s.cellH})
		s.pieces = append(s.pieces, obj)
		s.shapes = append(s.shapes, shape)
	}

	return s, nil
}

// newObject creates a renderable via the factory and registers its animation
// record in the side table.
func (s *Sequencer) newObject(factory RenderableFactory, t Transform, fill FillDescriptor) *AnimatedObject {
	s.nextID++
	handle := factory.NewRenderable(t, fill)
	obj := NewAnimatedObject(s.nextID, handle, t, 1)
	s.byID[obj.ID] = obj
	return obj
}

// CurrentStage returns the sequencer's current stage.
func (s *Sequencer) CurrentStage() Stage { return s.stage }

// Speed returns the current speed multiplier.
func (s *Sequencer) Speed() float64 { return s.speed }

// Grid returns the piece grid the sequencer was built over.
func (s *Sequencer) Grid() *Grid { return s.grid }

// Pieces returns the per-piece animation records, indexed like the grid.
// The returned slice MUST NOT be mutated by the caller.
func (s *Sequencer) Pieces() []*AnimatedObject { return s.pieces }

// Secondary returns the secondary overlay records.
// The returned slice MUST NOT be mutated by the caller.
func (s *Sequencer) Secondary() []*AnimatedObject { return s.secondary }

// Base returns the base overlay record.
func (s *Sequencer) Base() *AnimatedObject { return s.base }

// ObjectByID looks up an animation record by its stable identifier.
func (s *Sequencer) ObjectByID(id uint32) (*AnimatedObject, bool) {
	obj, ok := s.byID[id]
	return obj, ok
}

// Trigger starts the sequence. It is an idempotent no-op unless the stage is
// idle, so re-entrant triggers (user double-clicks) are ignored rather than
// treated as errors.
//
// Every piece gets a randomized outward target (random direction, distance
// and travel speed from the configured ranges, random rotation delta) plus a
// stagger offset of index * stagger step (zero in instant mode). If picked is
// a valid piece index, that piece instead plays the feature animation:
// scaling up toward the viewer with no fade. Pass a negative index when no
// specific piece was picked.
func (s *Sequencer) Trigger(picked int) {
	if s.stage != StageIdle {
		return
	}
	s.stage = StageExploding
	s.speedBase = s.now()
	s.virtualAtBase = 0

	step := s.cfg.staggerStep()
	if s.cfg.StaggerMode == StaggerModeInstant {
		step = 0
	}

	for i, obj := range s.pieces {
		if i == picked {
			t := obj.Original()
			t.Scale = s.cfg.FeatureScale
			obj.AnimateTo(t, obj.Opacity(), 0, s.cfg.explodeDelay(), ease.OutCubic, false)
			continue
		}

		angle := s.rng.Float64() * 2 * math.Pi
		dist := s.cfg.ExplodeDistance.Random(s.rng)
		speed := s.cfg.ExplodeSpeed.Random(s.rng)
		rot := s.cfg.RotationDelta.Random(s.rng)
		if s.rng.IntN(2) == 0 {
			rot = -rot
		}

		t := obj.Original()
		t.Position = t.Position.Add(Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(dist))
		t.Rotation += rot

		duration := time.Duration(dist / speed * float64(time.Second))
		offset := time.Duration(i) * step
		obj.AnimateTo(t, obj.Opacity(), offset, duration, ease.OutCubic, true)
	}
}

// TriggerAt hit-tests the point against the piece set and triggers with the
// picked piece as the feature piece. Missing every piece is a no-op, as is
// any call while the stage is not idle.
func (s *Sequencer) TriggerAt(x, y float64) {
	if s.stage != StageIdle {
		return
	}
	if idx, ok := s.PieceAtPoint(x, y); ok {
		s.Trigger(idx)
	}
}

// SetSpeed changes the speed multiplier. When a sequence is in flight, the
// virtual time elapsed so far is folded in at the old rate and the remaining
// portion plays at the new rate, so stagger ordering and relative progress
// are preserved. Non-positive multipliers are rejected.
func (s *Sequencer) SetSpeed(multiplier float64) error {
	if multiplier <= 0 {
		return fmt.Errorf("puzzleburst: speed multiplier must be positive, got %g", multiplier)
	}
	now := s.now()
	if s.stage != StageIdle {
		s.virtualAtBase = s.virtualNow(now)
	}
	s.speedBase = now
	s.speed = multiplier
	return nil
}

// Restart resets the sequencer to idle from any stage, including
// mid-animation: every object is restored to its pre-trigger transform,
// opacity, and visibility. There are no timers to cancel; a later Update
// simply sees the idle stage and does nothing.
func (s *Sequencer) Restart() {
	s.stage = StageIdle
	s.virtualAtBase = 0
	for _, obj := range s.pieces {
		obj.Reset()
	}
	for _, obj := range s.secondary {
		obj.Reset()
	}
	s.base.Reset()
}

// Update is the per-frame tick. It advances the stage machine past any
// thresholds the virtual clock has crossed since the last call (each boundary
// fires exactly once, because the stage value records what was already seen),
// then recomputes and applies every live object's state.
func (s *Sequencer) Update(now time.Time) {
	if s.stage == StageIdle {
		return
	}
	v := s.virtualNow(now)

	explodeEnd := s.cfg.explodeDelay()
	revealStart := explodeEnd + s.cfg.revealDelay()
	sequenceEnd := revealStart + s.cfg.revealDuration()

	if s.stage == StageExploding && v >= explodeEnd {
		s.beginSecondaryFade()
	}
	if s.stage == StageSecondaryFade && v >= revealStart {
		s.beginBaseReveal()
	}
	if s.stage == StageBaseReveal && v >= sequenceEnd {
		s.stage = StageComplete
	}

	for _, obj := range s.pieces {
		obj.Apply(v)
	}
	for _, obj := range s.secondary {
		obj.Apply(v - explodeEnd)
	}
	s.base.Apply(v - revealStart)
}

// virtualNow converts a wall-clock instant to virtual sequence time.
func (s *Sequencer) virtualNow(now time.Time) time.Duration {
	return s.virtualAtBase + time.Duration(float64(now.Sub(s.speedBase))*s.speed)
}

// beginSecondaryFade arms the secondary overlay objects: each fades to
// transparent while drifting outward along a golden-angle spiral, object i
// at angle i * 137.5 degrees with radius growing across the set.
func (s *Sequencer) beginSecondaryFade() {
	s.stage = StageSecondaryFade
	n := len(s.secondary)
	for i, obj := range s.secondary {
		angle := float64(i) * goldenAngle
		radius := s.cfg.SpiralRadius * float64(i+1) / float64(n)
		t := obj.Current()
		t.Position = t.Position.Add(Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(radius))
		obj.AnimateTo(t, 0, 0, s.cfg.secondaryFade(), ease.InOutQuad, true)
	}
}

// beginBaseReveal arms the base overlay fade from its current opacity to
// zero over the configured reveal duration.
func (s *Sequencer) beginBaseReveal() {
	s.stage = StageBaseReveal
	s.base.AnimateTo(s.base.Current(), 0, 0, s.cfg.revealDuration(), ease.Linear, true)
}
