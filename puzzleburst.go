package puzzleburst

import (
	"errors"
	"math"
	"math/rand/v2"
)

// Sentinel errors returned by grid construction and queries. Callers test
// them with errors.Is; wrapped messages carry the offending values.
var (
	ErrInvalidDimensions = errors.New("puzzleburst: grid dimensions must be at least 1x1")
	ErrIndexOutOfRange   = errors.New("puzzleburst: piece index out of range")
	ErrModelNotLoaded    = errors.New("puzzleburst: model surface not loaded")
	ErrUnsafeEdgeStyle   = errors.New("puzzleburst: edge style outside safe range")
)

// goldenAngle is the golden angle pi*(3-sqrt(5)) in radians (~137.5 degrees),
// used to spread secondary overlay objects evenly around a spiral.
const goldenAngle = 2.399963229728653

// Vec2 is a 2D vector used for positions, offsets, sizes, and directions
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v.X * s, v.Y * s}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default fill (no tint).
var ColorWhite = Color{1, 1, 1, 1}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the rectangle's center point.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Range is a general-purpose min/max range. Used for explosion distances,
// speeds, and rotation deltas.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// EdgeKind classifies one side of a puzzle piece.
type EdgeKind uint8

const (
	EdgeStraight EdgeKind = iota // flat border edge
	EdgeTab                      // outward protrusion
	EdgeBlank                    // inward notch
)

// Complement returns the edge kind that interlocks with k. A tab faces a
// blank and vice versa; straight edges only occur on the outer border and
// complement themselves.
func (k EdgeKind) Complement() EdgeKind {
	switch k {
	case EdgeTab:
		return EdgeBlank
	case EdgeBlank:
		return EdgeTab
	default:
		return EdgeStraight
	}
}

// String returns the edge kind name.
func (k EdgeKind) String() string {
	switch k {
	case EdgeStraight:
		return "straight"
	case EdgeTab:
		return "tab"
	case EdgeBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Side identifies one of a piece's four edges. Values index into
// PieceDescriptor.Edges in clockwise order starting at the top.
type Side uint8

const (
	SideTop Side = iota
	SideRight
	SideBottom
	SideLeft
)

// String returns the side name.
func (s Side) String() string {
	switch s {
	case SideTop:
		return "top"
	case SideRight:
		return "right"
	case SideBottom:
		return "bottom"
	case SideLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Stage is one phase of the explosion/reveal sequence. The sequence is
// strictly linear: no stage can be skipped, retried, or re-entered except via
// a full Restart back to StageIdle.
type Stage uint8

const (
	StageIdle          Stage = iota // waiting for a trigger
	StageExploding                  // pieces flying outward
	StageSecondaryFade              // secondary overlay fading out along a spiral
	StageBaseReveal                 // base overlay opacity fading to zero
	StageComplete                   // sequence finished; only Restart leaves this stage
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageExploding:
		return "exploding"
	case StageSecondaryFade:
		return "secondary-fade"
	case StageBaseReveal:
		return "base-reveal"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}
