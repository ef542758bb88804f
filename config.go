package puzzleburst

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Stagger modes accepted by Config.StaggerMode.
const (
	StaggerModeStaggered = "staggered" // per-piece start offsets of index * StaggerStepMs
	StaggerModeInstant   = "instant"   // all pieces start at the trigger instant
)

// Config is the construction-time configuration surface for a Sequencer.
// It is read once when the sequencer is built; changing it afterwards has no
// effect on a running instance.
type Config struct {
	// Rows and Cols are the puzzle grid dimensions.
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`

	// ExplodeDelayMs is how long the exploding stage lasts before the
	// secondary fade begins, measured from the trigger instant (not from
	// individual piece stagger offsets).
	ExplodeDelayMs float64 `yaml:"explode_delay_ms"`
	// RevealDelayMs is the delay between the secondary fade starting and
	// the base reveal starting.
	RevealDelayMs float64 `yaml:"reveal_delay_ms"`
	// RevealDurationMs is how long the base overlay takes to fade to zero.
	RevealDurationMs float64 `yaml:"reveal_duration_ms"`
	// StaggerStepMs is the per-piece start offset in staggered mode.
	StaggerStepMs float64 `yaml:"stagger_step_ms"`

	// SpeedMultiplier scales the playback rate of every stage. 1.0 is
	// real time; 2.0 runs the whole sequence twice as fast.
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
	// StaggerMode is "staggered" or "instant".
	StaggerMode string `yaml:"stagger_mode"`

	// ExplodeDistance is the range of outward travel distances, in surface
	// units, assigned to exploding pieces.
	ExplodeDistance Range `yaml:"explode_distance"`
	// ExplodeSpeed is the range of piece travel speeds in surface units
	// per second; each piece's duration is its distance over its speed.
	ExplodeSpeed Range `yaml:"explode_speed"`
	// RotationDelta is the range of rotation changes, in radians, applied
	// to exploding pieces (sign chosen at random).
	RotationDelta Range `yaml:"rotation_delta"`

	// FeatureScale is the scale factor the picked piece grows to instead
	// of exploding.
	FeatureScale float64 `yaml:"feature_scale"`

	// SecondaryCount is the number of secondary overlay objects.
	SecondaryCount int `yaml:"secondary_count"`
	// SpiralRadius is the outward travel, in surface units, of the
	// farthest secondary overlay object during its spiral fade.
	SpiralRadius float64 `yaml:"spiral_radius"`
	// SecondaryFadeMs is how long each secondary object takes to fade out.
	SecondaryFadeMs float64 `yaml:"secondary_fade_ms"`

	// Edge is the tab/blank silhouette style used for piece shapes.
	Edge EdgeStyle `yaml:"edge"`

	// Palette is cycled through for piece fills, row-major.
	Palette []Color `yaml:"palette"`
	// BaseColor fills the base overlay layer.
	BaseColor Color `yaml:"base_color"`
	// SecondaryColor fills the secondary overlay objects.
	SecondaryColor Color `yaml:"secondary_color"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Rows:             5,
		Cols:             5,
		ExplodeDelayMs:   900,
		RevealDelayMs:    1200,
		RevealDurationMs: 800,
		StaggerStepMs:    30,
		SpeedMultiplier:  1.0,
		StaggerMode:      StaggerModeStaggered,
		ExplodeDistance:  Range{Min: 220, Max: 420},
		ExplodeSpeed:     Range{Min: 260, Max: 520},
		RotationDelta:    Range{Min: 0.8, Max: 2.4},
		FeatureScale:     1.6,
		SecondaryCount:   64,
		SpiralRadius:     160,
		SecondaryFadeMs:  700,
		Edge:             EdgeStyle{Depth: 0.22, Neck: 0.18},
		Palette: []Color{
			{R: 0.55, G: 0.36, B: 0.76, A: 1},
			{R: 0.36, G: 0.56, B: 0.86, A: 1},
			{R: 0.42, G: 0.76, B: 0.58, A: 1},
			{R: 0.86, G: 0.62, B: 0.34, A: 1},
		},
		BaseColor:      Color{R: 0.09, G: 0.07, B: 0.14, A: 1},
		SecondaryColor: Color{R: 0.35, G: 0.95, B: 0.55, A: 1},
	}
}

// ParseConfig unmarshals YAML over the defaults, so partial files only need
// to name the fields they change.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("puzzleburst: parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("puzzleburst: read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the configuration. Grid dimensions below 1 report
// ErrInvalidDimensions; edge styles outside the safe range report
// ErrUnsafeEdgeStyle; everything else reports a plain descriptive error.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, c.Rows, c.Cols)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"explode_delay_ms", c.ExplodeDelayMs},
		{"reveal_delay_ms", c.RevealDelayMs},
		{"reveal_duration_ms", c.RevealDurationMs},
		{"secondary_fade_ms", c.SecondaryFadeMs},
		{"speed_multiplier", c.SpeedMultiplier},
		{"feature_scale", c.FeatureScale},
	} {
		if f.value <= 0 {
			return fmt.Errorf("puzzleburst: config %s must be positive, got %g", f.name, f.value)
		}
	}
	if c.StaggerStepMs < 0 {
		return fmt.Errorf("puzzleburst: config stagger_step_ms must not be negative, got %g", c.StaggerStepMs)
	}
	if c.StaggerMode != StaggerModeStaggered && c.StaggerMode != StaggerModeInstant {
		return fmt.Errorf("puzzleburst: config stagger_mode must be %q or %q, got %q",
			StaggerModeStaggered, StaggerModeInstant, c.StaggerMode)
	}
	for _, r := range []struct {
		name string
		rng  Range
	}{
		{"explode_distance", c.ExplodeDistance},
		{"explode_speed", c.ExplodeSpeed},
		{"rotation_delta", c.RotationDelta},
	} {
		if r.rng.Min < 0 || r.rng.Max < r.rng.Min {
			return fmt.Errorf("puzzleburst: config %s range [%g, %g] is invalid", r.name, r.rng.Min, r.rng.Max)
		}
	}
	if c.ExplodeSpeed.Min <= 0 {
		return fmt.Errorf("puzzleburst: config explode_speed must be positive, got min %g", c.ExplodeSpeed.Min)
	}
	if c.SecondaryCount < 0 {
		return fmt.Errorf("puzzleburst: config secondary_count must not be negative, got %d", c.SecondaryCount)
	}
	if c.SpiralRadius < 0 {
		return fmt.Errorf("puzzleburst: config spiral_radius must not be negative, got %g", c.SpiralRadius)
	}
	return c.Edge.Validate()
}

// Duration accessors convert the millisecond fields once, at use sites.

func (c Config) explodeDelay() time.Duration {
	return time.Duration(c.ExplodeDelayMs * float64(time.Millisecond))
}

func (c Config) revealDelay() time.Duration {
	return time.Duration(c.RevealDelayMs * float64(time.Millisecond))
}

func (c Config) revealDuration() time.Duration {
	return time.Duration(c.RevealDurationMs * float64(time.Millisecond))
}

func (c Config) staggerStep() time.Duration {
	return time.Duration(c.StaggerStepMs * float64(time.Millisecond))
}

func (c Config) secondaryFade() time.Duration {
	return time.Duration(c.SecondaryFadeMs * float64(time.Millisecond))
}
