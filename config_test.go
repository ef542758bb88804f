package puzzleburst

import (
	"errors"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	data := []byte(`
rows: 8
cols: 6
explode_delay_ms: 1500
stagger_mode: instant
explode_distance:
  min: 100
  max: 300
edge:
  depth: 0.3
  neck: 0.25
palette:
  - {r: 1, g: 0, b: 0, a: 1}
  - {r: 0, g: 1, b: 0, a: 1}
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Rows != 8 || cfg.Cols != 6 {
		t.Errorf("grid = %dx%d, want 8x6", cfg.Rows, cfg.Cols)
	}
	if cfg.ExplodeDelayMs != 1500 {
		t.Errorf("explode_delay_ms = %g, want 1500", cfg.ExplodeDelayMs)
	}
	if cfg.StaggerMode != StaggerModeInstant {
		t.Errorf("stagger_mode = %q, want instant", cfg.StaggerMode)
	}
	if cfg.ExplodeDistance != (Range{Min: 100, Max: 300}) {
		t.Errorf("explode_distance = %+v", cfg.ExplodeDistance)
	}
	if cfg.Edge != (EdgeStyle{Depth: 0.3, Neck: 0.25}) {
		t.Errorf("edge = %+v", cfg.Edge)
	}
	if len(cfg.Palette) != 2 || cfg.Palette[0] != (Color{R: 1, A: 1}) {
		t.Errorf("palette = %+v", cfg.Palette)
	}
	// Untouched fields keep their defaults.
	if cfg.RevealDelayMs != DefaultConfig().RevealDelayMs {
		t.Errorf("reveal_delay_ms = %g, want default", cfg.RevealDelayMs)
	}
}

func TestParseConfigRejectsMalformedYAML(t *testing.T) {
	if _, err := ParseConfig([]byte("rows: [not an int")); err == nil {
		t.Error("malformed YAML accepted")
	}
}

func TestConfigValidateRejectsBadValues(t *testing.T) {
	base := DefaultConfig()

	cases := []struct {
		name   string
		mutate func(*Config)
		want   error // nil means any error is acceptable
	}{
		{"zero rows", func(c *Config) { c.Rows = 0 }, ErrInvalidDimensions},
		{"negative cols", func(c *Config) { c.Cols = -2 }, ErrInvalidDimensions},
		{"zero explode delay", func(c *Config) { c.ExplodeDelayMs = 0 }, nil},
		{"negative reveal delay", func(c *Config) { c.RevealDelayMs = -5 }, nil},
		{"zero reveal duration", func(c *Config) { c.RevealDurationMs = 0 }, nil},
		{"negative stagger step", func(c *Config) { c.StaggerStepMs = -1 }, nil},
		{"zero speed", func(c *Config) { c.SpeedMultiplier = 0 }, nil},
		{"bad stagger mode", func(c *Config) { c.StaggerMode = "sometimes" }, nil},
		{"inverted distance range", func(c *Config) { c.ExplodeDistance = Range{Min: 300, Max: 100} }, nil},
		{"zero explode speed", func(c *Config) { c.ExplodeSpeed = Range{Min: 0, Max: 0} }, nil},
		{"negative secondary count", func(c *Config) { c.SecondaryCount = -1 }, nil},
		{"unsafe edge depth", func(c *Config) { c.Edge.Depth = 0.9 }, ErrUnsafeEdgeStyle},
	}
	for _, tc := range cases {
		cfg := base
		tc.mutate(&cfg)
		err := cfg.Validate()
		if err == nil {
			t.Errorf("%s: Validate succeeded, want error", tc.name)
			continue
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: error = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("testdata/does-not-exist.yaml"); err == nil {
		t.Error("missing file accepted")
	}
}
