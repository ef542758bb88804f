package puzzleburst

import (
	"errors"
	"testing"
	"time"
)

// fakeClock stands in for time.Now so stage timing is deterministic.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// testConfig returns a config with fixed explosion distance and speed so
// every piece's animation duration is identical (500 units at 500 units/s =
// one second), which makes ordering assertions exact.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.ExplodeDistance = Range{Min: 500, Max: 500}
	cfg.ExplodeSpeed = Range{Min: 500, Max: 500}
	cfg.SecondaryCount = 8
	return cfg
}

func newTestSequencer(t *testing.T, cfg Config) (*Sequencer, *stubFactory, *fakeClock) {
	t.Helper()
	grid, err := NewGrid(cfg.Rows, cfg.Cols, testRand(99))
	if err != nil {
		t.Fatal(err)
	}
	factory := &stubFactory{}
	model := StaticModel{Loaded: true, Rect: Rect{Width: 500, Height: 500}}
	seq, err := NewSequencer(grid, model, factory, cfg)
	if err != nil {
		t.Fatal(err)
	}
	clock := newFakeClock()
	seq.now = clock.Now
	return seq, factory, clock
}

func TestNewSequencerRejectsUnloadedModel(t *testing.T) {
	grid, err := NewGrid(3, 3, testRand(1))
	if err != nil {
		t.Fatal(err)
	}
	_, err = NewSequencer(grid, StaticModel{Loaded: false}, &stubFactory{}, DefaultConfig())
	if !errors.Is(err, ErrModelNotLoaded) {
		t.Errorf("error = %v, want ErrModelNotLoaded", err)
	}
}

func TestNewSequencerRejectsBadInputs(t *testing.T) {
	grid, err := NewGrid(3, 3, testRand(1))
	if err != nil {
		t.Fatal(err)
	}
	model := StaticModel{Loaded: true, Rect: Rect{Width: 100, Height: 100}}

	if _, err := NewSequencer(nil, model, &stubFactory{}, DefaultConfig()); err == nil {
		t.Error("nil grid accepted")
	}
	if _, err := NewSequencer(grid, model, nil, DefaultConfig()); err == nil {
		t.Error("nil factory accepted")
	}
	bad := DefaultConfig()
	bad.SpeedMultiplier = 0
	if _, err := NewSequencer(grid, model, &stubFactory{}, bad); err == nil {
		t.Error("invalid config accepted")
	}
}

func TestSequencerObjectLayering(t *testing.T) {
	cfg := testConfig()
	seq, factory, _ := newTestSequencer(t, cfg)

	// Base overlay first, then secondary overlays, then pieces: painter
	// order puts the base layer at the back.
	want := 1 + cfg.SecondaryCount + seq.Grid().Len()
	if len(factory.handles) != want {
		t.Fatalf("factory created %d handles, want %d", len(factory.handles), want)
	}
	if len(factory.fills[0].Contour.Segments()) != 0 {
		t.Error("first handle should be the base overlay rectangle")
	}
	if len(factory.fills[len(factory.fills)-1].Contour.Segments()) == 0 {
		t.Error("last handle should be a piece silhouette")
	}
}

func TestTriggerIsIdempotent(t *testing.T) {
	seq, _, clock := newTestSequencer(t, testConfig())

	seq.Trigger(-1)
	if seq.CurrentStage() != StageExploding {
		t.Fatalf("stage = %v, want exploding", seq.CurrentStage())
	}

	type assignment struct {
		offset   time.Duration
		duration time.Duration
		target   Transform
	}
	before := make([]assignment, 0, len(seq.Pieces()))
	for _, obj := range seq.Pieces() {
		before = append(before, assignment{obj.StartOffset(), obj.Duration(), obj.Target()})
	}

	// A second trigger (e.g. a double-click) must not reassign anything,
	// even with a feature piece named.
	clock.Advance(ms(5))
	seq.Trigger(3)

	for i, obj := range seq.Pieces() {
		got := assignment{obj.StartOffset(), obj.Duration(), obj.Target()}
		if got != before[i] {
			t.Fatalf("piece %d assignment changed by re-entrant trigger: %+v -> %+v", i, before[i], got)
		}
	}
}

func TestTriggerAssignsStagger(t *testing.T) {
	cfg := testConfig()
	seq, _, _ := newTestSequencer(t, cfg)

	seq.Trigger(-1)
	step := ms(cfg.StaggerStepMs)
	for i, obj := range seq.Pieces() {
		if want := time.Duration(i) * step; obj.StartOffset() != want {
			t.Fatalf("piece %d stagger = %v, want %v", i, obj.StartOffset(), want)
		}
	}
}

func TestTriggerInstantModeHasNoStagger(t *testing.T) {
	cfg := testConfig()
	cfg.StaggerMode = StaggerModeInstant
	seq, _, _ := newTestSequencer(t, cfg)

	seq.Trigger(-1)
	for i, obj := range seq.Pieces() {
		if obj.StartOffset() != 0 {
			t.Fatalf("piece %d stagger = %v in instant mode, want 0", i, obj.StartOffset())
		}
	}
}

func TestTriggerFeaturePiece(t *testing.T) {
	cfg := testConfig()
	seq, factory, clock := newTestSequencer(t, cfg)

	const picked = 7
	seq.Trigger(picked)

	feature := seq.Pieces()[picked]
	if feature.Target().Scale != cfg.FeatureScale {
		t.Errorf("feature target scale = %g, want %g", feature.Target().Scale, cfg.FeatureScale)
	}
	if feature.Target().Position != feature.Original().Position {
		t.Error("feature piece should not fly outward")
	}
	if feature.StartOffset() != 0 {
		t.Error("feature piece should start immediately")
	}

	// Run the whole sequence: the feature piece stays visible at full
	// opacity while every exploded piece is hidden.
	for i := 0; i < 100; i++ {
		clock.Advance(ms(50))
		seq.Update(clock.Now())
	}
	featureHandle := factory.handles[1+cfg.SecondaryCount+picked]
	if !featureHandle.visible {
		t.Error("feature piece hidden after sequence")
	}
	if featureHandle.opacity != 1 {
		t.Errorf("feature piece opacity = %g, want 1", featureHandle.opacity)
	}
	for i, obj := range seq.Pieces() {
		if i == picked {
			continue
		}
		if obj.Visible() {
			t.Fatalf("exploded piece %d still visible after sequence", i)
		}
	}
}

func TestSequenceStageTimeline(t *testing.T) {
	for _, mode := range []string{StaggerModeInstant, StaggerModeStaggered} {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig()
			cfg.StaggerMode = mode
			seq, _, clock := newTestSequencer(t, cfg)

			seq.Trigger(-1)
			trigger := clock.Now()

			// 1ms in: nothing is anywhere near done.
			clock.Advance(ms(1))
			seq.Update(clock.Now())
			for i, obj := range seq.Pieces() {
				if p := obj.Progress(ms(1)); p >= 1 {
					t.Fatalf("piece %d progress = %g at 1ms", i, p)
				}
			}
			if mode == StaggerModeStaggered {
				last := len(seq.Pieces()) - 1
				if want := time.Duration(last) * ms(cfg.StaggerStepMs); seq.Pieces()[last].StartOffset() != want {
					t.Fatalf("last piece start = %v, want %v", seq.Pieces()[last].StartOffset(), want)
				}
			}

			// Exactly at the explode delay the secondary stage begins.
			clock.t = trigger.Add(ms(cfg.ExplodeDelayMs))
			seq.Update(clock.Now())
			if seq.CurrentStage() != StageSecondaryFade {
				t.Fatalf("stage at explode delay = %v, want secondary-fade", seq.CurrentStage())
			}

			clock.t = trigger.Add(ms(cfg.ExplodeDelayMs + cfg.RevealDelayMs))
			seq.Update(clock.Now())
			if seq.CurrentStage() != StageBaseReveal {
				t.Fatalf("stage at reveal start = %v, want base-reveal", seq.CurrentStage())
			}

			clock.t = trigger.Add(ms(cfg.ExplodeDelayMs + cfg.RevealDelayMs + cfg.RevealDurationMs))
			seq.Update(clock.Now())
			if seq.CurrentStage() != StageComplete {
				t.Fatalf("stage at sequence end = %v, want complete", seq.CurrentStage())
			}
			if op := seq.Base().Opacity(); op != 0 {
				t.Fatalf("base overlay opacity = %g at sequence end, want 0", op)
			}
		})
	}
}

func TestSecondaryFadeUsesGoldenAngleSpiral(t *testing.T) {
	cfg := testConfig()
	seq, _, clock := newTestSequencer(t, cfg)

	seq.Trigger(-1)
	clock.Advance(ms(cfg.ExplodeDelayMs))
	seq.Update(clock.Now())

	n := len(seq.Secondary())
	for i, obj := range seq.Secondary() {
		offset := obj.Target().Position.Sub(obj.Original().Position)
		wantRadius := cfg.SpiralRadius * float64(i+1) / float64(n)
		if diff := offset.Len() - wantRadius; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("secondary %d spiral radius = %g, want %g", i, offset.Len(), wantRadius)
		}
		if obj.TargetOpacity() != 0 {
			t.Fatalf("secondary %d target opacity = %g, want 0", i, obj.TargetOpacity())
		}
	}
}

func TestRestartFidelity(t *testing.T) {
	cfg := testConfig()
	seq, factory, clock := newTestSequencer(t, cfg)

	originals := make([]Transform, len(factory.handles))
	for i, h := range factory.handles {
		originals[i] = h.transform
	}

	seq.Trigger(4)
	clock.Advance(ms(cfg.ExplodeDelayMs + cfg.RevealDelayMs + 50))
	seq.Update(clock.Now())
	if seq.CurrentStage() != StageBaseReveal {
		t.Fatalf("stage = %v, want base-reveal mid-sequence", seq.CurrentStage())
	}

	seq.Restart()
	if seq.CurrentStage() != StageIdle {
		t.Fatalf("stage after restart = %v, want idle", seq.CurrentStage())
	}
	for i, h := range factory.handles {
		if h.transform != originals[i] {
			t.Fatalf("handle %d transform = %+v, want original %+v", i, h.transform, originals[i])
		}
		if h.opacity != 1 {
			t.Fatalf("handle %d opacity = %g, want 1", i, h.opacity)
		}
		if !h.visible {
			t.Fatalf("handle %d hidden after restart", i)
		}
	}

	// A later Update must not resurrect the cancelled sequence.
	clock.Advance(ms(5000))
	seq.Update(clock.Now())
	if seq.CurrentStage() != StageIdle {
		t.Fatalf("stage after post-restart update = %v, want idle", seq.CurrentStage())
	}
	for i, h := range factory.handles {
		if h.transform != originals[i] {
			t.Fatalf("handle %d moved by post-restart update", i)
		}
	}

	// And the sequencer can run again from scratch.
	seq.Trigger(-1)
	if seq.CurrentStage() != StageExploding {
		t.Fatal("trigger after restart did not start the sequence")
	}
}

func TestSetSpeedRejectsNonPositive(t *testing.T) {
	seq, _, _ := newTestSequencer(t, testConfig())
	if err := seq.SetSpeed(0); err == nil {
		t.Error("SetSpeed(0) accepted")
	}
	if err := seq.SetSpeed(-1); err == nil {
		t.Error("SetSpeed(-1) accepted")
	}
	if err := seq.SetSpeed(2); err != nil {
		t.Errorf("SetSpeed(2) failed: %v", err)
	}
}

func TestSetSpeedRescalesRemainingPortion(t *testing.T) {
	cfg := testConfig()
	seq, _, clock := newTestSequencer(t, cfg)

	seq.Trigger(-1)

	// Run 300ms at 1x: 300ms of virtual time.
	clock.Advance(ms(300))
	seq.Update(clock.Now())

	// Double speed: the remaining 600ms of the explode window should pass
	// in 300ms of real time.
	if err := seq.SetSpeed(2); err != nil {
		t.Fatal(err)
	}
	clock.Advance(ms(299))
	seq.Update(clock.Now())
	if seq.CurrentStage() != StageExploding {
		t.Fatalf("stage = %v just before the rescaled explode delay", seq.CurrentStage())
	}
	clock.Advance(ms(1))
	seq.Update(clock.Now())
	if seq.CurrentStage() != StageSecondaryFade {
		t.Fatalf("stage = %v at the rescaled explode delay, want secondary-fade", seq.CurrentStage())
	}
}

func TestStaggerOrderingSurvivesSpeedChange(t *testing.T) {
	cfg := testConfig()
	seq, _, clock := newTestSequencer(t, cfg)

	seq.Trigger(-1)

	// Change speed twice mid-flight, then step the clock and record each
	// piece's completion order.
	finished := make([]bool, len(seq.Pieces()))
	order := make([]int, 0, len(seq.Pieces()))
	step := 0
	for len(order) < len(seq.Pieces()) {
		clock.Advance(ms(10))
		step++
		if step == 20 {
			seq.SetSpeed(3)
		}
		if step == 40 {
			seq.SetSpeed(0.5)
		}
		seq.Update(clock.Now())
		for i, obj := range seq.Pieces() {
			if !finished[i] && obj.Finished() {
				finished[i] = true
				order = append(order, i)
			}
		}
		if step > 100000 {
			t.Fatal("pieces never finished")
		}
	}

	// Identical durations with increasing stagger offsets: completion
	// order must be ascending regardless of the speed changes.
	for i := 1; i < len(order); i++ {
		if order[i] < order[i-1] {
			t.Fatalf("completion order %v not ascending under speed changes", order)
		}
	}
}

func TestUpdateWhileIdleIsNoOp(t *testing.T) {
	seq, factory, clock := newTestSequencer(t, testConfig())

	originals := make([]Transform, len(factory.handles))
	for i, h := range factory.handles {
		originals[i] = h.transform
	}

	clock.Advance(ms(10000))
	seq.Update(clock.Now())

	if seq.CurrentStage() != StageIdle {
		t.Fatalf("stage = %v, want idle", seq.CurrentStage())
	}
	for i, h := range factory.handles {
		if h.transform != originals[i] {
			t.Fatalf("handle %d moved without a trigger", i)
		}
	}
}

func TestLateUpdateCascadesThroughStages(t *testing.T) {
	// A single very late tick (e.g. after the tab was backgrounded) must
	// cross every threshold once and land in the terminal state.
	cfg := testConfig()
	seq, _, clock := newTestSequencer(t, cfg)

	seq.Trigger(-1)
	clock.Advance(ms(cfg.ExplodeDelayMs + cfg.RevealDelayMs + cfg.RevealDurationMs + 10000))
	seq.Update(clock.Now())

	if seq.CurrentStage() != StageComplete {
		t.Fatalf("stage = %v after one late update, want complete", seq.CurrentStage())
	}
	if op := seq.Base().Opacity(); op != 0 {
		t.Fatalf("base opacity = %g, want 0", op)
	}
}

func TestObjectByID(t *testing.T) {
	seq, _, _ := newTestSequencer(t, testConfig())

	for _, obj := range seq.Pieces() {
		got, ok := seq.ObjectByID(obj.ID)
		if !ok || got != obj {
			t.Fatalf("ObjectByID(%d) = %v, %v", obj.ID, got, ok)
		}
	}
	if _, ok := seq.ObjectByID(0); ok {
		t.Error("ObjectByID(0) reported a hit")
	}
}
