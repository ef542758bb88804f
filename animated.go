package puzzleburst

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Transform is the animated pose of a renderable: position, rotation in
// radians, and a uniform scale factor.
type Transform struct {
	Position Vec2
	Rotation float64
	Scale    float64
}

// AnimatedObject is the animation record for one renderable handle, kept in a
// side table owned by the Sequencer rather than as fields on the renderable
// itself. It interpolates position, rotation, scale, and opacity between the
// state captured when a stage arms it and a target state.
//
// Progress is derived from elapsed stage time, never accumulated per frame:
// clamp((elapsed - startOffset) / duration, 0, 1). Interpolation goes through
// gween tweens addressed by absolute time (Tween.Set), so dropped frames
// cannot desynchronize the animation. Once progress reaches 1 the object is
// frozen at its target (and hidden, if the stage says so) until Reset.
type AnimatedObject struct {
	ID uint32

	handle Renderable

	original        Transform
	originalOpacity float64

	current Transform
	opacity float64
	visible bool

	armed         bool
	finished      bool
	hideOnDone    bool
	offset        time.Duration
	duration      time.Duration
	target        Transform
	targetOpacity float64
	tweens        [5]*gween.Tween // x, y, rotation, scale, opacity
}

// NewAnimatedObject creates a record for handle with the given resting
// transform and opacity, and pushes that state to the handle.
func NewAnimatedObject(id uint32, handle Renderable, original Transform, opacity float64) *AnimatedObject {
	a := &AnimatedObject{
		ID:              id,
		handle:          handle,
		original:        original,
		originalOpacity: opacity,
		current:         original,
		opacity:         opacity,
		visible:         true,
	}
	a.pushState()
	return a
}

// AnimateTo arms the object: it will interpolate from its current state to
// the target over duration, starting offset after its stage begins. If
// hideOnDone is set, the handle is made invisible once progress reaches 1.
// Arming replaces any in-flight animation.
func (a *AnimatedObject) AnimateTo(target Transform, targetOpacity float64, offset, duration time.Duration, fn ease.TweenFunc, hideOnDone bool) {
	d := float32(duration.Seconds())
	a.tweens[0] = gween.New(float32(a.current.Position.X), float32(target.Position.X), d, fn)
	a.tweens[1] = gween.New(float32(a.current.Position.Y), float32(target.Position.Y), d, fn)
	a.tweens[2] = gween.New(float32(a.current.Rotation), float32(target.Rotation), d, fn)
	a.tweens[3] = gween.New(float32(a.current.Scale), float32(target.Scale), d, fn)
	a.tweens[4] = gween.New(float32(a.opacity), float32(targetOpacity), d, fn)
	a.target = target
	a.targetOpacity = targetOpacity
	a.offset = offset
	a.duration = duration
	a.hideOnDone = hideOnDone
	a.armed = true
	a.finished = false
}

// Progress returns the animation progress in [0, 1] at the given elapsed
// stage time. Unarmed objects report 0.
func (a *AnimatedObject) Progress(elapsed time.Duration) float64 {
	if !a.armed || a.duration <= 0 {
		if a.armed {
			return 1
		}
		return 0
	}
	p := float64(elapsed-a.offset) / float64(a.duration)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Apply recomputes the object's state for the given elapsed stage time and
// writes it to the handle. Returns true once the animation has finished.
// Calling Apply again after completion keeps the frozen target state.
func (a *AnimatedObject) Apply(elapsed time.Duration) bool {
	if !a.armed {
		return false
	}

	local := elapsed - a.offset
	if local < 0 {
		local = 0
	}
	if local > a.duration {
		local = a.duration
	}
	secs := float32(local.Seconds())

	var vals [5]float32
	done := true
	for i, tw := range a.tweens {
		v, fin := tw.Set(secs)
		vals[i] = v
		if !fin {
			done = false
		}
	}

	a.current = Transform{
		Position: Vec2{float64(vals[0]), float64(vals[1])},
		Rotation: float64(vals[2]),
		Scale:    float64(vals[3]),
	}
	a.opacity = float64(vals[4])
	a.finished = done

	a.handle.SetTransform(a.current)
	a.handle.SetOpacity(a.opacity)
	if done && a.hideOnDone && a.visible {
		a.visible = false
		a.handle.SetVisible(false)
	}
	return done
}

// Reset disarms the object and restores its original transform, opacity, and
// visibility, pushing them to the handle.
func (a *AnimatedObject) Reset() {
	a.armed = false
	a.finished = false
	a.hideOnDone = false
	a.current = a.original
	a.opacity = a.originalOpacity
	a.visible = true
	for i := range a.tweens {
		a.tweens[i] = nil
	}
	a.pushState()
}

// pushState writes the current state to the handle.
func (a *AnimatedObject) pushState() {
	a.handle.SetTransform(a.current)
	a.handle.SetOpacity(a.opacity)
	a.handle.SetVisible(a.visible)
}

// Original returns the resting transform captured at construction.
func (a *AnimatedObject) Original() Transform { return a.original }

// Current returns the most recently applied transform.
func (a *AnimatedObject) Current() Transform { return a.current }

// Opacity returns the most recently applied opacity.
func (a *AnimatedObject) Opacity() float64 { return a.opacity }

// Visible reports whether the object is currently visible.
func (a *AnimatedObject) Visible() bool { return a.visible }

// Armed reports whether an animation has been assigned.
func (a *AnimatedObject) Armed() bool { return a.armed }

// Finished reports whether the assigned animation has completed.
func (a *AnimatedObject) Finished() bool { return a.finished }

// Target returns the transform assigned at arming time. Meaningless while
// unarmed.
func (a *AnimatedObject) Target() Transform { return a.target }

// TargetOpacity returns the opacity assigned at arming time. Meaningless
// while unarmed.
func (a *AnimatedObject) TargetOpacity() float64 { return a.targetOpacity }

// StartOffset returns the stagger offset assigned at arming time.
func (a *AnimatedObject) StartOffset() time.Duration { return a.offset }

// Duration returns the base (unscaled) animation duration.
func (a *AnimatedObject) Duration() time.Duration { return a.duration }
