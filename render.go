package puzzleburst

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Renderable is the drawable handle the sequencer writes animated state to.
// The rendering host owns the handle; the sequencer never reads it back.
type Renderable interface {
	SetTransform(Transform)
	SetOpacity(float64)
	SetVisible(bool)
}

// FillDescriptor tells a RenderableFactory what a new renderable should look
// like. When Contour has segments, the renderable is a puzzle-piece
// silhouette; otherwise it is a plain Width x Height rectangle.
type FillDescriptor struct {
	Color         Color
	Contour       Contour
	Width, Height float64
}

// RenderableFactory creates drawable handles for the sequencer's pieces and
// overlay layers.
type RenderableFactory interface {
	NewRenderable(t Transform, fill FillDescriptor) Renderable
}

// ModelProvider exposes the surface a puzzle grid is projected onto. The
// sequencer refuses to build against a provider that is not Ready, so callers
// must gate construction on a successful model load.
type ModelProvider interface {
	Ready() bool
	Surface() Rect
}

// StaticModel is the simplest ModelProvider: a fixed surface rectangle and a
// loaded flag.
type StaticModel struct {
	Loaded bool
	Rect   Rect
}

// Ready reports whether the model finished loading.
func (m StaticModel) Ready() bool { return m.Loaded }

// Surface returns the model's projection surface.
func (m StaticModel) Surface() Rect { return m.Rect }

// Sprite is an ebiten-backed Renderable. Its pivot is the center of the
// logical cell, so rotation and scale happen around the piece center even
// though tabs extend past the cell.
type Sprite struct {
	img          *ebiten.Image
	origin       Vec2 // piece-local coordinate of the image's top-left
	halfW, halfH float64

	transform Transform
	opacity   float64
	visible   bool
}

// SetTransform stores the pose used on the next Draw.
func (s *Sprite) SetTransform(t Transform) { s.transform = t }

// SetOpacity stores the alpha multiplier used on the next Draw.
func (s *Sprite) SetOpacity(o float64) { s.opacity = o }

// SetVisible shows or hides the sprite.
func (s *Sprite) SetVisible(v bool) { s.visible = v }

// Draw renders the sprite to screen.
func (s *Sprite) Draw(screen *ebiten.Image) {
	if !s.visible || s.opacity <= 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(s.origin.X-s.halfW, s.origin.Y-s.halfH)
	op.GeoM.Scale(s.transform.Scale, s.transform.Scale)
	op.GeoM.Rotate(s.transform.Rotation)
	op.GeoM.Translate(s.transform.Position.X, s.transform.Position.Y)
	op.ColorScale.ScaleAlpha(float32(s.opacity))
	screen.DrawImage(s.img, op)
}

// SpriteFactory builds Sprites and draws them in creation (painter) order,
// which puts the base overlay behind the pieces when the sequencer creates
// its objects back to front.
type SpriteFactory struct {
	sprites []*Sprite
}

// NewSpriteFactory creates an empty factory.
func NewSpriteFactory() *SpriteFactory {
	return &SpriteFactory{}
}

// NewRenderable rasterizes the fill and returns a sprite positioned at t.
func (f *SpriteFactory) NewRenderable(t Transform, fill FillDescriptor) Renderable {
	var img *ebiten.Image
	var origin Vec2
	if len(fill.Contour.Segments()) > 0 {
		img, origin = PieceImage(fill.Contour, fill.Color)
	} else {
		w, h := int(fill.Width), int(fill.Height)
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		img = ebiten.NewImage(w, h)
		img.Fill(fill.Color.toRGBA())
	}
	s := &Sprite{
		img:       img,
		origin:    origin,
		halfW:     fill.Width / 2,
		halfH:     fill.Height / 2,
		transform: t,
		opacity:   1,
		visible:   true,
	}
	f.sprites = append(f.sprites, s)
	return s
}

// Draw renders all sprites in creation order.
func (f *SpriteFactory) Draw(screen *ebiten.Image) {
	for _, s := range f.sprites {
		s.Draw(screen)
	}
}

// Sprites returns the created sprites. The returned slice MUST NOT be
// mutated by the caller.
func (f *SpriteFactory) Sprites() []*Sprite {
	return f.sprites
}
