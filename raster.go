package puzzleburst

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"github.com/hajimehoshi/ebiten/v2"
)

// rasterPad is the transparent margin, in pixels, left around a rasterized
// contour so antialiased edges are never clipped.
const rasterPad = 1

// toRGBA converts a Color to a premultiplied 8-bit RGBA value.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R * c.A * 255),
		G: uint8(c.G * c.A * 255),
		B: uint8(c.B * c.A * 255),
		A: uint8(c.A * 255),
	}
}

// RasterizeContour fills the contour into a new RGBA image sized to the
// contour's bounding box plus a 1px margin. The second return value is the
// piece-local coordinate of the image's top-left corner, so callers can place
// the image relative to the piece cell (tabs extend past the cell, shifting
// the origin negative).
func RasterizeContour(c Contour, fill color.Color) (*image.RGBA, Vec2) {
	bounds := c.Bounds()
	w := int(math.Ceil(bounds.Width)) + 2*rasterPad
	h := int(math.Ceil(bounds.Height)) + 2*rasterPad
	origin := Vec2{X: bounds.X - rasterPad, Y: bounds.Y - rasterPad}

	dc := gg.NewContext(w, h)
	dc.MoveTo(c.start.X-origin.X, c.start.Y-origin.Y)
	for _, seg := range c.segs {
		switch seg.Kind {
		case SegmentLine:
			dc.LineTo(seg.End.X-origin.X, seg.End.Y-origin.Y)
		case SegmentCubic:
			dc.CubicTo(
				seg.C1.X-origin.X, seg.C1.Y-origin.Y,
				seg.C2.X-origin.X, seg.C2.Y-origin.Y,
				seg.End.X-origin.X, seg.End.Y-origin.Y,
			)
		}
	}
	dc.ClosePath()
	dc.SetColor(fill)
	dc.Fill()

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		// gg contexts are RGBA-backed; this path is a safety net only.
		b := dc.Image().Bounds()
		rgba := image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, dc.Image().At(x, y))
			}
		}
		img = rgba
	}
	return img, origin
}

// PieceImage rasterizes a piece contour into an ebiten image for use by the
// sprite renderer. The returned origin has the same meaning as in
// RasterizeContour.
func PieceImage(c Contour, fill Color) (*ebiten.Image, Vec2) {
	rgba, origin := RasterizeContour(c, fill.toRGBA())
	return ebiten.NewImageFromImage(rgba), origin
}
