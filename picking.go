package puzzleburst

import "math"

// PieceAtPoint hit-tests a surface-space point against every visible piece's
// current animated shape and returns the index of the nearest hit (measured
// from the piece center). The second result is false when no piece contains
// the point.
//
// The point is transformed into each piece's local space using the piece's
// current position, rotation, and scale, then tested against the piece
// contour, so picking stays accurate while pieces are mid-animation.
func (s *Sequencer) PieceAtPoint(x, y float64) (int, bool) {
	best := -1
	bestDist := math.MaxFloat64

	for i, obj := range s.pieces {
		if !obj.Visible() {
			continue
		}
		t := obj.Current()

		// Invert the piece transform: translate, unrotate, unscale, then
		// shift from center-pivot to the contour's top-left origin.
		dx := x - t.Position.X
		dy := y - t.Position.Y
		sin, cos := math.Sincos(-t.Rotation)
		rx := dx*cos - dy*sin
		ry := dx*sin + dy*cos
		if t.Scale != 0 {
			rx /= t.Scale
			ry /= t.Scale
		}
		lx := rx + s.cellW/2
		ly := ry + s.cellH/2

		if !s.shapes[i].Contains(lx, ly) {
			continue
		}
		if d := math.Hypot(dx, dy); d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 {
		return 0, false
	}
	return best, true
}
