package puzzleburst

import (
	"fmt"
	"math"
)

// EdgeStyle controls the silhouette of tab and blank edges, expressed as
// fractions of the edge length.
//
// Safe ranges are Depth <= 0.35 and Neck <= 0.3 (both > 0). Within these
// ranges the generated contour does not self-intersect. Depth also assumes
// the piece cell is not extremely elongated: a notch carved Depth*edge into
// the piece must not reach a notch on the perpendicular edge.
type EdgeStyle struct {
	// Depth is the bump height (tab) or notch depth (blank) as a fraction
	// of the edge length.
	Depth float64 `yaml:"depth"`
	// Neck is the width of the bump's neck as a fraction of the edge length.
	Neck float64 `yaml:"neck"`
}

// Validate rejects styles outside the documented safe ranges with
// ErrUnsafeEdgeStyle.
func (s EdgeStyle) Validate() error {
	if s.Depth <= 0 || s.Depth > 0.35 {
		return fmt.Errorf("%w: depth %.3f not in (0, 0.35]", ErrUnsafeEdgeStyle, s.Depth)
	}
	if s.Neck <= 0 || s.Neck > 0.3 {
		return fmt.Errorf("%w: neck %.3f not in (0, 0.3]", ErrUnsafeEdgeStyle, s.Neck)
	}
	return nil
}

// SegmentKind distinguishes contour segment types.
type SegmentKind uint8

const (
	SegmentLine  SegmentKind = iota // straight line to End
	SegmentCubic                    // cubic Bezier via C1, C2 to End
)

// Segment is one piece of a contour: a line or a cubic Bezier curve ending at
// End. C1 and C2 are only meaningful for SegmentCubic.
type Segment struct {
	Kind   SegmentKind
	C1, C2 Vec2
	End    Vec2
}

// Contour is a closed 2D outline built from line and cubic Bezier segments.
// Coordinates are piece-local: the cell spans [0,w] x [0,h] and tabs extend
// past it.
type Contour struct {
	start Vec2
	segs  []Segment
}

// Start returns the contour's first point.
func (c Contour) Start() Vec2 { return c.start }

// Segments returns the contour's segments in order. The returned slice MUST
// NOT be mutated by the caller.
func (c Contour) Segments() []Segment { return c.segs }

// End returns the endpoint of the last segment, or the start point for an
// empty contour.
func (c Contour) End() Vec2 {
	if len(c.segs) == 0 {
		return c.start
	}
	return c.segs[len(c.segs)-1].End
}

// IsClosed reports whether the contour's end coincides with its start within
// the given tolerance.
func (c Contour) IsClosed(tol float64) bool {
	return c.End().Sub(c.start).Len() <= tol
}

// Flatten approximates the contour as a polygon, sampling each curve segment
// at stepsPerCurve points. The closing point is omitted (the polygon is
// implicitly closed).
func (c Contour) Flatten(stepsPerCurve int) []Vec2 {
	if stepsPerCurve < 1 {
		stepsPerCurve = 1
	}
	pts := make([]Vec2, 0, 1+len(c.segs)*stepsPerCurve)
	pts = append(pts, c.start)
	prev := c.start
	for _, seg := range c.segs {
		switch seg.Kind {
		case SegmentLine:
			pts = append(pts, seg.End)
		case SegmentCubic:
			for i := 1; i <= stepsPerCurve; i++ {
				t := float64(i) / float64(stepsPerCurve)
				pts = append(pts, cubicPoint(prev, seg.C1, seg.C2, seg.End, t))
			}
		}
		prev = seg.End
	}
	// Drop the duplicated closing point if the contour is closed.
	if len(pts) > 1 && pts[len(pts)-1].Sub(pts[0]).Len() < 1e-9 {
		pts = pts[:len(pts)-1]
	}
	return pts
}

// Bounds returns the axis-aligned bounding box of the flattened contour.
func (c Contour) Bounds() Rect {
	pts := c.Flatten(16)
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether the point (x, y) lies inside the contour, using
// even-odd ray casting against the flattened polygon.
func (c Contour) Contains(x, y float64) bool {
	pts := c.Flatten(8)
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}

// cubicPoint evaluates a cubic Bezier at parameter t.
func cubicPoint(p0, c1, c2, p3 Vec2, t float64) Vec2 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	cc := 3 * u * t * t
	d := t * t * t
	return Vec2{
		X: a*p0.X + b*c1.X + cc*c2.X + d*p3.X,
		Y: a*p0.Y + b*c1.Y + cc*c2.Y + d*p3.Y,
	}
}

// ShapeForPiece traces the closed outline of a piece rendered at the given
// cell size. Straight edges become single line segments; tab and blank edges
// become a symmetric three-curve bulge (outward for tabs, mirrored inward for
// blanks) centered on the edge midpoint, with height style.Depth and neck
// width style.Neck relative to the edge length.
//
// The returned contour always closes exactly (the final segment ends at the
// start point) and does not self-intersect for styles passing
// EdgeStyle.Validate.
func ShapeForPiece(p PieceDescriptor, width, height float64, style EdgeStyle) (Contour, error) {
	if err := style.Validate(); err != nil {
		return Contour{}, err
	}
	if width <= 0 || height <= 0 {
		return Contour{}, fmt.Errorf("%w: piece size %gx%g", ErrInvalidDimensions, width, height)
	}

	c := Contour{start: Vec2{0, 0}}

	// Clockwise: top, right, bottom, left. Outward normals point away from
	// the piece interior.
	traceEdge(&c, p.Edges[SideTop], Vec2{0, 0}, Vec2{width, 0}, Vec2{0, -1}, style)
	traceEdge(&c, p.Edges[SideRight], Vec2{width, 0}, Vec2{width, height}, Vec2{1, 0}, style)
	traceEdge(&c, p.Edges[SideBottom], Vec2{width, height}, Vec2{0, height}, Vec2{0, 1}, style)
	traceEdge(&c, p.Edges[SideLeft], Vec2{0, height}, Vec2{0, 0}, Vec2{-1, 0}, style)

	return c, nil
}

// traceEdge appends the segments for one edge from a to b with outward
// normal n.
func traceEdge(c *Contour, kind EdgeKind, a, b, n Vec2, style EdgeStyle) {
	if kind == EdgeStraight {
		c.segs = append(c.segs, Segment{Kind: SegmentLine, End: b})
		return
	}

	length := b.Sub(a).Len()
	d := b.Sub(a).Scale(1 / length)

	sign := 1.0
	if kind == EdgeBlank {
		sign = -1
	}

	half := length / 2
	nk := style.Neck * length / 2 // half neck width
	dp := style.Depth * length    // bump height

	// pt maps (u along the edge, v outward) to piece coordinates, with v
	// flipped inward for blanks.
	pt := func(u, v float64) Vec2 {
		return a.Add(d.Scale(u)).Add(n.Scale(sign * v))
	}

	q1 := pt(half-nk, 0)
	t1 := pt(half-nk, dp*0.85)
	t2 := pt(half+nk, dp*0.85)
	q2 := pt(half+nk, 0)

	c.segs = append(c.segs,
		Segment{Kind: SegmentLine, End: q1},
		// Rising shoulder: bows slightly outward past the neck.
		Segment{Kind: SegmentCubic, C1: pt(half-nk*1.4, dp*0.3), C2: pt(half-nk*1.4, dp*0.6), End: t1},
		// Rounded crown through the apex.
		Segment{Kind: SegmentCubic, C1: pt(half-nk*0.8, dp), C2: pt(half+nk*0.8, dp), End: t2},
		// Falling shoulder, mirror of the rising one.
		Segment{Kind: SegmentCubic, C1: pt(half+nk*1.4, dp*0.6), C2: pt(half+nk*1.4, dp*0.3), End: q2},
		Segment{Kind: SegmentLine, End: b},
	)
}
