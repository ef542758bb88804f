package puzzleburst

import (
	"fmt"
	"math/rand/v2"
)

// PieceDescriptor describes one puzzle piece: its grid coordinates and the
// kind of each of its four edges. Descriptors are computed once at grid
// construction time and are immutable afterward.
type PieceDescriptor struct {
	Row, Col int
	Edges    [4]EdgeKind // indexed by Side
}

// Edge returns the kind of the given side.
func (p PieceDescriptor) Edge(s Side) EdgeKind {
	return p.Edges[s]
}

// Grid is an immutable rows x cols set of interlocking piece descriptors.
// Shared edges between adjacent pieces are always complementary (tab facing
// blank), and outward-facing border edges are always straight. Changing the
// grid size means discarding the Grid and building a new one.
type Grid struct {
	rows, cols int
	pieces     []PieceDescriptor
}

// NewGrid builds a rows x cols grid of piece descriptors. Interior edges are
// assigned tab or blank with equal probability from rng; each shared edge is
// decided once by the piece that reaches it first in row-major order, and the
// neighbour receives the complement. A nil rng falls back to a source seeded
// from the global generator.
//
// rows or cols below 1 is rejected with ErrInvalidDimensions; the grid is
// never silently clamped.
func NewGrid(rows, cols int, rng *rand.Rand) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	g := &Grid{
		rows:   rows,
		cols:   cols,
		pieces: make([]PieceDescriptor, rows*cols),
	}

	randomEdge := func() EdgeKind {
		if rng.IntN(2) == 0 {
			return EdgeTab
		}
		return EdgeBlank
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			p := &g.pieces[row*cols+col]
			p.Row = row
			p.Col = col

			// Top and left edges are either the outer border or the
			// complement of an edge the neighbour already owns.
			if row == 0 {
				p.Edges[SideTop] = EdgeStraight
			} else {
				above := g.pieces[(row-1)*cols+col]
				p.Edges[SideTop] = above.Edges[SideBottom].Complement()
			}
			if col == 0 {
				p.Edges[SideLeft] = EdgeStraight
			} else {
				left := g.pieces[row*cols+col-1]
				p.Edges[SideLeft] = left.Edges[SideRight].Complement()
			}

			// Right and bottom edges are owned by this piece.
			if col == cols-1 {
				p.Edges[SideRight] = EdgeStraight
			} else {
				p.Edges[SideRight] = randomEdge()
			}
			if row == rows-1 {
				p.Edges[SideBottom] = EdgeStraight
			} else {
				p.Edges[SideBottom] = randomEdge()
			}
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns the total number of pieces (rows * cols).
func (g *Grid) Len() int { return len(g.pieces) }

// Index returns the row-major index of the piece at (row, col), or an error
// wrapping ErrIndexOutOfRange if the coordinates are outside the grid.
func (g *Grid) Index(row, col int) (int, error) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrIndexOutOfRange, row, col, g.rows, g.cols)
	}
	return row*g.cols + col, nil
}

// Piece returns the descriptor at the given row-major index. Out-of-range
// indices are rejected with ErrIndexOutOfRange, never clamped.
func (g *Grid) Piece(index int) (PieceDescriptor, error) {
	if index < 0 || index >= len(g.pieces) {
		return PieceDescriptor{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(g.pieces))
	}
	return g.pieces[index], nil
}

// PieceAt returns the descriptor at (row, col).
func (g *Grid) PieceAt(row, col int) (PieceDescriptor, error) {
	idx, err := g.Index(row, col)
	if err != nil {
		return PieceDescriptor{}, err
	}
	return g.pieces[idx], nil
}

// CellRect projects the cell of the piece at index onto a surface of the
// given total size, returning the piece's axis-aligned cell rectangle. Tabs
// and blanks extend past this rectangle; it covers only the piece's share of
// the surface.
func (g *Grid) CellRect(index int, totalWidth, totalHeight float64) (Rect, error) {
	p, err := g.Piece(index)
	if err != nil {
		return Rect{}, err
	}
	cw := totalWidth / float64(g.cols)
	ch := totalHeight / float64(g.rows)
	return Rect{
		X:      float64(p.Col) * cw,
		Y:      float64(p.Row) * ch,
		Width:  cw,
		Height: ch,
	}, nil
}
