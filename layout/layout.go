/*
Package layout computes where glyphs are placed on a canvas.

Every glyph gets a square cell of font size plus padding. Cells are laid
out either as a near-square grid, for recognizing a whole font from one
canvas, or as a single row of fixed width, for recognizing a font in small
batches. Placement is a pure function of a glyph's index, so the binding
between index and glyph is fixed before any rendering starts.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package layout

import (
	"fmt"
	"image"
	"math"
)

// Default geometry, in pixels.
const (
	DefaultFontSize   = 20
	DefaultPadding    = 4
	DefaultStripWidth = 5
)

// Mode selects the arrangement of cells.
type Mode int

const (
	Square Mode = iota // ceil(√n) × ceil(√n) cells
	Strip              // one row of at most W cells
)

func (m Mode) String() string {
	switch m {
	case Square:
		return "square"
	case Strip:
		return "strip"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// CellSize returns the edge length of a cell for a given font size and padding.
func CellSize(fontSize, padding int) int {
	return fontSize + padding
}

// Cell is the placement of one glyph.
type Cell struct {
	Index  int
	Origin image.Point // top left corner
	Size   int         // edge length
}

// Rect returns the pixel rectangle covered by a cell.
func (c Cell) Rect() image.Rectangle {
	return image.Rect(c.Origin.X, c.Origin.Y, c.Origin.X+c.Size, c.Origin.Y+c.Size)
}

// Plan is the layout of a number of glyphs on one canvas.
type Plan struct {
	count int
	cell  int
	cols  int
	rows  int
	mode  Mode
}

// NewPlan lays out count glyphs in cells of edge length cellSize.
// For Strip mode, stripWidth is the maximum number of cells per row; a
// batch with fewer glyphs gets a shorter canvas. stripWidth is ignored in
// Square mode. A count of 0 results in an empty 0×0 plan.
func NewPlan(count, cellSize int, mode Mode, stripWidth int) Plan {
	if count < 0 {
		count = 0
	}
	if cellSize < 1 {
		cellSize = 1
	}
	p := Plan{count: count, cell: cellSize, mode: mode}
	if count == 0 {
		return p
	}
	switch mode {
	case Strip:
		if stripWidth < 1 {
			stripWidth = DefaultStripWidth
		}
		p.cols = min(count, stripWidth)
		p.rows = (count + p.cols - 1) / p.cols
	default:
		p.mode = Square
		p.cols = GridWidth(count)
		p.rows = p.cols
	}
	return p
}

// GridWidth returns the number of columns of a square grid for count glyphs,
// i.e. the smallest w with w*w ≥ count.
func GridWidth(count int) int {
	if count <= 0 {
		return 0
	}
	w := int(math.Ceil(math.Sqrt(float64(count))))
	for w*w < count { // guard against floating point rounding
		w++
	}
	for w > 1 && (w-1)*(w-1) >= count {
		w--
	}
	return w
}

// Count returns the number of glyphs placed.
func (p Plan) Count() int { return p.count }

// Mode returns the layout mode.
func (p Plan) Mode() Mode { return p.mode }

// CellSize returns the edge length of the cells.
func (p Plan) CellSize() int { return p.cell }

// Columns returns the number of cells per row.
func (p Plan) Columns() int { return p.cols }

// Rows returns the number of rows.
func (p Plan) Rows() int { return p.rows }

// Width returns the canvas width in pixels.
func (p Plan) Width() int { return p.cols * p.cell }

// Height returns the canvas height in pixels.
func (p Plan) Height() int { return p.rows * p.cell }

// Bounds returns the canvas rectangle.
func (p Plan) Bounds() image.Rectangle {
	return image.Rect(0, 0, p.Width(), p.Height())
}

// Empty is true for a plan without glyphs.
func (p Plan) Empty() bool { return p.count == 0 }

// Origin returns the top left corner of cell i.
func (p Plan) Origin(i int) image.Point {
	if p.cols == 0 {
		return image.Point{}
	}
	return image.Pt((i%p.cols)*p.cell, (i/p.cols)*p.cell)
}

// Cell returns the placement of glyph i. It panics if i is out of range.
func (p Plan) Cell(i int) Cell {
	if i < 0 || i >= p.count {
		panic(fmt.Sprintf("layout: cell index %d out of range [0,%d)", i, p.count))
	}
	return Cell{Index: i, Origin: p.Origin(i), Size: p.cell}
}

// Cells returns the placements of all glyphs, in index order.
func (p Plan) Cells() []Cell {
	cells := make([]Cell, p.count)
	for i := range cells {
		cells[i] = p.Cell(i)
	}
	return cells
}

// Overlaps reports the first pair of cells whose rectangles intersect, if any.
func Overlaps(cells []Cell) (a, b int, found bool) {
	for i := 0; i < len(cells); i++ {
		ri := cells[i].Rect()
		for j := i + 1; j < len(cells); j++ {
			if ri.Overlaps(cells[j].Rect()) {
				return i, j, true
			}
		}
	}
	return -1, -1, false
}
