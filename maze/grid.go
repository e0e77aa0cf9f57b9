package maze

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Layout markers
const (
	MarkerWall = 0
	MarkerPath = 1
)

// CellType classifies a grid cell
type CellType uint8

const (
	Wall CellType = iota
	Path
)

func (t CellType) String() string {
	switch t {
	case Wall:
		return "wall"
	case Path:
		return "path"
	default:
		return "unknown"
	}
}

// Setup errors
var (
	ErrEmptyLayout  = errors.New("maze layout is empty")
	ErrRaggedLayout = errors.New("maze layout rows differ in length")
	ErrBadMarker    = errors.New("maze layout marker must be 0 or 1")
	ErrWorldSize    = errors.New("world size must be positive")
)

// Cell is an axis-aligned rectangle of the world, immutable once built
type Cell struct {
	X, Y          float64
	Width, Height float64
	Type          CellType
	Col, Row      int
}

func (c Cell) Left() float64   { return c.X }
func (c Cell) Right() float64  { return c.X + c.Width }
func (c Cell) Top() float64    { return c.Y }
func (c Cell) Bottom() float64 { return c.Y + c.Height }

// IsWall reports whether the cell blocks movement
func (c Cell) IsWall() bool { return c.Type == Wall }

// Bounds returns the cell rectangle as a box
func (c Cell) Bounds() r2.Box {
	return r2.Box{
		Min: r2.Vec{X: c.Left(), Y: c.Top()},
		Max: r2.Vec{X: c.Right(), Y: c.Bottom()},
	}
}

// Center returns the midpoint of the cell
func (c Cell) Center() r2.Vec {
	return r2.Vec{X: c.X + c.Width/2, Y: c.Y + c.Height/2}
}

// Grid maps (col, row) indices to cells. Cells tile the world with no gaps
type Grid struct {
	cols, rows  int
	cellWidth   float64
	cellHeight  float64
	worldWidth  float64
	worldHeight float64
	cells       []Cell // row-major
}

// NewGrid partitions a world of the given pixel size into equal cells from a
// row-major layout of 0 (wall) and 1 (path) markers
func NewGrid(layout [][]int, worldWidth, worldHeight float64) (*Grid, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, ErrEmptyLayout
	}
	if !(worldWidth > 0) || !(worldHeight > 0) || math.IsInf(worldWidth, 0) || math.IsInf(worldHeight, 0) {
		return nil, fmt.Errorf("%w: %gx%g", ErrWorldSize, worldWidth, worldHeight)
	}

	rows := len(layout)
	cols := len(layout[0])

	g := &Grid{
		cols:        cols,
		rows:        rows,
		worldWidth:  worldWidth,
		worldHeight: worldHeight,
		cellWidth:   worldWidth / float64(cols),
		cellHeight:  worldHeight / float64(rows),
		cells:       make([]Cell, 0, rows*cols),
	}

	for row, line := range layout {
		if len(line) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, expected %d", ErrRaggedLayout, row, len(line), cols)
		}
		for col, marker := range line {
			var t CellType
			switch marker {
			case MarkerWall:
				t = Wall
			case MarkerPath:
				t = Path
			default:
				return nil, fmt.Errorf("%w: got %d at row %d col %d", ErrBadMarker, marker, row, col)
			}
			c := g.Rect(col, row)
			c.Type = t
			g.cells = append(g.cells, c)
		}
	}

	return g, nil
}

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// CellWidth returns the pixel width of every cell
func (g *Grid) CellWidth() float64 { return g.cellWidth }

// CellHeight returns the pixel height of every cell
func (g *Grid) CellHeight() float64 { return g.cellHeight }

// WorldSize returns the world dimensions in pixels
func (g *Grid) WorldSize() (width, height float64) { return g.worldWidth, g.worldHeight }

// InBounds reports whether (col, row) addresses a cell
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.cols && row >= 0 && row < g.rows
}

// CellAt returns the cell at (col, row); false when out of bounds
func (g *Grid) CellAt(col, row int) (Cell, bool) {
	if !g.InBounds(col, row) {
		return Cell{}, false
	}
	return g.cells[row*g.cols+col], true
}

// Rect returns the rectangle a cell at (col, row) occupies, including indices
// outside the grid. The returned cell is typed Wall
func (g *Grid) Rect(col, row int) Cell {
	return Cell{
		X:      float64(col) * g.cellWidth,
		Y:      float64(row) * g.cellHeight,
		Width:  g.cellWidth,
		Height: g.cellHeight,
		Type:   Wall,
		Col:    col,
		Row:    row,
	}
}

// Locate maps a world position to grid indices, which may be out of bounds
func (g *Grid) Locate(p r2.Vec) (col, row int) {
	return int(math.Floor(p.X / g.cellWidth)), int(math.Floor(p.Y / g.cellHeight))
}

// CellAtPoint returns the cell containing p; false when p is outside the grid
func (g *Grid) CellAtPoint(p r2.Vec) (Cell, bool) {
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		return Cell{}, false
	}
	col, row := g.Locate(p)
	return g.CellAt(col, row)
}

// Center returns the world midpoint
func (g *Grid) Center() r2.Vec {
	return r2.Vec{X: g.worldWidth / 2, Y: g.worldHeight / 2}
}

// CellCenter returns the midpoint of the cell at (col, row)
func (g *Grid) CellCenter(col, row int) r2.Vec {
	return g.Rect(col, row).Center()
}

// Each visits every cell in row-major order
func (g *Grid) Each(fn func(Cell)) {
	for _, c := range g.cells {
		fn(c)
	}
}

// Count returns the number of cells of type t
func (g *Grid) Count(t CellType) int {
	n := 0
	for _, c := range g.cells {
		if c.Type == t {
			n++
		}
	}
	return n
}
