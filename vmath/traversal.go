package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// RayTraverser walks the cells of a uniform grid crossed by the ray
// origin + dir*t, t >= 0, one cell per step (DDA). It does not allocate
type RayTraverser struct {
	col, row     int
	stepX, stepY int

	tMaxX, tMaxY     float64
	tDeltaX, tDeltaY float64

	started bool
	stuck   bool
}

// NewRayTraverser starts the walk at (col, row) for a grid of cellW x cellH
// cells. The origin is expected to lie inside the start cell
func NewRayTraverser(origin, dir r2.Vec, cellW, cellH float64, col, row int) RayTraverser {
	t := RayTraverser{
		col:   col,
		row:   row,
		stepX: Sign(dir.X),
		stepY: Sign(dir.Y),
	}

	switch t.stepX {
	case 1:
		t.tMaxX = (float64(col+1)*cellW - origin.X) / dir.X
		t.tDeltaX = cellW / dir.X
	case -1:
		t.tMaxX = (float64(col)*cellW - origin.X) / dir.X
		t.tDeltaX = -cellW / dir.X
	default:
		t.tMaxX = math.Inf(1)
	}

	switch t.stepY {
	case 1:
		t.tMaxY = (float64(row+1)*cellH - origin.Y) / dir.Y
		t.tDeltaY = cellH / dir.Y
	case -1:
		t.tMaxY = (float64(row)*cellH - origin.Y) / dir.Y
		t.tDeltaY = -cellH / dir.Y
	default:
		t.tMaxY = math.Inf(1)
	}

	t.stuck = t.stepX == 0 && t.stepY == 0
	return t
}

// Next advances to the next cell. The first call yields the start cell.
// Returns false when the ray does not move
func (t *RayTraverser) Next() bool {
	if !t.started {
		t.started = true
		return true
	}
	if t.stuck {
		return false
	}

	switch {
	case t.tMaxX < t.tMaxY:
		t.col += t.stepX
		t.tMaxX += t.tDeltaX
	case t.tMaxX > t.tMaxY:
		t.row += t.stepY
		t.tMaxY += t.tDeltaY
	default:
		// Exact corner, diagonal step
		t.col += t.stepX
		t.tMaxX += t.tDeltaX
		t.row += t.stepY
		t.tMaxY += t.tDeltaY
	}
	return true
}

// Pos returns the current grid indices
func (t *RayTraverser) Pos() (col, row int) {
	return t.col, t.row
}
