package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/maze"
	"github.com/lixenwraith/maze-bounce/vmath"
)

// FaceEpsilon discards face times at or below it, so the face the body is
// snapped against is not detected again
const FaceEpsilon = 0.001

// Prediction is the next wall crossing along the current heading
type Prediction struct {
	Point r2.Vec
	Time  float64 // seconds, 0 when no crossing ahead
	Cell  maze.Cell
	// Virtual is set when the walk left the grid and Cell is the
	// out-of-bounds rectangle beyond the world edge
	Virtual bool
	Found   bool
}

// PredictNextCrossing walks cells from (fromCol, fromRow) along pos+vel*t
// until a wall is found, then intersects the ray with that wall's near faces
func PredictNextCrossing(pos, vel r2.Vec, grid *maze.Grid, fromCol, fromRow int) Prediction {
	target, virtual, found := nextWall(pos, vel, grid, fromCol, fromRow)
	if !found {
		return Prediction{Point: pos}
	}

	t := timeToFaces(pos, vel, target)
	p := Prediction{Cell: target, Virtual: virtual, Found: true, Point: pos}
	if math.IsInf(t, 1) {
		return p
	}
	p.Time = t
	p.Point = r2.Add(pos, r2.Scale(t, vel))
	return p
}

// nextWall returns the first wall cell on the ray, or the first out-of-bounds
// cell when the ray leaves the grid before meeting one
func nextWall(pos, vel r2.Vec, grid *maze.Grid, col, row int) (maze.Cell, bool, bool) {
	tr := vmath.NewRayTraverser(pos, vel, grid.CellWidth(), grid.CellHeight(), col, row)
	limit := grid.Cols() + grid.Rows() + 2

	for i := 0; i <= limit && tr.Next(); i++ {
		c, r := tr.Pos()
		cell, ok := grid.CellAt(c, r)
		if !ok {
			return grid.Rect(c, r), true, true
		}
		if cell.IsWall() {
			return cell, false, true
		}
	}
	return maze.Cell{}, false, false
}

// timeToFaces returns the smallest positive time to reach the face of cell
// nearest along each axis, or +Inf
func timeToFaces(pos, vel r2.Vec, cell maze.Cell) float64 {
	tx, ty := math.Inf(1), math.Inf(1)

	switch {
	case vel.X > 0:
		tx = (cell.Left() - pos.X) / vel.X
	case vel.X < 0:
		tx = (cell.Right() - pos.X) / vel.X
	}
	switch {
	case vel.Y > 0:
		ty = (cell.Top() - pos.Y) / vel.Y
	case vel.Y < 0:
		ty = (cell.Bottom() - pos.Y) / vel.Y
	}

	if !(tx > FaceEpsilon) {
		tx = math.Inf(1)
	}
	if !(ty > FaceEpsilon) {
		ty = math.Inf(1)
	}
	return math.Min(tx, ty)
}
