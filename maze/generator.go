package maze

import (
	"math/rand"
	"time"
)

// Point addresses a layout cell
type Point struct {
	X, Y int
}

// GenConfig controls maze generation
type GenConfig struct {
	Width, Height int

	// Braiding: 0.0 (perfect maze, a tree) to 1.0 (no dead ends).
	// Higher values add cycles. Plaza and pillar constraints take precedence.
	Braiding float64

	Start *Point // Optional (nil = (1,1))
	Seed  int64  // Optional (0 = time based)
}

// GenResult is a generated layout ready for NewGrid
type GenResult struct {
	Layout [][]int
	Start  Point
}

var (
	jumpDirs  = []Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}
	orthoDirs = []Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
)

// Generate carves a maze enclosed by a wall border. Dimensions are rounded
// down to odd numbers, minimum 3
func Generate(cfg GenConfig) GenResult {
	rows := ensureOdd(cfg.Height)
	cols := ensureOdd(cfg.Width)

	layout := make([][]int, rows)
	for y := range layout {
		layout[y] = make([]int, cols)
		for x := range layout[y] {
			layout[y][x] = MarkerWall
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := Point{1, 1}
	if cfg.Start != nil {
		start = clampToRoom(*cfg.Start, cols, rows)
	}

	carve(layout, start, rng)

	if cfg.Braiding > 0 {
		braid(layout, cfg.Braiding, rng)
	}

	return GenResult{Layout: layout, Start: start}
}

// carve runs a recursive backtracker over odd cells, yielding a spanning tree
func carve(layout [][]int, start Point, rng *rand.Rand) {
	rows, cols := len(layout), len(layout[0])

	stack := []Point{start}
	layout[start.Y][start.X] = MarkerPath

	for len(stack) > 0 {
		curr := stack[len(stack)-1]
		candidates := make([]Point, 0, 4)

		for _, d := range jumpDirs {
			nx, ny := curr.X+d.X, curr.Y+d.Y
			// Border ring stays wall
			if nx > 0 && nx < cols-1 && ny > 0 && ny < rows-1 && layout[ny][nx] == MarkerWall {
				candidates = append(candidates, d)
			}
		}

		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		d := candidates[rng.Intn(len(candidates))]
		layout[curr.Y+d.Y/2][curr.X+d.X/2] = MarkerPath
		next := Point{curr.X + d.X, curr.Y + d.Y}
		layout[next.Y][next.X] = MarkerPath
		stack = append(stack, next)
	}
}

// braid opens a wall next to dead ends with the given probability
func braid(layout [][]int, probability float64, rng *rand.Rand) {
	rows, cols := len(layout), len(layout[0])

	for y := 1; y < rows-1; y += 2 {
		for x := 1; x < cols-1; x += 2 {
			if layout[y][x] == MarkerWall {
				continue
			}

			exits := 0
			for _, d := range orthoDirs {
				if layout[y+d.Y][x+d.X] == MarkerPath {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= probability {
				continue
			}

			candidates := make([]Point, 0, 4)
			for _, d := range jumpDirs {
				nx, ny := x+d.X, y+d.Y
				wx, wy := x+d.X/2, y+d.Y/2
				if nx <= 0 || nx >= cols-1 || ny <= 0 || ny >= rows-1 {
					continue
				}
				if layout[ny][nx] == MarkerPath && layout[wy][wx] == MarkerWall && canOpen(layout, wx, wy) {
					candidates = append(candidates, Point{wx, wy})
				}
			}

			if len(candidates) > 0 {
				c := candidates[rng.Intn(len(candidates))]
				layout[c.Y][c.X] = MarkerPath
			}
		}
	}
}

// canOpen reports whether turning (x, y) into a path keeps the topology free
// of 2x2 open plazas and isolated wall pillars
func canOpen(layout [][]int, x, y int) bool {
	rows, cols := len(layout), len(layout[0])

	open := func(tx, ty int) bool {
		if tx < 0 || tx >= cols || ty < 0 || ty >= rows {
			return false
		}
		return layout[ty][tx] == MarkerPath
	}

	// Each 2x2 quadrant containing (x, y)
	for _, q := range [][3]Point{
		{{-1, -1}, {0, -1}, {-1, 0}},
		{{0, -1}, {1, -1}, {1, 0}},
		{{-1, 0}, {-1, 1}, {0, 1}},
		{{1, 0}, {0, 1}, {1, 1}},
	} {
		if open(x+q[0].X, y+q[0].Y) && open(x+q[1].X, y+q[1].Y) && open(x+q[2].X, y+q[2].Y) {
			return false
		}
	}

	for _, d := range orthoDirs {
		nx, ny := x+d.X, y+d.Y
		if nx < 0 || nx >= cols || ny < 0 || ny >= rows || layout[ny][nx] != MarkerWall {
			continue
		}
		links := 0
		for _, d2 := range orthoDirs {
			mx, my := nx+d2.X, ny+d2.Y
			if mx == x && my == y {
				continue
			}
			if mx >= 0 && mx < cols && my >= 0 && my < rows && layout[my][mx] == MarkerWall {
				links++
			}
		}
		if links == 0 {
			return false
		}
	}

	return true
}

func ensureOdd(n int) int {
	if n < 3 {
		return 3
	}
	if n%2 == 0 {
		return n - 1
	}
	return n
}

// clampToRoom moves p onto the nearest odd interior cell
func clampToRoom(p Point, cols, rows int) Point {
	clamp := func(v, hi int) int {
		if v < 1 {
			v = 1
		}
		if v > hi-2 {
			v = hi - 2
		}
		return v | 1
	}
	return Point{clamp(p.X, cols), clamp(p.Y, rows)}
}
