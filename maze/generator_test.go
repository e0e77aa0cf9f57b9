package maze

import "testing"

func TestGenerateBorderAndSize(t *testing.T) {
	res := Generate(GenConfig{Width: 20, Height: 12, Seed: 7})

	rows, cols := len(res.Layout), len(res.Layout[0])
	if cols != 19 || rows != 11 {
		t.Fatalf("Expected 19x11 layout, got %dx%d", cols, rows)
	}

	for x := 0; x < cols; x++ {
		if res.Layout[0][x] != MarkerWall || res.Layout[rows-1][x] != MarkerWall {
			t.Errorf("Expected border wall at column %d", x)
		}
	}
	for y := 0; y < rows; y++ {
		if res.Layout[y][0] != MarkerWall || res.Layout[y][cols-1] != MarkerWall {
			t.Errorf("Expected border wall at row %d", y)
		}
	}

	if res.Layout[res.Start.Y][res.Start.X] != MarkerPath {
		t.Errorf("Expected start %v to be open", res.Start)
	}
}

func TestGenerateConnected(t *testing.T) {
	res := Generate(GenConfig{Width: 31, Height: 21, Braiding: 0.5, Seed: 42})
	layout := res.Layout

	// Every odd room is reachable from the start
	seen := map[Point]bool{res.Start: true}
	queue := []Point{res.Start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range orthoDirs {
			n := Point{p.X + d.X, p.Y + d.Y}
			if layout[n.Y][n.X] == MarkerPath && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}

	for y := 1; y < len(layout)-1; y += 2 {
		for x := 1; x < len(layout[0])-1; x += 2 {
			if !seen[Point{x, y}] {
				t.Errorf("Room (%d,%d) unreachable", x, y)
			}
		}
	}
}

func TestGenerateNoPlazas(t *testing.T) {
	layout := Generate(GenConfig{Width: 41, Height: 25, Braiding: 1, Seed: 3}).Layout

	for y := 0; y+1 < len(layout); y++ {
		for x := 0; x+1 < len(layout[0]); x++ {
			if layout[y][x] == MarkerPath && layout[y+1][x] == MarkerPath &&
				layout[y][x+1] == MarkerPath && layout[y+1][x+1] == MarkerPath {
				t.Errorf("2x2 open plaza at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(GenConfig{Width: 15, Height: 9, Braiding: 0.3, Seed: 99}).Layout
	b := Generate(GenConfig{Width: 15, Height: 9, Braiding: 0.3, Seed: 99}).Layout

	for y := range a {
		for x := range a[y] {
			if a[y][x] != b[y][x] {
				t.Fatalf("Same seed produced different layouts at (%d,%d)", x, y)
			}
		}
	}
}

func TestGenerateGridCompatible(t *testing.T) {
	res := Generate(GenConfig{Width: 16, Height: 10, Seed: 1, Start: &Point{8, 4}})
	g, err := NewGrid(res.Layout, 750, 450)
	if err != nil {
		t.Fatalf("Generated layout rejected: %v", err)
	}
	c, ok := g.CellAt(res.Start.X, res.Start.Y)
	if !ok || c.IsWall() {
		t.Errorf("Expected start cell %v to be path", res.Start)
	}
	if res.Start.X%2 != 1 || res.Start.Y%2 != 1 {
		t.Errorf("Expected start on an odd room, got %v", res.Start)
	}
}
