package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/maze"
)

// 4x3 bordered maze of 10px cells, two terminal columns per cell
func setupRenderer(t *testing.T) (*TerminalRenderer, tcell.SimulationScreen, *maze.Grid) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Screen init failed: %v", err)
	}
	screen.SetSize(20, 6)
	t.Cleanup(screen.Fini)

	g, err := maze.NewGrid(maze.BorderedLayout(4, 3), 40, 30)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	r := NewTerminalRenderer(screen, 2, 1)
	r.DrawGrid(g)
	return r, screen, g
}

func cellAt(s tcell.SimulationScreen, x, y int) (rune, tcell.Color, tcell.Color) {
	mainc, _, style, _ := s.GetContent(x, y)
	fg, bg, _ := style.Decompose()
	return mainc, fg, bg
}

func inPalette(c tcell.Color) bool {
	for _, p := range MarkPalette {
		if p == c {
			return true
		}
	}
	return false
}

func TestDrawGridColors(t *testing.T) {
	_, screen, _ := setupRenderer(t)

	tests := []struct {
		x, y int
		want tcell.Color
	}{
		{0, 0, RgbWall},
		{1, 0, RgbWall},
		{2, 1, RgbPath},
		{5, 1, RgbPath},
		{6, 1, RgbWall},
		{3, 2, RgbWall},
	}
	for _, tt := range tests {
		if _, _, bg := cellAt(screen, tt.x, tt.y); bg != tt.want {
			t.Errorf("Cell (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, bg)
		}
	}
}

func TestRenderMovesBall(t *testing.T) {
	r, screen, _ := setupRenderer(t)

	r.Render(r2.Vec{X: 15, Y: 15})
	if ch, fg, bg := cellAt(screen, 3, 1); ch != ballRune || fg != RgbBall || bg != RgbPath {
		t.Errorf("Expected ball on path at (3,1), got %q fg=%v bg=%v", ch, fg, bg)
	}

	r.Render(r2.Vec{X: 25, Y: 15})
	if ch, _, bg := cellAt(screen, 3, 1); ch == ballRune || bg != RgbPath {
		t.Errorf("Expected (3,1) restored to path, got %q bg=%v", ch, bg)
	}
	if ch, _, _ := cellAt(screen, 5, 1); ch != ballRune {
		t.Errorf("Expected ball at (5,1), got %q", ch)
	}

	// Off-world positions are ignored
	r.Render(r2.Vec{X: -5, Y: 15})
	if ch, _, _ := cellAt(screen, 5, 1); ch != ballRune {
		t.Errorf("Expected ball to stay at (5,1), got %q", ch)
	}
}

func TestMarkCell(t *testing.T) {
	r, screen, g := setupRenderer(t)

	wall, _ := g.CellAt(3, 1)
	r.MarkCell(wall)
	for _, x := range []int{6, 7} {
		if _, _, bg := cellAt(screen, x, 1); !inPalette(bg) {
			t.Errorf("Expected palette color at (%d,1), got %v", x, bg)
		}
	}

	// Marks under the ball keep the glyph
	r.Render(r2.Vec{X: 15, Y: 15})
	path, _ := g.CellAt(1, 1)
	r.MarkCell(path)
	if ch, _, bg := cellAt(screen, 3, 1); ch != ballRune || !inPalette(bg) {
		t.Errorf("Expected ball over marked cell, got %q bg=%v", ch, bg)
	}

	// Virtual cells beyond the world are ignored
	r.MarkCell(g.Rect(9, 9))
}

func TestSetStatus(t *testing.T) {
	r, screen, _ := setupRenderer(t)

	r.SetStatus(Status{Tick: 42, Event: 3, Speed: 120, Ceiling: 480, Paused: true})
	r.Show()

	var line strings.Builder
	for x := 0; x < 8; x++ {
		ch, _, bg := cellAt(screen, x, 3)
		if bg != RgbPausedBg {
			t.Errorf("Expected paused background at (%d,3), got %v", x, bg)
		}
		line.WriteRune(ch)
	}
	if !strings.HasPrefix(line.String(), " tick 42") {
		t.Errorf("Expected status to start with tick, got %q", line.String())
	}
}

func TestRenderWithoutGrid(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Screen init failed: %v", err)
	}
	defer screen.Fini()

	r := NewTerminalRenderer(screen, 0, 1)
	r.Render(r2.Vec{X: 1, Y: 1})
	r.MarkCell(maze.Cell{})
	r.SetStatus(Status{})
}

func TestFormatStatus(t *testing.T) {
	got := formatStatus(Status{Tick: 7, Event: 2, Note: "C4", Muted: true, NextIn: 0.25, HasNext: true})
	for _, want := range []string{"tick 7", "event 2", "(C4)", "next +0.25s", "muted"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in %q", want, got)
		}
	}
	if strings.Contains(got, "PAUSED") {
		t.Errorf("Unexpected pause marker in %q", got)
	}
}

func TestGetSpeedColor(t *testing.T) {
	if c := GetSpeedColor(100, 0); c != RgbStatusText {
		t.Errorf("Expected neutral color without a ceiling, got %v", c)
	}
	if GetSpeedColor(100, 1000) == GetSpeedColor(990, 1000) {
		t.Error("Expected different colors for calm and near-ceiling speeds")
	}
	if c := GetSpeedColor(0, 1000); c != rgbCalm.Tcell() {
		t.Errorf("Expected calm color at rest, got %v", c)
	}
	if c := GetSpeedColor(1200, 1000); c != rgbDanger.Tcell() {
		t.Errorf("Expected danger color above the ceiling, got %v", c)
	}
}

func TestLerp(t *testing.T) {
	a, b := RGB{0, 100, 200}, RGB{200, 100, 0}
	if got := Lerp(a, b, 0.5); got != (RGB{100, 100, 100}) {
		t.Errorf("Expected midpoint {100 100 100}, got %v", got)
	}
	if got := Lerp(a, b, -1); got != a {
		t.Errorf("Expected a below 0, got %v", got)
	}
	if got := Lerp(a, b, 2); got != b {
		t.Errorf("Expected b above 1, got %v", got)
	}
}
