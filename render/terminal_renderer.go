package render

import (
	"math"
	"math/rand"
	"sync"

	"github.com/gdamore/tcell/v2"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/maze"
)

const ballRune = '●'

// Status is the information shown under the maze
type Status struct {
	Tick    uint64
	Event   int
	Speed   float64
	Ceiling float64
	Paused  bool
	Muted   bool
	Note    string

	// NextIn is the time until the next melody event, when HasNext
	NextIn  float64
	HasNext bool
}

// TerminalRenderer draws the maze on a tcell screen, one maze cell per
// cellCols x 1 terminal cells, with a status line below the maze
type TerminalRenderer struct {
	mu       sync.Mutex
	screen   tcell.Screen
	grid     *maze.Grid
	cellCols int

	// Current background of every maze cell, row-major
	colors []tcell.Color

	ballX, ballY int
	ballDrawn    bool

	rng *rand.Rand
}

// NewTerminalRenderer creates a renderer; seed drives the mark palette
func NewTerminalRenderer(screen tcell.Screen, cellCols int, seed int64) *TerminalRenderer {
	if cellCols < 1 {
		cellCols = 1
	}
	return &TerminalRenderer{
		screen:   screen,
		cellCols: cellCols,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

// DrawGrid paints every cell: walls black, paths purple
func (r *TerminalRenderer) DrawGrid(g *maze.Grid) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.grid = g
	r.colors = make([]tcell.Color, g.Cols()*g.Rows())
	r.ballDrawn = false
	r.screen.Clear()

	g.Each(func(c maze.Cell) {
		color := RgbPath
		if c.IsWall() {
			color = RgbWall
		}
		r.paintCell(c.Col, c.Row, color)
	})
}

// MarkCell repaints a cell with a random palette color
func (r *TerminalRenderer) MarkCell(c maze.Cell) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grid == nil || !r.grid.InBounds(c.Col, c.Row) {
		return
	}
	color := MarkPalette[r.rng.Intn(len(MarkPalette))]
	r.paintCell(c.Col, c.Row, color)
	if r.ballDrawn && r.ballCellIs(c.Col, c.Row) {
		r.drawBall()
	}
}

// Render moves the ball glyph to pos, restoring the cell it leaves
func (r *TerminalRenderer) Render(pos r2.Vec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grid == nil {
		return
	}
	x, y, ok := r.toScreen(pos)
	if !ok {
		return
	}
	if r.ballDrawn && (x != r.ballX || y != r.ballY) {
		r.restore(r.ballX, r.ballY)
	}
	r.ballX, r.ballY = x, y
	r.ballDrawn = true
	r.drawBall()
}

// SetStatus redraws the status line
func (r *TerminalRenderer) SetStatus(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.grid == nil {
		return
	}
	y := r.grid.Rows()
	width := r.grid.Cols() * r.cellCols

	bg := RgbStatusBg
	if s.Paused {
		bg = RgbPausedBg
	}
	base := tcell.StyleDefault.Background(bg).Foreground(RgbStatusText)
	for x := 0; x < width; x++ {
		r.screen.SetContent(x, y, ' ', nil, base)
	}

	x := r.drawText(0, y, formatStatus(s), base)
	speed := tcell.StyleDefault.Background(bg).Foreground(GetSpeedColor(s.Speed, s.Ceiling))
	r.drawText(x, y, formatSpeed(s.Speed), speed)
}

// Show flushes pending changes to the terminal
func (r *TerminalRenderer) Show() {
	r.mu.Lock()
	r.screen.Show()
	r.mu.Unlock()
}

// Sync repaints the whole terminal after a resize
func (r *TerminalRenderer) Sync() {
	r.mu.Lock()
	r.screen.Sync()
	r.mu.Unlock()
}

// toScreen maps world coordinates to terminal cells
func (r *TerminalRenderer) toScreen(pos r2.Vec) (x, y int, ok bool) {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Y) {
		return 0, 0, false
	}
	fx := pos.X / r.grid.CellWidth() * float64(r.cellCols)
	fy := pos.Y / r.grid.CellHeight()
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || y < 0 || x >= r.grid.Cols()*r.cellCols || y >= r.grid.Rows() {
		return 0, 0, false
	}
	return x, y, true
}

func (r *TerminalRenderer) ballCellIs(col, row int) bool {
	return r.ballX/r.cellCols == col && r.ballY == row
}

func (r *TerminalRenderer) cellColor(x, y int) tcell.Color {
	return r.colors[y*r.grid.Cols()+x/r.cellCols]
}

func (r *TerminalRenderer) paintCell(col, row int, color tcell.Color) {
	r.colors[row*r.grid.Cols()+col] = color
	style := tcell.StyleDefault.Background(color)
	for dx := 0; dx < r.cellCols; dx++ {
		r.screen.SetContent(col*r.cellCols+dx, row, ' ', nil, style)
	}
}

func (r *TerminalRenderer) restore(x, y int) {
	r.screen.SetContent(x, y, ' ', nil, tcell.StyleDefault.Background(r.cellColor(x, y)))
}

func (r *TerminalRenderer) drawBall() {
	style := tcell.StyleDefault.Background(r.cellColor(r.ballX, r.ballY)).Foreground(RgbBall)
	r.screen.SetContent(r.ballX, r.ballY, ballRune, nil, style)
}

func (r *TerminalRenderer) drawText(x, y int, s string, style tcell.Style) int {
	for _, ch := range s {
		r.screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}
