package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/maze"
	"github.com/lixenwraith/maze-bounce/physics"
	"github.com/lixenwraith/maze-bounce/timeline"
	"github.com/lixenwraith/maze-bounce/vmath"
)

var (
	ErrStartBlocked = errors.New("start position is not on a path cell")
	ErrParams       = errors.New("invalid simulation parameters")
)

// Start selects the starting cell
type Start struct {
	Row, Col int
}

// Params configures a Simulation
type Params struct {
	TickRate float64 // steps per simulated second
	Velocity r2.Vec  // initial velocity, units/sec
	Accel    r2.Vec  // constant acceleration, units/sec^2

	// Start cell; nil starts at the world center
	Start *Start

	Retime      bool
	MinSpeed    float64
	MinTarget   float64
	SnapEpsilon float64 // distance kept outside a face after a bounce
}

// DefaultParams returns the stock tuning
func DefaultParams() Params {
	return Params{
		TickRate:    60,
		Velocity:    r2.Vec{X: 180, Y: 120},
		Retime:      true,
		MinSpeed:    physics.DefaultMinSpeed,
		MinTarget:   physics.DefaultMinTarget,
		SnapEpsilon: 0.1,
	}
}

func (p Params) validate() error {
	switch {
	case !(p.TickRate > 0) || math.IsInf(p.TickRate, 0):
		return fmt.Errorf("%w: tick rate %v", ErrParams, p.TickRate)
	case !vmath.IsFinite(p.Velocity):
		return fmt.Errorf("%w: velocity %v", ErrParams, p.Velocity)
	case !vmath.IsFinite(p.Accel):
		return fmt.Errorf("%w: acceleration %v", ErrParams, p.Accel)
	case p.MinSpeed < 0 || p.MinTarget < 0 || p.SnapEpsilon < 0:
		return fmt.Errorf("%w: negative guard value", ErrParams)
	}
	return nil
}

// Body is the simulated ball
type Body struct {
	Pos   r2.Vec
	Vel   r2.Vec
	Accel r2.Vec
	Col   int
	Row   int
}

// Option installs a collaborator
type Option func(*Simulation)

func WithRenderer(r Renderer) Option {
	return func(s *Simulation) {
		if r != nil {
			s.renderer = r
		}
	}
}

func WithEventSink(e EventSink) Option {
	return func(s *Simulation) {
		if e != nil {
			s.sink = e
		}
	}
}

func WithObserver(o Observer) Option {
	return func(s *Simulation) {
		if o != nil {
			s.observer = o
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.log = l
		}
	}
}

// Simulation owns the body and advances it one fixed tick per Step.
// It is not safe for concurrent use; the caller confines it to one goroutine
type Simulation struct {
	grid     *maze.Grid
	timeline *timeline.Timeline
	params   Params
	retimer  physics.Retimer
	dt       float64

	body    Body
	safePos r2.Vec // last position known to lie in a path cell
	tick    uint64
	counter int

	renderer Renderer
	sink     EventSink
	observer Observer
	log      *slog.Logger

	missingLogged bool
}

// NewSimulation places the body and paints the grid on a GridDrawer renderer.
// tl may be nil, in which case velocity is never retimed
func NewSimulation(grid *maze.Grid, tl *timeline.Timeline, p Params, opts ...Option) (*Simulation, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: nil grid", ErrParams)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		grid:     grid,
		timeline: tl,
		params:   p,
		dt:       1 / p.TickRate,
		retimer: physics.NewRetimer(
			math.Min(grid.CellWidth(), grid.CellHeight()), p.TickRate, p.MinSpeed, p.MinTarget),
		renderer: nopRenderer{},
		sink:     nopSink{},
		observer: nopObserver{},
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	pos := grid.Center()
	if p.Start != nil {
		pos = grid.CellCenter(p.Start.Col, p.Start.Row)
	}
	col, row := grid.Locate(pos)
	cell, ok := grid.CellAt(col, row)
	if !ok || cell.IsWall() {
		return nil, fmt.Errorf("%w: cell (%d,%d)", ErrStartBlocked, col, row)
	}

	vel, capped := vmath.ClampMagnitude(p.Velocity, s.retimer.MaxSpeed)
	if capped {
		s.log.Warn("initial velocity above tunneling ceiling, capped",
			"requested", vmath.Speed(p.Velocity), "max_speed", s.retimer.MaxSpeed)
	}
	s.body = Body{Pos: pos, Vel: vel, Accel: p.Accel, Col: col, Row: row}
	s.safePos = pos

	if gd, ok := s.renderer.(GridDrawer); ok {
		gd.DrawGrid(grid)
	}
	s.renderer.Render(pos)

	s.log.Debug("simulation ready",
		"start", pos, "cell_col", col, "cell_row", row,
		"max_speed", s.retimer.MaxSpeed, "events", tl.Len())
	return s, nil
}

// Step advances the simulation by one tick
func (s *Simulation) Step() {
	s.tick++
	prev := s.body.Pos

	if s.body.Accel != (r2.Vec{}) {
		s.body.Vel = r2.Add(s.body.Vel, r2.Scale(s.dt, s.body.Accel))
		s.body.Vel, _ = vmath.ClampMagnitude(s.body.Vel, s.retimer.MaxSpeed)
	}
	s.body.Pos = r2.Add(prev, r2.Scale(s.dt, s.body.Vel))

	col, row := s.grid.Locate(s.body.Pos)
	cell, ok := s.grid.CellAt(col, row)
	switch {
	case !ok || !vmath.IsFinite(s.body.Pos):
		s.revert(KindBoundary)
	case cell.IsWall():
		if !s.bounce(prev, cell) {
			s.revert(KindStuck)
		}
	default:
		s.settle()
	}

	s.renderer.Render(s.body.Pos)
}

// Advance runs n steps synchronously
func (s *Simulation) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Body returns a copy of the body state
func (s *Simulation) Body() Body { return s.body }

// Tick returns the number of completed steps
func (s *Simulation) Tick() uint64 { return s.tick }

// Counter returns the current event counter
func (s *Simulation) Counter() int { return s.counter }

// Elapsed returns simulated seconds
func (s *Simulation) Elapsed() float64 { return float64(s.tick) * s.dt }

// Grid returns the maze the body moves in
func (s *Simulation) Grid() *maze.Grid { return s.grid }

// Retimer returns the speed guards in effect
func (s *Simulation) Retimer() physics.Retimer { return s.retimer }

// settle records the body's cell and, when it is a path cell, the safe position
func (s *Simulation) settle() {
	col, row := s.grid.Locate(s.body.Pos)
	s.body.Col, s.body.Row = col, row
	if cell, ok := s.grid.CellAt(col, row); ok && !cell.IsWall() {
		s.safePos = s.body.Pos
	}
}

// revert returns to the last safe position and reverses the heading
func (s *Simulation) revert(kind CollisionKind) {
	s.body.Pos = s.safePos
	s.body.Vel = vmath.Reverse(s.body.Vel)
	if !vmath.IsFinite(s.body.Vel) {
		s.body.Vel = r2.Vec{}
	}
	s.body.Col, s.body.Row = s.grid.Locate(s.body.Pos)
	s.counter++

	s.log.Debug("body recovered", "kind", kind, "tick", s.tick, "pos", s.body.Pos, "event", s.counter)
	s.observer.OnCollision(Collision{
		Tick:    s.tick,
		SimTime: s.Elapsed(),
		Event:   s.counter,
		Kind:    kind,
		Pos:     s.body.Pos,
		Vel:     s.body.Vel,
	})
}

// bounce reflects off each face of wall crossed between prev and the current
// position. Faces are tested independently so a corner hit reflects both axes
func (s *Simulation) bounce(prev r2.Vec, wall maze.Cell) bool {
	cur := s.body.Pos
	eps := s.params.SnapEpsilon
	hit := false

	if prev.X < wall.Left() && cur.X >= wall.Left() {
		s.body.Vel = vmath.ReflectAxisX(s.body.Vel)
		s.body.Pos.X = wall.Left() - eps
		s.collide(FaceLeft, wall)
		hit = true
	}
	if prev.X > wall.Right() && cur.X <= wall.Right() {
		s.body.Vel = vmath.ReflectAxisX(s.body.Vel)
		s.body.Pos.X = wall.Right() + eps
		s.collide(FaceRight, wall)
		hit = true
	}
	if prev.Y < wall.Top() && cur.Y >= wall.Top() {
		s.body.Vel = vmath.ReflectAxisY(s.body.Vel)
		s.body.Pos.Y = wall.Top() - eps
		s.collide(FaceTop, wall)
		hit = true
	}
	if prev.Y > wall.Bottom() && cur.Y <= wall.Bottom() {
		s.body.Vel = vmath.ReflectAxisY(s.body.Vel)
		s.body.Pos.Y = wall.Bottom() + eps
		s.collide(FaceBottom, wall)
		hit = true
	}
	return hit
}

// collide fires the event for one face hit, predicts the next crossing and
// retimes the velocity toward the next event
func (s *Simulation) collide(face Face, wall maze.Cell) {
	s.settle()
	s.counter++
	s.sink.TriggerEvent(s.counter)
	s.renderer.MarkCell(wall)

	pred := physics.PredictNextCrossing(s.body.Pos, s.body.Vel, s.grid, s.body.Col, s.body.Row)
	if pred.Found && !pred.Virtual {
		s.renderer.MarkCell(pred.Cell)
	}

	c := Collision{
		Tick:       s.tick,
		SimTime:    s.Elapsed(),
		Event:      s.counter,
		Kind:       KindWall,
		Face:       face,
		Wall:       wall,
		Pos:        s.body.Pos,
		Prediction: pred,
	}

	if s.params.Retime {
		vel, adj := s.retimer.AdjustVelocity(s.body.Vel, pred.Time, s.timeline, s.counter)
		s.body.Vel = vel
		c.Adjustment = adj
		c.Retimed = true
		s.logAdjustment(adj)
	}
	c.Vel = s.body.Vel

	s.observer.OnCollision(c)
}

func (s *Simulation) logAdjustment(adj physics.Adjustment) {
	switch {
	case adj.Missing:
		if !s.missingLogged {
			s.missingLogged = true
			s.log.Info("no timing data, keeping velocity", "event", adj.Index, "events", s.timeline.Len())
		}
		return
	case adj.Degenerate:
		s.log.Warn("degenerate timing, factor forced to 1",
			"event", adj.Index, "predicted", adj.Predicted, "target", adj.Target)
	case adj.Floored:
		s.log.Warn("event interval below minimum, floored",
			"event", adj.Index, "target", adj.Target)
	}
	if adj.Clamp != physics.ClampNone {
		s.log.Debug("speed clamped",
			"event", adj.Index, "clamp", adj.Clamp, "requested", adj.SpeedIn*adj.Factor, "speed", adj.SpeedOut)
	}
}
