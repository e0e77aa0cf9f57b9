package engine

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/maze"
	"github.com/lixenwraith/maze-bounce/physics"
)

// Renderer draws the body and highlights cells
type Renderer interface {
	Render(pos r2.Vec)
	MarkCell(c maze.Cell)
}

// GridDrawer is implemented by renderers that paint the whole maze once
type GridDrawer interface {
	DrawGrid(g *maze.Grid)
}

// EventSink receives numbered collision events, starting at 1
type EventSink interface {
	TriggerEvent(index int)
}

// Observer receives every collision after it has been resolved
type Observer interface {
	OnCollision(c Collision)
}

// Face identifies the wall face that was hit
type Face uint8

const (
	FaceNone Face = iota
	FaceLeft
	FaceRight
	FaceTop
	FaceBottom
)

func (f Face) String() string {
	switch f {
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceTop:
		return "top"
	case FaceBottom:
		return "bottom"
	default:
		return "none"
	}
}

// CollisionKind separates wall bounces from recoveries
type CollisionKind uint8

const (
	// KindWall is a face crossing into a wall cell
	KindWall CollisionKind = iota
	// KindBoundary is a step that left the world
	KindBoundary
	// KindStuck is a step that ended inside a wall without crossing a face
	KindStuck
)

func (k CollisionKind) String() string {
	switch k {
	case KindBoundary:
		return "boundary"
	case KindStuck:
		return "stuck"
	default:
		return "wall"
	}
}

// Collision is one resolved hit
type Collision struct {
	Tick    uint64
	SimTime float64 // seconds of simulated time at the hit
	Event   int     // event counter after the hit
	Kind    CollisionKind
	Face    Face
	Wall    maze.Cell
	Pos     r2.Vec // position after the snap
	Vel     r2.Vec // velocity after reflection and retiming

	Prediction physics.Prediction
	Adjustment physics.Adjustment
	Retimed    bool
}

type nopRenderer struct{}

func (nopRenderer) Render(r2.Vec)      {}
func (nopRenderer) MarkCell(maze.Cell) {}

type nopSink struct{}

func (nopSink) TriggerEvent(int) {}

type nopObserver struct{}

func (nopObserver) OnCollision(Collision) {}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Collision)

func (f ObserverFunc) OnCollision(c Collision) { f(c) }

// Observers fans a collision out to several observers in order
type Observers []Observer

func (o Observers) OnCollision(c Collision) {
	for _, obs := range o {
		obs.OnCollision(c)
	}
}
