package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/vmath"
)

// Retiming defaults
const (
	// SafetyRatio is the largest fraction of a cell the body may cross per tick
	SafetyRatio      = 0.8
	DefaultMinSpeed  = 50.0
	DefaultMinTarget = 0.1
)

// TimestampSource yields target event times in seconds
type TimestampSource interface {
	Timestamp(i int) (float64, bool)
}

// ClampKind records which safety guard changed the speed
type ClampKind uint8

const (
	ClampNone ClampKind = iota
	ClampCeiling
	ClampFloor
)

func (c ClampKind) String() string {
	switch c {
	case ClampCeiling:
		return "ceiling"
	case ClampFloor:
		return "floor"
	default:
		return "none"
	}
}

// Adjustment describes one retiming decision
type Adjustment struct {
	Index     int
	Predicted float64 // seconds to the next crossing at the incoming speed
	Target    float64 // seconds the next crossing should take
	Factor    float64
	SpeedIn   float64
	SpeedOut  float64
	Clamp     ClampKind

	// Missing is set when event Index has no timing data; velocity is kept
	Missing bool
	// Degenerate is set when the predicted time was unusable and Factor fell back to 1
	Degenerate bool
	// Floored is set when the event interval was raised to the minimum target
	Floored bool
}

// Retimer rescales velocity so the next crossing lands on the next event
type Retimer struct {
	MaxSpeed  float64 // tunneling ceiling, units/sec
	MinSpeed  float64 // stall floor, units/sec
	MinTarget float64 // shortest interval retimed against, seconds
}

// NewRetimer derives the tunneling ceiling from the cell size and tick rate
func NewRetimer(cellSize, tickRate, minSpeed, minTarget float64) Retimer {
	return Retimer{
		MaxSpeed:  SafetyRatio * cellSize * tickRate,
		MinSpeed:  minSpeed,
		MinTarget: minTarget,
	}
}

// AdjustVelocity scales vel by predicted/target, where target is the interval
// between event index-1 and event index, then applies the safety clamps
func (r Retimer) AdjustVelocity(vel r2.Vec, predicted float64, tl TimestampSource, index int) (r2.Vec, Adjustment) {
	adj := Adjustment{
		Index:     index,
		Predicted: predicted,
		Factor:    1,
		SpeedIn:   vmath.Speed(vel),
	}
	adj.SpeedOut = adj.SpeedIn

	if tl == nil {
		adj.Missing = true
		return vel, adj
	}
	cur, ok := tl.Timestamp(index)
	if !ok {
		adj.Missing = true
		return vel, adj
	}
	prev := 0.0
	if index > 0 {
		if ts, ok := tl.Timestamp(index - 1); ok {
			prev = ts
		}
	}

	adj.Target = math.Abs(cur - prev)
	if adj.Target < r.MinTarget {
		adj.Target = r.MinTarget
		adj.Floored = true
	}

	if math.IsNaN(predicted) || math.IsInf(predicted, 0) || predicted == 0 || adj.Target == 0 {
		adj.Degenerate = true
	} else {
		adj.Factor = predicted / adj.Target
	}

	out, clamp := r.Clamp(r2.Scale(adj.Factor, vel))
	adj.Clamp = clamp
	adj.SpeedOut = vmath.Speed(out)
	return out, adj
}

// Clamp applies the tunneling ceiling, then the stall floor. Both preserve heading
func (r Retimer) Clamp(v r2.Vec) (r2.Vec, ClampKind) {
	kind := ClampNone
	if r.MaxSpeed > 0 {
		var capped bool
		if v, capped = vmath.ClampMagnitude(v, r.MaxSpeed); capped {
			kind = ClampCeiling
		}
	}
	var raised bool
	if v, raised = vmath.FloorMagnitude(v, r.MinSpeed); raised {
		kind = ClampFloor
	}
	return v, kind
}
