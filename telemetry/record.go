package telemetry

import (
	"log/slog"

	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/vmath"
)

// CollisionRecord is one CSV row
type CollisionRecord struct {
	Session string  `csv:"session"`
	Tick    uint64  `csv:"tick"`
	SimTime float64 `csv:"sim_time"`
	Event   int     `csv:"event"`
	Kind    string  `csv:"kind"`
	Face    string  `csv:"face"`
	WallCol int     `csv:"wall_col"`
	WallRow int     `csv:"wall_row"`

	PosX  float64 `csv:"pos_x"`
	PosY  float64 `csv:"pos_y"`
	VelX  float64 `csv:"vel_x"`
	VelY  float64 `csv:"vel_y"`
	Speed float64 `csv:"speed"`

	Predicted  float64 `csv:"predicted"`
	Target     float64 `csv:"target"`
	Factor     float64 `csv:"factor"`
	Clamp      string  `csv:"clamp"`
	Missing    bool    `csv:"missing"`
	Degenerate bool    `csv:"degenerate"`

	// Interval since the previous wall hit minus the target it requested
	TimingError float64 `csv:"timing_error"`
	Measured    bool    `csv:"measured"`
}

func newRecord(session string, c engine.Collision) CollisionRecord {
	rec := CollisionRecord{
		Session: session,
		Tick:    c.Tick,
		SimTime: c.SimTime,
		Event:   c.Event,
		Kind:    c.Kind.String(),
		Face:    c.Face.String(),
		PosX:    c.Pos.X,
		PosY:    c.Pos.Y,
		VelX:    c.Vel.X,
		VelY:    c.Vel.Y,
	}
	rec.Speed = vmath.Speed(c.Vel)
	if c.Kind == engine.KindWall {
		rec.WallCol, rec.WallRow = c.Wall.Col, c.Wall.Row
		rec.Predicted = c.Prediction.Time
	}
	if c.Retimed {
		rec.Target = c.Adjustment.Target
		rec.Factor = c.Adjustment.Factor
		rec.Clamp = c.Adjustment.Clamp.String()
		rec.Missing = c.Adjustment.Missing
		rec.Degenerate = c.Adjustment.Degenerate
	}
	return rec
}

// LogValue implements slog.LogValuer for structured logging
func (r CollisionRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("tick", r.Tick),
		slog.Int("event", r.Event),
		slog.String("kind", r.Kind),
		slog.String("face", r.Face),
		slog.Float64("predicted", r.Predicted),
		slog.Float64("target", r.Target),
		slog.Float64("factor", r.Factor),
		slog.String("clamp", r.Clamp),
	)
}
