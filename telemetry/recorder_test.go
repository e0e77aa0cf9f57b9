package telemetry

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/maze"
	"github.com/lixenwraith/maze-bounce/physics"
)

func wallHit(tick uint64, simTime float64, event int, target, factor float64) engine.Collision {
	return engine.Collision{
		Tick:    tick,
		SimTime: simTime,
		Event:   event,
		Kind:    engine.KindWall,
		Face:    engine.FaceLeft,
		Wall:    maze.Cell{Col: 3, Row: 4},
		Pos:     r2.Vec{X: 10, Y: 20},
		Vel:     r2.Vec{X: -30, Y: 40},
		Prediction: physics.Prediction{
			Time:  1.5,
			Found: true,
		},
		Adjustment: physics.Adjustment{Index: event, Target: target, Factor: factor},
		Retimed:    true,
	}
}

func TestRecorderSession(t *testing.T) {
	r := NewRecorder(nil)
	if r.Session() == uuid.Nil {
		t.Fatal("Expected a session ID")
	}
	if r.Session().Version() != 7 {
		t.Errorf("Expected a version 7 UUID, got %d", r.Session().Version())
	}

	r.OnCollision(wallHit(10, 0.5, 1, 1, 1))
	if got := r.Records()[0].Session; got != r.Session().String() {
		t.Errorf("Expected session %s on record, got %s", r.Session(), got)
	}
}

func TestRecorderTimingError(t *testing.T) {
	r := NewRecorder(nil)

	r.OnCollision(wallHit(60, 1.0, 1, 0.5, 1.2))
	r.OnCollision(wallHit(93, 1.55, 2, 0.25, 0.8))
	r.OnCollision(wallHit(108, 1.8, 3, 0.3, 1.0))

	recs := r.Records()
	if recs[0].Measured {
		t.Error("Expected first hit unmeasured")
	}
	if !recs[1].Measured || math.Abs(recs[1].TimingError-0.05) > 1e-9 {
		t.Errorf("Expected error 0.05, got %v", recs[1].TimingError)
	}
	if !recs[2].Measured || math.Abs(recs[2].TimingError) > 1e-9 {
		t.Errorf("Expected error 0, got %v", recs[2].TimingError)
	}

	errs := r.TimingErrors()
	if len(errs) != 2 {
		t.Errorf("Expected 2 timing errors, got %d", len(errs))
	}
}

func TestRecorderChainBreaks(t *testing.T) {
	r := NewRecorder(nil)

	r.OnCollision(wallHit(60, 1.0, 1, 0.5, 1))
	// Corner hit: second face in the same tick
	r.OnCollision(wallHit(60, 1.0, 2, 0.4, 1))
	r.OnCollision(wallHit(90, 1.5, 3, 0.5, 1))
	r.OnCollision(engine.Collision{Tick: 95, SimTime: 1.6, Event: 4, Kind: engine.KindBoundary})
	r.OnCollision(wallHit(120, 2.0, 5, 0.5, 1))

	missing := wallHit(150, 2.5, 6, 0, 1)
	missing.Adjustment.Missing = true
	r.OnCollision(missing)
	r.OnCollision(wallHit(170, 2.8, 7, 0.5, 1))

	recs := r.Records()
	want := []bool{false, false, true, false, false, true, false}
	for i, w := range want {
		if recs[i].Measured != w {
			t.Errorf("Record %d: expected measured=%v", i, w)
		}
	}
	// Measured against the superseding 0.4s request
	if math.Abs(recs[2].TimingError-0.1) > 1e-9 {
		t.Errorf("Expected error 0.1, got %v", recs[2].TimingError)
	}
}

func TestRecorderSummary(t *testing.T) {
	r := NewRecorder(nil)

	a := wallHit(60, 1.0, 1, 0.5, 2)
	a.Adjustment.Clamp = physics.ClampCeiling
	r.OnCollision(a)
	b := wallHit(96, 1.6, 2, 0.5, 4)
	b.Adjustment.Clamp = physics.ClampFloor
	r.OnCollision(b)
	r.OnCollision(wallHit(120, 2.0, 3, 0.5, 3))
	r.OnCollision(engine.Collision{Tick: 121, Event: 4, Kind: engine.KindStuck})

	s := r.Summary()
	if s.Collisions != 4 || s.WallHits != 3 || s.Recoveries != 1 {
		t.Errorf("Unexpected counts %+v", s)
	}
	if s.Ceiling != 1 || s.Floor != 1 {
		t.Errorf("Expected one clamp of each kind, got %d %d", s.Ceiling, s.Floor)
	}
	// Errors 0.1 and -0.1
	if s.Measured != 2 || math.Abs(s.ErrorMean) > 1e-9 || math.Abs(s.ErrorMaxAbs-0.1) > 1e-9 {
		t.Errorf("Unexpected error stats %+v", s)
	}
	if math.Abs(s.ErrorStdDev-math.Sqrt(0.02)) > 1e-9 {
		t.Errorf("Expected std %v, got %v", math.Sqrt(0.02), s.ErrorStdDev)
	}
	if math.Abs(s.FactorMean-3) > 1e-9 || math.Abs(s.FactorStdDev-1) > 1e-9 {
		t.Errorf("Expected factor mean 3 std 1, got %v %v", s.FactorMean, s.FactorStdDev)
	}
}

func TestRecorderEmptySummary(t *testing.T) {
	s := NewRecorder(nil).Summary()
	if s.Collisions != 0 || s.ErrorMean != 0 || s.FactorMean != 0 {
		t.Errorf("Expected zero summary, got %+v", s)
	}
}

func TestRecorderCSV(t *testing.T) {
	r := NewRecorder(nil)
	var stream bytes.Buffer
	r.StreamTo(&stream)

	r.OnCollision(wallHit(60, 1.0, 1, 0.5, 1.25))
	r.OnCollision(wallHit(90, 1.5, 2, 0.5, 1))

	var full bytes.Buffer
	if err := r.WriteCSV(&full); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("Streaming failed: %v", err)
	}

	// Streamed output matches the batch output
	if stream.String() != full.String() {
		t.Errorf("Streamed CSV differs:\n%s\nvs\n%s", stream.String(), full.String())
	}

	lines := strings.Split(strings.TrimSpace(full.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected header and 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "session,tick,sim_time,event,kind,face") {
		t.Errorf("Unexpected header %q", lines[0])
	}

	var back []CollisionRecord
	if err := gocsv.UnmarshalString(full.String(), &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back[0].Factor != 1.25 || back[0].Face != "left" || back[0].WallCol != 3 || back[0].Speed != 50 {
		t.Errorf("Unexpected row %+v", back[0])
	}
}
