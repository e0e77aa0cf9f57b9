package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"

	"github.com/lixenwraith/maze-bounce/engine"
)

// Recorder collects collisions for CSV output and summary statistics.
// Safe for concurrent use; the simulation calls it from its own goroutine
type Recorder struct {
	mu      sync.Mutex
	session uuid.UUID
	records []CollisionRecord

	// Timing chain: the last wall hit and the interval it asked for
	hasLast     bool
	lastTick    uint64
	lastTime    float64
	pendingGoal float64
	hasGoal     bool

	// Optional incremental CSV sink
	out           io.Writer
	headerWritten bool
	outErr        error

	log *slog.Logger
}

// NewRecorder creates a recorder with a fresh time-ordered session ID
func NewRecorder(log *slog.Logger) *Recorder {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{session: id, log: log}
}

// Session returns the session ID stamped on every record
func (r *Recorder) Session() uuid.UUID { return r.session }

// StreamTo writes each record to w as it arrives, header first
func (r *Recorder) StreamTo(w io.Writer) {
	r.mu.Lock()
	r.out = w
	r.headerWritten = false
	r.mu.Unlock()
}

// OnCollision implements engine.Observer
func (r *Recorder) OnCollision(c engine.Collision) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := newRecord(r.session.String(), c)

	switch {
	case c.Kind != engine.KindWall:
		// Recoveries consume an event without sounding it; the chain restarts
		r.hasLast = false
		r.hasGoal = false
	case r.hasLast && r.lastTick == rec.Tick:
		// Second face of a corner hit supersedes the first request
	case r.hasLast && r.hasGoal:
		rec.TimingError = (rec.SimTime - r.lastTime) - r.pendingGoal
		rec.Measured = true
	}

	if c.Kind == engine.KindWall {
		r.hasLast = true
		r.lastTick, r.lastTime = rec.Tick, rec.SimTime
		r.hasGoal = c.Retimed && !c.Adjustment.Missing
		r.pendingGoal = c.Adjustment.Target
	}

	r.records = append(r.records, rec)

	r.log.Debug("collision", "record", rec)
	r.stream(rec)
}

// stream appends rec to the incremental sink; the first error disables it
func (r *Recorder) stream(rec CollisionRecord) {
	if r.out == nil || r.outErr != nil {
		return
	}
	records := []CollisionRecord{rec}

	var err error
	if !r.headerWritten {
		err = gocsv.Marshal(records, r.out)
		r.headerWritten = true
	} else {
		err = gocsv.MarshalWithoutHeaders(records, r.out)
	}
	if err != nil {
		r.outErr = fmt.Errorf("writing collision record: %w", err)
		r.log.Error("telemetry stream disabled", "error", err)
	}
}

// Err returns the first streaming error
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outErr
}

// Records returns a copy of everything recorded
func (r *Recorder) Records() []CollisionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CollisionRecord(nil), r.records...)
}

// WriteCSV writes all records with a header
func (r *Recorder) WriteCSV(w io.Writer) error {
	records := r.Records()
	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing collisions: %w", err)
	}
	return nil
}
