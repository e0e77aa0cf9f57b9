package engine

import (
	"sync/atomic"
	"time"
)

// TimeProvider supplies wall clock readings to the pausable clock
type TimeProvider interface {
	Now() time.Time
}

// MonotonicTimeProvider provides the real system time with monotonic clock readings
type MonotonicTimeProvider struct{}

// NewMonotonicTimeProvider creates a new monotonic time provider
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{}
}

// Now returns the current time with monotonic clock reading
func (p *MonotonicTimeProvider) Now() time.Time {
	return time.Now()
}

// ManualTimeProvider only moves when advanced. Tests drive the pausable
// clock and the scheduler with it
type ManualTimeProvider struct {
	start  time.Time
	offset atomic.Int64 // nanoseconds since start
}

func NewManualTimeProvider(start time.Time) *ManualTimeProvider {
	return &ManualTimeProvider{start: start}
}

func (m *ManualTimeProvider) Now() time.Time {
	return m.start.Add(time.Duration(m.offset.Load()))
}

// Advance moves the reading forward by d
func (m *ManualTimeProvider) Advance(d time.Duration) {
	m.offset.Add(int64(d))
}
