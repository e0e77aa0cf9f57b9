// Package timeline holds the ordered target timestamps the bouncing body is
// retimed against. A Timeline is frozen once built.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
)

// OverrunPolicy decides what indices past the last event resolve to
type OverrunPolicy uint8

const (
	// OverrunStop reports no timing data past the end
	OverrunStop OverrunPolicy = iota
	// OverrunHold repeats the final interval indefinitely
	OverrunHold
	// OverrunLoop replays the melody, offset by its span each pass
	OverrunLoop
)

func (p OverrunPolicy) String() string {
	switch p {
	case OverrunStop:
		return "stop"
	case OverrunHold:
		return "hold"
	case OverrunLoop:
		return "loop"
	default:
		return fmt.Sprintf("OverrunPolicy(%d)", uint8(p))
	}
}

// ParsePolicy maps a config string to a policy
func ParsePolicy(s string) (OverrunPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stop":
		return OverrunStop, nil
	case "hold":
		return OverrunHold, nil
	case "loop":
		return OverrunLoop, nil
	default:
		return OverrunStop, fmt.Errorf("%w: %q", ErrPolicy, s)
	}
}

var (
	ErrBadTimestamp = errors.New("event timestamp must be finite and non-negative")
	ErrPolicy       = errors.New("unknown overrun policy")
	ErrNoEvents     = errors.New("no note events found")
	ErrNoTrack      = errors.New("track index out of range")
	ErrTimeFormat   = errors.New("unsupported MIDI time format")
)

// Event is one target timestamp, with the note that sounds at it
type Event struct {
	Seconds  float64
	Key      uint8
	Velocity uint8
	Channel  uint8
}

// Timeline is an immutable, time-ordered sequence of events
type Timeline struct {
	events  []Event
	policy  OverrunPolicy
	lastGap float64
	span    float64
}

// New copies, validates and sorts events
func New(events []Event, policy OverrunPolicy) (*Timeline, error) {
	if policy > OverrunLoop {
		return nil, fmt.Errorf("%w: %d", ErrPolicy, policy)
	}

	evs := make([]Event, len(events))
	copy(evs, events)
	for i, ev := range evs {
		if math.IsNaN(ev.Seconds) || math.IsInf(ev.Seconds, 0) || ev.Seconds < 0 {
			return nil, fmt.Errorf("%w: event %d at %v", ErrBadTimestamp, i, ev.Seconds)
		}
	}
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].Seconds < evs[j].Seconds })

	tl := &Timeline{events: evs, policy: policy}
	switch n := len(evs); {
	case n >= 2:
		tl.lastGap = evs[n-1].Seconds - evs[n-2].Seconds
	case n == 1:
		tl.lastGap = evs[0].Seconds
	}
	if n := len(evs); n > 0 {
		tl.span = evs[n-1].Seconds - evs[0].Seconds + tl.lastGap
	}
	return tl, nil
}

// FromSeconds builds a timeline of bare timestamps
func FromSeconds(seconds []float64, policy OverrunPolicy) (*Timeline, error) {
	events := make([]Event, len(seconds))
	for i, s := range seconds {
		events[i] = Event{Seconds: s}
	}
	return New(events, policy)
}

// Len returns the number of loaded events
func (tl *Timeline) Len() int {
	if tl == nil {
		return 0
	}
	return len(tl.events)
}

// Policy returns the overrun policy
func (tl *Timeline) Policy() OverrunPolicy {
	if tl == nil {
		return OverrunStop
	}
	return tl.policy
}

// Duration returns the time of the last loaded event
func (tl *Timeline) Duration() float64 {
	if tl.Len() == 0 {
		return 0
	}
	return tl.events[len(tl.events)-1].Seconds
}

// Timestamp returns the target time of event i in seconds. The second result
// is false when i has no timing data under the overrun policy
func (tl *Timeline) Timestamp(i int) (float64, bool) {
	n := tl.Len()
	if i < 0 || n == 0 {
		return 0, false
	}
	if i < n {
		return tl.events[i].Seconds, true
	}

	switch tl.policy {
	case OverrunHold:
		return tl.events[n-1].Seconds + float64(i-(n-1))*tl.lastGap, true
	case OverrunLoop:
		pass := i / n
		return tl.events[i%n].Seconds + float64(pass)*tl.span, true
	default:
		return 0, false
	}
}

// Event returns the note of event i under the overrun policy
func (tl *Timeline) Event(i int) (Event, bool) {
	n := tl.Len()
	if i < 0 || n == 0 {
		return Event{}, false
	}
	if i < n {
		return tl.events[i], true
	}

	var ev Event
	switch tl.policy {
	case OverrunHold:
		ev = tl.events[n-1]
	case OverrunLoop:
		ev = tl.events[i%n]
	default:
		return Event{}, false
	}
	ev.Seconds, _ = tl.Timestamp(i)
	return ev, true
}

// Until returns the time from now until event i
func (tl *Timeline) Until(i int, now float64) (float64, bool) {
	ts, ok := tl.Timestamp(i)
	if !ok {
		return 0, false
	}
	return ts - now, true
}

// Since returns the time elapsed since event i-1. Before the first event the
// reference is time zero
func (tl *Timeline) Since(i int, now float64) (float64, bool) {
	if i <= 0 {
		return now, true
	}
	ts, ok := tl.Timestamp(i - 1)
	if !ok {
		return 0, false
	}
	return now - ts, true
}

// Events returns a copy of the loaded events
func (tl *Timeline) Events() []Event {
	n := tl.Len()
	if n == 0 {
		return nil
	}
	out := make([]Event, n)
	copy(out, tl.events)
	return out
}
