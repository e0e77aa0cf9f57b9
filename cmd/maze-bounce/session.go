package main

import (
	"sync/atomic"

	"github.com/lixenwraith/maze-bounce/audio"
	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/render"
	"github.com/lixenwraith/maze-bounce/timeline"
	"github.com/lixenwraith/maze-bounce/vmath"
)

// liveSession steps the simulation on the scheduler goroutine and publishes
// a status snapshot for the UI goroutine after every tick
type liveSession struct {
	sim      *engine.Simulation
	timeline *timeline.Timeline
	status   atomic.Pointer[render.Status]
}

func newLiveSession(sim *engine.Simulation, tl *timeline.Timeline) *liveSession {
	l := &liveSession{sim: sim, timeline: tl}
	l.publish()
	return l
}

// Step implements engine.Stepper
func (l *liveSession) Step() {
	l.sim.Step()
	l.publish()
}

func (l *liveSession) publish() {
	body := l.sim.Body()
	counter := l.sim.Counter()

	st := &render.Status{
		Tick:    l.sim.Tick(),
		Event:   counter,
		Speed:   vmath.Speed(body.Vel),
		Ceiling: l.sim.Retimer().MaxSpeed,
	}
	if counter > 0 {
		if ev, ok := l.timeline.Event(counter - 1); ok {
			st.Note = audio.NoteName(int(ev.Key))
		}
	}
	st.NextIn, st.HasNext = l.timeline.Until(counter, l.sim.Elapsed())
	l.status.Store(st)
}

// Status returns the latest snapshot
func (l *liveSession) Status() render.Status {
	return *l.status.Load()
}
