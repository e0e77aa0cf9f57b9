package timeline

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

const defaultBPM = 120.0

// MIDIOptions selects which notes of a Standard MIDI File become events
type MIDIOptions struct {
	// Track index to read; negative merges all tracks
	Track int
	// Channel to keep; negative keeps all channels
	Channel int
	// SecondsPerTick > 0 replaces the tempo map with a fixed tick length
	SecondsPerTick float64
	Policy         OverrunPolicy
}

// tempoChange marks the tick from which secPerTick applies
type tempoChange struct {
	tick       int64
	secPerTick float64
}

// tempoMap converts absolute ticks to seconds
type tempoMap struct {
	changes []tempoChange
	// seconds elapsed at each change
	offsets []float64
}

func newTempoMap(changes []tempoChange) tempoMap {
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })

	m := tempoMap{
		changes: changes,
		offsets: make([]float64, len(changes)),
	}
	for i := 1; i < len(changes); i++ {
		prev := changes[i-1]
		m.offsets[i] = m.offsets[i-1] + float64(changes[i].tick-prev.tick)*prev.secPerTick
	}
	return m
}

func (m tempoMap) seconds(tick int64) float64 {
	i := sort.Search(len(m.changes), func(i int) bool { return m.changes[i].tick > tick }) - 1
	if i < 0 {
		i = 0
	}
	c := m.changes[i]
	return m.offsets[i] + float64(tick-c.tick)*c.secPerTick
}

// LoadMIDIFile reads a timeline from a .mid file
func LoadMIDIFile(path string, opts MIDIOptions) (*Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening midi: %w", err)
	}
	defer f.Close()

	tl, err := LoadMIDI(f, opts)
	if err != nil {
		return nil, fmt.Errorf("midi %s: %w", path, err)
	}
	return tl, nil
}

// LoadMIDI collects note-on events (velocity > 0) and converts their tick
// positions to seconds using the file's tempo changes
func LoadMIDI(r io.Reader, opts MIDIOptions) (*Timeline, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("parsing midi: %w", err)
	}

	if opts.Track >= len(s.Tracks) {
		return nil, fmt.Errorf("%w: %d of %d", ErrNoTrack, opts.Track, len(s.Tracks))
	}

	toSeconds, err := tickClock(s, opts.SecondsPerTick)
	if err != nil {
		return nil, err
	}

	var events []Event
	for ti, track := range s.Tracks {
		if opts.Track >= 0 && ti != opts.Track {
			continue
		}

		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)

			var ch, key, vel uint8
			if !ev.Message.GetNoteStart(&ch, &key, &vel) {
				continue
			}
			if opts.Channel >= 0 && int(ch) != opts.Channel {
				continue
			}
			events = append(events, Event{
				Seconds:  toSeconds(abs),
				Key:      key,
				Velocity: vel,
				Channel:  ch,
			})
		}
	}

	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	return New(events, opts.Policy)
}

// tickClock returns the tick to seconds conversion for s
func tickClock(s *smf.SMF, fixed float64) (func(int64) float64, error) {
	if fixed > 0 {
		return func(tick int64) float64 { return float64(tick) * fixed }, nil
	}

	ticks, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, fmt.Errorf("%w: %v", ErrTimeFormat, s.TimeFormat)
	}
	ppq := float64(ticks)

	changes := []tempoChange{{tick: 0, secPerTick: 60 / (defaultBPM * ppq)}}
	for _, track := range s.Tracks {
		var abs int64
		for _, ev := range track {
			abs += int64(ev.Delta)
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				changes = append(changes, tempoChange{tick: abs, secPerTick: 60 / (bpm * ppq)})
			}
		}
	}

	m := newTempoMap(changes)
	return m.seconds, nil
}
