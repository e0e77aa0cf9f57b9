package timeline

import (
	"bytes"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// writeSMF encodes tracks at 480 ticks per quarter note
func writeSMF(t *testing.T, tracks ...smf.Track) *bytes.Buffer {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			t.Fatalf("Adding track failed: %v", err)
		}
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("Writing SMF failed: %v", err)
	}
	return &buf
}

func melodyTrack() smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 62, 90))
	tr.Add(240, midi.NoteOff(0, 62))
	// Velocity zero is a note off
	tr.Add(0, midi.NoteOn(0, 63, 0))
	tr.Add(0, midi.NoteOn(1, 64, 80))
	tr.Add(480, midi.NoteOff(1, 64))
	tr.Close(0)
	return tr
}

func TestLoadMIDINoteOnTimes(t *testing.T) {
	buf := writeSMF(t, melodyTrack())

	tl, err := LoadMIDI(buf, MIDIOptions{Track: -1, Channel: -1})
	if err != nil {
		t.Fatalf("LoadMIDI failed: %v", err)
	}

	// 120 BPM at 480 PPQ: one quarter = 0.5s
	want := []struct {
		sec float64
		key uint8
	}{{0, 60}, {0.5, 62}, {0.75, 64}}

	if tl.Len() != len(want) {
		t.Fatalf("Expected %d events, got %d", len(want), tl.Len())
	}
	for i, w := range want {
		ev, _ := tl.Event(i)
		if !approx(ev.Seconds, w.sec) || ev.Key != w.key {
			t.Errorf("Event %d: expected %v@%v, got %v@%v", i, w.key, w.sec, ev.Key, ev.Seconds)
		}
	}
}

func TestLoadMIDITempoChange(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(120))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, smf.MetaTempo(60))
	tr.Add(0, midi.NoteOn(0, 62, 100))
	tr.Add(480, midi.NoteOn(0, 64, 100))
	tr.Close(0)

	tl, err := LoadMIDI(writeSMF(t, tr), MIDIOptions{Track: -1, Channel: -1})
	if err != nil {
		t.Fatalf("LoadMIDI failed: %v", err)
	}

	// Second quarter at 60 BPM lasts one second
	for i, want := range []float64{0, 0.5, 1.5} {
		got, _ := tl.Timestamp(i)
		if !approx(got, want) {
			t.Errorf("Timestamp(%d): expected %v, got %v", i, want, got)
		}
	}
}

func TestLoadMIDIFilters(t *testing.T) {
	var other smf.Track
	other.Add(0, midi.NoteOn(2, 40, 100))
	other.Close(0)

	tl, err := LoadMIDI(writeSMF(t, melodyTrack(), other), MIDIOptions{Track: 0, Channel: 1})
	if err != nil {
		t.Fatalf("LoadMIDI failed: %v", err)
	}
	if tl.Len() != 1 {
		t.Fatalf("Expected 1 event on track 0 channel 1, got %d", tl.Len())
	}
	if ev, _ := tl.Event(0); ev.Key != 64 || ev.Channel != 1 {
		t.Errorf("Unexpected event %+v", ev)
	}

	_, err = LoadMIDI(writeSMF(t, melodyTrack()), MIDIOptions{Track: 3, Channel: -1})
	if !errors.Is(err, ErrNoTrack) {
		t.Errorf("Expected ErrNoTrack, got %v", err)
	}
}

func TestLoadMIDIFixedTickLength(t *testing.T) {
	tl, err := LoadMIDI(writeSMF(t, melodyTrack()), MIDIOptions{Track: -1, Channel: -1, SecondsPerTick: 0.001736})
	if err != nil {
		t.Fatalf("LoadMIDI failed: %v", err)
	}
	got, _ := tl.Timestamp(1)
	if !approx(got, 480*0.001736) {
		t.Errorf("Expected %v, got %v", 480*0.001736, got)
	}
}

func TestLoadMIDINoNotes(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTempo(100))
	tr.Close(0)

	_, err := LoadMIDI(writeSMF(t, tr), MIDIOptions{Track: -1, Channel: -1})
	if !errors.Is(err, ErrNoEvents) {
		t.Errorf("Expected ErrNoEvents, got %v", err)
	}
}

func TestTempoMapOffsets(t *testing.T) {
	m := newTempoMap([]tempoChange{{tick: 100, secPerTick: 0.02}, {tick: 0, secPerTick: 0.01}})
	if got := m.seconds(50); !approx(got, 0.5) {
		t.Errorf("Expected 0.5, got %v", got)
	}
	if got := m.seconds(150); !approx(got, 2.0) {
		t.Errorf("Expected 2.0, got %v", got)
	}
}
