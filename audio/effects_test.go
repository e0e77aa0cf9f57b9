package audio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// drain streams s to completion and returns every sample
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestOscillatorWaves(t *testing.T) {
	rate := beep.SampleRate(44100)

	for _, wave := range []WaveType{WaveSine, WaveSquare, WaveSaw, WaveTriangle} {
		t.Run(wave.String(), func(t *testing.T) {
			samples := drain(NewOscillator(440, 100*time.Millisecond, wave, rate))

			if len(samples) != rate.N(100*time.Millisecond) {
				t.Errorf("Expected %d samples, got %d", rate.N(100*time.Millisecond), len(samples))
			}
			for i, s := range samples {
				if s[0] < -1 || s[0] > 1 || s[0] != s[1] {
					t.Fatalf("Sample %d invalid: %v", i, s)
				}
			}
		})
	}
}

func TestEnvelopeShape(t *testing.T) {
	rate := beep.SampleRate(1000)
	dur := 100 * time.Millisecond

	// Constant input exposes the gain curve
	src := NewOscillator(0, dur, WaveSquare, rate)
	samples := drain(NewEnvelope(src, dur, 10*time.Millisecond, 20*time.Millisecond, rate))

	if len(samples) != 100 {
		t.Fatalf("Expected 100 samples, got %d", len(samples))
	}
	if samples[0][0] != 0 {
		t.Errorf("Expected silent first sample, got %v", samples[0][0])
	}
	if samples[5][0] != 0.5 {
		t.Errorf("Expected half gain mid attack, got %v", samples[5][0])
	}
	if samples[50][0] != 1 {
		t.Errorf("Expected full gain in sustain, got %v", samples[50][0])
	}
	if samples[90][0] != 0.5 {
		t.Errorf("Expected half gain mid release, got %v", samples[90][0])
	}
}

func TestParseWave(t *testing.T) {
	tests := map[string]WaveType{"sine": WaveSine, "Square": WaveSquare, " saw ": WaveSaw, "triangle": WaveTriangle}
	for in, want := range tests {
		got, err := ParseWave(in)
		if err != nil || got != want {
			t.Errorf("ParseWave(%q): expected %v, got %v (%v)", in, want, got, err)
		}
	}
	if _, err := ParseWave("noise"); !errors.Is(err, ErrUnknownWave) {
		t.Errorf("Expected ErrUnknownWave, got %v", err)
	}
}

func TestCreateNoteSound(t *testing.T) {
	cfg := DefaultAudioConfig()

	samples := drain(CreateNoteSound(cfg, 69, 127))
	if len(samples) != beep.SampleRate(cfg.SampleRate).N(cfg.NoteLength) {
		t.Errorf("Expected note length %v, got %d samples", cfg.NoteLength, len(samples))
	}

	peak := 0.0
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(s[0]))
	}
	if peak == 0 || peak > cfg.MasterVolume+1e-9 {
		t.Errorf("Expected peak in (0,%v], got %v", cfg.MasterVolume, peak)
	}

	if CreateNoteSound(cfg, 200, 100) != nil {
		t.Error("Expected nil for a key outside the MIDI range")
	}
}

func TestNoteFreq(t *testing.T) {
	tests := []struct {
		key  int
		want float64
	}{
		{69, 440},
		{81, 880},
		{57, 220},
		{60, 261.6255653005986},
		{-1, 0},
		{128, 0},
	}
	for _, tt := range tests {
		if got := NoteFreq(tt.key); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NoteFreq(%d): expected %v, got %v", tt.key, tt.want, got)
		}
	}
}

func TestNoteName(t *testing.T) {
	tests := map[int]string{60: "C4", 69: "A4", 61: "C#4", 0: "C-1", 127: "G9", 128: "?"}
	for key, want := range tests {
		if got := NoteName(key); got != want {
			t.Errorf("NoteName(%d): expected %s, got %s", key, want, got)
		}
	}
}
