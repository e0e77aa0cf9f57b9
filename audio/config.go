package audio

import (
	"os"
	"strconv"
	"time"
)

// AudioConfig controls note playback
type AudioConfig struct {
	Enabled      bool
	SampleRate   int
	MasterVolume float64 // 0.0-1.0
	Wave         WaveType

	NoteLength time.Duration
	Attack     time.Duration
	Release    time.Duration

	// FallbackKey is sounded when an event has no melody note; negative is silent
	FallbackKey int
}

// DefaultAudioConfig returns the stock playback settings
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		SampleRate:   44100,
		MasterVolume: 0.5,
		Wave:         WaveTriangle,
		NoteLength:   180 * time.Millisecond,
		Attack:       5 * time.Millisecond,
		Release:      120 * time.Millisecond,
		FallbackKey:  72,
	}
}

// LoadAudioConfig applies MAZE_BOUNCE_AUDIO_* environment overrides to base.
// A nil base starts from the defaults. Unparseable values are ignored
func LoadAudioConfig(base *AudioConfig) *AudioConfig {
	cfg := DefaultAudioConfig()
	if base != nil {
		c := *base
		cfg = &c
	}

	if enabled := os.Getenv("MAZE_BOUNCE_AUDIO_ENABLED"); enabled != "" {
		if val, err := strconv.ParseBool(enabled); err == nil {
			cfg.Enabled = val
		}
	}

	// Volume is 0-100 converted to 0.0-1.0
	if volume := os.Getenv("MAZE_BOUNCE_AUDIO_VOLUME"); volume != "" {
		if val, err := strconv.Atoi(volume); err == nil {
			cfg.MasterVolume = min(max(float64(val)/100.0, 0), 1)
		}
	}

	if sampleRate := os.Getenv("MAZE_BOUNCE_AUDIO_SAMPLE_RATE"); sampleRate != "" {
		if val, err := strconv.Atoi(sampleRate); err == nil && val > 0 {
			cfg.SampleRate = val
		}
	}

	if wave := os.Getenv("MAZE_BOUNCE_AUDIO_WAVE"); wave != "" {
		if w, err := ParseWave(wave); err == nil {
			cfg.Wave = w
		}
	}

	if ms := os.Getenv("MAZE_BOUNCE_AUDIO_NOTE_MS"); ms != "" {
		if val, err := strconv.Atoi(ms); err == nil && val > 0 {
			cfg.NoteLength = time.Duration(val) * time.Millisecond
		}
	}

	return cfg
}
