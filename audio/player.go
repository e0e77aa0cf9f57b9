package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// NotePlayer sounds the melody note of each collision event
type NotePlayer struct {
	mu          sync.Mutex
	cfg         *AudioConfig
	notes       NoteSource
	mixer       *beep.Mixer
	initialized bool
	muted       atomic.Bool
	played      atomic.Int64

	// play hands a finished streamer to the output; replaced in tests
	play func(beep.Streamer)
	log  *slog.Logger
}

// NewNotePlayer creates a player for the given melody; notes may be nil
func NewNotePlayer(cfg *AudioConfig, notes NoteSource, log *slog.Logger) *NotePlayer {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	p := &NotePlayer{
		cfg:   cfg,
		notes: notes,
		mixer: &beep.Mixer{},
		log:   log,
	}
	p.play = p.playSpeaker
	return p
}

// SetNotes replaces the melody, for players created before the timeline loaded
func (p *NotePlayer) SetNotes(notes NoteSource) {
	p.mu.Lock()
	p.notes = notes
	p.mu.Unlock()
}

// Initialize opens the speaker once. A disabled config succeeds without
// opening any device
func (p *NotePlayer) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized || !p.cfg.Enabled {
		return nil
	}

	rate := beep.SampleRate(p.cfg.SampleRate)
	if err := speaker.Init(rate, rate.N(50*time.Millisecond)); err != nil {
		return fmt.Errorf("%w: %v", ErrNoAudioDevice, err)
	}

	speaker.Play(p.mixer)
	p.initialized = true
	p.log.Debug("audio initialized", "sample_rate", p.cfg.SampleRate, "wave", p.cfg.Wave)
	return nil
}

// TriggerEvent plays the note of event index-1; events are numbered from 1
func (p *NotePlayer) TriggerEvent(index int) {
	if p.muted.Load() {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}

	key, velocity, ok := p.noteFor(index - 1)
	if !ok {
		return
	}
	s := CreateNoteSound(p.cfg, key, velocity)
	if s == nil {
		return
	}
	p.play(s)
	p.played.Add(1)
}

// noteFor resolves the key for a 0-based melody position
func (p *NotePlayer) noteFor(i int) (key int, velocity uint8, ok bool) {
	if p.notes != nil {
		if ev, found := p.notes.Event(i); found {
			return int(ev.Key), ev.Velocity, true
		}
	}
	if p.cfg.FallbackKey < 0 {
		return 0, 0, false
	}
	return p.cfg.FallbackKey, 0, true
}

func (p *NotePlayer) playSpeaker(s beep.Streamer) {
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// SetMuted silences or restores playback
func (p *NotePlayer) SetMuted(muted bool) {
	p.muted.Store(muted)
}

// ToggleMute flips the mute state and returns the new state
func (p *NotePlayer) ToggleMute() bool {
	for {
		cur := p.muted.Load()
		if p.muted.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}

// Muted reports the mute state
func (p *NotePlayer) Muted() bool { return p.muted.Load() }

// Played returns the number of notes handed to the output
func (p *NotePlayer) Played() int64 { return p.played.Load() }

// Cleanup silences all notes
func (p *NotePlayer) Cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	// beep keeps the device open for the process lifetime
	p.initialized = false
}
