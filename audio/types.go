package audio

import (
	"errors"

	"github.com/lixenwraith/maze-bounce/timeline"
)

// NoteSource resolves an event index to the melody note it sounds
type NoteSource interface {
	Event(i int) (timeline.Event, bool)
}

// Sentinel errors
var (
	ErrNoAudioDevice = errors.New("audio device unavailable")
	ErrUnknownWave   = errors.New("unknown wave type")
)
