// Package config loads the maze-bounce configuration: embedded defaults,
// an optional user YAML file on top, then MAZE_BOUNCE_* environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/maze-bounce/audio"
	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/physics"
	"github.com/lixenwraith/maze-bounce/timeline"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrInvalid = errors.New("invalid configuration")

// Config holds all tunable parameters
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Maze       MazeConfig       `yaml:"maze"`
	Timeline   TimelineConfig   `yaml:"timeline"`
	Audio      AudioConfig      `yaml:"audio"`
	Render     RenderConfig     `yaml:"render"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Log        LogConfig        `yaml:"log"`
	Startup    StartupConfig    `yaml:"startup"`
}

// Vec is a YAML friendly vector
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// R2 converts to a gonum vector
func (v Vec) R2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

// StartConfig is the starting cell
type StartConfig struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// SimulationConfig holds the physics and retiming parameters
type SimulationConfig struct {
	TickRate    float64      `yaml:"tick_rate"`
	Velocity    Vec          `yaml:"velocity"`
	Accel       Vec          `yaml:"accel"`
	Start       *StartConfig `yaml:"start"`
	Retime      bool         `yaml:"retime"`
	MinSpeed    float64      `yaml:"min_speed"`
	MinTarget   float64      `yaml:"min_target"`
	SnapEpsilon float64      `yaml:"snap_epsilon"`
}

// MazeConfig selects the layout and the world it is stretched over
type MazeConfig struct {
	Layout      string         `yaml:"layout"`
	WorldWidth  float64        `yaml:"world_width"`
	WorldHeight float64        `yaml:"world_height"`
	Generate    GenerateConfig `yaml:"generate"`
}

// GenerateConfig is used when no layout file is named
type GenerateConfig struct {
	Cols     int     `yaml:"cols"`
	Rows     int     `yaml:"rows"`
	Braiding float64 `yaml:"braiding"`
	Seed     int64   `yaml:"seed"`
}

// TimelineConfig selects the melody
type TimelineConfig struct {
	MIDI           string    `yaml:"midi"`
	Track          int       `yaml:"track"`
	Channel        int       `yaml:"channel"`
	SecondsPerTick float64   `yaml:"seconds_per_tick"`
	Policy         string    `yaml:"policy"`
	Seconds        []float64 `yaml:"seconds"`
}

// AudioConfig mirrors audio.AudioConfig in YAML form
type AudioConfig struct {
	Enabled     bool          `yaml:"enabled"`
	SampleRate  int           `yaml:"sample_rate"`
	Volume      float64       `yaml:"volume"`
	Wave        string        `yaml:"wave"`
	NoteLength  time.Duration `yaml:"note_length"`
	Attack      time.Duration `yaml:"attack"`
	Release     time.Duration `yaml:"release"`
	FallbackKey int           `yaml:"fallback_key"`
}

type RenderConfig struct {
	CellCols int   `yaml:"cell_cols"`
	Seed     int64 `yaml:"seed"`
}

type TelemetryConfig struct {
	CSV string `yaml:"csv"`
}

// LogConfig selects the slog handler
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
	File   string `yaml:"file"`   // empty: stderr
}

type StartupConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the embedded defaults
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults,
// then applies environment overrides and validates the result.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies MAZE_BOUNCE_* overrides. Unparseable values are ignored
func (c *Config) applyEnv() {
	if v := os.Getenv("MAZE_BOUNCE_TICK_RATE"); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			c.Simulation.TickRate = val
		}
	}
	if v := os.Getenv("MAZE_BOUNCE_RETIME"); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			c.Simulation.Retime = val
		}
	}
	if v := os.Getenv("MAZE_BOUNCE_LAYOUT"); v != "" {
		c.Maze.Layout = v
	}
	if v := os.Getenv("MAZE_BOUNCE_MIDI"); v != "" {
		c.Timeline.MIDI = v
	}
	if v := os.Getenv("MAZE_BOUNCE_POLICY"); v != "" {
		c.Timeline.Policy = v
	}
	if v := os.Getenv("MAZE_BOUNCE_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate rejects values the simulation cannot run with
func (c *Config) Validate() error {
	s := c.Simulation
	switch {
	case s.TickRate <= 0:
		return fmt.Errorf("%w: simulation.tick_rate must be positive, got %v", ErrInvalid, s.TickRate)
	case s.MinSpeed < 0 || s.MinTarget < 0 || s.SnapEpsilon < 0:
		return fmt.Errorf("%w: simulation guards must not be negative", ErrInvalid)
	case c.Maze.WorldWidth <= 0 || c.Maze.WorldHeight <= 0:
		return fmt.Errorf("%w: maze world size %vx%v", ErrInvalid, c.Maze.WorldWidth, c.Maze.WorldHeight)
	case c.Maze.Layout == "" && (c.Maze.Generate.Cols < 3 || c.Maze.Generate.Rows < 3):
		return fmt.Errorf("%w: maze.generate needs at least 3x3", ErrInvalid)
	case c.Render.CellCols < 1:
		return fmt.Errorf("%w: render.cell_cols must be at least 1", ErrInvalid)
	case c.Startup.Timeout <= 0:
		return fmt.Errorf("%w: startup.timeout must be positive", ErrInvalid)
	}

	if _, err := timeline.ParsePolicy(c.Timeline.Policy); err != nil {
		return fmt.Errorf("%w: timeline.policy: %v", ErrInvalid, err)
	}
	if _, err := audio.ParseWave(c.Audio.Wave); err != nil {
		return fmt.Errorf("%w: audio.wave: %v", ErrInvalid, err)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		return fmt.Errorf("%w: log.format %q", ErrInvalid, c.Log.Format)
	}

	// The stall floor must fit under the tunneling ceiling of the generated
	// or loaded grid; the cell size is checked again once the grid exists
	if c.Maze.Layout == "" {
		cellW := c.Maze.WorldWidth / float64(c.Maze.Generate.Cols)
		cellH := c.Maze.WorldHeight / float64(c.Maze.Generate.Rows)
		ceiling := physics.NewRetimer(min(cellW, cellH), s.TickRate, s.MinSpeed, s.MinTarget).MaxSpeed
		if s.MinSpeed > ceiling {
			return fmt.Errorf("%w: min_speed %v above speed ceiling %v", ErrInvalid, s.MinSpeed, ceiling)
		}
	}
	return nil
}

// SimulationParams converts the simulation section
func (c *Config) SimulationParams() engine.Params {
	s := c.Simulation
	p := engine.Params{
		TickRate:    s.TickRate,
		Velocity:    s.Velocity.R2(),
		Accel:       s.Accel.R2(),
		Retime:      s.Retime,
		MinSpeed:    s.MinSpeed,
		MinTarget:   s.MinTarget,
		SnapEpsilon: s.SnapEpsilon,
	}
	if s.Start != nil {
		p.Start = &engine.Start{Row: s.Start.Row, Col: s.Start.Col}
	}
	return p
}

// MIDIOptions converts the timeline section for timeline.LoadMIDIFile
func (c *Config) MIDIOptions() timeline.MIDIOptions {
	policy, _ := timeline.ParsePolicy(c.Timeline.Policy)
	return timeline.MIDIOptions{
		Track:          c.Timeline.Track,
		Channel:        c.Timeline.Channel,
		SecondsPerTick: c.Timeline.SecondsPerTick,
		Policy:         policy,
	}
}

// AudioSettings converts the audio section, then applies the
// MAZE_BOUNCE_AUDIO_* overrides
func (c *Config) AudioSettings() *audio.AudioConfig {
	a := c.Audio
	wave, err := audio.ParseWave(a.Wave)
	if err != nil {
		wave = audio.WaveTriangle
	}
	return audio.LoadAudioConfig(&audio.AudioConfig{
		Enabled:      a.Enabled,
		SampleRate:   a.SampleRate,
		MasterVolume: min(max(a.Volume, 0), 1),
		Wave:         wave,
		NoteLength:   a.NoteLength,
		Attack:       a.Attack,
		Release:      a.Release,
		FallbackKey:  a.FallbackKey,
	})
}

// ParseLevel maps a level name to slog.Level
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log.level %q", ErrInvalid, s)
	}
	return level, nil
}

// WriteYAML saves the effective configuration
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
