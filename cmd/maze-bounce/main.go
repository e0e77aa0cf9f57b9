// Command maze-bounce bounces a ball through a grid maze, sounding a melody
// note on every wall hit and retiming the ball so hits land on the melody.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/lixenwraith/maze-bounce/audio"
	"github.com/lixenwraith/maze-bounce/config"
	"github.com/lixenwraith/maze-bounce/core"
	"github.com/lixenwraith/maze-bounce/telemetry"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "maze-bounce: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	layout := flag.String("layout", "", "Maze layout file (overrides config)")
	midi := flag.String("midi", "", "MIDI melody file (overrides config)")
	row := flag.Int("row", -1, "Start row (with -col)")
	col := flag.Int("col", -1, "Start column (with -row)")
	headless := flag.Bool("headless", false, "Run without a terminal UI and print a summary")
	ticks := flag.Int("ticks", 3600, "Ticks to simulate in headless mode")
	csvPath := flag.String("csv", "", "Write collision records as CSV (overrides config)")
	mute := flag.Bool("mute", false, "Start muted")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *layout != "" {
		cfg.Maze.Layout = *layout
	}
	if *midi != "" {
		cfg.Timeline.MIDI = *midi
	}
	if *row >= 0 && *col >= 0 {
		cfg.Simulation.Start = &config.StartConfig{Row: *row, Col: *col}
	}
	if *csvPath != "" {
		cfg.Telemetry.CSV = *csvPath
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, logCloser, err := setupLogging(cfg.Log, !*headless)
	if err != nil {
		return err
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.SetDefault(log)

	audioCfg := cfg.AudioSettings()
	if *headless {
		// Headless runs are faster than real time; notes would pile up
		audioCfg.Enabled = false
	}
	player := audio.NewNotePlayer(audioCfg, nil, log.With("component", "audio"))
	player.SetMuted(*mute)
	defer player.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w, err := startup(ctx, cfg, player, log)
	if err != nil {
		return err
	}

	rec := telemetry.NewRecorder(log.With("component", "telemetry"))
	if cfg.Telemetry.CSV != "" {
		f, err := os.Create(cfg.Telemetry.CSV)
		if err != nil {
			return fmt.Errorf("creating telemetry file: %w", err)
		}
		defer f.Close()
		rec.StreamTo(f)
	}

	if *headless {
		err = runHeadless(os.Stdout, w, w.params(cfg), player, rec, *ticks, log)
	} else {
		err = runInteractive(cfg, w, player, rec, log)
	}
	if err != nil {
		return err
	}

	if err := rec.Err(); err != nil {
		return err
	}
	log.Info("session closed", "summary", rec.Summary())
	return nil
}
