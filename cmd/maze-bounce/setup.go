package main

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/maze-bounce/audio"
	"github.com/lixenwraith/maze-bounce/config"
	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/maze"
	"github.com/lixenwraith/maze-bounce/timeline"
)

// world is everything the simulation needs before the first tick
type world struct {
	grid     *maze.Grid
	timeline *timeline.Timeline
	// start is the generator's carve origin, used when no start is configured
	start *engine.Start
}

// loadGrid reads the configured layout or generates one
func loadGrid(ctx context.Context, cfg *config.Config, log *slog.Logger) (*maze.Grid, *engine.Start, error) {
	var layout [][]int
	var start *engine.Start

	if cfg.Maze.Layout != "" {
		l, err := maze.LoadLayoutFile(cfg.Maze.Layout)
		if err != nil {
			return nil, nil, err
		}
		layout = l
	} else {
		gen := cfg.Maze.Generate
		res := maze.Generate(maze.GenConfig{
			Width:    gen.Cols,
			Height:   gen.Rows,
			Braiding: gen.Braiding,
			Seed:     gen.Seed,
		})
		layout = res.Layout
		start = &engine.Start{Row: res.Start.Y, Col: res.Start.X}
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	grid, err := maze.NewGrid(layout, cfg.Maze.WorldWidth, cfg.Maze.WorldHeight)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("maze ready",
		"cols", grid.Cols(),
		"rows", grid.Rows(),
		"paths", grid.Count(maze.Path),
		"generated", cfg.Maze.Layout == "")
	return grid, start, nil
}

// loadTimeline reads the melody from MIDI, or from the configured seconds
func loadTimeline(ctx context.Context, cfg *config.Config, log *slog.Logger) (*timeline.Timeline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := cfg.MIDIOptions()

	var tl *timeline.Timeline
	var err error
	if cfg.Timeline.MIDI != "" {
		tl, err = timeline.LoadMIDIFile(cfg.Timeline.MIDI, opts)
	} else {
		tl, err = timeline.FromSeconds(cfg.Timeline.Seconds, opts.Policy)
	}
	if err != nil {
		return nil, err
	}
	log.Debug("timeline ready", "events", tl.Len(), "duration", tl.Duration(), "policy", tl.Policy())
	return tl, nil
}

// startup loads the maze and the timeline and opens the audio device in
// parallel, bounded by the startup timeout. Audio failure is not fatal.
// Loader results are only read once every loader has returned
func startup(ctx context.Context, cfg *config.Config, player *audio.NotePlayer, log *slog.Logger) (*world, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Startup.Timeout)
	defer cancel()

	var (
		grid  *maze.Grid
		start *engine.Start
		tl    *timeline.Timeline
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if grid, start, err = loadGrid(gctx, cfg, log); err != nil {
			return fmt.Errorf("loading maze: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tl, err = loadTimeline(gctx, cfg, log); err != nil {
			return fmt.Errorf("loading timeline: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := player.Initialize(); err != nil {
			log.Warn("continuing without audio", "error", err)
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("startup: %w", ctx.Err())
	}

	player.SetNotes(tl)
	return &world{grid: grid, timeline: tl, start: start}, nil
}

// params resolves the start cell: configured, else the generator's origin
func (w *world) params(cfg *config.Config) engine.Params {
	p := cfg.SimulationParams()
	if p.Start == nil && w.start != nil {
		p.Start = w.start
	}
	return p
}
