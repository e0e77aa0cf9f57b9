package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/maze-bounce/audio"
	"github.com/lixenwraith/maze-bounce/config"
	"github.com/lixenwraith/maze-bounce/core"
	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/render"
	"github.com/lixenwraith/maze-bounce/telemetry"
)

// frameInterval caps status line redraws
const frameInterval = 33 * time.Millisecond

// runInteractive draws the maze on the terminal and drives the simulation in
// real time until the user quits
func runInteractive(cfg *config.Config, w *world, player *audio.NotePlayer, rec *telemetry.Recorder, log *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	core.RegisterCrashTerminal(screen)
	defer screen.Fini()

	renderer := render.NewTerminalRenderer(screen, cfg.Render.CellCols, cfg.Render.Seed)

	sim, err := engine.NewSimulation(w.grid, w.timeline, w.params(cfg),
		engine.WithRenderer(renderer),
		engine.WithEventSink(player),
		engine.WithObserver(rec),
		engine.WithLogger(log.With("component", "simulation")),
	)
	if err != nil {
		return err
	}
	checkGuards(sim, log)

	session := newLiveSession(sim, w.timeline)
	clock := engine.NewPausableClock(nil)
	scheduler, updateDone := engine.NewClockScheduler(session, clock, engine.TickInterval(cfg.Simulation.TickRate))
	scheduler.Start()
	defer scheduler.Stop()

	// Input polling interacts directly with the terminal
	events := make(chan tcell.Event, 64)
	core.Go(func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	})

	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	redraw := func() {
		st := session.Status()
		st.Paused = clock.IsPaused()
		st.Muted = player.Muted()
		renderer.SetStatus(st)
		renderer.Show()
	}
	redraw()

	var dirty bool
	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					return nil
				}
				if ev.Key() != tcell.KeyRune {
					continue
				}
				switch ev.Rune() {
				case 'q':
					return nil
				case 'p':
					paused := clock.Toggle()
					log.Info("pause toggled", "paused", paused, "tick", scheduler.TickCount())
				case 'm':
					muted := player.ToggleMute()
					log.Info("mute toggled", "muted", muted)
				}
				redraw()
			case *tcell.EventResize:
				renderer.Sync()
				redraw()
			}

		case <-updateDone:
			dirty = true

		case <-frameTicker.C:
			if dirty || clock.IsPaused() {
				redraw()
				dirty = false
			}
		}
	}
}
