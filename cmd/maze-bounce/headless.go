package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/guptarohit/asciigraph"

	"github.com/lixenwraith/maze-bounce/engine"
	"github.com/lixenwraith/maze-bounce/telemetry"
)

// runHeadless steps the simulation synchronously and reports timing accuracy
func runHeadless(out io.Writer, w *world, p engine.Params, sink engine.EventSink, rec *telemetry.Recorder, ticks int, log *slog.Logger) error {
	sim, err := engine.NewSimulation(w.grid, w.timeline, p,
		engine.WithEventSink(sink),
		engine.WithObserver(rec),
		engine.WithLogger(log.With("component", "simulation")),
	)
	if err != nil {
		return err
	}
	checkGuards(sim, log)

	log.Info("starting headless simulation", "ticks", ticks, "tick_rate", p.TickRate, "session", rec.Session())
	sim.Advance(ticks)

	summary := rec.Summary()
	log.Info("simulation finished", "summary", summary, "sim_time", sim.Elapsed())
	writeSummary(out, summary, sim.Elapsed())

	if errs := rec.TimingErrors(); len(errs) > 1 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, asciigraph.Plot(errs,
			asciigraph.Height(10),
			asciigraph.Width(72),
			asciigraph.Precision(3),
			asciigraph.Caption("timing error per collision (s)"),
		))
	}
	return nil
}

func writeSummary(out io.Writer, s telemetry.Summary, simTime float64) {
	fmt.Fprintf(out, "session     %s\n", s.Session)
	fmt.Fprintf(out, "sim time    %.2fs\n", simTime)
	fmt.Fprintf(out, "collisions  %d (walls %d, recoveries %d)\n", s.Collisions, s.WallHits, s.Recoveries)
	fmt.Fprintf(out, "clamps      ceiling %d, floor %d\n", s.Ceiling, s.Floor)
	fmt.Fprintf(out, "no data     missing %d, degenerate %d\n", s.Missing, s.Degenerate)
	fmt.Fprintf(out, "factor      mean %.3f std %.3f\n", s.FactorMean, s.FactorStdDev)
	if s.Measured > 0 {
		fmt.Fprintf(out, "error       mean %+.4fs std %.4fs max |%.4f|s over %d intervals\n",
			s.ErrorMean, s.ErrorStdDev, s.ErrorMaxAbs, s.Measured)
	}
}

// checkGuards warns when the stall floor exceeds the grid's speed ceiling;
// slow retimes are then raised past the tunneling limit
func checkGuards(sim *engine.Simulation, log *slog.Logger) {
	r := sim.Retimer()
	if r.MinSpeed > r.MaxSpeed {
		log.Warn("min speed above tunneling ceiling", "min_speed", r.MinSpeed, "max_speed", r.MaxSpeed)
	}
}
