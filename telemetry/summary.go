package telemetry

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a session
type Summary struct {
	Session    string
	Collisions int
	WallHits   int
	Recoveries int
	Ceiling    int // retimes capped by the tunneling guard
	Floor      int // retimes raised by the stall guard
	Degenerate int
	Missing    int

	// Timing error in seconds over measured intervals
	Measured     int
	ErrorMean    float64
	ErrorStdDev  float64
	ErrorMaxAbs  float64
	FactorMean   float64
	FactorStdDev float64
}

// Summary computes statistics over everything recorded so far
func (r *Recorder) Summary() Summary {
	records := r.Records()
	s := Summary{Session: r.session.String(), Collisions: len(records)}

	var errs, factors []float64
	for _, rec := range records {
		if rec.Kind != "wall" {
			s.Recoveries++
			continue
		}
		s.WallHits++

		switch rec.Clamp {
		case "ceiling":
			s.Ceiling++
		case "floor":
			s.Floor++
		}
		if rec.Degenerate {
			s.Degenerate++
		}
		if rec.Missing {
			s.Missing++
		} else if rec.Factor > 0 {
			factors = append(factors, rec.Factor)
		}
		if rec.Measured {
			errs = append(errs, rec.TimingError)
			s.ErrorMaxAbs = math.Max(s.ErrorMaxAbs, math.Abs(rec.TimingError))
		}
	}

	s.Measured = len(errs)
	if len(errs) > 0 {
		s.ErrorMean, s.ErrorStdDev = meanStdDev(errs)
	}
	if len(factors) > 0 {
		s.FactorMean, s.FactorStdDev = meanStdDev(factors)
	}
	return s
}

// TimingErrors returns the measured timing errors in collision order
func (r *Recorder) TimingErrors() []float64 {
	var out []float64
	for _, rec := range r.Records() {
		if rec.Measured {
			out = append(out, rec.TimingError)
		}
	}
	return out
}

// meanStdDev wraps stat.MeanStdDev; a single sample has zero spread
func meanStdDev(x []float64) (mean, std float64) {
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// LogValue implements slog.LogValuer for structured logging
func (s Summary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("session", s.Session),
		slog.Int("collisions", s.Collisions),
		slog.Int("wall_hits", s.WallHits),
		slog.Int("recoveries", s.Recoveries),
		slog.Int("ceiling", s.Ceiling),
		slog.Int("floor", s.Floor),
		slog.Int("degenerate", s.Degenerate),
		slog.Int("missing", s.Missing),
		slog.Int("measured", s.Measured),
		slog.Float64("error_mean", s.ErrorMean),
		slog.Float64("error_std", s.ErrorStdDev),
		slog.Float64("error_max_abs", s.ErrorMaxAbs),
		slog.Float64("factor_mean", s.FactorMean),
		slog.Float64("factor_std", s.FactorStdDev),
	)
}
