package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one window of frames.
type WindowStats struct {
	WindowStart int64  `csv:"-"`
	WindowEnd   int64  `csv:"window_end"`
	Preset      string `csv:"preset"`
	Behavior    string `csv:"behavior"`

	// Population at window end
	Population int `csv:"population"`
	Target     int `csv:"target"`

	// Lifecycle events during the window
	Spawned   int `csv:"spawned"`
	Expired   int `csv:"expired"`
	Reclaimed int `csv:"reclaimed"`

	// Share of frames with interaction active
	InteractFrac float64 `csv:"interact_frac"`
	// Share of frames where the target was moving
	MovingFrac float64 `csv:"moving_frac"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Mean distance from the target
	SpreadMean float64 `csv:"spread_mean"`

	OpacityMean float64 `csv:"opacity_mean"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std, P10, P50, P90 float64
}

// Summarize computes the mean, population standard deviation and empirical
// percentiles of values. An empty sample yields zeros.
func Summarize(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, variance := stat.PopMeanVariance(sorted, nil)
	return Distribution{
		Mean: mean,
		Std:  math.Sqrt(variance),
		P10:  stat.Quantile(0.1, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStart),
		slog.Int64("window_end", s.WindowEnd),
		slog.String("preset", s.Preset),
		slog.String("behavior", s.Behavior),
		slog.Int("population", s.Population),
		slog.Int("target", s.Target),
		slog.Int("spawned", s.Spawned),
		slog.Int("expired", s.Expired),
		slog.Int("reclaimed", s.Reclaimed),
		slog.Float64("interact_frac", s.InteractFrac),
		slog.Float64("moving_frac", s.MovingFrac),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("spread_mean", s.SpreadMean),
		slog.Float64("opacity_mean", s.OpacityMean),
	)
}

// LogStats logs the window stats.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
