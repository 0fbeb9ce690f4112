package game

import (
	"log/slog"

	"github.com/pthm-cable/nebula/config"
)

// flushTelemetry flushes the stats window when it is complete.
func (g *Game) flushTelemetry(cfg *config.ParticleConfig) {
	frame := g.sim.Frame()
	if !g.collector.ShouldFlush(frame) {
		return
	}

	stats := g.collector.Flush(frame, cfg, g.Particles(), g.lastTarget)
	perfStats := g.perfCollector.Stats()

	if g.logStats {
		stats.LogStats()
		slog.Info("perf", "window", perfStats)
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEnd); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}
