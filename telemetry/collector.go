package telemetry

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/systems"
)

// Collector accumulates frame results within windows and produces
// WindowStats.
type Collector struct {
	windowFrames int64
	windowStart  int64

	// Counters for the current window
	frames      int
	spawned     int
	expired     int
	reclaimed   int
	interacting int
	moving      int

	speeds    []float64 // reused sample buffers
	spreads   []float64
	opacities []float64
}

// NewCollector creates a collector flushing every windowFrames frames.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{windowFrames: int64(windowFrames)}
}

// Record adds one frame's result to the current window.
func (c *Collector) Record(res systems.FrameResult, interacting, moving bool) {
	c.frames++
	c.spawned += res.Spawned
	c.expired += res.Expired
	c.reclaimed += res.Reclaimed
	if interacting {
		c.interacting++
	}
	if moving {
		c.moving++
	}
}

// ShouldFlush reports whether the window ending at frame is complete.
func (c *Collector) ShouldFlush(frame int64) bool {
	return frame-c.windowStart >= c.windowFrames
}

// Flush produces the stats for the window ending at frame and starts a new
// window. particles and target are sampled for the distributions.
func (c *Collector) Flush(frame int64, cfg *config.ParticleConfig, particles []systems.Particle, target r2.Vec) WindowStats {
	c.speeds = c.speeds[:0]
	c.spreads = c.spreads[:0]
	c.opacities = c.opacities[:0]
	for i := range particles {
		p := &particles[i]
		c.speeds = append(c.speeds, r2.Norm(p.Vel))
		c.spreads = append(c.spreads, r2.Norm(r2.Sub(p.Pos, target)))
		c.opacities = append(c.opacities, p.Opacity)
	}

	speed := Summarize(c.speeds)
	stats := WindowStats{
		WindowStart: c.windowStart,
		WindowEnd:   frame,
		Preset:      cfg.Name,
		Behavior:    cfg.Behavior.String(),
		Population:  len(particles),
		Target:      cfg.Count,
		Spawned:     c.spawned,
		Expired:     c.expired,
		Reclaimed:   c.reclaimed,
		SpeedMean:   speed.Mean,
		SpeedStd:    speed.Std,
		SpeedP50:    speed.P50,
		SpeedP90:    speed.P90,
		SpreadMean:  Summarize(c.spreads).Mean,
		OpacityMean: Summarize(c.opacities).Mean,
	}
	if c.frames > 0 {
		stats.InteractFrac = float64(c.interacting) / float64(c.frames)
		stats.MovingFrac = float64(c.moving) / float64(c.frames)
	}

	c.windowStart = frame
	c.frames = 0
	c.spawned = 0
	c.expired = 0
	c.reclaimed = 0
	c.interacting = 0
	c.moving = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
