package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/nebula/systems"
)

// Phase names for one frame.
const (
	PhaseTarget    = systems.PhaseTarget    // input resolution and target tracking
	PhaseSpawn     = systems.PhaseSpawn     // emitter
	PhaseIntegrate = systems.PhaseIntegrate // forces, integration, aging, reclaim
	PhaseRender    = "render"
	PhaseTelemetry = "telemetry"
)

// Phases lists the frame phases in execution order.
var Phases = []string{PhaseTarget, PhaseSpawn, PhaseIntegrate, PhaseRender, PhaseTelemetry}

// FrameSample holds timing data for a single frame.
type FrameSample struct {
	Duration time.Duration
	Phases   map[string]time.Duration
}

// PerfCollector tracks frame timing over a rolling window.
type PerfCollector struct {
	windowSize int
	samples    []FrameSample
	next       int
	filled     int

	current    map[string]time.Duration
	frameStart time.Time
	phaseStart time.Time
	phase      string

	// Wall time between presented frames (graphics mode)
	lastPresent time.Time
	presentGap  time.Duration

	now func() time.Time
}

var _ systems.PhaseTimer = (*PerfCollector)(nil)

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]FrameSample, windowSize),
		current:    make(map[string]time.Duration),
		now:        time.Now,
	}
}

// StartFrame begins timing a new frame.
func (p *PerfCollector) StartFrame() {
	p.frameStart = p.now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.phase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := p.now()
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.phase = phase
}

// EndFrame closes the running phase and records the frame.
func (p *PerfCollector) EndFrame() {
	now := p.now()
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
		p.phase = ""
	}

	p.samples[p.next] = FrameSample{
		Duration: now.Sub(p.frameStart),
		Phases:   p.current,
	}
	p.next = (p.next + 1) % p.windowSize
	if p.filled < p.windowSize {
		p.filled++
	}
}

// RecordPresent records the time a frame reached the screen.
func (p *PerfCollector) RecordPresent() {
	now := p.now()
	if !p.lastPresent.IsZero() {
		p.presentGap = now.Sub(p.lastPresent)
	}
	p.lastPresent = now
}

// PerfStats holds aggregated frame timing.
type PerfStats struct {
	AvgFrame time.Duration
	P50Frame time.Duration
	P95Frame time.Duration
	MaxFrame time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average frame, 0-100

	FramesPerSecond float64 // simulation throughput
	FPS             float64 // presented frames per second
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p.presentGap > 0 {
		out.FPS = float64(time.Second) / float64(p.presentGap)
	}
	if p.filled == 0 {
		return out
	}

	durations := make([]float64, p.filled)
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.filled; i++ {
		s := p.samples[i]
		durations[i] = float64(s.Duration)
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}
	slices.Sort(durations)

	avg := stat.Mean(durations, nil)
	out.AvgFrame = time.Duration(avg)
	out.P50Frame = time.Duration(stat.Quantile(0.5, stat.Empirical, durations, nil))
	out.P95Frame = time.Duration(stat.Quantile(0.95, stat.Empirical, durations, nil))
	out.MaxFrame = time.Duration(durations[len(durations)-1])

	for phase, sum := range phaseSum {
		mean := sum / time.Duration(p.filled)
		out.PhaseAvg[phase] = mean
		if avg > 0 {
			out.PhasePct[phase] = float64(mean) / avg * 100
		}
	}
	if avg > 0 {
		out.FramesPerSecond = float64(time.Second) / avg
	}
	return out
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("frames_per_sec", s.FramesPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, slog.Float64(phase+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat row for perf.csv.
type PerfStatsCSV struct {
	WindowEnd    int64   `csv:"window_end"`
	AvgFrameUS   int64   `csv:"avg_frame_us"`
	P50FrameUS   int64   `csv:"p50_frame_us"`
	P95FrameUS   int64   `csv:"p95_frame_us"`
	MaxFrameUS   int64   `csv:"max_frame_us"`
	FramesPerSec float64 `csv:"frames_per_sec"`
	FPS          float64 `csv:"fps"`
	TargetPct    float64 `csv:"target_pct"`
	SpawnPct     float64 `csv:"spawn_pct"`
	IntegratePct float64 `csv:"integrate_pct"`
	RenderPct    float64 `csv:"render_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for the window ending at frame windowEnd.
func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgFrameUS:   s.AvgFrame.Microseconds(),
		P50FrameUS:   s.P50Frame.Microseconds(),
		P95FrameUS:   s.P95Frame.Microseconds(),
		MaxFrameUS:   s.MaxFrame.Microseconds(),
		FramesPerSec: s.FramesPerSecond,
		FPS:          s.FPS,
		TargetPct:    s.PhasePct[PhaseTarget],
		SpawnPct:     s.PhasePct[PhaseSpawn],
		IntegratePct: s.PhasePct[PhaseIntegrate],
		RenderPct:    s.PhasePct[PhaseRender],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
