// Package game drives the particle engine: it gathers each frame's inputs,
// runs one simulation step and hands the result to a renderer.
package game

import (
	"context"
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/handtrack"
	"github.com/pthm-cable/nebula/preset"
	"github.com/pthm-cable/nebula/renderer"
	"github.com/pthm-cable/nebula/storage"
	"github.com/pthm-cable/nebula/systems"
	"github.com/pthm-cable/nebula/telemetry"
	"github.com/pthm-cable/nebula/ui"
)

// Options configures game initialization.
type Options struct {
	Seed          int64
	Headless      bool
	Preset        string // initial preset name; empty uses the configured active preset
	Path          TargetPath
	LogStats      bool
	OutputDir     string
	SnapshotEvery int // headless frames between PNG snapshots, 0 disables

	Hands     handtrack.TargetSource // nil disables hand control
	Generator preset.Generator       // nil disables prompt generation
	Store     *storage.Store         // nil disables saving generated presets
}

// Game holds the complete application state around one engine instance.
type Game struct {
	cfg *config.Config
	sim *systems.Simulation
	rng *rand.Rand
	ctx context.Context

	// Preset library and the config driving the next frame
	library       []config.ParticleConfig
	active        config.ParticleConfig
	frameCfg      config.ParticleConfig // sanitized config of the last step, used for drawing
	sanitizedID   string
	sanitizedOnce bool

	width, height int
	paused        bool
	frameOpen     bool // perf frame started in Update, closed in Draw
	path          TargetPath

	// Inputs
	pointer      PointerSource
	hands        handtrack.TargetSource
	handsEnabled bool
	interacting  bool

	// Generation
	async   *preset.Async
	store   *storage.Store
	lastErr string

	// Rendering
	particleRenderer *renderer.ParticleRenderer
	raster           *renderer.RasterSink
	uiRenderer       *ui.Renderer
	panel            *ui.Panel
	particles        []systems.Particle
	lastTarget       r2.Vec

	// Telemetry
	perfCollector *telemetry.PerfCollector
	collector     *telemetry.Collector
	outputManager *telemetry.OutputManager
	logStats      bool
	snapshotEvery int
}

// NewGameWithOptions creates a game. In graphical mode the raylib window must
// already be open.
func NewGameWithOptions(ctx context.Context, opts Options) *Game {
	cfg := config.Cfg()

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		ctx:           ctx,
		width:         cfg.Screen.Width,
		height:        cfg.Screen.Height,
		path:          opts.Path,
		hands:         opts.Hands,
		handsEnabled:  opts.Hands != nil && cfg.HandTracking.Enabled,
		store:         opts.Store,
		logStats:      opts.LogStats,
		snapshotEvery: opts.SnapshotEvery,
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow),
	}
	if g.hands == nil {
		g.hands = handtrack.Disabled{}
	}

	g.sim = systems.NewSimulation(g.rng)
	g.sim.SetPhaseTimer(g.perfCollector)

	g.library = make([]config.ParticleConfig, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		g.library = append(g.library, p.Clone())
	}
	g.loadSavedPresets()

	g.active = cfg.DefaultPreset()
	if opts.Preset != "" {
		if !g.SelectPresetByName(opts.Preset) {
			slog.Warn("unknown preset, using default", "preset", opts.Preset, "default", g.active.Name)
		}
	}

	if opts.Generator != nil {
		g.async = preset.NewAsync(opts.Generator, cfg.Generator.Timeout)
	}

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			slog.Error("failed to create output manager", "error", err)
		} else {
			g.outputManager = om
			if err := om.WriteConfig(cfg); err != nil {
				slog.Error("failed to write config", "error", err)
			}
		}
	}

	if opts.Headless {
		if g.snapshotEvery > 0 {
			g.raster = renderer.NewRasterSink(g.width, g.height)
		}
	} else {
		g.particleRenderer = renderer.NewParticleRenderer()
		g.uiRenderer = ui.NewRenderer()
		g.panel = ui.NewPanel(g.uiRenderer)
		g.panel.SetPresets(g.PresetNames())
	}

	return g
}

// loadSavedPresets appends stored presets to the library.
func (g *Game) loadSavedPresets() {
	if g.store == nil {
		return
	}
	saved, err := g.store.Presets(0)
	if err != nil {
		slog.Error("failed to load saved presets", "error", err)
		return
	}
	// Oldest first so library order matches creation order
	for i := len(saved) - 1; i >= 0; i-- {
		g.library = append(g.library, saved[i].Config)
	}
	if len(saved) > 0 {
		slog.Info("loaded saved presets", "count", len(saved))
	}
}

// step runs one engine frame against the given target inputs.
func (g *Game) step(target, pointer *r2.Vec) systems.FrameResult {
	cfg := g.frameConfig()
	g.frameCfg = cfg
	res := g.sim.Step(systems.FrameInput{
		Config:      &cfg,
		Target:      target,
		Pointer:     pointer,
		Interacting: g.interacting,
		Width:       g.width,
		Height:      g.height,
	})
	g.lastTarget = res.Target

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(res, g.interacting, g.sim.Tracker().Moving())
	g.flushTelemetry(&cfg)
	return res
}

// frameConfig returns the config for this frame, with non-finite fields
// replaced by the active preset's values.
func (g *Game) frameConfig() config.ParticleConfig {
	cfg, replaced := systems.SanitizeConfig(g.active, g.cfg.DefaultPreset())
	if replaced && (!g.sanitizedOnce || g.sanitizedID != g.active.ID) {
		slog.Warn("config has non-finite fields, using preset defaults",
			"preset", g.active.Name,
			"id", g.active.ID,
		)
		g.sanitizedID = g.active.ID
		g.sanitizedOnce = true
	}
	return cfg
}

// drawStyle returns the drawing options of the last simulated frame.
func (g *Game) drawStyle() renderer.Style {
	return renderer.StyleOf(&g.frameCfg)
}

// UpdateHeadless runs one frame without raylib, following the scripted path.
func (g *Game) UpdateHeadless() systems.FrameResult {
	g.pollGenerator()

	g.perfCollector.StartFrame()
	target := g.path.At(g.sim.Frame(), g.width, g.height)
	res := g.step(target, nil)

	if g.raster != nil && res.Frame%int64(g.snapshotEvery) == 0 {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
		g.saveSnapshot(res.Frame)
	}
	g.perfCollector.EndFrame()
	return res
}

// Run drives headless frames until ctx is done or maxFrames frames have
// run (0 = unlimited). No state changes after cancellation is observed.
func (g *Game) Run(ctx context.Context, maxFrames int64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if maxFrames > 0 && g.sim.Frame() >= maxFrames {
			return nil
		}
		g.UpdateHeadless()
	}
}

// SetConfig replaces the active config wholesale. The next frame uses it.
func (g *Game) SetConfig(p config.ParticleConfig) {
	g.active = p.Clone()
}

// Config returns a copy of the active config.
func (g *Game) Config() config.ParticleConfig {
	return g.active.Clone()
}

// SetViewport adopts new viewport bounds from the next frame on.
func (g *Game) SetViewport(width, height int) {
	if width <= 0 || height <= 0 || (width == g.width && height == g.height) {
		return
	}
	g.width = width
	g.height = height
	if g.raster != nil {
		g.raster.Resize(width, height)
	}
}

// SetInteracting sets the interaction flag for the next frame.
func (g *Game) SetInteracting(v bool) {
	g.interacting = v
}

// Frame returns the number of completed frames.
func (g *Game) Frame() int64 {
	return g.sim.Frame()
}

// Population returns the number of live particles.
func (g *Game) Population() int {
	return g.sim.Population()
}

// Particles returns the live particles, reusing the game's buffer.
func (g *Game) Particles() []systems.Particle {
	g.particles = g.sim.Particles(g.particles[:0])
	return g.particles
}

// LastError returns the user-visible message from the last failed
// generation, or "".
func (g *Game) LastError() string {
	return g.lastErr
}

// Unload releases resources.
func (g *Game) Unload() {
	if g.async != nil {
		g.async.Cancel()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	g.outputManager = nil
}
