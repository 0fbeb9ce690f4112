package game

import (
	"errors"
	"log/slog"
	"time"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/preset"
	"github.com/pthm-cable/nebula/ui"
)

// PresetNames returns the library's preset names in selection order.
func (g *Game) PresetNames() []string {
	names := make([]string, len(g.library))
	for i, p := range g.library {
		names[i] = p.Name
	}
	return names
}

// SelectPreset activates the i-th library preset.
func (g *Game) SelectPreset(i int) bool {
	if i < 0 || i >= len(g.library) {
		return false
	}
	g.SetConfig(g.library[i])
	slog.Info("preset selected", "preset", g.active.Name, "id", g.active.ID)
	return true
}

// SelectPresetByName activates the first library preset with the given name.
func (g *Game) SelectPresetByName(name string) bool {
	for i, p := range g.library {
		if p.Name == name {
			return g.SelectPreset(i)
		}
	}
	return false
}

// Generate starts generating a preset from prompt, merged over the active
// config. The active config is untouched until the result arrives.
func (g *Game) Generate(prompt string) {
	if g.async == nil {
		slog.Warn("preset generation unavailable", "prompt", prompt)
		g.lastErr = ui.GenerateFailedMessage
		return
	}
	err := g.async.Start(g.ctx, g.active, prompt)
	switch {
	case errors.Is(err, preset.ErrBusy):
		return
	case err != nil:
		slog.Error("failed to start generation", "error", err)
		g.lastErr = ui.GenerateFailedMessage
		return
	}
	g.lastErr = ""
	slog.Info("preset generation started", "prompt", prompt)
}

// Generating reports whether a generation is in flight.
func (g *Game) Generating() bool {
	return g.async != nil && g.async.Busy()
}

// pollGenerator applies a finished generation, if any.
func (g *Game) pollGenerator() {
	if g.async == nil {
		return
	}
	res, ok := g.async.Poll()
	if !ok {
		return
	}
	g.applyGenerated(res)
}

// applyGenerated replaces the active config with a successful result and
// adds it to the library. Failures leave the active config untouched.
func (g *Game) applyGenerated(res preset.Result) {
	if res.Err != nil {
		slog.Warn("preset generation failed", "prompt", res.Prompt, "error", res.Err)
		g.lastErr = ui.GenerateFailedMessage
		return
	}

	g.lastErr = ""
	g.SetConfig(res.Config)
	g.addToLibrary(res.Config)
	slog.Info("generated preset applied", "preset", res.Config.Name, "id", res.Config.ID)

	if g.store != nil {
		if err := g.store.SavePreset(res.Config, res.Prompt, time.Now()); err != nil {
			slog.Error("failed to save preset", "id", res.Config.ID, "error", err)
		}
	}
}

func (g *Game) addToLibrary(p config.ParticleConfig) {
	g.library = append(g.library, p.Clone())
	if g.panel != nil {
		g.panel.SetPresets(g.PresetNames())
	}
}
