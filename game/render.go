package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/telemetry"
	"github.com/pthm-cable/nebula/ui"
)

// Draw renders the particles, the control panel and the status overlay.
func (g *Game) Draw() {
	g.perfCollector.RecordPresent()

	rl.BeginDrawing()

	if g.frameOpen {
		g.perfCollector.StartPhase(telemetry.PhaseRender)
	}
	g.particleRenderer.Draw(g.Particles(), g.drawStyle())

	ev := g.panel.Draw(g.active, ui.PanelState{
		HandsEnabled: g.handsEnabled,
		Generating:   g.Generating(),
		Error:        g.lastErr,
	}, int32(g.height))

	g.uiRenderer.DrawStatus(ui.StatusInfo{
		Preset:       g.active.Name,
		HandsEnabled: g.handsEnabled,
		Interacting:  g.interacting,
		HandStatus:   g.hands.Status(),
		Particles:    g.sim.Population(),
		FPS:          float64(rl.GetFPS()),
		Generating:   g.Generating(),
		Error:        g.lastErr,
	}, int32(g.width))

	if g.paused {
		rl.DrawText("PAUSED", int32(g.width)/2-40, int32(g.height)-40, 20, rl.Yellow)
	}

	rl.EndDrawing()

	if g.frameOpen {
		g.perfCollector.EndFrame()
		g.frameOpen = false
	}
	g.applyPanelEvents(ev)
}

// applyPanelEvents applies the user's panel input. Changes take effect on the
// next frame.
func (g *Game) applyPanelEvents(ev ui.PanelEvents) {
	if ev.Config != nil {
		g.SetConfig(*ev.Config)
	}
	if ev.Preset >= 0 {
		g.SelectPreset(ev.Preset)
	}
	if ev.ToggleHands {
		g.ToggleHands()
		slog.Info("hand control toggled", "enabled", g.handsEnabled)
	}
	if ev.Generate != "" {
		g.Generate(ev.Generate)
	}
}

// saveSnapshot rasterizes the live particles to a PNG in the output
// directory.
func (g *Game) saveSnapshot(frame int64) {
	path, err := g.outputManager.SnapshotPath(frame)
	if err != nil {
		slog.Error("failed to prepare snapshot", "frame", frame, "error", err)
		return
	}
	g.raster.Draw(g.Particles(), g.drawStyle())
	if err := g.raster.WritePNG(path); err != nil {
		slog.Error("failed to write snapshot", "frame", frame, "error", err)
		return
	}
	slog.Debug("snapshot saved", "frame", frame, "path", path)
}
