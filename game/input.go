package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/handtrack"
)

// PointerSource remembers the last pointer position seen over the canvas.
// The position stays unknown until the first observation.
type PointerSource struct {
	pos   r2.Vec
	known bool
	down  bool
}

// Observe records a pointer sample. Samples over the panel only release the
// button; the position keeps its last canvas value.
func (p *PointerSource) Observe(pos r2.Vec, down, overPanel bool) {
	if overPanel {
		p.down = false
		return
	}
	p.pos = pos
	p.known = true
	p.down = down
}

// Position returns the last canvas position, or nil if none was seen yet.
func (p *PointerSource) Position() *r2.Vec {
	if !p.known {
		return nil
	}
	pos := p.pos
	return &pos
}

// Down reports whether the button was held over the canvas.
func (p *PointerSource) Down() bool {
	return p.down
}

// Update reads input and runs one frame.
func (g *Game) Update() {
	g.handleInput()
	g.pollGenerator()

	if g.paused {
		return
	}

	g.perfCollector.StartFrame()
	g.frameOpen = true

	target, interacting := g.resolveInputs()
	g.interacting = interacting
	g.step(target, g.pointer.Position())
}

// resolveInputs picks the external target and interaction flag. A live hand
// feed steers the emitter when hand control is on; otherwise the target is
// absent and the engine follows the pointer.
func (g *Game) resolveInputs() (*r2.Vec, bool) {
	if g.handsEnabled && g.hands.Status() == handtrack.StatusLive {
		if pos, ok := g.hands.Target(g.width, g.height); ok {
			return &pos, g.hands.Interacting()
		}
	}
	return nil, g.pointer.Down()
}

// handleInput processes keyboard and pointer input.
func (g *Game) handleInput() {
	g.handleResize()

	mouse := rl.GetMousePosition()
	overPanel := g.panel.Visible && mouse.X < float32(g.panel.Width())
	g.pointer.Observe(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)}, rl.IsMouseButtonDown(rl.MouseButtonLeft), overPanel)

	// Keys type into the prompt box while it has focus
	if g.panel.Editing() {
		return
	}

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.panel.Visible = !g.panel.Visible
	}
	if rl.IsKeyPressed(rl.KeyH) {
		g.ToggleHands()
	}

	for i, key := range []int32{rl.KeyOne, rl.KeyTwo, rl.KeyThree} {
		if rl.IsKeyPressed(key) {
			g.SelectPreset(i)
		}
	}
}

// ToggleHands switches between hand and pointer control. Without a hand
// source it stays on the pointer.
func (g *Game) ToggleHands() {
	if _, disabled := g.hands.(handtrack.Disabled); disabled {
		g.handsEnabled = false
		return
	}
	g.handsEnabled = !g.handsEnabled
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	g.SetViewport(rl.GetScreenWidth(), rl.GetScreenHeight())
}
