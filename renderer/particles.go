package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/systems"
)

// Style carries the per-frame drawing options taken from the active config.
type Style struct {
	Glow bool
	Blur float64 // bloom radius in pixels
}

// StyleOf extracts the drawing options from a particle config.
func StyleOf(cfg *config.ParticleConfig) Style {
	return Style{Glow: cfg.Glow, Blur: cfg.Blur}
}

// Sink consumes the live particle set once per frame. Every Draw replaces
// the previous frame entirely.
type Sink interface {
	Draw(particles []systems.Particle, style Style)
}

// Background is the clear color shared by the sinks.
var Background = colorful.Color{R: 0.02, G: 0.02, B: 0.05}

// ParticleRenderer draws particles to the raylib window.
type ParticleRenderer struct {
	background rl.Color
}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{background: toRL(Background, 1)}
}

// Draw clears the window and renders all particles. Must be called between
// rl.BeginDrawing and rl.EndDrawing.
func (r *ParticleRenderer) Draw(particles []systems.Particle, style Style) {
	rl.ClearBackground(r.background)

	// Bloom goes underneath so the cores stay crisp
	if style.Glow && style.Blur > 0 {
		rl.BeginBlendMode(rl.BlendAdditive)
		for i := range particles {
			p := &particles[i]
			if p.Opacity <= 0 {
				continue
			}
			radius := float32(p.Size + style.Blur)
			inner := toRL(p.Color, p.Opacity*0.6)
			outer := toRL(p.Color, 0)
			rl.DrawCircleGradient(int32(p.Pos.X), int32(p.Pos.Y), radius, inner, outer)
		}
		rl.EndBlendMode()
	}

	for i := range particles {
		p := &particles[i]
		if p.Opacity <= 0 {
			continue
		}
		center := rl.Vector2{X: float32(p.Pos.X), Y: float32(p.Pos.Y)}
		rl.DrawCircleV(center, float32(p.Size), toRL(p.Color, p.Opacity))
	}
}

func toRL(c colorful.Color, alpha float64) rl.Color {
	r, g, b := c.Clamped().RGB255()
	return rl.Color{R: r, G: g, B: b, A: uint8(clamp01(alpha) * 255)}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
