// Package components defines ECS components for particles.
package components

import (
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
)

// Position represents a particle's position in screen space.
type Position struct {
	r2.Vec
}

// Velocity represents a particle's per-frame displacement.
type Velocity struct {
	r2.Vec
}

// Bias is the constant per-frame acceleration (wind, gravity) captured at spawn.
type Bias struct {
	r2.Vec
}

// Appearance holds the visual traits fixed at spawn.
type Appearance struct {
	Size  float64
	Color colorful.Color
}

// Life tracks a particle's remaining frames.
// Max is the lifetime the particle was spawned with, so Opacity stays in [0, 1].
type Life struct {
	Remaining int
	Max       int
	Opacity   float64
}

// NewLife creates a life component with full opacity. Lifetimes below one
// frame are raised to one so Max is never zero.
func NewLife(frames int) Life {
	if frames < 1 {
		frames = 1
	}
	return Life{Remaining: frames, Max: frames, Opacity: 1}
}

// Tick consumes one frame and recomputes opacity.
// Returns true once the particle has expired.
func (l *Life) Tick() bool {
	l.Remaining--
	l.Opacity = Fade(l.Remaining, l.Max)
	return l.Remaining <= 0
}

// Fade returns max(0, remaining/maxLife).
func Fade(remaining, maxLife int) float64 {
	if maxLife <= 0 {
		return 0
	}
	o := float64(remaining) / float64(maxLife)
	if o < 0 {
		return 0
	}
	return o
}
