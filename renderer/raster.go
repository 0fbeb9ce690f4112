package renderer

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/pthm-cable/nebula/systems"
)

// RasterSink renders particles into an in-memory RGBA image through a
// software canvas. It is used by headless runs and snapshot output where no
// window exists.
type RasterSink struct {
	backend *softwarebackend.SoftwareBackend
	cv      *canvas.Canvas
	w, h    int
	bg      string
}

// NewRasterSink creates a sink with a width x height canvas.
func NewRasterSink(width, height int) *RasterSink {
	s := &RasterSink{bg: Background.Hex()}
	s.Resize(width, height)
	return s
}

// Image returns the current frame.
func (s *RasterSink) Image() *image.RGBA {
	return s.backend.Image
}

// Resize replaces the canvas when the viewport changes.
func (s *RasterSink) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if s.backend != nil && s.w == width && s.h == height {
		return
	}
	s.w, s.h = width, height
	s.backend = softwarebackend.New(width, height)
	s.cv = canvas.New(s.backend)
}

// Draw clears the canvas and renders every particle with its opacity. When
// glow is on, each disc casts a shadow of radius blur in its own color.
func (s *RasterSink) Draw(particles []systems.Particle, style Style) {
	cv := s.cv
	cv.SetShadowBlur(0)
	cv.SetGlobalAlpha(1)
	cv.SetFillStyle(s.bg)
	cv.FillRect(0, 0, float64(s.w), float64(s.h))

	glow := style.Glow && style.Blur > 0
	if glow {
		cv.SetShadowBlur(style.Blur)
	}
	for i := range particles {
		p := &particles[i]
		if !s.visible(p, style) {
			continue
		}
		hex := p.Color.Clamped().Hex()
		cv.SetGlobalAlpha(clamp01(p.Opacity))
		cv.SetFillStyle(hex)
		if glow {
			cv.SetShadowColor(hex)
		}
		cv.BeginPath()
		cv.Arc(p.Pos.X, p.Pos.Y, p.Size, 0, 2*math.Pi, false)
		cv.Fill()
	}
	cv.SetGlobalAlpha(1)
}

// visible reports whether any part of the particle, glow included, can land
// on the canvas.
func (s *RasterSink) visible(p *systems.Particle, style Style) bool {
	if !(p.Opacity > 0) || !(p.Size > 0) || math.IsInf(p.Size, 0) {
		return false
	}
	reach := p.Size
	if style.Glow {
		reach += style.Blur
	}
	return p.Pos.X+reach >= 0 && p.Pos.X-reach <= float64(s.w) &&
		p.Pos.Y+reach >= 0 && p.Pos.Y-reach <= float64(s.h)
}

// WritePNG encodes the current frame to path.
func (s *RasterSink) WritePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := png.Encode(f, s.backend.Image); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
