// Package ui provides the raygui control panel and the status overlay.
// Panel controls are driven by field descriptors so new config fields only
// need a descriptor entry.
package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
)

// FieldRange defines the slider range for a field.
type FieldRange struct {
	Min float32
	Max float32
}

// SliderField describes one numeric config field edited by a slider.
type SliderField struct {
	ID     string
	Label  string
	Format string // Printf format for the value readout
	Range  FieldRange
	Get    func(*config.ParticleConfig) float64
	Set    func(*config.ParticleConfig, float64)
}

// Apply returns a copy of cfg with the field set to v. The input is never
// modified, so a live config is replaced rather than edited in place.
func (f SliderField) Apply(cfg config.ParticleConfig, v float32) config.ParticleConfig {
	out := cfg.Clone()
	f.Set(&out, float64(v))
	return out
}

func intSlider(id, label, format string, lo, hi float32, field func(*config.ParticleConfig) *int) SliderField {
	return SliderField{
		ID: id, Label: label, Format: format, Range: FieldRange{Min: lo, Max: hi},
		Get: func(c *config.ParticleConfig) float64 { return float64(*field(c)) },
		Set: func(c *config.ParticleConfig, v float64) { *field(c) = int(math.Round(v)) },
	}
}

func floatSlider(id, label, format string, lo, hi float32, field func(*config.ParticleConfig) *float64) SliderField {
	return SliderField{
		ID: id, Label: label, Format: format, Range: FieldRange{Min: lo, Max: hi},
		Get: func(c *config.ParticleConfig) float64 { return *field(c) },
		Set: func(c *config.ParticleConfig, v float64) { *field(c) = v },
	}
}

// SliderFields returns the panel's slider descriptors in display order.
func SliderFields() []SliderField {
	return []SliderField{
		intSlider("count", "Density", "%.0f", 10, 1000, func(c *config.ParticleConfig) *int { return &c.Count }),
		floatSlider("speed", "Speed", "%.1f", 0.1, 15, func(c *config.ParticleConfig) *float64 { return &c.Speed }),
		floatSlider("gravity", "Gravity", "%+.2f", -0.5, 0.5, func(c *config.ParticleConfig) *float64 { return &c.Gravity }),
		floatSlider("wind", "Wind", "%+.2f", -0.5, 0.5, func(c *config.ParticleConfig) *float64 { return &c.Wind }),
		floatSlider("friction", "Friction", "%.3f", 0.8, 1.0, func(c *config.ParticleConfig) *float64 { return &c.Friction }),
		intSlider("life", "Life", "%.0f", 10, 1000, func(c *config.ParticleConfig) *int { return &c.Life }),
		floatSlider("size_min", "Size min", "%.1f", 0.1, 5, func(c *config.ParticleConfig) *float64 { return &c.SizeMin }),
		floatSlider("size_max", "Size max", "%.1f", 1, 20, func(c *config.ParticleConfig) *float64 { return &c.SizeMax }),
		floatSlider("blur", "Bloom", "%.1f", 0, 20, func(c *config.ParticleConfig) *float64 { return &c.Blur }),
	}
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	Accent         rl.Color
	Muted          rl.Color
	Error          rl.Color
	Padding        int32
	LineHeight     int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 15, G: 23, B: 42, A: 230},
		PanelBorder:    rl.Color{R: 51, G: 65, B: 85, A: 255},
		SectionHeader:  rl.Color{R: 148, G: 163, B: 184, A: 255},
		LabelColor:     rl.Color{R: 203, G: 213, B: 225, A: 255},
		ValueColor:     rl.Color{R: 96, G: 165, B: 250, A: 255},
		Accent:         rl.Color{R: 59, G: 130, B: 246, A: 255},
		Muted:          rl.Color{R: 100, G: 116, B: 139, A: 255},
		Error:          rl.Color{R: 244, G: 63, B: 94, A: 255},
		Padding:        12,
		LineHeight:     18,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
