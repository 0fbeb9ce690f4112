package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/handtrack"
)

// StatusInfo is the state shown by the status overlay.
type StatusInfo struct {
	Preset       string
	HandsEnabled bool
	Interacting  bool
	HandStatus   handtrack.Status
	Particles    int
	FPS          float64
	Generating   bool
	Error        string // last generation failure
}

// CursorMode names what is steering the emitter.
func CursorMode(handsEnabled, interacting bool) string {
	switch {
	case interacting:
		return "ATTRACT MODE"
	case handsEnabled:
		return "CURSOR: HAND"
	default:
		return "CURSOR: MOUSE"
	}
}

// StatusLines returns the overlay text, one entry per line.
func StatusLines(s StatusInfo) []string {
	lines := []string{
		s.Preset,
		CursorMode(s.HandsEnabled, s.Interacting),
		fmt.Sprintf("Engines Active • %d Particles", s.Particles),
	}
	if s.HandsEnabled {
		lines = append(lines, "Hand Input: "+s.HandStatus.String())
	}
	if s.Generating {
		lines = append(lines, "Generating preset...")
	}
	if s.Error != "" {
		lines = append(lines, s.Error)
	}
	if s.FPS > 0 {
		lines = append(lines, fmt.Sprintf("%.0f FPS", s.FPS))
	}
	return lines
}

// DrawStatus draws the overlay anchored to the top-right corner.
func (r *Renderer) DrawStatus(s StatusInfo, screenW int32) {
	lines := StatusLines(s)
	t := r.Theme

	width := int32(0)
	for _, l := range lines {
		width = max(width, rl.MeasureText(l, t.FontSize))
	}
	width += 2 * t.Padding
	height := int32(len(lines))*t.LineHeight + t.Padding

	x := screenW - width - t.Padding
	y := t.Padding
	r.DrawPanel(x, y, width, height)

	ty := y + t.Padding/2
	for i, l := range lines {
		color := t.LabelColor
		switch {
		case i == 0:
			color = t.ValueColor
		case i == 1 && s.Interacting:
			color = t.Accent
		case s.Error != "" && l == s.Error:
			color = t.Error
		case i > 2:
			color = t.Muted
		}
		ty = r.DrawText(x+t.Padding, ty, l, color)
	}
}
