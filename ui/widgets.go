package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/lucasb-eyer/go-colorful"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawText draws a line in the given color and returns the new Y position.
func (r *Renderer) DrawText(x, y int32, text string, color rl.Color) int32 {
	rl.DrawText(text, x, y, r.Theme.FontSize, color)
	return y + r.Theme.LineHeight
}

// DrawSlider draws a labelled slider for a field and returns the slider's
// value along with the new Y position.
func (r *Renderer) DrawSlider(x, y int32, f SliderField, value float32, width int32) (float32, int32) {
	readout := fmt.Sprintf(f.Format, value)
	rl.DrawText(f.Label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	valueWidth := rl.MeasureText(readout, r.Theme.FontSize)
	rl.DrawText(readout, x+width-valueWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	y += r.Theme.LineHeight - 4

	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: 12}
	value = gui.SliderBar(bounds, "", "", value, f.Range.Min, f.Range.Max)
	return value, y + 12 + 8
}

// DrawPalette draws a row of color swatches and returns the new Y position.
func (r *Renderer) DrawPalette(x, y int32, colors []colorful.Color) int32 {
	const swatch = int32(14)
	for i, c := range colors {
		sx := x + int32(i)*(swatch+4)
		rl.DrawRectangle(sx, y, swatch, swatch, toRL(c))
		rl.DrawRectangleLines(sx, y, swatch, swatch, r.Theme.PanelBorder)
	}
	return y + swatch + 6
}

func toRL(c colorful.Color) rl.Color {
	cr, cg, cb := c.Clamped().RGB255()
	return rl.Color{R: cr, G: cg, B: cb, A: 255}
}
