package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
)

const (
	panelWidth   = 240
	promptMaxLen = 200
)

// GenerateFailedMessage is shown when a generation request fails.
const GenerateFailedMessage = "Failed to generate preset. Please try again."

// PanelState is the game state the panel reflects but does not own.
type PanelState struct {
	HandsEnabled bool
	Generating   bool
	Error        string
}

// PanelEvents reports what the user did with the panel this frame.
type PanelEvents struct {
	Config      *config.ParticleConfig // replacement config when any control changed
	Preset      int                    // preset index chosen, -1 for none
	ToggleHands bool
	Generate    string // prompt submitted for generation
}

// NoEvents is the zero-interaction result.
func NoEvents() PanelEvents {
	return PanelEvents{Preset: -1}
}

// Panel is the sidebar with sliders, behavior and look controls, the preset
// library and the prompt box.
type Panel struct {
	r       *Renderer
	fields  []SliderField
	presets []string

	behaviorOptions string
	prompt          string
	promptEdit      bool

	Visible bool
}

// NewPanel creates a visible panel.
func NewPanel(r *Renderer) *Panel {
	return &Panel{
		r:               r,
		fields:          SliderFields(),
		behaviorOptions: BehaviorOptions(),
		Visible:         true,
	}
}

// SetPresets replaces the preset library shown as buttons.
func (p *Panel) SetPresets(names []string) {
	p.presets = append(p.presets[:0], names...)
}

// Editing reports whether the prompt box has keyboard focus.
func (p *Panel) Editing() bool {
	return p.Visible && p.promptEdit
}

// Width returns the panel width in pixels.
func (p *Panel) Width() int32 {
	return panelWidth
}

// Draw renders the panel along the left edge and returns the user's input.
func (p *Panel) Draw(cfg config.ParticleConfig, st PanelState, screenH int32) PanelEvents {
	ev := NoEvents()
	if !p.Visible {
		return ev
	}

	t := p.r.Theme
	p.r.DrawPanel(0, 0, panelWidth, screenH)
	x := t.Padding
	w := int32(panelWidth) - 2*t.Padding
	y := t.Padding

	y = p.r.DrawSectionHeader(x, y, "PHYSICS")
	next := cfg
	changed := false
	for _, f := range p.fields {
		cur := float32(f.Get(&next))
		var v float32
		v, y = p.r.DrawSlider(x, y, f, cur, w)
		if v != cur {
			next = f.Apply(next, v)
			changed = true
		}
	}

	y = p.r.DrawSectionHeader(x, y+4, "LOOK")
	glow := gui.CheckBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: 14, Height: 14}, "Glow", next.Glow)
	if glow != next.Glow {
		next = next.Clone()
		next.Glow = glow
		changed = true
	}
	y += 22
	y = p.r.DrawPalette(x, y, next.Palette())

	behavior := gui.ComboBox(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: 22}, p.behaviorOptions, int32(next.Behavior))
	if config.Behavior(behavior) != next.Behavior {
		next = next.Clone()
		next.Behavior = config.Behavior(behavior)
		changed = true
	}
	y += 32

	if changed {
		ev.Config = &next
	}

	y = p.r.DrawSectionHeader(x, y, "PRESETS")
	half := (w - 6) / 2
	for i, name := range p.presets {
		bx := x + int32(i%2)*(half+6)
		if gui.Button(rl.Rectangle{X: float32(bx), Y: float32(y), Width: float32(half), Height: 22}, name) {
			ev.Preset = i
		}
		if i%2 == 1 || i == len(p.presets)-1 {
			y += 28
		}
	}

	handsLabel := "Hand Tracking: Off"
	if st.HandsEnabled {
		handsLabel = "Hand Tracking: On"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y + 4), Width: float32(w), Height: 22}, handsLabel) {
		ev.ToggleHands = true
	}
	y += 36

	y = p.r.DrawSectionHeader(x, y, "GENERATE")
	box := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: 24}
	if gui.TextBox(box, &p.prompt, promptMaxLen, p.promptEdit) {
		p.promptEdit = !p.promptEdit
	}
	y += 30

	label := "Generate"
	if st.Generating {
		label = "Generating..."
	}
	submit := gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: 24}, label)
	if p.promptEdit && rl.IsKeyPressed(rl.KeyEnter) {
		submit = true
	}
	if submit {
		if prompt, ok := SubmitPrompt(p.prompt, st.Generating); ok {
			ev.Generate = prompt
			p.promptEdit = false
		}
	}
	y += 30

	if st.Error != "" {
		p.r.DrawText(x, y, st.Error, t.Error)
	}
	return ev
}

// BehaviorOptions returns the behavior names in raygui's list format.
func BehaviorOptions() string {
	names := make([]string, 0, len(config.Behaviors()))
	for _, b := range config.Behaviors() {
		names = append(names, b.String())
	}
	return strings.Join(names, ";")
}

// SubmitPrompt trims a prompt and reports whether it can be submitted. Empty
// prompts and submissions while a request is in flight are ignored.
func SubmitPrompt(prompt string, busy bool) (string, bool) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" || busy {
		return "", false
	}
	return prompt, true
}
