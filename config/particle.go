package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Behavior selects the force model shaping particle motion after spawn.
type Behavior uint8

const (
	BehaviorFountain Behavior = iota
	BehaviorVortex
	BehaviorExplosion
	BehaviorChaos
	BehaviorOrbit

	numBehaviors
)

var behaviorNames = [numBehaviors]string{
	BehaviorFountain:  "fountain",
	BehaviorVortex:    "vortex",
	BehaviorExplosion: "explosion",
	BehaviorChaos:     "chaos",
	BehaviorOrbit:     "orbit",
}

// Behaviors returns every behavior in declaration order.
func Behaviors() []Behavior {
	out := make([]Behavior, 0, numBehaviors)
	for b := Behavior(0); b < numBehaviors; b++ {
		out = append(out, b)
	}
	return out
}

// ParseBehavior maps a behavior tag ("fountain", "vortex", ...) to its Behavior.
func ParseBehavior(s string) (Behavior, error) {
	tag := strings.ToLower(strings.TrimSpace(s))
	for i, name := range behaviorNames {
		if name == tag {
			return Behavior(i), nil
		}
	}
	return 0, fmt.Errorf("unknown behavior %q", s)
}

func (b Behavior) String() string {
	if b >= numBehaviors {
		return fmt.Sprintf("behavior(%d)", uint8(b))
	}
	return behaviorNames[b]
}

// MarshalText implements encoding.TextMarshaler (used by both YAML and JSON).
func (b Behavior) MarshalText() ([]byte, error) {
	if b >= numBehaviors {
		return nil, fmt.Errorf("invalid behavior %d", uint8(b))
	}
	return []byte(behaviorNames[b]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Behavior) UnmarshalText(text []byte) error {
	parsed, err := ParseBehavior(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParticleConfig describes one particle system: population, sizes, forces,
// palette, lifetime and look. The engine treats it as an immutable value for
// the duration of a frame; edits produce a new value.
type ParticleConfig struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	Count    int      `yaml:"count" json:"count"`
	SizeMin  float64  `yaml:"size_min" json:"sizeMin"`
	SizeMax  float64  `yaml:"size_max" json:"sizeMax"`
	Speed    float64  `yaml:"speed" json:"speed"`
	Gravity  float64  `yaml:"gravity" json:"gravity"`
	Wind     float64  `yaml:"wind" json:"wind"`         // rightward acceleration
	Friction float64  `yaml:"friction" json:"friction"` // per-frame velocity multiplier
	Life     int      `yaml:"life" json:"life"`         // baseline lifetime in frames
	Colors   []string `yaml:"colors" json:"colorRange"` // hex colors
	Behavior Behavior `yaml:"behavior" json:"behavior"`
	Blur     float64  `yaml:"blur" json:"blur"` // bloom radius
	Glow     bool     `yaml:"glow" json:"glow"`
}

// Clone returns a deep copy so edits never alias the palette of a live config.
func (p ParticleConfig) Clone() ParticleConfig {
	p.Colors = slices.Clone(p.Colors)
	return p
}

// Palette resolves the hex colors. Unparseable entries are skipped; an empty
// result yields a single white entry so callers can always sample from it.
func (p ParticleConfig) Palette() []colorful.Color {
	out := make([]colorful.Color, 0, len(p.Colors))
	for _, hex := range p.Colors {
		c, err := colorful.Hex(hex)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		out = append(out, colorful.Color{R: 1, G: 1, B: 1})
	}
	return out
}

// ValidateColors reports the first color that does not parse as a hex color.
func ValidateColors(colors []string) error {
	for _, hex := range colors {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("color %q: %w", hex, err)
		}
	}
	return nil
}

func slugify(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
