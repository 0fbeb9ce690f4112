// Package preset turns free-text prompts into particle configurations via a
// generative model, and merges the returned fragments over a base config.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pthm-cable/nebula/config"
)

// ErrMalformedResponse is returned when a generator response cannot be
// turned into a fragment. The active config must stay untouched.
var ErrMalformedResponse = errors.New("preset: malformed generator response")

// Range is an inclusive numeric bound from the generator schema.
type Range struct {
	Min, Max float64
}

// Clamp limits v to the range.
func (r Range) Clamp(v float64) float64 {
	return math.Min(math.Max(v, r.Min), r.Max)
}

// Schema ranges for fragment fields.
var (
	CountRange    = Range{50, 500}
	SizeMinRange  = Range{0.1, 5}
	SizeMaxRange  = Range{5, 20}
	SpeedRange    = Range{0.1, 10}
	GravityRange  = Range{-0.5, 0.5}
	WindRange     = Range{-0.2, 0.2}
	FrictionRange = Range{0.9, 0.99}
	LifeRange     = Range{50, 500}
	BlurRange     = Range{0, 10}
)

// Fragment is a partial particle config. Name, Count, Colors and Behavior
// are always present; nil optional fields keep the base value on Merge.
type Fragment struct {
	Name     string
	Count    int
	Colors   []string
	Behavior config.Behavior

	SizeMin  *float64
	SizeMax  *float64
	Speed    *float64
	Gravity  *float64
	Wind     *float64
	Friction *float64
	Life     *int
	Blur     *float64
	Glow     *bool
}

// wireFragment mirrors the JSON the generator returns.
type wireFragment struct {
	Name     *string  `json:"name"`
	Count    *float64 `json:"count"`
	Colors   []string `json:"colorRange"`
	Behavior *string  `json:"behavior"`
	SizeMin  *float64 `json:"sizeMin"`
	SizeMax  *float64 `json:"sizeMax"`
	Speed    *float64 `json:"speed"`
	Gravity  *float64 `json:"gravity"`
	Wind     *float64 `json:"wind"`
	Friction *float64 `json:"friction"`
	Life     *float64 `json:"life"`
	Blur     *float64 `json:"blur"`
	Glow     *bool    `json:"glow"`
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// ParseFragment validates a generator response and returns the normalized
// fragment. Every failure wraps ErrMalformedResponse.
func ParseFragment(data []byte) (Fragment, error) {
	var w wireFragment
	if err := json.Unmarshal(data, &w); err != nil {
		return Fragment{}, malformed("%v", err)
	}

	switch {
	case w.Name == nil || strings.TrimSpace(*w.Name) == "":
		return Fragment{}, malformed("missing name")
	case w.Count == nil:
		return Fragment{}, malformed("missing count")
	case w.Behavior == nil:
		return Fragment{}, malformed("missing behavior")
	case len(w.Colors) == 0:
		return Fragment{}, malformed("missing colorRange")
	}

	behavior, err := config.ParseBehavior(*w.Behavior)
	if err != nil {
		return Fragment{}, malformed("%v", err)
	}
	if err := config.ValidateColors(w.Colors); err != nil {
		return Fragment{}, malformed("%v", err)
	}

	f := Fragment{
		Name:     strings.TrimSpace(*w.Name),
		Count:    int(math.Round(CountRange.Clamp(*w.Count))),
		Colors:   w.Colors,
		Behavior: behavior,
		SizeMin:  w.SizeMin,
		SizeMax:  w.SizeMax,
		Speed:    w.Speed,
		Gravity:  w.Gravity,
		Wind:     w.Wind,
		Friction: w.Friction,
		Blur:     w.Blur,
		Glow:     w.Glow,
	}
	if w.Life != nil {
		life := int(math.Round(LifeRange.Clamp(*w.Life)))
		f.Life = &life
	}
	f.Normalize()
	return f, nil
}

// Normalize clamps every supplied numeric field into its schema range.
func (f *Fragment) Normalize() {
	f.Count = int(CountRange.Clamp(float64(f.Count)))
	clampPtr(f.SizeMin, SizeMinRange)
	clampPtr(f.SizeMax, SizeMaxRange)
	clampPtr(f.Speed, SpeedRange)
	clampPtr(f.Gravity, GravityRange)
	clampPtr(f.Wind, WindRange)
	clampPtr(f.Friction, FrictionRange)
	clampPtr(f.Blur, BlurRange)
	if f.Life != nil {
		*f.Life = int(LifeRange.Clamp(float64(*f.Life)))
	}
}

func clampPtr(v *float64, r Range) {
	if v != nil {
		*v = r.Clamp(*v)
	}
}

// Merge overlays the fragment on base. Only supplied fields change, and the
// result gets a fresh "ai-<unix ms>" identity. The size range is kept ordered.
func Merge(base config.ParticleConfig, f Fragment, now time.Time) config.ParticleConfig {
	out := base.Clone()
	out.ID = fmt.Sprintf("ai-%d", now.UnixMilli())
	out.Name = f.Name
	out.Count = f.Count
	out.Colors = append([]string(nil), f.Colors...)
	out.Behavior = f.Behavior

	setIf(&out.SizeMin, f.SizeMin)
	setIf(&out.SizeMax, f.SizeMax)
	setIf(&out.Speed, f.Speed)
	setIf(&out.Gravity, f.Gravity)
	setIf(&out.Wind, f.Wind)
	setIf(&out.Friction, f.Friction)
	setIf(&out.Life, f.Life)
	setIf(&out.Blur, f.Blur)
	setIf(&out.Glow, f.Glow)

	// A supplied sizeMin may exceed the base's sizeMax
	out.SizeMax = max(out.SizeMax, out.SizeMin)
	return out
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
