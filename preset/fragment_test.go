package preset

import (
	"errors"
	"testing"
	"time"

	"github.com/pthm-cable/nebula/config"
)

func baseConfig() config.ParticleConfig {
	return config.ParticleConfig{
		ID:       "cosmic-nebula",
		Name:     "Cosmic Nebula",
		Count:    300,
		SizeMin:  1,
		SizeMax:  4,
		Speed:    0.5,
		Gravity:  0,
		Wind:     0,
		Friction: 0.98,
		Life:     200,
		Colors:   []string{"#6366f1", "#a855f7"},
		Behavior: config.BehaviorChaos,
		Blur:     8,
		Glow:     true,
	}
}

func TestParseFragmentMinimal(t *testing.T) {
	f, err := ParseFragment([]byte(`{
		"name": "  Ember Storm ",
		"count": 250,
		"colorRange": ["#ff4500", "#ffd700", "#8b0000"],
		"behavior": "Explosion"
	}`))
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}
	if f.Name != "Ember Storm" || f.Count != 250 || f.Behavior != config.BehaviorExplosion {
		t.Errorf("fragment = %+v", f)
	}
	if len(f.Colors) != 3 {
		t.Errorf("colors = %v", f.Colors)
	}
	if f.Speed != nil || f.Life != nil || f.Glow != nil {
		t.Error("absent optional fields should stay nil")
	}
}

func TestParseFragmentClampsRanges(t *testing.T) {
	f, err := ParseFragment([]byte(`{
		"name": "Wild",
		"count": 5000,
		"colorRange": ["#fff"],
		"behavior": "orbit",
		"sizeMin": -3,
		"sizeMax": 40,
		"speed": 0,
		"gravity": 2,
		"wind": -1,
		"friction": 1.2,
		"life": 12.6,
		"blur": 99,
		"glow": false
	}`))
	if err != nil {
		t.Fatalf("ParseFragment: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"count", float64(f.Count), 500},
		{"sizeMin", *f.SizeMin, 0.1},
		{"sizeMax", *f.SizeMax, 20},
		{"speed", *f.Speed, 0.1},
		{"gravity", *f.Gravity, 0.5},
		{"wind", *f.Wind, -0.2},
		{"friction", *f.Friction, 0.99},
		{"life", float64(*f.Life), 50},
		{"blur", *f.Blur, 10},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if f.Glow == nil || *f.Glow {
		t.Errorf("glow = %v, want explicit false", f.Glow)
	}
}

func TestParseFragmentRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `Sure! Here's a config: {`},
		{"array", `[1,2,3]`},
		{"missing name", `{"count":100,"colorRange":["#fff"],"behavior":"chaos"}`},
		{"blank name", `{"name":"  ","count":100,"colorRange":["#fff"],"behavior":"chaos"}`},
		{"missing count", `{"name":"x","colorRange":["#fff"],"behavior":"chaos"}`},
		{"missing colors", `{"name":"x","count":100,"behavior":"chaos"}`},
		{"empty colors", `{"name":"x","count":100,"colorRange":[],"behavior":"chaos"}`},
		{"bad color", `{"name":"x","count":100,"colorRange":["#fff","teal"],"behavior":"chaos"}`},
		{"missing behavior", `{"name":"x","count":100,"colorRange":["#fff"]}`},
		{"unknown behavior", `{"name":"x","count":100,"colorRange":["#fff"],"behavior":"spiral"}`},
		{"count as string", `{"name":"x","count":"lots","colorRange":["#fff"],"behavior":"chaos"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFragment([]byte(tt.data))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("err = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestMergeReplacesOnlySuppliedFields(t *testing.T) {
	base := baseConfig()
	speed := 3.5
	glow := false
	f := Fragment{
		Name:     "Ocean Drift",
		Count:    120,
		Colors:   []string{"#0ea5e9"},
		Behavior: config.BehaviorFountain,
		Speed:    &speed,
		Glow:     &glow,
	}
	now := time.UnixMilli(1700000000123)

	got := Merge(base, f, now)

	if got.ID != "ai-1700000000123" {
		t.Errorf("ID = %q", got.ID)
	}
	if got.Name != "Ocean Drift" || got.Count != 120 || got.Behavior != config.BehaviorFountain {
		t.Errorf("required fields not applied: %+v", got)
	}
	if got.Speed != 3.5 || got.Glow {
		t.Errorf("optional fields not applied: speed %v glow %v", got.Speed, got.Glow)
	}
	// Untouched fields keep the base values
	if got.Friction != base.Friction || got.Life != base.Life || got.Blur != base.Blur || got.SizeMax != base.SizeMax {
		t.Errorf("base fields changed: %+v", got)
	}

	// The base and fragment do not share a palette with the result
	got.Colors[0] = "#000000"
	if base.Colors[0] == "#000000" || f.Colors[0] == "#000000" {
		t.Error("merge aliased a palette")
	}
}

func TestMergeKeepsSizeRangeOrdered(t *testing.T) {
	f64 := func(v float64) *float64 { return &v }
	tests := []struct {
		name             string
		sizeMin, sizeMax *float64
		wantMin, wantMax float64
	}{
		{"neither supplied", nil, nil, 1, 4},
		{"min below base max", f64(2.5), nil, 2.5, 4},
		{"min above base max", f64(5), nil, 5, 5},
		{"max below base min", nil, f64(0.5), 1, 1},
		{"both supplied inverted", f64(4.5), f64(2), 4.5, 4.5},
		{"both supplied ordered", f64(0.5), f64(12), 0.5, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Fragment{
				Name:     "x",
				Count:    100,
				Colors:   []string{"#ffffff"},
				Behavior: config.BehaviorOrbit,
				SizeMin:  tt.sizeMin,
				SizeMax:  tt.sizeMax,
			}
			got := Merge(baseConfig(), f, time.UnixMilli(1))
			if got.SizeMin != tt.wantMin || got.SizeMax != tt.wantMax {
				t.Errorf("size range = [%v, %v], want [%v, %v]", got.SizeMin, got.SizeMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestMergeIdentityChangesOverTime(t *testing.T) {
	f, err := ParseFragment([]byte(`{"name":"x","count":100,"colorRange":["#fff"],"behavior":"vortex"}`))
	if err != nil {
		t.Fatal(err)
	}
	a := Merge(baseConfig(), f, time.UnixMilli(1000))
	b := Merge(baseConfig(), f, time.UnixMilli(2000))
	if a.ID == b.ID {
		t.Errorf("two merges share identity %q", a.ID)
	}
}

func TestRangeClamp(t *testing.T) {
	r := Range{Min: -1, Max: 1}
	for _, tt := range []struct{ in, want float64 }{
		{-5, -1}, {-1, -1}, {0.25, 0.25}, {1, 1}, {9, 1},
	} {
		if got := r.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
