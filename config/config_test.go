package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Presets) != 3 {
		t.Fatalf("expected 3 built-in presets, got %d", len(cfg.Presets))
	}

	wantOrder := []string{"Cosmic Nebula", "Solar Flare", "Deep Sea"}
	for i, name := range wantOrder {
		if cfg.Presets[i].Name != name {
			t.Errorf("preset %d = %q, want %q", i, cfg.Presets[i].Name, name)
		}
	}

	nebula := cfg.DefaultPreset()
	if nebula.Count != 300 || nebula.Behavior != BehaviorChaos || !nebula.Glow {
		t.Errorf("unexpected default preset: %+v", nebula)
	}
	if cfg.Generator.Timeout != 30*time.Second {
		t.Errorf("generator timeout = %v, want 30s", cfg.Generator.Timeout)
	}
	if cfg.Derived.ScreenW32 != 1280 {
		t.Errorf("derived screen width = %v, want 1280", cfg.Derived.ScreenW32)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("screen:\n  width: 800\n  height: 600\nactive_preset: Deep Sea\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Screen.Width != 800 || cfg.Screen.Height != 600 {
		t.Errorf("screen = %dx%d, want 800x600", cfg.Screen.Width, cfg.Screen.Height)
	}
	// Untouched fields keep their defaults
	if cfg.Screen.TargetFPS != 60 {
		t.Errorf("target fps = %d, want 60", cfg.Screen.TargetFPS)
	}
	if got := cfg.DefaultPreset().Behavior; got != BehaviorOrbit {
		t.Errorf("active preset behavior = %v, want orbit", got)
	}
}

func TestLoadRejectsUnknownActivePreset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("active_preset: Nope\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown active preset")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() of written config failed: %v", err)
	}
	if reloaded.Presets[1].Behavior != BehaviorFountain {
		t.Errorf("behavior lost in roundtrip: %v", reloaded.Presets[1].Behavior)
	}
}

func TestParseBehavior(t *testing.T) {
	tests := []struct {
		in      string
		want    Behavior
		wantErr bool
	}{
		{"fountain", BehaviorFountain, false},
		{"VORTEX", BehaviorVortex, false},
		{" explosion ", BehaviorExplosion, false},
		{"chaos", BehaviorChaos, false},
		{"orbit", BehaviorOrbit, false},
		{"spiral", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBehavior(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBehavior(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseBehavior(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBehaviorJSONTag(t *testing.T) {
	var p ParticleConfig
	if err := json.Unmarshal([]byte(`{"behavior":"orbit","colorRange":["#fff"]}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Behavior != BehaviorOrbit {
		t.Errorf("behavior = %v, want orbit", p.Behavior)
	}
	if len(p.Colors) != 1 {
		t.Errorf("colorRange not mapped onto Colors: %v", p.Colors)
	}
}

func TestPaletteSkipsInvalid(t *testing.T) {
	p := ParticleConfig{Colors: []string{"#ff0000", "not-a-color", "#0000ff"}}
	pal := p.Palette()
	if len(pal) != 2 {
		t.Fatalf("expected 2 parsed colors, got %d", len(pal))
	}
	if pal[0].R != 1 || pal[1].B != 1 {
		t.Errorf("unexpected palette: %+v", pal)
	}

	empty := ParticleConfig{}.Palette()
	if len(empty) != 1 || empty[0].R != 1 || empty[0].G != 1 || empty[0].B != 1 {
		t.Errorf("empty palette should fall back to white, got %+v", empty)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	a := ParticleConfig{Colors: []string{"#ffffff"}}
	b := a.Clone()
	b.Colors[0] = "#000000"
	if a.Colors[0] != "#ffffff" {
		t.Error("Clone shares the palette backing array")
	}
}

func TestSlugify(t *testing.T) {
	if got := slugify("Cosmic Nebula!"); got != "cosmic-nebula" {
		t.Errorf("slugify = %q", got)
	}
}
