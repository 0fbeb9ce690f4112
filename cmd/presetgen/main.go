// Command presetgen generates particle presets from a text prompt and
// manages the saved preset store.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/preset"
	"github.com/pthm-cable/nebula/storage"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	prompt := flag.String("prompt", "", "Describe the particle system to generate")
	base := flag.String("base", "", "Preset to merge over (empty = active preset)")
	save := flag.Bool("save", false, "Save the generated preset to the store")
	list := flag.Bool("list", false, "List saved presets")
	show := flag.String("show", "", "Print a saved preset by ID")
	del := flag.String("delete", "", "Delete a saved preset by ID")
	dbPath := flag.String("db", "", "Saved preset database (empty = use config)")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	if err := config.Init(*configPath); err != nil {
		fatal("failed to load config", err)
	}
	cfg := config.Cfg()
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	switch {
	case *list:
		store := openStore(cfg.Storage.DBPath)
		defer store.Close()
		if err := listPresets(store); err != nil {
			fatal("failed to list presets", err)
		}

	case *show != "":
		store := openStore(cfg.Storage.DBPath)
		defer store.Close()
		saved, err := store.PresetByID(*show)
		if err != nil {
			fatal("failed to load preset", err)
		}
		printYAML(saved.Config)

	case *del != "":
		store := openStore(cfg.Storage.DBPath)
		defer store.Close()
		if err := store.DeletePreset(*del); err != nil {
			fatal("failed to delete preset", err)
		}
		slog.Info("preset deleted", "id", *del)

	case *prompt != "":
		p, err := generate(cfg, *base, *prompt)
		if err != nil {
			fatal("generation failed", err)
		}
		printYAML(p)
		if *save {
			store := openStore(cfg.Storage.DBPath)
			defer store.Close()
			if err := store.SavePreset(p, *prompt, time.Now()); err != nil {
				fatal("failed to save preset", err)
			}
			slog.Info("preset saved", "id", p.ID, "name", p.Name)
		}

	default:
		flag.Usage()
		os.Exit(2)
	}
}

// generate runs one generation and merges the fragment over the base preset.
func generate(cfg *config.Config, baseName, prompt string) (config.ParticleConfig, error) {
	base := cfg.DefaultPreset()
	if baseName != "" {
		p, ok := cfg.Preset(baseName)
		if !ok {
			return config.ParticleConfig{}, fmt.Errorf("unknown base preset %q", baseName)
		}
		base = p
	}

	timeout := cfg.Generator.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	gen, err := preset.NewGeminiGenerator(ctx, cfg.Generator)
	if err != nil {
		return config.ParticleConfig{}, err
	}
	frag, err := gen.Generate(ctx, prompt)
	if err != nil {
		return config.ParticleConfig{}, err
	}
	return preset.Merge(base, frag, time.Now()), nil
}

func listPresets(store *storage.Store) error {
	saved, err := store.Presets(0)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBEHAVIOR\tCOUNT\tCREATED\tPROMPT")
	for _, s := range saved {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			s.Config.ID, s.Config.Name, s.Config.Behavior, s.Config.Count,
			s.CreatedAt.Format(time.DateTime), s.Prompt)
	}
	return w.Flush()
}

func openStore(path string) *storage.Store {
	if path == "" {
		fatal("no preset database configured", fmt.Errorf("set storage.db_path or -db"))
	}
	store, err := storage.Open(path)
	if err != nil {
		fatal("failed to open preset store", err)
	}
	return store
}

func printYAML(p config.ParticleConfig) {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(p); err != nil {
		fatal("failed to encode preset", err)
	}
	enc.Close()
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
