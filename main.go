package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/game"
	"github.com/pthm-cable/nebula/handtrack"
	"github.com/pthm-cable/nebula/preset"
	"github.com/pthm-cable/nebula/storage"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and PNG snapshots")
	snapshotEvery := flag.Int("snapshot-every", 0, "Headless frames between PNG snapshots (0 = off, needs -output-dir)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	presetName := flag.String("preset", "", "Initial preset name (empty = use config)")
	path := flag.String("path", "center", "Headless target path: center or circle")
	hands := flag.Bool("hands", false, "Accept hand-tracking frames and start with hand control on")
	dbPath := flag.String("db", "", "Saved preset database (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if *hands {
		cfg.HandTracking.Enabled = true
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}

	targetPath, err := game.ParseTargetPath(*path)
	if err != nil {
		slog.Error("invalid flag", "flag", "path", "error", err)
		os.Exit(1)
	}
	if *snapshotEvery > 0 && *outputDir == "" {
		slog.Warn("snapshots need -output-dir, disabling")
		*snapshotEvery = 0
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := game.Options{
		Seed:          rngSeed,
		Headless:      *headless,
		Preset:        *presetName,
		Path:          targetPath,
		LogStats:      *logStats,
		OutputDir:     *outputDir,
		SnapshotEvery: *snapshotEvery,
	}

	if cfg.Storage.DBPath != "" {
		store, err := storage.Open(cfg.Storage.DBPath)
		if err != nil {
			slog.Error("failed to open preset store, saving disabled", "path", cfg.Storage.DBPath, "error", err)
		} else {
			defer store.Close()
			opts.Store = store
		}
	}

	gen, err := preset.NewGeminiGenerator(ctx, cfg.Generator)
	switch {
	case errors.Is(err, preset.ErrMissingAPIKey):
		slog.Info("preset generation disabled", "reason", err)
	case err != nil:
		slog.Error("failed to create preset generator", "error", err)
	default:
		opts.Generator = gen
	}

	if cfg.HandTracking.Enabled {
		srv := handtrack.NewServer(handtrack.Options{
			Addr:           cfg.HandTracking.Listen,
			PinchThreshold: cfg.HandTracking.PinchThreshold,
			Mirror:         cfg.HandTracking.Mirror,
		})
		go func() {
			if err := srv.ListenAndServe(ctx); err != nil {
				slog.Error("hand tracking server stopped", "error", err)
			}
		}()
		opts.Hands = srv
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := game.NewGameWithOptions(ctx, opts)
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"preset", g.Config().Name,
			"path", targetPath.String(),
			"max_frames", *maxFrames,
		)

		if err := g.Run(ctx, *maxFrames); err != nil {
			slog.Info("stopped", "frame", g.Frame(), "reason", err)
			return
		}
		slog.Info("max frames reached", "frame", g.Frame())
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGameWithOptions(ctx, opts)
	defer g.Unload()

	for !rl.WindowShouldClose() && ctx.Err() == nil {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && g.Frame() >= *maxFrames {
			break
		}
	}
}
