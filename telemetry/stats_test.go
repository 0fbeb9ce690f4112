package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/config"
	"github.com/pthm-cable/nebula/systems"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{5}, Distribution{Mean: 5, P10: 5, P50: 5, P90: 5}},
		{
			"one to ten",
			[]float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1},
			Distribution{Mean: 5.5, Std: math.Sqrt(8.25), P10: 1, P50: 5, P90: 9},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.values)
			if math.Abs(got.Mean-tt.want.Mean) > 1e-9 || math.Abs(got.Std-tt.want.Std) > 1e-9 {
				t.Errorf("mean/std = %v/%v, want %v/%v", got.Mean, got.Std, tt.want.Mean, tt.want.Std)
			}
			if got.P10 != tt.want.P10 || got.P50 != tt.want.P50 || got.P90 != tt.want.P90 {
				t.Errorf("percentiles = %v/%v/%v, want %v/%v/%v",
					got.P10, got.P50, got.P90, tt.want.P10, tt.want.P50, tt.want.P90)
			}
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Summarize(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(4)
	cfg := &config.ParticleConfig{Name: "Deep Sea", Count: 50, Behavior: config.BehaviorOrbit}

	results := []systems.FrameResult{
		{Spawned: 3},
		{Spawned: 10, Expired: 1},
		{Spawned: 10, Reclaimed: 2},
		{Spawned: 3, Expired: 4},
	}
	for i, res := range results {
		if c.ShouldFlush(int64(i)) {
			t.Fatalf("flush requested early at frame %d", i)
		}
		c.Record(res, i%2 == 0, i == 1 || i == 2)
	}
	if !c.ShouldFlush(4) {
		t.Fatal("window of 4 frames not complete at frame 4")
	}

	particles := []systems.Particle{
		{Pos: r2.Vec{X: 3, Y: 4}, Vel: r2.Vec{X: 3, Y: 4}, Opacity: 1},
		{Pos: r2.Vec{}, Vel: r2.Vec{}, Opacity: 0.5},
	}
	stats := c.Flush(4, cfg, particles, r2.Vec{})

	if stats.Spawned != 26 || stats.Expired != 5 || stats.Reclaimed != 2 {
		t.Errorf("counts = %d/%d/%d", stats.Spawned, stats.Expired, stats.Reclaimed)
	}
	if stats.Population != 2 || stats.Target != 50 {
		t.Errorf("population = %d target = %d", stats.Population, stats.Target)
	}
	if stats.InteractFrac != 0.5 || stats.MovingFrac != 0.5 {
		t.Errorf("fractions = %v/%v", stats.InteractFrac, stats.MovingFrac)
	}
	if stats.SpeedMean != 2.5 || stats.SpreadMean != 2.5 || stats.OpacityMean != 0.75 {
		t.Errorf("distributions = speed %v spread %v opacity %v", stats.SpeedMean, stats.SpreadMean, stats.OpacityMean)
	}
	if stats.Preset != "Deep Sea" || stats.Behavior != "orbit" {
		t.Errorf("labels = %q %q", stats.Preset, stats.Behavior)
	}

	// Counters reset for the next window
	if c.ShouldFlush(5) {
		t.Error("new window flushed after one frame")
	}
	next := c.Flush(8, cfg, nil, r2.Vec{})
	if next.WindowStart != 4 || next.Spawned != 0 || next.InteractFrac != 0 {
		t.Errorf("next window = %+v", next)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 3; i++ {
		if err := om.WriteTelemetry(WindowStats{WindowEnd: int64(i * 600), Preset: "Solar Flare", Population: i}); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.WritePerf(PerfStats{}, 600); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []WindowStats
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("reading telemetry.csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (header written once)", len(rows))
	}
	if rows[2].WindowEnd != 1800 || rows[2].Population != 3 || rows[2].Preset != "Solar Flare" {
		t.Errorf("last row = %+v", rows[2])
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(perf), "window_end,avg_frame_us") {
		t.Errorf("perf.csv header = %q", strings.SplitN(string(perf), "\n", 2)[0])
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if _, err := om.SnapshotPath(1); err == nil {
		t.Error("SnapshotPath on disabled output should fail")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerSnapshotPath(t *testing.T) {
	om, err := NewOutputManager(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer om.Close()

	path, err := om.SnapshotPath(42)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "frame_0000042.png" {
		t.Errorf("path = %s", path)
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("snapshot dir not created: %v", err)
	}
}
