package systems

import (
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/config"
)

// FrameInput is everything one simulation step reads.
type FrameInput struct {
	Config      *config.ParticleConfig
	Target      *r2.Vec // external tracker position; nil when absent
	Pointer     *r2.Vec // pointer position; nil until the pointer is known
	Interacting bool
	Width       int
	Height      int
}

// FrameResult summarizes one simulation step.
type FrameResult struct {
	Frame      int64
	Target     r2.Vec
	TargetVel  r2.Vec
	Spawned    int
	Expired    int
	Reclaimed  int
	Population int
}

// Phase names reported to a PhaseTimer during Step.
const (
	PhaseTarget    = "target"
	PhaseSpawn     = "spawn"
	PhaseIntegrate = "integrate"
)

// PhaseTimer receives phase boundaries from Step.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Simulation is one engine instance: the particle pool and target state
// survive across frames, everything else comes in through FrameInput.
type Simulation struct {
	rng     RandSource
	pool    *Pool
	tracker TargetTracker
	frame   int64
	timer   PhaseTimer

	// Palette cache, rebuilt when the configured colors change
	paletteSrc []string
	palette    []colorful.Color
}

// NewSimulation creates an engine drawing randomness from rng.
func NewSimulation(rng RandSource) *Simulation {
	return &Simulation{
		rng:  rng,
		pool: NewPool(),
	}
}

// Step runs one frame: resolve the target, update the tracker, spawn, then
// integrate, age and retire every particle.
func (s *Simulation) Step(in FrameInput) FrameResult {
	bounds := Bounds{Width: float64(max(in.Width, 0)), Height: float64(max(in.Height, 0))}
	cfg := in.Config

	s.startPhase(PhaseTarget)
	target, targetVel := s.tracker.Update(ResolveTarget(in.Target, in.Pointer, bounds))

	res := FrameResult{Target: target, TargetVel: targetVel}

	s.startPhase(PhaseSpawn)
	budget := SpawnBudget(s.pool.Count(), cfg.Count, s.tracker.Moving())
	if budget > 0 {
		palette := s.paletteFor(cfg)
		for i := 0; i < budget; i++ {
			s.pool.Spawn(NewSpawn(s.rng, cfg, palette, target, targetVel))
		}
		res.Spawned = budget
	}

	s.startPhase(PhaseIntegrate)
	stats := s.pool.Update(ForceField{
		Behavior:    cfg.Behavior,
		Friction:    cfg.Friction,
		Target:      target,
		Interacting: in.Interacting,
	}, bounds)

	s.frame++
	res.Frame = s.frame
	res.Expired = stats.Expired
	res.Reclaimed = stats.Reclaimed
	res.Population = s.pool.Count()
	return res
}

// SetPhaseTimer installs a timer notified at each phase of Step. Nil disables
// timing.
func (s *Simulation) SetPhaseTimer(t PhaseTimer) {
	s.timer = t
}

func (s *Simulation) startPhase(phase string) {
	if s.timer != nil {
		s.timer.StartPhase(phase)
	}
}

// Particles appends the live particles to dst.
func (s *Simulation) Particles(dst []Particle) []Particle {
	return s.pool.Particles(dst)
}

// Population returns the number of live particles.
func (s *Simulation) Population() int {
	return s.pool.Count()
}

// Frame returns the number of completed steps.
func (s *Simulation) Frame() int64 {
	return s.frame
}

// Tracker exposes the target state recorded by the last step.
func (s *Simulation) Tracker() *TargetTracker {
	return &s.tracker
}

// Reset drops every particle and the target history.
func (s *Simulation) Reset() {
	s.pool.Clear()
	s.tracker.Reset()
}

func (s *Simulation) paletteFor(cfg *config.ParticleConfig) []colorful.Color {
	if s.palette == nil || !slices.Equal(s.paletteSrc, cfg.Colors) {
		s.paletteSrc = slices.Clone(cfg.Colors)
		s.palette = cfg.Palette()
	}
	return s.palette
}

// ResolveTarget picks the frame's target: the external tracker if present,
// then the pointer, then the viewport center. Only absence falls through; a
// target at the origin is a real target.
func ResolveTarget(target, pointer *r2.Vec, bounds Bounds) r2.Vec {
	switch {
	case target != nil:
		return *target
	case pointer != nil:
		return *pointer
	default:
		return bounds.Center()
	}
}

// SanitizeConfig replaces non-finite numeric fields with the fallback's
// values. It reports whether anything was replaced.
func SanitizeConfig(cfg config.ParticleConfig, fallback config.ParticleConfig) (config.ParticleConfig, bool) {
	fields := []struct {
		v  *float64
		fb float64
	}{
		{&cfg.SizeMin, fallback.SizeMin},
		{&cfg.SizeMax, fallback.SizeMax},
		{&cfg.Speed, fallback.Speed},
		{&cfg.Gravity, fallback.Gravity},
		{&cfg.Wind, fallback.Wind},
		{&cfg.Friction, fallback.Friction},
		{&cfg.Blur, fallback.Blur},
	}

	replaced := false
	for _, f := range fields {
		if math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			*f.v = f.fb
			replaced = true
		}
	}
	return cfg, replaced
}
