package systems

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/components"
	"github.com/pthm-cable/nebula/config"
)

// Spawn policy constants.
const (
	BurstSpawnRate       = 10   // particles per frame while the target moves
	IdleSpawnRate        = 3    // particles per frame while the target rests
	MomentumInheritance  = 0.15 // share of target velocity passed to new particles
	FountainInheritance  = 0.2
	fountainVerticalGain = 2.0
)

// RandSource is the random stream consumed by the emitter.
// *rand.Rand satisfies it.
type RandSource interface {
	Float64() float64
}

// SpawnBudget returns how many particles may be created this frame: a burst
// while moving, a trickle at rest, never past the population target.
func SpawnBudget(population, target int, moving bool) int {
	if population >= target {
		return 0
	}
	rate := IdleSpawnRate
	if moving {
		rate = BurstSpawnRate
	}
	return min(rate, target-population)
}

// Spawn is the full initial state of a particle.
type Spawn struct {
	Position   components.Position
	Velocity   components.Velocity
	Bias       components.Bias
	Appearance components.Appearance
	Life       components.Life
}

// NewSpawn samples a particle emitted at origin by a target moving with
// targetVel.
func NewSpawn(rng RandSource, cfg *config.ParticleConfig, palette []colorful.Color, origin, targetVel r2.Vec) Spawn {
	size := rng.Float64()*(cfg.SizeMax-cfg.SizeMin) + cfg.SizeMin

	color := colorful.Color{R: 1, G: 1, B: 1}
	if len(palette) > 0 {
		idx := int(rng.Float64() * float64(len(palette)))
		color = palette[min(idx, len(palette)-1)]
	}

	var vel r2.Vec
	if cfg.Behavior == config.BehaviorFountain {
		vel = r2.Vec{
			X: (rng.Float64()-0.5)*cfg.Speed + targetVel.X*FountainInheritance,
			Y: -rng.Float64()*cfg.Speed*fountainVerticalGain + targetVel.Y*FountainInheritance,
		}
	} else {
		vel = r2.Add(r2.Vec{
			X: (rng.Float64() - 0.5) * cfg.Speed,
			Y: (rng.Float64() - 0.5) * cfg.Speed,
		}, r2.Scale(MomentumInheritance, targetVel))
	}

	base := float64(cfg.Life)
	life := int(math.Floor(rng.Float64()*base + 0.5*base))

	return Spawn{
		Position:   components.Position{Vec: origin},
		Velocity:   components.Velocity{Vec: vel},
		Bias:       components.Bias{Vec: r2.Vec{X: cfg.Wind, Y: cfg.Gravity}},
		Appearance: components.Appearance{Size: size, Color: color},
		Life:       components.NewLife(life),
	}
}
