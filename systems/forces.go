package systems

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/config"
)

// Force model constants.
const (
	AttractionRadius   = 800.0 // pull reaches zero at this distance
	AttractionStrength = 0.005
	VortexStrength     = 0.2
	OrbitRadius        = 400.0 // orbit pull applies inside this distance
	OrbitStrength      = 0.0008
	minForceDistance   = 1.0 // directional forces are skipped at or below this distance
)

// ForceField holds the per-frame inputs shared by every particle's update.
type ForceField struct {
	Behavior    config.Behavior
	Friction    float64
	Target      r2.Vec
	Interacting bool
}

// Apply returns the particle's velocity after bias, friction, interaction
// attraction and the behavior force, in that order.
func (f ForceField) Apply(pos, vel, bias r2.Vec) r2.Vec {
	vel = BaseVelocity(vel, bias, f.Friction)
	if f.Interacting {
		vel = r2.Add(vel, Attraction(pos, f.Target))
	}
	return r2.Add(vel, BehaviorForce(f.Behavior, pos, f.Target))
}

// BaseVelocity adds the constant bias and then applies multiplicative friction.
func BaseVelocity(vel, bias r2.Vec, friction float64) r2.Vec {
	return r2.Scale(friction, r2.Add(vel, bias))
}

// Attraction is the interaction pull toward the target: magnitude
// max(0, 800-d)*0.005 along the unit vector to the target, zero within 1 unit.
func Attraction(pos, target r2.Vec) r2.Vec {
	d := r2.Sub(pos, target)
	dist := r2.Norm(d)
	if dist <= minForceDistance {
		return r2.Vec{}
	}
	pull := max(0, AttractionRadius-dist) * AttractionStrength
	return r2.Scale(-pull/dist, d)
}

// BehaviorForce returns the continuous velocity delta for the selected behavior.
// Fountain, explosion and chaos have no continuous force; their character comes
// from the spawn velocity distribution.
func BehaviorForce(b config.Behavior, pos, target r2.Vec) r2.Vec {
	switch b {
	case config.BehaviorVortex:
		return vortexForce(pos, target)
	case config.BehaviorOrbit:
		return orbitForce(pos, target)
	case config.BehaviorFountain, config.BehaviorExplosion, config.BehaviorChaos:
		return r2.Vec{}
	default:
		return r2.Vec{}
	}
}

// vortexForce is a constant-magnitude push perpendicular to the radius vector.
func vortexForce(pos, target r2.Vec) r2.Vec {
	d := r2.Sub(pos, target)
	dist := r2.Norm(d)
	if dist <= minForceDistance {
		return r2.Vec{}
	}
	return r2.Scale(VortexStrength, r2.Vec{X: -d.Y / dist, Y: d.X / dist})
}

// orbitForce is a spring-like pull proportional to the raw offset, active
// only inside OrbitRadius.
func orbitForce(pos, target r2.Vec) r2.Vec {
	d := r2.Sub(pos, target)
	dist := r2.Norm(d)
	if dist >= OrbitRadius {
		return r2.Vec{}
	}
	pull := (OrbitRadius - dist) * OrbitStrength
	return r2.Scale(-pull, d)
}
