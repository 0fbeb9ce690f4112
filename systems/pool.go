package systems

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/nebula/components"
)

// ReclaimMargin extends the viewport on every side; particles beyond it are
// removed even while alive.
const ReclaimMargin = 400.0

// Particle is the render-facing view of one live particle.
type Particle struct {
	Pos     r2.Vec
	Vel     r2.Vec
	Size    float64
	Color   colorful.Color
	Opacity float64
	Life    int
	MaxLife int
}

// UpdateStats counts what happened to the pool during one Update.
type UpdateStats struct {
	Expired   int // life reached zero
	Reclaimed int // left the extended viewport while alive
}

// Bounds is the viewport a frame is simulated against.
type Bounds struct {
	Width, Height float64
}

// Contains reports whether p lies inside the viewport grown by ReclaimMargin.
func (b Bounds) Contains(p r2.Vec) bool {
	return p.X >= -ReclaimMargin && p.X <= b.Width+ReclaimMargin &&
		p.Y >= -ReclaimMargin && p.Y <= b.Height+ReclaimMargin
}

// Center returns the middle of the viewport.
func (b Bounds) Center() r2.Vec {
	return r2.Vec{X: b.Width / 2, Y: b.Height / 2}
}

// Pool owns the live particles. Particles are ECS entities in a private
// ark world.
type Pool struct {
	world  *ecs.World
	mapper *ecs.Map5[
		components.Position,
		components.Velocity,
		components.Bias,
		components.Appearance,
		components.Life,
	]
	filter *ecs.Filter5[
		components.Position,
		components.Velocity,
		components.Bias,
		components.Appearance,
		components.Life,
	]

	count int
	dead  []ecs.Entity // reused removal buffer
}

// NewPool creates an empty particle pool.
func NewPool() *Pool {
	world := ecs.NewWorld()
	return &Pool{
		world: world,
		mapper: ecs.NewMap5[
			components.Position,
			components.Velocity,
			components.Bias,
			components.Appearance,
			components.Life,
		](world),
		filter: ecs.NewFilter5[
			components.Position,
			components.Velocity,
			components.Bias,
			components.Appearance,
			components.Life,
		](world),
	}
}

// Count returns the number of live particles.
func (p *Pool) Count() int {
	return p.count
}

// Spawn adds a particle.
func (p *Pool) Spawn(s Spawn) {
	p.mapper.NewEntity(&s.Position, &s.Velocity, &s.Bias, &s.Appearance, &s.Life)
	p.count++
}

// Update advances every particle by one frame: forces, position, aging, then
// removal of expired and out-of-bounds particles.
func (p *Pool) Update(field ForceField, bounds Bounds) UpdateStats {
	var stats UpdateStats
	p.dead = p.dead[:0]

	query := p.filter.Query()
	for query.Next() {
		pos, vel, bias, _, life := query.Get()

		vel.Vec = field.Apply(pos.Vec, vel.Vec, bias.Vec)
		pos.Vec = r2.Add(pos.Vec, vel.Vec)

		expired := life.Tick()
		switch {
		case expired:
			stats.Expired++
		case !bounds.Contains(pos.Vec):
			stats.Reclaimed++
		default:
			continue
		}
		p.dead = append(p.dead, query.Entity())
	}

	// Removal must wait until the query has released the world
	for _, e := range p.dead {
		p.world.RemoveEntity(e)
	}
	p.count -= len(p.dead)

	return stats
}

// Particles appends a view of every live particle to dst and returns it.
func (p *Pool) Particles(dst []Particle) []Particle {
	query := p.filter.Query()
	for query.Next() {
		pos, vel, _, look, life := query.Get()
		dst = append(dst, Particle{
			Pos:     pos.Vec,
			Vel:     vel.Vec,
			Size:    look.Size,
			Color:   look.Color,
			Opacity: life.Opacity,
			Life:    life.Remaining,
			MaxLife: life.Max,
		})
	}
	return dst
}

// Clear removes every particle.
func (p *Pool) Clear() {
	p.dead = p.dead[:0]
	query := p.filter.Query()
	for query.Next() {
		p.dead = append(p.dead, query.Entity())
	}
	for _, e := range p.dead {
		p.world.RemoveEntity(e)
	}
	p.count = 0
}
