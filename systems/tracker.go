package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// MotionThreshold is the per-frame target displacement (|dx|+|dy|) above
// which the emitter counts as moving.
const MotionThreshold = 2.0

// TargetTracker derives the emitter's per-frame velocity by differencing
// consecutive target positions.
//
// The first observed position seeds the previous position, so the velocity
// on the first frame is zero.
type TargetTracker struct {
	position r2.Vec
	previous r2.Vec
	velocity r2.Vec
	seeded   bool
}

// Update records this frame's authoritative target position and returns the
// position and the velocity relative to the previous frame.
func (t *TargetTracker) Update(pos r2.Vec) (r2.Vec, r2.Vec) {
	if !t.seeded {
		t.previous = pos
		t.seeded = true
	}
	t.velocity = r2.Sub(pos, t.previous)
	t.previous = pos
	t.position = pos
	return t.position, t.velocity
}

// Position returns the target position recorded by the last Update.
func (t *TargetTracker) Position() r2.Vec {
	return t.position
}

// Velocity returns the target velocity computed by the last Update.
func (t *TargetTracker) Velocity() r2.Vec {
	return t.velocity
}

// Moving reports whether the target moved faster than MotionThreshold.
func (t *TargetTracker) Moving() bool {
	return math.Abs(t.velocity.X)+math.Abs(t.velocity.Y) > MotionThreshold
}

// Reset forgets the previous position; the next Update reseeds.
func (t *TargetTracker) Reset() {
	*t = TargetTracker{}
}
