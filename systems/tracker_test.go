package systems

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestTargetTrackerFirstFrameIsStill(t *testing.T) {
	var tr TargetTracker
	pos, vel := tr.Update(r2.Vec{X: 320, Y: 200})

	if pos != (r2.Vec{X: 320, Y: 200}) {
		t.Errorf("position = %v", pos)
	}
	if vel != (r2.Vec{}) {
		t.Errorf("first-frame velocity = %v, want zero", vel)
	}
	if tr.Moving() {
		t.Error("tracker should not be moving on the first frame")
	}
}

func TestTargetTrackerDifferences(t *testing.T) {
	var tr TargetTracker
	tr.Update(r2.Vec{X: 0, Y: 0})

	_, vel := tr.Update(r2.Vec{X: 1, Y: 1})
	if vel != (r2.Vec{X: 1, Y: 1}) {
		t.Errorf("velocity = %v, want (1,1)", vel)
	}
	// |1|+|1| = 2 is not above the threshold
	if tr.Moving() {
		t.Error("displacement of exactly 2 should not count as moving")
	}

	_, vel = tr.Update(r2.Vec{X: 4, Y: 0})
	if vel != (r2.Vec{X: 3, Y: -1}) {
		t.Errorf("velocity = %v, want (3,-1)", vel)
	}
	if !tr.Moving() {
		t.Error("displacement of 4 should count as moving")
	}

	tr.Update(r2.Vec{X: 4, Y: 0})
	if tr.Velocity() != (r2.Vec{}) || tr.Moving() {
		t.Errorf("stationary frame velocity = %v", tr.Velocity())
	}
}

func TestTargetTrackerReset(t *testing.T) {
	var tr TargetTracker
	tr.Update(r2.Vec{X: 10})
	tr.Reset()

	_, vel := tr.Update(r2.Vec{X: 500, Y: 500})
	if vel != (r2.Vec{}) {
		t.Errorf("velocity after reset = %v, want zero", vel)
	}
}
