package game

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// TargetPath scripts the target in headless runs.
type TargetPath uint8

const (
	// PathCenter leaves the target absent so the engine uses the viewport
	// center, a perfectly stationary target.
	PathCenter TargetPath = iota
	// PathCircle moves the target around the center.
	PathCircle
)

// Circle path parameters.
const (
	CircleRadiusFrac = 0.25 // of the smaller viewport side
	CircleAngularVel = 0.02 // radians per frame
)

// ParseTargetPath maps "center" or "circle" to a TargetPath.
func ParseTargetPath(s string) (TargetPath, error) {
	switch s {
	case "", "center":
		return PathCenter, nil
	case "circle":
		return PathCircle, nil
	default:
		return 0, fmt.Errorf("unknown target path %q", s)
	}
}

func (p TargetPath) String() string {
	if p == PathCircle {
		return "circle"
	}
	return "center"
}

// At returns the scripted target for a frame, or nil when the engine should
// fall back to its default.
func (p TargetPath) At(frame int64, width, height int) *r2.Vec {
	if p != PathCircle {
		return nil
	}
	r := CircleRadiusFrac * float64(min(width, height))
	theta := CircleAngularVel * float64(frame)
	return &r2.Vec{
		X: float64(width)/2 + r*math.Cos(theta),
		Y: float64(height)/2 + r*math.Sin(theta),
	}
}
