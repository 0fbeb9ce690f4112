// Package handtrack turns hand-landmark frames from a camera sidecar into a
// target position and a pinch signal.
package handtrack

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Landmark indices in the 21-point hand model.
const (
	ThumbTip = 4
	IndexTip = 8
)

// DefaultPinchThreshold is the normalized index-thumb distance below which
// the hand counts as pinching.
const DefaultPinchThreshold = 0.05

// Status is the readiness of a target source.
type Status uint8

const (
	StatusDisabled Status = iota
	StatusPending         // enabled, no frame received yet
	StatusLive
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusLive:
		return "Live"
	default:
		return "Disabled"
	}
}

// TargetSource provides a target position in screen space and an
// interaction flag. Implementations may update at any cadence; callers read
// the last known value once per frame.
type TargetSource interface {
	// Target returns the latest position mapped onto a width x height
	// surface, or false when no sample has arrived.
	Target(width, height int) (r2.Vec, bool)
	Interacting() bool
	Status() Status
}

// Disabled is the TargetSource used when hand tracking is off.
type Disabled struct{}

func (Disabled) Target(int, int) (r2.Vec, bool) { return r2.Vec{}, false }
func (Disabled) Interacting() bool              { return false }
func (Disabled) Status() Status                 { return StatusDisabled }

var (
	// ErrNoHand is returned for frames that carry no hand. Such frames are
	// ignored so the last known position stays in effect.
	ErrNoHand = errors.New("handtrack: no hand in frame")
	// ErrBadFrame is returned for frames that cannot be interpreted.
	ErrBadFrame = errors.New("handtrack: malformed frame")
)

// Landmark is one normalized hand keypoint.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Frame is the wire message. Senders provide either the full landmark set
// or an already reduced position with a pinch flag.
type Frame struct {
	Landmarks []Landmark `json:"landmarks,omitempty"`
	X         *float64   `json:"x,omitempty"`
	Y         *float64   `json:"y,omitempty"`
	Pinch     *bool      `json:"pinch,omitempty"`
}

// Sample is a decoded frame in normalized camera coordinates.
type Sample struct {
	X, Y  float64
	Pinch bool
}

// Project maps the sample onto a width x height surface. Mirrored samples
// flip x so the image behaves like a mirror.
func (s Sample) Project(width, height int, mirror bool) r2.Vec {
	x := s.X
	if mirror {
		x = 1 - x
	}
	return r2.Vec{X: x * float64(width), Y: s.Y * float64(height)}
}

// ParseFrame decodes a wire message into a sample.
func ParseFrame(data []byte, threshold float64) (Sample, error) {
	var f Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return Sample{}, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	return f.Sample(threshold)
}

// Sample reduces the frame to a position and pinch flag. Landmarks take
// precedence over the reduced fields.
func (f Frame) Sample(threshold float64) (Sample, error) {
	if len(f.Landmarks) > 0 {
		if len(f.Landmarks) <= IndexTip {
			return Sample{}, fmt.Errorf("%w: %d landmarks", ErrBadFrame, len(f.Landmarks))
		}
		index := f.Landmarks[IndexTip]
		thumb := f.Landmarks[ThumbTip]
		gap := r2.Norm(r2.Vec{X: index.X - thumb.X, Y: index.Y - thumb.Y})
		return Sample{X: index.X, Y: index.Y, Pinch: gap < threshold}, nil
	}

	switch {
	case f.X == nil && f.Y == nil:
		return Sample{}, ErrNoHand
	case f.X == nil || f.Y == nil:
		return Sample{}, fmt.Errorf("%w: position needs both x and y", ErrBadFrame)
	}
	s := Sample{X: *f.X, Y: *f.Y}
	if f.Pinch != nil {
		s.Pinch = *f.Pinch
	}
	return s, nil
}
