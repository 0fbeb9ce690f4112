package handtrack

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func landmarkFrame(index, thumb Landmark) []byte {
	pts := make([]Landmark, 21)
	pts[IndexTip] = index
	pts[ThumbTip] = thumb
	return mustJSON(Frame{Landmarks: pts})
}

func TestParseFrameLandmarks(t *testing.T) {
	tests := []struct {
		name      string
		index     Landmark
		thumb     Landmark
		wantPinch bool
	}{
		{"apart", Landmark{X: 0.3, Y: 0.4}, Landmark{X: 0.5, Y: 0.6}, false},
		{"touching", Landmark{X: 0.3, Y: 0.4}, Landmark{X: 0.31, Y: 0.41}, true},
		{"just past threshold", Landmark{X: 0.3, Y: 0.4}, Landmark{X: 0.36, Y: 0.4}, false},
		// Depth does not count toward the gap
		{"depth only", Landmark{X: 0.3, Y: 0.4, Z: 0.5}, Landmark{X: 0.3, Y: 0.4}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseFrame(landmarkFrame(tt.index, tt.thumb), DefaultPinchThreshold)
			if err != nil {
				t.Fatalf("ParseFrame: %v", err)
			}
			if s.X != tt.index.X || s.Y != tt.index.Y {
				t.Errorf("sample position = (%v,%v), want the index tip", s.X, s.Y)
			}
			if s.Pinch != tt.wantPinch {
				t.Errorf("pinch = %v, want %v", s.Pinch, tt.wantPinch)
			}
		})
	}
}

func TestParseFrameReduced(t *testing.T) {
	s, err := ParseFrame([]byte(`{"x":0.25,"y":0.75,"pinch":true}`), DefaultPinchThreshold)
	if err != nil {
		t.Fatalf("ParseFrame: %v", err)
	}
	if s != (Sample{X: 0.25, Y: 0.75, Pinch: true}) {
		t.Errorf("sample = %+v", s)
	}

	s, err = ParseFrame([]byte(`{"x":0,"y":0}`), DefaultPinchThreshold)
	if err != nil || s != (Sample{}) {
		t.Errorf("origin sample = %+v, %v", s, err)
	}
}

func TestParseFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty object", `{}`, ErrNoHand},
		{"empty landmarks", `{"landmarks":[]}`, ErrNoHand},
		{"short landmarks", `{"landmarks":[{"x":1,"y":1},{"x":1,"y":1}]}`, ErrBadFrame},
		{"half position", `{"x":0.5}`, ErrBadFrame},
		{"not json", `hello`, ErrBadFrame},
		{"wrong type", `{"x":"left","y":1}`, ErrBadFrame},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFrame([]byte(tt.data), DefaultPinchThreshold)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSampleProject(t *testing.T) {
	s := Sample{X: 0.25, Y: 0.5}

	if got := s.Project(800, 600, true); got != (r2.Vec{X: 600, Y: 300}) {
		t.Errorf("mirrored = %v, want (600,300)", got)
	}
	if got := s.Project(800, 600, false); got != (r2.Vec{X: 200, Y: 300}) {
		t.Errorf("unmirrored = %v, want (200,300)", got)
	}
}

func TestStatusString(t *testing.T) {
	for s, want := range map[Status]string{
		StatusDisabled: "Disabled",
		StatusPending:  "Pending",
		StatusLive:     "Live",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}

func TestDisabledSource(t *testing.T) {
	var src TargetSource = Disabled{}
	if _, ok := src.Target(100, 100); ok {
		t.Error("disabled source produced a target")
	}
	if src.Interacting() || src.Status() != StatusDisabled {
		t.Errorf("disabled source: interacting=%v status=%v", src.Interacting(), src.Status())
	}
}

func TestFrameJSONRoundTrip(t *testing.T) {
	x, y := 0.1, 0.9
	data := mustJSON(Frame{X: &x, Y: &y})
	s, err := ParseFrame(data, DefaultPinchThreshold)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(s.X-x) > 1e-12 || math.Abs(s.Y-y) > 1e-12 || s.Pinch {
		t.Errorf("sample = %+v", s)
	}
	if string(data) != fmt.Sprintf(`{"x":%v,"y":%v}`, x, y) {
		t.Errorf("encoded = %s", data)
	}
}
