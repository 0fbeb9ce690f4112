package components

import "testing"

func TestNewLifeClampsToOneFrame(t *testing.T) {
	tests := []struct {
		frames int
		want   int
	}{
		{150, 150},
		{1, 1},
		{0, 1},
		{-20, 1},
	}
	for _, tt := range tests {
		l := NewLife(tt.frames)
		if l.Remaining != tt.want || l.Max != tt.want {
			t.Errorf("NewLife(%d) = %+v, want %d", tt.frames, l, tt.want)
		}
		if l.Opacity != 1 {
			t.Errorf("NewLife(%d) opacity = %v, want 1", tt.frames, l.Opacity)
		}
	}
}

func TestLifeTick(t *testing.T) {
	l := NewLife(4)
	wantOpacity := []float64{0.75, 0.5, 0.25, 0}
	for i, want := range wantOpacity {
		expired := l.Tick()
		if l.Opacity != want {
			t.Errorf("tick %d: opacity = %v, want %v", i+1, l.Opacity, want)
		}
		if expired != (i == len(wantOpacity)-1) {
			t.Errorf("tick %d: expired = %v", i+1, expired)
		}
	}
}

func TestFade(t *testing.T) {
	tests := []struct {
		remaining, maxLife int
		want               float64
	}{
		{10, 10, 1},
		{5, 10, 0.5},
		{0, 10, 0},
		{-3, 10, 0},
		{4, 0, 0},
	}
	for _, tt := range tests {
		if got := Fade(tt.remaining, tt.maxLife); got != tt.want {
			t.Errorf("Fade(%d, %d) = %v, want %v", tt.remaining, tt.maxLife, got, tt.want)
		}
	}
}
