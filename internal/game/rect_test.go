package game

import "testing"

func TestRect_Intersects(t *testing.T) {
	bird := Rect{X: 50, Y: 100, W: 20, H: 20}

	tests := []struct {
		name  string
		other Rect
		want  bool
	}{
		{"overlapping pipe", Rect{X: 50, Y: 0, W: 50, H: 150}, true},
		{"pipe far to the right", Rect{X: 200, Y: 0, W: 50, H: 150}, false},
		{"touching right edge", Rect{X: 70, Y: 0, W: 50, H: 150}, false},
		{"touching bottom edge", Rect{X: 40, Y: 120, W: 50, H: 100}, false},
		{"touching top edge", Rect{X: 40, Y: 0, W: 50, H: 100}, false},
		{"one pixel into top edge", Rect{X: 40, Y: 0, W: 50, H: 101}, true},
		{"contained", Rect{X: 55, Y: 105, W: 5, H: 5}, true},
		{"empty rect", Rect{X: 55, Y: 105, W: 0, H: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := bird.Intersects(tt.other); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.other, got, tt.want)
			}
			if got := tt.other.Intersects(bird); got != tt.want {
				t.Errorf("reverse Intersects = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCollides(t *testing.T) {
	cfg := DefaultConfig()
	bird := Rect{X: 50, Y: 100, W: 20, H: 20}

	t.Run("no pipes", func(t *testing.T) {
		if Collides(bird, nil) {
			t.Error("expected no collision with an empty field")
		}
	})

	t.Run("bird inside the gap", func(t *testing.T) {
		pair := NewPipePair(40, 90, cfg) // gap spans [90, 250)
		if Collides(bird, []PipePair{pair}) {
			t.Error("bird inside the gap should not collide")
		}
	})

	t.Run("bird hits the top pipe", func(t *testing.T) {
		pair := NewPipePair(40, 110, cfg)
		if !Collides(bird, []PipePair{pair}) {
			t.Error("expected collision with top pipe")
		}
	})

	t.Run("bird hits the bottom pipe of a later pair", func(t *testing.T) {
		far := NewPipePair(400, 100, cfg)
		near := NewPipePair(60, 0, cfg)
		near.Bottom.Y = 110
		if !Collides(bird, []PipePair{far, near}) {
			t.Error("expected collision with bottom pipe")
		}
	})
}
