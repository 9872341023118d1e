package gamemath

import "testing"

func TestFrictionRoundTrip(t *testing.T) {
	v := ApplyFriction(10, 0.5)
	if v != 5 {
		t.Fatalf("ApplyFriction = %v, want 5", v)
	}
	if got := UndoFriction(v, 0.5); got != 10 {
		t.Fatalf("UndoFriction = %v, want 10", got)
	}
	if got := UndoFriction(3, 0); got != 3 {
		t.Fatalf("UndoFriction with zero coefficient = %v, want 3", got)
	}
}

func TestCarryFriction(t *testing.T) {
	// rider at 4, surface at 2: relative 2 halves to 1
	if got := CarryFriction(4, 2, 0.5); got != 3 {
		t.Fatalf("CarryFriction = %v, want 3", got)
	}
	if got := CarryFriction(2, 2, 0.1); got != 2 {
		t.Fatalf("matching speeds should not change: %v", got)
	}
}

func TestBelowMax(t *testing.T) {
	cases := []struct {
		speed, max float64
		want       bool
	}{
		{1, 2, true},
		{-1.5, 2, true},
		{2, 2, false},
		{-3, 2, false},
	}
	for _, c := range cases {
		if got := BelowMax(c.speed, c.max); got != c.want {
			t.Fatalf("BelowMax(%v, %v) = %v, want %v", c.speed, c.max, got, c.want)
		}
	}
}
