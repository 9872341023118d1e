package gamemath

import "math"

// ApplyFriction scales a speed by a per-tick friction coefficient.
func ApplyFriction(speed, coefficient float64) float64 {
	return speed * coefficient
}

// UndoFriction reverses one ApplyFriction. A zero coefficient cannot be
// undone and leaves speed unchanged.
func UndoFriction(speed, coefficient float64) float64 {
	if coefficient == 0 {
		return speed
	}
	return speed / coefficient
}

// CarryFriction applies friction to the speed relative to a moving surface,
// so a rider settles to the surface's speed instead of to zero.
func CarryFriction(speed, surfaceSpeed, coefficient float64) float64 {
	return surfaceSpeed + ApplyFriction(speed-surfaceSpeed, coefficient)
}

// BelowMax reports whether |speed| is strictly under max.
func BelowMax(speed, max float64) bool {
	return math.Abs(speed) < max
}
