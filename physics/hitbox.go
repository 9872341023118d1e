package physics

import (
	"fmt"
	"math"

	"github.com/automoto/rigid2d/vec"
)

// Hitbox is an axis-aligned rectangle given by two corner offsets relative to
// an anchor position. The anchor is the owner's world position and is refreshed
// before every overlap test.
type Hitbox struct {
	Min      vec.Vec2
	Max      vec.Vec2
	Position vec.Vec2
}

// NewHitbox validates the corners and returns a hitbox anchored at the origin.
func NewHitbox(lo, hi vec.Vec2) (Hitbox, error) {
	if !lo.Finite() || !hi.Finite() {
		return Hitbox{}, fmt.Errorf("%w: corners %v %v", vec.ErrNotFinite, lo, hi)
	}
	if lo.X > hi.X || lo.Y > hi.Y {
		return Hitbox{}, fmt.Errorf("%w: min %v max %v", ErrMalformedHitbox, lo, hi)
	}
	return Hitbox{Min: lo, Max: hi}, nil
}

// Rect is a convenience for NewHitbox((0,0), (w,h)).
func Rect(w, h float64) (Hitbox, error) {
	return NewHitbox(vec.Zero, vec.New(w, h))
}

func (h *Hitbox) Update(position vec.Vec2) {
	h.Position = position
}

// Bounds returns the world-space corners.
func (h Hitbox) Bounds() (lo, hi vec.Vec2) {
	return h.Position.Add(h.Min), h.Position.Add(h.Max)
}

func (h Hitbox) Size() vec.Vec2 {
	return h.Max.Sub(h.Min)
}

// Colliding reports whether the two boxes overlap. Touching edges count.
func (h Hitbox) Colliding(o Hitbox) bool {
	aMin, aMax := h.Bounds()
	bMin, bMax := o.Bounds()
	if aMax.X < bMin.X || bMax.X < aMin.X {
		return false
	}
	if aMax.Y < bMin.Y || bMax.Y < aMin.Y {
		return false
	}
	return true
}

// Overlap returns the penetration depth on each axis. Values are <= 0 on an
// axis where the boxes are separated or only touching.
func (h Hitbox) Overlap(o Hitbox) (x, y float64) {
	aMin, aMax := h.Bounds()
	bMin, bMax := o.Bounds()
	x = math.Min(aMax.X, bMax.X) - math.Max(aMin.X, bMin.X)
	y = math.Min(aMax.Y, bMax.Y) - math.Max(aMin.Y, bMin.Y)
	return x, y
}
