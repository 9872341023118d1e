package physics

import (
	"errors"
	"math"

	"github.com/automoto/rigid2d/vec"
)

// ResolveCollision applies an impulse to a pair of overlapping bodies that are
// moving towards each other. It reports whether velocities changed.
//
// The pair is skipped when both bodies are immovable, when they do not
// overlap, or when they are already separating. Coincident positions return
// ErrCoincident and leave both bodies untouched.
//
// After the impulse, each movable body loses one tick of its own gravity. That
// keeps resting bodies from sinking into each other and the game tuning relies
// on it.
func (b *Body) ResolveCollision(o *Body) (bool, error) {
	if b.Immovable() && o.Immovable() {
		return false, nil
	}
	if !b.CheckCollision(o) {
		return false, nil
	}

	delta := b.Position.Sub(o.Position)
	normal, err := delta.Normalize()
	if err != nil {
		if errors.Is(err, vec.ErrZeroVector) {
			return false, ErrCoincident
		}
		return false, err
	}

	velocityAlongNormal := b.Velocity.Sub(o.Velocity).Dot(normal)
	if velocityAlongNormal > 0 {
		return false, nil
	}

	restitution := (b.Restitution + o.Restitution) / 2
	impulse := -(1 + restitution) * velocityAlongNormal / (b.InvMass() + o.InvMass())

	soft := b.Collision == CollisionSoft && o.Collision == CollisionSoft
	impulseB, impulseO := impulse, impulse
	if soft {
		impulseB *= b.SoftPercent
		impulseO *= o.SoftPercent
	}

	if !b.Immovable() {
		b.Velocity = b.Velocity.Add(normal.Scale(impulseB * b.InvMass())).Sub(b.GravityVec())
	}
	if !o.Immovable() {
		o.Velocity = o.Velocity.Sub(normal.Scale(impulseO * o.InvMass())).Sub(o.GravityVec())
	}

	if soft {
		b.softCorrect(o, delta)
	}

	if !b.Velocity.Finite() || !o.Velocity.Finite() {
		return true, ErrUnstable
	}
	return true, nil
}

// softCorrect pushes a soft pair apart along the axis of least penetration
// once the penetration exceeds the slop. The push is a fraction of the depth,
// shared in proportion to inverse mass.
func (b *Body) softCorrect(o *Body, delta vec.Vec2) {
	overlapX, overlapY := b.Hitbox.Overlap(o.Hitbox)
	slop := math.Max(b.SoftSlop, o.SoftSlop)
	if math.Min(overlapX, overlapY) <= slop {
		return
	}

	var correction vec.Vec2
	if overlapX < overlapY {
		correction = vec.New(math.Copysign(overlapX-slop, delta.X), 0)
	} else {
		correction = vec.New(0, math.Copysign(overlapY-slop, delta.Y))
	}

	percent := (b.SoftPercent + o.SoftPercent) / 2
	invSum := b.InvMass() + o.InvMass()
	correction = correction.Scale(percent / invSum)

	if !b.Immovable() {
		b.SetPosition(b.Position.Add(correction.Scale(b.InvMass())))
	}
	if !o.Immovable() {
		o.SetPosition(o.Position.Sub(correction.Scale(o.InvMass())))
	}
}
