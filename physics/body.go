package physics

import (
	"fmt"
	"math"
	"strings"

	"github.com/automoto/rigid2d/vec"
)

// CollisionType selects how much of the resolution impulse a body takes.
type CollisionType int

const (
	CollisionHard CollisionType = iota
	CollisionSoft
)

func (c CollisionType) String() string {
	switch c {
	case CollisionHard:
		return "hard"
	case CollisionSoft:
		return "soft"
	}
	return fmt.Sprintf("CollisionType(%d)", int(c))
}

// ParseCollisionType accepts "hard" or "soft" (case-insensitive). An empty
// string means hard.
func ParseCollisionType(s string) (CollisionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hard":
		return CollisionHard, nil
	case "soft":
		return CollisionSoft, nil
	}
	return CollisionHard, fmt.Errorf("%w: collision type %q", ErrInvalidParam, s)
}

// Immovable is the mass of a body that never integrates and never receives an
// impulse.
var Immovable = math.Inf(1)

// Body is a simulated point mass with an axis-aligned hitbox.
//
// Gravity and drag are per-tick quantities: every Update adds Gravity to the
// vertical velocity and multiplies the velocity by Drag, independent of the
// frame duration.
type Body struct {
	Position     vec.Vec2
	Velocity     vec.Vec2
	Acceleration vec.Vec2
	Force        vec.Vec2

	Mass        float64
	Gravity     float64
	Drag        float64
	Restitution float64

	Collision   CollisionType
	SoftPercent float64
	SoftSlop    float64

	Hitbox Hitbox
}

func (b *Body) Immovable() bool {
	return math.IsInf(b.Mass, 1)
}

// InvMass is zero for immovable bodies.
func (b *Body) InvMass() float64 {
	if b.Immovable() {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) GravityVec() vec.Vec2 {
	return vec.New(0, b.Gravity)
}

// ApplyForce accumulates f; the buffer is consumed by the next Update.
func (b *Body) ApplyForce(f vec.Vec2) {
	b.Force = b.Force.Add(f)
}

// Accelerate accumulates a; the buffer is consumed by the next Update.
func (b *Body) Accelerate(a vec.Vec2) {
	b.Acceleration = b.Acceleration.Add(a)
}

func (b *Body) AddVelocity(v vec.Vec2) {
	b.Velocity = b.Velocity.Add(v)
}

// SetPosition teleports the body and re-anchors its hitbox.
func (b *Body) SetPosition(p vec.Vec2) {
	b.Position = p
	b.SyncHitbox()
}

// Update integrates one tick. Immovable bodies are left untouched.
func (b *Body) Update() {
	if b.Immovable() {
		return
	}
	b.Acceleration = b.Acceleration.Add(b.Force.Scale(b.InvMass()))
	b.Velocity = b.Velocity.Add(b.Acceleration).Add(b.GravityVec()).Scale(b.Drag)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = vec.Zero
	b.Force = vec.Zero
}

func (b *Body) SyncHitbox() {
	b.Hitbox.Update(b.Position)
}

// Colliding tests the hitboxes as they are anchored now.
func (b *Body) Colliding(o *Body) bool {
	return b.Hitbox.Colliding(o.Hitbox)
}

// CheckCollision re-anchors both hitboxes to their bodies and tests them.
func (b *Body) CheckCollision(o *Body) bool {
	b.SyncHitbox()
	o.SyncHitbox()
	return b.Colliding(o)
}
