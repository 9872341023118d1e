// Package collision layers platformer collision on top of the physics types:
// actors that fall, land and ride, and surfaces that react when touched.
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/shared/gamemath"
	"github.com/automoto/rigid2d/vec"
)

var ErrInvalidSurface = errors.New("collision: invalid surface")

// DefaultFriction is the per-tick velocity multiplier of a block an actor
// stands on.
const DefaultFriction = 0.99

// Surface is anything an actor can hit or stand on.
type Surface interface {
	Position() vec.Vec2
	Box() physics.Hitbox
	Friction() float64

	// OnCollision runs after the actor was pushed out of the surface. dir
	// points from the actor towards the surface.
	OnCollision(a *Actor, dir vec.Vec2)
	// Touching runs every tick the actor's ground sensor rests on the surface.
	Touching(a *Actor)
}

// Updater is a surface that moves on its own.
type Updater interface {
	Update(dt float64)
}

// Block is a static surface.
type Block struct {
	pos      vec.Vec2
	box      physics.Hitbox
	friction float64
}

// NewBlock returns a w by h block with its top-left corner at (x, y). A zero
// friction takes DefaultFriction.
func NewBlock(x, y, w, h, friction float64) (*Block, error) {
	pos, err := vec.NewChecked(x, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSurface, err)
	}
	box, err := physics.Rect(w, h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSurface, err)
	}
	if friction == 0 {
		friction = DefaultFriction
	}
	if friction < 0 || math.IsNaN(friction) || math.IsInf(friction, 0) {
		return nil, fmt.Errorf("%w: friction %v", ErrInvalidSurface, friction)
	}
	box.Update(pos)
	return &Block{pos: pos, box: box, friction: friction}, nil
}

func (b *Block) Position() vec.Vec2 {
	return b.pos
}

func (b *Block) Box() physics.Hitbox {
	return b.box
}

func (b *Block) Friction() float64 {
	return b.friction
}

func (b *Block) Size() vec.Vec2 {
	return b.box.Size()
}

func (b *Block) moveTo(p vec.Vec2) {
	b.pos = p
	b.box.Update(p)
}

// OnCollision stops the actor along the collision axis.
func (b *Block) OnCollision(a *Actor, dir vec.Vec2) {
	keep := vec.New(math.Abs(dir.Y), math.Abs(dir.X))
	a.Velocity = a.Velocity.Mul(keep)
}

// Touching slows the actor by the block's friction.
func (b *Block) Touching(a *Actor) {
	a.Velocity = vec.New(
		gamemath.ApplyFriction(a.Velocity.X, b.friction),
		gamemath.ApplyFriction(a.Velocity.Y, b.friction),
	)
}
