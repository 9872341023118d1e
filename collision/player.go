package collision

import (
	"github.com/automoto/rigid2d/shared/gamemath"
	"github.com/automoto/rigid2d/vec"
)

// Player drives an actor from movement commands.
type Player struct {
	*Actor

	RunAccel  float64
	MaxXSpeed float64
	JumpSpeed float64
}

// Left and Right first undo this tick's ground friction when the actor is
// already running that way, so holding a direction keeps full speed.
func (p *Player) Left() {
	if p.Velocity.X < 0 {
		p.undoFriction()
	}
	if gamemath.BelowMax(p.Velocity.X, p.MaxXSpeed) {
		p.Accelerate(vec.New(-p.RunAccel, 0))
	}
}

func (p *Player) Right() {
	if p.Velocity.X > 0 {
		p.undoFriction()
	}
	if gamemath.BelowMax(p.Velocity.X, p.MaxXSpeed) {
		p.Accelerate(vec.New(p.RunAccel, 0))
	}
}

// Jump only works from the ground.
func (p *Player) Jump() bool {
	if !p.OnGround {
		return false
	}
	p.AddVelocity(vec.New(0, -p.JumpSpeed))
	p.OnGround = false
	return true
}

func (p *Player) Down() {
	p.Accelerate(vec.New(0, p.RunAccel))
}

func (p *Player) undoFriction() {
	for _, s := range p.Touching {
		p.Velocity.X = gamemath.UndoFriction(p.Velocity.X, s.Friction())
	}
}
