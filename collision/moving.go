package collision

import (
	"fmt"

	"github.com/automoto/rigid2d/shared/gamemath"
	"github.com/automoto/rigid2d/vec"
)

// MovingBlock shuttles between two waypoints at constant speed.
//
// The block turns once it is within one tick's displacement of either
// waypoint, padded by dt/1000. It therefore turns up to a step early, and when
// a single step is longer than the route (long ticks, short routes) it runs
// past the far waypoint before turning.
type MovingBlock struct {
	Block

	Start, End vec.Vec2
	Velocity   vec.Vec2
	RouteTime  float64

	// JustTurned is set for the tick in which the block reversed.
	JustTurned bool

	epsilon float64
}

// NewMovingBlock starts the block at start, heading for end, covering the
// route in routeTime seconds.
func NewMovingBlock(start, end vec.Vec2, w, h, routeTime, friction float64) (*MovingBlock, error) {
	if routeTime <= 0 {
		return nil, fmt.Errorf("%w: route time %v", ErrInvalidSurface, routeTime)
	}
	if !end.Finite() {
		return nil, fmt.Errorf("%w: end %v", ErrInvalidSurface, end)
	}
	b, err := NewBlock(start.X, start.Y, w, h, friction)
	if err != nil {
		return nil, err
	}
	vel, err := end.Sub(start).Div(routeTime)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSurface, err)
	}
	return &MovingBlock{
		Block:     *b,
		Start:     start,
		End:       end,
		Velocity:  vel,
		RouteTime: routeTime,
		epsilon:   1e-23,
	}, nil
}

func (m *MovingBlock) Update(dt float64) {
	m.JustTurned = false
	m.epsilon = dt / 1000
	step := m.Velocity.Scale(dt)
	m.moveTo(m.pos.Add(step))

	reach := step.Mag()
	if m.pos.Sub(m.End).Mag()+m.epsilon < reach || m.pos.Sub(m.Start).Mag()+m.epsilon < reach {
		m.JustTurned = true
		m.Velocity = m.Velocity.Scale(-1)
	}
}

// Touching drags the actor towards the block's velocity.
func (m *MovingBlock) Touching(a *Actor) {
	a.Velocity = vec.New(
		gamemath.CarryFriction(a.Velocity.X, m.Velocity.X, m.friction),
		gamemath.CarryFriction(a.Velocity.Y, m.Velocity.Y, m.friction),
	)
}

// OnCollision stops the actor like a static block, hands it the block's
// velocity when the actor is slower, then applies Touching.
func (m *MovingBlock) OnCollision(a *Actor, dir vec.Vec2) {
	m.Block.OnCollision(a, dir)
	if a.Velocity.Mag()+m.epsilon < m.Velocity.Mag() {
		a.Velocity = a.Velocity.Add(m.Velocity)
	}
	m.Touching(a)
}
