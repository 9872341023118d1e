package collision

import (
	"fmt"
	"math"

	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/vec"
)

// ActorConfig holds the construction parameters of an Actor. Zero values take
// the defaults noted per field.
type ActorConfig struct {
	X, Y          float64
	Width, Height float64

	// Gravity defaults to (0, 500) units per second squared.
	Gravity vec.Vec2
	// InAirDrag multiplies the velocity every airborne tick. Defaults to 1.
	InAirDrag float64
	// CollisionOffset is the gap left after pushing out of a surface.
	// Defaults to 1.
	CollisionOffset float64
}

// Actor is a free-moving box that lands on, bumps into and rides surfaces.
// Velocities are per second; Update scales them by dt.
type Actor struct {
	Position     vec.Vec2
	Velocity     vec.Vec2
	Acceleration vec.Vec2
	Gravity      vec.Vec2

	InAirDrag       float64
	Width, Height   float64
	CollisionOffset float64

	Hitbox       physics.Hitbox
	GroundSensor physics.Hitbox

	OnGround bool
	// Touching lists the surfaces under the ground sensor this tick.
	Touching []Surface

	// AfterUpdate runs once per tick after the actor was checked against
	// every surface.
	AfterUpdate func(a *Actor, dt float64)

	groundVote bool
}

func NewActor(cfg ActorConfig) (*Actor, error) {
	pos, err := vec.NewChecked(cfg.X, cfg.Y)
	if err != nil {
		return nil, fmt.Errorf("collision: actor position: %w", err)
	}
	hitbox, err := physics.Rect(cfg.Width, cfg.Height)
	if err != nil {
		return nil, fmt.Errorf("collision: actor hitbox: %w", err)
	}
	sensor, err := physics.NewHitbox(vec.New(0, cfg.Height), vec.New(cfg.Width, cfg.Height+1))
	if err != nil {
		return nil, fmt.Errorf("collision: ground sensor: %w", err)
	}

	a := &Actor{
		Position:        pos,
		Gravity:         cfg.Gravity,
		InAirDrag:       cfg.InAirDrag,
		Width:           cfg.Width,
		Height:          cfg.Height,
		CollisionOffset: cfg.CollisionOffset,
		Hitbox:          hitbox,
		GroundSensor:    sensor,
	}
	if a.Gravity == vec.Zero {
		a.Gravity = vec.New(0, 500)
	}
	if a.InAirDrag == 0 {
		a.InAirDrag = 1
	}
	if a.CollisionOffset == 0 {
		a.CollisionOffset = 1
	}
	a.sync()
	return a, nil
}

func (a *Actor) AddVelocity(v vec.Vec2) {
	a.Velocity = a.Velocity.Add(v)
}

func (a *Actor) Accelerate(v vec.Vec2) {
	a.Acceleration = a.Acceleration.Add(v)
}

// Teleport moves the actor without integrating, as remote snapshots do.
func (a *Actor) Teleport(p vec.Vec2) {
	a.Position = p
	a.sync()
}

func (a *Actor) sync() {
	a.Hitbox.Update(a.Position)
	a.GroundSensor.Update(a.Position)
}

// Update integrates one tick. Gravity and air drag only apply while airborne.
// OnGround takes the ground votes cast by the previous round of Collide
// calls.
func (a *Actor) Update(dt float64) {
	a.Touching = nil
	if !a.OnGround {
		a.Velocity = a.Velocity.Add(a.Gravity.Scale(dt)).Scale(a.InAirDrag)
	}
	a.Velocity = a.Velocity.Add(a.Acceleration.Scale(dt))
	a.Position = a.Position.Add(a.Velocity.Scale(dt))
	a.sync()

	a.OnGround = a.groundVote
	a.groundVote = false
	a.Acceleration = vec.Zero
}

// Collide pushes the actor out of s if they overlap and reports whether they
// did. Otherwise a grounded actor checks its sensor against s.
func (a *Actor) Collide(s Surface) bool {
	box := s.Box()
	if a.Hitbox.Colliding(box) {
		a.snap(s, box)
		return true
	}
	if a.OnGround && a.GroundSensor.Colliding(box) {
		a.Touching = append(a.Touching, s)
		s.Touching(a)
		a.groundVote = true
	}
	return false
}

// snap resolves along the dominant axis of s.Position() - a.Position. Both
// are top-left corners, not centers, so a wide block offset far to the side
// pushes the actor out sideways even when it lands from above.
func (a *Actor) snap(s Surface, box physics.Hitbox) {
	lo, hi := box.Bounds()
	d := s.Position().Sub(a.Position)

	var dir vec.Vec2
	switch {
	case math.Abs(d.Y) > math.Abs(d.X) && d.Y > 0:
		a.Position.Y = lo.Y - a.Height - a.CollisionOffset
		dir = vec.New(0, 1)
	case math.Abs(d.Y) > math.Abs(d.X):
		a.Position.Y = hi.Y + a.CollisionOffset
		dir = vec.New(0, -1)
	case d.X > 0:
		a.Position.X = lo.X - a.Width - a.CollisionOffset
		dir = vec.New(1, 0)
	default:
		a.Position.X = hi.X + a.CollisionOffset
		dir = vec.New(-1, 0)
	}
	a.sync()

	s.OnCollision(a, dir)
	if dir.Y > 0 {
		a.OnGround = true
		a.groundVote = true
	}
}
