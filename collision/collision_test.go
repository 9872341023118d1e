package collision

import (
	"math"
	"testing"

	"github.com/automoto/rigid2d/vec"
)

const dt = 1.0 / 60

func mustActor(t *testing.T, cfg ActorConfig) *Actor {
	t.Helper()
	a, err := NewActor(cfg)
	if err != nil {
		t.Fatalf("NewActor: %v", err)
	}
	return a
}

func mustBlock(t *testing.T, x, y, w, h float64) *Block {
	t.Helper()
	b, err := NewBlock(x, y, w, h, 0)
	if err != nil {
		t.Fatalf("NewBlock: %v", err)
	}
	return b
}

func TestActorLandsOnBlock(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10})
	floor := mustBlock(t, 0, 20, 10, 10)

	l := NewLayer()
	l.AddActor(a)
	l.AddSurface(floor)
	for i := 0; i < 120; i++ {
		l.Update(dt)
	}

	if !a.OnGround {
		t.Fatal("actor should be on the ground")
	}
	if a.Position.Y != 9 {
		t.Fatalf("y = %v, want 9 (block top - height - offset)", a.Position.Y)
	}
	if a.Velocity != vec.Zero {
		t.Fatalf("velocity = %v, want zero", a.Velocity)
	}
	if len(a.Touching) != 1 || a.Touching[0] != Surface(floor) {
		t.Fatalf("touching = %v", a.Touching)
	}
}

func TestActorHitsWallSideways(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10, Gravity: vec.New(0, 0.001)})
	a.Velocity = vec.New(600, 0)
	wall := mustBlock(t, 20, -5, 10, 20)

	a.Update(dt)
	if !a.Collide(wall) {
		t.Fatal("expected a collision")
	}
	if a.Position.X != 9 {
		t.Fatalf("x = %v, want 9", a.Position.X)
	}
	if a.Velocity.X != 0 {
		t.Fatalf("vx = %v, want 0", a.Velocity.X)
	}
	if a.OnGround {
		t.Fatal("a side hit must not ground the actor")
	}
	if a.Hitbox.Position != a.Position {
		t.Fatal("hitbox not re-synced after the push")
	}
}

func TestActorHeadBump(t *testing.T) {
	a := mustActor(t, ActorConfig{Y: 30, Width: 10, Height: 10, Gravity: vec.New(0, 0.001)})
	a.Velocity = vec.New(0, -660)
	ceiling := mustBlock(t, 0, 10, 10, 10)

	a.Update(dt)
	if !a.Collide(ceiling) {
		t.Fatal("expected a collision")
	}
	if a.Position.Y != 21 {
		t.Fatalf("y = %v, want 21", a.Position.Y)
	}
	if a.Velocity.Y != 0 {
		t.Fatalf("vy = %v, want 0", a.Velocity.Y)
	}
}

func TestGroundSensorOnlyWhileGrounded(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10})
	floor := mustBlock(t, 0, 10.5, 10, 10)

	if a.Collide(floor) {
		t.Fatal("touching edges below are not a body hit")
	}
	if len(a.Touching) != 0 {
		t.Fatal("airborne actors do not sense the ground")
	}

	a.OnGround = true
	a.Velocity = vec.New(100, 0)
	a.Collide(floor)
	if len(a.Touching) != 1 {
		t.Fatalf("touching = %d, want 1", len(a.Touching))
	}
	if !a.Velocity.ApproxEqual(vec.New(99, 0), 1e-9) {
		t.Fatalf("friction not applied: %v", a.Velocity)
	}
}

func TestTouchingRebuiltEveryTick(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10})
	a.Touching = []Surface{mustBlock(t, 100, 100, 1, 1)}
	a.Update(dt)
	if len(a.Touching) != 0 {
		t.Fatal("touching should be cleared by Update")
	}
}

func TestMovingBlockReverses(t *testing.T) {
	m, err := NewMovingBlock(vec.New(0, 0), vec.New(10, 0), 5, 5, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i <= 10; i++ {
		m.Update(0.1)
		if i < 10 && m.JustTurned {
			t.Fatalf("turned early at tick %d (x=%v)", i, m.Position().X)
		}
	}
	if !m.JustTurned {
		t.Fatalf("expected a turn at the end waypoint, x=%v", m.Position().X)
	}
	if !m.Velocity.ApproxEqual(vec.New(-10, 0), 1e-9) {
		t.Fatalf("velocity = %v", m.Velocity)
	}

	for i := 0; i < 10; i++ {
		m.Update(0.1)
	}
	if !m.JustTurned || !m.Velocity.ApproxEqual(vec.New(10, 0), 1e-9) {
		t.Fatalf("expected a turn at the start, x=%v v=%v", m.Position().X, m.Velocity)
	}
	if m.Box().Position != m.Position() {
		t.Fatal("hitbox not following the block")
	}
}

// The turn test pads by dt/1000 and only looks one step ahead, so a step
// longer than the route carries the block well past the end waypoint.
func TestMovingBlockOvershootsAtLowFrameRate(t *testing.T) {
	m, err := NewMovingBlock(vec.New(0, 0), vec.New(10, 0), 5, 5, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	m.Update(3)
	if got := m.Position().X; got != 30 {
		t.Fatalf("x = %v, want 30", got)
	}
	if got := m.Position().X; got <= m.End.X {
		t.Fatalf("expected overshoot past %v", m.End.X)
	}
	if !m.JustTurned {
		t.Fatal("block should still turn after overshooting")
	}
}

func TestActorRidesMovingBlock(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10, Y: 5})
	m, err := NewMovingBlock(vec.New(0, 20), vec.New(100, 20), 30, 10, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLayer()
	l.AddActor(a)
	l.AddSurface(m)

	for i := 0; i < 60; i++ {
		l.Update(dt)
	}
	if !a.OnGround {
		t.Fatal("actor should be riding")
	}
	if math.Abs(a.Velocity.X-10) > 1e-9 {
		t.Fatalf("vx = %v, want the block speed 10", a.Velocity.X)
	}
	if a.Position.X <= 0 {
		t.Fatalf("actor was not carried: x = %v", a.Position.X)
	}
}

func TestEventBlockCallbacks(t *testing.T) {
	e, err := NewEventBlock(0, 20, 10, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	var hits, touches int
	var hitDir vec.Vec2
	e.OnHit = func(_ *Actor, dir vec.Vec2) { hits++; hitDir = dir }
	e.OnTouch = func(*Actor) { touches++ }

	a := mustActor(t, ActorConfig{Width: 10, Height: 10})
	l := NewLayer()
	l.AddActor(a)
	l.AddSurface(e)
	for i := 0; i < 60; i++ {
		l.Update(dt)
	}
	if hits != 1 || hitDir != vec.New(0, 1) {
		t.Fatalf("hits = %d dir = %v", hits, hitDir)
	}
	if touches == 0 {
		t.Fatal("OnTouch never ran")
	}
}

func TestTweenBlockFloats(t *testing.T) {
	tb, err := NewTweenBlock(0, 100, 10, 10, 20, 1, false, 0)
	if err != nil {
		t.Fatal(err)
	}
	tb.Update(0.5)
	if tb.Position().Y != 90 {
		t.Fatalf("y = %v, want 90", tb.Position().Y)
	}
	if !tb.Velocity.ApproxEqual(vec.New(0, -20), 1e-6) {
		t.Fatalf("velocity = %v, want (0, -20)", tb.Velocity)
	}
	tb.Update(0.5)
	if tb.Position().Y != 80 || !tb.JustTurned {
		t.Fatalf("y = %v turned = %v", tb.Position().Y, tb.JustTurned)
	}
	tb.Update(1)
	if tb.Position().Y != 100 {
		t.Fatalf("y = %v, want back at 100", tb.Position().Y)
	}
	tb.Update(0.5)
	if tb.Position().Y != 90 {
		t.Fatalf("sequence did not restart: y = %v", tb.Position().Y)
	}
}

func TestPlayerControls(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10})
	p := &Player{Actor: a, RunAccel: 100, MaxXSpeed: 50, JumpSpeed: 300}

	if p.Jump() {
		t.Fatal("cannot jump in the air")
	}
	p.OnGround = true
	if !p.Jump() || p.OnGround || p.Velocity.Y != -300 {
		t.Fatalf("jump: onGround=%v v=%v", p.OnGround, p.Velocity)
	}

	floor := mustBlock(t, 0, 10, 10, 10)
	p.Touching = []Surface{floor}
	p.Velocity = vec.New(9.9, 0)
	p.Right()
	if math.Abs(p.Velocity.X-10) > 1e-9 {
		t.Fatalf("friction not undone: %v", p.Velocity.X)
	}
	if p.Acceleration.X != 100 {
		t.Fatalf("acceleration = %v", p.Acceleration)
	}

	p.Acceleration = vec.Zero
	p.Velocity.X = 60
	p.Right()
	if p.Acceleration.X != 0 {
		t.Fatal("no acceleration above max speed")
	}
	vx := p.Velocity.X
	p.Left()
	if p.Velocity.X != vx {
		t.Fatal("left must not undo friction while moving right")
	}

	p.Acceleration = vec.Zero
	p.Down()
	if p.Acceleration != vec.New(0, 100) {
		t.Fatalf("down = %v", p.Acceleration)
	}
}

func TestLayerAfterUpdateSeesLanding(t *testing.T) {
	a := mustActor(t, ActorConfig{Width: 10, Height: 10, Y: 9.5})
	a.Velocity = vec.New(0, 60)
	var grounded bool
	a.AfterUpdate = func(a *Actor, _ float64) { grounded = a.OnGround }

	l := NewLayer()
	l.AddActor(a)
	l.AddSurface(mustBlock(t, 0, 20, 10, 10))
	l.Update(dt)
	if !grounded {
		t.Fatal("AfterUpdate should run after collisions")
	}
}

func TestLayerRemove(t *testing.T) {
	l := NewLayer()
	a := mustActor(t, ActorConfig{Width: 1, Height: 1})
	m, err := NewMovingBlock(vec.Zero, vec.New(1, 0), 1, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	l.AddActor(a)
	l.AddSurface(m)
	if !l.RemoveSurface(m) || len(l.updaters) != 0 || len(l.Surfaces()) != 0 {
		t.Fatal("surface not fully removed")
	}
	if !l.RemoveActor(a) || l.RemoveActor(a) {
		t.Fatal("actor removal")
	}
}

func TestNewBlockValidation(t *testing.T) {
	if _, err := NewBlock(0, 0, -1, 1, 0); err == nil {
		t.Fatal("negative width accepted")
	}
	if _, err := NewBlock(math.NaN(), 0, 1, 1, 0); err == nil {
		t.Fatal("NaN position accepted")
	}
	if _, err := NewMovingBlock(vec.Zero, vec.New(1, 0), 1, 1, 0, 0); err == nil {
		t.Fatal("zero route time accepted")
	}
	b := mustBlock(t, 0, 0, 1, 1)
	if b.Friction() != DefaultFriction {
		t.Fatalf("friction = %v", b.Friction())
	}
}
