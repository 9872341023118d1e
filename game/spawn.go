package game

import (
	"errors"

	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/systems"
	"github.com/automoto/rigid2d/systems/factory"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
)

var ErrPlayerExists = errors.New("game: player already spawned")

// SpawnPlayer adds the local player at (x, y) using config.Player and binds
// config.Input to it.
func (g *Game) SpawnPlayer(x, y float64) (*donburi.Entry, error) {
	if g.PlayerEntity() != nil {
		return nil, ErrPlayerExists
	}
	a, err := collision.NewActor(config.Player.ActorConfig(x, y))
	if err != nil {
		return nil, err
	}
	p := &collision.Player{
		Actor:     a,
		RunAccel:  config.Player.RunAccel,
		MaxXSpeed: config.Player.MaxXSpeed,
		JumpSpeed: config.Player.JumpSpeed,
	}
	e, err := factory.CreatePlayer(g.World, p)
	if err != nil {
		return nil, err
	}
	if err := systems.BindPlayer(g.Controls, p, config.Input.Bindings); err != nil {
		_ = factory.Destroy(g.World, e)
		return nil, err
	}
	g.player = e
	return e, nil
}

func (g *Game) SpawnActor(cfg collision.ActorConfig) (*donburi.Entry, error) {
	a, err := collision.NewActor(cfg)
	if err != nil {
		return nil, err
	}
	return factory.CreateActor(g.World, a)
}

func (g *Game) SpawnBody(p physics.BodyParams) (*donburi.Entry, error) {
	return factory.CreateBody(g.World, p)
}

func (g *Game) SpawnBlock(x, y, w, h, friction float64) (*donburi.Entry, error) {
	b, err := collision.NewBlock(x, y, w, h, friction)
	if err != nil {
		return nil, err
	}
	return factory.CreateBlock(g.World, b)
}

func (g *Game) SpawnMovingBlock(start, end vec.Vec2, w, h, routeTime, friction float64) (*donburi.Entry, error) {
	m, err := collision.NewMovingBlock(start, end, w, h, routeTime, friction)
	if err != nil {
		return nil, err
	}
	return factory.CreateMovingBlock(g.World, m)
}

func (g *Game) SpawnTweenBlock(x, y, w, h, distance, duration float64, horizontal bool, friction float64) (*donburi.Entry, error) {
	t, err := collision.NewTweenBlock(x, y, w, h, distance, duration, horizontal, friction)
	if err != nil {
		return nil, err
	}
	return factory.CreateTweenBlock(g.World, t)
}

// SpawnEventBlock adds a block that publishes BlockHitEvents named name.
func (g *Game) SpawnEventBlock(name string, x, y, w, h, friction float64) (*donburi.Entry, error) {
	b, err := collision.NewEventBlock(x, y, w, h, friction)
	if err != nil {
		return nil, err
	}
	return factory.CreateEventBlock(g.World, b, name)
}

// Remove deletes an entity and whatever it owns in the simulation.
func (g *Game) Remove(e *donburi.Entry) error {
	if g.player != nil && e.Entity() == g.player.Entity() {
		for _, name := range []string{config.ActionLeft, config.ActionRight, config.ActionJump, config.ActionDown} {
			g.Controls.Unbind(name)
		}
		g.player = nil
	}
	return factory.Destroy(g.World, e)
}

// Clear removes every entity except the space, keeping the controls and the
// inbox. Level reloads start from here.
func (g *Game) Clear() error {
	var all []*donburi.Entry
	components.Transform.Each(g.World, func(e *donburi.Entry) {
		all = append(all, e)
	})
	for _, e := range all {
		if err := g.Remove(e); err != nil {
			return err
		}
	}
	return nil
}
