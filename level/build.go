package level

import (
	"fmt"
	"log"

	"github.com/yohamta/donburi"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/vec"
)

// Build spawns every element of l into g in order. If an element fails, the
// entities already spawned for l are removed again and g is left as it was.
func Build(g *game.Game, l *Level) error {
	spawned := make([]*donburi.Entry, 0, len(l.Elements))
	for i, e := range l.Elements {
		entry, err := spawn(g, e)
		if err != nil {
			rollback(g, spawned)
			return fmt.Errorf("level %s: element %d (%s at %v,%v): %w", l.Name, i, e.Kind, e.X, e.Y, err)
		}
		spawned = append(spawned, entry)
	}
	return nil
}

func rollback(g *game.Game, spawned []*donburi.Entry) {
	for i := len(spawned) - 1; i >= 0; i-- {
		if err := g.Remove(spawned[i]); err != nil {
			log.Printf("[level] rollback: %v", err)
		}
	}
}

// Reload clears g and builds l into it.
func Reload(g *game.Game, l *Level) error {
	if err := g.Clear(); err != nil {
		return err
	}
	return Build(g, l)
}

func spawn(g *game.Game, e Element) (*donburi.Entry, error) {
	friction := e.Friction
	if friction == 0 {
		friction = config.Block.Friction
	}

	var (
		entry *donburi.Entry
		err   error
	)
	switch e.Kind {
	case KindBlock:
		entry, err = g.SpawnBlock(e.X, e.Y, e.W, e.H, friction)
	case KindEventBlock:
		entry, err = g.SpawnEventBlock(e.Event, e.X, e.Y, e.W, e.H, friction)
	case KindMovingBlock:
		route := e.RouteTime
		if route == 0 {
			route = config.Block.RouteTime
		}
		entry, err = g.SpawnMovingBlock(vec.New(e.X, e.Y), e.End, e.W, e.H, route, friction)
	case KindTweenBlock:
		dist, dur := e.Distance, e.Duration
		if dist == 0 {
			dist = config.Block.TweenDistance
		}
		if dur == 0 {
			dur = config.Block.TweenDuration
		}
		entry, err = g.SpawnTweenBlock(e.X, e.Y, e.W, e.H, dist, dur, e.Horizontal, friction)
	case KindPlayer:
		entry, err = g.SpawnPlayer(e.X, e.Y)
	case KindEntity:
		cfg := config.Player.ActorConfig(e.X, e.Y)
		cfg.Width, cfg.Height = e.W, e.H
		entry, err = g.SpawnActor(cfg)
	case KindBody:
		var p physics.BodyParams
		p, err = bodyParams(e)
		if err == nil {
			entry, err = g.SpawnBody(p)
		}
	default:
		err = fmt.Errorf("%w: unknown type %q", ErrInvalidLevel, e.Kind)
	}
	return entry, err
}

func bodyParams(e Element) (physics.BodyParams, error) {
	hb, err := physics.Rect(e.W, e.H)
	if err != nil {
		return physics.BodyParams{}, err
	}
	ct, err := physics.ParseCollisionType(e.Collision)
	if err != nil {
		return physics.BodyParams{}, err
	}
	mass := e.Mass
	if mass == 0 {
		mass = 1
	}

	opts := []physics.BodyOption{
		physics.WithCollision(ct, config.Physics.SoftPercent, config.Physics.SoftSlop),
	}
	if e.Gravity != nil {
		opts = append(opts, physics.WithGravity(*e.Gravity))
	}
	if e.Drag != nil {
		opts = append(opts, physics.WithDrag(*e.Drag))
	}
	if e.Restitution != nil {
		opts = append(opts, physics.WithRestitution(*e.Restitution))
	}
	return physics.BodyParams{X: e.X, Y: e.Y, Hitbox: hb, Mass: mass, Options: opts}, nil
}
