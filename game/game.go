// Package game wires the simulation together: a donburi world of entities
// backed by the physics World and the collision Layer, fed once per tick by
// the controls and by remote snapshots.
package game

import (
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/control"
	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/systems"
	"github.com/automoto/rigid2d/systems/factory"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// RemoteState is a snapshot of one peer entity.
type RemoteState = systems.RemoteState

var ErrNoPlayer = errors.New("game: no player")

// Options configures New. Zero values take the config package globals.
type Options struct {
	Physics   []physics.Option
	InboxSize int
	Controls  *control.Controls
	Logger    *log.Logger
}

// Game owns every simulation object. All methods except Push must be called
// from the tick goroutine.
type Game struct {
	World    donburi.World
	Physics  *physics.World
	Layer    *collision.Layer
	Controls *control.Controls

	// Inbox carries remote snapshots from network goroutines to the next
	// tick.
	Inbox chan RemoteState

	player *donburi.Entry
	frame  uint64
	log    *log.Logger
}

func New(opts Options) *Game {
	g := &Game{
		World:    donburi.NewWorld(),
		Layer:    collision.NewLayer(),
		Controls: opts.Controls,
		log:      opts.Logger,
	}
	if g.log == nil {
		g.log = log.Default()
	}
	if g.Controls == nil {
		g.Controls = control.New(config.Input.QueueSize)
	}
	size := opts.InboxSize
	if size <= 0 {
		size = config.Net.InboxSize
	}
	g.Inbox = make(chan RemoteState, size)

	physOpts := opts.Physics
	if physOpts == nil {
		physOpts = config.Physics.WorldOptions()
	}
	g.Physics = physics.NewWorld(slices.Concat(physOpts, []physics.Option{
		physics.WithLogger(g.log),
		physics.WithContactHandler(g.onContact),
	})...)

	factory.CreateSpace(g.World, g.Physics, g.Layer)
	return g
}

func (g *Game) onContact(a, b physics.BodyID) {
	e, ok := components.Space.First(g.World)
	if !ok {
		return
	}
	space := components.Space.Get(e)
	systems.PublishContact(g.World, space.Bodies[a], space.Bodies[b])
}

// Push queues a remote snapshot without blocking. It is safe for concurrent
// use; when the inbox is full the snapshot is dropped and false returned.
func (g *Game) Push(s RemoteState) bool {
	select {
	case g.Inbox <- s:
		return true
	default:
		return false
	}
}

// Step runs one tick: input, remote snapshots, physics, transforms, events.
func (g *Game) Step(dt float64) error {
	g.Controls.Update()

	if err := g.drainInbox(); err != nil {
		return err
	}
	if err := systems.UpdatePhysics(g.World, dt); err != nil {
		return fmt.Errorf("game: frame %d: %w", g.frame, err)
	}
	systems.UpdateTransforms(g.World)
	events.ProcessAllEvents(g.World)

	g.frame++
	return nil
}

func (g *Game) drainInbox() error {
	for {
		select {
		case s := <-g.Inbox:
			if err := systems.ApplyRemote(g.World, s, g.newRemoteActor); err != nil {
				return fmt.Errorf("game: remote %d: %w", s.ID, err)
			}
		default:
			return nil
		}
	}
}

func (g *Game) newRemoteActor(s RemoteState) (*collision.Actor, error) {
	return collision.NewActor(config.Player.ActorConfig(s.Position.X, s.Position.Y))
}

// Frame is the number of completed ticks.
func (g *Game) Frame() uint64 {
	return g.frame
}

// Player returns the locally controlled player.
func (g *Game) Player() (*collision.Player, error) {
	if g.player == nil || !g.player.Valid() {
		return nil, ErrNoPlayer
	}
	return components.Player.Get(g.player).Player, nil
}

// PlayerEntity returns the entry of the local player, or nil.
func (g *Game) PlayerEntity() *donburi.Entry {
	if g.player == nil || !g.player.Valid() {
		return nil
	}
	return g.player
}
