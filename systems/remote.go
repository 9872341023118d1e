package systems

import (
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/systems/factory"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

// RemoteState is one peer entity as last reported by the network.
type RemoteState struct {
	ID       uint64
	Frame    uint64
	Position vec.Vec2
	Velocity vec.Vec2
	// Gone reports that the entity left the peer's world.
	Gone bool
}

var remoteQuery = donburi.NewQuery(filter.Contains(components.Remote, components.Actor))

// ApplyRemote teleports the proxy for s, creating it with newActor on first
// sight. States older than the last applied frame are ignored.
func ApplyRemote(w donburi.World, s RemoteState, newActor func(RemoteState) (*collision.Actor, error)) error {
	var proxy *donburi.Entry
	remoteQuery.Each(w, func(e *donburi.Entry) {
		if components.Remote.Get(e).ID == s.ID {
			proxy = e
		}
	})

	if s.Gone {
		if proxy == nil {
			return nil
		}
		return factory.Destroy(w, proxy)
	}

	if proxy == nil {
		a, err := newActor(s)
		if err != nil {
			return err
		}
		if proxy, err = factory.CreateRemote(w, s.ID, a); err != nil {
			return err
		}
	}

	r := components.Remote.Get(proxy)
	if s.Frame != 0 && s.Frame < r.Frame {
		return nil
	}
	r.Frame = s.Frame
	a := components.Actor.Get(proxy)
	a.Teleport(s.Position)
	a.Velocity = s.Velocity
	return nil
}
