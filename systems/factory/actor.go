package factory

import (
	"image/color"

	"github.com/automoto/rigid2d/archetypes"
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
)

// CreateActor adds an uncontrolled actor that still falls and lands.
func CreateActor(w donburi.World, a *collision.Actor) (*donburi.Entry, error) {
	return addActor(w, archetypes.Actor, a, actorColor, 'o')
}

func CreatePlayer(w donburi.World, p *collision.Player) (*donburi.Entry, error) {
	player, err := addActor(w, archetypes.Player, p.Actor, playerColor, '@')
	if err != nil {
		return nil, err
	}
	components.Player.SetValue(player, components.PlayerData{Player: p})
	return player, nil
}

// CreateRemote adds the proxy of a peer's actor. Snapshots teleport it.
func CreateRemote(w donburi.World, id uint64, a *collision.Actor) (*donburi.Entry, error) {
	remote, err := addActor(w, archetypes.Remote, a, remoteColor, '&')
	if err != nil {
		return nil, err
	}
	components.Remote.SetValue(remote, components.RemoteData{ID: id})
	return remote, nil
}

func addActor(w donburi.World, a spawner, actor *collision.Actor, c color.RGBA, glyph rune) (*donburi.Entry, error) {
	space, err := getSpace(w)
	if err != nil {
		return nil, err
	}
	space.Layer.AddActor(actor)

	e := a.Spawn(w)
	space.Actors[actor] = e.Entity()
	components.Actor.SetValue(e, components.ActorData{Actor: actor})
	components.Transform.SetValue(e, components.TransformData{
		Position: actor.Position,
		Size:     vec.New(actor.Width, actor.Height),
		Velocity: actor.Velocity,
	})
	components.Sprite.SetValue(e, components.SpriteData{Color: c, Glyph: glyph})
	return e, nil
}
