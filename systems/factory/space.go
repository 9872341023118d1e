package factory

import (
	"errors"

	"github.com/automoto/rigid2d/archetypes"
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/physics"
	"github.com/yohamta/donburi"
)

var ErrNoSpace = errors.New("factory: world has no space entity")

func CreateSpace(w donburi.World, phys *physics.World, layer *collision.Layer) *donburi.Entry {
	space := archetypes.Space.Spawn(w)
	components.Space.SetValue(space, components.SpaceData{
		Physics: phys,
		Layer:   layer,
		Bodies:  make(map[physics.BodyID]donburi.Entity),
		Actors:  make(map[*collision.Actor]donburi.Entity),
	})
	return space
}

func getSpace(w donburi.World) (*components.SpaceData, error) {
	e, ok := components.Space.First(w)
	if !ok {
		return nil, ErrNoSpace
	}
	return components.Space.Get(e), nil
}
