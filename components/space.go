package components

import (
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/physics"
	"github.com/yohamta/donburi"
)

// SpaceData is the singleton holding the simulation the entities live in.
type SpaceData struct {
	Physics *physics.World
	Layer   *collision.Layer

	// Reverse lookups for callbacks that only see simulation objects.
	Bodies map[physics.BodyID]donburi.Entity
	Actors map[*collision.Actor]donburi.Entity
}

var Space = donburi.NewComponentType[SpaceData]()
