package components

import (
	"github.com/automoto/rigid2d/collision"
	"github.com/yohamta/donburi"
)

type ActorData struct {
	*collision.Actor
}

var Actor = donburi.NewComponentType[ActorData]()

type SurfaceData struct {
	collision.Surface
}

var Surface = donburi.NewComponentType[SurfaceData]()
