package components

import (
	"github.com/automoto/rigid2d/collision"
	"github.com/yohamta/donburi"
)

// PlayerData is the locally controlled actor.
type PlayerData struct {
	*collision.Player
}

var Player = donburi.NewComponentType[PlayerData]()
