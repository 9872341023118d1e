package components

import (
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
)

// TransformData is the render-facing copy of an entity's box, refreshed after
// every tick.
type TransformData struct {
	Position vec.Vec2
	Size     vec.Vec2
	Velocity vec.Vec2
}

var Transform = donburi.NewComponentType[TransformData]()
