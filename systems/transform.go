package systems

import (
	"log"

	"github.com/automoto/rigid2d/components"
	"github.com/yohamta/donburi"
)

// UpdateTransforms copies the simulated positions into the Transform of every
// entity. Views only read Transform.
func UpdateTransforms(w donburi.World) {
	se, ok := components.Space.First(w)
	if !ok {
		return
	}
	space := components.Space.Get(se)

	components.Body.Each(w, func(e *donburi.Entry) {
		b, err := space.Physics.Body(components.Body.Get(e).ID)
		if err != nil {
			log.Printf("[systems] entity %v lost its body: %v", e.Entity(), err)
			return
		}
		t := components.Transform.Get(e)
		t.Position = b.Position
		t.Velocity = b.Velocity
	})

	components.Actor.Each(w, func(e *donburi.Entry) {
		a := components.Actor.Get(e)
		t := components.Transform.Get(e)
		t.Position = a.Position
		t.Velocity = a.Velocity
	})

	components.Surface.Each(w, func(e *donburi.Entry) {
		components.Transform.Get(e).Position = components.Surface.Get(e).Position()
	})
}
