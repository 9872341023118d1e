package systems

import (
	"fmt"

	"github.com/automoto/rigid2d/components"
	"github.com/yohamta/donburi"
)

// UpdatePhysics advances the rigid bodies one tick, then the actors and
// surfaces by dt.
func UpdatePhysics(w donburi.World, dt float64) error {
	e, ok := components.Space.First(w)
	if !ok {
		return nil
	}
	space := components.Space.Get(e)
	if err := space.Physics.Update(); err != nil {
		return fmt.Errorf("systems: physics: %w", err)
	}
	space.Layer.Update(dt)
	return nil
}

// PublishContact turns a resolved physics pair into a ContactEvent. It is the
// physics world's contact handler.
func PublishContact(w donburi.World, a, b donburi.Entity) {
	components.ContactEvent.Publish(w, components.ContactData{A: a, B: b})
}
