package components

import (
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BlockHitData is published when an actor hits or stands on an event block.
type BlockHitData struct {
	Block donburi.Entity
	Name  string
	Actor *collision.Actor
	// Dir is the collision direction; zero for a touch from the ground sensor.
	Dir   vec.Vec2
	Touch bool
}

var BlockHitEvent = events.NewEventType[BlockHitData]()

// ContactData is published for every body pair whose collision was resolved.
type ContactData struct {
	A, B donburi.Entity
}

var ContactEvent = events.NewEventType[ContactData]()
