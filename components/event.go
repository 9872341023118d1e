package components

import "github.com/yohamta/donburi"

// TriggerData names the event an EventBlock publishes.
type TriggerData struct {
	Name string
	Hits int
}

var Trigger = donburi.NewComponentType[TriggerData]()
