package tags

import "github.com/yohamta/donburi"

var (
	Player      = donburi.NewTag().SetName("Player")
	Actor       = donburi.NewTag().SetName("Actor")
	Body        = donburi.NewTag().SetName("Body")
	Block       = donburi.NewTag().SetName("Block")
	MovingBlock = donburi.NewTag().SetName("MovingBlock")
	TweenBlock  = donburi.NewTag().SetName("TweenBlock")
	EventBlock  = donburi.NewTag().SetName("EventBlock")
	Remote      = donburi.NewTag().SetName("Remote")
)

