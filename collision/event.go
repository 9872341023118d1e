package collision

import "github.com/automoto/rigid2d/vec"

// EventBlock is a static block that also reports contacts to callbacks.
type EventBlock struct {
	Block

	OnHit   func(a *Actor, dir vec.Vec2)
	OnTouch func(a *Actor)
}

func NewEventBlock(x, y, w, h, friction float64) (*EventBlock, error) {
	b, err := NewBlock(x, y, w, h, friction)
	if err != nil {
		return nil, err
	}
	return &EventBlock{Block: *b}, nil
}

func (e *EventBlock) OnCollision(a *Actor, dir vec.Vec2) {
	e.Block.OnCollision(a, dir)
	if e.OnHit != nil {
		e.OnHit(a, dir)
	}
}

func (e *EventBlock) Touching(a *Actor) {
	e.Block.Touching(a)
	if e.OnTouch != nil {
		e.OnTouch(a)
	}
}
