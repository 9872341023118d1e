package game

import (
	"image/color"

	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
)

// Renderable is what a view needs to draw one entity after a tick.
type Renderable struct {
	Entity   donburi.Entity
	Position vec.Vec2
	Size     vec.Vec2
	Velocity vec.Vec2
	Color    color.RGBA
	Glyph    rune
	Player   bool
}

// Each calls fn for every drawable entity.
func (g *Game) Each(fn func(r Renderable)) {
	components.Sprite.Each(g.World, func(e *donburi.Entry) {
		t := components.Transform.Get(e)
		s := components.Sprite.Get(e)
		fn(Renderable{
			Entity:   e.Entity(),
			Position: t.Position,
			Size:     t.Size,
			Velocity: t.Velocity,
			Color:    s.Color,
			Glyph:    s.Glyph,
			Player:   e.HasComponent(components.Player),
		})
	})
}

// Snapshot returns every drawable entity.
func (g *Game) Snapshot() []Renderable {
	var out []Renderable
	g.Each(func(r Renderable) {
		out = append(out, r)
	})
	return out
}

// OnBlockHit subscribes fn to event block hits and touches. Events are
// delivered at the end of the tick that produced them.
func (g *Game) OnBlockHit(fn func(components.BlockHitData)) {
	components.BlockHitEvent.Subscribe(g.World, func(_ donburi.World, e components.BlockHitData) {
		fn(e)
	})
}

// OnContact subscribes fn to resolved body pairs.
func (g *Game) OnContact(fn func(components.ContactData)) {
	components.ContactEvent.Subscribe(g.World, func(_ donburi.World, e components.ContactData) {
		fn(e)
	})
}
