package factory

import (
	"image/color"

	"github.com/automoto/rigid2d/archetypes"
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
)

func CreateBlock(w donburi.World, b *collision.Block) (*donburi.Entry, error) {
	return addSurface(w, archetypes.Block, b, blockColor, '#')
}

func CreateMovingBlock(w donburi.World, m *collision.MovingBlock) (*donburi.Entry, error) {
	return addSurface(w, archetypes.MovingBlock, m, movingColor, '=')
}

// CreateTweenBlock adds a floating platform.
func CreateTweenBlock(w donburi.World, t *collision.TweenBlock) (*donburi.Entry, error) {
	return addSurface(w, archetypes.TweenBlock, t, movingColor, '~')
}

// CreateEventBlock adds b and publishes a BlockHitEvent named name whenever an
// actor hits or stands on it. Callbacks already set on b keep running.
func CreateEventBlock(w donburi.World, b *collision.EventBlock, name string) (*donburi.Entry, error) {
	block, err := addSurface(w, archetypes.EventBlock, b, eventColor, '!')
	if err != nil {
		return nil, err
	}
	components.Trigger.SetValue(block, components.TriggerData{Name: name})

	entity := block.Entity()
	onHit, onTouch := b.OnHit, b.OnTouch
	b.OnHit = func(a *collision.Actor, dir vec.Vec2) {
		if onHit != nil {
			onHit(a, dir)
		}
		countHit(w, entity)
		components.BlockHitEvent.Publish(w, components.BlockHitData{
			Block: entity,
			Name:  name,
			Actor: a,
			Dir:   dir,
		})
	}
	b.OnTouch = func(a *collision.Actor) {
		if onTouch != nil {
			onTouch(a)
		}
		components.BlockHitEvent.Publish(w, components.BlockHitData{
			Block: entity,
			Name:  name,
			Actor: a,
			Touch: true,
		})
	}
	return block, nil
}

func countHit(w donburi.World, e donburi.Entity) {
	if !w.Valid(e) {
		return
	}
	components.Trigger.Get(w.Entry(e)).Hits++
}

type spawner interface {
	Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry
}

func addSurface(w donburi.World, a spawner, s collision.Surface, c color.RGBA, glyph rune) (*donburi.Entry, error) {
	space, err := getSpace(w)
	if err != nil {
		return nil, err
	}
	space.Layer.AddSurface(s)

	block := a.Spawn(w)
	components.Surface.SetValue(block, components.SurfaceData{Surface: s})
	components.Transform.SetValue(block, components.TransformData{
		Position: s.Position(),
		Size:     s.Box().Size(),
	})
	components.Sprite.SetValue(block, components.SpriteData{Color: c, Glyph: glyph})
	return block, nil
}
