package factory

import (
	"github.com/automoto/rigid2d/archetypes"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/physics"
	"github.com/yohamta/donburi"
)

// CreateBody validates p against the physics world and links the new body to
// an entity. Nothing is spawned when the world rejects p.
func CreateBody(w donburi.World, p physics.BodyParams) (*donburi.Entry, error) {
	space, err := getSpace(w)
	if err != nil {
		return nil, err
	}
	id, err := space.Physics.Add(p)
	if err != nil {
		return nil, err
	}
	b, err := space.Physics.Body(id)
	if err != nil {
		return nil, err
	}

	body := archetypes.Body.Spawn(w)
	space.Bodies[id] = body.Entity()
	components.Body.SetValue(body, components.BodyData{ID: id})
	components.Transform.SetValue(body, components.TransformData{
		Position: b.Position,
		Size:     b.Hitbox.Size(),
		Velocity: b.Velocity,
	})
	glyph := 'o'
	if b.Immovable() {
		glyph = 'X'
	}
	components.Sprite.SetValue(body, components.SpriteData{Color: bodyColor, Glyph: glyph})
	return body, nil
}

// Destroy removes an entity together with its body, actor or surface.
func Destroy(w donburi.World, e *donburi.Entry) error {
	space, err := getSpace(w)
	if err != nil {
		return err
	}
	if e.HasComponent(components.Body) {
		id := components.Body.Get(e).ID
		if err := space.Physics.RemoveBody(id); err != nil {
			return err
		}
		delete(space.Bodies, id)
	}
	if e.HasComponent(components.Actor) {
		a := components.Actor.Get(e).Actor
		space.Layer.RemoveActor(a)
		delete(space.Actors, a)
	}
	if e.HasComponent(components.Surface) {
		space.Layer.RemoveSurface(components.Surface.Get(e).Surface)
	}
	w.Remove(e.Entity())
	return nil
}
