package archetypes

import (
	"slices"

	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/tags"
	"github.com/yohamta/donburi"
)

var (
	Player = newArchetype(
		tags.Player,
		tags.Actor,
		components.Player,
		components.Actor,
		components.Transform,
		components.Sprite,
	)
	Actor = newArchetype(
		tags.Actor,
		components.Actor,
		components.Transform,
		components.Sprite,
	)
	Body = newArchetype(
		tags.Body,
		components.Body,
		components.Transform,
		components.Sprite,
	)
	Block = newArchetype(
		tags.Block,
		components.Surface,
		components.Transform,
		components.Sprite,
	)
	MovingBlock = newArchetype(
		tags.MovingBlock,
		components.Surface,
		components.Transform,
		components.Sprite,
	)
	TweenBlock = newArchetype(
		tags.TweenBlock,
		components.Surface,
		components.Transform,
		components.Sprite,
	)
	EventBlock = newArchetype(
		tags.EventBlock,
		components.Surface,
		components.Trigger,
		components.Transform,
		components.Sprite,
	)
	Space = newArchetype(
		components.Space,
	)
	Remote = newArchetype(
		tags.Remote,
		components.Remote,
		components.Actor,
		components.Transform,
		components.Sprite,
	)
)

type archetype struct {
	components []donburi.IComponentType
}

func newArchetype(cs ...donburi.IComponentType) *archetype {
	return &archetype{
		components: cs,
	}
}

func (a *archetype) Spawn(w donburi.World, cs ...donburi.IComponentType) *donburi.Entry {
	e := w.Entry(w.Create(
		slices.Concat(a.components, cs)...,
	))
	return e
}
