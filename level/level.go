// Package level loads levels from YAML grids or Tiled maps and builds them
// into a game.
package level

import (
	"errors"
	"fmt"

	"github.com/automoto/rigid2d/vec"
)

var ErrInvalidLevel = errors.New("level: invalid level")

// Kind is the element type of a level cell or object.
type Kind string

const (
	KindBlock       Kind = "block"
	KindMovingBlock Kind = "movingBlock"
	KindTweenBlock  Kind = "tweenBlock"
	KindEventBlock  Kind = "eventBlock"
	KindPlayer      Kind = "player"
	KindEntity      Kind = "entity"
	KindBody        Kind = "body"
)

func (k Kind) valid() bool {
	switch k {
	case KindBlock, KindMovingBlock, KindTweenBlock, KindEventBlock,
		KindPlayer, KindEntity, KindBody:
		return true
	}
	return false
}

// Element is one thing to spawn. Fields that do not apply to Kind are
// ignored; zero values take the config package defaults.
type Element struct {
	Kind       Kind
	X, Y, W, H float64
	Friction   float64

	// movingBlock
	End       vec.Vec2
	RouteTime float64

	// tweenBlock
	Distance   float64
	Duration   float64
	Horizontal bool

	// eventBlock
	Event string

	// body
	Mass        float64
	Gravity     *float64
	Drag        *float64
	Restitution *float64
	Collision   string
}

// Level is the loader-independent description of a level, in spawn order.
type Level struct {
	Name          string
	Width, Height float64
	Elements      []Element
}

// Count returns how many elements of kind k the level holds.
func (l *Level) Count(k Kind) int {
	n := 0
	for _, e := range l.Elements {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func (l *Level) validate() error {
	players := 0
	for i, e := range l.Elements {
		if !e.Kind.valid() {
			return fmt.Errorf("%w: element %d has unknown type %q", ErrInvalidLevel, i, e.Kind)
		}
		if e.Kind == KindPlayer {
			players++
			continue
		}
		if e.W <= 0 || e.H <= 0 {
			return fmt.Errorf("%w: element %d (%s) has size %vx%v", ErrInvalidLevel, i, e.Kind, e.W, e.H)
		}
	}
	if players > 1 {
		return fmt.Errorf("%w: %d players, at most one allowed", ErrInvalidLevel, players)
	}
	return nil
}

// TakePlayer removes the player element and returns its position. Headless
// hosts use it as the spawn point for joining players.
func (l *Level) TakePlayer() (vec.Vec2, bool) {
	for i, e := range l.Elements {
		if e.Kind == KindPlayer {
			l.Elements = append(l.Elements[:i], l.Elements[i+1:]...)
			return vec.New(e.X, e.Y), true
		}
	}
	return vec.Vec2{}, false
}
