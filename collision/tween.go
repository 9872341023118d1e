package collision

import (
	"fmt"

	"github.com/automoto/rigid2d/vec"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// TweenBlock floats along one axis, out by Distance and back again, each leg
// taking Duration seconds. Actors riding it are carried with its velocity.
type TweenBlock struct {
	MovingBlock

	Vertical bool
	seq      *gween.Sequence
}

// NewTweenBlock returns a block at (x, y) that floats distance units up (or
// left when horizontal is set) and back.
func NewTweenBlock(x, y, w, h, distance, duration float64, horizontal bool, friction float64) (*TweenBlock, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: tween duration %v", ErrInvalidSurface, duration)
	}
	start := vec.New(x, y)
	end := vec.New(x, y-distance)
	from, to := float32(y), float32(y-distance)
	if horizontal {
		end = vec.New(x-distance, y)
		from, to = float32(x), float32(x-distance)
	}
	m, err := NewMovingBlock(start, end, w, h, duration, friction)
	if err != nil {
		return nil, err
	}

	seq := gween.NewSequence()
	seq.Add(
		gween.New(from, to, float32(duration), ease.Linear),
		gween.New(to, from, float32(duration), ease.Linear),
	)
	return &TweenBlock{MovingBlock: *m, Vertical: !horizontal, seq: seq}, nil
}

// Update advances the tween and derives the block velocity from the change in
// position, so Touching transfers the real per-second motion.
func (t *TweenBlock) Update(dt float64) {
	t.JustTurned = false
	t.epsilon = dt / 1000

	v, legDone, done := t.seq.Update(float32(dt))
	if done {
		t.seq.Reset()
		v = float32(t.axis(t.Start))
	}
	t.JustTurned = legDone || done

	next := t.pos
	if t.Vertical {
		next.Y = float64(v)
	} else {
		next.X = float64(v)
	}
	if dt > 0 {
		vel, err := next.Sub(t.pos).Div(dt)
		if err == nil {
			t.Velocity = vel
		}
	}
	t.moveTo(next)
}

func (t *TweenBlock) axis(p vec.Vec2) float64 {
	if t.Vertical {
		return p.Y
	}
	return p.X
}
