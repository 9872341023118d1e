package physics

import (
	"errors"
	"fmt"

	"github.com/automoto/rigid2d/vec"
)

var (
	ErrMalformedHitbox = errors.New("physics: hitbox min corner exceeds max corner")
	ErrInvalidMass     = errors.New("physics: mass must be positive")
	ErrInvalidParam    = errors.New("physics: invalid body parameter")
	ErrBodyNotFound    = errors.New("physics: no body with this id")
	ErrStaleBody       = errors.New("physics: body id refers to a removed body")

	// ErrCoincident is returned by ResolveCollision when both bodies share the
	// exact same position and no collision normal exists. World.Update skips
	// the pair instead of aborting the tick.
	ErrCoincident = fmt.Errorf("physics: coincident bodies: %w", vec.ErrZeroVector)

	// ErrUnstable is returned when a resolution produced a non-finite velocity.
	ErrUnstable = errors.New("physics: resolution produced a non-finite velocity")
)
