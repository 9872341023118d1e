package systems

import (
	"fmt"

	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/control"
)

// BindPlayer connects the configured movement bindings to p. Actions without
// a configured binding are skipped.
func BindPlayer(c *control.Controls, p *collision.Player, bindings map[string]control.Binding) error {
	actions := map[string]control.Action{
		config.ActionLeft:  func(int) { p.Left() },
		config.ActionRight: func(int) { p.Right() },
		config.ActionJump:  func(int) { p.Jump() },
		config.ActionDown:  func(int) { p.Down() },
	}
	movement := make(map[string]control.Binding, len(actions))
	for name := range actions {
		if b, ok := bindings[name]; ok {
			movement[name] = b
		}
	}
	if _, err := c.ImportBindings(movement, actions); err != nil {
		return fmt.Errorf("systems: bind player: %w", err)
	}
	return nil
}
