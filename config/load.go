package config

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/automoto/rigid2d/control"
)

var ErrInvalidConfig = errors.New("config: invalid value")

// file mirrors the YAML layout. Sections and fields left out of the file keep
// their current values.
type file struct {
	Window  Config        `yaml:"window"`
	Physics PhysicsConfig `yaml:"physics"`
	Loop    LoopConfig    `yaml:"loop"`
	Player  PlayerConfig  `yaml:"player"`
	Block   BlockConfig   `yaml:"block"`
	Net     NetConfig     `yaml:"net"`
	Input   InputConfig   `yaml:"input"`
}

// Load overlays the YAML file at path onto the current configuration.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := Apply(data); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	return nil
}

// Apply overlays YAML data onto the current configuration. Nothing changes
// when the data fails to parse or validate.
func Apply(data []byte) error {
	f := file{
		Window:  *C,
		Physics: Physics,
		Loop:    Loop,
		Player:  Player,
		Block:   Block,
		Net:     Net,
		Input: InputConfig{
			QueueSize: Input.QueueSize,
			Bindings:  maps.Clone(Input.Bindings),
		},
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if err := f.validate(); err != nil {
		return err
	}

	C = &f.Window
	Physics = f.Physics
	Loop = f.Loop
	Player = f.Player
	Block = f.Block
	Net = f.Net
	Input = f.Input
	return nil
}

func (f *file) validate() error {
	finite := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s = %v", ErrInvalidConfig, name, v)
		}
		return nil
	}
	positive := func(name string, v float64) error {
		if err := finite(name, v); err != nil {
			return err
		}
		if v <= 0 {
			return fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidConfig, name, v)
		}
		return nil
	}

	checks := []error{
		positive("window.width", float64(f.Window.Width)),
		positive("window.height", float64(f.Window.Height)),
		positive("window.scale", f.Window.Scale),
		finite("physics.gravity", f.Physics.Gravity),
		positive("physics.drag", f.Physics.Drag),
		finite("physics.restitution", f.Physics.Restitution),
		finite("physics.soft_percent", f.Physics.SoftPercent),
		finite("physics.soft_slop", f.Physics.SoftSlop),
		positive("loop.fps", float64(f.Loop.FPS)),
		positive("player.width", f.Player.Width),
		positive("player.height", f.Player.Height),
		finite("player.run_accel", f.Player.RunAccel),
		finite("player.max_x_speed", f.Player.MaxXSpeed),
		finite("player.jump_speed", f.Player.JumpSpeed),
		finite("player.gravity", f.Player.Gravity),
		positive("player.in_air_drag", f.Player.InAirDrag),
		positive("block.friction", f.Block.Friction),
		positive("block.route_time", f.Block.RouteTime),
		positive("block.tween_duration", f.Block.TweenDuration),
		positive("net.inbox_size", float64(f.Net.InboxSize)),
	}
	if f.Physics.BroadPhase {
		checks = append(checks,
			positive("physics.broad_phase_width", float64(f.Physics.BroadPhaseWidth)),
			positive("physics.broad_phase_height", float64(f.Physics.BroadPhaseHeight)),
			positive("physics.broad_phase_cell", float64(f.Physics.BroadPhaseCell)),
		)
	}
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	if f.Loop.MaxCatchUp < 0 {
		return fmt.Errorf("%w: loop.max_catch_up = %d", ErrInvalidConfig, f.Loop.MaxCatchUp)
	}
	if f.Block.Friction > 1 {
		return fmt.Errorf("%w: block.friction must be at most 1, got %v", ErrInvalidConfig, f.Block.Friction)
	}
	if f.Net.Port > math.MaxUint16 {
		return fmt.Errorf("%w: net.port = %d", ErrInvalidConfig, f.Net.Port)
	}
	for action, b := range f.Input.Bindings {
		if b.Key == "" {
			return fmt.Errorf("%w: input binding %q: %w", ErrInvalidConfig, action, control.ErrEmptyKey)
		}
	}
	return nil
}
