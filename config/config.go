package config

import (
	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/vec"
)

// Config holds general window configuration
type Config struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// PhysicsConfig contains the defaults handed to every physics body
type PhysicsConfig struct {
	// Per-tick gravity and velocity multiplier
	Gravity     float64 `yaml:"gravity"`
	Drag        float64 `yaml:"drag"`
	Restitution float64 `yaml:"restitution"`

	// Soft collision correction
	SoftPercent float64 `yaml:"soft_percent"`
	SoftSlop    float64 `yaml:"soft_slop"`

	// Broad-phase grid. Disabled when BroadPhase is false.
	BroadPhase       bool `yaml:"broad_phase"`
	BroadPhaseWidth  int  `yaml:"broad_phase_width"`
	BroadPhaseHeight int  `yaml:"broad_phase_height"`
	BroadPhaseCell   int  `yaml:"broad_phase_cell"`
}

// LoopConfig contains game loop timing
type LoopConfig struct {
	FPS        int `yaml:"fps"`
	MaxCatchUp int `yaml:"max_catch_up"` // Ticks run at most per poll
}

// PlayerConfig contains all player-related configuration values
type PlayerConfig struct {
	// Dimensions
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// Movement, per second
	RunAccel  float64 `yaml:"run_accel"`
	MaxXSpeed float64 `yaml:"max_x_speed"`
	JumpSpeed float64 `yaml:"jump_speed"`

	// Physics
	Gravity         float64 `yaml:"gravity"`
	InAirDrag       float64 `yaml:"in_air_drag"`
	CollisionOffset float64 `yaml:"collision_offset"`
}

// BlockConfig contains the defaults for level surfaces
type BlockConfig struct {
	Friction      float64 `yaml:"friction"`
	RouteTime     float64 `yaml:"route_time"`     // Seconds from start to end of a moving block
	TweenDistance float64 `yaml:"tween_distance"` // Travel of a floating block
	TweenDuration float64 `yaml:"tween_duration"` // Seconds per leg
}

// NetConfig contains server and client networking values
type NetConfig struct {
	Address   string `yaml:"address"`
	Port      uint   `yaml:"port"`
	InboxSize int    `yaml:"inbox_size"` // Remote snapshots buffered between ticks
}

// Global configuration instances
var C *Config
var Physics PhysicsConfig
var Loop LoopConfig
var Player PlayerConfig
var Block BlockConfig
var Net NetConfig

func init() {
	setDefaults()
}

func setDefaults() {
	C = &Config{
		Width:  640,
		Height: 360,
		Scale:  2,
	}

	// Physics Config
	Physics = PhysicsConfig{
		Gravity:     0.1,
		Drag:        0.99,
		Restitution: 0.8,

		SoftPercent: 0.5,
		SoftSlop:    0.01,

		BroadPhase:       false,
		BroadPhaseWidth:  640,
		BroadPhaseHeight: 360,
		BroadPhaseCell:   32,
	}

	Loop = LoopConfig{
		FPS:        60,
		MaxCatchUp: 5,
	}

	// Player Config
	Player = PlayerConfig{
		Width:  16,
		Height: 24,

		RunAccel:  600,
		MaxXSpeed: 150,
		JumpSpeed: 260,

		Gravity:         500,
		InAirDrag:       1,
		CollisionOffset: 1,
	}

	Block = BlockConfig{
		Friction:      collision.DefaultFriction,
		RouteTime:     2,
		TweenDistance: 64,
		TweenDuration: 2,
	}

	Net = NetConfig{
		Address:   "localhost",
		Port:      7373,
		InboxSize: 64,
	}

	setInputDefaults()
}

// BodyDefaults converts the physics section for physics.WithDefaults.
func (p PhysicsConfig) BodyDefaults() physics.BodyDefaults {
	return physics.BodyDefaults{
		Gravity:     p.Gravity,
		Drag:        p.Drag,
		Restitution: p.Restitution,
		Collision:   physics.CollisionHard,
		SoftPercent: p.SoftPercent,
		SoftSlop:    p.SoftSlop,
	}
}

// WorldOptions returns the physics.World options this section describes.
func (p PhysicsConfig) WorldOptions() []physics.Option {
	opts := []physics.Option{physics.WithDefaults(p.BodyDefaults())}
	if p.BroadPhase {
		opts = append(opts, physics.WithBroadPhase(p.BroadPhaseWidth, p.BroadPhaseHeight, p.BroadPhaseCell, p.BroadPhaseCell))
	}
	return opts
}

// ActorConfig places a player-sized actor at (x, y).
func (p PlayerConfig) ActorConfig(x, y float64) collision.ActorConfig {
	return collision.ActorConfig{
		X:               x,
		Y:               y,
		Width:           p.Width,
		Height:          p.Height,
		Gravity:         vec.New(0, p.Gravity),
		InAirDrag:       p.InAirDrag,
		CollisionOffset: p.CollisionOffset,
	}
}
