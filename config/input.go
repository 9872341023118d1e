package config

import "github.com/automoto/rigid2d/control"

// Action names understood by the player controller
const (
	ActionLeft  = "left"
	ActionRight = "right"
	ActionJump  = "jump"
	ActionDown  = "down"
)

// InputConfig holds all input mappings. Keys use ebiten key names ("A",
// "ArrowLeft", "Space"); the terminal view translates its keys to the same
// names.
type InputConfig struct {
	QueueSize int                        `yaml:"queue_size"`
	Bindings  map[string]control.Binding `yaml:"bindings"`
}

// Input is the global input configuration
var Input InputConfig

func setInputDefaults() {
	Input = InputConfig{
		QueueSize: control.DefaultQueueSize,
		Bindings: map[string]control.Binding{
			ActionLeft:  {Key: "A", Kind: control.Hold},
			ActionRight: {Key: "D", Kind: control.Hold},
			ActionJump:  {Key: "W", Kind: control.Hold},
			ActionDown:  {Key: "S", Kind: control.Hold},
		},
	}
}
