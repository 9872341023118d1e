package control

import "fmt"

type EventType int

const (
	KeyDown EventType = iota
	KeyUp
)

func (t EventType) String() string {
	switch t {
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "keydown":
		*t = KeyDown
	case "keyup":
		*t = KeyUp
	default:
		return fmt.Errorf("control: unknown event type %q", b)
	}
	return nil
}

// Event is a key transition stamped with the tick that consumed it.
type Event struct {
	Type  EventType `yaml:"type" json:"type"`
	Key   string    `yaml:"key" json:"key"`
	Frame int       `yaml:"frame" json:"frame"`
}

// StartRecording discards any previous recording and starts a new one.
func (c *Controls) StartRecording() {
	c.recording = true
	c.recorded = nil
}

// StopRecording returns a copy of the events recorded so far.
func (c *Controls) StopRecording() []Event {
	c.recording = false
	out := make([]Event, len(c.recorded))
	copy(out, c.recorded)
	return out
}

func (c *Controls) Recording() bool {
	return c.recording
}

// StartPlayback replays events, shifted so the first one lands on the next
// Update. Frames must be ascending.
func (c *Controls) StartPlayback(events []Event) {
	if len(events) == 0 {
		return
	}
	shift := c.frame - events[0].Frame
	c.playback = make([]Event, len(events))
	for i, e := range events {
		e.Frame += shift
		c.playback[i] = e
	}
	c.playing = true
}

func (c *Controls) StopPlayback() {
	c.playing = false
	c.playback = nil
}

func (c *Controls) Playing() bool {
	return c.playing
}

func (c *Controls) replay() {
	if !c.playing {
		return
	}
	for len(c.playback) > 0 && c.playback[0].Frame <= c.frame {
		e := c.playback[0]
		c.playback = c.playback[1:]
		c.apply(e, false)
	}
	if len(c.playback) == 0 {
		c.StopPlayback()
	}
}
