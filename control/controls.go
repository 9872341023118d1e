// Package control maps key presses to per-tick actions.
//
// Input sources call Press and Release from any goroutine. The events are
// queued and only applied by Update, which the game calls once per tick.
package control

import (
	"fmt"
	"log"
	"slices"
	"sort"
)

// DefaultQueueSize is the number of key events buffered between ticks.
const DefaultQueueSize = 256

type releaseTick struct {
	ticks int
	fire  func()
}

type capture struct {
	name   string
	kind   Kind
	action Action
}

// Controls holds named bindings, key state and the record/playback buffers.
type Controls struct {
	queue chan Event

	named map[string]*named
	hold  map[string]Action
	once  map[string]Action
	rel   map[string]Action
	relOn map[string]Action

	held     []string
	duration map[string]int
	pressed  map[string]bool
	pending  map[string]*releaseTick

	capturing *capture
	paused    bool

	frame     int
	recording bool
	recorded  []Event
	playback  []Event
	playing   bool
}

func New(queueSize int) *Controls {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Controls{
		queue:    make(chan Event, queueSize),
		named:    make(map[string]*named),
		hold:     make(map[string]Action),
		once:     make(map[string]Action),
		rel:      make(map[string]Action),
		relOn:    make(map[string]Action),
		duration: make(map[string]int),
		pressed:  make(map[string]bool),
		pending:  make(map[string]*releaseTick),
	}
}

// Press queues a key-down. Safe for concurrent use.
func (c *Controls) Press(key string) {
	c.enqueue(Event{Type: KeyDown, Key: key})
}

// Release queues a key-up. Safe for concurrent use.
func (c *Controls) Release(key string) {
	c.enqueue(Event{Type: KeyUp, Key: key})
}

func (c *Controls) enqueue(e Event) {
	select {
	case c.queue <- e:
	default:
		log.Printf("[control] input queue full, dropped %s %q", e.Type, e.Key)
	}
}

// Bind registers or replaces the binding called name.
func (c *Controls) Bind(name, key string, kind Kind, action Action) error {
	return c.SetBinding(name, kind, key, action)
}

// SetBinding points name at key with the given kind, dropping whatever the
// name was bound to before. A key holds one binding: it fails with
// ErrKeyInUse when another name already owns key.
func (c *Controls) SetBinding(name string, kind Kind, key string, action Action) error {
	if key == "" {
		return fmt.Errorf("%w: binding %q", ErrEmptyKey, name)
	}
	if _, ok := kindNames[kind]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownKind, int(kind))
	}
	if owner, ok := c.keyOwner(key); ok && owner != name {
		return fmt.Errorf("%w: %q is bound to %q", ErrKeyInUse, key, owner)
	}
	if old, ok := c.named[name]; ok {
		c.unbindKey(old.Key)
	}
	c.named[name] = &named{Binding: Binding{Key: key, Kind: kind}, action: action}
	c.install(name)
	return nil
}

// Unbind drops the binding called name and reports whether it existed.
func (c *Controls) Unbind(name string) bool {
	n, ok := c.named[name]
	if !ok {
		return false
	}
	c.unbindKey(n.Key)
	delete(c.named, name)
	return true
}

func (c *Controls) keyOwner(key string) (string, bool) {
	for name, n := range c.named {
		if n.Key == key {
			return name, true
		}
	}
	return "", false
}

func (c *Controls) unbindKey(key string) {
	delete(c.hold, key)
	delete(c.once, key)
	delete(c.rel, key)
	delete(c.relOn, key)
}

func (c *Controls) install(name string) {
	n := c.named[name]
	key, action := n.Key, n.action
	switch n.Kind {
	case Hold:
		c.hold[key] = action
	case Once:
		c.once[key] = action
	case Release:
		c.rel[key] = action
	case ReleaseOnce:
		c.relOn[key] = action
	case ReleaseTick:
		c.hold[key] = action
		c.rel[key] = func(ticks int) {
			c.pending[key] = &releaseTick{ticks: 1, fire: func() { action(ticks) }}
		}
	}
}

// UpdateBinding swaps the action of an existing binding.
func (c *Controls) UpdateBinding(name string, action Action) error {
	n, ok := c.named[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBinding, name)
	}
	n.action = action
	c.install(name)
	return nil
}

// UpdateBindingKey moves an existing binding to another key.
func (c *Controls) UpdateBindingKey(name, key string) error {
	n, ok := c.named[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBinding, name)
	}
	return c.SetBinding(name, n.Kind, key, n.action)
}

// CaptureBinding binds name to whichever key is pressed next. That key press
// is consumed.
func (c *Controls) CaptureBinding(name string, kind Kind, action Action) {
	c.capturing = &capture{name: name, kind: kind, action: action}
}

func (c *Controls) Capturing() bool {
	return c.capturing != nil
}

// BoundKey returns the key of a binding and whether it exists.
func (c *Controls) BoundKey(name string) (string, bool) {
	n, ok := c.named[name]
	if !ok {
		return "", false
	}
	return n.Key, true
}

// ExportBindings returns every named binding without its action.
func (c *Controls) ExportBindings() map[string]Binding {
	out := make(map[string]Binding, len(c.named))
	for name, n := range c.named {
		out[name] = n.Binding
	}
	return out
}

// ImportBindings binds every entry that has an action in actions. Entries
// without one are skipped and reported in the returned slice. The imported
// names are unbound first, so a set that swaps keys between them applies
// cleanly. On error the names imported so far stay bound.
func (c *Controls) ImportBindings(bindings map[string]Binding, actions map[string]Action) ([]string, error) {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	var skipped, imported []string
	for _, name := range names {
		if _, ok := actions[name]; !ok {
			skipped = append(skipped, name)
			continue
		}
		imported = append(imported, name)
		c.Unbind(name)
	}
	for _, name := range imported {
		action := actions[name]
		b := bindings[name]
		if err := c.SetBinding(name, b.Kind, b.Key, action); err != nil {
			return skipped, fmt.Errorf("control: import %q: %w", name, err)
		}
	}
	return skipped, nil
}

func (c *Controls) Pause()   { c.paused = true }
func (c *Controls) Unpause() { c.paused = false }

func (c *Controls) Paused() bool {
	return c.paused
}

// Held reports whether key is down and for how many ticks.
func (c *Controls) Held(key string) (int, bool) {
	d, ok := c.duration[key]
	return d, ok
}

// Frame is the number of Update calls so far.
func (c *Controls) Frame() int {
	return c.frame
}

// Update applies queued and replayed key events, then runs the bindings of
// held keys unless paused.
func (c *Controls) Update() {
	c.drain()
	c.replay()

	if !c.paused {
		for _, key := range c.held {
			d := c.duration[key] + 1
			c.duration[key] = d
			if action, ok := c.hold[key]; ok {
				action(d)
			}
			if action, ok := c.once[key]; ok && c.pressed[key] {
				action(0)
			}
		}

		keys := make([]string, 0, len(c.pending))
		for key := range c.pending {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			p := c.pending[key]
			if p.ticks > 0 {
				p.ticks--
				p.fire()
			} else {
				delete(c.pending, key)
			}
		}

		clear(c.pressed)
	}

	c.frame++
}

func (c *Controls) drain() {
	for {
		select {
		case e := <-c.queue:
			c.apply(e, true)
		default:
			return
		}
	}
}

func (c *Controls) apply(e Event, record bool) {
	switch e.Type {
	case KeyDown:
		c.keyDown(e.Key, record)
	case KeyUp:
		c.keyUp(e.Key, record)
	}
}

func (c *Controls) keyDown(key string, record bool) {
	if c.capturing != nil {
		cp := c.capturing
		c.capturing = nil
		if err := c.SetBinding(cp.name, cp.kind, key, cp.action); err != nil {
			log.Printf("[control] capture %q: %v", cp.name, err)
		}
		return
	}
	if _, down := c.duration[key]; !down {
		c.duration[key] = 0
		c.held = append(c.held, key)
		c.pressed[key] = true
	}
	if record && c.recording {
		c.recorded = append(c.recorded, Event{Type: KeyDown, Key: key, Frame: c.frame})
	}
}

func (c *Controls) keyUp(key string, record bool) {
	d := c.duration[key]
	delete(c.duration, key)
	delete(c.pressed, key)
	if i := slices.Index(c.held, key); i >= 0 {
		c.held = slices.Delete(c.held, i, i+1)
	}

	if action, ok := c.rel[key]; ok {
		action(d)
	}
	if action, ok := c.relOn[key]; ok {
		action(d)
		delete(c.relOn, key)
	}
	if record && c.recording {
		c.recorded = append(c.recorded, Event{Type: KeyUp, Key: key, Frame: c.frame})
	}
}
