// Package settings persists player preferences between runs: key bindings
// and the last played level.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"maps"

	"github.com/quasilyte/gdata"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/control"
)

const (
	itemSettings = "settings"
	appName      = "rigid2d"
)

var ErrCorrupt = errors.New("settings: corrupt saved data")

// Store is the item storage settings are kept in. *gdata.Manager
// satisfies it.
type Store interface {
	LoadItem(name string) ([]byte, error)
	SaveItem(name string, data []byte) error
}

// Saved is the settings data stored on disk
type Saved struct {
	Bindings map[string]control.Binding `json:"bindings"`
	Level    string                     `json:"level,omitempty"`
}

// Open returns the platform store for this app.
func Open() (*gdata.Manager, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("settings: open storage: %w", err)
	}
	return m, nil
}

// Load reads saved settings. It returns nil, nil when nothing was saved yet.
func Load(s Store) (*Saved, error) {
	data, err := s.LoadItem(itemSettings)
	if err != nil {
		return nil, fmt.Errorf("settings: load: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var saved Saved
	if err := json.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return &saved, nil
}

func Save(s Store, saved *Saved) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.SaveItem(itemSettings, data); err != nil {
		return fmt.Errorf("settings: save: %w", err)
	}
	return nil
}

// Clear removes saved settings.
func Clear(s Store) error {
	return s.SaveItem(itemSettings, nil)
}

// SaveBindings stores the current bindings of c, keeping the other saved
// fields.
func SaveBindings(s Store, c *control.Controls) error {
	saved, err := Load(s)
	if err != nil && !errors.Is(err, ErrCorrupt) {
		return err
	}
	if saved == nil {
		saved = &Saved{}
	}
	saved.Bindings = c.ExportBindings()
	return Save(s, saved)
}

// ApplyBindings overlays saved bindings onto config.Input so the next
// spawned player picks them up. Bindings with an empty key are ignored.
func ApplyBindings(saved *Saved) {
	if saved == nil || len(saved.Bindings) == 0 {
		return
	}
	merged := maps.Clone(config.Input.Bindings)
	if merged == nil {
		merged = make(map[string]control.Binding, len(saved.Bindings))
	}
	for name, b := range saved.Bindings {
		if b.Key == "" {
			log.Printf("[settings] ignoring empty key for %q", name)
			continue
		}
		merged[name] = b
	}
	config.Input.Bindings = merged
}
