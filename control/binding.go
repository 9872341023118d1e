package control

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind    = errors.New("control: unknown binding kind")
	ErrUnknownBinding = errors.New("control: no binding with this name")
	ErrEmptyKey       = errors.New("control: empty key")
	ErrKeyInUse       = errors.New("control: key already bound")
)

// Kind decides when a binding's action runs.
type Kind int

const (
	// Hold runs every tick while the key is down.
	Hold Kind = iota
	// Once runs on the tick the key went down.
	Once
	// Release runs when the key goes up.
	Release
	// ReleaseOnce runs on the first release, then unbinds itself.
	ReleaseOnce
	// ReleaseTick runs like Hold and once more on the tick after release.
	ReleaseTick
)

var kindNames = map[Kind]string{
	Hold:        "hold",
	Once:        "once",
	Release:     "release",
	ReleaseOnce: "releaseOnce",
	ReleaseTick: "withReleaseTick",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return Hold, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) MarshalText() ([]byte, error) {
	s, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return []byte(s), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	parsed, err := ParseKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Action is the callback of a binding. ticks is how long the key has been
// held; Once actions always receive 0.
type Action func(ticks int)

// Binding is the exportable part of a named binding.
type Binding struct {
	Key  string `yaml:"key" json:"key"`
	Kind Kind   `yaml:"type" json:"type"`
}

type named struct {
	Binding
	action Action
}
