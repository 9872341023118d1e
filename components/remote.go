package components

import "github.com/yohamta/donburi"

// RemoteData marks a proxy for an entity simulated by another peer.
type RemoteData struct {
	ID uint64
	// Frame of the last snapshot applied.
	Frame uint64
}

var Remote = donburi.NewComponentType[RemoteData]()
