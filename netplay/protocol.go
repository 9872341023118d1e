// Package netplay runs the game over WebSockets. A Host simulates peers from
// their inputs and syncs their actors; a Session feeds the synced actors into
// a local game as remote snapshots.
package netplay

import (
	"sync"

	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// Sync ID constants - ID 1 is reserved by necs for NetworkId
const (
	SyncIDNetPosition uint = 10
	SyncIDNetVelocity uint = 11
	SyncIDNetOwner    uint = 12
)

// Interpolation IDs (uint8 for WithInterpFn)
const (
	InterpIDNetPosition uint8 = 10
	InterpIDNetVelocity uint8 = 11
)

type NetPositionData struct {
	X, Y float64
}

var NetPosition = donburi.NewComponentType[NetPositionData]()

func LerpNetPosition(from, to NetPositionData, t float64) *NetPositionData {
	return &NetPositionData{
		X: from.X + (to.X-from.X)*t,
		Y: from.Y + (to.Y-from.Y)*t,
	}
}

type NetVelocityData struct {
	X, Y float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()

func LerpNetVelocity(from, to NetVelocityData, t float64) *NetVelocityData {
	return &NetVelocityData{
		X: from.X + (to.X-from.X)*t,
		Y: from.Y + (to.Y-from.Y)*t,
	}
}

// NetOwnerData names the player that controls an entity, so a client can
// skip its own.
type NetOwnerData struct {
	Name string
}

var NetOwner = donburi.NewComponentType[NetOwnerData]()

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterComponents registers the network components with necs. Both host
// and client call it before any network operation; repeat calls return the
// first result.
func RegisterComponents() error {
	registerOnce.Do(func() {
		registerErr = registerComponents()
	})
	return registerErr
}

func registerComponents() error {
	if err := esync.RegisterComponent(
		SyncIDNetPosition,
		NetPositionData{},
		NetPosition,
		esync.WithInterpFn(InterpIDNetPosition, LerpNetPosition),
	); err != nil {
		return err
	}

	if err := esync.RegisterComponent(
		SyncIDNetVelocity,
		NetVelocityData{},
		NetVelocity,
		esync.WithInterpFn(InterpIDNetVelocity, LerpNetVelocity),
	); err != nil {
		return err
	}

	// Owner never changes, no interpolation.
	return esync.RegisterComponent(
		SyncIDNetOwner,
		NetOwnerData{},
		NetOwner,
	)
}

// JoinRequest is sent by a client after connecting.
type JoinRequest struct {
	Version    string
	PlayerName string
}

// PlayerInput is sent by a client every tick with the actions it holds.
type PlayerInput struct {
	Sequence uint32
	Actions  map[string]bool
}
