package netplay

import (
	"slices"

	"github.com/leap-fish/necs/esync"

	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/vec"
)

// EntityState is one synced entity decoded from a world snapshot.
type EntityState struct {
	ID       uint64
	Owner    string
	Position vec.Vec2
	Velocity vec.Vec2
}

// Tracker turns successive world snapshots into remote states. Each
// snapshot gets the next frame number; entities that drop out of a snapshot
// are reported Gone once.
type Tracker struct {
	// Self is the local player's name; its entity is simulated locally and
	// never reported.
	Self string

	frame uint64
	seen  map[uint64]bool
}

func (t *Tracker) Update(ents []EntityState) []game.RemoteState {
	t.frame++
	present := make(map[uint64]bool, len(ents))
	out := make([]game.RemoteState, 0, len(ents))
	for _, e := range ents {
		if e.Owner != "" && e.Owner == t.Self {
			continue
		}
		present[e.ID] = true
		out = append(out, game.RemoteState{
			ID:       e.ID,
			Frame:    t.frame,
			Position: e.Position,
			Velocity: e.Velocity,
		})
	}

	var gone []uint64
	for id := range t.seen {
		if !present[id] {
			gone = append(gone, id)
		}
	}
	slices.Sort(gone)
	for _, id := range gone {
		out = append(out, game.RemoteState{ID: id, Frame: t.frame, Gone: true})
	}

	t.seen = present
	return out
}

// Frame is the number of snapshots seen.
func (t *Tracker) Frame() uint64 {
	return t.frame
}

// decodeSnapshot pulls the netplay components out of a necs snapshot.
// Components that fail to decode are skipped.
func decodeSnapshot(snapshot esync.WorldSnapshot) []EntityState {
	out := make([]EntityState, 0, len(snapshot))
	for _, ent := range snapshot {
		s := EntityState{ID: uint64(ent.Id)}
		for _, componentBytes := range ent.State {
			instance, err := esync.Mapper.Deserialize(componentBytes)
			if err != nil {
				continue
			}
			switch v := instance.(type) {
			case NetPositionData:
				s.Position = vec.New(v.X, v.Y)
			case NetVelocityData:
				s.Velocity = vec.New(v.X, v.Y)
			case NetOwnerData:
				s.Owner = v.Name
			}
		}
		out = append(out, s)
	}
	return out
}
