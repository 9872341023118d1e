package netplay

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/leap-fish/necs/router"
	"github.com/yohamta/donburi"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/control"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/vec"
)

var quiet = log.New(io.Discard, "", 0)

func TestTrackerFramesAndGone(t *testing.T) {
	tr := Tracker{Self: "me"}

	got := tr.Update([]EntityState{
		{ID: 1, Owner: "ann", Position: vec.New(1, 2)},
		{ID: 2, Owner: "me", Position: vec.New(9, 9)},
		{ID: 3, Owner: "bob", Velocity: vec.New(0, 1)},
	})
	if len(got) != 2 {
		t.Fatalf("states = %+v, want ann and bob only", got)
	}
	if got[0].ID != 1 || got[0].Frame != 1 || got[0].Position != vec.New(1, 2) {
		t.Fatalf("first = %+v", got[0])
	}
	if got[1].ID != 3 || got[1].Velocity != vec.New(0, 1) {
		t.Fatalf("second = %+v", got[1])
	}

	got = tr.Update([]EntityState{{ID: 3, Owner: "bob"}})
	if len(got) != 2 {
		t.Fatalf("states = %+v", got)
	}
	if got[0].ID != 3 || got[0].Gone || got[0].Frame != 2 {
		t.Fatalf("bob = %+v", got[0])
	}
	if got[1].ID != 1 || !got[1].Gone {
		t.Fatalf("ann should be gone, got %+v", got[1])
	}

	// Gone is reported once.
	got = tr.Update([]EntityState{{ID: 3, Owner: "bob"}})
	if len(got) != 1 || tr.Frame() != 3 {
		t.Fatalf("states = %+v frame = %d", got, tr.Frame())
	}
}

type fakeInbox struct {
	cap int
	got []game.RemoteState
}

func (f *fakeInbox) Push(s game.RemoteState) bool {
	if len(f.got) >= f.cap {
		return false
	}
	f.got = append(f.got, s)
	return true
}

func TestSessionReceiveCountsDrops(t *testing.T) {
	inbox := &fakeInbox{cap: 1}
	s := NewSession(inbox, "me", quiet)
	s.receive([]EntityState{{ID: 1}, {ID: 2}, {ID: 3, Owner: "me"}})

	if len(inbox.got) != 1 || inbox.got[0].ID != 1 {
		t.Fatalf("inbox = %+v", inbox.got)
	}
	if s.Dropped() != 1 {
		t.Fatalf("dropped = %d, want 1", s.Dropped())
	}
}

func TestSendWithoutConnection(t *testing.T) {
	s := NewSession(&fakeInbox{}, "me", quiet)
	if err := s.Send(JoinRequest{}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("err = %v, want ErrNotConnected", err)
	}
	if s.State() != StateDisconnected {
		t.Fatalf("state = %s", s.State())
	}
}

func TestHeldActions(t *testing.T) {
	c := control.New(0)
	for name, b := range config.Input.Bindings {
		if err := c.Bind(name, b.Key, b.Kind, func(int) {}); err != nil {
			t.Fatal(err)
		}
	}
	c.Press(config.Input.Bindings[config.ActionRight].Key)
	c.Update()

	got := HeldActions(c)
	if len(got) != 1 || !got[config.ActionRight] {
		t.Fatalf("held = %v", got)
	}
}

func newHost(t *testing.T, opts HostOptions) (*Host, *game.Game) {
	t.Helper()
	g := game.New(game.Options{Logger: quiet})
	opts.Logger = quiet
	h := NewHost(g, opts)
	h.syncEntity = func(donburi.World, *donburi.Entity) error { return nil }
	return h, g
}

func TestHostJoinInputLeave(t *testing.T) {
	h, g := newHost(t, HostOptions{Version: "1", Spawn: vec.New(10, 10)})
	client := new(router.NetworkClient)

	if err := h.join(client, JoinRequest{Version: "0", PlayerName: "ann"}); !errors.Is(err, ErrVersionMismatch) {
		t.Fatalf("err = %v, want ErrVersionMismatch", err)
	}
	if err := h.join(client, JoinRequest{Version: "1", PlayerName: "ann"}); err != nil {
		t.Fatal(err)
	}
	if err := h.join(client, JoinRequest{Version: "1", PlayerName: "ann"}); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("err = %v, want ErrAlreadyJoined", err)
	}
	if h.PlayerCount() != 1 || len(g.Layer.Actors()) != 1 {
		t.Fatalf("players = %d actors = %d", h.PlayerCount(), len(g.Layer.Actors()))
	}

	h.enqueue(func() {
		h.input(client, PlayerInput{Sequence: 2, Actions: map[string]bool{config.ActionRight: true}})
	})
	// Older than the last input, dropped.
	h.enqueue(func() {
		h.input(client, PlayerInput{Sequence: 1, Actions: map[string]bool{config.ActionLeft: true}})
	})
	if err := h.Update(0); err != nil {
		t.Fatal(err)
	}
	if err := g.Step(1.0 / 60); err != nil {
		t.Fatal(err)
	}

	p := h.peers[client]
	if p.player.Velocity.X <= 0 {
		t.Fatalf("vx = %v, want moving right", p.player.Velocity.X)
	}

	h.publish()
	e := g.World.Entry(p.net)
	pos := NetPosition.Get(e)
	if pos.X != p.player.Position.X || pos.Y != p.player.Position.Y {
		t.Fatalf("net position = %+v, actor at %v", *pos, p.player.Position)
	}
	if NetOwner.Get(e).Name != "ann" {
		t.Fatalf("owner = %q", NetOwner.Get(e).Name)
	}

	h.leave(client)
	if h.PlayerCount() != 0 || len(g.Layer.Actors()) != 0 {
		t.Fatalf("players = %d actors = %d", h.PlayerCount(), len(g.Layer.Actors()))
	}
	if g.World.Valid(p.net) {
		t.Fatal("net entity should be removed")
	}
}

func TestHostJumpIsEdgeTriggered(t *testing.T) {
	h, g := newHost(t, HostOptions{})
	// Same left edge as the spawn point, so the landing resolves vertically.
	if _, err := g.SpawnBlock(0, 40, 100, 10, 0); err != nil {
		t.Fatal(err)
	}
	client := new(router.NetworkClient)
	if err := h.join(client, JoinRequest{PlayerName: "ann"}); err != nil {
		t.Fatal(err)
	}
	p := h.peers[client]

	tick := func() {
		t.Helper()
		if err := h.Update(0); err != nil {
			t.Fatal(err)
		}
		if err := g.Step(1.0 / 60); err != nil {
			t.Fatal(err)
		}
	}
	for i := 0; i < 60 && !p.player.OnGround; i++ {
		tick()
	}
	if !p.player.OnGround {
		t.Fatal("peer never landed")
	}

	h.input(client, PlayerInput{Sequence: 1, Actions: map[string]bool{config.ActionJump: true}})
	tick()
	vy := p.player.Velocity.Y
	if vy >= 0 {
		t.Fatalf("peer should be jumping, vy = %v", vy)
	}
	if !p.jumpHeld {
		t.Fatal("jump should be latched while held")
	}

	// The ground vote from before the jump keeps OnGround set for one more
	// tick. Holding jump through it must not jump again.
	tick()
	if p.player.OnGround {
		t.Fatal("peer should be airborne")
	}
	if got := p.player.Velocity.Y; got < vy-config.Player.JumpSpeed/2 {
		t.Fatalf("vy = %v after holding jump, want no second jump from %v", got, vy)
	}
}
