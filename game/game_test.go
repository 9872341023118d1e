package game

import (
	"errors"
	"io"
	"log"
	"math"
	"testing"

	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/physics"
	"github.com/automoto/rigid2d/vec"
	"github.com/yohamta/donburi"
)

const dt = 1.0 / 60

func newGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard, "", 0)
	}
	return New(opts)
}

func steps(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := g.Step(dt); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func mustRect(t *testing.T, w, h float64) physics.Hitbox {
	t.Helper()
	hb, err := physics.Rect(w, h)
	if err != nil {
		t.Fatal(err)
	}
	return hb
}

func TestPlayerLandsAndTransformFollows(t *testing.T) {
	g := newGame(t, Options{})
	if _, err := g.SpawnBlock(0, 100, 200, 20, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SpawnPlayer(10, 50); err != nil {
		t.Fatal(err)
	}
	steps(t, g, 120)

	p, err := g.Player()
	if err != nil {
		t.Fatal(err)
	}
	if !p.OnGround {
		t.Fatal("player should be on the ground")
	}
	want := vec.New(10, 100-config.Player.Height-config.Player.CollisionOffset)
	if p.Position != want {
		t.Fatalf("player at %v, want %v", p.Position, want)
	}

	var found bool
	for _, r := range g.Snapshot() {
		if r.Player {
			found = true
			if r.Position != want || r.Size != vec.New(config.Player.Width, config.Player.Height) {
				t.Fatalf("renderable = %+v", r)
			}
		}
	}
	if !found {
		t.Fatal("player missing from snapshot")
	}
	if g.Frame() != 120 {
		t.Fatalf("frame = %d, want 120", g.Frame())
	}
}

func TestControlsDrivePlayer(t *testing.T) {
	g := newGame(t, Options{})
	if _, err := g.SpawnPlayer(0, 0); err != nil {
		t.Fatal(err)
	}
	g.Controls.Press(config.Input.Bindings[config.ActionRight].Key)
	steps(t, g, 1)

	p, _ := g.Player()
	if p.Velocity.X <= 0 {
		t.Fatalf("vx = %v, want positive", p.Velocity.X)
	}
}

func TestSpawnPlayerTwice(t *testing.T) {
	g := newGame(t, Options{})
	if _, err := g.SpawnPlayer(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SpawnPlayer(0, 0); !errors.Is(err, ErrPlayerExists) {
		t.Fatalf("err = %v, want ErrPlayerExists", err)
	}
}

func remoteProxies(g *Game) []*donburi.Entry {
	var out []*donburi.Entry
	components.Remote.Each(g.World, func(e *donburi.Entry) {
		out = append(out, e)
	})
	return out
}

func TestInboxTeleportsRemoteProxy(t *testing.T) {
	g := newGame(t, Options{})

	g.Push(RemoteState{ID: 7, Frame: 1, Position: vec.New(5, 5)})
	steps(t, g, 1)

	proxies := remoteProxies(g)
	if len(proxies) != 1 {
		t.Fatalf("proxies = %d, want 1", len(proxies))
	}
	a := components.Actor.Get(proxies[0]).Actor
	if a.Position.X != 5 || a.Position.Y <= 5 || a.Position.Y >= 6 {
		t.Fatalf("proxy at %v, want teleported to (5,5) then one tick of fall", a.Position)
	}

	g.Push(RemoteState{ID: 7, Frame: 3, Position: vec.New(50, 5)})
	g.Push(RemoteState{ID: 7, Frame: 2, Position: vec.New(0, 0)})
	steps(t, g, 1)
	if a.Position.X != 50 {
		t.Fatalf("stale snapshot applied: x = %v", a.Position.X)
	}
	if got := components.Remote.Get(proxies[0]).Frame; got != 3 {
		t.Fatalf("frame = %d, want 3", got)
	}

	g.Push(RemoteState{ID: 7, Gone: true})
	steps(t, g, 1)
	if n := len(remoteProxies(g)); n != 0 {
		t.Fatalf("proxies after Gone = %d", n)
	}
	if n := len(g.Layer.Actors()); n != 0 {
		t.Fatalf("layer still holds %d actors", n)
	}
}

func TestPushDropsWhenFull(t *testing.T) {
	g := newGame(t, Options{InboxSize: 1})
	if !g.Push(RemoteState{ID: 1}) {
		t.Fatal("first push should fit")
	}
	if g.Push(RemoteState{ID: 2}) {
		t.Fatal("second push should be dropped")
	}
}

func TestEventBlockPublishesHits(t *testing.T) {
	g := newGame(t, Options{})
	block, err := g.SpawnEventBlock("spring", 0, 100, 200, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.SpawnActor(config.Player.ActorConfig(10, 50)); err != nil {
		t.Fatal(err)
	}

	var hits, touches int
	g.OnBlockHit(func(e components.BlockHitData) {
		if e.Name != "spring" || e.Block != block.Entity() {
			t.Errorf("event = %+v", e)
		}
		if e.Touch {
			touches++
			return
		}
		hits++
		if e.Dir != vec.New(0, 1) {
			t.Errorf("hit dir = %v, want down onto the block", e.Dir)
		}
	})
	steps(t, g, 120)

	if hits == 0 || touches == 0 {
		t.Fatalf("hits = %d touches = %d", hits, touches)
	}
	if got := components.Trigger.Get(block).Hits; got != hits {
		t.Fatalf("trigger hits = %d, want %d", got, hits)
	}
}

func TestBodyContactEvents(t *testing.T) {
	g := newGame(t, Options{Physics: []physics.Option{}})
	unit := mustRect(t, 1, 1)
	a, err := g.SpawnBody(physics.BodyParams{Hitbox: unit, Mass: 1,
		Options: []physics.BodyOption{physics.WithVelocity(vec.New(0.1, 0.1))}})
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.SpawnBody(physics.BodyParams{X: 0.5, Y: 0.5, Hitbox: unit, Mass: 1,
		Options: []physics.BodyOption{physics.WithVelocity(vec.New(-0.1, -0.1))}})
	if err != nil {
		t.Fatal(err)
	}

	var got []components.ContactData
	g.OnContact(func(e components.ContactData) {
		got = append(got, e)
	})
	steps(t, g, 1)

	if len(got) != 1 || got[0].A != a.Entity() || got[0].B != b.Entity() {
		t.Fatalf("contacts = %+v", got)
	}
	if v := components.Transform.Get(a).Velocity; !v.ApproxEqual(vec.New(-0.1, -0.1), 1e-9) {
		t.Fatalf("transform velocity = %v", v)
	}
}

func TestUnstableBodyFailsStep(t *testing.T) {
	g := newGame(t, Options{Physics: []physics.Option{}})
	_, err := g.SpawnBody(physics.BodyParams{Hitbox: mustRect(t, 1, 1), Mass: 1,
		Options: []physics.BodyOption{
			physics.WithDrag(10),
			physics.WithVelocity(vec.New(math.MaxFloat64, 0)),
		}})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Step(dt); !errors.Is(err, physics.ErrUnstable) {
		t.Fatalf("err = %v, want ErrUnstable", err)
	}
}

func TestClearRemovesEverything(t *testing.T) {
	g := newGame(t, Options{})
	if _, err := g.SpawnPlayer(0, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SpawnBlock(0, 100, 10, 10, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := g.SpawnBody(physics.BodyParams{Hitbox: mustRect(t, 1, 1), Mass: physics.Immovable}); err != nil {
		t.Fatal(err)
	}

	if err := g.Clear(); err != nil {
		t.Fatal(err)
	}
	if n := len(g.Snapshot()); n != 0 {
		t.Fatalf("snapshot has %d entities", n)
	}
	if g.Physics.Len() != 0 || len(g.Layer.Actors()) != 0 || len(g.Layer.Surfaces()) != 0 {
		t.Fatal("simulation not emptied")
	}
	if _, err := g.Player(); !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("err = %v", err)
	}
	if _, ok := g.Controls.BoundKey(config.ActionLeft); ok {
		t.Fatal("player bindings should be dropped")
	}
	if _, err := g.SpawnPlayer(0, 0); err != nil {
		t.Fatalf("respawn: %v", err)
	}
}
