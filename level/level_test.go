package level

import (
	"errors"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/vec"
)

func TestLoadGrid(t *testing.T) {
	l, err := LoadFile("testdata/demo.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "demo" || l.Width != 112 || l.Height != 64 {
		t.Fatalf("level = %q %vx%v", l.Name, l.Width, l.Height)
	}

	counts := map[Kind]int{
		KindBlock:       4,
		KindMovingBlock: 1,
		KindTweenBlock:  1,
		KindEventBlock:  1,
		KindPlayer:      1,
		KindEntity:      1,
		KindBody:        2,
	}
	for k, want := range counts {
		if got := l.Count(k); got != want {
			t.Errorf("%s: %d, want %d", k, got, want)
		}
	}

	first := l.Elements[0]
	if first.Kind != KindPlayer || first.X != 16 || first.Y != 16 {
		t.Fatalf("first element = %+v, want player at (16,16)", first)
	}

	last := l.Elements[len(l.Elements)-1]
	if last.Kind != KindMovingBlock {
		t.Fatalf("moving blocks should come last, got %s", last.Kind)
	}
	if last.X != 0 || last.Y != 32 || last.W != 32 || last.H != 16 {
		t.Fatalf("moving block = %+v", last)
	}
	if last.End != vec.New(64, 32) || last.RouteTime != 3 {
		t.Fatalf("moving block route = %v over %v", last.End, last.RouteTime)
	}

	for _, e := range l.Elements {
		switch e.Kind {
		case KindTweenBlock:
			if e.Distance != 32 || e.Duration != 1 {
				t.Errorf("tween = %+v", e)
			}
		case KindEventBlock:
			if e.Event != "spring" {
				t.Errorf("event = %q", e.Event)
			}
		case KindBody:
			if e.X == 96 && e.Y == 48 && !math.IsInf(e.Mass, 1) {
				t.Errorf("X body mass = %v, want immovable", e.Mass)
			}
			if e.Y == 32 && (e.Collision != "soft" || e.Restitution == nil || *e.Restitution != 0.5) {
				t.Errorf("soft body = %+v", e)
			}
		}
	}
}

func TestMovingBlockWithoutMarkerStays(t *testing.T) {
	l, err := Parse([]byte(`
cell_size: 10
palette:
  "=": {type: movingBlock, to: z}
rows:
  - "..="
`))
	if err != nil {
		t.Fatal(err)
	}
	if e := l.Elements[0]; e.End != vec.New(e.X, e.Y) {
		t.Fatalf("end = %v, want start %v,%v", e.End, e.X, e.Y)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no cell size", "palette: {}\nrows: [\"#\"]"},
		{"unknown type", "cell_size: 1\npalette: {\"#\": {type: lava}}"},
		{"long key", "cell_size: 1\npalette: {\"##\": {type: block}}"},
		{"two players", "cell_size: 1\npalette: {P: {type: player}}\nrows: [\"PP\"]"},
		{"negative size", "cell_size: 1\npalette: {\"#\": {type: block, w: -1}}\nrows: [\"#\"]"},
		{"bad mass", "cell_size: 1\npalette: {b: {type: body, mass: heavy}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
	if _, err := Parse([]byte("cell_size: 0")); !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("err = %v, want ErrInvalidLevel", err)
	}
}

func TestLoadTMX(t *testing.T) {
	l, err := LoadTMX(os.DirFS("testdata"), "arena.tmx")
	if err != nil {
		t.Fatal(err)
	}
	if l.Name != "arena" || l.Width != 64 || l.Height != 48 {
		t.Fatalf("level = %q %vx%v", l.Name, l.Width, l.Height)
	}
	if len(l.Elements) != 7 {
		t.Fatalf("elements = %d, want 7", len(l.Elements))
	}
	for i := 0; i < 4; i++ {
		e := l.Elements[i]
		if e.Kind != KindBlock || e.X != float64(i*16) || e.Y != 32 || e.Friction != 0.5 {
			t.Fatalf("tile %d = %+v", i, e)
		}
	}
	if e := l.Elements[4]; e.Kind != KindPlayer || e.X != 8 || e.Y != 8 {
		t.Fatalf("player = %+v", e)
	}
	if e := l.Elements[5]; e.Kind != KindEventBlock || e.Event != "bell" {
		t.Fatalf("event block = %+v", e)
	}
	if e := l.Elements[6]; e.Kind != KindMovingBlock || e.End != vec.New(48, 0) || e.W != 32 {
		t.Fatalf("moving block = %+v", e)
	}
}

func TestLoadAll(t *testing.T) {
	levels, names, err := LoadAll(os.DirFS("."), "testdata")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "arena" || names[1] != "demo" {
		t.Fatalf("names = %v", names)
	}
	if levels["demo"].Count(KindBlock) != 4 {
		t.Fatal("demo not loaded")
	}
}

func newGame() *game.Game {
	return game.New(game.Options{Logger: log.New(io.Discard, "", 0)})
}

func TestBuildAndReload(t *testing.T) {
	l, err := LoadFile("testdata/demo.yaml")
	if err != nil {
		t.Fatal(err)
	}
	g := newGame()
	if err := Build(g, l); err != nil {
		t.Fatal(err)
	}
	check := func() {
		t.Helper()
		if n := g.Physics.Len(); n != 2 {
			t.Fatalf("bodies = %d, want 2", n)
		}
		if n := len(g.Layer.Surfaces()); n != 7 {
			t.Fatalf("surfaces = %d, want 7", n)
		}
		if n := len(g.Layer.Actors()); n != 2 {
			t.Fatalf("actors = %d, want 2", n)
		}
		if _, err := g.Player(); err != nil {
			t.Fatal(err)
		}
	}
	check()

	for i := 0; i < 30; i++ {
		if err := g.Step(1.0 / 60); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	if err := Reload(g, l); err != nil {
		t.Fatal(err)
	}
	check()
}

func TestWatcherReportsLevelFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "one.yaml")
	if err := os.WriteFile(path, []byte("cell_size: 1"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if got != path {
			t.Fatalf("event for %s, want %s", got, path)
		}
	case err := <-w.Errors:
		t.Fatal(err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	// Events is closed once the watcher stops; this only terminates if so.
	for range w.Events {
	}
}

func TestTakePlayer(t *testing.T) {
	l, err := LoadFile("testdata/demo.yaml")
	if err != nil {
		t.Fatal(err)
	}
	n := len(l.Elements)
	pos, ok := l.TakePlayer()
	if !ok || pos != vec.New(16, 16) {
		t.Fatalf("TakePlayer = %v, %v", pos, ok)
	}
	if len(l.Elements) != n-1 || l.Count(KindPlayer) != 0 {
		t.Fatal("player not removed")
	}
	if _, ok := l.TakePlayer(); ok {
		t.Fatal("second TakePlayer should find nothing")
	}
}

func TestBuildFailureLeavesGameUntouched(t *testing.T) {
	g := newGame()
	if _, err := g.SpawnBlock(0, 100, 50, 10, 0); err != nil {
		t.Fatal(err)
	}

	broken := &Level{Name: "broken", Elements: []Element{
		{Kind: KindPlayer, X: 0, Y: 0},
		{Kind: KindBlock, X: 0, Y: 40, W: 32, H: 8},
		{Kind: KindBody, X: 10, Y: 10, W: 4, H: 4, Mass: 1},
		{Kind: Kind("lava"), X: 0, Y: 0, W: 1, H: 1},
	}}
	err := Build(g, broken)
	if !errors.Is(err, ErrInvalidLevel) {
		t.Fatalf("err = %v, want ErrInvalidLevel", err)
	}

	if n := len(g.Layer.Surfaces()); n != 1 {
		t.Fatalf("surfaces = %d, want only the block spawned before Build", n)
	}
	if n := len(g.Layer.Actors()); n != 0 {
		t.Fatalf("actors = %d, want 0", n)
	}
	if n := g.Physics.Len(); n != 0 {
		t.Fatalf("bodies = %d, want 0", n)
	}
	if _, err := g.Player(); !errors.Is(err, game.ErrNoPlayer) {
		t.Fatalf("player err = %v, want ErrNoPlayer", err)
	}
	if _, ok := g.Controls.BoundKey(config.ActionLeft); ok {
		t.Fatal("rolled back player left its bindings")
	}

	// A good level builds cleanly afterwards.
	good, err := LoadFile("testdata/demo.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if err := Reload(g, good); err != nil {
		t.Fatal(err)
	}
	if _, err := g.Player(); err != nil {
		t.Fatal(err)
	}
}
