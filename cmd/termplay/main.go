package main

import (
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/gameloop"
	"github.com/automoto/rigid2d/level"
	"github.com/automoto/rigid2d/levels"
	"github.com/automoto/rigid2d/render/termview"
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the default configuration")
	levelName := flag.String("level", "demo.yaml", "Level file to load")
	dir := flag.String("dir", "", "Load levels from this directory instead of the bundled ones")
	cell := flag.Float64("cell", 8, "World units per terminal column")
	logPath := flag.String("log", "", "Write logs to this file instead of discarding them")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	// The terminal is the display, so logs go elsewhere.
	logger := log.New(io.Discard, "", log.LstdFlags)
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("Failed to open log: %v", err)
		}
		defer f.Close()
		logger.SetOutput(f)
	}
	var fsys fs.FS = levels.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}
	lv, err := level.Open(fsys, *levelName)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	g := game.New(game.Options{Logger: logger})
	if err := level.Build(g, lv); err != nil {
		log.Fatalf("Failed to build level: %v", err)
	}

	loop, err := gameloop.New(g, nil, gameloop.Config{
		FPS:        config.Loop.FPS,
		MaxCatchUp: config.Loop.MaxCatchUp,
		Logger:     logger,
	})
	if err != nil {
		log.Fatalf("Failed to create loop: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	log.SetOutput(logger.Writer())

	// Terminal cells are about twice as tall as they are wide.
	view := termview.New(screen, g, *cell, *cell*2)
	err = run(screen, view, loop, g, lv.Name)
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(screen tcell.Screen, view *termview.View, loop *gameloop.Loop, g *game.Game, name string) error {
	// Poll at twice the tick rate; the loop's accumulator decides when to tick.
	ticker := time.NewTicker(time.Duration(loop.Dt()*float64(time.Second)) / 2)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !view.HandleEvent(ev, time.Now()) {
				return nil
			}

		case now := <-ticker.C:
			view.ReleaseStale(now)
			if _, err := loop.Poll(now); err != nil {
				return err
			}
			view.Status = fmt.Sprintf("%s  frame %d  %.0f tps  WASD moves, esc quits",
				name, g.Frame(), loop.MeasuredFPS())
			view.Draw()
		}
	}
}
