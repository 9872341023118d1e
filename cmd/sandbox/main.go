package main

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/gameloop"
	"github.com/automoto/rigid2d/level"
	"github.com/automoto/rigid2d/levels"
	"github.com/automoto/rigid2d/netplay"
	"github.com/automoto/rigid2d/render/ebitenview"
	"github.com/automoto/rigid2d/settings"
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the default configuration")
	levelName := flag.String("level", "demo.yaml", "Level file to load")
	dir := flag.String("dir", "", "Load levels from this directory instead of the bundled ones")
	watch := flag.Bool("watch", false, "Reload the level when it changes on disk (needs -dir)")
	connect := flag.String("connect", "", "Host address to join, e.g. localhost:7373")
	name := flag.String("name", "player", "Player name when joining a host")
	version := flag.String("version", "", "Version sent to the host")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	store, err := settings.Open()
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
	} else if saved, err := settings.Load(store); err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
	} else {
		settings.ApplyBindings(saved)
	}

	var fsys fs.FS = levels.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}
	lv, err := level.Open(fsys, *levelName)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}

	g := game.New(game.Options{})
	if err := level.Build(g, lv); err != nil {
		log.Fatalf("Failed to build level: %v", err)
	}
	g.OnBlockHit(func(e components.BlockHitData) {
		if !e.Touch {
			log.Printf("[sandbox] %s hit from %v", e.Name, e.Dir)
		}
	})

	loop, err := gameloop.New(g, nil, gameloop.Config{
		FPS:        config.Loop.FPS,
		MaxCatchUp: config.Loop.MaxCatchUp,
	})
	if err != nil {
		log.Fatalf("Failed to create loop: %v", err)
	}

	if *connect != "" {
		session := netplay.NewSession(g, *name, nil)
		if err := session.Connect(*connect, *version); err != nil {
			log.Fatalf("Failed to connect: %v", err)
		}
		defer session.Disconnect()
		loop.AddFunction(func(float64) error {
			if session.State() != netplay.StateConnected {
				return nil
			}
			if err := session.SendInput(g.Controls); err != nil {
				log.Printf("[sandbox] send input: %v", err)
			}
			return nil
		})
	}

	view := ebitenview.New(g, loop, config.C.Width, config.C.Height)

	if *watch {
		if *dir == "" {
			log.Fatalf("-watch needs -dir")
		}
		w, err := level.NewWatcher(*dir)
		if err != nil {
			log.Fatalf("Failed to watch %s: %v", *dir, err)
		}
		defer w.Close()

		target := filepath.Join(*dir, *levelName)
		view.OnFrame = func() error {
			select {
			case path := <-w.Events:
				if filepath.Clean(path) != filepath.Clean(target) {
					return nil
				}
				lv, err := level.Open(fsys, *levelName)
				if err != nil {
					log.Printf("[level] reload: %v", err)
					return nil
				}
				if err := level.Reload(g, lv); err != nil {
					return err
				}
				log.Printf("[level] reloaded %s", lv.Name)
			case err := <-w.Errors:
				log.Printf("[level] watch: %v", err)
			default:
			}
			return nil
		}
	}

	ebiten.SetWindowSize(int(float64(config.C.Width)*config.C.Scale), int(float64(config.C.Height)*config.C.Scale))
	ebiten.SetWindowTitle("rigid2d - " + lv.Name)

	runErr := ebiten.RunGame(view)

	if store != nil {
		if err := settings.SaveBindings(store, g.Controls); err != nil {
			log.Printf("Warning: Could not save settings: %v", err)
		}
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}
