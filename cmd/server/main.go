package main

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/gameloop"
	"github.com/automoto/rigid2d/level"
	"github.com/automoto/rigid2d/levels"
	"github.com/automoto/rigid2d/netplay"
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the default configuration")
	port := flag.Uint("port", 0, "Server port (default from config)")
	tickRate := flag.Int("tickrate", 0, "Server tick rate (default from config)")
	name := flag.String("name", "rigid2d server", "Server display name")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	levelName := flag.String("level", "demo.yaml", "Level file to host")
	dir := flag.String("dir", "", "Load levels from this directory instead of the bundled ones")
	flag.Parse()

	if *configPath != "" {
		if err := config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *port == 0 {
		*port = config.Net.Port
	}
	if *tickRate == 0 {
		*tickRate = config.Loop.FPS
	}

	var fsys fs.FS = levels.FS
	if *dir != "" {
		fsys = os.DirFS(*dir)
	}
	lv, err := level.Open(fsys, *levelName)
	if err != nil {
		log.Fatalf("Failed to load level: %v", err)
	}
	// No local player on a headless host; joining players start there.
	spawn, _ := lv.TakePlayer()

	g := game.New(game.Options{})
	if err := level.Build(g, lv); err != nil {
		log.Fatalf("Failed to build level: %v", err)
	}

	host := netplay.NewHost(g, netplay.HostOptions{
		Name:    *name,
		Version: *version,
		Spawn:   spawn,
	})

	loop, err := gameloop.New(g, host.Sync, gameloop.Config{
		FPS:        *tickRate,
		MaxCatchUp: config.Loop.MaxCatchUp,
	})
	if err != nil {
		log.Fatalf("Failed to create loop: %v", err)
	}
	loop.AddFunction(host.Update)
	if err := loop.Start(); err != nil {
		log.Fatalf("Failed to start loop: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutting down server...")
		loop.Stop()
		os.Exit(0)
	}()

	log.Printf("Starting %q on port %d (tick rate: %d/s, level: %s, version: %s)",
		*name, *port, *tickRate, lv.Name, *version)
	if err := host.Start(*port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
