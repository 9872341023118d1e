package netplay

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"

	"github.com/automoto/rigid2d/collision"
	"github.com/automoto/rigid2d/components"
	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/vec"
)

var (
	ErrVersionMismatch = errors.New("netplay: client version mismatch")
	ErrAlreadyJoined   = errors.New("netplay: client already joined")
)

// HostOptions configures a Host. An empty Version accepts any client.
type HostOptions struct {
	Name    string
	Version string
	Spawn   vec.Vec2
	// Commands buffers router callbacks until the next tick.
	Commands int
	Logger   *log.Logger
}

type peer struct {
	name   string
	entry  *donburi.Entry
	player *collision.Player
	net    donburi.Entity

	input    PlayerInput
	jumpHeld bool
}

// Host simulates connected players inside a game. Router callbacks run on
// necs goroutines and only queue commands; Update applies them on the tick
// goroutine, so the game is never touched concurrently.
type Host struct {
	g         *game.Game
	opts      HostOptions
	cmds      chan func()
	peers     map[*router.NetworkClient]*peer
	players   atomic.Int32
	ready     atomic.Bool
	transport *transports.WsServerTransport
	log       *log.Logger

	// syncEntity marks an entity for network sync.
	syncEntity func(w donburi.World, e *donburi.Entity) error
}

func NewHost(g *game.Game, opts HostOptions) *Host {
	if opts.Commands <= 0 {
		opts.Commands = 256
	}
	h := &Host{
		g:     g,
		opts:  opts,
		cmds:  make(chan func(), opts.Commands),
		peers: make(map[*router.NetworkClient]*peer),
		log:   opts.Logger,
		syncEntity: func(w donburi.World, e *donburi.Entity) error {
			return srvsync.NetworkSync(w, e,
				srvsync.WithInterp(NetPosition, NetVelocity),
				NetOwner,
			)
		},
	}
	if h.log == nil {
		h.log = log.Default()
	}
	return h
}

// Start registers the router callbacks and serves WebSocket clients on
// port. It blocks until the transport stops.
func (h *Host) Start(port uint) error {
	if err := RegisterComponents(); err != nil {
		return fmt.Errorf("netplay: register components: %w", err)
	}
	srvsync.UseEsync(h.g.World)
	h.setupRouterCallbacks()
	h.ready.Store(true)

	h.transport = transports.NewWsServerTransport(port, "", nil)
	h.log.Printf("[netplay] hosting %q on port %d", h.opts.Name, port)
	return h.transport.Start()
}

func (h *Host) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		h.log.Printf("[netplay] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			h.log.Printf("[netplay] client %s disconnected with error: %v", client.Id(), err)
		} else {
			h.log.Printf("[netplay] client %s disconnected", client.Id())
		}
		h.enqueue(func() { h.leave(client) })
	})

	router.On(func(client *router.NetworkClient, req JoinRequest) {
		h.enqueue(func() {
			if err := h.join(client, req); err != nil {
				h.log.Printf("[netplay] join from %s refused: %v", client.Id(), err)
			}
		})
	})

	router.On(func(client *router.NetworkClient, input PlayerInput) {
		h.enqueue(func() { h.input(client, input) })
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		h.log.Printf("[netplay] client error: %v", err)
	})
}

func (h *Host) enqueue(cmd func()) {
	select {
	case h.cmds <- cmd:
	default:
		h.log.Printf("[netplay] command queue full, dropping")
	}
}

func (h *Host) join(client *router.NetworkClient, req JoinRequest) error {
	if h.opts.Version != "" && req.Version != h.opts.Version {
		return fmt.Errorf("%w: got %q, want %q", ErrVersionMismatch, req.Version, h.opts.Version)
	}
	if _, ok := h.peers[client]; ok {
		return ErrAlreadyJoined
	}

	spawn := h.opts.Spawn
	entry, err := h.g.SpawnActor(config.Player.ActorConfig(spawn.X, spawn.Y))
	if err != nil {
		return err
	}
	p := &peer{
		name:  req.PlayerName,
		entry: entry,
		player: &collision.Player{
			Actor:     components.Actor.Get(entry).Actor,
			RunAccel:  config.Player.RunAccel,
			MaxXSpeed: config.Player.MaxXSpeed,
			JumpSpeed: config.Player.JumpSpeed,
		},
	}

	w := h.g.World
	p.net = w.Create(NetPosition, NetVelocity, NetOwner)
	NetOwner.SetValue(w.Entry(p.net), NetOwnerData{Name: req.PlayerName})
	if err := h.syncEntity(w, &p.net); err != nil {
		w.Remove(p.net)
		_ = h.g.Remove(entry)
		return fmt.Errorf("netplay: sync player: %w", err)
	}

	h.peers[client] = p
	h.players.Add(1)
	h.log.Printf("[netplay] %q joined", req.PlayerName)
	return nil
}

// input keeps the newest input per client. Out of order packets are dropped.
func (h *Host) input(client *router.NetworkClient, in PlayerInput) {
	p, ok := h.peers[client]
	if !ok {
		return
	}
	if in.Sequence != 0 && in.Sequence <= p.input.Sequence {
		return
	}
	p.input = in
}

func (h *Host) leave(client *router.NetworkClient) {
	p, ok := h.peers[client]
	if !ok {
		return
	}
	delete(h.peers, client)
	h.players.Add(-1)

	if h.g.World.Valid(p.net) {
		h.g.World.Remove(p.net)
	}
	if p.entry.Valid() {
		if err := h.g.Remove(p.entry); err != nil {
			h.log.Printf("[netplay] remove %q: %v", p.name, err)
		}
	}
	h.log.Printf("[netplay] %q left", p.name)
}

// Update applies queued commands and drives every peer's player from its
// last input. Call it once per tick before the game steps.
func (h *Host) Update(float64) error {
drain:
	for {
		select {
		case cmd := <-h.cmds:
			cmd()
		default:
			break drain
		}
	}

	for _, p := range h.peers {
		a := p.input.Actions
		if a[config.ActionLeft] {
			p.player.Left()
		}
		if a[config.ActionRight] {
			p.player.Right()
		}
		if a[config.ActionDown] {
			p.player.Down()
		}
		// Jump is edge triggered, like a Once binding.
		if a[config.ActionJump] && !p.jumpHeld {
			p.player.Jump()
		}
		p.jumpHeld = a[config.ActionJump]
	}
	return nil
}

// publish copies every peer's actor into its network components.
func (h *Host) publish() {
	w := h.g.World
	for _, p := range h.peers {
		if !w.Valid(p.net) {
			continue
		}
		e := w.Entry(p.net)
		a := p.player.Actor
		NetPosition.SetValue(e, NetPositionData{X: a.Position.X, Y: a.Position.Y})
		NetVelocity.SetValue(e, NetVelocityData{X: a.Velocity.X, Y: a.Velocity.Y})
	}
}

// Sync publishes the tick's positions to every client. Call it after the
// game steps. It does nothing until Start has set up syncing.
func (h *Host) Sync() {
	if !h.ready.Load() {
		return
	}
	h.publish()
	if err := srvsync.DoSync(); err != nil {
		h.log.Printf("[netplay] sync error: %v", err)
	}
}

// PlayerCount returns the number of joined players. Safe for concurrent use.
func (h *Host) PlayerCount() int {
	return int(h.players.Load())
}
