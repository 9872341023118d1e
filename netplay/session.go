package netplay

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"

	"github.com/automoto/rigid2d/config"
	"github.com/automoto/rigid2d/control"
	"github.com/automoto/rigid2d/game"
)

var ErrNotConnected = errors.New("netplay: not connected")

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Inbox receives remote states. *game.Game satisfies it.
type Inbox interface {
	Push(s game.RemoteState) bool
}

// Session is a client connection. Snapshots from the host are converted
// into remote states and pushed to the inbox as they arrive.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Session struct {
	mu sync.RWMutex

	state     State
	lastError error
	conn      *websocket.Conn
	tracker   Tracker
	sequence  uint32
	dropped   int

	inbox Inbox
	log   *log.Logger
}

// NewSession creates a session for the player called name.
func NewSession(inbox Inbox, name string, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		state:   StateDisconnected,
		tracker: Tracker{Self: name},
		inbox:   inbox,
		log:     logger,
	}
}

// Connect dials the host in a background goroutine and sends the join
// request once connected.
func (s *Session) Connect(address, version string) error {
	if err := RegisterComponents(); err != nil {
		return fmt.Errorf("netplay: register components: %w", err)
	}

	s.mu.Lock()
	s.state = StateConnecting
	s.lastError = nil
	name := s.tracker.Self
	s.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		s.log.Println("[netplay] connected to host")
		s.mu.Lock()
		s.state = StateConnected
		s.mu.Unlock()

		if err := s.Send(JoinRequest{Version: version, PlayerName: name}); err != nil {
			s.setError(fmt.Errorf("send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		s.receive(decodeSnapshot(snapshot))
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		s.log.Printf("[netplay] disconnected: %v", err)
		s.mu.Lock()
		if s.state != StateError {
			s.state = StateDisconnected
		}
		s.conn = nil
		s.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		s.log.Printf("[netplay] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			s.mu.Lock()
			s.conn = conn
			s.mu.Unlock()
		})
		if err != nil {
			s.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
	return nil
}

// receive hands one decoded snapshot to the inbox.
func (s *Session) receive(ents []EntityState) {
	s.mu.Lock()
	states := s.tracker.Update(ents)
	s.mu.Unlock()

	dropped := 0
	for _, st := range states {
		if !s.inbox.Push(st) {
			dropped++
		}
	}
	if dropped > 0 {
		s.mu.Lock()
		s.dropped += dropped
		s.mu.Unlock()
	}
}

func (s *Session) Disconnect() {
	s.mu.Lock()
	conn := s.conn
	s.state = StateDisconnected
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// Dropped is the number of remote states lost to a full inbox.
func (s *Session) Dropped() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dropped
}

func (s *Session) Send(msg any) error {
	s.mu.RLock()
	conn := s.conn
	s.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

// SendInput sends the movement actions currently held on c.
func (s *Session) SendInput(c *control.Controls) error {
	s.mu.Lock()
	s.sequence++
	seq := s.sequence
	s.mu.Unlock()
	return s.Send(PlayerInput{Sequence: seq, Actions: HeldActions(c)})
}

func (s *Session) setError(err error) {
	s.mu.Lock()
	s.state = StateError
	s.lastError = err
	s.mu.Unlock()
}

// HeldActions reports which movement actions have their key down.
func HeldActions(c *control.Controls) map[string]bool {
	out := make(map[string]bool, 4)
	for _, name := range []string{config.ActionLeft, config.ActionRight, config.ActionJump, config.ActionDown} {
		key, ok := c.BoundKey(name)
		if !ok {
			continue
		}
		if _, down := c.Held(key); down {
			out[name] = true
		}
	}
	return out
}
