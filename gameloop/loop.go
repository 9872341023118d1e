// Package gameloop runs a simulation at a fixed timestep.
//
// Every tick receives the same dt = 1/FPS seconds no matter how late the
// tick actually runs. Wall time is fed into an accumulator, and each full
// frame of accumulated time pays for one tick.
package gameloop

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

var (
	ErrAlreadyRunning = errors.New("gameloop: already running")
	ErrInvalidFPS     = errors.New("gameloop: fps must be positive")
)

// Stepper advances the simulation by one fixed step.
type Stepper interface {
	Step(dt float64) error
}

// StepFunc adapts a function to Stepper.
type StepFunc func(dt float64) error

func (f StepFunc) Step(dt float64) error { return f(dt) }

// Clock is the time source. It must be monotonic.
type Clock interface {
	Now() time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

type Config struct {
	FPS int
	// MaxCatchUp caps the ticks run for one poll. Time owed beyond the cap is
	// dropped.
	MaxCatchUp int
	Clock      Clock
	Logger     *log.Logger
}

// Loop drives tick functions, a Stepper and a render callback, in that
// order, once per tick.
type Loop struct {
	dt         float64
	frame      time.Duration
	maxCatchUp int
	clock      Clock
	log        *log.Logger

	stepper Stepper
	render  func()

	tickMu sync.Mutex

	mu      sync.Mutex
	funcs   []func(dt float64) error
	running bool
	stop    chan struct{}
	last    time.Time
	acc     time.Duration
	frames  uint64
	err     error

	fpsStart time.Time
	fpsCount int
	fps      float64
}

func New(stepper Stepper, render func(), cfg Config) (*Loop, error) {
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFPS, cfg.FPS)
	}
	if cfg.MaxCatchUp <= 0 {
		cfg.MaxCatchUp = 5
	}
	if cfg.Clock == nil {
		cfg.Clock = wallClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Loop{
		dt:         1 / float64(cfg.FPS),
		frame:      time.Second / time.Duration(cfg.FPS),
		maxCatchUp: cfg.MaxCatchUp,
		clock:      cfg.Clock,
		log:        cfg.Logger,
		stepper:    stepper,
		render:     render,
	}, nil
}

// Dt is the constant step in seconds.
func (l *Loop) Dt() float64 {
	return l.dt
}

// AddFunction registers fn to run at the start of every tick, before the
// Stepper.
func (l *Loop) AddFunction(fn func(dt float64) error) {
	l.mu.Lock()
	l.funcs = append(l.funcs, fn)
	l.mu.Unlock()
}

// Start begins ticking on a background goroutine. The clock is polled every
// half frame.
func (l *Loop) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		l.log.Printf("[loop] start ignored, loop already running")
		return ErrAlreadyRunning
	}
	l.running = true
	l.err = nil
	l.last = l.clock.Now()
	l.acc = 0
	l.stop = make(chan struct{})

	go l.run(l.stop)
	l.log.Printf("[loop] started at %d ticks/second", int(time.Second/l.frame))
	return nil
}

func (l *Loop) run(stop chan struct{}) {
	ticker := time.NewTicker(l.frame / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := l.advance(l.clock.Now(), stop); err != nil {
				return
			}
		}
	}
}

// Stop cancels the background goroutine. It never blocks, may be called more
// than once, and may be called from inside a tick.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	close(l.stop)
	l.log.Printf("[loop] stopped after %d frames", l.frames)
}

func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Step stops the loop if it is running, then runs exactly one tick.
func (l *Loop) Step() error {
	l.Stop()
	return l.tick()
}

// Poll feeds the time since the previous poll into the accumulator and runs
// the ticks it pays for. It lets a host with its own frame callback drive the
// loop instead of Start. The first poll only records the time.
func (l *Loop) Poll(now time.Time) (int, error) {
	return l.advance(now, nil)
}

func (l *Loop) advance(now time.Time, stop chan struct{}) (int, error) {
	l.mu.Lock()
	if l.err != nil && stop == nil {
		err := l.err
		l.mu.Unlock()
		return 0, err
	}
	if l.last.IsZero() {
		l.last = now
		l.mu.Unlock()
		return 0, nil
	}
	if elapsed := now.Sub(l.last); elapsed > 0 {
		l.acc += elapsed
	}
	l.last = now
	l.mu.Unlock()

	n := 0
	for {
		l.mu.Lock()
		if l.acc < l.frame {
			l.mu.Unlock()
			return n, nil
		}
		if n >= l.maxCatchUp {
			dropped := l.acc
			l.acc = 0
			l.mu.Unlock()
			l.log.Printf("[loop] behind by %v, dropping it", dropped)
			return n, nil
		}
		l.acc -= l.frame
		l.mu.Unlock()

		if err := l.tick(); err != nil {
			return n, err
		}
		n++

		select {
		case <-stop:
			return n, nil
		default:
		}
	}
}

func (l *Loop) tick() error {
	l.tickMu.Lock()
	defer l.tickMu.Unlock()

	l.mu.Lock()
	funcs := l.funcs
	l.mu.Unlock()

	for _, fn := range funcs {
		if err := fn(l.dt); err != nil {
			return l.fail(err)
		}
	}
	if l.stepper != nil {
		if err := l.stepper.Step(l.dt); err != nil {
			return l.fail(err)
		}
	}
	if l.render != nil {
		l.render()
	}

	l.mu.Lock()
	l.frames++
	l.measure()
	l.mu.Unlock()
	return nil
}

func (l *Loop) fail(err error) error {
	err = fmt.Errorf("gameloop: tick: %w", err)
	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
	l.log.Printf("[loop] %v", err)
	l.Stop()
	return err
}

func (l *Loop) measure() {
	now := l.clock.Now()
	if l.fpsStart.IsZero() {
		l.fpsStart = now
	}
	l.fpsCount++
	if window := now.Sub(l.fpsStart); window >= time.Second {
		l.fps = float64(l.fpsCount) / window.Seconds()
		l.fpsStart = now
		l.fpsCount = 0
	}
}

// Err is the error that stopped the loop, if any.
func (l *Loop) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// MeasuredFPS is the tick rate over the last full second of clock time.
func (l *Loop) MeasuredFPS() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.fps
}
