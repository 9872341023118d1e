package physics

import (
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/automoto/rigid2d/vec"
)

// BodyDefaults fills in the parameters AddBody callers leave unset.
type BodyDefaults struct {
	Gravity     float64
	Drag        float64
	Restitution float64
	Collision   CollisionType
	SoftPercent float64
	SoftSlop    float64
}

// DefaultBodyDefaults is a gravity-free world with no drag and elastic hard
// collisions.
var DefaultBodyDefaults = BodyDefaults{
	Gravity:     0,
	Drag:        1,
	Restitution: 1,
	Collision:   CollisionHard,
	SoftPercent: 0.5,
	SoftSlop:    0.01,
}

// Option configures a World.
type Option func(*World)

func WithDefaults(d BodyDefaults) Option {
	return func(w *World) {
		w.Defaults = d
	}
}

// WithLogger replaces log.Default. A nil logger is ignored.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.log = l
		}
	}
}

// WithBroadPhase narrows the pair sweep with a uniform grid covering
// (0,0)..(width,height). Bodies outside that area are still handled by the
// full sweep.
func WithBroadPhase(width, height, cellWidth, cellHeight int) Option {
	return func(w *World) {
		w.broad = newBroadPhase(width, height, cellWidth, cellHeight)
	}
}

// WithContactHandler registers fn to run after every pair resolution that
// changed a body. fn must not add or remove bodies.
func WithContactHandler(fn func(a, b BodyID)) Option {
	return func(w *World) {
		w.onContact = fn
	}
}

// World owns a set of bodies and advances them one tick at a time.
type World struct {
	Defaults BodyDefaults

	slots []*slot
	free  []uint32
	count int

	log       *log.Logger
	broad     *broadPhase
	onContact func(a, b BodyID)
}

func NewWorld(opts ...Option) *World {
	w := &World{
		Defaults: DefaultBodyDefaults,
		log:      log.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BodyOption overrides one of the world defaults for a single body.
type BodyOption func(*Body)

func WithGravity(g float64) BodyOption {
	return func(b *Body) { b.Gravity = g }
}

func WithDrag(d float64) BodyOption {
	return func(b *Body) { b.Drag = d }
}

func WithRestitution(r float64) BodyOption {
	return func(b *Body) { b.Restitution = r }
}

// WithCollision selects the collision policy. percent and slop only matter
// for soft bodies.
func WithCollision(c CollisionType, percent, slop float64) BodyOption {
	return func(b *Body) {
		b.Collision = c
		b.SoftPercent = percent
		b.SoftSlop = slop
	}
}

// WithVelocity sets the initial velocity.
func WithVelocity(v vec.Vec2) BodyOption {
	return func(b *Body) { b.Velocity = v }
}

// BodyParams is the construction record produced by level loaders.
type BodyParams struct {
	X, Y    float64
	Hitbox  Hitbox
	Mass    float64
	Options []BodyOption
}

// MakeHitbox builds a hitbox from two corners given as plain numbers.
func (w *World) MakeHitbox(x1, y1, x2, y2 float64) (Hitbox, error) {
	return NewHitbox(vec.New(x1, y1), vec.New(x2, y2))
}

// AddBody validates the parameters and appends a body to the sweep order,
// reusing the slot of a removed body when one is free.
func (w *World) AddBody(x, y float64, hitbox Hitbox, mass float64, opts ...BodyOption) (BodyID, error) {
	pos, err := vec.NewChecked(x, y)
	if err != nil {
		return BodyID{}, fmt.Errorf("physics: add body: %w", err)
	}
	if _, err := NewHitbox(hitbox.Min, hitbox.Max); err != nil {
		return BodyID{}, fmt.Errorf("physics: add body: %w", err)
	}
	if math.IsNaN(mass) || mass <= 0 || math.IsInf(1/mass, 1) {
		return BodyID{}, fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	}

	d := w.Defaults
	b := Body{
		Position:    pos,
		Mass:        mass,
		Gravity:     d.Gravity,
		Drag:        d.Drag,
		Restitution: d.Restitution,
		Collision:   d.Collision,
		SoftPercent: d.SoftPercent,
		SoftSlop:    d.SoftSlop,
		Hitbox:      hitbox,
	}
	for _, opt := range opts {
		opt(&b)
	}
	if err := validateBody(&b); err != nil {
		return BodyID{}, err
	}
	if b.Restitution < 0 || b.Restitution > 1 {
		w.log.Printf("[physics] restitution %v outside [0,1] at %v", b.Restitution, pos)
	}
	b.SyncHitbox()

	var id BodyID
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		s := w.slots[idx]
		s.body = b
		s.alive = true
		id = BodyID{index: idx, gen: s.gen}
	} else {
		idx := uint32(len(w.slots))
		w.slots = append(w.slots, &slot{body: b, gen: 1, alive: true})
		id = BodyID{index: idx, gen: 1}
	}
	w.count++
	if w.broad != nil {
		w.broad.add(id.index, &w.slots[id.index].body)
	}
	return id, nil
}

// Add is AddBody for a BodyParams record.
func (w *World) Add(p BodyParams) (BodyID, error) {
	return w.AddBody(p.X, p.Y, p.Hitbox, p.Mass, p.Options...)
}

func validateBody(b *Body) error {
	params := []struct {
		name string
		v    float64
	}{
		{"gravity", b.Gravity},
		{"drag", b.Drag},
		{"restitution", b.Restitution},
		{"soft percent", b.SoftPercent},
		{"soft slop", b.SoftSlop},
	}
	for _, p := range params {
		if math.IsNaN(p.v) || math.IsInf(p.v, 0) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidParam, p.name, p.v)
		}
	}
	if !b.Velocity.Finite() {
		return fmt.Errorf("%w: velocity %v", ErrInvalidParam, b.Velocity)
	}
	if b.Collision != CollisionHard && b.Collision != CollisionSoft {
		return fmt.Errorf("%w: collision type %v", ErrInvalidParam, b.Collision)
	}
	return nil
}

func (w *World) lookup(id BodyID) (*slot, error) {
	if !id.Valid() || int(id.index) >= len(w.slots) {
		return nil, fmt.Errorf("%w: %v", ErrBodyNotFound, id)
	}
	s := w.slots[id.index]
	if s.gen != id.gen || !s.alive {
		return nil, fmt.Errorf("%w: %v", ErrStaleBody, id)
	}
	return s, nil
}

// Body returns the live body for id. The pointer stays valid until the body
// is removed.
func (w *World) Body(id BodyID) (*Body, error) {
	s, err := w.lookup(id)
	if err != nil {
		return nil, err
	}
	return &s.body, nil
}

// RemoveBody frees the slot. Any copy of id becomes stale.
func (w *World) RemoveBody(id BodyID) error {
	s, err := w.lookup(id)
	if err != nil {
		return err
	}
	if w.broad != nil {
		w.broad.remove(id.index)
	}
	s.alive = false
	s.body = Body{}
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	w.free = append(w.free, id.index)
	w.count--
	return nil
}

// Len is the number of live bodies.
func (w *World) Len() int {
	return w.count
}

// Each visits live bodies in sweep order.
func (w *World) Each(fn func(id BodyID, b *Body)) {
	for i, s := range w.slots {
		if !s.alive {
			continue
		}
		fn(BodyID{index: uint32(i), gen: s.gen}, &s.body)
	}
}

// Update advances the world one tick. Body i is integrated and then resolved
// against every later body j > i before body i+1 is integrated, so a
// resolution can change velocities seen by pairs checked later in the same
// tick.
//
// The first error aborts the rest of the tick. Coincident pairs are logged and
// skipped.
func (w *World) Update() error {
	if w.broad != nil {
		w.refreshBroadPhase()
	}
	for i, a := range w.slots {
		if !a.alive {
			continue
		}
		a.body.Update()
		if !a.body.Velocity.Finite() || !a.body.Position.Finite() {
			return fmt.Errorf("physics: tick aborted integrating body %d: %w", i, ErrUnstable)
		}
		a.body.SyncHitbox()
		if w.broad != nil {
			w.broad.move(uint32(i), &a.body)
		}

		if w.broad != nil && w.broad.usable() {
			for _, j := range w.broad.query(uint32(i)) {
				if err := w.resolvePair(uint32(i), j); err != nil {
					return fmt.Errorf("physics: tick aborted at pair (%d, %d): %w", i, j, err)
				}
			}
			continue
		}
		for j := i + 1; j < len(w.slots); j++ {
			if !w.slots[j].alive {
				continue
			}
			if err := w.resolvePair(uint32(i), uint32(j)); err != nil {
				return fmt.Errorf("physics: tick aborted at pair (%d, %d): %w", i, j, err)
			}
		}
	}
	return nil
}

// refreshBroadPhase re-indexes every live body, picking up positions set
// between ticks through SetPosition or the Position field.
func (w *World) refreshBroadPhase() {
	for i, s := range w.slots {
		if !s.alive {
			continue
		}
		s.body.SyncHitbox()
		w.broad.move(uint32(i), &s.body)
	}
}

// Step runs one Update. The base engine works in ticks, so dt is unused.
func (w *World) Step(dt float64) error {
	return w.Update()
}

func (w *World) resolvePair(i, j uint32) error {
	a, b := &w.slots[i].body, &w.slots[j].body
	changed, err := a.ResolveCollision(b)
	if errors.Is(err, ErrCoincident) {
		w.log.Printf("[physics] skipped coincident pair %d/%d at %v", i, j, a.Position)
		return nil
	}
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	if w.broad != nil && a.Collision == CollisionSoft && b.Collision == CollisionSoft {
		w.broad.move(i, a)
		w.broad.move(j, b)
	}
	if w.onContact != nil {
		w.onContact(BodyID{index: i, gen: w.slots[i].gen}, BodyID{index: j, gen: w.slots[j].gen})
	}
	return nil
}
