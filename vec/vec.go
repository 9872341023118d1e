// Package vec provides the 2D vector value type shared by the physics core and
// the collision layer. Every operation returns a new value; nothing aliases.
package vec

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidOperation is the parent of every arithmetic failure in this package.
	ErrInvalidOperation = errors.New("vec: invalid operation")
	// ErrDivideByZero is returned when dividing by a zero scalar.
	ErrDivideByZero = fmt.Errorf("%w: divide by zero", ErrInvalidOperation)
	// ErrZeroVector is returned when normalizing a vector of zero length.
	ErrZeroVector = fmt.Errorf("%w: zero-length vector", ErrInvalidOperation)
	// ErrNotFinite is returned by NewChecked for NaN or infinite components.
	ErrNotFinite = errors.New("vec: component is not finite")
)

// Vec2 represents a 2D vector.
type Vec2 struct {
	X, Y float64
}

// Zero is the zero vector.
var Zero = Vec2{}

func New(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// NewChecked is New with validation, used at object-construction boundaries.
func NewChecked(x, y float64) (Vec2, error) {
	v := Vec2{X: x, Y: y}
	if !v.Finite() {
		return Zero, fmt.Errorf("%w: (%v, %v)", ErrNotFinite, x, y)
	}
	return v, nil
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Mul multiplies component-wise.
func (v Vec2) Mul(o Vec2) Vec2 {
	return Vec2{X: v.X * o.X, Y: v.Y * o.Y}
}

func (v Vec2) Div(s float64) (Vec2, error) {
	if s == 0 {
		return Zero, ErrDivideByZero
	}
	return Vec2{X: v.X / s, Y: v.Y / s}, nil
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Mag returns the Euclidean length.
func (v Vec2) Mag() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Normalize returns the unit vector in the direction of v.
func (v Vec2) Normalize() (Vec2, error) {
	m := v.Mag()
	if m == 0 {
		return Zero, ErrZeroVector
	}
	return v.Div(m)
}

// SetMag returns a vector in the direction of v with length m.
func (v Vec2) SetMag(m float64) (Vec2, error) {
	n, err := v.Normalize()
	if err != nil {
		return Zero, err
	}
	return n.Scale(m), nil
}

// Abs returns the vector of absolute components.
func (v Vec2) Abs() Vec2 {
	return Vec2{X: math.Abs(v.X), Y: math.Abs(v.Y)}
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Finite reports whether both components are neither NaN nor infinite.
func (v Vec2) Finite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ApproxEqual compares component-wise within eps.
func (v Vec2) ApproxEqual(o Vec2, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}
