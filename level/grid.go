package level

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/automoto/rigid2d/vec"
)

// Grid is the YAML level format. Each rune of a row is one cell: a palette
// key spawns that element, '.' and ' ' are empty, and any other rune marks a
// position that moving blocks can name as their end point.
type Grid struct {
	Name     string           `yaml:"name"`
	CellSize float64          `yaml:"cell_size"`
	Palette  map[string]Entry `yaml:"palette"`
	Rows     []string         `yaml:"rows"`
}

// Entry describes what a palette key spawns. Sizes are in cells and default
// to one cell.
type Entry struct {
	Type     Kind    `yaml:"type"`
	W        float64 `yaml:"w"`
	H        float64 `yaml:"h"`
	Friction float64 `yaml:"friction"`

	To        string  `yaml:"to"`
	RouteTime float64 `yaml:"route_time"`

	Distance   float64 `yaml:"distance"`
	Duration   float64 `yaml:"duration"`
	Horizontal bool    `yaml:"horizontal"`

	Event string `yaml:"event"`

	Mass        Mass     `yaml:"mass"`
	Gravity     *float64 `yaml:"gravity"`
	Drag        *float64 `yaml:"drag"`
	Restitution *float64 `yaml:"restitution"`
	Collision   string   `yaml:"collision"`
}

// Mass accepts a number or "inf" for an immovable body.
type Mass float64

func (m *Mass) UnmarshalYAML(n *yaml.Node) error {
	switch strings.ToLower(n.Value) {
	case "inf", "infinity", "immovable":
		*m = Mass(math.Inf(1))
		return nil
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return err
	}
	*m = Mass(f)
	return nil
}

// LoadFile reads a YAML grid level.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: %w", err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", path, err)
	}
	return l, nil
}

// Parse decodes a YAML grid level.
func Parse(data []byte) (*Level, error) {
	var g Grid
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	return g.Level()
}

// Level lays the grid out. Elements come in row-major order, with moving
// blocks after everything else so their end markers are known.
func (g *Grid) Level() (*Level, error) {
	if g.CellSize <= 0 {
		return nil, fmt.Errorf("%w: cell_size must be positive", ErrInvalidLevel)
	}
	for key, e := range g.Palette {
		if len([]rune(key)) != 1 {
			return nil, fmt.Errorf("%w: palette key %q must be a single character", ErrInvalidLevel, key)
		}
		if !e.Type.valid() {
			return nil, fmt.Errorf("%w: palette %q has unknown type %q", ErrInvalidLevel, key, e.Type)
		}
	}

	size := g.CellSize
	l := &Level{Name: g.Name}
	markers := make(map[string]vec.Vec2)
	var moving []Element
	var movingTo []string

	cols := 0
	for i, row := range g.Rows {
		runes := []rune(row)
		cols = max(cols, len(runes))
		for j, r := range runes {
			if r == '.' || r == ' ' {
				continue
			}
			pos := vec.New(float64(j)*size, float64(i)*size)
			key := string(r)
			entry, ok := g.Palette[key]
			if !ok {
				markers[key] = pos
				continue
			}
			e := entry.element(pos, size)
			if e.Kind == KindMovingBlock {
				moving = append(moving, e)
				movingTo = append(movingTo, entry.To)
				continue
			}
			l.Elements = append(l.Elements, e)
		}
	}

	for i, e := range moving {
		e.End = vec.New(e.X, e.Y)
		if end, ok := markers[movingTo[i]]; ok {
			e.End = end
		}
		l.Elements = append(l.Elements, e)
	}

	l.Width = float64(cols) * size
	l.Height = float64(len(g.Rows)) * size
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

func (e Entry) element(pos vec.Vec2, size float64) Element {
	w, h := e.W, e.H
	if w == 0 {
		w = 1
	}
	if h == 0 {
		h = 1
	}
	return Element{
		Kind:        e.Type,
		X:           pos.X,
		Y:           pos.Y,
		W:           w * size,
		H:           h * size,
		Friction:    e.Friction,
		RouteTime:   e.RouteTime,
		Distance:    e.Distance * size,
		Duration:    e.Duration,
		Horizontal:  e.Horizontal,
		Event:       e.Event,
		Mass:        float64(e.Mass),
		Gravity:     e.Gravity,
		Drag:        e.Drag,
		Restitution: e.Restitution,
		Collision:   e.Collision,
	}
}
