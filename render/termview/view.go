// Package termview draws a game as glyphs in a terminal using tcell.
//
// Terminals report key presses but not releases, so a key counts as held
// until no repeat has arrived for ReleaseAfter.
package termview

import (
	"fmt"
	"math"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/automoto/rigid2d/game"
)

// Default ReleaseAfter. Most terminals repeat a held key every 30 to 50 ms
// after an initial delay of up to 500 ms.
const DefaultReleaseAfter = 550 * time.Millisecond

type View struct {
	screen tcell.Screen
	g      *game.Game

	// CellW and CellH are the world units one terminal cell covers.
	CellW, CellH float64
	ReleaseAfter time.Duration
	// Status is drawn on the bottom row.
	Status string

	held map[string]time.Time
}

func New(screen tcell.Screen, g *game.Game, cellW, cellH float64) *View {
	return &View{
		screen:       screen,
		g:            g,
		CellW:        cellW,
		CellH:        cellH,
		ReleaseAfter: DefaultReleaseAfter,
		held:         make(map[string]time.Time),
	}
}

// KeyName maps a terminal key to the key names used by config.Input, or
// false for keys the game does not use.
func KeyName(key tcell.Key, r rune) (string, bool) {
	switch key {
	case tcell.KeyLeft:
		return "ArrowLeft", true
	case tcell.KeyRight:
		return "ArrowRight", true
	case tcell.KeyUp:
		return "ArrowUp", true
	case tcell.KeyDown:
		return "ArrowDown", true
	case tcell.KeyEnter:
		return "Enter", true
	case tcell.KeyRune:
	default:
		return "", false
	}

	switch {
	case r == ' ':
		return "Space", true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		return string(unicode.ToUpper(r)), true
	case r >= '0' && r <= '9':
		return "Digit" + string(r), true
	}
	return "", false
}

// HandleEvent applies one terminal event. It returns false when the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		v.keyDown(ev.Key(), ev.Rune(), now)
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *View) keyDown(key tcell.Key, r rune, now time.Time) {
	name, ok := KeyName(key, r)
	if !ok {
		return
	}
	if _, down := v.held[name]; !down {
		v.g.Controls.Press(name)
	}
	v.held[name] = now
}

// ReleaseStale releases keys that have not repeated within ReleaseAfter.
func (v *View) ReleaseStale(now time.Time) {
	for name, last := range v.held {
		if now.Sub(last) >= v.ReleaseAfter {
			delete(v.held, name)
			v.g.Controls.Release(name)
		}
	}
}

// Draw renders every entity, centred on the player when there is one.
func (v *View) Draw() {
	v.screen.Clear()
	cols, rows := v.screen.Size()

	var camX, camY float64
	if p, err := v.g.Player(); err == nil {
		camX = p.Position.X + p.Width/2 - float64(cols)*v.CellW/2
		camY = p.Position.Y + p.Height/2 - float64(rows)*v.CellH/2
	}

	var player *game.Renderable
	v.g.Each(func(r game.Renderable) {
		if r.Player {
			player = &r
			return
		}
		v.fill(r, camX, camY, cols, rows)
	})
	// Player last so it is never hidden behind what it overlaps.
	if player != nil {
		v.fill(*player, camX, camY, cols, rows)
	}

	if v.Status != "" {
		status := fmt.Sprintf(" %s ", v.Status)
		style := tcell.StyleDefault.Reverse(true)
		for i, r := range status {
			if i >= cols {
				break
			}
			v.screen.SetContent(i, rows-1, r, nil, style)
		}
	}
	v.screen.Show()
}

func (v *View) fill(r game.Renderable, camX, camY float64, cols, rows int) {
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r.Color.R), int32(r.Color.G), int32(r.Color.B)))
	x0 := int(math.Floor((r.Position.X - camX) / v.CellW))
	y0 := int(math.Floor((r.Position.Y - camY) / v.CellH))
	x1 := int(math.Ceil((r.Position.X+r.Size.X-camX)/v.CellW)) - 1
	y1 := int(math.Ceil((r.Position.Y+r.Size.Y-camY)/v.CellH)) - 1
	for y := max(y0, 0); y <= min(y1, rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, cols-1); x++ {
			v.screen.SetContent(x, y, r.Glyph, nil, style)
		}
	}
}
