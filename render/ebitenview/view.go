// Package ebitenview draws a game in an ebiten window and feeds keyboard
// events to its controls.
package ebitenview

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/automoto/rigid2d/game"
	"github.com/automoto/rigid2d/gameloop"
	"github.com/automoto/rigid2d/vec"
)

var background = color.RGBA{R: 0x1d, G: 0x1f, B: 0x27, A: 0xff}

// View implements ebiten.Game. Ebiten's frame callback polls the loop, which
// runs as many fixed ticks as the elapsed wall time pays for.
type View struct {
	g    *game.Game
	loop *gameloop.Loop

	width, height int
	keys          []ebiten.Key

	// Debug prints the tick rate and frame counter.
	Debug bool
	// OnFrame runs after the loop is polled, on the ebiten goroutine.
	OnFrame func() error
}

func New(g *game.Game, loop *gameloop.Loop, width, height int) *View {
	return &View{
		g:      g,
		loop:   loop,
		width:  width,
		height: height,
		Debug:  true,
	}
}

func (v *View) Update() error {
	v.keys = inpututil.AppendJustPressedKeys(v.keys[:0])
	for _, k := range v.keys {
		v.g.Controls.Press(k.String())
	}
	v.keys = inpututil.AppendJustReleasedKeys(v.keys[:0])
	for _, k := range v.keys {
		v.g.Controls.Release(k.String())
	}

	if _, err := v.loop.Poll(time.Now()); err != nil {
		return err
	}
	if v.OnFrame != nil {
		return v.OnFrame()
	}
	return nil
}

func (v *View) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	cam := v.camera()
	v.g.Each(func(r game.Renderable) {
		x := r.Position.X - cam.X
		y := r.Position.Y - cam.Y
		w, h := r.Size.X, r.Size.Y
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		vector.FillRect(screen, float32(x), float32(y), float32(w), float32(h), r.Color, false)
	})

	if v.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS %.1f  FPS %.1f  frame %d",
			v.loop.MeasuredFPS(), ebiten.ActualFPS(), v.g.Frame()))
	}
}

func (v *View) Layout(int, int) (int, int) {
	return v.width, v.height
}

// camera centres the player, or keeps the origin in the corner when there
// is none.
func (v *View) camera() vec.Vec2 {
	p, err := v.g.Player()
	if err != nil {
		return vec.Vec2{}
	}
	return vec.New(
		p.Position.X+p.Width/2-float64(v.width)/2,
		p.Position.Y+p.Height/2-float64(v.height)/2,
	)
}
