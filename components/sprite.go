package components

import (
	"image/color"

	"github.com/yohamta/donburi"
)

// SpriteData describes how views draw an entity: a filled rectangle in
// graphical views and a glyph in the terminal.
type SpriteData struct {
	Color color.RGBA
	Glyph rune
}

var Sprite = donburi.NewComponentType[SpriteData]()
