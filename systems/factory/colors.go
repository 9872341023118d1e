package factory

import "image/color"

var (
	playerColor = color.RGBA{R: 100, G: 180, B: 255, A: 255}
	actorColor  = color.RGBA{R: 255, G: 180, B: 50, A: 255}
	remoteColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	bodyColor   = color.RGBA{R: 100, G: 255, B: 100, A: 255}
	blockColor  = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	movingColor = color.RGBA{R: 60, G: 100, B: 160, A: 255}
	eventColor  = color.RGBA{R: 255, G: 60, B: 60, A: 255}
)
