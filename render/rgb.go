package render

import "github.com/gdamore/tcell/v2"

// RGB is a 24-bit color used for gradients before handing colors to tcell
type RGB struct {
	R, G, B uint8
}

// Speed gradient stops
var (
	rgbCalm   = RGB{50, 255, 50}
	rgbBusy   = RGB{255, 165, 0}
	rgbDanger = RGB{255, 80, 80}
)

// Tcell converts to a tcell true color
func (c RGB) Tcell() tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Lerp linearly interpolates between two colors
// t=0 returns a, t=1 returns b
func Lerp(a, b RGB, t float64) RGB {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	return RGB{
		R: uint8(float64(a.R) + t*float64(int(b.R)-int(a.R))),
		G: uint8(float64(a.G) + t*float64(int(b.G)-int(a.G))),
		B: uint8(float64(a.B) + t*float64(int(b.B)-int(a.B))),
	}
}
