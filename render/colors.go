package render

import (
	"github.com/gdamore/tcell/v2"
)

// Maze colors
var (
	RgbWall       = tcell.ColorBlack
	RgbPath       = tcell.NewRGBColor(128, 0, 128) // purple
	RgbBall       = tcell.NewRGBColor(255, 255, 255)
	RgbStatusBg   = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background
	RgbStatusText = tcell.NewRGBColor(180, 180, 180)
	RgbPausedBg   = tcell.NewRGBColor(255, 165, 0)
)

// MarkPalette holds the colors a marked wall may take
var MarkPalette = []tcell.Color{
	tcell.NewRGBColor(255, 80, 80),   // red
	tcell.NewRGBColor(255, 165, 0),   // orange
	tcell.NewRGBColor(255, 255, 0),   // yellow
	tcell.NewRGBColor(50, 255, 50),   // green
	tcell.NewRGBColor(0, 200, 200),   // cyan
	tcell.NewRGBColor(100, 150, 255), // blue
	tcell.NewRGBColor(255, 192, 203), // pink
	tcell.NewRGBColor(144, 238, 144), // light green
}

// GetSpeedColor grades the status speed readout from calm to the tunneling
// ceiling: green up to 60%, shading to orange, red from 95%
func GetSpeedColor(speed, ceiling float64) tcell.Color {
	if ceiling <= 0 {
		return RgbStatusText
	}
	ratio := speed / ceiling
	switch {
	case ratio >= 0.95:
		return rgbDanger.Tcell()
	case ratio >= 0.6:
		return Lerp(rgbBusy, rgbDanger, (ratio-0.6)/0.35).Tcell()
	default:
		return Lerp(rgbCalm, rgbBusy, ratio/0.6).Tcell()
	}
}
