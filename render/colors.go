package render

import (
	"github.com/gdamore/tcell/v2"
)

// RGB color definitions for the cloth view
var (
	RgbBackground = tcell.NewRGBColor(26, 27, 38) // Tokyo Night background

	RgbStrainLow  = tcell.NewRGBColor(80, 200, 120) // Relaxed spring
	RgbStrainMid  = tcell.NewRGBColor(240, 210, 80) // Stretched
	RgbStrainHigh = tcell.NewRGBColor(255, 70, 70)  // Near tearing

	RgbParticle = tcell.NewRGBColor(200, 200, 200) // Free particle
	RgbAnchor   = tcell.NewRGBColor(255, 165, 0)   // Anchored particle
	RgbSelected = tcell.NewRGBColor(140, 190, 255) // Particle nearest the cursor
	RgbCursor   = tcell.NewRGBColor(255, 255, 255)
	RgbTear     = tcell.NewRGBColor(255, 120, 120)
	RgbBounds   = tcell.NewRGBColor(60, 60, 80)

	RgbStatusText   = tcell.NewRGBColor(0, 0, 0)
	RgbStatusBar    = tcell.NewRGBColor(255, 255, 255)
	RgbModeRunBg    = tcell.NewRGBColor(144, 238, 144) // Light grass green
	RgbModePausedBg = tcell.NewRGBColor(255, 165, 0)   // Orange
	RgbWindBg       = tcell.NewRGBColor(135, 206, 250) // Light sky blue
	RgbHelpText     = tcell.NewRGBColor(120, 120, 140)
)

// lerpColor blends two colors, t in [0,1]
func lerpColor(a, b tcell.Color, t float64) tcell.Color {
	ar, ag, ab := a.RGB()
	br, bg, bb := b.RGB()
	mix := func(x, y int32) int32 {
		return x + int32(float64(y-x)*t)
	}
	return tcell.NewRGBColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}

// StrainColor maps strain, stretch over tear length in [0,1], to a green-yellow-red gradient
func StrainColor(strain float64) tcell.Color {
	switch {
	case strain <= 0:
		return RgbStrainLow
	case strain >= 1:
		return RgbStrainHigh
	case strain < 0.5:
		return lerpColor(RgbStrainLow, RgbStrainMid, strain*2)
	default:
		return lerpColor(RgbStrainMid, RgbStrainHigh, (strain-0.5)*2)
	}
}
