package input

import (
	"github.com/lixenwraith/vi-cloth/cloth"
)

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit        // q, Ctrl+C, Ctrl+Q
	IntentResize      // Terminal resize event
	IntentToggleAudio // Ctrl+S

	// Simulation control
	IntentPause      // p
	IntentStep       // . while paused
	IntentRestart    // r
	IntentToggleWind // w

	// Parameter adjustment, Field and signed Count
	IntentAdjust

	// Anchors
	IntentToggleAnchor // space, toggles the particle nearest the cursor
	IntentNudge        // hjkl, moves the selected anchor by DX/DY world steps

	// View
	IntentCursor // arrows, moves the cursor by DX/DY cells
	IntentOrbit  // < > ^ v rotate the camera, DX yaw and DY pitch steps
	IntentZoom   // + -, signed Count

	// Mouse
	IntentMouseDown // Left press at X,Y
	IntentMouseDrag // Left held and moved to X,Y
	IntentMouseUp   // Left release
)

var intentNames = map[IntentType]string{
	IntentNone:         "none",
	IntentQuit:         "quit",
	IntentResize:       "resize",
	IntentToggleAudio:  "toggle_audio",
	IntentPause:        "pause",
	IntentStep:         "step",
	IntentRestart:      "restart",
	IntentToggleWind:   "toggle_wind",
	IntentAdjust:       "adjust",
	IntentToggleAnchor: "toggle_anchor",
	IntentNudge:        "nudge",
	IntentCursor:       "cursor",
	IntentOrbit:        "orbit",
	IntentZoom:         "zoom",
	IntentMouseDown:    "mouse_down",
	IntentMouseDrag:    "mouse_drag",
	IntentMouseUp:      "mouse_up",
}

func (t IntentType) String() string {
	if s, ok := intentNames[t]; ok {
		return s
	}
	return "unknown"
}

// Intent is a parsed user action
type Intent struct {
	Type IntentType

	// Count is the repeat count for directional intents, signed steps for IntentAdjust/IntentZoom
	Count int
	Field cloth.Field

	// DX, DY carry direction for nudge, cursor and orbit, already scaled by the count
	DX, DY int

	// X, Y are screen coordinates for mouse intents
	X, Y int
}
