package input

import (
	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-cloth/cloth"
)

// KeyEntry describes a key's action without function pointers
// Sign is the step direction for adjust/zoom, DX/DY the unit direction for nudge/cursor/orbit
type KeyEntry struct {
	Intent IntentType
	Field  cloth.Field
	Sign   int
	DX, DY int
}

// KeyTable maps keys to actions
type KeyTable struct {
	// Special keys (Ctrl+*, arrows)
	SpecialKeys map[tcell.Key]KeyEntry

	// Printable rune bindings
	Runes map[rune]KeyEntry
}

func adjust(f cloth.Field, sign int) KeyEntry {
	return KeyEntry{Intent: IntentAdjust, Field: f, Sign: sign}
}

// DefaultKeyTable returns the default key bindings
// Lowercase decreases a parameter, uppercase increases it
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlQ: {Intent: IntentQuit},
			tcell.KeyCtrlC: {Intent: IntentQuit},
			tcell.KeyCtrlS: {Intent: IntentToggleAudio},
			tcell.KeyUp:    {Intent: IntentCursor, DY: -1},
			tcell.KeyDown:  {Intent: IntentCursor, DY: 1},
			tcell.KeyLeft:  {Intent: IntentCursor, DX: -1},
			tcell.KeyRight: {Intent: IntentCursor, DX: 1},
		},

		Runes: map[rune]KeyEntry{
			'q': {Intent: IntentQuit},
			'p': {Intent: IntentPause},
			'.': {Intent: IntentStep},
			'r': {Intent: IntentRestart},
			'w': {Intent: IntentToggleWind},
			' ': {Intent: IntentToggleAnchor},

			// Anchor nudges, world +Y is up
			'h': {Intent: IntentNudge, DX: -1},
			'l': {Intent: IntentNudge, DX: 1},
			'k': {Intent: IntentNudge, DY: 1},
			'j': {Intent: IntentNudge, DY: -1},

			// Camera
			'<': {Intent: IntentOrbit, DX: -1},
			'>': {Intent: IntentOrbit, DX: 1},
			'^': {Intent: IntentOrbit, DY: 1},
			'v': {Intent: IntentOrbit, DY: -1},
			'+': {Intent: IntentZoom, Sign: 1},
			'-': {Intent: IntentZoom, Sign: -1},

			// Parameters
			's': adjust(cloth.FieldSpringConstant, -1),
			'S': adjust(cloth.FieldSpringConstant, 1),
			'd': adjust(cloth.FieldDamping, -1),
			'D': adjust(cloth.FieldDamping, 1),
			'g': adjust(cloth.FieldGravity, -1),
			'G': adjust(cloth.FieldGravity, 1),
			'e': adjust(cloth.FieldRestLength, -1),
			'E': adjust(cloth.FieldRestLength, 1),
			'f': adjust(cloth.FieldWindResistance, -1),
			'F': adjust(cloth.FieldWindResistance, 1),
		},
	}
}

// MergeKeyTable overlays override bindings onto base, returns base
// Entries with IntentNone unbind the key
func MergeKeyTable(base, override *KeyTable) *KeyTable {
	if override == nil {
		return base
	}
	for k, e := range override.SpecialKeys {
		if e.Intent == IntentNone {
			delete(base.SpecialKeys, k)
			continue
		}
		base.SpecialKeys[k] = e
	}
	for r, e := range override.Runes {
		if e.Intent == IntentNone {
			delete(base.Runes, r)
			continue
		}
		base.Runes[r] = e
	}
	return base
}
