package input

import (
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/cloth"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownKey    = errors.New("unknown key")
)

// actionRegistry maps canonical action names to KeyEntry structs
// Used by the keymap loader to resolve TOML action strings to bindings
var actionRegistry = buildActionRegistry()

func buildActionRegistry() map[string]KeyEntry {
	reg := map[string]KeyEntry{
		// Unbind sentinel
		"none": {},

		"quit":          {Intent: IntentQuit},
		"toggle_audio":  {Intent: IntentToggleAudio},
		"pause":         {Intent: IntentPause},
		"step":          {Intent: IntentStep},
		"restart":       {Intent: IntentRestart},
		"toggle_wind":   {Intent: IntentToggleWind},
		"toggle_anchor": {Intent: IntentToggleAnchor},

		"nudge_left":  {Intent: IntentNudge, DX: -1},
		"nudge_right": {Intent: IntentNudge, DX: 1},
		"nudge_up":    {Intent: IntentNudge, DY: 1},
		"nudge_down":  {Intent: IntentNudge, DY: -1},

		"cursor_left":  {Intent: IntentCursor, DX: -1},
		"cursor_right": {Intent: IntentCursor, DX: 1},
		"cursor_up":    {Intent: IntentCursor, DY: -1},
		"cursor_down":  {Intent: IntentCursor, DY: 1},

		"orbit_left":  {Intent: IntentOrbit, DX: -1},
		"orbit_right": {Intent: IntentOrbit, DX: 1},
		"orbit_up":    {Intent: IntentOrbit, DY: 1},
		"orbit_down":  {Intent: IntentOrbit, DY: -1},
		"zoom_in":     {Intent: IntentZoom, Sign: 1},
		"zoom_out":    {Intent: IntentZoom, Sign: -1},
	}

	// <field>_up / <field>_down for every adjustable parameter
	for f := cloth.FieldGravity; ; f++ {
		name := f.String()
		if _, ok := cloth.ParseField(name); !ok {
			break
		}
		reg[name+"_up"] = adjust(f, 1)
		reg[name+"_down"] = adjust(f, -1)
	}
	return reg
}

// specialKeyNames resolves TOML key names to tcell keys
var specialKeyNames = map[string]tcell.Key{
	"up":     tcell.KeyUp,
	"down":   tcell.KeyDown,
	"left":   tcell.KeyLeft,
	"right":  tcell.KeyRight,
	"enter":  tcell.KeyEnter,
	"tab":    tcell.KeyTab,
	"esc":    tcell.KeyEscape,
	"ctrl+c": tcell.KeyCtrlC,
	"ctrl+q": tcell.KeyCtrlQ,
	"ctrl+s": tcell.KeyCtrlS,
	"ctrl+r": tcell.KeyCtrlR,
	"ctrl+w": tcell.KeyCtrlW,
}

// keymapFile is the TOML layout of a keymap
//
//	[keys]
//	"x" = "restart"
//	[special_keys]
//	"ctrl+r" = "restart"
type keymapFile struct {
	Keys        map[string]string `toml:"keys"`
	SpecialKeys map[string]string `toml:"special_keys"`
}

// LoadKeyConfig parses TOML keymap data into a sparse override KeyTable
// Returns error on unknown action names, invalid key names, or parse failure
func LoadKeyConfig(data []byte) (*KeyTable, error) {
	var raw keymapFile
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, errors.Wrap(err, "keymap parse")
	}

	kt := &KeyTable{
		SpecialKeys: make(map[tcell.Key]KeyEntry, len(raw.SpecialKeys)),
		Runes:       make(map[rune]KeyEntry, len(raw.Keys)),
	}

	for keyStr, action := range raw.Keys {
		r, err := resolveRune(keyStr)
		if err != nil {
			return nil, errors.Wrapf(err, "[keys] key %q", keyStr)
		}
		entry, err := resolveAction(action)
		if err != nil {
			return nil, errors.Wrapf(err, "[keys] key %q", keyStr)
		}
		kt.Runes[r] = entry
	}

	for keyStr, action := range raw.SpecialKeys {
		k, ok := specialKeyNames[strings.ToLower(keyStr)]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownKey, "[special_keys] %q", keyStr)
		}
		entry, err := resolveAction(action)
		if err != nil {
			return nil, errors.Wrapf(err, "[special_keys] key %q", keyStr)
		}
		kt.SpecialKeys[k] = entry
	}

	return kt, nil
}

// resolveRune accepts a single character or "space"
func resolveRune(s string) (rune, error) {
	if strings.EqualFold(s, "space") {
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.Wrapf(ErrUnknownKey, "%q is not a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func resolveAction(name string) (KeyEntry, error) {
	entry, ok := actionRegistry[name]
	if !ok {
		return KeyEntry{}, errors.Wrapf(ErrUnknownAction, "%q", name)
	}
	return entry, nil
}
