package input

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// maxCount caps the numeric prefix
const maxCount = 999

// Controller parses tcell events into semantic Intents
// Digits accumulate a repeat count applied to the next directional or adjust key
type Controller struct {
	keyTable *KeyTable

	count int

	// Left button state for drag detection
	dragging     bool
	lastX, lastY int
}

// NewController creates a controller over table, nil uses the default bindings
func NewController(table *KeyTable) *Controller {
	if table == nil {
		table = DefaultKeyTable()
	}
	return &Controller{keyTable: table}
}

// PendingCount returns the typed count prefix for UI display
func (c *Controller) PendingCount() string {
	if c.count == 0 {
		return ""
	}
	return strconv.Itoa(c.count)
}

// Reset clears pending state
func (c *Controller) Reset() {
	c.count = 0
	c.dragging = false
}

// Process parses an event and returns an Intent
// Returns nil if input is incomplete or unbound
func (c *Controller) Process(ev tcell.Event) *Intent {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		return &Intent{Type: IntentResize}
	case *tcell.EventKey:
		return c.processKey(ev)
	case *tcell.EventMouse:
		return c.processMouse(ev)
	}
	return nil
}

func (c *Controller) processKey(ev *tcell.EventKey) *Intent {
	if ev.Key() == tcell.KeyEscape {
		c.count = 0
		return nil
	}

	if ev.Key() != tcell.KeyRune {
		entry, ok := c.keyTable.SpecialKeys[ev.Key()]
		if !ok {
			c.count = 0
			return nil
		}
		return c.build(entry)
	}

	ch := ev.Rune()
	// Count prefix: 1-9 starts, 0 continues
	if (ch >= '1' && ch <= '9') || (ch == '0' && c.count > 0) {
		c.count = min(c.count*10+int(ch-'0'), maxCount)
		return nil
	}

	entry, ok := c.keyTable.Runes[ch]
	if !ok {
		c.count = 0
		return nil
	}
	return c.build(entry)
}

// build consumes the pending count into an Intent for entry
func (c *Controller) build(entry KeyEntry) *Intent {
	n := max(c.count, 1)
	c.count = 0

	intent := &Intent{Type: entry.Intent, Count: n}
	switch entry.Intent {
	case IntentAdjust:
		intent.Field = entry.Field
		intent.Count = n * entry.Sign
	case IntentZoom:
		intent.Count = n * entry.Sign
	case IntentNudge, IntentCursor, IntentOrbit:
		intent.DX = entry.DX * n
		intent.DY = entry.DY * n
	}
	return intent
}

func (c *Controller) processMouse(ev *tcell.EventMouse) *Intent {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button1 != 0:
		if !c.dragging {
			c.dragging = true
			c.lastX, c.lastY = x, y
			return &Intent{Type: IntentMouseDown, X: x, Y: y}
		}
		if x == c.lastX && y == c.lastY {
			return nil
		}
		c.lastX, c.lastY = x, y
		return &Intent{Type: IntentMouseDrag, X: x, Y: y}

	case buttons&tcell.WheelUp != 0:
		return &Intent{Type: IntentZoom, Count: 1}
	case buttons&tcell.WheelDown != 0:
		return &Intent{Type: IntentZoom, Count: -1}

	case buttons == tcell.ButtonNone && c.dragging:
		c.dragging = false
		return &Intent{Type: IntentMouseUp, X: x, Y: y}
	}
	return nil
}
