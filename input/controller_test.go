package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-cloth/cloth"
)

func key(ch rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, ch, tcell.ModNone)
}

func TestControllerSimpleIntents(t *testing.T) {
	tests := []struct {
		ev   tcell.Event
		want IntentType
	}{
		{key('q'), IntentQuit},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), IntentQuit},
		{key('p'), IntentPause},
		{key('.'), IntentStep},
		{key('r'), IntentRestart},
		{key('w'), IntentToggleWind},
		{key(' '), IntentToggleAnchor},
		{tcell.NewEventKey(tcell.KeyCtrlS, 0, tcell.ModCtrl), IntentToggleAudio},
		{tcell.NewEventResize(80, 24), IntentResize},
	}

	for _, tt := range tests {
		c := NewController(nil)
		got := c.Process(tt.ev)
		if got == nil || got.Type != tt.want {
			t.Errorf("Process(%T) = %+v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestControllerAdjustWithCount(t *testing.T) {
	c := NewController(nil)

	if c.Process(key('1')) != nil || c.Process(key('2')) != nil {
		t.Fatal("digits should not produce intents")
	}
	if c.PendingCount() != "12" {
		t.Fatalf("PendingCount = %q, want 12", c.PendingCount())
	}

	got := c.Process(key('S'))
	if got == nil || got.Type != IntentAdjust || got.Field != cloth.FieldSpringConstant || got.Count != 12 {
		t.Fatalf("12S = %+v, want spring constant +12", got)
	}
	if c.PendingCount() != "" {
		t.Fatal("count not consumed")
	}

	got = c.Process(key('d'))
	if got.Field != cloth.FieldDamping || got.Count != -1 {
		t.Fatalf("d = %+v, want damping -1", got)
	}
}

func TestControllerZeroIsNotCountStart(t *testing.T) {
	c := NewController(nil)
	c.Process(key('0'))
	if c.PendingCount() != "" {
		t.Fatal("leading zero started a count")
	}
	c.Process(key('3'))
	c.Process(key('0'))
	got := c.Process(key('l'))
	if got.Type != IntentNudge || got.DX != 30 || got.DY != 0 {
		t.Fatalf("30l = %+v, want nudge DX 30", got)
	}
}

func TestControllerEscapeClearsCount(t *testing.T) {
	c := NewController(nil)
	c.Process(key('5'))
	c.Process(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	got := c.Process(key('k'))
	if got.DY != 1 {
		t.Fatalf("k after escape = %+v, want DY 1", got)
	}
}

func TestControllerUnboundKeyClearsCount(t *testing.T) {
	c := NewController(nil)
	c.Process(key('4'))
	if c.Process(key('@')) != nil {
		t.Fatal("unbound key produced an intent")
	}
	if c.PendingCount() != "" {
		t.Fatal("unbound key kept the count")
	}
}

func TestControllerCursorAndOrbit(t *testing.T) {
	c := NewController(nil)
	got := c.Process(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	if got.Type != IntentCursor || got.DY != -1 {
		t.Fatalf("Up = %+v", got)
	}
	got = c.Process(key('>'))
	if got.Type != IntentOrbit || got.DX != 1 {
		t.Fatalf("> = %+v", got)
	}
	got = c.Process(key('-'))
	if got.Type != IntentZoom || got.Count != -1 {
		t.Fatalf("- = %+v", got)
	}
}

func TestControllerMouseDrag(t *testing.T) {
	c := NewController(nil)

	got := c.Process(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone))
	if got == nil || got.Type != IntentMouseDown || got.X != 10 || got.Y != 5 {
		t.Fatalf("press = %+v", got)
	}
	if got := c.Process(tcell.NewEventMouse(10, 5, tcell.Button1, tcell.ModNone)); got != nil {
		t.Fatalf("held without motion = %+v, want nil", got)
	}
	got = c.Process(tcell.NewEventMouse(12, 6, tcell.Button1, tcell.ModNone))
	if got == nil || got.Type != IntentMouseDrag || got.X != 12 || got.Y != 6 {
		t.Fatalf("drag = %+v", got)
	}
	got = c.Process(tcell.NewEventMouse(12, 6, tcell.ButtonNone, tcell.ModNone))
	if got == nil || got.Type != IntentMouseUp {
		t.Fatalf("release = %+v", got)
	}
	if got := c.Process(tcell.NewEventMouse(13, 6, tcell.ButtonNone, tcell.ModNone)); got != nil {
		t.Fatalf("motion without button = %+v, want nil", got)
	}
}

func TestLoadKeyConfig(t *testing.T) {
	data := []byte(`
[keys]
"x" = "restart"
"space" = "pause"
"r" = "none"
"z" = "gravity_up"

[special_keys]
"ctrl+r" = "restart"
`)
	override, err := LoadKeyConfig(data)
	if err != nil {
		t.Fatalf("LoadKeyConfig: %v", err)
	}
	table := MergeKeyTable(DefaultKeyTable(), override)
	c := NewController(table)

	if got := c.Process(key('x')); got == nil || got.Type != IntentRestart {
		t.Errorf("x = %+v, want restart", got)
	}
	if got := c.Process(key(' ')); got == nil || got.Type != IntentPause {
		t.Errorf("space = %+v, want pause", got)
	}
	if got := c.Process(key('r')); got != nil {
		t.Errorf("unbound r = %+v, want nil", got)
	}
	if got := c.Process(key('z')); got == nil || got.Field != cloth.FieldGravity || got.Count != 1 {
		t.Errorf("z = %+v, want gravity +1", got)
	}
	if got := c.Process(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)); got == nil || got.Type != IntentRestart {
		t.Errorf("ctrl+r = %+v, want restart", got)
	}
}

func TestLoadKeyConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown action", "[keys]\n\"x\" = \"explode\"\n"},
		{"multi rune key", "[keys]\n\"xy\" = \"quit\"\n"},
		{"unknown special", "[special_keys]\n\"f13\" = \"quit\"\n"},
		{"bad toml", "[keys\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadKeyConfig([]byte(tt.data)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestActionRegistryCoversFields(t *testing.T) {
	for _, name := range []string{"gravity", "spring_constant", "damping", "rest_length", "wind_resistance"} {
		for _, dir := range []string{"_up", "_down"} {
			if _, ok := actionRegistry[name+dir]; !ok {
				t.Errorf("action %s%s missing", name, dir)
			}
		}
	}
}
