package main

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/vi-cloth/audio"
	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/config"
	"github.com/lixenwraith/vi-cloth/engine"
	"github.com/lixenwraith/vi-cloth/input"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/render"
)

// newTestApp builds an app on a simulation screen with a scheduler that is never started
func newTestApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Default()
	cfg.Audio.Enabled = false
	return newTestAppWith(t, cfg, nil)
}

func newTestAppWith(t *testing.T, cfg config.Config, sound *audio.SoundManager) *app {
	t.Helper()
	screen := tcell.NewSimulationScreen("")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	screen.SetSize(100, 30)
	t.Cleanup(screen.Fini)

	a, err := newApp(cfg, screen, input.DefaultKeyTable(), sound)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	clock := engine.NewPausableClock(engine.NewManualTimeProvider(time.Unix(0, 0)))
	a.scheduler = engine.NewClockScheduler(clock, cfg.Sim.Tick.Duration, a.step, a.reset, nil)
	a.renderer.Draw(a.view())
	return a
}

// anchorCell returns the viewport cell of the first anchor
func anchorCell(t *testing.T, a *app) render.Cell {
	t.Helper()
	id := a.sim.Mesh().Anchors()[0]
	w, h := a.renderer.Viewport()
	cell, _, ok := a.renderer.Camera().Project(a.sim.Mesh().Particle(id).Pos, w, h)
	if !ok {
		t.Fatalf("anchor %d not visible", id)
	}
	return cell
}

func TestAppAdjustAndWind(t *testing.T) {
	a := newTestApp(t)

	before := a.live.Params().Gravity
	if !a.handle(&input.Intent{Type: input.IntentAdjust, Field: cloth.FieldGravity, Count: 2}) {
		t.Fatal("adjust should not quit")
	}
	if got, want := a.live.Params().Gravity, before+2*parameter.ClothGravityStep; got != want {
		t.Errorf("gravity = %f, want %f", got, want)
	}
	if !strings.HasPrefix(a.view().Message, "gravity") {
		t.Errorf("message = %q", a.view().Message)
	}

	a.handle(&input.Intent{Type: input.IntentToggleWind})
	if !a.live.Params().Wind {
		t.Error("wind not enabled")
	}
}

func TestAppQuitAndPause(t *testing.T) {
	a := newTestApp(t)

	a.handle(&input.Intent{Type: input.IntentPause})
	if !a.view().Paused {
		t.Error("pause intent did not pause the clock")
	}
	a.handle(&input.Intent{Type: input.IntentPause})
	if a.view().Paused {
		t.Error("second pause intent did not resume")
	}

	if a.handle(&input.Intent{Type: input.IntentQuit}) {
		t.Error("quit intent should return false")
	}
}

func TestAppToggleAnchorAtCursor(t *testing.T) {
	a := newTestApp(t)
	a.cursor = anchorCell(t, a)

	before := len(a.sim.Mesh().Anchors())
	a.handle(&input.Intent{Type: input.IntentToggleAnchor})
	after := len(a.sim.Mesh().Anchors())
	if diff := after - before; diff != 1 && diff != -1 {
		t.Fatalf("anchors %d -> %d, want a single toggle", before, after)
	}
}

func TestAppNudgeMovesAnchor(t *testing.T) {
	a := newTestApp(t)
	a.cursor = anchorCell(t, a)

	id, ok := a.renderer.Nearest(a.cursor, parameter.PickRadius)
	if !ok {
		t.Fatal("nothing under cursor")
	}
	if !a.sim.Mesh().Particle(id).Anchored {
		a.toggleAnchor(id)
	}
	pin, _ := a.sim.AnchorPosition(id)

	a.handle(&input.Intent{Type: input.IntentNudge, DX: 1, DY: -1})
	got, err := a.sim.AnchorPosition(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.X != pin.X+parameter.NudgeStep || got.Y != pin.Y-parameter.NudgeStep {
		t.Errorf("pin moved %+v -> %+v", pin, got)
	}
}

func TestAppMouseDragAnchorsFreeParticle(t *testing.T) {
	a := newTestApp(t)

	// Pick a free particle near the middle of the mesh
	free := -1
	ps := a.sim.Mesh().Particles()
	for i := len(ps) / 2; i < len(ps); i++ {
		if !ps[i].Anchored {
			free = i
			break
		}
	}
	if free < 0 {
		t.Fatal("no free particle")
	}
	w, h := a.renderer.Viewport()
	cell, _, ok := a.renderer.Camera().Project(ps[free].Pos, w, h)
	if !ok {
		t.Fatal("particle not visible")
	}

	x, y := cell.X, cell.Y+parameter.TopMargin
	a.handle(&input.Intent{Type: input.IntentMouseDown, X: x, Y: y})
	if a.drag == nil {
		t.Fatal("press did not start a drag")
	}
	id := a.drag.id
	if !a.sim.Mesh().Particle(id).Anchored {
		t.Fatal("pressed particle not anchored")
	}
	before, _ := a.sim.AnchorPosition(id)

	a.handle(&input.Intent{Type: input.IntentMouseDrag, X: x + 6, Y: y})
	a.handle(&input.Intent{Type: input.IntentMouseUp})

	after, _ := a.sim.AnchorPosition(id)
	if after.X <= before.X {
		t.Errorf("drag right moved pin %+v -> %+v", before, after)
	}
	if !a.sim.Mesh().Particle(id).Anchored {
		t.Error("dragged particle released its anchor")
	}
	if a.drag != nil {
		t.Error("release did not end the drag")
	}
}

func TestAppStepAndRebuild(t *testing.T) {
	a := newTestApp(t)
	for i := 0; i < 5; i++ {
		a.step()
	}
	if a.sim.Tick() != 5 {
		t.Fatalf("tick = %d, want 5", a.sim.Tick())
	}

	a.live.Adjust(cloth.FieldDamping, 3)
	damping := a.live.Params().Damping
	a.reset()
	if a.sim.Tick() != 0 {
		t.Errorf("tick after restart = %d", a.sim.Tick())
	}
	if a.live.Params().Damping != damping {
		t.Error("live parameters lost on restart")
	}
	if a.renderer.SpringCount() != a.sim.Mesh().SpringCount() {
		t.Errorf("renderer tracks %d springs, mesh has %d", a.renderer.SpringCount(), a.sim.Mesh().SpringCount())
	}
}

func TestAppWindFollowsViewerControl(t *testing.T) {
	cfg := config.Default()
	cfg.Stream.Addr = "127.0.0.1:0"
	sound := audio.NewSoundManager(0.5)
	a := newTestAppWith(t, cfg, sound)
	if a.hub == nil {
		t.Fatal("stream address set but no hub")
	}

	srv := httptest.NewServer(a.hub)
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + parameter.StreamPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := conn.WriteJSON(map[string]any{"wind": true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for !a.live.Params().Wind || !sound.WindOn() {
		if time.Now().After(deadline) {
			t.Fatalf("wind=%v sound=%v after viewer enabled wind", a.live.Params().Wind, sound.WindOn())
		}
		time.Sleep(time.Millisecond)
	}

	// Keyboard toggle keeps both in step
	a.handle(&input.Intent{Type: input.IntentToggleWind})
	if a.live.Params().Wind || sound.WindOn() {
		t.Errorf("wind=%v sound=%v after toggle, want both off", a.live.Params().Wind, sound.WindOn())
	}
}
