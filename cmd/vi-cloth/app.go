package main

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/audio"
	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/config"
	"github.com/lixenwraith/vi-cloth/engine"
	"github.com/lixenwraith/vi-cloth/input"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/render"
	"github.com/lixenwraith/vi-cloth/stream"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// drag tracks a left-button gesture on a particle
type drag struct {
	id          physics.ParticleID
	wasAnchored bool
	moved       bool
}

// app owns the sandbox: one simulation plus its collaborators
// mu serializes the scheduler's Step against input mutations and view capture
type app struct {
	cfg  config.Config
	live *cloth.LiveParams

	mu  sync.Mutex
	sim *cloth.Simulation

	screen     tcell.Screen
	renderer   *render.Renderer
	controller *input.Controller
	sound      *audio.SoundManager // nil when audio is disabled or unavailable
	hub        *stream.Hub         // nil when streaming is off
	scheduler  *engine.ClockScheduler

	cursor  render.Cell
	drag    *drag
	muted   bool
	message string
}

// newApp builds the first simulation; sound may be nil, a hub is created when cfg.Stream.Addr is set
func newApp(cfg config.Config, screen tcell.Screen, keys *input.KeyTable, sound *audio.SoundManager) (*app, error) {
	a := &app{
		cfg:        cfg,
		live:       cloth.NewLiveParams(cfg.Params()),
		screen:     screen,
		renderer:   render.NewRenderer(screen, render.NewCamera()),
		controller: input.NewController(keys),
		sound:      sound,
	}
	if cfg.Stream.Addr != "" {
		a.hub = stream.NewHub(viewerSink{a})
	}
	w, h := a.renderer.Viewport()
	a.cursor = render.Cell{X: w / 2, Y: h / 2}

	if err := a.rebuild(); err != nil {
		return nil, err
	}
	return a, nil
}

// observers returns the collaborators notified by every simulation
func (a *app) observers() []cloth.Observer {
	obs := []cloth.Observer{a.renderer, logObserver()}
	if a.sound != nil {
		obs = append(obs, a.sound.Observer())
	}
	if a.hub != nil {
		obs = append(obs, a.hub)
	}
	return obs
}

// rebuild discards the current simulation and builds a fresh mesh from config
// Live parameter changes survive the restart
func (a *app) rebuild() error {
	mesh, err := cloth.BuildMesh(a.cfg.Grid.Count, a.cfg.Layout())
	if err != nil {
		return errors.Wrap(err, "build mesh")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.renderer.Reset()
	if a.hub != nil {
		a.hub.Reset()
	}
	a.sim = cloth.NewSimulation(mesh, a.live, a.cfg.SimConfig(), a.observers()...)
	log.Printf("mesh built: %d particles, %d springs, %d surfaces",
		len(mesh.Particles()), mesh.SpringCount(), mesh.SurfaceCount())
	return nil
}

// step advances one tick, called by the scheduler
func (a *app) step() {
	a.mu.Lock()
	a.sim.Step()
	a.mu.Unlock()
}

// reset is the scheduler's reset hook
func (a *app) reset() {
	if err := a.rebuild(); err != nil {
		log.Printf("restart: %v", err)
		a.setMessage("restart failed")
		return
	}
	a.setMessage("restarted")
}

func (a *app) setMessage(s string) {
	a.mu.Lock()
	a.message = s
	a.mu.Unlock()
}

// view captures the render state under the simulation lock
func (a *app) view() render.View {
	a.mu.Lock()
	defer a.mu.Unlock()

	ps := a.sim.Mesh().Particles()
	anchored := make([]bool, len(ps))
	for i := range ps {
		anchored[i] = ps[i].Anchored
	}
	msg := a.message
	if pending := a.controller.PendingCount(); pending != "" {
		msg = pending
	}
	return render.View{
		Positions:       a.sim.Positions(nil),
		Anchored:        anchored,
		Params:          a.live.Params(),
		Stats:           a.sim.Stats(),
		BreakMultiplier: a.sim.Config().BreakMultiplier,
		Bounds:          a.sim.Config().Bounds,
		Paused:          a.scheduler != nil && a.scheduler.Clock().IsPaused(),
		Audio:           a.sound != nil && !a.muted,
		Cursor:          a.cursor,
		Message:         msg,
	}
}

// handle applies one intent, returns false to quit
func (a *app) handle(in *input.Intent) bool {
	switch in.Type {
	case input.IntentQuit:
		return false

	case input.IntentResize:
		a.screen.Sync()
		w, h := a.renderer.Viewport()
		a.cursor = clampCell(a.cursor, w, h)

	case input.IntentPause:
		clock := a.scheduler.Clock()
		if clock.IsPaused() {
			clock.Resume()
		} else {
			clock.Pause()
		}

	case input.IntentStep:
		a.scheduler.RequestStep()

	case input.IntentRestart:
		a.drag = nil
		a.scheduler.RequestReset()

	case input.IntentToggleWind:
		a.setWind(!a.live.Params().Wind)

	case input.IntentToggleAudio:
		if a.sound != nil {
			a.muted = !a.muted
			vol := a.cfg.Audio.Volume
			if a.muted {
				vol = 0
			}
			a.sound.SetVolume(vol)
		}

	case input.IntentAdjust:
		v := a.live.Adjust(in.Field, in.Count)
		a.setMessage(fmt.Sprintf("%s %.2f", in.Field, v))

	case input.IntentToggleAnchor:
		if id, ok := a.renderer.Nearest(a.cursor, parameter.PickRadius); ok {
			a.toggleAnchor(id)
		}

	case input.IntentNudge:
		a.nudge(in.DX, in.DY)

	case input.IntentCursor:
		w, h := a.renderer.Viewport()
		a.cursor = clampCell(render.Cell{X: a.cursor.X + in.DX, Y: a.cursor.Y + in.DY}, w, h)

	case input.IntentOrbit:
		a.renderer.Camera().Orbit(float64(in.DX)*parameter.CameraOrbitStep, float64(in.DY)*parameter.CameraOrbitStep)

	case input.IntentZoom:
		// Positive zooms in
		a.renderer.Camera().Zoom(math.Pow(parameter.CameraZoomFactor, float64(-in.Count)))

	case input.IntentMouseDown:
		a.mouseDown(render.ScreenCell(in.X, in.Y))
	case input.IntentMouseDrag:
		a.mouseDrag(render.ScreenCell(in.X, in.Y))
	case input.IntentMouseUp:
		a.mouseUp()
	}
	return true
}

// setWind switches wind in the simulation and the wind sound together
func (a *app) setWind(on bool) {
	a.live.SetWind(on)
	if a.sound != nil {
		a.sound.SetWind(on)
	}
	a.setMessage(fmt.Sprintf("wind %v", on))
}

// viewerSink applies stream control messages through the app
type viewerSink struct {
	a *app
}

func (s viewerSink) Set(f cloth.Field, value float64) float64 {
	return s.a.live.Set(f, value)
}

func (s viewerSink) SetWind(on bool) {
	s.a.setWind(on)
}

func (a *app) toggleAnchor(id physics.ParticleID) bool {
	a.mu.Lock()
	anchored, err := a.sim.ToggleAnchor(id)
	a.mu.Unlock()
	if err != nil {
		log.Printf("toggle anchor: %v", err)
		return false
	}
	if a.sound != nil {
		a.sound.PlayClick(anchored)
	}
	state := "free"
	if anchored {
		state = "anchored"
	}
	a.setMessage(fmt.Sprintf("particle %d %s", id, state))
	return anchored
}

// nudge moves the anchor nearest the cursor by whole NudgeSteps in world X/Y
func (a *app) nudge(dx, dy int) {
	id, ok := a.renderer.Nearest(a.cursor, parameter.PickRadius)
	if !ok {
		return
	}

	a.mu.Lock()
	pin, err := a.sim.AnchorPosition(id)
	if err == nil {
		pin = vmath.V3FAdd(pin, vmath.Vec3F{X: float64(dx) * parameter.NudgeStep, Y: float64(dy) * parameter.NudgeStep})
		err = a.sim.SetAnchorPosition(id, pin)
	}
	a.mu.Unlock()

	switch {
	case errors.Is(err, cloth.ErrNotAnchored):
		a.setMessage(fmt.Sprintf("particle %d is free", id))
	case err != nil:
		log.Printf("nudge: %v", err)
	}
}

// mouseDown picks the particle under the pointer, anchoring a free one so it can be dragged
func (a *app) mouseDown(cell render.Cell) {
	a.cursor = cell
	id, ok := a.renderer.Nearest(cell, parameter.PickRadius)
	if !ok {
		a.drag = nil
		return
	}

	a.mu.Lock()
	p := a.sim.Mesh().Particle(id)
	wasAnchored := p != nil && p.Anchored
	a.mu.Unlock()

	a.drag = &drag{id: id, wasAnchored: wasAnchored}
	if !wasAnchored {
		a.toggleAnchor(id)
	}
}

func (a *app) mouseDrag(cell render.Cell) {
	a.cursor = cell
	if a.drag == nil {
		return
	}
	pos, ok := a.renderer.ScreenToWorld(cell, a.drag.id)
	if !ok {
		return
	}
	a.drag.moved = true

	a.mu.Lock()
	err := a.sim.SetAnchorPosition(a.drag.id, pos)
	a.mu.Unlock()
	if err != nil {
		log.Printf("drag: %v", err)
	}
}

// mouseUp frees an anchor that was clicked without moving
func (a *app) mouseUp() {
	d := a.drag
	a.drag = nil
	if d != nil && d.wasAnchored && !d.moved {
		a.toggleAnchor(d.id)
	}
}

func clampCell(c render.Cell, w, h int) render.Cell {
	return render.Cell{
		X: max(0, min(c.X, w-1)),
		Y: max(0, min(c.Y, h-1)),
	}
}

// logObserver records structural changes to the debug log
func logObserver() cloth.Observer {
	return cloth.ObserverFuncs{
		OnSpringRemoved: func(s physics.Spring, reason cloth.RemoveReason) {
			log.Printf("spring %d (%d-%d) removed: %s", s.ID, s.A, s.B, reason)
		},
		OnSurfaceRemoved: func(s physics.Surface) {
			log.Printf("surface %d %v pruned", s.ID, s.P)
		},
	}
}
