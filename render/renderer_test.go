package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
)

func newTestScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("screen init: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func newTestSim(t *testing.T, r *Renderer) *cloth.Simulation {
	t.Helper()
	m, err := cloth.BuildMesh(parameter.ClothParticleCount, cloth.DefaultLayout())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	return cloth.NewSimulation(m, cloth.StaticParams(cloth.DefaultParams()), cloth.DefaultConfig(), r)
}

func viewOf(sim *cloth.Simulation) View {
	ps := sim.Mesh().Particles()
	anchored := make([]bool, len(ps))
	for i := range ps {
		anchored[i] = ps[i].Anchored
	}
	return View{
		Positions:       sim.Positions(nil),
		Anchored:        anchored,
		Params:          cloth.DefaultParams(),
		Stats:           sim.Stats(),
		BreakMultiplier: sim.Config().BreakMultiplier,
		Bounds:          sim.Config().Bounds,
		Cursor:          Cell{-1, -1},
	}
}

// screenText returns the screen as rows of runes
func screenText(s tcell.SimulationScreen) []string {
	cells, w, h := s.GetContents()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		var sb strings.Builder
		for x := 0; x < w; x++ {
			c := cells[y*w+x]
			if len(c.Runes) > 0 {
				sb.WriteRune(c.Runes[0])
			} else {
				sb.WriteRune(' ')
			}
		}
		rows[y] = sb.String()
	}
	return rows
}

func TestRendererTracksSprings(t *testing.T) {
	screen := newTestScreen(t, 80, 24)
	r := NewRenderer(screen, nil)
	sim := newTestSim(t, r)

	if got := r.SpringCount(); got != sim.Mesh().SpringCount() {
		t.Fatalf("renderer tracks %d springs, mesh has %d", got, sim.Mesh().SpringCount())
	}

	sp, _ := sim.Mesh().Spring(0)
	r.SpringRemoved(sp, cloth.RemoveBroken)
	if got := r.SpringCount(); got != sim.Mesh().SpringCount()-1 {
		t.Fatalf("after removal renderer tracks %d springs", got)
	}
	if len(r.tears) != 1 {
		t.Fatalf("broken spring left %d tear marks, want 1", len(r.tears))
	}

	r.SpringRemoved(physics.Spring{ID: 1}, cloth.RemoveInvalid)
	if len(r.tears) != 1 {
		t.Fatal("invalid removal should not mark a tear")
	}

	r.Reset()
	if r.SpringCount() != 0 || len(r.tears) != 0 {
		t.Fatal("Reset kept state")
	}
}

func TestRendererDrawsAnchorsAndStatus(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	r := NewRenderer(screen, nil)
	sim := newTestSim(t, r)

	v := viewOf(sim)
	v.Paused = true
	r.Draw(v)

	rows := screenText(screen)
	anchors := 0
	for _, row := range rows[parameter.TopMargin : len(rows)-parameter.BottomMargin] {
		anchors += strings.Count(row, "@")
	}
	if anchors != 4 {
		t.Errorf("drew %d anchors, want 4", anchors)
	}

	status := rows[len(rows)-1]
	if !strings.Contains(status, strings.TrimSpace(parameter.StatusTextPaused)) {
		t.Errorf("status bar %q missing pause marker", status)
	}
	if !strings.Contains(status, "springs 110") {
		t.Errorf("status bar %q missing spring count", status)
	}
	if !strings.HasPrefix(rows[0], "space anchor") {
		t.Errorf("help line = %q", rows[0])
	}
}

func TestRendererTearMarkExpires(t *testing.T) {
	screen := newTestScreen(t, 80, 24)
	r := NewRenderer(screen, nil)
	sim := newTestSim(t, r)

	sp, _ := sim.Mesh().Spring(0)
	r.SpringRemoved(sp, cloth.RemoveBroken)

	v := viewOf(sim)
	for i := 0; i < parameter.TearFlashFrames; i++ {
		r.Draw(v)
	}
	if len(r.tears) != 0 {
		t.Fatalf("%d tear marks remain after %d frames", len(r.tears), parameter.TearFlashFrames)
	}
}

func TestRendererNearestAndDrag(t *testing.T) {
	screen := newTestScreen(t, 100, 30)
	r := NewRenderer(screen, nil)
	sim := newTestSim(t, r)
	r.Draw(viewOf(sim))

	for _, id := range sim.Mesh().Anchors() {
		cell := r.cells[id]
		got, ok := r.Nearest(cell, parameter.PickRadius)
		if !ok {
			t.Fatalf("no particle near anchor %d at %+v", id, cell)
		}
		if r.cells[got] != cell {
			t.Fatalf("picked %d at %+v for anchor %d at %+v", got, r.cells[got], id, cell)
		}
	}

	if _, ok := r.Nearest(Cell{-50, -50}, parameter.PickRadius); ok {
		t.Fatal("picked a particle far from every projection")
	}

	// Dragging onto the particle's own cell keeps it in place within a cell
	id := sim.Mesh().Anchors()[0]
	p, ok := r.ScreenToWorld(r.cells[id], id)
	if !ok {
		t.Fatal("ScreenToWorld failed for a visible particle")
	}
	cell, _, _ := r.camera.Project(p, 100, 30-parameter.TopMargin-parameter.BottomMargin)
	if cell != r.cells[id] {
		t.Fatalf("dragged position projects to %+v, want %+v", cell, r.cells[id])
	}
}

func TestRendererSmallScreen(t *testing.T) {
	screen := newTestScreen(t, 10, 2)
	r := NewRenderer(screen, nil)
	sim := newTestSim(t, r)

	defer func() {
		if rec := recover(); rec != nil {
			t.Fatalf("Draw panicked on a tiny screen: %v", rec)
		}
	}()
	r.Draw(viewOf(sim))
}
