package render

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// View is the per-frame state handed to Draw, captured under the simulation lock
type View struct {
	Positions []vmath.Vec3F
	Anchored  []bool
	Params    cloth.Params
	Stats     cloth.Stats
	// BreakMultiplier scales the strain gradient so red means about to tear
	BreakMultiplier float64
	Bounds          physics.Bounds
	Paused          bool
	Audio           bool
	Cursor          Cell
	Message         string
}

// tear marks a recently broken spring
type tear struct {
	a, b physics.ParticleID
	ttl  int
}

// Renderer draws the cloth to a tcell screen
// Spring topology arrives through observer callbacks on the stepping goroutine
type Renderer struct {
	mu      sync.Mutex
	screen  tcell.Screen
	camera  *Camera
	springs map[physics.SpringID][2]physics.ParticleID
	tears   []tear

	// Projected particles of the last Draw, used for picking
	cells   []Cell
	depths  []float64
	visible []bool

	selected physics.ParticleID
}

// NewRenderer creates a renderer over screen
func NewRenderer(screen tcell.Screen, camera *Camera) *Renderer {
	if camera == nil {
		camera = NewCamera()
	}
	return &Renderer{
		screen:   screen,
		camera:   camera,
		springs:  make(map[physics.SpringID][2]physics.ParticleID),
		selected: -1,
	}
}

// Camera returns the view camera
func (r *Renderer) Camera() *Camera {
	return r.camera
}

// Reset forgets all springs and tears, call before attaching to a new simulation
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.springs)
	r.tears = r.tears[:0]
	r.selected = -1
}

// SpringCount returns the number of tracked springs
func (r *Renderer) SpringCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.springs)
}

func (r *Renderer) SpringCreated(s physics.Spring) {
	r.mu.Lock()
	r.springs[s.ID] = [2]physics.ParticleID{s.A, s.B}
	r.mu.Unlock()
}

func (r *Renderer) SpringRemoved(s physics.Spring, reason cloth.RemoveReason) {
	r.mu.Lock()
	delete(r.springs, s.ID)
	if reason == cloth.RemoveBroken {
		r.tears = append(r.tears, tear{a: s.A, b: s.B, ttl: parameter.TearFlashFrames})
	}
	r.mu.Unlock()
}

func (r *Renderer) SurfaceRemoved(physics.Surface) {}

func (r *Renderer) FrameDone(cloth.Frame) {}

// Viewport returns the drawable cloth area, excluding help and status lines
func (r *Renderer) Viewport() (w, h int) {
	w, h = r.screen.Size()
	h -= parameter.TopMargin + parameter.BottomMargin
	return w, max(h, 0)
}

// Draw renders one frame and shows it
func (r *Renderer) Draw(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()

	defaultStyle := tcell.StyleDefault.Background(RgbBackground)
	r.screen.Fill(' ', defaultStyle)

	w, h := r.Viewport()
	r.project(v.Positions, w, h)

	r.drawBounds(v.Bounds, w, h, defaultStyle)
	r.drawSprings(v, w, h, defaultStyle)
	r.drawTears(w, h, defaultStyle)
	r.drawParticles(v, w, h, defaultStyle)
	r.drawCursor(v.Cursor, w, h, defaultStyle)
	r.drawHelp(defaultStyle)
	r.drawStatusBar(v, defaultStyle)

	r.screen.Show()
}

func (r *Renderer) project(positions []vmath.Vec3F, w, h int) {
	n := len(positions)
	if cap(r.cells) < n {
		r.cells = make([]Cell, n)
		r.depths = make([]float64, n)
		r.visible = make([]bool, n)
	}
	r.cells = r.cells[:n]
	r.depths = r.depths[:n]
	r.visible = r.visible[:n]
	for i, p := range positions {
		r.cells[i], r.depths[i], r.visible[i] = r.camera.Project(p, w, h)
	}
}

// put writes a rune into the cloth viewport, clipping outside cells
func (r *Renderer) put(x, y, w, h int, ch rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= w || y >= h {
		return
	}
	r.screen.SetContent(x, y+parameter.TopMargin, ch, nil, style)
}

func (r *Renderer) drawBounds(b physics.Bounds, w, h int, style tcell.Style) {
	if !b.Enabled() {
		return
	}
	corners := [4]vmath.Vec3F{
		{X: b.MinX, Y: b.MinY}, {X: b.MaxX, Y: b.MinY},
		{X: b.MaxX, Y: b.MaxY}, {X: b.MinX, Y: b.MaxY},
	}
	var cells [4]Cell
	for i, c := range corners {
		cell, _, ok := r.camera.Project(c, w, h)
		if !ok {
			return
		}
		cells[i] = cell
	}
	st := style.Foreground(RgbBounds)
	for i := range cells {
		a, bb := cells[i], cells[(i+1)%4]
		ch := LineRune(a, bb)
		DrawLine(a, bb, func(x, y int) { r.put(x, y, w, h, ch, st) })
	}
}

func (r *Renderer) drawSprings(v View, w, h int, style tcell.Style) {
	tearLen := v.Params.RestLength * v.BreakMultiplier
	for _, ends := range r.springs {
		a, b := int(ends[0]), int(ends[1])
		if a >= len(r.cells) || b >= len(r.cells) || !r.visible[a] || !r.visible[b] {
			continue
		}
		strain := 0.0
		if tearLen > 0 {
			strain = vmath.V3FDist(v.Positions[a], v.Positions[b]) / tearLen
		}
		st := style.Foreground(StrainColor(strain))
		ca, cb := r.cells[a], r.cells[b]
		ch := LineRune(ca, cb)
		DrawLine(ca, cb, func(x, y int) { r.put(x, y, w, h, ch, st) })
	}
}

func (r *Renderer) drawTears(w, h int, style tcell.Style) {
	st := style.Foreground(RgbTear).Bold(true)
	live := r.tears[:0]
	for _, t := range r.tears {
		a, b := int(t.a), int(t.b)
		if a < len(r.cells) && b < len(r.cells) && r.visible[a] && r.visible[b] {
			mid := Cell{(r.cells[a].X + r.cells[b].X) / 2, (r.cells[a].Y + r.cells[b].Y) / 2}
			r.put(mid.X, mid.Y, w, h, '×', st)
		}
		t.ttl--
		if t.ttl > 0 {
			live = append(live, t)
		}
	}
	r.tears = live
}

func (r *Renderer) drawParticles(v View, w, h int, style tcell.Style) {
	r.selected = r.nearestLocked(v.Cursor, parameter.PickRadius)
	for i := range r.cells {
		if !r.visible[i] {
			continue
		}
		ch, color := 'o', RgbParticle
		if i < len(v.Anchored) && v.Anchored[i] {
			ch, color = '@', RgbAnchor
		}
		st := style.Foreground(color)
		if physics.ParticleID(i) == r.selected {
			st = st.Background(RgbSelected).Foreground(RgbStatusText)
		}
		r.put(r.cells[i].X, r.cells[i].Y, w, h, ch, st)
	}
}

func (r *Renderer) drawCursor(c Cell, w, h int, style tcell.Style) {
	if c.X < 0 || c.Y < 0 || c.X >= w || c.Y >= h {
		return
	}
	mainc, _, _, _ := r.screen.GetContent(c.X, c.Y+parameter.TopMargin)
	if mainc == ' ' {
		mainc = '+'
	}
	r.put(c.X, c.Y, w, h, mainc, style.Reverse(true).Foreground(RgbCursor))
}

func (r *Renderer) drawHelp(style tcell.Style) {
	drawText(r.screen, 0, 0, parameter.HelpText, style.Foreground(RgbHelpText))
}

func (r *Renderer) drawStatusBar(v View, style tcell.Style) {
	sw, sh := r.screen.Size()
	y := sh - 1
	if y < parameter.TopMargin {
		return
	}

	x := 0
	mode, modeBg := parameter.StatusTextRun, RgbModeRunBg
	if v.Paused {
		mode, modeBg = parameter.StatusTextPaused, RgbModePausedBg
	}
	x = drawText(r.screen, x, y, mode, style.Background(modeBg).Foreground(RgbStatusText))

	wind := parameter.StatusTextCalm
	if v.Params.Wind {
		wind = fmt.Sprintf("%s %.0f", parameter.StatusTextWindOn, v.Params.EffectiveWindResistance())
	}
	x = drawText(r.screen, x, y, " "+wind+" ", style.Background(RgbWindBg).Foreground(RgbStatusText))

	text := fmt.Sprintf(" ks %.1f  kd %.1f  g %.1f  rest %.1f  springs %d  surfaces %d  torn %d  tick %d ",
		v.Params.SpringConstant, v.Params.Damping, v.Params.Gravity, v.Params.RestLength,
		v.Stats.Springs, v.Stats.Surfaces, v.Stats.SpringsBroken, v.Stats.Tick)
	if v.Audio {
		text = " " + parameter.AudioStr + text
	}
	x = drawText(r.screen, x, y, text, style.Foreground(RgbStatusBar))

	if v.Message != "" && x < sw {
		drawText(r.screen, x, y, " "+v.Message, style.Foreground(RgbTear))
	}
}

// drawText writes s at (x,y) and returns the column after it
func drawText(screen tcell.Screen, x, y int, s string, style tcell.Style) int {
	w, _ := screen.Size()
	for _, ch := range s {
		if x >= w {
			break
		}
		screen.SetContent(x, y, ch, nil, style)
		x++
	}
	return x
}

// Nearest returns the particle projected closest to cursor within radius cell widths, from the last Draw
func (r *Renderer) Nearest(cursor Cell, radius float64) (physics.ParticleID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nearestLocked(cursor, radius)
	return id, id >= 0
}

func (r *Renderer) nearestLocked(cursor Cell, radius float64) physics.ParticleID {
	best := physics.ParticleID(-1)
	bestDist := radius * radius
	for i, c := range r.cells {
		if !r.visible[i] {
			continue
		}
		dx := float64(c.X - cursor.X)
		dy := float64(c.Y-cursor.Y) * parameter.CellAspect
		d := dx*dx + dy*dy
		// Nearer to the eye wins ties
		if d < bestDist || (d == bestDist && best >= 0 && r.depths[i] < r.depths[best]) {
			best = physics.ParticleID(i)
			bestDist = d
		}
	}
	return best
}

// ScreenToWorld maps a viewport cell onto the plane through id parallel to the screen
// Used to drag an anchor under the mouse
func (r *Renderer) ScreenToWorld(cell Cell, id physics.ParticleID) (vmath.Vec3F, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := int(id)
	if i < 0 || i >= len(r.cells) || !r.visible[i] {
		return vmath.Vec3F{}, false
	}
	w, h := r.Viewport()
	p, err := r.camera.Unproject(cell, r.depths[i], w, h)
	if err != nil || !vmath.V3FIsFinite(p) {
		return vmath.Vec3F{}, false
	}
	return p, true
}

// ScreenCell converts an absolute screen coordinate to a viewport cell
func ScreenCell(x, y int) Cell {
	return Cell{X: x, Y: y - parameter.TopMargin}
}

