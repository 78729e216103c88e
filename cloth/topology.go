package cloth

import (
	"math"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// Layout controls particle placement and initial spring coefficients
type Layout struct {
	Origin     vmath.Vec3F
	Spacing    float64
	Mass       float64
	Ks         float64
	Kd         float64
	RestLength float64
}

// DefaultLayout returns the reference layout: 2-unit spacing, unit mass
func DefaultLayout() Layout {
	return Layout{
		Spacing:    parameter.ClothGridSpacing,
		Mass:       parameter.ClothParticleMass,
		Ks:         parameter.ClothSpringConstantDefault,
		Kd:         parameter.ClothDampingDefault,
		RestLength: parameter.ClothRestLengthDefault,
	}
}

// edgeKey is an unordered particle pair
type edgeKey struct {
	lo, hi physics.ParticleID
}

func makeEdgeKey(a, b physics.ParticleID) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Mesh owns the particles, springs and surfaces of one cloth
type Mesh struct {
	width     int
	particles []physics.Particle

	springs       []physics.Spring
	activeSprings liveSet[physics.SpringID]
	edges         map[edgeKey]physics.SpringID

	surfaces       []physics.Surface
	activeSurfaces liveSet[physics.SurfaceID]
}

// GridWidth returns the integer square root of count
func GridWidth(count int) (int, error) {
	if count <= 0 {
		return 0, errors.Wrapf(ErrInvalidCount, "count %d", count)
	}
	w := int(math.Sqrt(float64(count)))
	// Float rounding guard for large counts
	for w*w > count {
		w--
	}
	for (w+1)*(w+1) <= count {
		w++
	}
	if w*w != count {
		return 0, errors.Wrapf(ErrNonSquareCount, "count %d", count)
	}
	return w, nil
}

// BuildMesh generates the particle grid, structural and shear springs, and the triangle mesh
func BuildMesh(count int, layout Layout) (*Mesh, error) {
	w, err := GridWidth(count)
	if err != nil {
		return nil, err
	}
	if layout.Spacing <= 0 || layout.Mass <= 0 || layout.RestLength <= 0 {
		return nil, errors.Wrapf(ErrInvalidLayout, "spacing=%g mass=%g rest=%g",
			layout.Spacing, layout.Mass, layout.RestLength)
	}

	m := &Mesh{
		width:     w,
		particles: make([]physics.Particle, 0, count),
		springs:   make([]physics.Spring, 0, 4*count),
		edges:     make(map[edgeKey]physics.SpringID, 4*count),
		surfaces:  make([]physics.Surface, 0, 2*count),
	}

	m.generateParticles(count, layout)
	m.generateSprings(layout)
	m.generateSurfaces()
	return m, nil
}

func (m *Mesh) generateParticles(count int, layout Layout) {
	w := m.width
	for i := 0; i < count; i++ {
		col, row := i%w, i/w
		pos := vmath.Vec3F{
			X: layout.Origin.X + layout.Spacing*float64(col+1),
			Y: layout.Origin.Y + layout.Spacing*float64(row),
			Z: layout.Origin.Z,
		}
		m.particles = append(m.particles, physics.NewParticle(physics.ParticleID(i), pos, layout.Mass))
	}

	// Four corners, duplicates collapse for narrow grids
	for _, id := range []int{0, w - 1, count - 1, count - w} {
		m.particles[id].Anchored = true
	}
}

func (m *Mesh) generateSprings(layout Layout) {
	w, n := m.width, len(m.particles)
	for i := 0; i < n; i++ {
		sameRowRight := (i+1)%w > i%w

		// Right
		if sameRowRight {
			m.addSpring(i, i+1, layout)
		}
		// Up
		if i+w < n {
			m.addSpring(i, i+w, layout)
		}
		// Up-left
		if i+w-1 < n && i-1 >= 0 && (i-1)%w < i%w {
			m.addSpring(i, i+w-1, layout)
		}
		// Up-right
		if i+w+1 < n && sameRowRight {
			m.addSpring(i, i+w+1, layout)
		}
	}
}

// addSpring creates the edge a-b once and links both endpoints
func (m *Mesh) addSpring(a, b int, layout Layout) {
	pa, pb := physics.ParticleID(a), physics.ParticleID(b)
	key := makeEdgeKey(pa, pb)
	if _, ok := m.edges[key]; ok {
		return
	}

	id := m.activeSprings.add()
	m.springs = append(m.springs, physics.Spring{
		ID:         id,
		A:          pa,
		B:          pb,
		Ks:         layout.Ks,
		Kd:         layout.Kd,
		RestLength: layout.RestLength,
	})
	m.edges[key] = id
	physics.Link(m.particles, pa, pb)
}

func (m *Mesh) generateSurfaces() {
	w, n := m.width, len(m.particles)

	// Lower-right triangle of each cell
	for i := 0; i < n; i++ {
		if i%w != w-1 && i+w < n {
			m.addSurface(i, i+1, i+w)
		}
	}

	// Upper-left triangle of each cell, hanging from the row below
	for i := 0; i < n; i++ {
		if i >= w && i+1 < n && i%w != w-1 {
			m.addSurface(i, i+1, i-w+1)
		}
	}
}

func (m *Mesh) addSurface(a, b, c int) {
	id := m.activeSurfaces.add()
	s := physics.NewSurface(id, physics.ParticleID(a), physics.ParticleID(b), physics.ParticleID(c))
	for k := 0; k < 3; k++ {
		if sid, ok := m.SpringBetween(s.P[k], s.P[(k+1)%3]); ok {
			s.Edges[k] = sid
		}
	}
	m.surfaces = append(m.surfaces, s)
}

// Width returns the grid width
func (m *Mesh) Width() int {
	return m.width
}

// Particles returns the particle arena; the slice is shared with the simulation
func (m *Mesh) Particles() []physics.Particle {
	return m.particles
}

// Particle returns a pointer into the arena, nil if id is out of range
func (m *Mesh) Particle(id physics.ParticleID) *physics.Particle {
	if !physics.ValidID(m.particles, id) {
		return nil
	}
	return &m.particles[id]
}

// Spring returns the spring with id, active or not
func (m *Mesh) Spring(id physics.SpringID) (physics.Spring, bool) {
	if id < 0 || int(id) >= len(m.springs) {
		return physics.Spring{}, false
	}
	return m.springs[id], true
}

// SpringBetween looks up the spring created for the pair a-b in either direction
func (m *Mesh) SpringBetween(a, b physics.ParticleID) (physics.SpringID, bool) {
	id, ok := m.edges[makeEdgeKey(a, b)]
	return id, ok
}

// HasSpring reports whether id is in the active set
func (m *Mesh) HasSpring(id physics.SpringID) bool {
	return m.activeSprings.has(id)
}

// HasSurface reports whether id is in the active set
func (m *Mesh) HasSurface(id physics.SurfaceID) bool {
	return m.activeSurfaces.has(id)
}

// Surface returns the surface with id, active or not
func (m *Mesh) Surface(id physics.SurfaceID) (physics.Surface, bool) {
	if id < 0 || int(id) >= len(m.surfaces) {
		return physics.Surface{}, false
	}
	return m.surfaces[id], true
}

// SpringCount returns the number of active springs
func (m *Mesh) SpringCount() int {
	return m.activeSprings.len()
}

// SurfaceCount returns the number of active surfaces
func (m *Mesh) SurfaceCount() int {
	return m.activeSurfaces.len()
}

// ActiveSprings appends active springs in creation order to dst[:0]
func (m *Mesh) ActiveSprings(dst []physics.Spring) []physics.Spring {
	dst = dst[:0]
	for id := range m.springs {
		if m.activeSprings.has(physics.SpringID(id)) {
			dst = append(dst, m.springs[id])
		}
	}
	return dst
}

// ActiveSurfaces appends active surfaces in creation order to dst[:0]
func (m *Mesh) ActiveSurfaces(dst []physics.Surface) []physics.Surface {
	dst = dst[:0]
	for id := range m.surfaces {
		if m.activeSurfaces.has(physics.SurfaceID(id)) {
			dst = append(dst, m.surfaces[id])
		}
	}
	return dst
}

// Anchors returns the IDs of anchored particles
func (m *Mesh) Anchors() []physics.ParticleID {
	var ids []physics.ParticleID
	for i := range m.particles {
		if m.particles[i].Anchored {
			ids = append(ids, physics.ParticleID(i))
		}
	}
	return ids
}

// removeSpring drops id from the active set and unlinks its endpoints when they resolve
func (m *Mesh) removeSpring(id physics.SpringID) bool {
	if !m.activeSprings.remove(id) {
		return false
	}
	s := m.springs[id]
	if s.Valid(m.particles) {
		physics.Unlink(m.particles, s.A, s.B)
	}
	return true
}

func (m *Mesh) removeSurface(id physics.SurfaceID) bool {
	return m.activeSurfaces.remove(id)
}
