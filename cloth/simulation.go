package cloth

import (
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// Config holds the fixed settings of a simulation
type Config struct {
	// Dt is the fixed timestep in seconds
	Dt float64
	// BreakMultiplier is the tear threshold as a multiple of rest length
	BreakMultiplier float64
	// Bounds is the world-space box, zero value disables boundary response
	Bounds physics.Bounds
}

// DefaultConfig returns the reference timestep, tear threshold and bounds
func DefaultConfig() Config {
	return Config{
		Dt:              parameter.ClothTickSeconds,
		BreakMultiplier: parameter.BreakMultiplier,
		Bounds:          physics.DefaultBounds(),
	}
}

// Stats are cumulative counters of a simulation
type Stats struct {
	Tick            uint64
	Springs         int
	Surfaces        int
	SpringsBroken   int
	SpringsInvalid  int
	SurfacesPruned  int
	BoundaryContact int // Particles touching a bound during the last tick
}

// Simulation advances one cloth mesh by fixed ticks
// Not safe for concurrent use: Step and the input bindings must be serialized by the caller
type Simulation struct {
	mesh      *Mesh
	params    ParamSource
	cfg       Config
	observers []Observer

	tick  uint64
	stats Stats

	// Reused snapshot buffers
	springSnap  []physics.SpringID
	surfaceSnap []physics.SurfaceID
	positions   []vmath.Vec3F
}

// NewSimulation wires a mesh to its parameter source
// Each observer receives SpringCreated for every active spring before this returns
func NewSimulation(mesh *Mesh, params ParamSource, cfg Config, observers ...Observer) *Simulation {
	s := &Simulation{
		mesh:      mesh,
		params:    params,
		cfg:       cfg,
		positions: make([]vmath.Vec3F, len(mesh.particles)),
	}
	for i := range mesh.particles {
		s.positions[i] = mesh.particles[i].Pos
	}
	for _, o := range observers {
		s.Attach(o)
	}
	return s
}

// Attach registers an observer and replays SpringCreated for the current active set
func (s *Simulation) Attach(o Observer) {
	if o == nil {
		return
	}
	s.observers = append(s.observers, o)
	for id := range s.mesh.springs {
		if s.mesh.activeSprings.has(physics.SpringID(id)) {
			o.SpringCreated(s.mesh.springs[id])
		}
	}
}

// Mesh returns the simulated mesh
func (s *Simulation) Mesh() *Mesh {
	return s.mesh
}

// Config returns the fixed settings
func (s *Simulation) Config() Config {
	return s.cfg
}

// Tick returns the number of completed steps
func (s *Simulation) Tick() uint64 {
	return s.tick
}

// Stats returns the cumulative counters
func (s *Simulation) Stats() Stats {
	st := s.stats
	st.Tick = s.tick
	st.Springs = s.mesh.SpringCount()
	st.Surfaces = s.mesh.SurfaceCount()
	return st
}

// Step runs one fixed tick: forces, springs, aerodynamics, bounds, integration
// Every phase completes, prunes included, before the next begins
func (s *Simulation) Step() Frame {
	s.phaseForces()
	s.phaseSprings()
	s.phaseAero()
	s.phaseBounds()
	s.phaseIntegrate()

	s.tick++
	frame := Frame{
		Tick:      s.tick,
		Positions: s.positions,
		Springs:   s.mesh.SpringCount(),
		Surfaces:  s.mesh.SurfaceCount(),
	}
	for _, o := range s.observers {
		o.FrameDone(frame)
	}
	return frame
}

// Positions copies current particle positions into dst, reallocating if too small
func (s *Simulation) Positions(dst []vmath.Vec3F) []vmath.Vec3F {
	if cap(dst) < len(s.positions) {
		dst = make([]vmath.Vec3F, len(s.positions))
	}
	dst = dst[:len(s.positions)]
	copy(dst, s.positions)
	return dst
}

// KineticEnergy returns the sum of 0.5*m*|v|² over free particles
func (s *Simulation) KineticEnergy() float64 {
	e := 0.0
	for i := range s.mesh.particles {
		p := &s.mesh.particles[i]
		if p.Anchored {
			continue
		}
		e += 0.5 * p.Mass * vmath.V3FMagSq(p.Vel)
	}
	return e
}

// ToggleAnchor flips the anchored flag of id, returns the new state
// A newly anchored particle is pinned where it currently is
func (s *Simulation) ToggleAnchor(id physics.ParticleID) (bool, error) {
	p := s.mesh.Particle(id)
	if p == nil {
		return false, errors.Wrapf(ErrUnknownParticle, "particle %d", id)
	}
	p.Anchored = !p.Anchored
	if p.Anchored {
		p.Pin = p.Pos
	}
	return p.Anchored, nil
}

// SetAnchorPosition moves the pin of an anchored particle, applied at the next integration
func (s *Simulation) SetAnchorPosition(id physics.ParticleID, pos vmath.Vec3F) error {
	p := s.mesh.Particle(id)
	if p == nil {
		return errors.Wrapf(ErrUnknownParticle, "particle %d", id)
	}
	if !p.Anchored {
		return errors.Wrapf(ErrNotAnchored, "particle %d", id)
	}
	p.Pin = pos
	return nil
}

// AnchorPosition returns the pin of id
func (s *Simulation) AnchorPosition(id physics.ParticleID) (vmath.Vec3F, error) {
	p := s.mesh.Particle(id)
	if p == nil {
		return vmath.Vec3F{}, errors.Wrapf(ErrUnknownParticle, "particle %d", id)
	}
	return p.Pin, nil
}
