package cloth

import (
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// phaseForces resets every accumulator to gravity
func (s *Simulation) phaseForces() {
	g := s.params.Params().Gravity
	ps := s.mesh.particles
	for i := range ps {
		ps[i].ResetForce(g)
	}
}

// phaseSprings applies spring forces over a snapshot of the active set and prunes breaks
func (s *Simulation) phaseSprings() {
	p := s.params.Params()
	m := s.mesh
	ps := m.particles

	s.springSnap = m.activeSprings.snapshot(s.springSnap)
	for _, id := range s.springSnap {
		sp := &m.springs[id]

		if !sp.Valid(ps) {
			s.dropSpring(id, RemoveInvalid)
			continue
		}

		sp.RestLength = p.RestLength
		sp.Ks = p.SpringConstant
		sp.Kd = p.Damping
		sp.ComputeForces(ps)

		if sp.BreakHappens(ps, s.cfg.BreakMultiplier) {
			s.dropSpring(id, RemoveBroken)
		}
	}
}

func (s *Simulation) dropSpring(id physics.SpringID, reason RemoveReason) {
	if !s.mesh.removeSpring(id) {
		return
	}
	switch reason {
	case RemoveBroken:
		s.stats.SpringsBroken++
	case RemoveInvalid:
		s.stats.SpringsInvalid++
	}
	sp := s.mesh.springs[id]
	for _, o := range s.observers {
		o.SpringRemoved(sp, reason)
	}
}

// phaseAero applies wind drag over a snapshot of active surfaces, pruning torn ones
// Does nothing, pruning included, while wind is off
func (s *Simulation) phaseAero() {
	p := s.params.Params()
	if !p.Wind {
		return
	}
	m := s.mesh
	wind := vmath.V3FScale(vmath.Forward, p.EffectiveWindResistance())

	s.surfaceSnap = m.activeSurfaces.snapshot(s.surfaceSnap)
	for _, id := range s.surfaceSnap {
		sf := &m.surfaces[id]
		if !s.surfaceIntact(sf) {
			if m.removeSurface(id) {
				s.stats.SurfacesPruned++
				for _, o := range s.observers {
					o.SurfaceRemoved(*sf)
				}
			}
			continue
		}
		sf.CalcAeroForce(m.particles, wind)
	}
}

// surfaceIntact reports whether all three edge springs are still active
func (s *Simulation) surfaceIntact(sf *physics.Surface) bool {
	for _, e := range sf.Edges {
		if !s.mesh.activeSprings.has(e) {
			return false
		}
	}
	return true
}

// phaseBounds reflects particles that crossed the world box
func (s *Simulation) phaseBounds() {
	s.stats.BoundaryContact = 0
	if !s.cfg.Bounds.Enabled() {
		return
	}
	ps := s.mesh.particles
	for i := range ps {
		if s.cfg.Bounds.Apply(&ps[i]) {
			s.stats.BoundaryContact++
		}
	}
}

// phaseIntegrate moves free particles and snaps anchors to their pins
func (s *Simulation) phaseIntegrate() {
	ps := s.mesh.particles
	for i := range ps {
		s.positions[i] = ps[i].Integrate(s.cfg.Dt)
	}
}
