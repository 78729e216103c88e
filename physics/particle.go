package physics

import (
	"github.com/lixenwraith/vi-cloth/vmath"
)

// ParticleID is the stable arena index of a particle within its mesh
type ParticleID int32

// Particle is a point mass of the cloth
type Particle struct {
	ID    ParticleID
	Pos   vmath.Vec3F
	Vel   vmath.Vec3F
	Force vmath.Vec3F // Accumulator, reset every tick
	Mass  float64

	// Anchored particles ignore integration, Pos is copied from Pin instead
	Anchored bool
	Pin      vmath.Vec3F

	Neighbors map[ParticleID]struct{}
}

// NewParticle creates a free particle at rest
func NewParticle(id ParticleID, pos vmath.Vec3F, mass float64) Particle {
	return Particle{
		ID:        id,
		Pos:       pos,
		Pin:       pos,
		Mass:      mass,
		Neighbors: make(map[ParticleID]struct{}, 8),
	}
}

// AddForce accumulates f into the force accumulator
func (p *Particle) AddForce(f vmath.Vec3F) {
	p.Force = vmath.V3FAdd(p.Force, f)
}

// ResetForce replaces the accumulator with gravity: m * g * down
func (p *Particle) ResetForce(gravity float64) {
	p.Force = vmath.V3FScale(vmath.Down, gravity*p.Mass)
}

// Link records a mutual neighbor relation
func Link(ps []Particle, a, b ParticleID) {
	ps[a].Neighbors[b] = struct{}{}
	ps[b].Neighbors[a] = struct{}{}
}

// Unlink removes a mutual neighbor relation, missing entries are ignored
func Unlink(ps []Particle, a, b ParticleID) {
	delete(ps[a].Neighbors, b)
	delete(ps[b].Neighbors, a)
}

// IsNeighbor reports whether a lists b as neighbor
func IsNeighbor(ps []Particle, a, b ParticleID) bool {
	_, ok := ps[a].Neighbors[b]
	return ok
}

// ValidID reports whether id addresses a particle in ps
func ValidID(ps []Particle, id ParticleID) bool {
	return id >= 0 && int(id) < len(ps)
}
