package physics

import (
	"github.com/lixenwraith/vi-cloth/vmath"
)

// SpringID is the stable index of a spring within its mesh
type SpringID int32

// NoSpring marks an unbound surface edge slot
const NoSpring SpringID = -1

// Spring is a damped spring between two particles
// Endpoints are referenced by ID, the spring does not own them
type Spring struct {
	ID         SpringID
	A, B       ParticleID
	Ks         float64
	Kd         float64
	RestLength float64
}

// Valid reports whether both endpoints address distinct particles in ps
func (s *Spring) Valid(ps []Particle) bool {
	return s.A != s.B && ValidID(ps, s.A) && ValidID(ps, s.B)
}

// Length returns the current endpoint separation
func (s *Spring) Length(ps []Particle) float64 {
	return vmath.V3FDist(ps[s.A].Pos, ps[s.B].Pos)
}

// ComputeForces applies the spring-damper force pair to both endpoints
// Returns the force added to A, B receives the negation
// Coincident endpoints have no direction and contribute no force
func (s *Spring) ComputeForces(ps []Particle) vmath.Vec3F {
	pa, pb := &ps[s.A], &ps[s.B]

	d := vmath.V3FSub(pb.Pos, pa.Pos)
	length := vmath.V3FMag(d)
	if length == 0 {
		return vmath.Vec3F{}
	}
	dir := vmath.V3FScale(d, 1/length)

	// 1D velocities along the spring axis
	v1 := vmath.V3FDot(dir, pa.Vel)
	v2 := vmath.V3FDot(dir, pb.Vel)

	spring := -s.Ks * (s.RestLength - length)
	damping := -s.Kd * (v1 - v2)

	f := vmath.V3FScale(dir, spring+damping)
	pa.AddForce(f)
	pb.AddForce(vmath.V3FNeg(f))
	return f
}

// BreakHappens reports whether separation exceeds RestLength*multiplier
// On a break the mutual neighbor relation is removed, removing the spring itself is the caller's job
func (s *Spring) BreakHappens(ps []Particle, multiplier float64) bool {
	if s.Length(ps) > s.RestLength*multiplier {
		Unlink(ps, s.A, s.B)
		return true
	}
	return false
}
