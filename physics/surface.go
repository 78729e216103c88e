package physics

import (
	"github.com/lixenwraith/vi-cloth/vmath"
)

// SurfaceID is the stable index of a surface within its mesh
type SurfaceID int32

// Unit air density and drag coefficient
const (
	airDensity      = 1.0
	dragCoefficient = 1.0
)

// Surface is a mesh triangle used for wind drag
// Edges[0] joins P[0]-P[1], Edges[1] joins P[1]-P[2], Edges[2] joins P[2]-P[0]
type Surface struct {
	ID    SurfaceID
	P     [3]ParticleID
	Edges [3]SpringID
}

// NewSurface creates a surface with all edge slots unbound
func NewSurface(id SurfaceID, a, b, c ParticleID) Surface {
	return Surface{
		ID:    id,
		P:     [3]ParticleID{a, b, c},
		Edges: [3]SpringID{NoSpring, NoSpring, NoSpring},
	}
}

// Bound reports whether every edge slot references a spring
func (s *Surface) Bound() bool {
	return s.Edges[0] != NoSpring && s.Edges[1] != NoSpring && s.Edges[2] != NoSpring
}

// Normal returns the unnormalized face normal (p2-p1) × (p3-p1)
func (s *Surface) Normal(ps []Particle) vmath.Vec3F {
	p1 := ps[s.P[0]].Pos
	return vmath.V3FCross(vmath.V3FSub(ps[s.P[1]].Pos, p1), vmath.V3FSub(ps[s.P[2]].Pos, p1))
}

// CalcAeroForce applies drag from the relative air flow, split evenly over the three vertices
// Returns the total force; a collapsed triangle or still air relative to the surface yields zero
func (s *Surface) CalcAeroForce(ps []Particle, wind vmath.Vec3F) vmath.Vec3F {
	p1, p2, p3 := &ps[s.P[0]], &ps[s.P[1]], &ps[s.P[2]]

	surfaceVel := vmath.V3FScale(vmath.V3FAdd(vmath.V3FAdd(p1.Vel, p2.Vel), p3.Vel), 1.0/3.0)
	vrel := vmath.V3FSub(surfaceVel, wind)
	speed := vmath.V3FMag(vrel)

	crossed := s.Normal(ps)
	crossMag := vmath.V3FMag(crossed)
	if speed == 0 || crossMag == 0 {
		return vmath.Vec3F{}
	}
	normal := vmath.V3FScale(crossed, 1/crossMag)

	// Area exposed to the flow
	area := 0.5 * crossMag * (vmath.V3FDot(vrel, normal) / speed)

	force := vmath.V3FScale(normal, -0.5*airDensity*speed*speed*dragCoefficient*area)

	share := vmath.V3FScale(force, 1.0/3.0)
	p1.AddForce(share)
	p2.AddForce(share)
	p3.AddForce(share)
	return force
}
