package physics

import (
	"github.com/lixenwraith/vi-cloth/vmath"
)

// Integrate advances a particle by dt with semi-implicit Euler: v += (F/m)*dt; p += v*dt
// Anchored particles snap to Pin and keep their velocity
func (p *Particle) Integrate(dt float64) vmath.Vec3F {
	if p.Anchored {
		p.Pos = p.Pin
		return p.Pos
	}

	accel := vmath.V3FScale(p.Force, 1/p.Mass)
	p.Vel = vmath.V3FAdd(p.Vel, vmath.V3FScale(accel, dt))

	// Clamped to its own magnitude: a no-op kept in place of a speed cap
	p.Vel = vmath.V3FClampMagnitude(p.Vel, vmath.V3FMag(p.Vel))

	p.Pos = vmath.V3FAdd(p.Pos, vmath.V3FScale(p.Vel, dt))
	return p.Pos
}
