package physics

import (
	"github.com/lixenwraith/vi-cloth/parameter"
)

// Bounds is a world-space axis-aligned box on the X/Y plane
// The zero value disables boundary response
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// DefaultBounds returns the box around the reference grid
func DefaultBounds() Bounds {
	return Bounds{
		MinX: parameter.BoundsMinX,
		MinY: parameter.BoundsMinY,
		MaxX: parameter.BoundsMaxX,
		MaxY: parameter.BoundsMaxY,
	}
}

// Enabled reports whether the box has positive extent on both axes
func (b Bounds) Enabled() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Apply cancels outward force and reflects velocity for each crossed side
// Returns true if any side was crossed
// Runs before integration so the reflection feeds the same tick's velocity update
func (b Bounds) Apply(p *Particle) bool {
	if !b.Enabled() {
		return false
	}
	hit := false

	// Floor
	if p.Pos.Y <= b.MinY {
		if p.Force.Y < 0 {
			p.Force.Y = 0
		}
		p.Vel.Y = -p.Vel.Y * parameter.BoundaryWallRestitution
		hit = true
	}

	// Ceiling
	if p.Pos.Y > b.MaxY {
		if p.Force.Y > 0 {
			p.Force.Y = 0
		}
		p.Vel.Y = -p.Vel.Y * parameter.BoundaryCeilingRestitution
		hit = true
	}

	// Left wall
	if p.Pos.X < b.MinX {
		if p.Force.X < 0 {
			p.Force.X = 0
		}
		p.Vel.X = -p.Vel.X * parameter.BoundaryWallRestitution
		hit = true
	}

	// Right wall
	if p.Pos.X > b.MaxX {
		if p.Force.X > 0 {
			p.Force.X = 0
		}
		p.Vel.X = -p.Vel.X * parameter.BoundaryWallRestitution
		hit = true
	}

	return hit
}
