package parameter

import (
	"time"
)

// Grid topology
const (
	// ClothParticleCount is the reference particle count (6x6 grid)
	ClothParticleCount = 36
	// ClothGridSpacing is the world distance between neighboring grid particles
	ClothGridSpacing = 2.0
	// ClothParticleMass is the mass of every generated particle
	ClothParticleMass = 1.0
)

// Simulation parameter defaults, adjustable at runtime
const (
	ClothGravityDefault        = 1.0
	ClothSpringConstantDefault = 10.0
	ClothDampingDefault        = 1.0
	ClothRestLengthDefault     = 1.0
	ClothWindResistanceDefault = 1.0

	// Runtime adjustment ranges (slider bounds)
	ClothGravityMax        = 20.0
	ClothSpringConstantMax = 100.0
	ClothDampingMax        = 10.0
	ClothRestLengthMin     = 0.1
	ClothRestLengthMax     = 4.0
	ClothWindResistanceMax = 50.0

	// Runtime adjustment steps per key press
	ClothGravityStep        = 0.5
	ClothSpringConstantStep = 1.0
	ClothDampingStep        = 0.1
	ClothRestLengthStep     = 0.1
	ClothWindResistanceStep = 1.0
)

// Tearing and boundaries
const (
	// BreakMultiplier is the stretch factor over rest length at which a spring tears
	BreakMultiplier = 15.0

	// BoundaryWallRestitution scales reflected velocity on floor and side walls
	BoundaryWallRestitution = 0.65
	// BoundaryCeilingRestitution scales reflected velocity on the ceiling (undamped)
	BoundaryCeilingRestitution = 1.0

	// Default world-space bounds around the reference grid
	BoundsMinX = -20.0
	BoundsMinY = -30.0
	BoundsMaxX = 34.0
	BoundsMaxY = 30.0
)

// Timing
const (
	// ClothTickInterval is the fixed physics timestep
	ClothTickInterval = 20 * time.Millisecond
	// ClothFrameInterval is the render cadence of the sandbox
	ClothFrameInterval = 16 * time.Millisecond
)

// ClothTickSeconds is ClothTickInterval in seconds for the integrator
var ClothTickSeconds = ClothTickInterval.Seconds()
