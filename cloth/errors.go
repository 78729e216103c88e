package cloth

import (
	"github.com/pkg/errors"
)

var (
	// ErrInvalidCount is returned for a non-positive particle count
	ErrInvalidCount = errors.New("particle count must be positive")
	// ErrNonSquareCount is returned when the particle count has no integer grid width
	ErrNonSquareCount = errors.New("particle count is not a perfect square")
	// ErrInvalidLayout is returned for non-positive spacing, mass or rest length
	ErrInvalidLayout = errors.New("invalid grid layout")
	// ErrUnknownParticle is returned by input bindings for an out-of-range particle
	ErrUnknownParticle = errors.New("unknown particle")
	// ErrNotAnchored is returned when repositioning a free particle
	ErrNotAnchored = errors.New("particle is not anchored")
)
