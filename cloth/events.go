package cloth

import (
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// RemoveReason tells observers why a spring left the active set
type RemoveReason uint8

const (
	// RemoveBroken marks a spring stretched past its break threshold
	RemoveBroken RemoveReason = iota
	// RemoveInvalid marks a spring whose endpoint reference no longer resolves
	RemoveInvalid
)

func (r RemoveReason) String() string {
	switch r {
	case RemoveBroken:
		return "broken"
	case RemoveInvalid:
		return "invalid"
	}
	return "unknown"
}

// Frame is the per-tick output published after integration
// Positions is owned by the simulation and only valid until the next Step
type Frame struct {
	Tick      uint64
	Positions []vmath.Vec3F
	Springs   int
	Surfaces  int
}

// Observer receives structural lifecycle events and frames
// Calls happen on the stepping goroutine; implementations must not call back into Step
type Observer interface {
	SpringCreated(s physics.Spring)
	SpringRemoved(s physics.Spring, reason RemoveReason)
	SurfaceRemoved(s physics.Surface)
	FrameDone(f Frame)
}

// ObserverFuncs adapts optional callbacks to Observer
type ObserverFuncs struct {
	OnSpringCreated  func(physics.Spring)
	OnSpringRemoved  func(physics.Spring, RemoveReason)
	OnSurfaceRemoved func(physics.Surface)
	OnFrameDone      func(Frame)
}

func (o ObserverFuncs) SpringCreated(s physics.Spring) {
	if o.OnSpringCreated != nil {
		o.OnSpringCreated(s)
	}
}

func (o ObserverFuncs) SpringRemoved(s physics.Spring, reason RemoveReason) {
	if o.OnSpringRemoved != nil {
		o.OnSpringRemoved(s, reason)
	}
}

func (o ObserverFuncs) SurfaceRemoved(s physics.Surface) {
	if o.OnSurfaceRemoved != nil {
		o.OnSurfaceRemoved(s)
	}
}

func (o ObserverFuncs) FrameDone(f Frame) {
	if o.OnFrameDone != nil {
		o.OnFrameDone(f)
	}
}
