package cloth

import (
	"fmt"
	"sync"

	"github.com/lixenwraith/vi-cloth/parameter"
)

// Params are the live simulation parameters, sampled at the start of each phase
type Params struct {
	Gravity        float64
	SpringConstant float64
	Damping        float64
	RestLength     float64
	Wind           bool
	WindResistance float64
}

// DefaultParams returns the startup parameter set
func DefaultParams() Params {
	return Params{
		Gravity:        parameter.ClothGravityDefault,
		SpringConstant: parameter.ClothSpringConstantDefault,
		Damping:        parameter.ClothDampingDefault,
		RestLength:     parameter.ClothRestLengthDefault,
		WindResistance: parameter.ClothWindResistanceDefault,
	}
}

// EffectiveWindResistance floors an exact zero to 1 so enabled wind never degenerates to still air
func (p Params) EffectiveWindResistance() float64 {
	if p.WindResistance == 0 {
		return 1
	}
	return p.WindResistance
}

// ParamSource supplies parameters to the simulation, which never owns them
type ParamSource interface {
	Params() Params
}

// StaticParams is a fixed ParamSource
type StaticParams Params

func (p StaticParams) Params() Params {
	return Params(p)
}

// Field identifies an adjustable parameter
type Field uint8

const (
	FieldGravity Field = iota
	FieldSpringConstant
	FieldDamping
	FieldRestLength
	FieldWindResistance
	fieldCount
)

// fieldSpec holds the adjustment range of a Field
type fieldSpec struct {
	name     string
	step     float64
	min, max float64
}

var fieldSpecs = [fieldCount]fieldSpec{
	FieldGravity:        {"gravity", parameter.ClothGravityStep, 0, parameter.ClothGravityMax},
	FieldSpringConstant: {"spring_constant", parameter.ClothSpringConstantStep, 0, parameter.ClothSpringConstantMax},
	FieldDamping:        {"damping", parameter.ClothDampingStep, 0, parameter.ClothDampingMax},
	FieldRestLength:     {"rest_length", parameter.ClothRestLengthStep, parameter.ClothRestLengthMin, parameter.ClothRestLengthMax},
	FieldWindResistance: {"wind_resistance", parameter.ClothWindResistanceStep, 0, parameter.ClothWindResistanceMax},
}

func (f Field) String() string {
	if f >= fieldCount {
		return fmt.Sprintf("Field(%d)", f)
	}
	return fieldSpecs[f].name
}

// ParseField resolves a field by its snake_case name
func ParseField(name string) (Field, bool) {
	for i, fs := range fieldSpecs {
		if fs.name == name {
			return Field(i), true
		}
	}
	return 0, false
}

func (p *Params) ptr(f Field) *float64 {
	switch f {
	case FieldGravity:
		return &p.Gravity
	case FieldSpringConstant:
		return &p.SpringConstant
	case FieldDamping:
		return &p.Damping
	case FieldRestLength:
		return &p.RestLength
	case FieldWindResistance:
		return &p.WindResistance
	}
	return nil
}

// Get returns the value of f
func (p Params) Get(f Field) float64 {
	if v := p.ptr(f); v != nil {
		return *v
	}
	return 0
}

// LiveParams is a mutex-guarded ParamSource adjusted by UI collaborators between ticks
type LiveParams struct {
	mu sync.RWMutex
	p  Params
}

// NewLiveParams creates a live source seeded with p
func NewLiveParams(p Params) *LiveParams {
	return &LiveParams{p: p}
}

func (lp *LiveParams) Params() Params {
	lp.mu.RLock()
	defer lp.mu.RUnlock()
	return lp.p
}

// Replace swaps the whole parameter set
func (lp *LiveParams) Replace(p Params) {
	lp.mu.Lock()
	lp.p = p
	lp.mu.Unlock()
}

// Set assigns f clamped to its range, returns the stored value
func (lp *LiveParams) Set(f Field, value float64) float64 {
	if f >= fieldCount {
		return 0
	}
	fs := fieldSpecs[f]
	value = max(fs.min, min(fs.max, value))

	lp.mu.Lock()
	defer lp.mu.Unlock()
	*lp.p.ptr(f) = value
	return value
}

// Adjust moves f by steps increments within its range, returns the new value
func (lp *LiveParams) Adjust(f Field, steps int) float64 {
	if f >= fieldCount {
		return 0
	}
	cur := lp.Params().Get(f)
	return lp.Set(f, cur+float64(steps)*fieldSpecs[f].step)
}

// SetWind enables or disables wind
func (lp *LiveParams) SetWind(on bool) {
	lp.mu.Lock()
	lp.p.Wind = on
	lp.mu.Unlock()
}

// ToggleWind flips wind, returns the new state
func (lp *LiveParams) ToggleWind() bool {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.p.Wind = !lp.p.Wind
	return lp.p.Wind
}
