package cloth

import (
	"sync"
	"testing"

	"github.com/lixenwraith/vi-cloth/parameter"
)

func TestEffectiveWindResistance(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 1},
		{1, 1},
		{0.5, 0.5},
		{12, 12},
	}
	for _, tt := range tests {
		p := Params{WindResistance: tt.in}
		if got := p.EffectiveWindResistance(); got != tt.want {
			t.Errorf("EffectiveWindResistance(%f) = %f, want %f", tt.in, got, tt.want)
		}
	}
}

func TestLiveParamsAdjustClamps(t *testing.T) {
	lp := NewLiveParams(DefaultParams())

	got := lp.Adjust(FieldDamping, -1000)
	if got != 0 {
		t.Errorf("damping clamped to %f, want 0", got)
	}
	got = lp.Adjust(FieldSpringConstant, 1000)
	if got != parameter.ClothSpringConstantMax {
		t.Errorf("spring constant clamped to %f, want %f", got, parameter.ClothSpringConstantMax)
	}
	got = lp.Set(FieldRestLength, 0)
	if got != parameter.ClothRestLengthMin {
		t.Errorf("rest length clamped to %f, want %f", got, parameter.ClothRestLengthMin)
	}

	before := lp.Params().Gravity
	got = lp.Adjust(FieldGravity, 2)
	if want := before + 2*parameter.ClothGravityStep; got != want {
		t.Errorf("gravity = %f, want %f", got, want)
	}
	if lp.Params().Gravity != got {
		t.Errorf("stored gravity %f differs from returned %f", lp.Params().Gravity, got)
	}
}

func TestLiveParamsWindToggle(t *testing.T) {
	lp := NewLiveParams(DefaultParams())
	if lp.Params().Wind {
		t.Fatal("wind should default off")
	}
	if !lp.ToggleWind() || !lp.Params().Wind {
		t.Fatal("toggle should enable wind")
	}
	lp.SetWind(false)
	if lp.Params().Wind {
		t.Fatal("SetWind(false) ignored")
	}
}

func TestParseField(t *testing.T) {
	for f := FieldGravity; f < fieldCount; f++ {
		got, ok := ParseField(f.String())
		if !ok || got != f {
			t.Errorf("ParseField(%q) = %v,%v want %v", f.String(), got, ok, f)
		}
	}
	if _, ok := ParseField("viscosity"); ok {
		t.Error("unknown field parsed")
	}
}

func TestLiveParamsConcurrentAccess(t *testing.T) {
	lp := NewLiveParams(DefaultParams())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				lp.Adjust(FieldGravity, 1)
				lp.Adjust(FieldGravity, -1)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = lp.Params()
			}
		}()
	}
	wg.Wait()
}
