// Package config loads sandbox settings from TOML with environment overrides
package config

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
)

// EnvPrefix prefixes every environment override, e.g. VI_CLOTH_SIM_GRAVITY
const EnvPrefix = "VI_CLOTH_"

var (
	ErrInvalidGrid   = errors.New("invalid grid")
	ErrInvalidSim    = errors.New("invalid simulation settings")
	ErrInvalidBounds = errors.New("invalid bounds")
	ErrInvalidAudio  = errors.New("invalid audio settings")
	ErrInvalidEnv    = errors.New("invalid environment override")
)

type Grid struct {
	Count   int     `toml:"count"`
	Spacing float64 `toml:"spacing"`
	Mass    float64 `toml:"mass"`
}

type Sim struct {
	Gravity         float64  `toml:"gravity"`
	SpringConstant  float64  `toml:"spring_constant"`
	Damping         float64  `toml:"damping"`
	RestLength      float64  `toml:"rest_length"`
	Wind            bool     `toml:"wind"`
	WindResistance  float64  `toml:"wind_resistance"`
	BreakMultiplier float64  `toml:"break_multiplier"`
	Tick            Duration `toml:"tick"`
}

type Bounds struct {
	Enabled bool    `toml:"enabled"`
	MinX    float64 `toml:"min_x"`
	MinY    float64 `toml:"min_y"`
	MaxX    float64 `toml:"max_x"`
	MaxY    float64 `toml:"max_y"`
}

type Audio struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"`
}

type Stream struct {
	// Addr is the listen address of the websocket viewer, empty disables it
	Addr string `toml:"addr"`
}

// Config is the full sandbox configuration
type Config struct {
	Grid   Grid   `toml:"grid"`
	Sim    Sim    `toml:"sim"`
	Bounds Bounds `toml:"bounds"`
	Audio  Audio  `toml:"audio"`
	Stream Stream `toml:"stream"`
}

// Duration decodes TOML strings such as "20ms"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the reference configuration
func Default() Config {
	return Config{
		Grid: Grid{
			Count:   parameter.ClothParticleCount,
			Spacing: parameter.ClothGridSpacing,
			Mass:    parameter.ClothParticleMass,
		},
		Sim: Sim{
			Gravity:         parameter.ClothGravityDefault,
			SpringConstant:  parameter.ClothSpringConstantDefault,
			Damping:         parameter.ClothDampingDefault,
			RestLength:      parameter.ClothRestLengthDefault,
			WindResistance:  parameter.ClothWindResistanceDefault,
			BreakMultiplier: parameter.BreakMultiplier,
			Tick:            Duration{parameter.ClothTickInterval},
		},
		Bounds: Bounds{
			Enabled: true,
			MinX:    parameter.BoundsMinX,
			MinY:    parameter.BoundsMinY,
			MaxX:    parameter.BoundsMaxX,
			MaxY:    parameter.BoundsMaxY,
		},
		Audio: Audio{
			Enabled: true,
			Volume:  parameter.AudioVolumeDefault,
		},
	}
}

// Load reads path over Default, applies environment overrides and validates
// An empty path skips the file
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, errors.Wrapf(err, "decode %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, errors.Errorf("%s: unknown keys %v", path, undecoded)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from VI_CLOTH_<SECTION>_<KEY> variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	floats := map[string]*float64{
		"GRID_SPACING":         &c.Grid.Spacing,
		"GRID_MASS":            &c.Grid.Mass,
		"SIM_GRAVITY":          &c.Sim.Gravity,
		"SIM_SPRING_CONSTANT":  &c.Sim.SpringConstant,
		"SIM_DAMPING":          &c.Sim.Damping,
		"SIM_REST_LENGTH":      &c.Sim.RestLength,
		"SIM_WIND_RESISTANCE":  &c.Sim.WindResistance,
		"SIM_BREAK_MULTIPLIER": &c.Sim.BreakMultiplier,
		"BOUNDS_MIN_X":         &c.Bounds.MinX,
		"BOUNDS_MIN_Y":         &c.Bounds.MinY,
		"BOUNDS_MAX_X":         &c.Bounds.MaxX,
		"BOUNDS_MAX_Y":         &c.Bounds.MaxY,
		"AUDIO_VOLUME":         &c.Audio.Volume,
	}
	bools := map[string]*bool{
		"SIM_WIND":       &c.Sim.Wind,
		"BOUNDS_ENABLED": &c.Bounds.Enabled,
		"AUDIO_ENABLED":  &c.Audio.Enabled,
	}

	for key, dst := range floats {
		raw, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%s%s=%q", EnvPrefix, key, raw)
		}
		*dst = v
	}
	for key, dst := range bools {
		raw, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%s%s=%q", EnvPrefix, key, raw)
		}
		*dst = v
	}

	if raw, ok := lookup(EnvPrefix + "GRID_COUNT"); ok {
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%sGRID_COUNT=%q", EnvPrefix, raw)
		}
		c.Grid.Count = v
	}
	if raw, ok := lookup(EnvPrefix + "SIM_TICK"); ok {
		v, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return errors.Wrapf(ErrInvalidEnv, "%sSIM_TICK=%q", EnvPrefix, raw)
		}
		c.Sim.Tick.Duration = v
	}
	if raw, ok := lookup(EnvPrefix + "STREAM_ADDR"); ok {
		c.Stream.Addr = strings.TrimSpace(raw)
	}
	return nil
}

// Validate rejects settings the simulation cannot run with
func (c Config) Validate() error {
	if _, err := cloth.GridWidth(c.Grid.Count); err != nil {
		return errors.Wrapf(ErrInvalidGrid, "count: %v", err)
	}
	if c.Grid.Spacing <= 0 {
		return errors.Wrapf(ErrInvalidGrid, "spacing %g must be positive", c.Grid.Spacing)
	}
	if c.Grid.Mass <= 0 {
		return errors.Wrapf(ErrInvalidGrid, "mass %g must be positive", c.Grid.Mass)
	}

	if c.Sim.Gravity < 0 || c.Sim.SpringConstant < 0 || c.Sim.Damping < 0 || c.Sim.WindResistance < 0 {
		return errors.Wrap(ErrInvalidSim, "coefficients must be non-negative")
	}
	if c.Sim.RestLength <= 0 {
		return errors.Wrapf(ErrInvalidSim, "rest_length %g must be positive", c.Sim.RestLength)
	}
	if c.Sim.BreakMultiplier <= 1 {
		return errors.Wrapf(ErrInvalidSim, "break_multiplier %g must exceed 1", c.Sim.BreakMultiplier)
	}
	if c.Sim.Tick.Duration <= 0 {
		return errors.Wrapf(ErrInvalidSim, "tick %s must be positive", c.Sim.Tick.Duration)
	}

	if c.Bounds.Enabled && (c.Bounds.MaxX <= c.Bounds.MinX || c.Bounds.MaxY <= c.Bounds.MinY) {
		return errors.Wrapf(ErrInvalidBounds, "[%g,%g]x[%g,%g] is empty",
			c.Bounds.MinX, c.Bounds.MaxX, c.Bounds.MinY, c.Bounds.MaxY)
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		return errors.Wrapf(ErrInvalidAudio, "volume %g outside [0,1]", c.Audio.Volume)
	}
	return nil
}

// Params returns the startup live parameters
func (c Config) Params() cloth.Params {
	return cloth.Params{
		Gravity:        c.Sim.Gravity,
		SpringConstant: c.Sim.SpringConstant,
		Damping:        c.Sim.Damping,
		RestLength:     c.Sim.RestLength,
		Wind:           c.Sim.Wind,
		WindResistance: c.Sim.WindResistance,
	}
}

// Layout returns the mesh layout
func (c Config) Layout() cloth.Layout {
	l := cloth.DefaultLayout()
	l.Spacing = c.Grid.Spacing
	l.Mass = c.Grid.Mass
	l.Ks = c.Sim.SpringConstant
	l.Kd = c.Sim.Damping
	l.RestLength = c.Sim.RestLength
	return l
}

// SimConfig returns the fixed simulation settings
func (c Config) SimConfig() cloth.Config {
	sc := cloth.Config{
		Dt:              c.Sim.Tick.Seconds(),
		BreakMultiplier: c.Sim.BreakMultiplier,
	}
	if c.Bounds.Enabled {
		sc.Bounds = physics.Bounds{
			MinX: c.Bounds.MinX,
			MinY: c.Bounds.MinY,
			MaxX: c.Bounds.MaxX,
			MaxY: c.Bounds.MaxY,
		}
	}
	return sc
}

// Encode writes c as TOML, used by -dump-config
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
