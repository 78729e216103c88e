package vmath

import (
	"math"
)

// Vec3F is a float64 3D vector used for all cloth state
// World axes: X right, Y up, Z toward the viewer
type Vec3F struct {
	X, Y, Z float64
}

var (
	// Down is the gravity direction
	Down = Vec3F{0, -1, 0}
	// Forward is the wind direction
	Forward = Vec3F{0, 0, 1}
)

func V3FAdd(a, b Vec3F) Vec3F {
	return Vec3F{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

func V3FSub(a, b Vec3F) Vec3F {
	return Vec3F{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

func V3FScale(v Vec3F, s float64) Vec3F {
	return Vec3F{v.X * s, v.Y * s, v.Z * s}
}

func V3FNeg(v Vec3F) Vec3F {
	return Vec3F{-v.X, -v.Y, -v.Z}
}

func V3FDot(a, b Vec3F) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// V3FCross returns a × b (right-handed)
func V3FCross(a, b Vec3F) Vec3F {
	return Vec3F{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func V3FMagSq(v Vec3F) float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func V3FMag(v Vec3F) float64 {
	return math.Sqrt(V3FMagSq(v))
}

// V3FNormalize returns the unit vector, zero vector stays zero
func V3FNormalize(v Vec3F) Vec3F {
	mag := V3FMag(v)
	if mag == 0 {
		return Vec3F{}
	}
	inv := 1.0 / mag
	return Vec3F{v.X * inv, v.Y * inv, v.Z * inv}
}

// V3FClampMagnitude limits vector magnitude to maxMag
func V3FClampMagnitude(v Vec3F, maxMag float64) Vec3F {
	magSq := V3FMagSq(v)
	if magSq <= maxMag*maxMag {
		return v
	}
	return V3FScale(V3FNormalize(v), maxMag)
}

// V3FDist returns |b - a|
func V3FDist(a, b Vec3F) float64 {
	return V3FMag(V3FSub(b, a))
}

// V3FIsFinite reports whether no component is NaN or Inf
func V3FIsFinite(v Vec3F) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsNaN(v.Z) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0) && !math.IsInf(v.Z, 0)
}
