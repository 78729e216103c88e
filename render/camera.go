package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/vmath"
)

// Cell is a terminal cell coordinate, Y grows downward
type Cell struct {
	X, Y int
}

// Camera is an orbiting perspective camera projecting world space onto terminal cells
type Camera struct {
	Target   mgl64.Vec3
	Distance float64
	Yaw      float64 // radians around +Y, zero looks down -Z
	Pitch    float64 // radians above the horizon
	FovY     float64 // degrees
	Near     float64
	Far      float64
}

// NewCamera returns the default view of the reference grid
func NewCamera() *Camera {
	return &Camera{
		Target:   mgl64.Vec3{parameter.CameraTargetX, parameter.CameraTargetY, parameter.CameraTargetZ},
		Distance: parameter.CameraDistance,
		Pitch:    parameter.CameraPitch,
		FovY:     parameter.CameraFovY,
		Near:     parameter.CameraNear,
		Far:      parameter.CameraFar,
	}
}

// Eye returns the camera position
func (c *Camera) Eye() mgl64.Vec3 {
	cp := math.Cos(c.Pitch)
	offset := mgl64.Vec3{
		c.Distance * cp * math.Sin(c.Yaw),
		c.Distance * math.Sin(c.Pitch),
		c.Distance * cp * math.Cos(c.Yaw),
	}
	return c.Target.Add(offset)
}

// Orbit rotates the eye around the target
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = math.Mod(c.Yaw+dYaw, 2*math.Pi)
	c.Pitch = mgl64.Clamp(c.Pitch+dPitch, -math.Pi/2+0.05, math.Pi/2-0.05)
}

// Zoom scales the eye distance, clamped to the configured range
func (c *Camera) Zoom(factor float64) {
	c.Distance = mgl64.Clamp(c.Distance*factor, parameter.CameraDistanceMin, parameter.CameraDistanceMax)
}

// matrices builds view and projection for a w x h cell viewport
// Aspect accounts for cells being taller than wide
func (c *Camera) matrices(w, h int) (view, proj mgl64.Mat4) {
	aspect := float64(w) / (float64(h) * parameter.CellAspect)
	proj = mgl64.Perspective(mgl64.DegToRad(c.FovY), aspect, c.Near, c.Far)
	view = mgl64.LookAtV(c.Eye(), c.Target, mgl64.Vec3{0, 1, 0})
	return view, proj
}

// Project maps a world point to a cell and window depth in [0,1]
// ok is false when the point lies outside the near/far range; the cell may fall off screen
func (c *Camera) Project(p vmath.Vec3F, w, h int) (cell Cell, depth float64, ok bool) {
	if w <= 0 || h <= 0 {
		return Cell{}, 0, false
	}
	view, proj := c.matrices(w, h)
	win := mgl64.Project(toMgl(p), view, proj, 0, 0, w, h)
	depth = win.Z()
	if depth < 0 || depth > 1 || math.IsNaN(depth) {
		return Cell{}, depth, false
	}
	cell = Cell{
		X: int(math.Floor(win.X())),
		Y: h - 1 - int(math.Floor(win.Y())),
	}
	return cell, depth, true
}

// Unproject maps a cell center at window depth back to world space
func (c *Camera) Unproject(cell Cell, depth float64, w, h int) (vmath.Vec3F, error) {
	view, proj := c.matrices(w, h)
	win := mgl64.Vec3{float64(cell.X) + 0.5, float64(h-1-cell.Y) + 0.5, depth}
	obj, err := mgl64.UnProject(win, view, proj, 0, 0, w, h)
	if err != nil {
		return vmath.Vec3F{}, err
	}
	return vmath.Vec3F{X: obj.X(), Y: obj.Y(), Z: obj.Z()}, nil
}

func toMgl(v vmath.Vec3F) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}
