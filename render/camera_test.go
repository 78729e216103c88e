package render

import (
	"math"
	"testing"

	"github.com/lixenwraith/vi-cloth/vmath"
)

func TestCameraProjectsTargetToCenter(t *testing.T) {
	cam := NewCamera()
	w, h := 80, 22

	target := vmath.Vec3F{X: cam.Target.X(), Y: cam.Target.Y(), Z: cam.Target.Z()}
	cell, depth, ok := cam.Project(target, w, h)
	if !ok {
		t.Fatalf("target not visible, depth %f", depth)
	}
	if cell.X < w/2-1 || cell.X > w/2 || cell.Y < h/2-1 || cell.Y > h/2 {
		t.Fatalf("target projected to %+v, want near (%d,%d)", cell, w/2, h/2)
	}
}

func TestCameraAxesOrientation(t *testing.T) {
	cam := NewCamera()
	w, h := 80, 22

	origin, _, _ := cam.Project(vmath.Vec3F{X: 7, Y: 4}, w, h)
	right, _, _ := cam.Project(vmath.Vec3F{X: 12, Y: 4}, w, h)
	up, _, _ := cam.Project(vmath.Vec3F{X: 7, Y: 9}, w, h)

	if right.X <= origin.X {
		t.Errorf("+X projected left: origin %+v right %+v", origin, right)
	}
	if up.Y >= origin.Y {
		t.Errorf("+Y projected down: origin %+v up %+v", origin, up)
	}
}

func TestCameraBehindEyeNotVisible(t *testing.T) {
	cam := NewCamera()
	eye := cam.Eye()
	behind := vmath.Vec3F{X: eye.X(), Y: eye.Y(), Z: eye.Z() + 10}
	if _, _, ok := cam.Project(behind, 80, 22); ok {
		t.Fatal("point behind the eye reported visible")
	}
	if _, _, ok := cam.Project(vmath.Vec3F{}, 0, 0); ok {
		t.Fatal("empty viewport reported visible")
	}
}

func TestCameraUnprojectRoundTrip(t *testing.T) {
	cam := NewCamera()
	w, h := 120, 40

	p := vmath.Vec3F{X: 3, Y: -2, Z: 1}
	cell, depth, ok := cam.Project(p, w, h)
	if !ok {
		t.Fatal("point not visible")
	}
	back, err := cam.Unproject(cell, depth, w, h)
	if err != nil {
		t.Fatalf("Unproject: %v", err)
	}
	again, _, ok := cam.Project(back, w, h)
	if !ok || again != cell {
		t.Fatalf("reprojected to %+v, want %+v", again, cell)
	}
	// Within one cell of world size at this distance
	if d := vmath.V3FDist(p, back); d > 1 {
		t.Fatalf("round trip drifted %f world units", d)
	}
}

func TestCameraOrbitZoomClamp(t *testing.T) {
	cam := NewCamera()
	cam.Orbit(0, 10)
	if cam.Pitch >= math.Pi/2 {
		t.Fatalf("pitch %f not clamped", cam.Pitch)
	}
	for i := 0; i < 100; i++ {
		cam.Zoom(0.5)
	}
	if cam.Distance <= 0 {
		t.Fatalf("distance %f collapsed", cam.Distance)
	}
	before := cam.Eye()
	cam.Orbit(2*math.Pi, 0)
	after := cam.Eye()
	if before.Sub(after).Len() > 1e-9 {
		t.Fatalf("full orbit moved eye from %v to %v", before, after)
	}
}
