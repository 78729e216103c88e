package main

import (
	"testing"

	"github.com/pkg/errors"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/parameter"
)

func TestPullAnchor(t *testing.T) {
	mesh, err := cloth.BuildMesh(parameter.ClothParticleCount, cloth.DefaultLayout())
	if err != nil {
		t.Fatalf("BuildMesh: %v", err)
	}
	sim := cloth.NewSimulation(mesh, cloth.StaticParams(cloth.DefaultParams()), cloth.DefaultConfig())
	id := mesh.Anchors()[0]

	before, _ := sim.AnchorPosition(id)
	if err := pullAnchor(sim, id, 0.5); err != nil {
		t.Fatalf("pullAnchor: %v", err)
	}
	after, _ := sim.AnchorPosition(id)
	if after.X != before.X+0.5 || after.Y != before.Y {
		t.Errorf("pin %+v -> %+v, want +0.5 on X", before, after)
	}

	// A released anchor can no longer be pulled
	if _, err := sim.ToggleAnchor(id); err != nil {
		t.Fatal(err)
	}
	if err := pullAnchor(sim, id, 0.5); !errors.Is(err, cloth.ErrNotAnchored) {
		t.Errorf("pullAnchor on free particle = %v, want ErrNotAnchored", err)
	}
}
