package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/config"
	"github.com/lixenwraith/vi-cloth/physics"
	"github.com/lixenwraith/vi-cloth/vmath"
)

var (
	configFlag = flag.String("config", "", "Path to TOML config file")
	ticks      = flag.Int("ticks", 2000, "Ticks to simulate")
	wind       = flag.Bool("wind", false, "Enable wind")
	pull       = flag.Float64("pull", 0, "World units per tick to drag the first anchor right")
	width      = flag.Int("width", 60, "Graph width")
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *wind {
		cfg.Sim.Wind = true
	}
	if *ticks < 1 {
		fmt.Fprintln(os.Stderr, "ticks must be positive")
		os.Exit(1)
	}

	mesh, err := cloth.BuildMesh(cfg.Grid.Count, cfg.Layout())
	if err != nil {
		fmt.Fprintf(os.Stderr, "mesh: %v\n", err)
		os.Exit(1)
	}

	var tears int
	sim := cloth.NewSimulation(mesh, cloth.StaticParams(cfg.Params()), cfg.SimConfig(), cloth.ObserverFuncs{
		OnSpringRemoved: func(_ physics.Spring, reason cloth.RemoveReason) {
			if reason == cloth.RemoveBroken {
				tears++
			}
		},
	})

	anchors := mesh.Anchors()
	energy := make([]float64, 0, *ticks)
	springs := make([]float64, 0, *ticks)

	pulling := *pull != 0 && len(anchors) > 0
	start := time.Now()
	for i := 0; i < *ticks; i++ {
		if pulling {
			if err := pullAnchor(sim, anchors[0], *pull); err != nil {
				fmt.Fprintf(os.Stderr, "pull stopped at tick %d: %v\n", i, err)
				pulling = false
			}
		}
		sim.Step()
		energy = append(energy, sim.KineticEnergy())
		springs = append(springs, float64(mesh.SpringCount()))
	}
	elapsed := time.Since(start)

	stats := sim.Stats()
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
	}
	summary := headerStyle.Render("vi-cloth bench") + "\n" +
		row("Particles", fmt.Sprintf("%d", cfg.Grid.Count)) +
		row("Ticks", fmt.Sprintf("%d (dt %s)", stats.Tick, cfg.Sim.Tick.Duration)) +
		row("Wall time", elapsed.String()) +
		row("Per tick", (elapsed / time.Duration(*ticks)).String()) +
		row("Springs", fmt.Sprintf("%d active, %d torn, %d invalid", stats.Springs, stats.SpringsBroken, stats.SpringsInvalid)) +
		row("Surfaces", fmt.Sprintf("%d active, %d pruned", stats.Surfaces, stats.SurfacesPruned)) +
		row("Tear events", fmt.Sprintf("%d", tears)) +
		row("Final energy", fmt.Sprintf("%.4f", sim.KineticEnergy())) +
		row("Total alloc", fmt.Sprintf("%d bytes", m.TotalAlloc))

	energyChart := asciigraph.Plot(energy,
		asciigraph.Height(10), asciigraph.Width(*width), asciigraph.Caption("Kinetic energy"))
	springChart := asciigraph.Plot(springs,
		asciigraph.Height(6), asciigraph.Width(*width), asciigraph.Caption("Active springs"))

	fmt.Println(panelStyle.Render(summary))
	fmt.Println(graphStyle.Render(energyChart))
	fmt.Println(graphStyle.Render(springChart))
}

// pullAnchor moves the pin of id by dx along X
func pullAnchor(sim *cloth.Simulation, id physics.ParticleID, dx float64) error {
	pos, err := sim.AnchorPosition(id)
	if err != nil {
		return err
	}
	return sim.SetAnchorPosition(id, vmath.V3FAdd(pos, vmath.Vec3F{X: dx}))
}
