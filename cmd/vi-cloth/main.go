package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/vi-cloth/audio"
	"github.com/lixenwraith/vi-cloth/config"
	"github.com/lixenwraith/vi-cloth/core"
	"github.com/lixenwraith/vi-cloth/engine"
	"github.com/lixenwraith/vi-cloth/input"
	"github.com/lixenwraith/vi-cloth/parameter"
)

var (
	configFlag     = flag.String("config", "", "Path to TOML config file")
	keymapFlag     = flag.String("keymap", "", "Path to TOML keymap overrides")
	debugFlag      = flag.Bool("debug", false, "Write debug log to logs/vi-cloth.log")
	colorModeFlag  = flag.String("color", "auto", "Color mode: auto, truecolor, 256")
	streamFlag     = flag.String("stream", "", "Serve frames to websocket viewers on this address, overrides config")
	dumpConfigFlag = flag.Bool("dump-config", false, "Print the effective config as TOML and exit")
)

func main() {
	flag.Parse()

	logFile := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *streamFlag != "" {
		cfg.Stream.Addr = *streamFlag
	}
	if *dumpConfigFlag {
		if err := cfg.Encode(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	keys := input.DefaultKeyTable()
	if *keymapFlag != "" {
		data, err := os.ReadFile(*keymapFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keymap: %v\n", err)
			os.Exit(1)
		}
		override, err := input.LoadKeyConfig(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keymap: %v\n", err)
			os.Exit(1)
		}
		keys = input.MergeKeyTable(keys, override)
	}

	// tcell reads color capability from the environment
	switch *colorModeFlag {
	case "256":
		os.Setenv("TCELL_TRUECOLOR", "disable")
	case "truecolor", "true", "24bit":
		os.Setenv("COLORTERM", "truecolor")
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse(tcell.MouseButtonEvents | tcell.MouseDragEvents)
	screen.HideCursor()
	core.RegisterTerminal(screen)

	// Panic Recovery: ensure terminal is reset even if the sandbox crashes
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()
	// Normal exit terminal cleanup
	defer func() {
		core.RegisterTerminal(nil)
		screen.Fini()
	}()

	var sound *audio.SoundManager
	if cfg.Audio.Enabled {
		sound = audio.NewSoundManager(cfg.Audio.Volume)
		if err := sound.Initialize(); err != nil {
			log.Printf("Audio initialization failed: %v (continuing without audio)", err)
			sound = nil
		} else {
			defer sound.Cleanup()
		}
	}

	a, err := newApp(cfg, screen, keys, sound)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "sandbox: %v\n", err)
		os.Exit(1)
	}
	if sound != nil && cfg.Sim.Wind {
		sound.SetWind(true)
	}

	if a.hub != nil {
		srv := a.hub.Server(cfg.Stream.Addr)
		core.Go(func() {
			log.Printf("streaming on ws://%s%s", cfg.Stream.Addr, parameter.StreamPath)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("stream server: %v", err)
			}
		})
		defer func() {
			a.hub.Close()
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	run(a)
}

// run drives the scheduler, input and rendering until quit
func run(a *app) {
	// Create frame synchronization channel
	frameReady := make(chan struct{}, 1)

	a.scheduler = engine.NewClockScheduler(
		engine.NewPausableClock(nil),
		a.cfg.Sim.Tick.Duration,
		a.step,
		a.reset,
		frameReady,
	)

	// Signal initial frame ready
	frameReady <- struct{}{}
	a.scheduler.Start()
	defer a.scheduler.Stop()

	eventChan := make(chan tcell.Event, 256)
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			// Screen finalized
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	})

	frameTicker := time.NewTicker(parameter.ClothFrameInterval)
	defer frameTicker.Stop()

	for {
		select {
		case ev := <-eventChan:
			intent := a.controller.Process(ev)
			if intent == nil {
				continue
			}
			if !a.handle(intent) {
				return
			}

		case <-frameTicker.C:
			a.renderer.Draw(a.view())
			select {
			case frameReady <- struct{}{}:
			default:
			}
		}
	}
}
