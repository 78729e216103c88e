package audio

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/physics"
)

// TestSoundManagerGracefulDegradation verifies audio operations don't panic when not initialized
func TestSoundManagerGracefulDegradation(t *testing.T) {
	sm := NewSoundManager(0.5)

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Sound operations panicked without initialization: %v", r)
		}
	}()

	sm.PlayTear()
	sm.SetWind(true)
	sm.SetWind(false)
	sm.PlayClick(true)
	sm.PlayClick(false)
	sm.SetVolume(0)
	sm.Observer().SpringRemoved(physics.Spring{}, cloth.RemoveBroken)
	sm.Cleanup()
}

// TestSoundManagerInitialization verifies sound manager can be initialized and cleaned up
func TestSoundManagerInitialization(t *testing.T) {
	sm := NewSoundManager(0.5)

	// Speaker initialization may fail in CI/test environments without audio devices
	err := sm.Initialize()
	if err != nil {
		t.Logf("Sound initialization failed (expected in test environment): %v", err)
		return
	}

	sm.SetWind(true)
	sm.PlayTear()
	sm.PlayClick(true)
	sm.SetWind(false)
	sm.Cleanup()
}

// TestSoundManagerDoubleInitialization verifies double initialization is safe
func TestSoundManagerDoubleInitialization(t *testing.T) {
	sm := NewSoundManager(0.5)

	if err := sm.Initialize(); err != nil {
		t.Logf("First initialization failed (expected in test environment): %v", err)
		return
	}
	if err := sm.Initialize(); err != nil {
		t.Errorf("Second initialization should succeed as no-op, got error: %v", err)
	}
	sm.Cleanup()
}

func TestSoundManagerVolume(t *testing.T) {
	sm := NewSoundManager(0)
	if !sm.master.Silent {
		t.Error("zero volume should silence the master")
	}
	sm.SetVolume(1)
	if sm.master.Silent || sm.master.Volume != 0 {
		t.Errorf("full volume = silent:%v level:%f, want audible at 0", sm.master.Silent, sm.master.Volume)
	}
	sm.SetVolume(0.5)
	if sm.master.Volume != -1 {
		t.Errorf("half volume level = %f, want -1", sm.master.Volume)
	}
	sm.SetVolume(3)
	if sm.master.Volume != 0 {
		t.Errorf("volume above 1 level = %f, want clamped to 0", sm.master.Volume)
	}
}

func TestTearRateLimit(t *testing.T) {
	sm := NewSoundManager(0.5)
	// Bypass the speaker, only the limiter is under test
	sm.initialized = true

	clock := time.Unix(100, 0)
	sm.now = func() time.Time { return clock }

	sm.PlayTear()
	sm.PlayTear()
	if got := sm.mixer.Len(); got != 1 {
		t.Fatalf("mixer has %d streamers after a burst, want 1", got)
	}

	clock = clock.Add(time.Second)
	sm.PlayTear()
	if got := sm.mixer.Len(); got != 2 {
		t.Fatalf("mixer has %d streamers after the gap, want 2", got)
	}
}

func TestGeneratorsBounded(t *testing.T) {
	buf := make([][2]float64, 4096)

	tear := NewTearGenerator(sampleRate, 42)
	wind := NewWindGenerator(sampleRate)
	for _, g := range []interface {
		Stream([][2]float64) (int, bool)
	}{tear, wind} {
		for pass := 0; pass < 4; pass++ {
			n, ok := g.Stream(buf)
			if n != len(buf) || !ok {
				t.Fatalf("Stream = %d,%v want %d,true", n, ok, len(buf))
			}
			for i := 0; i < n; i++ {
				v := buf[i][0]
				if math.IsNaN(v) || math.Abs(v) > 1 {
					t.Fatalf("sample %d = %f out of range", i, v)
				}
				if buf[i][0] != buf[i][1] {
					t.Fatalf("sample %d not mono", i)
				}
			}
		}
	}
}

// TestWindLoopCleanup verifies Cleanup stops the wind loop and empties the mixer
func TestWindLoopCleanup(t *testing.T) {
	sm := NewSoundManager(0.5)
	sm.initialized = true

	sm.SetWind(true)
	if sm.windCtrl == nil || sm.mixer.Len() != 1 {
		t.Fatalf("wind loop not started: ctrl=%v mixer=%d", sm.windCtrl, sm.mixer.Len())
	}
	ctrl := sm.windCtrl

	sm.Cleanup()
	if !ctrl.Paused {
		t.Error("wind loop still playing after Cleanup")
	}
	if sm.windCtrl != nil || sm.mixer.Len() != 0 {
		t.Errorf("Cleanup left ctrl=%v mixer=%d", sm.windCtrl, sm.mixer.Len())
	}
	if sm.initialized {
		t.Error("still initialized after Cleanup")
	}
}

// TestWindStateTrackedWithoutDevice verifies the requested wind state survives missing audio
func TestWindStateTrackedWithoutDevice(t *testing.T) {
	sm := NewSoundManager(0.5)
	if sm.WindOn() {
		t.Fatal("wind should start off")
	}
	sm.SetWind(true)
	if !sm.WindOn() {
		t.Error("SetWind(true) not recorded")
	}
	sm.SetWind(false)
	if sm.WindOn() {
		t.Error("SetWind(false) not recorded")
	}
}
