package audio

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/vi-cloth/cloth"
	"github.com/lixenwraith/vi-cloth/parameter"
	"github.com/lixenwraith/vi-cloth/physics"
)

const (
	sampleRate = beep.SampleRate(parameter.AudioSampleRate)
)

// SoundManager manages the sandbox audio: tear crackles, the wind loop and anchor clicks
// Every method is a no-op until Initialize succeeds, audio is optional
type SoundManager struct {
	mu          sync.Mutex
	windCtrl    *beep.Ctrl
	master      *effects.Volume
	mixer       *beep.Mixer
	lastTear    time.Time
	wind        bool
	initialized bool

	// now is swapped in tests
	now func() time.Time
}

// NewSoundManager creates a new sound manager at linear volume in [0,1]
func NewSoundManager(volume float64) *SoundManager {
	sm := &SoundManager{
		mixer: &beep.Mixer{},
		now:   time.Now,
	}
	sm.master = &effects.Volume{Streamer: sm.mixer, Base: 2}
	sm.setVolumeLocked(volume)
	return sm
}

// Initialize sets up the audio system
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration))
	if err != nil {
		return err
	}

	speaker.Play(sm.master)
	sm.initialized = true
	return nil
}

// Cleanup stops all sounds
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	if sm.windCtrl != nil {
		sm.windCtrl.Paused = true
		sm.windCtrl = nil
	}
	sm.mixer.Clear()
	speaker.Unlock()

	// Note: beep doesn't provide a Close() for the speaker, clearing the mixer silences it
	sm.initialized = false
}

// SetVolume sets linear master volume, 0 silences
func (sm *SoundManager) SetVolume(volume float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	sm.setVolumeLocked(volume)
}

func (sm *SoundManager) setVolumeLocked(volume float64) {
	if volume <= 0 {
		sm.master.Silent = true
		sm.master.Volume = 0
		return
	}
	sm.master.Silent = false
	sm.master.Volume = math.Log2(min(volume, 1))
}

// PlayTear plays the tearing crackle, rate-limited to one per MinSoundGap
func (sm *SoundManager) PlayTear() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	now := sm.now()
	if now.Sub(sm.lastTear) < parameter.MinSoundGap {
		return
	}
	sm.lastTear = now

	streamer := beep.Take(sampleRate.N(parameter.TearSoundDuration), NewTearGenerator(sampleRate, now.UnixNano()))
	sm.add(streamer)
}

// SetWind starts or stops the wind hum loop
// The requested state is kept while audio is unavailable
func (sm *SoundManager) SetWind(on bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.wind = on
	if !sm.initialized {
		return
	}

	if !on {
		if sm.windCtrl != nil {
			speaker.Lock()
			sm.windCtrl.Paused = true
			speaker.Unlock()
		}
		return
	}

	// Resume existing loop
	if sm.windCtrl != nil {
		speaker.Lock()
		sm.windCtrl.Paused = false
		speaker.Unlock()
		return
	}

	ctrl := &beep.Ctrl{Streamer: beep.Loop(-1, NewWindGenerator(sampleRate)), Paused: false}
	sm.windCtrl = ctrl
	sm.add(ctrl)
}

// WindOn reports the last requested wind state
func (sm *SoundManager) WindOn() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.wind
}

// PlayClick plays a short tone, higher when a particle becomes anchored
func (sm *SoundManager) PlayClick(anchored bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	freq := parameter.ClickSoundFreeHz
	if anchored {
		freq = parameter.ClickSoundAnchorHz
	}
	tone, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	n := sampleRate.N(parameter.ClickSoundDuration)
	streamer := beep.Take(n, &envelope{Streamer: tone, n: n, amp: parameter.ClickSoundAmp})
	sm.add(streamer)
}

func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}

// Observer returns a cloth observer that crackles on broken springs
func (sm *SoundManager) Observer() cloth.Observer {
	return cloth.ObserverFuncs{
		OnSpringRemoved: func(_ physics.Spring, reason cloth.RemoveReason) {
			if reason == cloth.RemoveBroken {
				sm.PlayTear()
			}
		},
	}
}

// envelope applies a linear fade-out over n samples
type envelope struct {
	beep.Streamer
	n, pos int
	amp    float64
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.Streamer.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.amp * (1 - float64(e.pos)/float64(e.n))
		if g < 0 {
			g = 0
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

// WindGenerator generates a slow breathing hum with filtered noise
type WindGenerator struct {
	sr      beep.SampleRate
	pos     int
	samples int
	seed    int64
	noise   float64
}

// NewWindGenerator creates a wind sound generator
func NewWindGenerator(sr beep.SampleRate) *WindGenerator {
	return &WindGenerator{
		sr:      sr,
		samples: sr.N(parameter.WindSoundCycle),
		seed:    1,
	}
}

func (g *WindGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		cyclePos := float64(g.pos%g.samples) / float64(g.samples)

		// One-pole low-pass over white noise
		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		white := float64(g.seed)/float64(0x7fffffff)*2 - 1
		g.noise += 0.02 * (white - g.noise)

		amplitude := parameter.WindSoundAmp * (0.6 + 0.4*math.Sin(cyclePos*math.Pi*2))
		hum := 0.3 * math.Sin(2*math.Pi*parameter.WindSoundLowHz*t)
		sample := amplitude * (4*g.noise + hum)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *WindGenerator) Err() error {
	return nil
}

// TearGenerator generates a short tearing crackle
type TearGenerator struct {
	sr   beep.SampleRate
	pos  int
	seed int64
}

// NewTearGenerator creates a tear sound generator
func NewTearGenerator(sr beep.SampleRate, seed int64) *TearGenerator {
	return &TearGenerator{
		sr:   sr,
		seed: seed & 0x7fffffff,
	}
}

func (g *TearGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Quick attack, exponential decay
		env := math.Exp(-t * parameter.TearSoundDecay)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		rumble := 0.3 * math.Sin(2*math.Pi*parameter.TearSoundRumbleHz*t)
		sample := env * (0.3*noise + rumble)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *TearGenerator) Err() error {
	return nil
}
