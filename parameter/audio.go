package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 48000
	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Mixer
const (
	// AudioVolumeDefault is the linear master volume in [0,1]
	AudioVolumeDefault = 0.6
	// MinSoundGap between consecutive tear crackles, a whole row tearing in one tick plays once
	MinSoundGap = 50 * time.Millisecond
)

// Tear Sound
const (
	TearSoundDuration = 250 * time.Millisecond
	TearSoundDecay    = 10.0 // envelope exp(-t*decay)
	TearSoundRumbleHz = 90.0
)

// Wind Sound
const (
	WindSoundCycle = 3 * time.Second
	WindSoundLowHz = 60.0
	WindSoundAmp   = 0.12
)

// Click Sound
const (
	ClickSoundDuration = 40 * time.Millisecond
	ClickSoundAnchorHz = 880.0
	ClickSoundFreeHz   = 660.0
	ClickSoundAmp      = 0.2
)
