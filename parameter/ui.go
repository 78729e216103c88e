package parameter

// Layout & Margins
const (
	// BottomMargin for status bar
	BottomMargin = 1

	// TopMargin for key help line
	TopMargin = 1

	// CellAspect is terminal cell height over width
	CellAspect = 2.0
)

// Camera
const (
	CameraTargetX  = 7.0
	CameraTargetY  = 4.0
	CameraTargetZ  = 0.0
	CameraDistance = 25.0
	CameraPitch    = 0.15 // radians above the horizon
	CameraFovY     = 45.0 // degrees
	CameraNear     = 0.1
	CameraFar      = 500.0

	CameraOrbitStep   = 0.1 // radians per key press
	CameraZoomFactor  = 1.1
	CameraDistanceMin = 5.0
	CameraDistanceMax = 200.0
)

// Interaction
const (
	// PickRadius is the farthest a click may land from a particle, in cell widths
	PickRadius = 3.0
	// NudgeStep is the world distance an anchor moves per hjkl press
	NudgeStep = 0.5
	// TearFlashFrames is how many rendered frames a torn spring stays marked
	TearFlashFrames = 12
)

// Status Bar
const (
	StatusTextPaused = " PAUSED "
	StatusTextRun    = "  RUN   "
	StatusTextWindOn = "wind on"
	StatusTextCalm   = "calm"
	HelpText         = "space anchor  hjkl nudge  w wind  s/S ks  d/D kd  g/G grav  e/E rest  f/F drag  p pause  . step  r reset  q quit"
	AudioStr         = "♫ "
)
