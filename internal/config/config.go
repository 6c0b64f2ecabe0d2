package config

import (
	"math"
	"time"
)

const (
	WindowWidth  = 960
	WindowHeight = 640

	// Pendulum physics
	Gravity         = 6.0  // rad/s^2 restoring gain on sin(theta)
	Damping         = 1.6  // per rad/s of angular velocity
	MaxTheta        = 0.72 // rad, swing amplitude bound
	MaxOmega        = 3.0  // rad/s
	MaxDT           = 0.03 // s, frame timestep cap (tab-resume spikes)
	SaturationBleed = 0.22 // omega fraction bled when theta hits its bound

	// Pointer interaction
	ProximityRadius  = 140.0 // px at scale 1, pointer torque range
	ProximityGain    = 0.9
	HitRadius        = 46.0 // px at scale 1, grab region around the bulb
	GrabBlend        = 0.85 // new/old blend for grab-derived omega
	ReleaseKickGain  = 0.6
	ReleaseOvershoot = 1.05
	GrabKick         = 0.003 // initial torque per px of horizontal offset

	// Breeze forcing; amplitude grows with anxiety
	BreezeBase = 0.002
	BreezeGain = 0.02
	BreezeRate = 0.6 // rad/s

	// Anxiety derivation
	AnxietyBase      = 0.10
	AnxietyProximity = 0.60
	AnxietySpeed     = 0.85
	AnxietySpike     = 0.75
	AnxietyRate      = 0.06 // EMA rate per frame
	SpikeDuration    = 260 * time.Millisecond

	// Blackout
	BlackoutThreshold   = 0.68
	BlackoutProbability = 0.012
	BlackoutMin         = 70 * time.Millisecond
	BlackoutMax         = 210 * time.Millisecond

	// Camera jitter
	CameraScale = 6.0  // px of jitter at anxiety 1
	CameraRate  = 0.12 // lerp rate per frame

	// Beam geometry
	BeamHalfAngle = 25.0 * math.Pi / 180.0
	BeamMax       = 520.0 // px reach at scale 1
	BeamFadeInLo  = 10.0
	BeamFadeInHi  = 70.0
	BeamFadeOut   = 100.0
	BeamJitterAmp = 4.0

	// Pendulum geometry
	PendulumLength = 220.0 // px at scale 1

	// Hum synthesis
	SampleRate    = 44100
	ToneBaseFreq  = 40.0
	ToneFreqSpan  = 12.0
	MasterBase    = 0.02
	MasterSpan    = 0.055
	BlackoutDuck  = 0.35
	NoiseGainBase = 0.02
	NoiseGainSpan = 0.03
	NoiseAlpha    = 0.02 // one-pole lowpass coefficient
	SmoothTime    = 0.07 // s, parameter approach time constant

	// Ambient rendering
	ParticleCount   = 60
	GlitchThreshold = 0.45
	GlitchMaxBands  = 5
	GlitchMaxBlocks = 8
)
