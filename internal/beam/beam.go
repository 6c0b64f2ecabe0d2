// Package beam computes whether a target point lies inside the cone of
// light cast from the pendulum bulb, and how strongly it is lit.
package beam

import (
	"math"
	"math/rand"
	"time"

	"github.com/SEROTONYL/lamplight/internal/config"
)

// Visibility is the per-frame result for one target: an intensity in
// [0,1] plus jitter offsets that are exactly zero outside the anxious
// regime.
type Visibility struct {
	Vis     float64
	JitterX float64
	JitterY float64
}

// Calculator derives beam visibility. It holds only the injected
// random source used for jitter; everything else is a pure function of
// the frame's geometry and mood.
type Calculator struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Calculator {
	return &Calculator{rng: rng}
}

// Compute projects the target onto the beam ray cast from the bulb
// along the swing direction and scores it against the cone.
//
// theta/pivot/length describe the pendulum, scale adjusts the beam
// reach, and now drives the flicker phase.
func (c *Calculator) Compute(theta, pivotX, pivotY, length float64,
	targetX, targetY, scale, anxiety float64, blackout bool, now time.Time) Visibility {

	dirX, dirY := math.Sin(theta), math.Cos(theta)
	apexX := pivotX + dirX*length
	apexY := pivotY + dirY*length

	dx := targetX - apexX
	dy := targetY - apexY
	along := dx*dirX + dy*dirY

	beamMax := config.BeamMax * scale
	if along <= 0 || along >= beamMax {
		return Visibility{}
	}

	perp := math.Abs(dx*dirY - dy*dirX)
	maxPerp := along * math.Tan(config.BeamHalfAngle)
	if perp >= maxPerp {
		return Visibility{}
	}

	// Soft cone edge: cubic smoothstep instead of a hard cutoff.
	edge := smoothstep(1 - perp/maxPerp)

	fadeIn := clamp01((along - config.BeamFadeInLo) / (config.BeamFadeInHi - config.BeamFadeInLo))
	fadeOut := clamp01((beamMax - along) / config.BeamFadeOut)

	t := float64(now.UnixMilli())
	flicker := 0.90 + 0.10*math.Sin(t*(0.010+anxiety*0.010))
	if blackout {
		flicker *= 0.08
	}

	vis := clamp01(edge * fadeIn * fadeOut * flicker)

	out := Visibility{Vis: vis}
	if vis > 0.05 && anxiety > 0.2 && !blackout {
		amp := config.BeamJitterAmp * anxiety * vis
		out.JitterX = (c.rng.Float64()*2 - 1) * amp
		out.JitterY = (c.rng.Float64()*2 - 1) * amp
	}
	return out
}

func smoothstep(x float64) float64 {
	x = clamp01(x)
	return x * x * (3 - 2*x)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
