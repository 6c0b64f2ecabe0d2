package game

import (
	"image/color"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/mood"
)

type particle struct {
	x, y   float64
	vx, vy float64
	size   float64
	hue    float64
}

// ambientField owns the drifting background particles and the glitch
// overlay drawn when the mood turns anxious.
type ambientField struct {
	particles []particle
	rng       *rand.Rand
	w, h      float64
}

func newAmbientField(rng *rand.Rand, w, h float64) *ambientField {
	f := &ambientField{rng: rng, w: w, h: h}
	f.particles = make([]particle, config.ParticleCount)
	for i := range f.particles {
		f.particles[i] = particle{
			x:    rng.Float64() * w,
			y:    rng.Float64() * h,
			vx:   (rng.Float64()*2 - 1) * 8,
			vy:   (rng.Float64()*2 - 1) * 8,
			size: 1 + rng.Float64()*2.5,
			hue:  180 + rng.Float64()*120,
		}
	}
	return f
}

// update drifts the particles with screen wrap; anxiety speeds them up.
func (f *ambientField) update(state *mood.State, dt float64) {
	speed := 1 + 2*state.Anxiety
	for i := range f.particles {
		p := &f.particles[i]
		p.x += p.vx * speed * dt
		p.y += p.vy * speed * dt
		if p.x < 0 {
			p.x += f.w
		} else if p.x > f.w {
			p.x -= f.w
		}
		if p.y < 0 {
			p.y += f.h
		} else if p.y > f.h {
			p.y -= f.h
		}
	}
}

func (f *ambientField) draw(screen *ebiten.Image, state *mood.State) {
	alpha := uint8(40 + 120*state.Anxiety)
	for i := range f.particles {
		p := &f.particles[i]
		r, g, b := hsvToRgb(p.hue, 0.35, 0.8)
		vector.DrawFilledCircle(screen,
			float32(p.x+state.CameraX), float32(p.y+state.CameraY),
			float32(p.size), color.RGBA{R: r, G: g, B: b, A: alpha}, false)
	}
}

// drawGlitch layers tear bands, scanlines and blocks over the scene.
// Skipped entirely below the anxiety threshold or when the user turned
// the ripple off.
func (f *ambientField) drawGlitch(screen *ebiten.Image, state *mood.State) {
	if state.RippleOff || state.Anxiety <= config.GlitchThreshold {
		return
	}
	anx := state.Anxiety
	over := (anx - config.GlitchThreshold) / (1 - config.GlitchThreshold)

	bands := 1 + int(over*float64(config.GlitchMaxBands))
	for i := 0; i < bands; i++ {
		y := f.rng.Float64() * f.h
		h := 2 + f.rng.Float64()*9
		off := (f.rng.Float64()*2 - 1) * 28 * over
		a := uint8(28 + 80*over)
		vector.DrawFilledRect(screen, float32(off), float32(y), float32(f.w), float32(h),
			color.RGBA{R: 180, G: 210, B: 255, A: a}, false)
	}

	blocks := int(over * float64(config.GlitchMaxBlocks))
	for i := 0; i < blocks; i++ {
		x := f.rng.Float64() * f.w
		y := f.rng.Float64() * f.h
		w := 8 + f.rng.Float64()*46
		h := 3 + f.rng.Float64()*14
		a := uint8(20 + 100*over)
		vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h),
			color.RGBA{R: 255, G: 90, B: 110, A: a}, false)
	}

	// Scanlines, every fourth row.
	for y := 0.0; y < f.h; y += 4 {
		vector.DrawFilledRect(screen, 0, float32(y), float32(f.w), 1,
			color.RGBA{A: uint8(14 * over)}, false)
	}
}
