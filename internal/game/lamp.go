package game

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/mood"
)

// drawLamp renders the arm, bulb, halo, beam cone and logo mark from
// the frame outputs only; nothing here reads simulator internals.
func (g *Game) drawLamp(screen *ebiten.Image, out *mood.FrameOutputs) {
	px := g.pivotX + out.CameraX
	py := g.pivotY + out.CameraY

	dirX, dirY := math.Sin(out.Rotation), math.Cos(out.Rotation)
	bx := px + dirX*g.length
	by := py + dirY*g.length

	// Arm and pivot mount.
	vector.StrokeLine(screen, float32(px), float32(py), float32(bx), float32(by),
		2, color.RGBA{R: 90, G: 95, B: 110, A: 255}, false)
	vector.DrawFilledCircle(screen, float32(px), float32(py), 4,
		color.RGBA{R: 120, G: 125, B: 140, A: 255}, false)

	g.drawBeam(screen, bx, by, out)

	// Halo then bulb, brightness-scaled; mood blur widens the halo.
	haloA := uint8(clamp01(out.BulbBrightness*0.45) * 255)
	vector.DrawFilledCircle(screen, float32(bx), float32(by), float32(out.BulbHalo+out.MoodBlur),
		color.RGBA{R: 255, G: 238, B: 180, A: haloA}, false)
	bulbA := uint8(clamp01(out.BulbBrightness) * 255)
	vector.DrawFilledCircle(screen, float32(bx), float32(by), float32(9*g.scale),
		color.RGBA{R: 255, G: 244, B: 214, A: bulbA}, false)

	g.drawLogo(screen, out)
}

// drawBeam fans translucent rays across the cone, brightest on axis.
func (g *Game) drawBeam(screen *ebiten.Image, bx, by float64, out *mood.FrameOutputs) {
	if out.BeamOpacity <= 0.004 {
		return
	}
	reach := config.BeamMax * out.BeamScale
	const rays = 17
	for i := 0; i < rays; i++ {
		frac := float64(i)/(rays-1)*2 - 1 // -1..1 across the cone
		a := out.Rotation + frac*config.BeamHalfAngle
		ex := bx + math.Sin(a)*reach
		ey := by + math.Cos(a)*reach
		fade := 1 - math.Abs(frac)*0.8
		// Grain dims individual rays unevenly as anxiety rises.
		grain := 1 - out.BeamGrain*0.35*math.Abs(math.Sin(float64(i)*12.9898+g.bgPhase*7))
		alpha := uint8(clamp01(out.BeamOpacity*fade*grain) * 120)
		vector.StrokeLine(screen, float32(bx), float32(by), float32(ex), float32(ey),
			float32(1+out.BeamBlur*0.5), color.RGBA{R: 255, G: 242, B: 200, A: alpha}, false)
	}
}

// drawLogo renders the target mark, gated by beam visibility.
func (g *Game) drawLogo(screen *ebiten.Image, out *mood.FrameOutputs) {
	if out.LogoVisibility <= 0 {
		return
	}
	x := g.logoX + out.CameraX + out.LogoJitterX
	y := g.logoY + out.CameraY + out.LogoJitterY
	a := uint8(clamp01(out.LogoVisibility) * 255)
	vector.StrokeCircle(screen, float32(x), float32(y), float32(16*g.scale),
		3, color.RGBA{R: 230, G: 235, B: 245, A: a}, false)
	vector.DrawFilledCircle(screen, float32(x), float32(y), float32(5*g.scale),
		color.RGBA{R: 230, G: 235, B: 245, A: a}, false)
}
