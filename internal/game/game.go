// Package game wires the simulation core to the window: it reads the
// pointer, steps the pendulum, derives beam visibility and hum
// targets, and renders everything from the per-frame outputs.
package game

import (
	"image/color"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/SEROTONYL/lamplight/internal/beam"
	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/hum"
	"github.com/SEROTONYL/lamplight/internal/mood"
	"github.com/SEROTONYL/lamplight/internal/pendulum"
)

type Game struct {
	state   *mood.State
	sim     *pendulum.Simulator
	beam    *beam.Calculator
	synth   *hum.Synth
	ambient *ambientField

	outputs mood.FrameOutputs

	pivotX, pivotY float64
	length         float64
	scale          float64
	logoX, logoY   float64

	lastTick    time.Time
	prevX       float64
	prevY       float64
	prevPresent bool
	bgPhase     float64

	prevKey map[ebiten.Key]bool
}

func New(prefs config.Prefs) *Game {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	state := mood.NewState(rng)
	state.RippleOff = prefs.RippleOff

	g := &Game{
		state:   state,
		sim:     pendulum.New(state, rng),
		beam:    beam.New(rng),
		synth:   hum.New(state, hum.SpeakerBackend(), rng),
		ambient: newAmbientField(rng, config.WindowWidth, config.WindowHeight),
		prevKey: map[ebiten.Key]bool{},
	}

	g.scale = math.Min(config.WindowWidth, config.WindowHeight) / 640.0
	g.pivotX = config.WindowWidth / 2
	g.pivotY = config.WindowHeight * 0.12
	g.logoX = config.WindowWidth / 2
	g.logoY = config.WindowHeight * 0.78
	g.sim.SetLayout(g.pivotX, g.pivotY, g.scale)
	g.length = g.sim.Length()

	return g
}

func (g *Game) Update() error {
	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	now := time.Now()
	dt := 0.0
	if !g.lastTick.IsZero() {
		dt = now.Sub(g.lastTick).Seconds()
	}
	g.lastTick = now

	in := g.readPointer(dt)

	// The first press on the lamp is the user gesture that may start
	// the hum; a failure degrades to visual-only, once, quietly.
	if in.Down && in.Present && !g.synth.Started() {
		bx, by := g.sim.Bulb()
		if math.Hypot(in.X-bx, in.Y-by) <= config.HitRadius*g.scale {
			if err := g.synth.Start(); err != nil {
				log.Printf("hum unavailable, continuing silent: %v", err)
			}
		}
	}

	g.sim.Step(in, now, dt)

	vis := g.beam.Compute(g.sim.Theta(), g.pivotX, g.pivotY, g.length,
		g.logoX, g.logoY, g.scale, g.state.Anxiety, g.state.Blackout(now), now)

	g.synth.Tick(now)
	g.ambient.update(g.state, dt)
	g.fillOutputs(vis, now)
	g.bgPhase += dt

	return nil
}

func (g *Game) readPointer(dt float64) pendulum.PointerInput {
	cx, cy := ebiten.CursorPosition()
	present := cx >= 0 && cy >= 0 && cx < config.WindowWidth && cy < config.WindowHeight
	x, y := float64(cx), float64(cy)

	var vx, vy float64
	if present && g.prevPresent && dt > 0 {
		vx = (x - g.prevX) / dt
		vy = (y - g.prevY) / dt
	}
	g.prevX, g.prevY = x, y
	g.prevPresent = present

	return pendulum.PointerInput{
		X: x, Y: y,
		VX: vx, VY: vy,
		Present: present,
		Pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		Down:    inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		Up:      inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		Cancel:  !ebiten.IsFocused(),
	}
}

// fillOutputs refreshes the named frame outputs, the only values the
// draw pass is allowed to read from the simulation.
func (g *Game) fillOutputs(vis beam.Visibility, now time.Time) {
	anx := g.state.Anxiety
	blackout := g.state.Blackout(now)
	level := g.synth.Level()

	out := &g.outputs
	out.Rotation = g.sim.Theta()
	out.CameraX = g.state.CameraX
	out.CameraY = g.state.CameraY

	out.MoodOpacity = 0.25 + 0.75*anx
	out.MoodBlur = 8 * anx

	out.BeamOpacity = 0.55 + 0.30*anx
	if blackout {
		out.BeamOpacity *= 0.08
	}
	out.BeamBlur = 1.5 + 5*anx
	out.BeamGrain = anx
	out.BeamScale = g.scale

	if blackout {
		out.BulbBrightness = 0.06
	} else {
		out.BulbBrightness = clamp01(0.72 + 0.28*anx + level*1.5)
	}
	out.BulbHalo = 16 * g.scale * (0.7 + 0.6*anx + 2*level)

	out.LogoVisibility = vis.Vis
	out.LogoJitterX = vis.JitterX
	out.LogoJitterY = vis.JitterY
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.drawBackground(screen)
	g.ambient.draw(screen, g.state)
	g.drawLamp(screen, &g.outputs)
	g.ambient.drawGlitch(screen, g.state)

	if g.state.Blackout(time.Now()) {
		vector.DrawFilledRect(screen, 0, 0, config.WindowWidth, config.WindowHeight,
			color.RGBA{A: 235}, false)
	}

	status := "Drag the lamp. First touch starts the hum."
	if g.state.AudioStarted {
		status = "Humming. Esc/Q to quit."
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// drawBackground fills a slow-breathing dark gradient that tightens
// toward red as the mood rises.
func (g *Game) drawBackground(screen *ebiten.Image) {
	lift := g.outputs.MoodOpacity
	for y := 0; y < config.WindowHeight; y += 4 {
		ratio := float64(y) / config.WindowHeight
		r := uint8(18 + 14*math.Sin(g.bgPhase*0.5+ratio*math.Pi) + 26*lift)
		gr := uint8(16 + 12*math.Cos(g.bgPhase*0.3+ratio*math.Pi))
		b := uint8(26 + 18*math.Sin(g.bgPhase*0.7+ratio*math.Pi))
		vector.DrawFilledRect(screen, 0, float32(y), config.WindowWidth, 4,
			color.RGBA{R: r, G: gr, B: b, A: 255}, false)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.WindowWidth, config.WindowHeight
}
