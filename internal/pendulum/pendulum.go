package pendulum

import (
	"math"
	"math/rand"
	"time"

	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/mood"
)

// PointerInput carries one frame's worth of pointer state. Velocity is
// in px/s, derived by the caller from successive cursor positions.
type PointerInput struct {
	X, Y    float64
	VX, VY  float64
	Present bool // a cursor position is available this frame
	Pressed bool // primary button held
	Down    bool // pressed this frame (edge)
	Up      bool // released this frame (edge)
	Cancel  bool // gesture aborted (focus loss etc.)
}

// Simulator owns the pendulum state and advances it once per frame.
// It is the single writer of the shared mood state.
type Simulator struct {
	state *mood.State

	theta    float64
	omega    float64
	grabbing bool

	pivotX, pivotY float64
	length         float64
	scale          float64

	breezePhase  float64
	lastGrabTime time.Time
}

// New creates a simulator with a small random initial displacement.
func New(state *mood.State, rng *rand.Rand) *Simulator {
	s := &Simulator{
		state:  state,
		theta:  (rng.Float64()*2 - 1) * 0.25,
		scale:  1,
		length: config.PendulumLength,
	}
	return s
}

// SetLayout (re)positions the suspension point and the element scale.
// Called at setup and whenever the window geometry changes.
func (s *Simulator) SetLayout(pivotX, pivotY, scale float64) {
	s.pivotX = pivotX
	s.pivotY = pivotY
	s.scale = scale
	s.length = config.PendulumLength * scale
}

func (s *Simulator) Theta() float64  { return s.theta }
func (s *Simulator) Omega() float64  { return s.omega }
func (s *Simulator) Grabbing() bool  { return s.grabbing }
func (s *Simulator) Length() float64 { return s.length }

// Bulb returns the bulb's screen position for the current angle.
func (s *Simulator) Bulb() (x, y float64) {
	return s.pivotX + math.Sin(s.theta)*s.length,
		s.pivotY + math.Cos(s.theta)*s.length
}

// Step advances the pendulum by dt seconds and refreshes the shared
// mood state. dt is capped to keep the integration stable across
// long frame gaps.
func (s *Simulator) Step(in PointerInput, now time.Time, dt float64) {
	if dt > config.MaxDT {
		dt = config.MaxDT
	}
	if dt < 0 {
		dt = 0
	}

	bx, by := s.Bulb()

	switch {
	case in.Cancel:
		// Abnormal gesture end: drop the grab without a kick.
		s.grabbing = false
	case in.Up && s.grabbing:
		s.release(in)
	case in.Down && !s.grabbing && in.Present:
		if dist(in.X-bx, in.Y-by) <= config.HitRadius*s.scale {
			s.beginGrab(in, now)
		}
	case s.grabbing && !in.Pressed:
		// The release event was missed (button let go off-window).
		// End the grab without a kick rather than leaving it stuck.
		s.grabbing = false
	}

	if s.grabbing {
		// Physics is suspended for the whole grab; the pendulum holds
		// its angle whenever the pointer position is unavailable.
		if in.Present {
			s.dragTo(in, now)
		}
	} else {
		s.integrate(in, dt)
	}

	s.updateMood(in, now)
}

func (s *Simulator) beginGrab(in PointerInput, now time.Time) {
	s.grabbing = true
	s.lastGrabTime = now
	// Small torque kick from the horizontal offset so the lamp reacts
	// to the touch even before the first move.
	s.omega = clamp(s.omega+config.GrabKick*(in.X-s.pivotX), -config.MaxOmega, config.MaxOmega)
	s.state.Spike(now)
}

// dragTo drives theta directly from the pointer angle about the pivot
// while grabbed. Physics is suspended; omega is re-derived from the
// angle rate, blended with its previous value to bound one-frame spikes.
func (s *Simulator) dragTo(in PointerInput, now time.Time) {
	target := clamp(s.pointerTheta(in.X, in.Y), -config.MaxTheta, config.MaxTheta)
	elapsed := now.Sub(s.lastGrabTime).Seconds()
	if elapsed > 0 {
		rate := (target - s.theta) / elapsed
		s.omega = clamp(config.GrabBlend*rate+(1-config.GrabBlend)*s.omega,
			-config.MaxOmega, config.MaxOmega)
	}
	s.theta = target
	s.lastGrabTime = now
}

// release converts the pointer's linear velocity at release into an
// angular kick about the pivot, then amplifies omega slightly so the
// motion keeps swinging past the release point.
func (s *Simulator) release(in PointerInput) {
	s.grabbing = false
	rx := in.X - s.pivotX
	ry := in.Y - s.pivotY
	r2 := rx*rx + ry*ry
	if r2 > 1 {
		// 2D cross-product torque in the screen's y-down frame:
		// positive result swings the bulb toward +x.
		kick := (ry*in.VX - rx*in.VY) / r2
		s.omega = clamp(s.omega+kick*config.ReleaseKickGain, -config.MaxOmega, config.MaxOmega)
	}
	s.omega = clamp(s.omega*config.ReleaseOvershoot, -config.MaxOmega, config.MaxOmega)
}

// integrate runs one explicit Euler step of the free swing.
func (s *Simulator) integrate(in PointerInput, dt float64) {
	accel := -config.Gravity*math.Sin(s.theta) - config.Damping*s.omega

	s.breezePhase += config.BreezeRate * dt
	accel += math.Sin(s.breezePhase) * (config.BreezeBase + config.BreezeGain*s.state.Anxiety)

	if in.Present {
		bx, by := s.Bulb()
		d := dist(in.X-bx, in.Y-by)
		radius := config.ProximityRadius * s.scale
		if d < radius && s.length > 0 {
			// Tangential component of pointer velocity, scaled by
			// closeness, becomes a torque on the bulb.
			tx, ty := math.Cos(s.theta), -math.Sin(s.theta)
			tangential := in.VX*tx + in.VY*ty
			accel += config.ProximityGain * tangential / s.length * (1 - d/radius)
		}
	}

	s.omega = clamp(s.omega+accel*dt, -config.MaxOmega, config.MaxOmega)
	s.theta += s.omega * dt
	if s.theta > config.MaxTheta {
		s.theta = config.MaxTheta
		s.omega *= 1 - config.SaturationBleed
	} else if s.theta < -config.MaxTheta {
		s.theta = -config.MaxTheta
		s.omega *= 1 - config.SaturationBleed
	}
}

// updateMood derives the anxiety target from proximity, swing speed and
// the interaction spike, then runs the blackout draw and camera jitter.
func (s *Simulator) updateMood(in PointerInput, now time.Time) {
	proximity := 0.0
	if in.Present {
		bx, by := s.Bulb()
		d := dist(in.X-bx, in.Y-by)
		proximity = clamp(1-d/(config.ProximityRadius*s.scale), 0, 1)
	}
	speed := clamp(math.Abs(s.omega)/config.MaxOmega, 0, 1)
	spike := s.state.SpikeLevel(now)

	target := config.AnxietyBase +
		proximity*config.AnxietyProximity +
		speed*config.AnxietySpeed +
		spike*config.AnxietySpike

	s.state.UpdateAnxiety(target)
	s.state.MaybeBlackout(now)
	s.state.UpdateCamera()
}

// pointerTheta is the angle the pointer subtends about the pivot,
// measured from straight down; sign follows the pointer's side.
func (s *Simulator) pointerTheta(px, py float64) float64 {
	return math.Atan2(px-s.pivotX, py-s.pivotY)
}

func dist(dx, dy float64) float64 {
	return math.Hypot(dx, dy)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
