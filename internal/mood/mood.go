package mood

import (
	"math/rand"
	"time"

	"github.com/SEROTONYL/lamplight/internal/config"
)

// State is the shared mood record: one instance per session, written by
// the pendulum simulator and read by the beam, renderer and synth
// within the same frame. All mutation happens inside the frame
// callback, so no locking is needed.
type State struct {
	// Anxiety is a smoothed [0,1] scalar driving all visual and audio
	// intensity. It follows an instantaneous target via an exponential
	// moving average and is never assigned directly after init.
	Anxiety float64

	// CameraX/Y is the smoothed jitter offset applied to the scene layer.
	CameraX float64
	CameraY float64

	// BlackoutUntil marks the end of a transient full-darken window.
	BlackoutUntil time.Time

	// SpikeUntil marks the end of a transient anxiety boost armed by a
	// discrete interaction (grab start).
	SpikeUntil time.Time

	// AudioStarted flips false->true once the hum's audio graph has
	// been constructed. It is never reset.
	AudioStarted bool

	// RippleOff disables glitch rendering; loaded once from prefs.
	RippleOff bool

	rng *rand.Rand
}

// NewState creates the session mood state with the given random source.
// The source gates the probabilistic blackout draw and the camera
// jitter targets, so tests can substitute a deterministic one.
func NewState(rng *rand.Rand) *State {
	return &State{rng: rng}
}

// UpdateAnxiety moves Anxiety toward target by the fixed EMA rate.
// This is the sole mutator of Anxiety.
func (s *State) UpdateAnxiety(target float64) {
	target = clamp01(target)
	s.Anxiety += (target - s.Anxiety) * config.AnxietyRate
	s.Anxiety = clamp01(s.Anxiety)
}

// Spike arms the transient anxiety boost window.
func (s *State) Spike(now time.Time) {
	s.SpikeUntil = now.Add(config.SpikeDuration)
}

// SpikeLevel returns the current spike contribution in [0,1], decaying
// linearly over the spike duration.
func (s *State) SpikeLevel(now time.Time) float64 {
	if !now.Before(s.SpikeUntil) {
		return 0
	}
	return clamp01(float64(s.SpikeUntil.Sub(now)) / float64(config.SpikeDuration))
}

// Blackout reports whether a blackout window is active at now.
func (s *State) Blackout(now time.Time) bool {
	return now.Before(s.BlackoutUntil)
}

// MaybeBlackout runs the per-frame blackout draw: only outside an
// active window and above the anxiety threshold, with fixed
// probability, a 70-210ms blackout is started.
func (s *State) MaybeBlackout(now time.Time) {
	if s.Blackout(now) || s.Anxiety <= config.BlackoutThreshold {
		return
	}
	if s.rng.Float64() >= config.BlackoutProbability {
		return
	}
	span := config.BlackoutMax - config.BlackoutMin
	d := config.BlackoutMin + time.Duration(s.rng.Float64()*float64(span))
	s.BlackoutUntil = now.Add(d)
}

// UpdateCamera draws a fresh jitter target scaled by anxiety and
// smooths the offset toward it.
func (s *State) UpdateCamera() {
	tx := (s.rng.Float64()*2 - 1) * config.CameraScale * s.Anxiety
	ty := (s.rng.Float64()*2 - 1) * config.CameraScale * s.Anxiety
	s.CameraX += (tx - s.CameraX) * config.CameraRate
	s.CameraY += (ty - s.CameraY) * config.CameraRate
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
