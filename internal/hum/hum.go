// Package hum synthesizes the lamp's ambient drone: a low sine tone
// plus band-limited noise whose loudness and pitch follow the mood
// state. Construction is gated by a user gesture and degrades to
// silence if the audio device is unavailable.
package hum

import (
	"math/rand"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/mood"
)

// Backend abstracts the speaker so tests can run the graph without an
// audio device.
type Backend struct {
	Init   func(sr beep.SampleRate, bufSize int) error
	Play   func(s beep.Streamer)
	Lock   func()
	Unlock func()
}

// SpeakerBackend is the production backend on faiface/beep's speaker.
func SpeakerBackend() Backend {
	return Backend{
		Init:   speaker.Init,
		Play:   func(s beep.Streamer) { speaker.Play(s) },
		Lock:   speaker.Lock,
		Unlock: speaker.Unlock,
	}
}

// Synth owns the hum's audio graph for one session.
type Synth struct {
	state   *mood.State
	backend Backend
	rng     *rand.Rand

	graph  *graph
	tap    *levelTap
	failed bool
}

// tapRing is sized for roughly the last 0.1s of audio at 44.1kHz.
const tapRing = 4096

func New(state *mood.State, backend Backend, rng *rand.Rand) *Synth {
	return &Synth{state: state, backend: backend, rng: rng}
}

// Start builds and plays the audio graph. It is a one-shot: a second
// call after success is a no-op, and a construction failure leaves the
// synth silent for the rest of the session. The caller decides what to
// do with the error; the synth itself keeps working as a no-op.
func (s *Synth) Start() error {
	if s.graph != nil || s.failed {
		return nil
	}
	sr := beep.SampleRate(config.SampleRate)
	if err := s.backend.Init(sr, sr.N(time.Second/20)); err != nil {
		s.failed = true
		return err
	}
	s.graph = newGraph(sr, s.rng)
	s.tap = newLevelTap(s.graph.master, tapRing)
	s.backend.Play(s.tap)
	s.state.AudioStarted = true
	return nil
}

// Started reports whether the audio graph is live.
func (s *Synth) Started() bool { return s.graph != nil }

// Level returns the RMS of the recently played audio, 0 when silent or
// not started. The renderer uses it to pulse the bulb halo.
func (s *Synth) Level() float64 {
	if s.tap == nil {
		return 0
	}
	return s.tap.level(2048)
}

// Tick pushes this frame's modulation targets into the graph: master
// volume and noise gain rise with anxiety, the tone creeps up in
// pitch, and a blackout ducks the whole mix. A no-op until Start
// succeeds.
func (s *Synth) Tick(now time.Time) {
	if s.graph == nil {
		return
	}
	anx := s.state.Anxiety

	master := config.MasterBase + anx*config.MasterSpan
	if s.state.Blackout(now) {
		master *= config.BlackoutDuck
	}
	toneFreq := config.ToneBaseFreq + anx*config.ToneFreqSpan
	noiseGain := config.NoiseGainBase + anx*config.NoiseGainSpan

	s.backend.Lock()
	s.graph.setTargets(master, toneFreq, noiseGain)
	s.backend.Unlock()
}
