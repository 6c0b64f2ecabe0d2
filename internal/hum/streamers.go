package hum

import (
	"math"
	"math/rand"

	"github.com/faiface/beep"

	"github.com/SEROTONYL/lamplight/internal/config"
)

// smoothed is a scalar that approaches its target with a fixed time
// constant, advanced once per audio sample. Targets are swapped in
// under the speaker lock; the approach itself removes audible steps.
type smoothed struct {
	value  float64
	target float64
	coeff  float64
}

func newSmoothed(initial float64, sr beep.SampleRate) smoothed {
	return smoothed{
		value:  initial,
		target: initial,
		coeff:  1 - math.Exp(-1/(config.SmoothTime*float64(sr))),
	}
}

func (s *smoothed) step() float64 {
	s.value += (s.target - s.value) * s.coeff
	return s.value
}

// toneOsc is a sine source whose frequency follows a smoothed target.
// Phase accumulates in [0,1) so frequency changes never click.
type toneOsc struct {
	sr    beep.SampleRate
	phase float64
	freq  smoothed
}

func newToneOsc(sr beep.SampleRate, freq float64) *toneOsc {
	return &toneOsc{sr: sr, freq: newSmoothed(freq, sr)}
}

func (o *toneOsc) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		f := o.freq.step()
		o.phase += f / float64(o.sr)
		if o.phase >= 1 {
			o.phase -= 1
		}
		v := math.Sin(2 * math.Pi * o.phase)
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (o *toneOsc) Err() error { return nil }

// noiseSrc is white noise through a one-pole lowpass, which band-limits
// it to a soft rumble.
type noiseSrc struct {
	rng  *rand.Rand
	last float64
}

func newNoiseSrc(rng *rand.Rand) *noiseSrc {
	return &noiseSrc{rng: rng}
}

func (n *noiseSrc) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		r := n.rng.Float64()*2 - 1
		n.last = config.NoiseAlpha*r + (1-config.NoiseAlpha)*n.last
		samples[i][0] = n.last
		samples[i][1] = n.last
	}
	return len(samples), true
}

func (n *noiseSrc) Err() error { return nil }

// gainStage scales a source by a smoothed gain.
type gainStage struct {
	src  beep.Streamer
	gain smoothed
}

func newGainStage(src beep.Streamer, sr beep.SampleRate, gain float64) *gainStage {
	return &gainStage{src: src, gain: newSmoothed(gain, sr)}
}

func (g *gainStage) Stream(samples [][2]float64) (int, bool) {
	n, ok := g.src.Stream(samples)
	for i := 0; i < n; i++ {
		v := g.gain.step()
		samples[i][0] *= v
		samples[i][1] *= v
	}
	return n, ok
}

func (g *gainStage) Err() error { return g.src.Err() }

// graph is the assembled audio chain: tone and gained noise mixed into
// a master gain that starts silent and ramps up.
type graph struct {
	tone   *toneOsc
	noise  *gainStage
	master *gainStage
}

func newGraph(sr beep.SampleRate, rng *rand.Rand) *graph {
	tone := newToneOsc(sr, config.ToneBaseFreq)
	noise := newGainStage(newNoiseSrc(rng), sr, 0)
	master := newGainStage(beep.Mix(tone, noise), sr, 0)
	return &graph{tone: tone, noise: noise, master: master}
}

// setTargets swaps in new modulation targets. Callers must hold the
// speaker lock when the graph is playing.
func (g *graph) setTargets(master, toneFreq, noiseGain float64) {
	g.master.gain.target = master
	g.tone.freq.target = toneFreq
	g.noise.gain.target = noiseGain
}
