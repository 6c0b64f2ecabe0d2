package hum

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/mood"
)

// fakeBackend records calls instead of opening an audio device.
type fakeBackend struct {
	initCalls int
	playCalls int
	initErr   error
	played    beep.Streamer
}

func (f *fakeBackend) backend() Backend {
	return Backend{
		Init: func(sr beep.SampleRate, bufSize int) error {
			f.initCalls++
			return f.initErr
		},
		Play:   func(s beep.Streamer) { f.playCalls++; f.played = s },
		Lock:   func() {},
		Unlock: func() {},
	}
}

func newTestSynth(fb *fakeBackend) (*Synth, *mood.State) {
	rng := rand.New(rand.NewSource(5))
	state := mood.NewState(rng)
	return New(state, fb.backend(), rng), state
}

func drain(t *testing.T, s beep.Streamer, n int) [][2]float64 {
	t.Helper()
	out := make([][2]float64, n)
	got, ok := s.Stream(out)
	if !ok || got != n {
		t.Fatalf("Stream returned (%d, %v), want (%d, true)", got, ok, n)
	}
	return out
}

func TestStartIdempotent(t *testing.T) {
	fb := &fakeBackend{}
	s, state := newTestSynth(fb)

	if err := s.Start(); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("second Start: %v", err)
	}

	if fb.initCalls != 1 || fb.playCalls != 1 {
		t.Errorf("init/play called %d/%d times, want 1/1", fb.initCalls, fb.playCalls)
	}
	if !s.Started() || !state.AudioStarted {
		t.Error("synth did not record the started state")
	}
}

func TestStartFailureIsPermanentAndSilent(t *testing.T) {
	fb := &fakeBackend{initErr: errors.New("no device")}
	s, state := newTestSynth(fb)

	if err := s.Start(); err == nil {
		t.Fatal("expected the construction error to surface to the caller")
	}
	if state.AudioStarted || s.Started() {
		t.Error("failed construction must leave the synth not-started")
	}

	// No retry of construction for the rest of the session.
	if err := s.Start(); err != nil {
		t.Errorf("second Start after failure should be a quiet no-op, got %v", err)
	}
	if fb.initCalls != 1 {
		t.Errorf("init retried %d times, want 1", fb.initCalls)
	}

	// Tick degrades to a no-op rather than panicking.
	s.Tick(time.Now())
	if s.Level() != 0 {
		t.Errorf("level = %f for a silent synth, want 0", s.Level())
	}
}

func TestTickTargets(t *testing.T) {
	fb := &fakeBackend{}
	s, state := newTestSynth(fb)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	state.Anxiety = 0.5
	now := time.Now()
	s.Tick(now)

	wantMaster := config.MasterBase + 0.5*config.MasterSpan
	if got := s.graph.master.gain.target; math.Abs(got-wantMaster) > 1e-12 {
		t.Errorf("master target = %f, want %f", got, wantMaster)
	}
	wantFreq := config.ToneBaseFreq + 0.5*config.ToneFreqSpan
	if got := s.graph.tone.freq.target; math.Abs(got-wantFreq) > 1e-12 {
		t.Errorf("tone freq target = %f, want %f", got, wantFreq)
	}
	wantNoise := config.NoiseGainBase + 0.5*config.NoiseGainSpan
	if got := s.graph.noise.gain.target; math.Abs(got-wantNoise) > 1e-12 {
		t.Errorf("noise gain target = %f, want %f", got, wantNoise)
	}

	// A blackout ducks the master target only.
	state.BlackoutUntil = now.Add(100 * time.Millisecond)
	s.Tick(now)
	if got := s.graph.master.gain.target; math.Abs(got-wantMaster*config.BlackoutDuck) > 1e-12 {
		t.Errorf("ducked master target = %f, want %f", got, wantMaster*config.BlackoutDuck)
	}
}

func TestMasterGainRampsSmoothly(t *testing.T) {
	fb := &fakeBackend{}
	s, state := newTestSynth(fb)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}

	state.Anxiety = 1
	s.Tick(time.Now())
	target := s.graph.master.gain.target

	// The gain starts at zero and must creep toward the target rather
	// than stepping: after a few ms of audio it is still well short.
	drain(t, fb.played, 256)
	early := s.graph.master.gain.value
	if early <= 0 || early >= target*0.5 {
		t.Errorf("gain after 256 samples = %f, want a partial ramp toward %f", early, target)
	}

	// After a second of audio it has converged.
	drain(t, fb.played, config.SampleRate)
	late := s.graph.master.gain.value
	if math.Abs(late-target) > target*0.01 {
		t.Errorf("gain after 1s = %f, want ~%f", late, target)
	}
}

func TestOutputBounded(t *testing.T) {
	fb := &fakeBackend{}
	s, state := newTestSynth(fb)
	if err := s.Start(); err != nil {
		t.Fatal(err)
	}
	state.Anxiety = 1
	s.Tick(time.Now())

	for _, frame := range drain(t, fb.played, config.SampleRate) {
		for ch := 0; ch < 2; ch++ {
			if math.Abs(frame[ch]) > 1 {
				t.Fatalf("sample %f clips", frame[ch])
			}
		}
	}
}

func TestToneOscSine(t *testing.T) {
	sr := beep.SampleRate(config.SampleRate)
	osc := newToneOsc(sr, 100)

	samples := make([][2]float64, 4410) // 0.1s
	n, ok := osc.Stream(samples)
	if !ok || n != len(samples) {
		t.Fatalf("Stream returned (%d, %v)", n, ok)
	}

	var peak float64
	crossings := 0
	for i := 1; i < n; i++ {
		if math.Abs(samples[i][0]) > peak {
			peak = math.Abs(samples[i][0])
		}
		if samples[i-1][0] < 0 && samples[i][0] >= 0 {
			crossings++
		}
	}
	if peak > 1 || peak < 0.9 {
		t.Errorf("peak = %f, want a near-unity sine", peak)
	}
	// 100Hz for 0.1s is 10 cycles; allow one off at the ends.
	if crossings < 9 || crossings > 11 {
		t.Errorf("upward zero crossings = %d, want ~10 for 100Hz", crossings)
	}
	if osc.Err() != nil {
		t.Errorf("unexpected streamer error: %v", osc.Err())
	}
}

func TestLevelTapRMS(t *testing.T) {
	tap := newLevelTap(constStreamer(0.5), 1024)
	buf := make([][2]float64, 1024)
	tap.Stream(buf)

	if got := tap.level(512); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("level = %f, want 0.5 for a constant signal", got)
	}
}

type constStreamer float64

func (c constStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		samples[i][0] = float64(c)
		samples[i][1] = float64(c)
	}
	return len(samples), true
}

func (c constStreamer) Err() error { return nil }
