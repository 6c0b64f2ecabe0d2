package hum

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

// levelTap wraps a streamer and records the last N samples into a ring
// buffer so the renderer can pulse the bulb halo from the audio that
// is actually playing. Stream runs on the speaker goroutine, Level on
// the frame loop, hence the lock.
type levelTap struct {
	src       beep.Streamer
	buf       [][2]float64
	nextIndex int
	mu        sync.RWMutex
}

func newLevelTap(src beep.Streamer, ringSize int) *levelTap {
	return &levelTap{src: src, buf: make([][2]float64, ringSize)}
}

func (t *levelTap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.src.Stream(samples)
	if n > 0 {
		t.mu.Lock()
		for i := 0; i < n; i++ {
			t.buf[t.nextIndex] = samples[i]
			t.nextIndex++
			if t.nextIndex >= len(t.buf) {
				t.nextIndex = 0
			}
		}
		t.mu.Unlock()
	}
	return n, ok
}

func (t *levelTap) Err() error { return t.src.Err() }

// level returns the RMS of the most recent n samples, mono-summed.
func (t *levelTap) level(n int) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.buf) {
		n = len(t.buf)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	idx := t.nextIndex - 1
	for i := 0; i < n; i++ {
		if idx < 0 {
			idx = len(t.buf) - 1
		}
		mono := (t.buf[idx][0] + t.buf[idx][1]) * 0.5
		sum += mono * mono
		idx--
	}
	return math.Sqrt(sum / float64(n))
}
