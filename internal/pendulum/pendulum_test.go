package pendulum

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/SEROTONYL/lamplight/internal/config"
	"github.com/SEROTONYL/lamplight/internal/mood"
)

func newTestSim(t *testing.T) (*Simulator, *mood.State) {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	state := mood.NewState(rng)
	sim := New(state, rng)
	sim.SetLayout(480, 80, 1)
	sim.theta = 0
	sim.omega = 0
	return sim, state
}

func TestClampingUnderExtremeTorque(t *testing.T) {
	sim, _ := newTestSim(t)
	now := time.Now()
	dt := 1.0 / 60.0

	bx, by := sim.Bulb()
	in := PointerInput{
		X: bx, Y: by,
		VX: 1e7, VY: -1e7,
		Present: true,
	}

	for i := 0; i < 600; i++ {
		now = now.Add(time.Second / 60)
		bx, by = sim.Bulb()
		in.X, in.Y = bx, by
		sim.Step(in, now, dt)

		if math.Abs(sim.Theta()) > config.MaxTheta {
			t.Fatalf("step %d: theta %f out of bounds", i, sim.Theta())
		}
		if math.Abs(sim.Omega()) > config.MaxOmega {
			t.Fatalf("step %d: omega %f out of bounds", i, sim.Omega())
		}
	}
}

func TestIdleSettle(t *testing.T) {
	sim, _ := newTestSim(t)
	sim.theta = 0.05

	now := time.Now()
	dt := 1.0 / 60.0
	for i := 0; i < 300; i++ { // 5 seconds at 60Hz
		now = now.Add(time.Second / 60)
		sim.Step(PointerInput{}, now, dt)
	}

	if math.Abs(sim.Theta()) >= 0.01 {
		t.Errorf("pendulum did not settle: theta = %f", sim.Theta())
	}
	if math.Abs(sim.Omega()) >= 0.01 {
		t.Errorf("pendulum did not settle: omega = %f", sim.Omega())
	}
}

func TestGrabSuspendsPhysics(t *testing.T) {
	sim, _ := newTestSim(t)
	now := time.Now()

	bx, by := sim.Bulb()
	sim.Step(PointerInput{X: bx, Y: by, Present: true, Pressed: true, Down: true}, now, 1.0/60)
	if !sim.Grabbing() {
		t.Fatal("expected grab to begin on pointer down over the bulb")
	}

	// Hold the pointer off-axis; theta must track the pointer angle
	// exactly, with gravity suspended.
	px, py := 480.0+80, 80.0+200
	want := math.Atan2(px-480, py-80)
	for i := 0; i < 120; i++ {
		now = now.Add(time.Second / 60)
		sim.Step(PointerInput{X: px, Y: py, Present: true, Pressed: true}, now, 1.0/60)
	}
	if math.Abs(sim.Theta()-want) > 1e-9 {
		t.Errorf("theta = %f, want pointer angle %f", sim.Theta(), want)
	}
}

func TestGrabClampsTheta(t *testing.T) {
	sim, _ := newTestSim(t)
	now := time.Now()

	bx, by := sim.Bulb()
	sim.Step(PointerInput{X: bx, Y: by, Present: true, Pressed: true, Down: true}, now, 1.0/60)

	// Pointer far to the side subtends well over the amplitude bound.
	now = now.Add(time.Second / 60)
	sim.Step(PointerInput{X: 480 + 900, Y: 80 + 100, Present: true, Pressed: true}, now, 1.0/60)

	if sim.Theta() != config.MaxTheta {
		t.Errorf("theta = %f, want clamp at %f", sim.Theta(), config.MaxTheta)
	}
}

func TestReleaseKickSign(t *testing.T) {
	sim, _ := newTestSim(t)
	now := time.Now()

	bx, by := sim.Bulb()
	sim.Step(PointerInput{X: bx, Y: by, Present: true, Pressed: true, Down: true}, now, 0)
	sim.omega = 0

	// Release right of the pivot moving rightward-and-downward:
	// r=(50,200), v=(300,100), cross = ry*vx - rx*vy > 0.
	in := PointerInput{
		X: 480 + 50, Y: 80 + 200,
		VX: 300, VY: 100,
		Present: true, Up: true,
	}
	now = now.Add(time.Second / 60)
	sim.Step(in, now, 0)

	if sim.Grabbing() {
		t.Fatal("expected grab to end on pointer up")
	}
	if sim.Omega() <= 0 {
		t.Fatalf("omega = %f, want positive kick from (r x v)", sim.Omega())
	}

	cross := 200.0*300 - 50.0*100
	r2 := 50.0*50 + 200.0*200
	want := cross / r2 * config.ReleaseKickGain * config.ReleaseOvershoot
	if math.Abs(sim.Omega()-want) > 1e-9 {
		t.Errorf("omega = %f, want %f", sim.Omega(), want)
	}
}

func TestReleaseOnCancelWithoutKick(t *testing.T) {
	sim, _ := newTestSim(t)
	now := time.Now()

	bx, by := sim.Bulb()
	sim.Step(PointerInput{X: bx, Y: by, Present: true, Pressed: true, Down: true}, now, 0)
	sim.omega = 0

	now = now.Add(time.Second / 60)
	sim.Step(PointerInput{X: bx + 100, Y: by, VX: 5000, Cancel: true}, now, 0)

	if sim.Grabbing() {
		t.Fatal("expected grab to end on cancel")
	}
	if sim.Omega() != 0 {
		t.Errorf("omega = %f, cancel must not impart a kick", sim.Omega())
	}
}

func TestSaturationBleedsOmega(t *testing.T) {
	sim, _ := newTestSim(t)
	sim.theta = config.MaxTheta - 1e-4
	sim.omega = config.MaxOmega

	now := time.Now()
	sim.Step(PointerInput{}, now, 1.0/60)

	if sim.Theta() != config.MaxTheta {
		t.Fatalf("theta = %f, want saturation at the bound", sim.Theta())
	}
	// 22% of omega bled plus one damping step: well below the cap.
	if sim.Omega() >= config.MaxOmega*(1-config.SaturationBleed)+1e-9 {
		t.Errorf("omega = %f, want bleed below %f", sim.Omega(), config.MaxOmega*(1-config.SaturationBleed))
	}
}

func TestGrabArmsSpike(t *testing.T) {
	sim, state := newTestSim(t)
	now := time.Now()

	bx, by := sim.Bulb()
	sim.Step(PointerInput{X: bx, Y: by, Present: true, Pressed: true, Down: true}, now, 0)

	if got := state.SpikeLevel(now); got != 1 {
		t.Errorf("spike level = %f immediately after grab, want 1", got)
	}
	if got := state.SpikeLevel(now.Add(config.SpikeDuration)); got != 0 {
		t.Errorf("spike level = %f after expiry, want 0", got)
	}
}

func TestDTCapped(t *testing.T) {
	sim, _ := newTestSim(t)
	sim.theta = 0.3

	// A huge frame gap (tab resume) must not blow up the integration.
	sim.Step(PointerInput{}, time.Now(), 5.0)

	if math.Abs(sim.Theta()) > config.MaxTheta || math.Abs(sim.Omega()) > config.MaxOmega {
		t.Errorf("state blew up on long frame: theta=%f omega=%f", sim.Theta(), sim.Omega())
	}
}
