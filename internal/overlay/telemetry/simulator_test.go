package telemetry

import (
	"reflect"
	"testing"
	"time"
)

// manualClock drives the simulator's time explicitly.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func checkBounds(t *testing.T, snap Snapshot) {
	t.Helper()

	bounds := []struct {
		name      string
		value     float64
		low, high float64
	}{
		{"speed_mph", snap.SpeedMPH, 24.0, 132.0},
		{"rpm", float64(snap.RPM), 1200.0, 8900.0},
		{"g_lat", snap.GLat, -2.0, 2.0},
		{"g_long", snap.GLong, -1.6, 1.6},
		{"throttle", snap.Throttle, 0.0, 1.0},
		{"brake", snap.Brake, 0.0, 1.0},
		{"progress", snap.Lap.Progress, 0.0, 1.0},
		{"track_x", snap.Track.X, 0.02, 0.98},
		{"track_y", snap.Track.Y, 0.02, 0.98},
	}

	for _, b := range bounds {
		if b.value < b.low || b.value > b.high {
			t.Errorf("%s = %v, outside [%v, %v]", b.name, b.value, b.low, b.high)
		}
	}
}

func TestSimulatorLapMonotonicity(t *testing.T) {
	clock := newManualClock()
	sim := newSimulator(24, nil, clock.Now)

	prevLap := 0
	prevBest := sim.bestLapS
	for i := 0; i < 600; i++ {
		clock.Advance(10 * time.Second)
		snap := sim.Sample()

		if snap.Lap.Number < prevLap {
			t.Fatalf("lap number decreased: %d -> %d", prevLap, snap.Lap.Number)
		}
		if snap.Lap.BestTimeS > prevBest+1e-9 {
			t.Fatalf("best lap increased: %v -> %v", prevBest, snap.Lap.BestTimeS)
		}
		prevLap = snap.Lap.Number
		prevBest = snap.Lap.BestTimeS

		checkBounds(t, snap)
	}

	if prevLap <= 2 {
		t.Fatalf("expected laps to complete over 6000s, still on lap %d", prevLap)
	}
}

func TestSimulatorColdStart(t *testing.T) {
	clock := newManualClock()
	sim := newSimulator(24, nil, clock.Now)

	snap := sim.Sample()
	if snap.Lap.Number != 2 {
		t.Errorf("cold start must not complete a lap, lap = %d", snap.Lap.Number)
	}
	if snap.Lap.CurrentTimeS != 0 {
		t.Errorf("lap time must start at zero, got %v", snap.Lap.CurrentTimeS)
	}
	if snap.Lap.LastTimeS != 96.401 {
		t.Errorf("last lap time changed on cold start: %v", snap.Lap.LastTimeS)
	}
}

func TestSimulatorDeterminism(t *testing.T) {
	clockA := newManualClock()
	clockB := newManualClock()
	simA := newSimulator(24, nil, clockA.Now)
	simB := newSimulator(24, nil, clockB.Now)

	for i := 0; i < 50; i++ {
		clockA.Advance(3 * time.Second)
		clockB.Advance(3 * time.Second)
		a, b := simA.Sample(), simB.Sample()
		if !reflect.DeepEqual(a, b) {
			t.Fatalf("same seed diverged at step %d:\n%+v\n%+v", i, a, b)
		}
	}
}

func TestSimulatorBoundsAtLargeTimes(t *testing.T) {
	clock := newManualClock()
	sim := newSimulator(7, nil, clock.Now)

	for _, jump := range []time.Duration{
		time.Hour,
		24 * time.Hour,
		30 * 24 * time.Hour,
	} {
		clock.Advance(jump)
		checkBounds(t, sim.Sample())
	}
}

func TestGearStepFunction(t *testing.T) {
	tests := []struct {
		speed float64
		want  string
	}{
		{10, "N"},
		{17.9, "N"},
		{18, "1"},
		{40, "2"},
		{60, "3"},
		{80, "4"},
		{100, "5"},
		{120, "6"},
	}

	for _, tt := range tests {
		if got := gearFor(tt.speed); got != tt.want {
			t.Errorf("gearFor(%v) = %q, want %q", tt.speed, got, tt.want)
		}
	}
}

func TestFormatSecs(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "00:00.000"},
		{65.5, "01:05.500"},
		{96.401, "01:36.401"},
		{600.25, "10:00.250"},
	}

	for _, tt := range tests {
		if got := formatSecs(tt.in); got != tt.want {
			t.Errorf("formatSecs(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
