package telemetry

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pitwall-io/pitwall/internal/overlay/system"
)

// Lap timing constants. A new target duration is drawn per lap as a bounded
// jitter around the nominal, which models lap-to-lap variance without drift.
const (
	lapNominalS   = 95.0
	lapJitterLowS = -2.4
	lapJitterHiS  = 2.8
)

// StatsFunc supplies the host metrics embedded in each snapshot.
type StatsFunc func() system.Stats

// Simulator is a deterministic, time-driven telemetry source. Given the same
// seed and the same clock readings it produces the same snapshots, so runs
// are reproducible.
type Simulator struct {
	now   func() time.Time
	rng   *rand.Rand
	stats StatsFunc

	started    time.Time
	lap        int
	lapStarted time.Time
	lapTargetS float64
	bestLapS   float64
	lastLapS   float64
}

// NewSimulator creates a Simulator seeded for reproducible runs.
func NewSimulator(seed int64, stats StatsFunc) *Simulator {
	return newSimulator(seed, stats, time.Now)
}

// newSimulator exists so tests can drive the clock explicitly. The lap start
// is initialized here, at construction, so the first Sample cannot observe a
// spurious lap completion.
func newSimulator(seed int64, stats StatsFunc, now func() time.Time) *Simulator {
	if stats == nil {
		stats = func() system.Stats { return system.Stats{} }
	}

	start := now()
	return &Simulator{
		now:        now,
		rng:        rand.New(rand.NewSource(seed)),
		stats:      stats,
		started:    start,
		lap:        2,
		lapStarted: start,
		lapTargetS: 96.2,
		bestLapS:   95.612,
		lastLapS:   96.401,
	}
}

// Sample advances the lap state machine to the current time and returns one
// snapshot. All bounded channels are clamped to their documented ranges.
func (s *Simulator) Sample() Snapshot {
	now := s.now()
	s.advanceLap(now)

	sinceStart := now.Sub(s.started).Seconds()
	lapTime := now.Sub(s.lapStarted).Seconds()
	progress := clamp(lapTime/s.lapTargetS, 0.0, 1.0)
	theta := progress * 2 * math.Pi

	// Motion channels superpose several frequencies of the lap phase and of
	// absolute elapsed time so the signal never looks perfectly periodic.
	speed := 82.0 + 26.0*math.Sin(theta*1.9+0.6)
	speed += 13.0 * math.Sin(theta*5.4-0.8)
	speed += 4.0 * math.Sin(sinceStart*0.9)
	speedMPH := clamp(speed, 24.0, 132.0)

	throttle := clamp(0.63+0.33*math.Sin(theta*2.2+1.1), 0.0, 1.0)
	brake := clamp(0.18+0.25*math.Sin(theta*2.2-1.2), 0.0, 1.0)
	if throttle > 0.7 {
		brake *= 0.25
	}

	rpm := 1700.0 + (speedMPH * 61.0) + (throttle * 1300.0) - (brake * 900.0)
	rpm += 240.0 * math.Sin(sinceStart*8.8)
	rpm = clamp(rpm, 1200.0, 8900.0)

	gLat := clamp(1.55*math.Sin(theta*3.0+0.4), -2.0, 2.0)
	gLong := clamp(1.00*math.Sin(theta*2.1-0.8)+(throttle-brake)*0.35, -1.6, 1.6)

	trackX := clamp(0.50+0.34*math.Sin(theta)+0.08*math.Sin(theta*3.0+0.5), 0.02, 0.98)
	trackY := clamp(0.50+0.28*math.Cos(theta)-0.10*math.Sin(theta*2.0+1.3), 0.02, 0.98)

	predictedDelta := -0.38 + 0.28*math.Sin(sinceStart*0.23) + s.uniform(-0.02, 0.02)

	return Snapshot{
		TSEpochS: float64(now.UnixNano()) / float64(time.Second),
		SpeedMPH: roundTo(speedMPH, 1),
		RPM:      int(rpm),
		Gear:     gearFor(speedMPH),
		GLat:     roundTo(gLat, 2),
		GLong:    roundTo(gLong, 2),
		Throttle: roundTo(throttle, 3),
		Brake:    roundTo(brake, 3),
		Lap: Lap{
			Number:          s.lap,
			CurrentTimeS:    roundTo(lapTime, 3),
			LastTimeS:       roundTo(s.lastLapS, 3),
			BestTimeS:       roundTo(s.bestLapS, 3),
			PredictedDeltaS: roundTo(predictedDelta, 3),
			Progress:        roundTo(progress, 4),
		},
		Track: Track{
			X: roundTo(trackX, 4),
			Y: roundTo(trackY, 4),
		},
		System: s.stats(),
		Meta: Meta{
			Source:    "simulated",
			UpdatedAt: formatSecs(sinceStart),
		},
	}
}

// advanceLap completes the current lap once its target duration has elapsed:
// last lap recorded, best lap kept as the minimum, lap number incremented and
// a fresh jittered target drawn.
func (s *Simulator) advanceLap(now time.Time) {
	elapsed := now.Sub(s.lapStarted).Seconds()
	if elapsed < s.lapTargetS {
		return
	}

	s.lastLapS = elapsed
	s.bestLapS = math.Min(s.bestLapS, s.lastLapS)
	s.lap++
	s.lapStarted = now
	s.lapTargetS = lapNominalS + s.uniform(lapJitterLowS, lapJitterHiS)
}

func (s *Simulator) uniform(low, high float64) float64 {
	return low + s.rng.Float64()*(high-low)
}

// gearFor maps speed to a gear through six fixed thresholds.
func gearFor(speedMPH float64) string {
	switch {
	case speedMPH < 18:
		return "N"
	case speedMPH < 31:
		return "1"
	case speedMPH < 47:
		return "2"
	case speedMPH < 70:
		return "3"
	case speedMPH < 93:
		return "4"
	case speedMPH < 114:
		return "5"
	default:
		return "6"
	}
}

// formatSecs renders seconds as MM:SS.mmm for the HUD clock.
func formatSecs(value float64) string {
	minutes := int(value) / 60
	seconds := value - float64(minutes*60)
	return fmt.Sprintf("%02d:%06.3f", minutes, seconds)
}

func clamp(value, low, high float64) float64 {
	return math.Max(low, math.Min(high, value))
}

func roundTo(value float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(value*shift) / shift
}
