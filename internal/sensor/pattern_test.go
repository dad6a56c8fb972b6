package sensor

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestSineIsPure(t *testing.T) {
	spec, ok := activityPattern(ActivityWalking, PositionFlat)
	if !ok {
		t.Fatal("walking pattern missing")
	}
	for _, tv := range []float64{0, 0.137, 1.0, 17.77, 3600} {
		a := evalSine(spec.Amplitude, spec.Frequency, spec.Phase, tv)
		b := evalSine(spec.Amplitude, spec.Frequency, spec.Phase, tv)
		for axis := range a {
			if a[axis] != b[axis] {
				t.Fatalf("t=%v axis %s: %v != %v", tv, axis, a[axis], b[axis])
			}
		}
	}
}

func TestWalkingSineAtTimeZero(t *testing.T) {
	spec := PatternSpec{
		Type:      PatternSine,
		Amplitude: xyz(0.8, 1.2, 1.5),
		Frequency: xyz(1.8, 1.8, 1.8),
		Phase:     xyz(0, math.Pi/2, math.Pi/4),
	}
	got := evalSine(spec.Amplitude, spec.Frequency, spec.Phase, 0)

	if got["x"] != 0 {
		t.Fatalf("x: expected 0, got %v", got["x"])
	}
	if math.Abs(got["y"]-1.2) > 1e-12 {
		t.Fatalf("y: expected 1.2, got %v", got["y"])
	}
	if math.Abs(got["z"]-1.5*math.Sin(math.Pi/4)) > 1e-12 {
		t.Fatalf("z: expected %v, got %v", 1.5*math.Sin(math.Pi/4), got["z"])
	}
}

func TestRealisticStepBoundary(t *testing.T) {
	e := patternEvaluator{rng: rand.New(rand.NewSource(1))}
	spec := PatternSpec{Type: PatternRealistic, StepFrequency: 2.0, StepIntensity: 1.5}

	// t=0 puts step_phase at exactly 0: sin(0)=0, so the impact term
	// vanishes and the vertical offset is exactly 9.81.
	got := e.offsets(SensorAccelerometer, spec, 0)
	if got["z"] != 9.81 {
		t.Fatalf("z at phase 0: expected 9.81, got %v", got["z"])
	}
	if got["x"] != 0 || got["y"] != 0 {
		t.Fatalf("horizontal jitter should scale to zero at phase 0, got %v", got)
	}
}

func TestMixedJoltNeverPersists(t *testing.T) {
	e := patternEvaluator{rng: rand.New(rand.NewSource(2))}
	spec := PatternSpec{
		Type:            PatternMixed,
		Smooth:          &SmoothSpec{Amplitude: xyz(0.3, 0.3, 0.2), Frequency: xyz(0.5, 0.5, 0.5)},
		JoltProbability: 1.0, // force a jolt every tick
		JoltMagnitude:   xyz(3, 3, 2),
	}
	smoothOnly := spec
	smoothOnly.JoltProbability = 0

	// A jolted evaluation at time t must not influence a later jolt-free
	// evaluation: the smooth component alone is a function of t.
	_ = e.offsets(SensorAccelerometer, spec, 0.25)
	got := e.offsets(SensorAccelerometer, smoothOnly, 0.5)
	want := 0.3 * math.Sin(2*math.Pi*0.5*0.5)
	if math.Abs(got["x"]-want) > 1e-12 {
		t.Fatalf("smooth x: expected %v, got %v", want, got["x"])
	}
}

type failingProvider struct{}

func (failingProvider) Generate(sensor, activityType, position string, t float64) (Vec3, error) {
	return Vec3{}, errors.New("model not trained")
}

type fixedProvider struct{ v Vec3 }

func (p fixedProvider) Generate(sensor, activityType, position string, t float64) (Vec3, error) {
	return p.v, nil
}

func TestExternalProviderFailureFallsBack(t *testing.T) {
	spec := PatternSpec{Type: PatternExternal, Activity: ActivityWalking, Position: PositionFlat}
	e := patternEvaluator{rng: rand.New(rand.NewSource(3)), provider: failingProvider{}}

	walking, _ := activityPattern(ActivityWalking, PositionFlat)
	for _, tv := range []float64{0, 0.1, 0.5, 2.0} {
		got := e.offsets(SensorAccelerometer, spec, tv)
		want := evalSine(walking.Amplitude, walking.Frequency, walking.Phase, tv)
		for axis := range want {
			if got[axis] != want[axis] {
				t.Fatalf("t=%v axis %s: fallback %v, built-in %v", tv, axis, got[axis], want[axis])
			}
		}
	}

	// A rule-based walking profile patterns only the accelerometer, so
	// the degraded gyroscope and magnetometer must contribute nothing.
	for _, name := range []string{SensorGyroscope, SensorMagnetometer} {
		for _, tv := range []float64{0, 0.1, 0.5, 2.0} {
			if got := e.offsets(name, spec, tv); got != nil {
				t.Fatalf("%s t=%v: fallback should contribute nothing, got %v", name, tv, got)
			}
		}
	}
}

func TestExternalProviderFailureDoesNotKillTicks(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityWalking, PositionFlat, true)
	s := NewSimulatorSeeded(p, 4)
	if err := s.SetPatternProvider(failingProvider{}); err != nil {
		t.Fatalf("SetPatternProvider: %v", err)
	}

	runTicks(s, p, stillEnvironment(), 100)
	accel := s.CurrentValues()[SensorAccelerometer]
	if len(accel) == 0 {
		t.Fatal("no accelerometer values after 100 ticks with failing provider")
	}
	for axis, v := range accel {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("axis %s not finite: %v", axis, v)
		}
	}
}

func TestExternalProviderResultUsed(t *testing.T) {
	spec := PatternSpec{Type: PatternExternal, Activity: ActivityWalking, Position: PositionFlat}
	e := patternEvaluator{rng: rand.New(rand.NewSource(5)), provider: fixedProvider{Vec3{X: 1, Y: 2, Z: 3}}}
	got := e.offsets(SensorAccelerometer, spec, 1.0)
	if got["x"] != 1 || got["y"] != 2 || got["z"] != 3 {
		t.Fatalf("provider offsets not used: %v", got)
	}
}

func TestExternalStationaryFallbackIsNoPattern(t *testing.T) {
	spec := PatternSpec{Type: PatternExternal, Activity: ActivityStationary, Position: PositionFlat}
	e := patternEvaluator{rng: rand.New(rand.NewSource(6))}
	if got := e.offsets(SensorAccelerometer, spec, 1.0); got != nil {
		t.Fatalf("stationary fallback should contribute nothing, got %v", got)
	}
}
