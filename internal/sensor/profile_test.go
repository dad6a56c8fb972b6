package sensor

import (
	"encoding/json"
	"math"
	"testing"
)

func TestSmartphoneSensorTable(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityStationary, PositionFlat, false)

	if !p.Sensors[SensorAccelerometer].Enabled {
		t.Fatal("smartphone accelerometer should be enabled")
	}
	if p.Sensors[SensorHumidity].Enabled {
		t.Fatal("smartphone humidity should be disabled")
	}
	if got := p.Sensors[SensorAccelerometer].Baseline["z"]; got != 9.81 {
		t.Fatalf("accelerometer z baseline: %v", got)
	}
	if p.Simulation.UpdateFrequencyHz != 50 {
		t.Fatalf("default update frequency: %v", p.Simulation.UpdateFrequencyHz)
	}
}

func TestTabletDropsHandsetSensors(t *testing.T) {
	p := NewDeviceProfile(DeviceTablet, ActivityStationary, PositionFlat, false)
	for _, name := range []string{SensorProximity, SensorPressure, SensorTemperature} {
		if p.Sensors[name].Enabled {
			t.Fatalf("tablet %s should be disabled", name)
		}
	}
	if got := p.Sensors[SensorAccelerometer].Variance["x"]; got != 0.08 {
		t.Fatalf("tablet accelerometer variance: %v", got)
	}
}

func TestSmartwatchSkinTemperature(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartwatch, ActivityStationary, PositionFlat, false)
	if got := p.Sensors[SensorTemperature].Baseline["celsius"]; got != 32 {
		t.Fatalf("smartwatch temperature baseline: %v", got)
	}
	if got := p.Sensors[SensorAccelerometer].Variance["x"]; got != 0.15 {
		t.Fatalf("smartwatch accelerometer variance: %v", got)
	}
}

func TestWalkingScalesVarianceAndInstallsPattern(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityWalking, PositionFlat, false)

	if got := p.Sensors[SensorAccelerometer].Variance["x"]; math.Abs(got-0.3) > 1e-12 {
		t.Fatalf("accelerometer variance after walking scale: %v", got)
	}
	if got := p.Sensors[SensorGyroscope].Variance["x"]; math.Abs(got-0.05) > 1e-12 {
		t.Fatalf("gyroscope variance after walking scale: %v", got)
	}

	spec, ok := p.Simulation.Patterns[SensorAccelerometer]
	if !ok {
		t.Fatal("walking profile missing accelerometer pattern")
	}
	if spec.Type != PatternSine || spec.Frequency["x"] != 1.8 {
		t.Fatalf("unexpected walking pattern: %+v", spec)
	}
}

func TestRunningPatternFasterThanWalking(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityRunning, PositionFlat, false)
	spec := p.Simulation.Patterns[SensorAccelerometer]
	if spec.Frequency["x"] != 3.0 || spec.Amplitude["z"] != 3.0 {
		t.Fatalf("unexpected running pattern: %+v", spec)
	}
	if got := p.Sensors[SensorAccelerometer].Variance["x"]; math.Abs(got-0.6) > 1e-12 {
		t.Fatalf("accelerometer variance after running scale: %v", got)
	}
}

func TestDrivingMixedPattern(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityDriving, PositionFlat, false)
	spec := p.Simulation.Patterns[SensorAccelerometer]
	if spec.Type != PatternMixed {
		t.Fatalf("expected mixed pattern, got %q", spec.Type)
	}
	if spec.JoltProbability != 0.01 || spec.JoltMagnitude["z"] != 2 {
		t.Fatalf("unexpected jolt parameters: %+v", spec)
	}
	if spec.Smooth == nil || spec.Smooth.Frequency["x"] != 0.5 {
		t.Fatalf("unexpected smooth component: %+v", spec.Smooth)
	}
}

func TestPositionReshapesSineAmplitudes(t *testing.T) {
	flat := NewDeviceProfile(DeviceSmartphone, ActivityWalking, PositionFlat, false)
	base := flat.Simulation.Patterns[SensorAccelerometer].Amplitude

	tilted := NewDeviceProfile(DeviceSmartphone, ActivityWalking, PositionTilted, false)
	amp := tilted.Simulation.Patterns[SensorAccelerometer].Amplitude
	if math.Abs(amp["x"]-base["x"]*1.5) > 1e-12 || math.Abs(amp["y"]-base["y"]*0.8) > 1e-12 {
		t.Fatalf("tilted amplitudes: %v", amp)
	}

	upside := NewDeviceProfile(DeviceSmartphone, ActivityWalking, PositionUpsideDown, false)
	if got := upside.Simulation.Patterns[SensorAccelerometer].Amplitude["z"]; got != -base["z"] {
		t.Fatalf("upside_down z amplitude: %v", got)
	}
}

func TestExternalProfileSkipsRuleAdjustments(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityRunning, PositionVertical, true)

	// Variances stay at the device table values when the provider shapes
	// the waveform.
	if got := p.Sensors[SensorAccelerometer].Variance["x"]; got != 0.1 {
		t.Fatalf("variance scaled despite external patterns: %v", got)
	}
	for _, name := range []string{SensorAccelerometer, SensorGyroscope, SensorMagnetometer} {
		spec, ok := p.Simulation.Patterns[name]
		if !ok || spec.Type != PatternExternal {
			t.Fatalf("%s: expected external pattern, got %+v", name, spec)
		}
		if spec.Activity != ActivityRunning || spec.Position != PositionVertical {
			t.Fatalf("%s: activity/position not carried: %+v", name, spec)
		}
	}
}

func TestProfileJSONRoundTrip(t *testing.T) {
	p := NewDeviceProfile(DeviceSmartphone, ActivityDriving, PositionTilted, false)
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back SensorProfile
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Simulation.Patterns[SensorAccelerometer].Type != PatternMixed {
		t.Fatalf("pattern lost in round trip: %+v", back.Simulation.Patterns)
	}
	if back.Sensors[SensorLight].Baseline["lux"] != 500 {
		t.Fatal("baseline lost in round trip")
	}
}
