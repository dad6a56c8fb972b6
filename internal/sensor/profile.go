// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sensor implements the synthetic sensor telemetry engine: it
// generates physically plausible multi-axis sensor streams for a virtual
// device from a declarative profile, combining baseline values, Gaussian
// noise, bounded calibration drift, activity waveform patterns and a
// randomly evolving ambient environment.
package sensor

import "math"

// Device types.
const (
	DeviceSmartphone = "smartphone"
	DeviceTablet     = "tablet"
	DeviceSmartwatch = "smartwatch"
)

// Activity types.
const (
	ActivityStationary = "stationary"
	ActivityWalking    = "walking"
	ActivityRunning    = "running"
	ActivityDriving    = "driving"
)

// Device positions.
const (
	PositionFlat       = "flat"
	PositionTilted     = "tilted"
	PositionVertical   = "vertical"
	PositionUpsideDown = "upside_down"
)

// Sensor names used throughout the engine.
const (
	SensorAccelerometer = "accelerometer"
	SensorGyroscope     = "gyroscope"
	SensorMagnetometer  = "magnetometer"
	SensorProximity     = "proximity"
	SensorLight         = "light"
	SensorPressure      = "pressure"
	SensorTemperature   = "temperature"
	SensorHumidity      = "humidity"
)

// SensorConfig describes one sensor in a profile. Baseline and Variance may
// be nil; absent values are resolved against the default table, never
// treated as an error.
type SensorConfig struct {
	Enabled  bool               `json:"enabled"`
	Baseline map[string]float64 `json:"baseline,omitempty"`
	Variance map[string]float64 `json:"variance,omitempty"`
}

// SimulationParameters holds the engine tuning knobs of a profile.
type SimulationParameters struct {
	NoiseFactor       float64                `json:"noise_factor"`
	UpdateFrequencyHz float64                `json:"update_frequency"`
	DriftEnabled      bool                   `json:"drift_enabled"`
	DriftFactor       float64                `json:"drift_factor"`
	Patterns          map[string]PatternSpec `json:"patterns,omitempty"`
}

// SensorProfile is the declarative description of a simulated device.
// It is immutable once a simulation has started.
type SensorProfile struct {
	DeviceType   string                  `json:"device_type"`
	ActivityType string                  `json:"activity_type"`
	Position     string                  `json:"position"`
	Sensors      map[string]SensorConfig `json:"sensors"`
	Simulation   SimulationParameters    `json:"simulation_parameters"`
}

const (
	defaultNoiseFactor = 0.05
	defaultUpdateHz    = 50.0
	defaultDriftFactor = 0.001
)

// NewDeviceProfile builds a sensor profile for a device type, activity and
// position. Sensor availability and variance magnitudes are table-driven per
// device type; the activity installs a matching waveform pattern and scales
// the motion-sensor variances. When external is true the motion sensors
// delegate pattern generation to the pluggable provider instead, and the
// rule-based variance scaling is skipped.
func NewDeviceProfile(deviceType, activityType, position string, external bool) *SensorProfile {
	p := &SensorProfile{
		DeviceType:   deviceType,
		ActivityType: activityType,
		Position:     position,
		Sensors:      deviceSensors(deviceType),
		Simulation: SimulationParameters{
			NoiseFactor:       defaultNoiseFactor,
			UpdateFrequencyHz: defaultUpdateHz,
			DriftEnabled:      true,
			DriftFactor:       defaultDriftFactor,
		},
	}
	adjustForActivity(p, activityType, position, external)
	return p
}

func xyz(x, y, z float64) map[string]float64 {
	return map[string]float64{"x": x, "y": y, "z": z}
}

// deviceSensors returns the per-device sensor table. Smartphones carry the
// full set, tablets drop proximity/pressure/temperature, smartwatches show
// larger motion variance and a skin-contact temperature baseline.
func deviceSensors(deviceType string) map[string]SensorConfig {
	switch deviceType {
	case DeviceTablet:
		return map[string]SensorConfig{
			SensorAccelerometer: {Enabled: true, Baseline: xyz(0, 0, 9.81), Variance: xyz(0.08, 0.08, 0.08)},
			SensorGyroscope:     {Enabled: true, Baseline: xyz(0, 0, 0), Variance: xyz(0.015, 0.015, 0.015)},
			SensorMagnetometer:  {Enabled: true, Baseline: xyz(25, 10, 40), Variance: xyz(2, 2, 2)},
			SensorProximity:     {Enabled: false, Baseline: map[string]float64{"distance": 100}, Variance: map[string]float64{"distance": 0}},
			SensorLight:         {Enabled: true, Baseline: map[string]float64{"lux": 500}, Variance: map[string]float64{"lux": 50}},
			SensorPressure:      {Enabled: false, Baseline: map[string]float64{"hPa": 1013.25}, Variance: map[string]float64{"hPa": 0.5}},
			SensorTemperature:   {Enabled: false, Baseline: map[string]float64{"celsius": 22}, Variance: map[string]float64{"celsius": 0.5}},
			SensorHumidity:      {Enabled: false, Baseline: map[string]float64{"percent": 50}, Variance: map[string]float64{"percent": 1}},
		}
	case DeviceSmartwatch:
		return map[string]SensorConfig{
			SensorAccelerometer: {Enabled: true, Baseline: xyz(0, 0, 9.81), Variance: xyz(0.15, 0.15, 0.15)},
			SensorGyroscope:     {Enabled: true, Baseline: xyz(0, 0, 0), Variance: xyz(0.03, 0.03, 0.03)},
			SensorMagnetometer:  {Enabled: true, Baseline: xyz(25, 10, 40), Variance: xyz(3, 3, 3)},
			SensorProximity:     {Enabled: true, Baseline: map[string]float64{"distance": 100}, Variance: map[string]float64{"distance": 0}},
			SensorLight:         {Enabled: true, Baseline: map[string]float64{"lux": 500}, Variance: map[string]float64{"lux": 50}},
			SensorPressure:      {Enabled: false, Baseline: map[string]float64{"hPa": 1013.25}, Variance: map[string]float64{"hPa": 0.5}},
			SensorTemperature:   {Enabled: true, Baseline: map[string]float64{"celsius": 32}, Variance: map[string]float64{"celsius": 0.3}},
			SensorHumidity:      {Enabled: false, Baseline: map[string]float64{"percent": 50}, Variance: map[string]float64{"percent": 1}},
		}
	default: // smartphone
		return map[string]SensorConfig{
			SensorAccelerometer: {Enabled: true, Baseline: xyz(0, 0, 9.81), Variance: xyz(0.1, 0.1, 0.1)},
			SensorGyroscope:     {Enabled: true, Baseline: xyz(0, 0, 0), Variance: xyz(0.02, 0.02, 0.02)},
			SensorMagnetometer:  {Enabled: true, Baseline: xyz(25, 10, 40), Variance: xyz(2, 2, 2)},
			SensorProximity:     {Enabled: true, Baseline: map[string]float64{"distance": 100}, Variance: map[string]float64{"distance": 0}},
			SensorLight:         {Enabled: true, Baseline: map[string]float64{"lux": 500}, Variance: map[string]float64{"lux": 50}},
			SensorPressure:      {Enabled: true, Baseline: map[string]float64{"hPa": 1013.25}, Variance: map[string]float64{"hPa": 0.5}},
			SensorTemperature:   {Enabled: true, Baseline: map[string]float64{"celsius": 22}, Variance: map[string]float64{"celsius": 0.5}},
			SensorHumidity:      {Enabled: false, Baseline: map[string]float64{"percent": 50}, Variance: map[string]float64{"percent": 1}},
		}
	}
}

// adjustForActivity scales motion-sensor variances and installs the
// activity's waveform pattern. With external set, the motion sensors get an
// external PatternSpec and variances are left untouched.
func adjustForActivity(p *SensorProfile, activityType, position string, external bool) {
	if external {
		p.Simulation.Patterns = map[string]PatternSpec{
			SensorAccelerometer: {Type: PatternExternal, Activity: activityType, Position: position},
			SensorGyroscope:     {Type: PatternExternal, Activity: activityType, Position: position},
			SensorMagnetometer:  {Type: PatternExternal, Activity: activityType, Position: position},
		}
		return
	}

	switch activityType {
	case ActivityWalking:
		scaleVariance(p, SensorAccelerometer, 3)
		scaleVariance(p, SensorGyroscope, 2.5)
	case ActivityRunning:
		scaleVariance(p, SensorAccelerometer, 6)
		scaleVariance(p, SensorGyroscope, 5)
	case ActivityDriving:
		scaleVariance(p, SensorAccelerometer, 2)
		scaleVariance(p, SensorGyroscope, 1.5)
	}

	if spec, ok := activityPattern(activityType, position); ok {
		p.Simulation.Patterns = map[string]PatternSpec{SensorAccelerometer: spec}
	}
}

func scaleVariance(p *SensorProfile, name string, factor float64) {
	sc, ok := p.Sensors[name]
	if !ok {
		return
	}
	for axis := range sc.Variance {
		sc.Variance[axis] *= factor
	}
}

// activityPattern returns the rule-based accelerometer pattern for an
// activity, already adjusted for the device position. Stationary has none.
func activityPattern(activityType, position string) (PatternSpec, bool) {
	var spec PatternSpec
	switch activityType {
	case ActivityWalking:
		spec = PatternSpec{
			Type:      PatternSine,
			Amplitude: xyz(0.8, 1.2, 1.5),
			Frequency: xyz(1.8, 1.8, 1.8),
			Phase:     xyz(0, math.Pi/2, math.Pi/4),
		}
	case ActivityRunning:
		spec = PatternSpec{
			Type:      PatternSine,
			Amplitude: xyz(1.5, 2.5, 3.0),
			Frequency: xyz(3.0, 3.0, 3.0),
			Phase:     xyz(0, math.Pi/2, math.Pi/4),
		}
	case ActivityDriving:
		spec = PatternSpec{
			Type: PatternMixed,
			Smooth: &SmoothSpec{
				Amplitude: xyz(0.3, 0.3, 0.2),
				Frequency: xyz(0.5, 0.5, 0.5),
			},
			JoltProbability: 0.01,
			JoltMagnitude:   xyz(3, 3, 2),
		}
	default:
		return PatternSpec{}, false
	}

	// Position reshapes the sine amplitudes: tilted shifts motion into the
	// x axis, vertical moves it off the z axis, upside_down inverts z.
	if spec.Type == PatternSine {
		switch position {
		case PositionTilted:
			spec.Amplitude["x"] *= 1.5
			spec.Amplitude["y"] *= 0.8
		case PositionVertical:
			spec.Amplitude["z"] *= 0.5
			spec.Amplitude["x"] *= 1.2
			spec.Amplitude["y"] *= 1.2
		case PositionUpsideDown:
			spec.Amplitude["z"] *= -1
		}
	}
	return spec, true
}
