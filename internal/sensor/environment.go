// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensor

import (
	"math"
	"math/rand"
	"time"
)

// Lighting levels.
const (
	LightingDark       = "dark"
	LightingDim        = "dim"
	LightingNormal     = "normal"
	LightingBright     = "bright"
	LightingVeryBright = "very_bright"
)

// Movement intensities.
const (
	MovementNone        = "none"
	MovementSlight      = "slight"
	MovementModerate    = "moderate"
	MovementSignificant = "significant"
)

// EnvironmentState is the ambient context a device sits in. It is re-rolled
// at random intervals and influences several sensors at once.
type EnvironmentState struct {
	Lighting             string  `json:"lighting"`
	Movement             string  `json:"movement"`
	Position             string  `json:"position"`
	Temperature          float64 `json:"temperature"` // °C, [15,35]
	Pressure             float64 `json:"pressure"`    // hPa, [980,1030]
	Humidity             float64 `json:"humidity"`    // %, [20,80]
	MagneticInterference float64 `json:"magnetic_interference"` // [0,1]
}

var (
	lightingLevels = []string{LightingDark, LightingDim, LightingNormal, LightingBright, LightingVeryBright}
	movementLevels = []string{MovementNone, MovementSlight, MovementModerate, MovementSignificant}
	positions      = []string{PositionFlat, PositionTilted, PositionVertical, PositionUpsideDown}
)

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// rollEnvironment samples a fresh ambient state.
func rollEnvironment(rng *rand.Rand) EnvironmentState {
	return EnvironmentState{
		Lighting:             lightingLevels[rng.Intn(len(lightingLevels))],
		Movement:             movementLevels[rng.Intn(len(movementLevels))],
		Position:             positions[rng.Intn(len(positions))],
		Temperature:          uniform(rng, 15, 35),
		Pressure:             uniform(rng, 980, 1030),
		Humidity:             uniform(rng, 20, 80),
		MagneticInterference: rng.Float64(),
	}
}

// rollInterval samples how long the current environment state stays valid.
func rollInterval(rng *rand.Rand) time.Duration {
	return time.Duration(uniform(rng, 5, 30) * float64(time.Second))
}

// movementJitter amplitude bands per intensity level.
var movementAccelBand = map[string]float64{
	MovementSlight:      0.2,
	MovementModerate:    0.5,
	MovementSignificant: 1.0,
}

var movementGyroBand = map[string]float64{
	MovementSlight:      0.1,
	MovementModerate:    0.3,
	MovementSignificant: 0.8,
}

// environmentContribution maps the current ambient state onto per-axis
// offsets for one sensor. Offsets are expressed relative to the sensor's
// default-table baseline so the additive composition in the tick reproduces
// the absolute target: a flat, motionless device contributes exactly zero
// on every axis.
func environmentContribution(rng *rand.Rand, name string, env EnvironmentState) map[string]float64 {
	switch name {
	case SensorAccelerometer:
		return accelContribution(rng, env)

	case SensorGyroscope:
		band, ok := movementGyroBand[env.Movement]
		if !ok {
			return map[string]float64{"x": 0, "y": 0, "z": 0}
		}
		return xyz(
			uniform(rng, -band, band),
			uniform(rng, -band, band),
			uniform(rng, -band, band),
		)

	case SensorMagnetometer:
		// Earth field sits in the baseline; only interference shows up here.
		i := env.MagneticInterference
		return xyz(
			i*uniform(rng, -10, 10),
			i*uniform(rng, -10, 10),
			i*uniform(rng, -10, 10),
		)

	case SensorLight:
		var lux float64
		switch env.Lighting {
		case LightingDark:
			lux = uniform(rng, 0, 10)
		case LightingDim:
			lux = uniform(rng, 10, 100)
		case LightingNormal:
			lux = uniform(rng, 100, 500)
		case LightingBright:
			lux = uniform(rng, 500, 2000)
		case LightingVeryBright:
			lux = uniform(rng, 2000, 10000)
		default:
			return nil
		}
		return map[string]float64{"lux": lux - defaultBaselines[SensorLight]["lux"]}

	case SensorProximity:
		// While the device is motionless there is a small chance an object
		// (a face, a pocket) sits close to the sensor.
		if env.Movement == MovementNone && rng.Float64() > 0.9 {
			return map[string]float64{"distance": uniform(rng, 0, 5) - defaultBaselines[SensorProximity]["distance"]}
		}
		return map[string]float64{"distance": 0}

	case SensorPressure:
		return map[string]float64{"hPa": env.Pressure - defaultBaselines[SensorPressure]["hPa"]}

	case SensorTemperature:
		return map[string]float64{"celsius": env.Temperature - defaultBaselines[SensorTemperature]["celsius"]}

	case SensorHumidity:
		return map[string]float64{"percent": env.Humidity - defaultBaselines[SensorHumidity]["percent"]}
	}

	return nil
}

// accelContribution decomposes gravity for the ambient position and layers
// movement jitter on top. The flat orientation is the reference, so its
// gravity term cancels to zero.
func accelContribution(rng *rand.Rand, env EnvironmentState) map[string]float64 {
	const g = 9.81
	var out map[string]float64

	switch env.Position {
	case PositionTilted:
		tilt := uniform(rng, 0, 45) * math.Pi / 180
		azimuth := uniform(rng, 0, 2*math.Pi)
		out = xyz(
			g*math.Sin(tilt)*math.Cos(azimuth),
			g*math.Sin(tilt)*math.Sin(azimuth),
			g*math.Cos(tilt)-g,
		)
	case PositionVertical:
		tilt := uniform(rng, 80, 100) * math.Pi / 180
		azimuth := uniform(rng, 0, 2*math.Pi)
		out = xyz(
			g*math.Sin(tilt)*math.Cos(azimuth),
			g*math.Sin(tilt)*math.Sin(azimuth),
			g*math.Cos(tilt)-g,
		)
	case PositionUpsideDown:
		out = xyz(jitter(rng, env), jitter(rng, env), -2*g)
	default: // flat
		out = xyz(jitter(rng, env), jitter(rng, env), 0)
	}

	if band, ok := movementAccelBand[env.Movement]; ok {
		for axis := range out {
			out[axis] += uniform(rng, -band, band)
		}
	}
	return out
}

// jitter is the small residual wobble of a resting device; it vanishes when
// there is no movement at all.
func jitter(rng *rand.Rand, env EnvironmentState) float64 {
	if env.Movement == MovementNone {
		return 0
	}
	return uniform(rng, -0.1, 0.1)
}
