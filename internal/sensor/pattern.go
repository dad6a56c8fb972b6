// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensor

import (
	"log"
	"math"
	"math/rand"
)

// Pattern types.
const (
	PatternSine      = "sine"
	PatternMixed     = "mixed"
	PatternRealistic = "realistic"
	PatternExternal  = "external"
)

// Vec3 is a single three-axis sample from an external pattern provider.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// PatternProvider is the pluggable strategy for learned activity waveforms.
// Generate returns the per-axis offset for a sensor at simulated time t.
// Any error degrades the engine to its built-in rule-based pattern for that
// tick; it is never propagated to the caller.
type PatternProvider interface {
	Generate(sensor, activityType, position string, t float64) (Vec3, error)
}

// SmoothSpec is the continuous component of a mixed pattern.
type SmoothSpec struct {
	Amplitude map[string]float64 `json:"amplitude"`
	Frequency map[string]float64 `json:"frequency"`
}

// PatternSpec describes one activity waveform. Type selects the variant;
// only the fields of that variant are populated. The JSON layout matches
// the stored profile documents.
type PatternSpec struct {
	Type string `json:"type"`

	// sine
	Amplitude map[string]float64 `json:"amplitude,omitempty"`
	Frequency map[string]float64 `json:"frequency,omitempty"`
	Phase     map[string]float64 `json:"phase,omitempty"`

	// mixed
	Smooth          *SmoothSpec        `json:"smooth,omitempty"`
	JoltProbability float64            `json:"jolt_probability,omitempty"`
	JoltMagnitude   map[string]float64 `json:"jolt_magnitude,omitempty"`

	// realistic
	StepFrequency float64 `json:"step_frequency,omitempty"`
	StepIntensity float64 `json:"step_intensity,omitempty"`

	// external
	Activity string `json:"activity,omitempty"`
	Position string `json:"position,omitempty"`
}

// patternEvaluator turns a PatternSpec into per-axis offsets at a given
// simulated time. Evaluation depends only on the pattern time value, never
// on wall-clock jitter, so a replay with the same times reproduces the same
// deterministic components.
type patternEvaluator struct {
	rng      *rand.Rand
	provider PatternProvider
}

// offsets evaluates spec at pattern time t. A nil result means the pattern
// contributes nothing this tick.
func (e *patternEvaluator) offsets(sensorName string, spec PatternSpec, t float64) map[string]float64 {
	switch spec.Type {
	case PatternSine:
		return evalSine(spec.Amplitude, spec.Frequency, spec.Phase, t)

	case PatternMixed:
		return e.evalMixed(spec, t)

	case PatternRealistic:
		return e.evalRealistic(spec, t)

	case PatternExternal:
		if e.provider != nil {
			v, err := e.provider.Generate(sensorName, spec.Activity, spec.Position, t)
			if err == nil {
				return xyz(v.X, v.Y, v.Z)
			}
			log.Printf("engine: pattern provider error for %s, using built-in pattern: %v", sensorName, err)
		}
		// Degrade to the rule-based pattern the same activity would
		// install. Only the accelerometer carries one; other sensors
		// contribute nothing, matching a rule-based profile.
		if sensorName == SensorAccelerometer {
			if fb, ok := activityPattern(spec.Activity, spec.Position); ok {
				return e.offsets(sensorName, fb, t)
			}
		}
		return nil
	}
	return nil
}

// evalSine is a pure function of t: same time in, bit-identical offsets out.
func evalSine(amplitude, frequency, phase map[string]float64, t float64) map[string]float64 {
	if len(amplitude) == 0 {
		return nil
	}
	out := make(map[string]float64, len(amplitude))
	for axis, amp := range amplitude {
		freq, ok := frequency[axis]
		if !ok {
			continue
		}
		out[axis] = amp * math.Sin(2*math.Pi*freq*t+phase[axis])
	}
	return out
}

// evalMixed sums a smooth sine component with occasional random jolts.
// Jolts are drawn fresh each tick and never persisted.
func (e *patternEvaluator) evalMixed(spec PatternSpec, t float64) map[string]float64 {
	out := map[string]float64{}
	if spec.Smooth != nil {
		for axis, amp := range spec.Smooth.Amplitude {
			freq, ok := spec.Smooth.Frequency[axis]
			if !ok {
				continue
			}
			out[axis] = amp * math.Sin(2*math.Pi*freq*t)
		}
	}
	if spec.JoltProbability > 0 && e.rng.Float64() < spec.JoltProbability {
		for axis, mag := range spec.JoltMagnitude {
			out[axis] += uniform(e.rng, -mag, mag)
		}
	}
	return out
}

// evalRealistic models a gait cycle: a sharp impact phase followed by a
// longer recovery/flight phase. step_phase < 0.2 is the impact.
func (e *patternEvaluator) evalRealistic(spec PatternSpec, t float64) map[string]float64 {
	stepFrequency := spec.StepFrequency
	if stepFrequency == 0 {
		stepFrequency = 1.8
	}
	stepIntensity := spec.StepIntensity
	if stepIntensity == 0 {
		stepIntensity = 1.0
	}

	stepPhase := math.Mod(t*stepFrequency, 1.0)
	if stepPhase < 0.2 {
		impact := math.Sin(stepPhase*math.Pi/0.2) * stepIntensity
		return xyz(
			uniform(e.rng, -0.2, 0.2)*impact,
			uniform(e.rng, -0.2, 0.2)*impact,
			9.81+impact*2.0,
		)
	}
	recovery := math.Sin((stepPhase-0.2)*math.Pi/0.8) * 0.5 * stepIntensity
	return xyz(
		uniform(e.rng, -0.1, 0.1)*recovery,
		uniform(e.rng, -0.1, 0.1)*recovery,
		9.81-recovery,
	)
}
