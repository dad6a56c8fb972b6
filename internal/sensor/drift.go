package sensor

import "math/rand"

// driftState tracks the slow calibration drift of every enabled sensor axis
// as a bounded random walk. Values never leave [-driftLimit, driftLimit].
type driftState map[string]map[string]float64

const driftLimit = 0.5

// newDriftState zeroes drift for every axis in the resolved baseline of
// every enabled sensor.
func newDriftState(p *SensorProfile) driftState {
	d := make(driftState, len(p.Sensors))
	for name, cfg := range p.Sensors {
		if !cfg.Enabled {
			continue
		}
		baseline, _ := resolveSensor(name, cfg)
		axes := make(map[string]float64, len(baseline))
		for axis := range baseline {
			axes[axis] = 0
		}
		d[name] = axes
	}
	return d
}

// step advances the random walk for one axis and clamps it to the limit.
func (d driftState) step(rng *rand.Rand, sensorName, axis string, driftFactor float64) {
	axes, ok := d[sensorName]
	if !ok {
		return
	}
	v := axes[axis] + uniform(rng, -driftFactor, driftFactor)
	if v > driftLimit {
		v = driftLimit
	} else if v < -driftLimit {
		v = -driftLimit
	}
	axes[axis] = v
}

// value returns the current drift for an axis, zero if untracked.
func (d driftState) value(sensorName, axis string) float64 {
	if axes, ok := d[sensorName]; ok {
		return axes[axis]
	}
	return 0
}
