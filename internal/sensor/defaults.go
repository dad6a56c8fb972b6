package sensor

// defaultBaselines and defaultVariances form the static fallback table used
// whenever a profile omits baseline or variance for a sensor. The fallback
// is mandatory: a sparse profile must never fail a tick.
var defaultBaselines = map[string]map[string]float64{
	SensorAccelerometer: {"x": 0, "y": 0, "z": 9.81},
	SensorGyroscope:     {"x": 0, "y": 0, "z": 0},
	SensorMagnetometer:  {"x": 25, "y": 10, "z": 40},
	SensorProximity:     {"distance": 100},
	SensorLight:         {"lux": 500},
	SensorPressure:      {"hPa": 1013.25},
	SensorTemperature:   {"celsius": 22},
	SensorHumidity:      {"percent": 50},
}

var defaultVariances = map[string]map[string]float64{
	SensorAccelerometer: {"x": 0.1, "y": 0.1, "z": 0.1},
	SensorGyroscope:     {"x": 0.02, "y": 0.02, "z": 0.02},
	SensorMagnetometer:  {"x": 2, "y": 2, "z": 2},
	SensorProximity:     {"distance": 0},
	SensorLight:         {"lux": 50},
	SensorPressure:      {"hPa": 0.5},
	SensorTemperature:   {"celsius": 0.5},
	SensorHumidity:      {"percent": 1},
}

func copyAxes(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// resolveSensor returns the effective baseline and variance for a sensor,
// falling back to the default table when the profile omits either map.
// Unknown sensor names resolve to a single synthetic "value" axis.
func resolveSensor(name string, cfg SensorConfig) (baseline, variance map[string]float64) {
	baseline = cfg.Baseline
	variance = cfg.Variance
	if baseline == nil {
		if def, ok := defaultBaselines[name]; ok {
			baseline = copyAxes(def)
		} else {
			baseline = map[string]float64{"value": 0}
		}
	}
	if variance == nil {
		if def, ok := defaultVariances[name]; ok {
			variance = copyAxes(def)
		} else {
			variance = map[string]float64{"value": 0.1}
		}
	}
	return baseline, variance
}
