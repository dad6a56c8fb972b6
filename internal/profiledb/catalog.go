package profiledb

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultCatalog is the built-in set of real device identities, written the
// first time an empty store is seeded. Fingerprints and platform names come
// from actual retail builds.
var defaultCatalog = []DeviceProfile{
	{
		Manufacturer:    "samsung",
		Device:          "Galaxy S21",
		Model:           "SM-G991B",
		AndroidVersions: []string{"11.0", "12.0"},
		Properties: map[string]string{
			"ro.product.manufacturer": "samsung",
			"ro.product.brand":        "samsung",
			"ro.product.model":        "SM-G991B",
			"ro.product.name":         "sm-g991b",
			"ro.product.device":       "sm-g991b",
			"ro.build.fingerprint":    "samsung/SM-G991B/SM-G991B:12/SP1A.210812.016/G991BXXU3AUL3:user/release-keys",
			"ro.build.id":             "SP1A.210812.016",
			"ro.build.display.id":     "SP1A.210812.016.G991BXXU3AUL3",
			"ro.build.type":           "user",
			"ro.build.tags":           "release-keys",
			"ro.build.date.utc":       "1638360000",
			"ro.hardware":             "exynos2100",
			"ro.board.platform":       "exynos2100",
		},
		Sensors: []string{"accelerometer", "gyroscope", "magnetometer", "proximity", "light", "pressure", "temperature"},
	},
	{
		Manufacturer:    "samsung",
		Device:          "Galaxy S20",
		Model:           "SM-G980F",
		AndroidVersions: []string{"10.0", "11.0", "12.0"},
		Properties: map[string]string{
			"ro.product.manufacturer": "samsung",
			"ro.product.brand":        "samsung",
			"ro.product.model":        "SM-G980F",
			"ro.product.name":         "sm-g980f",
			"ro.product.device":       "sm-g980f",
			"ro.build.fingerprint":    "samsung/SM-G980F/SM-G980F:12/SP1A.210812.016/G980FXXSCEUL9:user/release-keys",
			"ro.build.id":             "SP1A.210812.016",
			"ro.build.display.id":     "SP1A.210812.016.G980FXXSCEUL9",
			"ro.build.type":           "user",
			"ro.build.tags":           "release-keys",
			"ro.build.date.utc":       "1640700000",
			"ro.hardware":             "exynos990",
			"ro.board.platform":       "exynos990",
		},
		Sensors: []string{"accelerometer", "gyroscope", "magnetometer", "proximity", "light", "pressure", "temperature"},
	},
	{
		Manufacturer:    "google",
		Device:          "Pixel 6",
		Model:           "Pixel 6",
		AndroidVersions: []string{"12.0", "13.0"},
		Properties: map[string]string{
			"ro.product.manufacturer": "Google",
			"ro.product.brand":        "google",
			"ro.product.model":        "Pixel 6",
			"ro.product.name":         "raven",
			"ro.product.device":       "raven",
			"ro.build.fingerprint":    "google/raven/raven:13/TP1A.220624.021/8877034:user/release-keys",
			"ro.build.id":             "TP1A.220624.021",
			"ro.build.display.id":     "TP1A.220624.021",
			"ro.build.type":           "user",
			"ro.build.tags":           "release-keys",
			"ro.build.date.utc":       "1658880000",
			"ro.hardware":             "tensor",
			"ro.board.platform":       "gs101",
		},
		Sensors: []string{"accelerometer", "gyroscope", "magnetometer", "proximity", "light", "barometer", "temperature"},
	},
	{
		Manufacturer:    "google",
		Device:          "Pixel 5",
		Model:           "Pixel 5",
		AndroidVersions: []string{"11.0", "12.0", "13.0"},
		Properties: map[string]string{
			"ro.product.manufacturer": "Google",
			"ro.product.brand":        "google",
			"ro.product.model":        "Pixel 5",
			"ro.product.name":         "redfin",
			"ro.product.device":       "redfin",
			"ro.build.fingerprint":    "google/redfin/redfin:13/TP1A.220624.021/8877034:user/release-keys",
			"ro.build.id":             "TP1A.220624.021",
			"ro.build.display.id":     "TP1A.220624.021",
			"ro.build.type":           "user",
			"ro.build.tags":           "release-keys",
			"ro.build.date.utc":       "1658880000",
			"ro.hardware":             "qcom",
			"ro.board.platform":       "sm7250",
		},
		Sensors: []string{"accelerometer", "gyroscope", "magnetometer", "proximity", "light", "barometer"},
	},
	{
		Manufacturer:    "xiaomi",
		Device:          "Mi 11",
		Model:           "M2011K2G",
		AndroidVersions: []string{"11.0", "12.0"},
		Properties: map[string]string{
			"ro.product.manufacturer": "Xiaomi",
			"ro.product.brand":        "xiaomi",
			"ro.product.model":        "M2011K2G",
			"ro.product.name":         "venus",
			"ro.product.device":       "venus",
			"ro.build.fingerprint":    "Xiaomi/venus_global/venus:12/SKQ1.211006.001/V13.0.5.0.SKBMIXM:user/release-keys",
			"ro.build.id":             "SKQ1.211006.001",
			"ro.build.display.id":     "SKQ1.211006.001",
			"ro.build.type":           "user",
			"ro.build.tags":           "release-keys",
			"ro.build.date.utc":       "1645300000",
			"ro.hardware":             "qcom",
			"ro.board.platform":       "sm8350",
		},
		Sensors: []string{"accelerometer", "gyroscope", "magnetometer", "proximity", "light", "pressure"},
	},
	{
		Manufacturer:    "oneplus",
		Device:          "OnePlus 9",
		Model:           "LE2113",
		AndroidVersions: []string{"11.0", "12.0"},
		Properties: map[string]string{
			"ro.product.manufacturer": "OnePlus",
			"ro.product.brand":        "OnePlus",
			"ro.product.model":        "LE2113",
			"ro.product.name":         "OnePlus9",
			"ro.product.device":       "OnePlus9",
			"ro.build.fingerprint":    "OnePlus/OnePlus9_EEA/OnePlus9:12/SKQ1.210216.001/R.202201181823:user/release-keys",
			"ro.build.id":             "SKQ1.210216.001",
			"ro.build.display.id":     "SKQ1.210216.001",
			"ro.build.type":           "user",
			"ro.build.tags":           "release-keys",
			"ro.build.date.utc":       "1642529000",
			"ro.hardware":             "qcom",
			"ro.board.platform":       "sm8350",
		},
		Sensors: []string{"accelerometer", "gyroscope", "magnetometer", "proximity", "light", "pressure"},
	},
}

// SeedDefaults writes the built-in catalog into an empty store. A store
// that already holds device profiles is left untouched.
func (s *Store) SeedDefaults() error {
	manufacturers, err := s.Manufacturers()
	if err != nil {
		return err
	}
	if len(manufacturers) > 0 {
		return nil
	}
	for _, dp := range defaultCatalog {
		if err := s.SaveDeviceProfile(dp); err != nil {
			return err
		}
	}
	log.Printf("profiledb: seeded %d default device profiles", len(defaultCatalog))
	return nil
}

// catalogFile is the YAML layout of an external device catalog.
type catalogFile struct {
	Devices []DeviceProfile `yaml:"devices"`
}

// ImportCatalog loads device profiles from a YAML catalog file and upserts
// them into the store. Returns the number of imported profiles.
func (s *Store) ImportCatalog(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog: %w", err)
	}
	var cat catalogFile
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return 0, fmt.Errorf("parse catalog: %w", err)
	}
	for i, dp := range cat.Devices {
		if err := s.SaveDeviceProfile(dp); err != nil {
			return i, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return len(cat.Devices), nil
}
