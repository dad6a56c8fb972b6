package profiledb

import (
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentbryce2025/emulator/internal/sensor"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "profiles.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSensorProfileRoundTrip(t *testing.T) {
	s := tempStore(t)
	p := sensor.NewDeviceProfile(sensor.DeviceSmartphone, sensor.ActivityWalking, sensor.PositionFlat, false)

	if err := s.SaveSensorProfile("walker", p); err != nil {
		t.Fatalf("SaveSensorProfile: %v", err)
	}
	back, err := s.LoadSensorProfile("walker")
	if err != nil {
		t.Fatalf("LoadSensorProfile: %v", err)
	}
	if back.ActivityType != sensor.ActivityWalking {
		t.Fatalf("activity lost: %q", back.ActivityType)
	}
	if back.Simulation.Patterns[sensor.SensorAccelerometer].Type != sensor.PatternSine {
		t.Fatal("pattern lost in round trip")
	}
}

func TestSensorProfileUpsert(t *testing.T) {
	s := tempStore(t)
	a := sensor.NewDeviceProfile(sensor.DeviceSmartphone, sensor.ActivityStationary, sensor.PositionFlat, false)
	b := sensor.NewDeviceProfile(sensor.DeviceTablet, sensor.ActivityDriving, sensor.PositionFlat, false)

	if err := s.SaveSensorProfile("p", a); err != nil {
		t.Fatalf("SaveSensorProfile: %v", err)
	}
	if err := s.SaveSensorProfile("p", b); err != nil {
		t.Fatalf("SaveSensorProfile (update): %v", err)
	}
	back, err := s.LoadSensorProfile("p")
	if err != nil {
		t.Fatalf("LoadSensorProfile: %v", err)
	}
	if back.DeviceType != sensor.DeviceTablet {
		t.Fatalf("expected updated document, got %q", back.DeviceType)
	}

	names, err := s.ListSensorProfiles()
	if err != nil {
		t.Fatalf("ListSensorProfiles: %v", err)
	}
	if len(names) != 1 || names[0] != "p" {
		t.Fatalf("unexpected names: %v", names)
	}
}

func TestDeleteSensorProfile(t *testing.T) {
	s := tempStore(t)
	p := sensor.NewDeviceProfile(sensor.DeviceSmartphone, sensor.ActivityStationary, sensor.PositionFlat, false)
	if err := s.SaveSensorProfile("gone", p); err != nil {
		t.Fatalf("SaveSensorProfile: %v", err)
	}
	if err := s.DeleteSensorProfile("gone"); err != nil {
		t.Fatalf("DeleteSensorProfile: %v", err)
	}
	if err := s.DeleteSensorProfile("gone"); err == nil {
		t.Fatal("expected error deleting missing profile")
	}
	if _, err := s.LoadSensorProfile("gone"); err == nil {
		t.Fatal("expected error loading deleted profile")
	}
}

func TestSeedDefaultsIdempotent(t *testing.T) {
	s := tempStore(t)
	if err := s.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	manufacturers, err := s.Manufacturers()
	if err != nil {
		t.Fatalf("Manufacturers: %v", err)
	}
	if len(manufacturers) == 0 {
		t.Fatal("no manufacturers after seeding")
	}

	devices, err := s.Devices("samsung")
	if err != nil {
		t.Fatalf("Devices: %v", err)
	}
	before := len(devices)

	// A second seed must not duplicate or overwrite.
	if err := s.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults (again): %v", err)
	}
	devices, _ = s.Devices("samsung")
	if len(devices) != before {
		t.Fatalf("seed not idempotent: %d != %d", len(devices), before)
	}
}

func TestGetDeviceProfileVersionFallback(t *testing.T) {
	s := tempStore(t)
	if err := s.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}

	dp, err := s.GetDeviceProfile("google", "Pixel 6", "13.0")
	if err != nil {
		t.Fatalf("GetDeviceProfile: %v", err)
	}
	if dp.Properties["ro.build.version.release"] != "13" || dp.Properties["ro.build.version.sdk"] != "33" {
		t.Fatalf("version properties not applied: %v", dp.Properties)
	}

	// An unavailable version falls back to the newest supported one.
	dp, err = s.GetDeviceProfile("google", "Pixel 6", "10.0")
	if err != nil {
		t.Fatalf("GetDeviceProfile: %v", err)
	}
	if dp.Properties["ro.build.version.release"] != "13" {
		t.Fatalf("expected fallback to 13, got %v", dp.Properties["ro.build.version.release"])
	}
}

func TestRandomDeviceProfile(t *testing.T) {
	s := tempStore(t)
	if err := s.SeedDefaults(); err != nil {
		t.Fatalf("SeedDefaults: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	dp, err := s.RandomDeviceProfile(rng, "")
	if err != nil {
		t.Fatalf("RandomDeviceProfile: %v", err)
	}
	if dp.Manufacturer == "" || dp.Properties["ro.build.fingerprint"] == "" {
		t.Fatalf("incomplete random profile: %+v", dp)
	}
}

func TestBuildPropRendering(t *testing.T) {
	dp := DeviceProfile{
		Manufacturer: "samsung",
		Device:       "Galaxy S21",
		Properties: map[string]string{
			"ro.product.model":        "SM-G991B",
			"ro.product.manufacturer": "samsung",
		},
	}
	got := dp.BuildProp()
	want := "ro.product.manufacturer=samsung\nro.product.model=SM-G991B\n"
	if got != want {
		t.Fatalf("BuildProp:\n%s\nwant:\n%s", got, want)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Fatal("build.prop must end with a newline")
	}
}
