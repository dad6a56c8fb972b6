// Package profiledb persists sensor profiles and real-device build
// property profiles in a small SQLite database. It is the keyed document
// store the simulation engine loads its profiles from; the engine itself
// never touches disk.
package profiledb

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/agentbryce2025/emulator/internal/sensor"
)

const schema = `
CREATE TABLE IF NOT EXISTS sensor_profiles (
	name        TEXT PRIMARY KEY,
	id          TEXT NOT NULL,
	doc         TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS device_profiles (
	manufacturer TEXT NOT NULL,
	device       TEXT NOT NULL,
	id           TEXT NOT NULL,
	doc          TEXT NOT NULL,
	created_at   TEXT NOT NULL,
	PRIMARY KEY (manufacturer, device)
);
`

// Store wraps the SQLite database holding both profile kinds.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the profile database and runs migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open profile db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveSensorProfile upserts a sensor profile document under a name.
func (s *Store) SaveSensorProfile(name string, p *sensor.SensorProfile) error {
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	doc, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %q: %w", name, err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.Exec(
		`INSERT INTO sensor_profiles (name, id, doc, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at`,
		name, uuid.New().String(), string(doc), now, now,
	)
	if err != nil {
		return fmt.Errorf("save profile %q: %w", name, err)
	}
	return nil
}

// LoadSensorProfile fetches a sensor profile by name.
func (s *Store) LoadSensorProfile(name string) (*sensor.SensorProfile, error) {
	var doc string
	err := s.db.QueryRow(`SELECT doc FROM sensor_profiles WHERE name = ?`, name).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("sensor profile %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %q: %w", name, err)
	}
	var p sensor.SensorProfile
	if err := json.Unmarshal([]byte(doc), &p); err != nil {
		return nil, fmt.Errorf("decode profile %q: %w", name, err)
	}
	return &p, nil
}

// ListSensorProfiles returns the stored profile names, sorted.
func (s *Store) ListSensorProfiles() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM sensor_profiles ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan profile name: %w", err)
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// DeleteSensorProfile removes a profile by name.
func (s *Store) DeleteSensorProfile(name string) error {
	res, err := s.db.Exec(`DELETE FROM sensor_profiles WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete profile %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("sensor profile %q not found", name)
	}
	return nil
}

// DeviceProfile is one real device's build identity: the ro.* properties a
// detector would read, plus the sensor set the hardware actually carries.
type DeviceProfile struct {
	Manufacturer    string            `json:"manufacturer" yaml:"manufacturer"`
	Device          string            `json:"device" yaml:"device"`
	Model           string            `json:"model" yaml:"model"`
	AndroidVersions []string          `json:"android_versions" yaml:"android_versions"`
	Properties      map[string]string `json:"properties" yaml:"properties"`
	Sensors         []string          `json:"sensors" yaml:"sensors"`
}

// SaveDeviceProfile upserts a device profile keyed by manufacturer+device.
func (s *Store) SaveDeviceProfile(dp DeviceProfile) error {
	if dp.Manufacturer == "" || dp.Device == "" {
		return fmt.Errorf("device profile needs manufacturer and device")
	}
	doc, err := json.Marshal(dp)
	if err != nil {
		return fmt.Errorf("marshal device profile: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO device_profiles (manufacturer, device, id, doc, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(manufacturer, device) DO UPDATE SET doc = excluded.doc`,
		dp.Manufacturer, dp.Device, uuid.New().String(), string(doc),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save device profile %s/%s: %w", dp.Manufacturer, dp.Device, err)
	}
	return nil
}

// GetDeviceProfile fetches a device profile, optionally pinned to an
// Android version. An unavailable version falls back to the newest one the
// device shipped with; this mirrors how detectors expect consistent
// version properties.
func (s *Store) GetDeviceProfile(manufacturer, device, androidVersion string) (DeviceProfile, error) {
	var doc string
	err := s.db.QueryRow(
		`SELECT doc FROM device_profiles WHERE manufacturer = ? AND device = ?`,
		manufacturer, device,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return DeviceProfile{}, fmt.Errorf("device profile %s/%s not found", manufacturer, device)
	}
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("load device profile: %w", err)
	}
	var dp DeviceProfile
	if err := json.Unmarshal([]byte(doc), &dp); err != nil {
		return DeviceProfile{}, fmt.Errorf("decode device profile: %w", err)
	}
	applyAndroidVersion(&dp, androidVersion)
	return dp, nil
}

// Manufacturers lists the distinct manufacturers in the store, sorted.
func (s *Store) Manufacturers() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT manufacturer FROM device_profiles ORDER BY manufacturer`)
	if err != nil {
		return nil, fmt.Errorf("list manufacturers: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, fmt.Errorf("scan manufacturer: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Devices lists the device names for one manufacturer, sorted.
func (s *Store) Devices(manufacturer string) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT device FROM device_profiles WHERE manufacturer = ? ORDER BY device`, manufacturer)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan device: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// RandomDeviceProfile picks a uniformly random device profile.
func (s *Store) RandomDeviceProfile(rng *rand.Rand, androidVersion string) (DeviceProfile, error) {
	rows, err := s.db.Query(`SELECT doc FROM device_profiles`)
	if err != nil {
		return DeviceProfile{}, fmt.Errorf("load device profiles: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return DeviceProfile{}, fmt.Errorf("scan device profile: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return DeviceProfile{}, err
	}
	if len(docs) == 0 {
		return DeviceProfile{}, fmt.Errorf("no device profiles available")
	}

	var dp DeviceProfile
	if err := json.Unmarshal([]byte(docs[rng.Intn(len(docs))]), &dp); err != nil {
		return DeviceProfile{}, fmt.Errorf("decode device profile: %w", err)
	}
	applyAndroidVersion(&dp, androidVersion)
	return dp, nil
}

// androidVersionProps carries the version-dependent build properties.
var androidVersionProps = map[string]struct{ release, sdk string }{
	"10.0": {"10", "29"},
	"11.0": {"11", "30"},
	"12.0": {"12", "31"},
	"13.0": {"13", "33"},
}

func applyAndroidVersion(dp *DeviceProfile, version string) {
	if len(dp.AndroidVersions) == 0 {
		return
	}
	available := false
	for _, v := range dp.AndroidVersions {
		if v == version {
			available = true
			break
		}
	}
	if !available {
		version = dp.AndroidVersions[len(dp.AndroidVersions)-1]
	}
	vp, ok := androidVersionProps[version]
	if !ok {
		return
	}
	if dp.Properties == nil {
		dp.Properties = map[string]string{}
	}
	dp.Properties["ro.build.version.release"] = vp.release
	dp.Properties["ro.build.version.sdk"] = vp.sdk
}

// BuildProp renders the device's properties as build.prop lines, sorted by
// key for a stable output.
func (dp DeviceProfile) BuildProp() string {
	keys := make([]string, 0, len(dp.Properties))
	for k := range dp.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, dp.Properties[k])
	}
	return b.String()
}
