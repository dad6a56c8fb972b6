package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker          string
	MQTTClientIDEngine  string
	MQTTClientIDConsole string
	MQTTClientIDWeb     string
	TopicPrefix         string

	// Kafka (optional second telemetry sink)
	KafkaBrokers []string
	KafkaTopic   string

	// Engine
	DeviceType          string
	ActivityType        string
	Position            string
	ProfileName         string // when set, load this profile from the store instead of building one
	UseExternalPatterns bool
	RandomSeed          int64 // 0 seeds from the clock

	// Timing
	PublishInterval int // milliseconds between snapshot publishes

	// Profile store
	ProfileDBPath string

	// Web Server
	WebServerPort int
}

// Package-level unexported variables for the singleton pattern:
// globalConfig is only set through InitGlobal and only read through Get,
// with an RWMutex so concurrent readers never block each other.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

func defaults() *Config {
	return &Config{
		MQTTClientIDEngine:  "emulator-sensor-engine",
		MQTTClientIDConsole: "emulator-console-subscriber",
		MQTTClientIDWeb:     "emulator-web-subscriber",
		TopicPrefix:         "emulator/sensors",
		KafkaTopic:          "emulator.sensors",
		DeviceType:          "smartphone",
		ActivityType:        "stationary",
		Position:            "flat",
		PublishInterval:     100,
		ProfileDBPath:       "profiles.db",
		WebServerPort:       8080,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_ENGINE":
		c.MQTTClientIDEngine = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "TOPIC_PREFIX":
		c.TopicPrefix = value

	// Kafka
	case "KAFKA_BROKERS":
		c.KafkaBrokers = splitCSV(value)
	case "KAFKA_TOPIC":
		c.KafkaTopic = value

	// Engine
	case "DEVICE_TYPE":
		c.DeviceType = value
	case "ACTIVITY_TYPE":
		c.ActivityType = value
	case "POSITION":
		c.Position = value
	case "PROFILE_NAME":
		c.ProfileName = value
	case "USE_EXTERNAL_PATTERNS":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid USE_EXTERNAL_PATTERNS %q: %w", value, err)
		}
		c.UseExternalPatterns = b
	case "RANDOM_SEED":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RANDOM_SEED %q: %w", value, err)
		}
		c.RandomSeed = seed

	// Timing
	case "PUBLISH_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PUBLISH_INTERVAL %q: %w", value, err)
		}
		if interval <= 0 {
			return fmt.Errorf("PUBLISH_INTERVAL must be positive, got %d", interval)
		}
		c.PublishInterval = interval

	// Profile store
	case "PROFILE_DB_PATH":
		c.ProfileDBPath = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	switch c.DeviceType {
	case "smartphone", "tablet", "smartwatch":
	default:
		return fmt.Errorf("DEVICE_TYPE must be smartphone, tablet or smartwatch, got %q", c.DeviceType)
	}
	switch c.ActivityType {
	case "stationary", "walking", "running", "driving":
	default:
		return fmt.Errorf("ACTIVITY_TYPE must be stationary, walking, running or driving, got %q", c.ActivityType)
	}
	switch c.Position {
	case "flat", "tilted", "vertical", "upside_down":
	default:
		return fmt.Errorf("POSITION must be flat, tilted, vertical or upside_down, got %q", c.Position)
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Uses
// sync.Once so this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
