package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agentbryce2025/emulator/internal/config"
	"github.com/agentbryce2025/emulator/internal/profiledb"
	"github.com/agentbryce2025/emulator/internal/sensor"
	"github.com/agentbryce2025/emulator/internal/telemetry"
)

// RunEngine runs the synthetic sensor simulator and publishes snapshots
// of every enabled sensor to the configured telemetry sinks until it
// receives SIGINT or SIGTERM.
func RunEngine() error {
	log.Println("starting synthetic sensor engine")

	cfg := config.Get()

	// --- Build or load the sensor profile ---
	var profile *sensor.SensorProfile
	if cfg.ProfileName != "" {
		store, err := profiledb.Open(cfg.ProfileDBPath)
		if err != nil {
			return fmt.Errorf("failed to open profile store: %w", err)
		}
		profile, err = store.LoadSensorProfile(cfg.ProfileName)
		store.Close()
		if err != nil {
			return fmt.Errorf("failed to load profile %q: %w", cfg.ProfileName, err)
		}
		log.Printf("loaded profile %q from %s", cfg.ProfileName, cfg.ProfileDBPath)
	} else {
		profile = sensor.NewDeviceProfile(cfg.DeviceType, cfg.ActivityType, cfg.Position, cfg.UseExternalPatterns)
		log.Printf("built %s profile: activity=%s position=%s", cfg.DeviceType, cfg.ActivityType, cfg.Position)
	}

	var sim *sensor.Simulator
	if cfg.RandomSeed != 0 {
		sim = sensor.NewSimulatorSeeded(profile, cfg.RandomSeed)
		log.Printf("simulator seeded with %d", cfg.RandomSeed)
	} else {
		sim = sensor.NewSimulator(profile)
	}

	if err := sim.Start(); err != nil {
		return fmt.Errorf("failed to start simulator: %w", err)
	}

	// --- Connect telemetry sinks ---
	var sinks telemetry.MultiSink

	mqttSink, err := telemetry.NewMQTTSink(cfg.MQTTBroker, cfg.MQTTClientIDEngine, cfg.TopicPrefix)
	if err != nil {
		sim.Stop()
		return fmt.Errorf("MQTT connect error: %w", err)
	}
	sinks = append(sinks, mqttSink)

	if len(cfg.KafkaBrokers) > 0 {
		sinks = append(sinks, telemetry.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic))
		log.Printf("publishing to Kafka topic %s via %v", cfg.KafkaTopic, cfg.KafkaBrokers)
	}

	log.Println("connected, starting publish loop")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.PublishInterval) * time.Millisecond)
	defer ticker.Stop()

	ctx := context.Background()

loop:
	for {
		select {
		case <-sigCh:
			log.Println("shutdown signal received")
			break loop
		case t := <-ticker.C:
			snapshot := sim.CurrentValues()
			for name, values := range snapshot {
				r := telemetry.Reading{
					Sensor:    name,
					Values:    values,
					Timestamp: t.UTC(),
				}
				if err := sinks.Publish(ctx, r); err != nil {
					log.Printf("publish error (%s): %v", name, err)
				}
			}
		}
	}

	if err := sim.Stop(); err != nil {
		log.Printf("simulator stop: %v", err)
	}
	if err := sinks.Close(); err != nil {
		log.Printf("sink close: %v", err)
	}
	log.Println("sensor engine stopped")
	return nil
}
