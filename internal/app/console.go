package app

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/agentbryce2025/emulator/internal/config"
	"github.com/agentbryce2025/emulator/internal/telemetry"
)

// RunConsole subscribes to the telemetry topics and prints one line per
// reading until interrupted.
func RunConsole() error {
	cfg := config.Get()

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientIDConsole)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: connected to MQTT broker at %s", cfg.MQTTBroker)

	topic := cfg.TopicPrefix + "/+"
	token := client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var r telemetry.Reading
		if err := json.Unmarshal(msg.Payload(), &r); err != nil {
			log.Printf("console: reading unmarshal error: %v", err)
			return
		}
		fmt.Println(formatReading(r))
	})
	token.Wait()
	if token.Error() != nil {
		return token.Error()
	}
	log.Printf("console: subscribed to %s", topic)

	// Wait for Ctrl+C
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("console: shutting down")
	client.Disconnect(250)
	return nil
}

// formatReading renders a reading as a fixed-width console line with
// axes in a stable order, e.g.
// [ACCELEROMETER ] x=  0.013 y= -0.024 z=  9.811
func formatReading(r telemetry.Reading) string {
	axes := make([]string, 0, len(r.Values))
	for axis := range r.Values {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	var b strings.Builder
	fmt.Fprintf(&b, "[%-14s]", strings.ToUpper(r.Sensor))
	for _, axis := range axes {
		fmt.Fprintf(&b, " %s=%7.3f", axis, r.Values[axis])
	}
	return b.String()
}
