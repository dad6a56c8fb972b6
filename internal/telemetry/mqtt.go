package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSink publishes each reading to <prefix>/<sensor>, retained, so late
// subscribers immediately see the last value of every sensor.
type MQTTSink struct {
	client mqtt.Client
	prefix string
}

// NewMQTTSink connects to the broker and returns a ready sink.
func NewMQTTSink(broker, clientID, topicPrefix string) (*MQTTSink, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	log.Printf("telemetry: connected to MQTT broker at %s", broker)

	return &MQTTSink{client: client, prefix: topicPrefix}, nil
}

// Topic returns the topic a sensor's readings are published on.
func (s *MQTTSink) Topic(sensorName string) string {
	return s.prefix + "/" + sensorName
}

func (s *MQTTSink) Publish(_ context.Context, r Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	if token := s.client.Publish(s.Topic(r.Sensor), 0, true, payload); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt publish %s: %w", r.Sensor, token.Error())
	}
	return nil
}

func (s *MQTTSink) Close() error {
	s.client.Disconnect(250)
	return nil
}
