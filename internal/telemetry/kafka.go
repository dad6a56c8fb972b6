package telemetry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaSink writes readings to a single topic, keyed by sensor name so a
// partitioned topic keeps per-sensor ordering.
type KafkaSink struct {
	writer *kafka.Writer
}

// NewKafkaSink builds a sink over the given brokers and topic.
func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return &KafkaSink{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (s *KafkaSink) Publish(ctx context.Context, r Reading) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal reading: %w", err)
	}
	err = s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(r.Sensor),
		Value: payload,
		Time:  r.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("kafka write %s: %w", r.Sensor, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
