package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type memSink struct {
	readings []Reading
	err      error
	closed   bool
}

func (m *memSink) Publish(_ context.Context, r Reading) error {
	if m.err != nil {
		return m.err
	}
	m.readings = append(m.readings, r)
	return nil
}

func (m *memSink) Close() error {
	m.closed = true
	return nil
}

func TestReadingJSONShape(t *testing.T) {
	r := Reading{
		Sensor:    "accelerometer",
		Values:    map[string]float64{"x": 0, "y": 0, "z": 9.81},
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["sensor"] != "accelerometer" {
		t.Fatalf("sensor field: %v", decoded["sensor"])
	}
	if _, ok := decoded["values"].(map[string]any); !ok {
		t.Fatalf("values field missing: %v", decoded)
	}
}

func TestMultiSinkFanOut(t *testing.T) {
	a := &memSink{}
	b := &memSink{}
	multi := MultiSink{a, b}

	r := Reading{Sensor: "light", Values: map[string]float64{"lux": 500}}
	if err := multi.Publish(context.Background(), r); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(a.readings) != 1 || len(b.readings) != 1 {
		t.Fatalf("fan-out incomplete: %d/%d", len(a.readings), len(b.readings))
	}

	if err := multi.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !a.closed || !b.closed {
		t.Fatal("not all sinks closed")
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("broker down")
	a := &memSink{err: boom}
	b := &memSink{}
	multi := MultiSink{a, b}

	err := multi.Publish(context.Background(), Reading{Sensor: "pressure"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	if len(b.readings) != 0 {
		t.Fatal("second sink published after first failed")
	}
}

func TestMQTTTopicLayout(t *testing.T) {
	s := &MQTTSink{prefix: "emulator/sensors"}
	if got := s.Topic("gyroscope"); got != "emulator/sensors/gyroscope" {
		t.Fatalf("topic: %q", got)
	}
}
