// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package telemetry carries simulated sensor readings from the engine to
// external consumers. Sinks are pluggable; MQTT is the primary transport,
// Kafka an optional second one.
package telemetry

import (
	"context"
	"time"
)

// Reading is one sensor's committed axis values at a point in time.
type Reading struct {
	Sensor    string             `json:"sensor"`
	Values    map[string]float64 `json:"values"`
	Timestamp time.Time          `json:"timestamp"`
}

// Sink publishes readings somewhere. Implementations must be safe for use
// from a single publisher goroutine.
type Sink interface {
	Publish(ctx context.Context, r Reading) error
	Close() error
}

// MultiSink fans a reading out to several sinks, returning the first error.
type MultiSink []Sink

func (m MultiSink) Publish(ctx context.Context, r Reading) error {
	for _, s := range m {
		if err := s.Publish(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m MultiSink) Close() error {
	var first error
	for _, s := range m {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
