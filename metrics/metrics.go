/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package metrics sends operation counters and timings to a pluggable
// backend.
package metrics

import (
	"fmt"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/suparena/activerecord/config"
)

// Provider is the contract for sending metrics.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
}

// Noop drops everything.
type Noop struct{}

func (Noop) Count(string, float64, []string) error     { return nil }
func (Noop) Gauge(string, float64, []string) error     { return nil }
func (Noop) Histogram(string, float64, []string) error { return nil }

// Datadog adapts a DogStatsD client.
type Datadog struct {
	client statsd.ClientInterface
}

// NewDatadog wraps an existing client.
func NewDatadog(client statsd.ClientInterface) *Datadog {
	return &Datadog{client: client}
}

func (d *Datadog) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *Datadog) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *Datadog) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// Close flushes and closes the underlying client.
func (d *Datadog) Close() error {
	return d.client.Close()
}

// Setup returns Noop unless Datadog is enabled.
func Setup(cfg config.Metrics) (Provider, error) {
	if !cfg.Datadog.Enabled {
		return Noop{}, nil
	}

	client, err := statsd.New(cfg.Datadog.Addr, statsd.WithNamespace(cfg.Datadog.Namespace))
	if err != nil {
		return nil, fmt.Errorf("connect to datadog statsd: %w", err)
	}
	return NewDatadog(client), nil
}
