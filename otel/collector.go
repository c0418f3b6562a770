// Package otel provides OpenTelemetry integration for xanthus cache metrics.
//
// This package implements the xanthus.MetricsCollector interface using
// OpenTelemetry, enabling percentile calculation (p50, p95, p99) and
// multi-backend export (Prometheus, Jaeger, DataDog, Grafana) without
// touching the core cache's hot path.
//
// # Usage
//
//	import (
//	    "github.com/agilira/xanthus"
//	    xanthusotel "github.com/agilira/xanthus/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, _ := prometheus.New()
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//
//	collector, _ := xanthusotel.NewOTelMetricsCollector(provider)
//
//	maxCapacity := uint64(10_000)
//	cache := xanthus.New[string, string](xanthus.Config[string, string]{
//	    MaxCapacity:      &maxCapacity,
//	    MetricsCollector: collector,
//	})
//
// # Metrics Exposed
//
//   - xanthus_get_latency_ns: histogram of Get() latencies
//   - xanthus_set_latency_ns: histogram of Insert() latencies
//   - xanthus_delete_latency_ns: histogram of Remove() latencies
//   - xanthus_get_hits_total / xanthus_get_misses_total: Get outcome counters
//   - xanthus_evictions_total: W-TinyLFU evictions
//   - xanthus_expirations_total: TTL/TTI expirations
//   - xanthus_invalidations_total: predicate-matched invalidations
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package otel

import (
	"context"
	"errors"

	"github.com/agilira/xanthus"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetricsCollector implements xanthus.MetricsCollector using
// OpenTelemetry. Safe for concurrent use; the underlying OTEL instruments
// are themselves safe for concurrent use.
type OTelMetricsCollector struct {
	getLatency    metric.Int64Histogram
	setLatency    metric.Int64Histogram
	deleteLatency metric.Int64Histogram
	hits          metric.Int64Counter
	misses        metric.Int64Counter
	evictions     metric.Int64Counter
	expirations   metric.Int64Counter
	invalidations metric.Int64Counter
}

// Options configures OTelMetricsCollector.
type Options struct {
	// MeterName is the name of the OpenTelemetry meter.
	// Default: "github.com/agilira/xanthus"
	MeterName string
}

// Option is a functional option for Options.
type Option func(*Options)

// WithMeterName sets a custom meter name, useful for distinguishing metrics
// from multiple cache instances.
func WithMeterName(name string) Option {
	return func(o *Options) {
		o.MeterName = name
	}
}

// NewOTelMetricsCollector builds a collector from an OTEL MeterProvider.
// provider must not be nil.
func NewOTelMetricsCollector(provider metric.MeterProvider, opts ...Option) (*OTelMetricsCollector, error) {
	if provider == nil {
		return nil, errors.New("meter provider cannot be nil")
	}

	options := Options{MeterName: "github.com/agilira/xanthus"}
	for _, opt := range opts {
		opt(&options)
	}

	meter := provider.Meter(options.MeterName)
	collector := &OTelMetricsCollector{}

	var err error
	collector.getLatency, err = meter.Int64Histogram(
		"xanthus_get_latency_ns",
		metric.WithDescription("Latency of Get operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.setLatency, err = meter.Int64Histogram(
		"xanthus_set_latency_ns",
		metric.WithDescription("Latency of Insert operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.deleteLatency, err = meter.Int64Histogram(
		"xanthus_delete_latency_ns",
		metric.WithDescription("Latency of Remove operations in nanoseconds"),
		metric.WithUnit("ns"),
	)
	if err != nil {
		return nil, err
	}

	collector.hits, err = meter.Int64Counter(
		"xanthus_get_hits_total",
		metric.WithDescription("Total number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	collector.misses, err = meter.Int64Counter(
		"xanthus_get_misses_total",
		metric.WithDescription("Total number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	collector.evictions, err = meter.Int64Counter(
		"xanthus_evictions_total",
		metric.WithDescription("Total number of W-TinyLFU evictions"),
	)
	if err != nil {
		return nil, err
	}

	collector.expirations, err = meter.Int64Counter(
		"xanthus_expirations_total",
		metric.WithDescription("Total number of TTL/TTI-based expirations"),
	)
	if err != nil {
		return nil, err
	}

	collector.invalidations, err = meter.Int64Counter(
		"xanthus_invalidations_total",
		metric.WithDescription("Total number of predicate-matched invalidations"),
	)
	if err != nil {
		return nil, err
	}

	return collector, nil
}

// RecordGet records a Get operation's latency and hit/miss outcome.
func (c *OTelMetricsCollector) RecordGet(latencyNs int64, hit bool) {
	ctx := context.Background()
	c.getLatency.Record(ctx, latencyNs)
	if hit {
		c.hits.Add(ctx, 1)
	} else {
		c.misses.Add(ctx, 1)
	}
}

// RecordSet records an Insert operation's latency.
func (c *OTelMetricsCollector) RecordSet(latencyNs int64) {
	c.setLatency.Record(context.Background(), latencyNs)
}

// RecordDelete records a Remove operation's latency.
func (c *OTelMetricsCollector) RecordDelete(latencyNs int64) {
	c.deleteLatency.Record(context.Background(), latencyNs)
}

// RecordEviction increments the eviction counter.
func (c *OTelMetricsCollector) RecordEviction() {
	c.evictions.Add(context.Background(), 1)
}

// RecordExpiration increments the expiration counter.
func (c *OTelMetricsCollector) RecordExpiration() {
	c.expirations.Add(context.Background(), 1)
}

// RecordInvalidation adds count to the invalidation counter.
func (c *OTelMetricsCollector) RecordInvalidation(count int) {
	c.invalidations.Add(context.Background(), int64(count))
}

var _ xanthus.MetricsCollector = (*OTelMetricsCollector)(nil)
