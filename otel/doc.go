// Package otel provides OpenTelemetry integration for xanthus cache metrics.
//
// # Overview
//
// This package implements the xanthus.MetricsCollector interface using
// OpenTelemetry, enabling percentile latency tracking (p50, p95, p99) and
// export to any OTEL-compatible backend (Prometheus, Jaeger, DataDog,
// Grafana).
//
// It is a separate module so applications that don't need metrics don't
// pull in the OTEL SDK: the core xanthus module has no dependency on this
// package.
//
// # Quick Start
//
//	import (
//	    "github.com/agilira/xanthus"
//	    xanthusotel "github.com/agilira/xanthus/otel"
//	    "go.opentelemetry.io/otel/exporters/prometheus"
//	    "go.opentelemetry.io/otel/sdk/metric"
//	)
//
//	exporter, err := prometheus.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	provider := metric.NewMeterProvider(metric.WithReader(exporter))
//	defer provider.Shutdown(context.Background())
//
//	collector, err := xanthusotel.NewOTelMetricsCollector(provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	maxCapacity := uint64(10_000)
//	cache := xanthus.New[string, User](xanthus.Config[string, User]{
//	    MaxCapacity:      &maxCapacity,
//	    MetricsCollector: collector,
//	})
//
//	cache.Insert("key", value)
//	cache.Get("key")
//
// # Metrics Exposed
//
// Histograms (OTEL aggregates these into percentiles automatically):
//   - xanthus_get_latency_ns
//   - xanthus_set_latency_ns
//   - xanthus_delete_latency_ns
//
// Counters:
//   - xanthus_get_hits_total
//   - xanthus_get_misses_total
//   - xanthus_evictions_total
//   - xanthus_expirations_total
//   - xanthus_invalidations_total
//
// # Configuration
//
// A custom meter name distinguishes metrics from multiple cache instances
// sharing one MeterProvider:
//
//	collector, err := xanthusotel.NewOTelMetricsCollector(
//	    provider,
//	    xanthusotel.WithMeterName("user_cache"),
//	)
//
// # Prometheus Queries
//
// Hit ratio over the last 5 minutes:
//
//	rate(xanthus_get_hits_total[5m]) /
//	(rate(xanthus_get_hits_total[5m]) + rate(xanthus_get_misses_total[5m]))
//
// p99 Get latency:
//
//	histogram_quantile(0.99, rate(xanthus_get_latency_ns_bucket[5m]))
//
// # Thread Safety
//
// OTelMetricsCollector's methods are safe for concurrent use; the
// underlying OTEL instruments handle their own synchronization.
package otel
