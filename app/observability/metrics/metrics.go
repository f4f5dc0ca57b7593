package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	StoreOpsTotal        metric.Int64Counter
	StoreErrorsTotal     metric.Int64Counter
	LoginRequestsTotal   metric.Int64Counter
	FeedFetchDuration    metric.Float64Histogram
	FeedFetchErrorsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// SetupMeterProvider wires the OTel meter provider to a Prometheus
// registry so /metrics serves the instruments below. Call at startup,
// before Get().
func SetupMeterProvider(reg *prometheus.Registry) error {
	exporter, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return err
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	return nil
}

// Get returns the globally initialized AppMetrics instance, creating
// the instruments on first use from the global MeterProvider. With no
// provider configured (tests) the instruments are no-ops.
func Get() *AppMetrics {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-admin-dashboard")
		var err error
		m := &AppMetrics{}

		m.StoreOpsTotal, err = meter.Int64Counter(
			"store_operations_total",
			metric.WithDescription("Total number of entity store operations completed"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create store_operations_total: %v", err)
		}

		m.StoreErrorsTotal, err = meter.Int64Counter(
			"store_errors_total",
			metric.WithDescription("Total number of entity store operation errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create store_errors_total: %v", err)
		}

		m.LoginRequestsTotal, err = meter.Int64Counter(
			"login_requests_total",
			metric.WithDescription("Total number of login requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create login_requests_total: %v", err)
		}

		m.FeedFetchDuration, err = meter.Float64Histogram(
			"feed_fetch_duration_seconds",
			metric.WithDescription("Duration of external feed fetches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create feed_fetch_duration_seconds: %v", err)
		}

		m.FeedFetchErrorsTotal, err = meter.Int64Counter(
			"feed_fetch_errors_total",
			metric.WithDescription("Total number of failed external feed fetches"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create feed_fetch_errors_total: %v", err)
		}

		appMetrics = m
	})
	return appMetrics
}

// RecordStoreOp counts one completed store operation for an entity kind.
func (m *AppMetrics) RecordStoreOp(ctx context.Context, entity, op string) {
	m.StoreOpsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("op", op),
	))
}

// RecordStoreError counts one failed store operation.
func (m *AppMetrics) RecordStoreError(ctx context.Context, entity, op string) {
	m.StoreErrorsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("entity", entity),
		attribute.String("op", op),
	))
}

// RecordLogin counts one completed login attempt.
func (m *AppMetrics) RecordLogin(ctx context.Context, success bool) {
	m.LoginRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("success", success),
	))
}

// RecordFeedFetch records one feed fetch and its outcome.
func (m *AppMetrics) RecordFeedFetch(ctx context.Context, d time.Duration, err error) {
	m.FeedFetchDuration.Record(ctx, d.Seconds())
	if err != nil {
		m.FeedFetchErrorsTotal.Add(ctx, 1)
	}
}
