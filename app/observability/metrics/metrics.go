package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/FACorreiaa/go-recipes-api"

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	RecipeOperationsTotal      metric.Int64Counter
	RegisterRequestsTotal      metric.Int64Counter
	HTTPRequestDurationSeconds metric.Float64Histogram
	DbQueryDurationSeconds     metric.Float64Histogram
	DbQueryErrorsTotal         metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics creates the instruments once from the global MeterProvider.
// Instruments created before the provider is installed are delegated to it afterwards.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter(meterName)
		var err error
		m := &AppMetrics{}

		m.RecipeOperationsTotal, err = meter.Int64Counter(
			"recipe_operations_total",
			metric.WithDescription("Recipe service operations by operation and outcome"),
			metric.WithUnit("{operation}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create recipe_operations_total: %v", err)
		}

		m.RegisterRequestsTotal, err = meter.Int64Counter(
			"register_requests_total",
			metric.WithDescription("Total number of register requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create register_requests_total: %v", err)
		}

		m.HTTPRequestDurationSeconds, err = meter.Float64Histogram(
			"http_request_duration_seconds",
			metric.WithDescription("Duration of HTTP requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_request_duration_seconds: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the application instruments, creating them on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

// RecipeOperation counts one recipe service call.
func (m *AppMetrics) RecipeOperation(ctx context.Context, operation string, err error) {
	m.RecipeOperationsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome(err)),
	))
}

// Register counts one registration attempt.
func (m *AppMetrics) Register(ctx context.Context, err error) {
	m.RegisterRequestsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

// ObserveQuery records the duration of a store query started at start, and counts it if it failed.
func (m *AppMetrics) ObserveQuery(ctx context.Context, store, query string, start time.Time, err error) {
	attrs := metric.WithAttributes(attribute.String("store", store), attribute.String("query", query))
	m.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
