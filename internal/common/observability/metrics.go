// Package observability wires OpenTelemetry metrics to the Prometheus registry.
package observability

import (
	"context"
	"fmt"

	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Metrics holds the meter provider and the instruments shared by services.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	meter    metric.Meter

	StageUpdates     metric.Int64Counter
	StageDuration    metric.Float64Histogram
	NotificationSent metric.Int64Counter
}

// New sets up an OTel meter provider backed by the default Prometheus registry.
func New(serviceName string) (*Metrics, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	stageUpdates, err := meter.Int64Counter(
		"pipeline.stage_updates",
		metric.WithDescription("Number of application stage updates processed"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage updates counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram(
		"pipeline.stage_update_duration",
		metric.WithDescription("Duration of stage update operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create stage duration histogram: %w", err)
	}

	notificationSent, err := meter.Int64Counter(
		"pipeline.notifications_sent",
		metric.WithDescription("Number of candidate notifications sent"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create notifications counter: %w", err)
	}

	return &Metrics{
		provider:         provider,
		meter:            meter,
		StageUpdates:     stageUpdates,
		StageDuration:    stageDuration,
		NotificationSent: notificationSent,
	}, nil
}

// Shutdown flushes and stops the meter provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}
