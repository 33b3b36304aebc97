// Package telemetry exposes service counters through OpenTelemetry with a
// Prometheus exporter.
package telemetry

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/srgchrksv/ieltspodcaster"

type Metrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	dialogues metric.Int64Counter
	segments  metric.Int64Counter
	podcasts  metric.Int64Counter
}

// New wires a meter provider to its own Prometheus registry so tests can
// build several instances side by side.
func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	meter := provider.Meter(meterName)

	m := &Metrics{
		provider: provider,
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if m.dialogues, err = meter.Int64Counter("ielts_dialogues_generated",
		metric.WithDescription("Dialogues generated, by difficulty and outcome")); err != nil {
		return nil, err
	}
	if m.segments, err = meter.Int64Counter("ielts_tts_segments",
		metric.WithDescription("Speech synthesis calls, by speaker and outcome")); err != nil {
		return nil, err
	}
	if m.podcasts, err = meter.Int64Counter("ielts_podcasts_generated",
		metric.WithDescription("Podcasts assembled, by outcome")); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) Handler() http.Handler { return m.handler }

func (m *Metrics) Shutdown(ctx context.Context) error {
	return m.provider.Shutdown(ctx)
}

func (m *Metrics) Dialogue(ctx context.Context, difficulty string, err error) {
	if m == nil {
		return
	}
	m.dialogues.Add(ctx, 1, metric.WithAttributes(
		attribute.String("difficulty", difficulty),
		attribute.String("outcome", outcome(err)),
	))
}

func (m *Metrics) Segment(ctx context.Context, speaker string, err error) {
	if m == nil {
		return
	}
	m.segments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("speaker", speaker),
		attribute.String("outcome", outcome(err)),
	))
}

func (m *Metrics) Podcast(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.podcasts.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
