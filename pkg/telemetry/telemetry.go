// Package telemetry configures OpenTelemetry tracing
package telemetry

import (
	"context"
	"time"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"
)

// Setup installs a global tracer provider exporting to the OTLP endpoint.
// Without an endpoint the global no-op provider is left in place.
func Setup(ctx context.Context, cfg config.TelemetryConfig, log *zap.Logger) (shutdown func(context.Context) error, err error) {
	if cfg.OTLPEndpoint == "" {
		log.Debug("Tracing disabled, no OTLP endpoint configured")
		return func(context.Context) error { return nil }, nil
	}

	r, err := newResource(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	exporter, err := newExporter(ctx, cfg.OTLPEndpoint)
	if err != nil {
		return nil, err
	}
	log.Info("Trace exporter initialized", zap.String("endpoint", cfg.OTLPEndpoint))

	provider := trace.NewTracerProvider(trace.WithResource(r), trace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newExporter(ctx context.Context, endpoint string) (trace.SpanExporter, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
}
