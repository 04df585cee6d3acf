package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/GoldenInvestBI/FUSION-BEEF/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	ctx := context.Background()
	before := otel.GetTracerProvider()

	shutdown, err := Setup(ctx, config.TelemetryConfig{ServiceName: "catalog-sync-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.Same(t, before, otel.GetTracerProvider())

	_, span := otel.Tracer("test").Start(ctx, "sync")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, shutdown(ctx))
}

func TestSetupExportsToEndpoint(t *testing.T) {
	var received atomic.Int32
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer collector.Close()

	ctx := context.Background()
	shutdown, err := Setup(ctx, config.TelemetryConfig{
		ServiceName:  "catalog-sync-test",
		OTLPEndpoint: collector.URL + "/v1/traces",
	}, zap.NewNop())
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(ctx, "sync")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(ctx))
	assert.Positive(t, received.Load())
}
