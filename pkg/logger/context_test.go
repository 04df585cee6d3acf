package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromCtx(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core).With(zap.String("run_id", "r1")))

	FromCtx(ctx).Info("hello")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "r1", entries[0].ContextMap()["run_id"])
	}
	assert.Same(t, zap.L(), FromCtx(context.Background()))
}

func TestFromContextPrefersEchoValue(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	requestLogger := zap.NewNop().Named("request")
	c.Set("logger", requestLogger)

	assert.Same(t, requestLogger, FromContext(c))
}
