package correlation

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Length(t *testing.T) {
	assert.Len(t, NewID(), 8)
}

func TestNewID_Unique(t *testing.T) {
	ids := make(map[string]struct{}, 100)
	for n := 0; n < 100; n++ {
		ids[NewID()] = struct{}{}
	}
	assert.Len(t, ids, 100, "ids should not collide in a small sample")
}

func TestWithID_RoundTrip(t *testing.T) {
	ctx := WithID(context.Background(), "abc123")

	id, ok := ID(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc123", id)
}

func TestID_AbsentFromContext(t *testing.T) {
	_, ok := ID(context.Background())
	assert.False(t, ok)
}

func TestHandler_InjectsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithID(context.Background(), "deadbeef")
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), "correlation_id=deadbeef")
}

func TestHandler_NoIDNoAttribute(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(slog.NewTextHandler(&buf, nil)))

	logger.InfoContext(context.Background(), "hello")

	assert.NotContains(t, buf.String(), "correlation_id")
}

func TestMiddleware_GeneratesID(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())

	var captured string
	e.GET("/", func(c echo.Context) error {
		captured, _ = ID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Len(t, captured, 8)
	assert.Equal(t, captured, rec.Header().Get(HeaderName))
}

func TestMiddleware_HonorsInboundHeader(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())

	var captured string
	e.GET("/", func(c echo.Context) error {
		captured, _ = ID(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderName, "upstream1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "upstream1", captured)
	assert.Equal(t, "upstream1", rec.Header().Get(HeaderName))
}
