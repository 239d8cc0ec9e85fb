package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPErrorsTotal tracks HTTP errors by type.
var HTTPErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total HTTP errors by error type",
	},
	[]string{"type"},
)

// Middleware returns an Echo middleware that converts errors returned by
// handlers into JSON responses, records them, and logs them with request
// context. Unexpected faults become a generic 500; internal detail stays
// in the logs.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			structured := fromAnyError(err)
			HTTPErrorsTotal.WithLabelValues(string(structured.Type)).Inc()
			logError(c, structured)

			if err := c.JSON(structured.HTTPStatus(), structured.ToResponse()); err != nil {
				return fmt.Errorf("failed to write error response: %w", err)
			}
			return nil
		}
	}
}

// fromAnyError maps an arbitrary handler error to a structured *Error,
// translating echo's own HTTPError (bind failures, built-in middleware)
// by status code.
func fromAnyError(err error) *Error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
		e := &Error{Message: message, Cause: httpErr.Internal}
		switch httpErr.Code {
		case http.StatusBadRequest:
			e.Type = TypeValidation
		case http.StatusNotFound:
			e.Type = TypeNotFound
		case http.StatusTooManyRequests:
			e.Type = TypeRateLimited
		default:
			e.Type = TypeInternal
		}
		return e
	}

	return AsStructuredError(err)
}

// logError logs an error with request context at a level matching its type.
func logError(c echo.Context, err *Error) {
	attrs := []any{
		"error_type", err.Type,
		"message", err.Message,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"status", err.HTTPStatus(),
	}
	for k, v := range err.Context {
		attrs = append(attrs, k, v)
	}

	switch err.Type {
	case TypeValidation, TypeNotFound:
		slog.InfoContext(c.Request().Context(), "Client error", attrs...)
	case TypeRateLimited:
		slog.WarnContext(c.Request().Context(), "Rate limited", attrs...)
	default:
		if err.Cause != nil {
			attrs = append(attrs, "cause", err.Cause)
		}
		slog.ErrorContext(c.Request().Context(), "Internal error", attrs...)
	}
}
