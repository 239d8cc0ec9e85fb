package server

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/Solid7731/flowclient-api/internal/errors"
)

func (s *Server) registerRoutes() {
	s.echo.GET("/", s.handleRoot)

	// Heartbeat ingest, rate limited per network origin
	s.echo.POST("/ping", s.handlePing, s.pingLimiter.Middleware())

	// Presence reads
	s.echo.GET("/online", s.handleOnline)
	s.echo.GET("/stats", s.handleStats)

	// Live feed (websocket)
	if s.feed != nil {
		s.echo.GET("/ws/online", s.handleFeed)
	}

	// Observability endpoints
	s.echo.GET("/health/live", s.handleLiveness)
	s.echo.GET("/health/ready", s.handleReadiness)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.echo.RouteNotFound("/*", func(c echo.Context) error {
		return apperrors.NotFoundError("Endpoint not found")
	})
}
