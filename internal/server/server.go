package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Solid7731/flowclient-api/internal/config"
	"github.com/Solid7731/flowclient-api/internal/correlation"
	"github.com/Solid7731/flowclient-api/internal/domain"
	apperrors "github.com/Solid7731/flowclient-api/internal/errors"
	"github.com/Solid7731/flowclient-api/internal/feed"
)

// ServiceName identifies the API in the root endpoint payload.
const ServiceName = "flowclient-api"

type Server struct {
	echo        *echo.Echo
	config      *config.Config
	registry    domain.Registry
	feed        *feed.Hub
	pingLimiter *PingRateLimiter
	startTime   time.Time
}

// NewServer wires the HTTP surface around the given registry and feed hub.
// feedHub may be nil; the live-feed route is then not registered.
func NewServer(cfg *config.Config, registry domain.Registry, feedHub *feed.Hub) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(correlation.Middleware())
	e.Use(apperrors.Middleware())
	e.Use(middleware.Recover())

	srv := &Server{
		echo:        e,
		config:      cfg,
		registry:    registry,
		feed:        feedHub,
		pingLimiter: NewPingRateLimiter(cfg.PingRateLimitPerMinute),
		startTime:   time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	return s.echo.Start(fmt.Sprintf(":%s", s.config.Port))
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) uptime() float64 {
	return time.Since(s.startTime).Seconds()
}
