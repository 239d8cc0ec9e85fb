package server

import (
	"log/slog"
	"runtime"
	"sort"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Solid7731/flowclient-api/internal/errors"
	"github.com/Solid7731/flowclient-api/internal/metrics"
	"github.com/Solid7731/flowclient-api/internal/validation"
	"github.com/Solid7731/flowclient-api/internal/version"
)

func (s *Server) handlePing(c echo.Context) error {
	var input validation.HeartbeatInput
	if err := c.Bind(&input); err != nil {
		metrics.HeartbeatsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return apperrors.ValidationError("malformed request body")
	}

	id, err := validation.Validate(input)
	if err != nil {
		metrics.HeartbeatsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return err
	}

	wasNew, total := s.registry.Upsert(id, input.Username, input.Client, input.Version)
	metrics.HeartbeatsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()

	if wasNew {
		metrics.JoinsTotal.Inc()
		slog.InfoContext(c.Request().Context(), "Player joined",
			"player_uuid", id.String(),
			"username", input.Username,
			"online", total,
		)
		if s.feed != nil {
			s.feed.Publish(total)
		}
	}

	return c.JSON(200, map[string]any{
		"success": true,
		"online":  total,
	})
}

func (s *Server) handleOnline(c echo.Context) error {
	snapshot := s.registry.Snapshot()

	players := make([]map[string]string, 0, len(snapshot))
	for _, rec := range snapshot {
		players = append(players, map[string]string{"username": rec.DisplayName})
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i]["username"] < players[j]["username"]
	})

	return c.JSON(200, map[string]any{
		"count":   len(snapshot),
		"players": players,
	})
}

func (s *Server) handleStats(c echo.Context) error {
	snapshot := s.registry.Snapshot()

	versions := make(map[string]int)
	for _, rec := range snapshot {
		versions[rec.ClientVersion]++
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(200, map[string]any{
		"count":    len(snapshot),
		"versions": versions,
		"uptime":   s.uptime(),
		"memory": map[string]uint64{
			"heap_alloc": mem.HeapAlloc,
			"sys":        mem.Sys,
		},
	})
}

func (s *Server) handleRoot(c echo.Context) error {
	return c.JSON(200, map[string]any{
		"name":    ServiceName,
		"version": version.Get().Version,
		"status":  "online",
		"players": s.registry.Count(),
		"uptime":  s.uptime(),
		"endpoints": []string{
			"POST /ping",
			"GET /online",
			"GET /stats",
			"GET /ws/online",
		},
	})
}

func (s *Server) handleLiveness(c echo.Context) error {
	return c.JSON(200, map[string]any{
		"status": "ok",
		"uptime": s.uptime(),
	})
}

// handleReadiness mirrors liveness: the registry is in-memory, so a live
// process is a ready process. Kept as a separate route for probe configs.
func (s *Server) handleReadiness(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "ready"})
}
