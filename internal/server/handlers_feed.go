package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func (s *Server) handleFeed(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade websocket: %w", err)
	}

	if err := s.feed.Subscribe(conn); err != nil {
		slog.WarnContext(c.Request().Context(), "Feed subscription rejected", "error", err)
		return nil
	}

	// New subscribers learn the current count immediately rather than
	// waiting for the next change.
	s.feed.Publish(s.registry.Count())

	// Read pump — blocks until the connection closes
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.feed.Unsubscribe(conn)

	return nil
}
