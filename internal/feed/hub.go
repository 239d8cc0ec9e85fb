// Package feed pushes online-count updates to websocket subscribers.
//
// The hub serializes all state changes through a single command channel;
// each connection gets its own writer goroutine with a bounded send
// buffer, and clients that stop draining it are evicted.
package feed

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Solid7731/flowclient-api/internal/metrics"
)

const writeTimeout = 5 * time.Second

// --- Command types ---

type hubCmd interface{ hubCmd() }

type cmdSubscribe struct {
	conn  *websocket.Conn
	errCh chan error
}

func (cmdSubscribe) hubCmd() {}

type cmdUnsubscribe struct {
	conn *websocket.Conn
}

func (cmdUnsubscribe) hubCmd() {}

type cmdPublish struct {
	data []byte
}

func (cmdPublish) hubCmd() {}

type cmdClientCount struct {
	replyCh chan int
}

func (cmdClientCount) hubCmd() {}

type cmdStop struct{}

func (cmdStop) hubCmd() {}

// --- Per-connection writer ---

type subscriberWriter struct {
	conn   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
}

func newSubscriberWriter(conn *websocket.Conn) *subscriberWriter {
	sw := &subscriberWriter{
		conn:   conn,
		sendCh: make(chan []byte, 16),
		done:   make(chan struct{}),
	}
	go sw.run()
	return sw
}

func (sw *subscriberWriter) run() {
	for {
		select {
		case msg, ok := <-sw.sendCh:
			if !ok {
				return
			}
			sw.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sw.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-sw.done:
			return
		}
	}
}

func (sw *subscriberWriter) stop() {
	close(sw.done)
	sw.conn.Close()
}

// --- Hub ---

// Hub fan-outs online-count updates to all subscribed connections.
type Hub struct {
	cmdCh          chan hubCmd
	subscribers    map[*websocket.Conn]*subscriberWriter
	maxSubscribers int
}

// NewHub creates and starts a hub capped at maxSubscribers connections.
func NewHub(maxSubscribers int) *Hub {
	hub := &Hub{
		cmdCh:          make(chan hubCmd, 256),
		subscribers:    make(map[*websocket.Conn]*subscriberWriter),
		maxSubscribers: maxSubscribers,
	}
	go hub.run()
	return hub
}

func (h *Hub) run() {
	for cmd := range h.cmdCh {
		switch c := cmd.(type) {
		case cmdSubscribe:
			h.handleSubscribe(c)
		case cmdUnsubscribe:
			h.handleUnsubscribe(c.conn)
		case cmdPublish:
			h.handlePublish(c.data)
		case cmdClientCount:
			c.replyCh <- len(h.subscribers)
		case cmdStop:
			h.handleStop()
			return
		}
	}
}

func (h *Hub) handleSubscribe(c cmdSubscribe) {
	if len(h.subscribers) >= h.maxSubscribers {
		slog.Warn("Rejecting feed client: subscriber cap reached", "max", h.maxSubscribers)
		c.conn.Close()
		c.errCh <- fmt.Errorf("max feed connections (%d) reached", h.maxSubscribers)
		return
	}

	h.subscribers[c.conn] = newSubscriberWriter(c.conn)
	metrics.FeedClients.Set(float64(len(h.subscribers)))
	slog.Debug("Feed client subscribed", "clients", len(h.subscribers))
	c.errCh <- nil
}

func (h *Hub) handleUnsubscribe(conn *websocket.Conn) {
	sw, exists := h.subscribers[conn]
	if !exists {
		return
	}

	sw.stop()
	delete(h.subscribers, conn)
	metrics.FeedClients.Set(float64(len(h.subscribers)))
	slog.Debug("Feed client unsubscribed", "clients", len(h.subscribers))
}

func (h *Hub) handlePublish(data []byte) {
	var slow []*websocket.Conn
	for conn, sw := range h.subscribers {
		select {
		case sw.sendCh <- data:
		default:
			// client is not draining its buffer, mark for eviction
			slow = append(slow, conn)
		}
	}

	for _, conn := range slow {
		slog.Warn("Disconnecting slow feed client")
		metrics.FeedSlowClientsEvicted.Inc()
		h.handleUnsubscribe(conn)
	}
}

func (h *Hub) handleStop() {
	for conn, sw := range h.subscribers {
		sw.stop()
		delete(h.subscribers, conn)
	}
	metrics.FeedClients.Set(0)
}

// --- Public API ---

// Subscribe registers a connection for count updates. The connection is
// closed and an error returned when the hub is at capacity.
func (h *Hub) Subscribe(conn *websocket.Conn) error {
	errCh := make(chan error, 1)
	h.cmdCh <- cmdSubscribe{conn: conn, errCh: errCh}
	return <-errCh
}

// Unsubscribe removes a connection and stops its writer.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.cmdCh <- cmdUnsubscribe{conn: conn}
}

// Publish pushes the current online count to every subscriber.
func (h *Hub) Publish(count int) {
	data, err := json.Marshal(map[string]int{"online": count})
	if err != nil {
		slog.Error("Failed to marshal feed message", "error", err)
		return
	}
	h.cmdCh <- cmdPublish{data: data}
}

// ClientCount reports the current number of subscribers.
func (h *Hub) ClientCount() int {
	replyCh := make(chan int, 1)
	h.cmdCh <- cmdClientCount{replyCh: replyCh}
	return <-replyCh
}

// Stop disconnects every subscriber and ends the hub goroutine.
func (h *Hub) Stop() {
	h.cmdCh <- cmdStop{}
}
