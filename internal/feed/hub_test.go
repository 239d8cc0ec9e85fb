package feed

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHub sets up a Hub behind a test HTTP server that upgrades
// connections. Returns the hub and a dial function.
func testHub(t *testing.T, maxSubscribers int) (*Hub, func() *ws.Conn) {
	t.Helper()

	hub := NewHub(maxSubscribers)
	t.Cleanup(func() { hub.Stop() })

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if err := hub.Subscribe(conn); err != nil {
			return
		}

		// Read loop to detect disconnects
		go func() {
			defer hub.Unsubscribe(conn)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					break
				}
			}
		}()
	}))
	t.Cleanup(server.Close)

	dial := func() *ws.Conn {
		t.Helper()
		url := "ws" + strings.TrimPrefix(server.URL, "http")
		conn, _, err := ws.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		return conn
	}

	return hub, dial
}

func waitForClientCount(hub *Hub, expected int) bool {
	for n := 0; n < 100; n++ {
		if hub.ClientCount() == expected {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func readCount(t *testing.T, conn *ws.Conn) int {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var payload map[string]int
	require.NoError(t, json.Unmarshal(msg, &payload))
	return payload["online"]
}

func TestHub_SubscribeAndPublish(t *testing.T) {
	hub, dial := testHub(t, 10)

	conn := dial()
	require.True(t, waitForClientCount(hub, 1))

	hub.Publish(3)

	assert.Equal(t, 3, readCount(t, conn))
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	hub, dial := testHub(t, 10)

	conn1 := dial()
	conn2 := dial()
	require.True(t, waitForClientCount(hub, 2))

	hub.Publish(7)

	assert.Equal(t, 7, readCount(t, conn1))
	assert.Equal(t, 7, readCount(t, conn2))
}

func TestHub_SubscriberCap(t *testing.T) {
	hub, dial := testHub(t, 2)

	dial()
	dial()
	require.True(t, waitForClientCount(hub, 2))

	// Third client is upgraded but rejected by the hub; its connection
	// gets closed, so reads fail quickly.
	conn := dial()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "over-cap client should be disconnected")
	assert.True(t, waitForClientCount(hub, 2))
}

func TestHub_UnsubscribeOnDisconnect(t *testing.T) {
	hub, dial := testHub(t, 10)

	conn := dial()
	require.True(t, waitForClientCount(hub, 1))

	conn.Close()
	assert.True(t, waitForClientCount(hub, 0))
}

func TestHub_StopDisconnectsEveryone(t *testing.T) {
	hub := NewHub(10)

	upgrader := ws.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = hub.Subscribe(conn)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := ws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.True(t, waitForClientCount(hub, 1))

	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "stopped hub should close subscriber connections")
}
