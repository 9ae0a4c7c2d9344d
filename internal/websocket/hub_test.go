package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func dialTestHub(t *testing.T, h *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (have %d)", want, h.ClientCount())
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := dialTestHub(t, h)
	waitForClients(t, h, 1)

	h.Broadcast("collectionChanged", map[string]string{"collection": "quotes"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if msg.Type != "collectionChanged" {
		t.Fatalf("message type = %q", msg.Type)
	}
}

func TestDropSlowClientAfterStop(t *testing.T) {
	h := NewHub()
	go h.Run()
	h.Stop()

	// With the hub stopped nothing drains unregister; the hand-off has
	// to give up instead of leaking a blocked goroutine.
	done := make(chan struct{})
	go func() {
		h.drop(&Client{send: make(chan []byte)})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("drop of slow client blocked after hub stop")
	}
}

func TestHubDisconnectDropsClient(t *testing.T) {
	h := NewHub()
	go h.Run()
	defer h.Stop()

	conn := dialTestHub(t, h)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
}
