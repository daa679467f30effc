package chat

import (
	"encoding/json"
	"testing"
	"time"
)

func registerTestConn(t *testing.T, h *Hub, steamID string) *Connection {
	t.Helper()
	conn := &Connection{SteamID: steamID, Send: make(chan []byte, 8)}
	h.Register(conn)

	// Registration completes on the hub goroutine; wait until the
	// connection is visible before asserting on deliveries.
	deadline := time.Now().Add(time.Second)
	for {
		h.mu.RLock()
		_, ok := h.connections[conn]
		h.mu.RUnlock()
		if ok {
			return conn
		}
		if time.Now().After(deadline) {
			t.Fatal("connection never registered")
		}
		time.Sleep(time.Millisecond)
	}
}

func recvEvent(t *testing.T, conn *Connection) WSEvent {
	t.Helper()
	select {
	case payload := <-conn.Send:
		var e WSEvent
		if err := json.Unmarshal(payload, &e); err != nil {
			t.Fatalf("malformed event payload: %v", err)
		}
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return WSEvent{}
	}
}

func TestHubBroadcastReachesAllConnections(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	a := registerTestConn(t, h, "76561198000000001")
	b := registerTestConn(t, h, "76561198000000002")

	h.Broadcast(WSEvent{Type: EventChatMessage, SteamID: a.SteamID, Message: "gl hf", Timestamp: time.Now().UTC()})

	for _, conn := range []*Connection{a, b} {
		e := recvEvent(t, conn)
		if e.Type != EventChatMessage || e.Message != "gl hf" {
			t.Fatalf("unexpected event: %+v", e)
		}
	}
}

func TestHubSendToTargetsSingleUser(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	a := registerTestConn(t, h, "76561198000000001")
	b := registerTestConn(t, h, "76561198000000002")

	h.SendTo(a.SteamID, WSEvent{Type: EventRejected, Reason: "Links are not allowed", Timestamp: time.Now().UTC()})

	e := recvEvent(t, a)
	if e.Type != EventRejected {
		t.Fatalf("expected rejection event, got %+v", e)
	}

	select {
	case payload := <-b.Send:
		t.Fatalf("rejection leaked to another user: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubUnregisterClosesSendChannel(t *testing.T) {
	h := NewHub(nil)
	go h.Run()
	defer h.Stop()

	conn := registerTestConn(t, h, "76561198000000001")
	h.Unregister(conn)

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected closed channel, got a payload")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
