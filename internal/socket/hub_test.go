// server/internal/socket/hub_test.go
package socket

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addTestClient joins a client without starting its writer so tests can
// inspect the send queue directly.
func addTestClient(h *Hub, rooms ...string) *client {
	c := &client{conn: &websocket.Conn{}, send: make(chan []byte, sendBuffer)}
	h.add(c, rooms...)
	return c
}

func decodeEvent(t *testing.T, payload []byte) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal(payload, &ev))
	return ev
}

func TestBroadcastReachesOnlyRoomMembers(t *testing.T) {
	hub := NewHub()
	member := addTestClient(hub, UserRoom("u-1"), BranchRoom("main"))
	other := addTestClient(hub, UserRoom("u-2"), BranchRoom("main"))

	hub.SendToUser("u-1", Event{Type: "workorder.assigned"})

	require.Len(t, member.send, 1)
	assert.Empty(t, other.send)
	assert.Equal(t, "workorder.assigned", decodeEvent(t, <-member.send).Type)

	hub.SendToBranch("main", Event{Type: "workorder.blocked"})
	assert.Len(t, member.send, 1)
	assert.Len(t, other.send, 1)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	hub.SendToUser("nobody", Event{Type: "invoice.created"})
}

func TestBroadcastDropsWhenQueueFull(t *testing.T) {
	hub := NewHub()
	c := addTestClient(hub, UserRoom("u-1"))

	for i := 0; i < sendBuffer+5; i++ {
		hub.SendToUser("u-1", Event{Type: fmt.Sprintf("ev-%d", i)})
	}

	// The overflow is dropped, never blocks the sender.
	assert.Len(t, c.send, sendBuffer)
	assert.Equal(t, "ev-0", decodeEvent(t, <-c.send).Type)
}

func TestUnregisterClosesClientAndEmptiesRooms(t *testing.T) {
	hub := NewHub()
	c := addTestClient(hub, UserRoom("u-1"), BranchRoom("main"))

	hub.Unregister(c.conn)

	_, open := <-c.send
	assert.False(t, open)

	hub.mu.RLock()
	assert.Empty(t, hub.rooms)
	assert.Empty(t, hub.clients)
	hub.mu.RUnlock()

	// Unknown connections are ignored.
	hub.Unregister(&websocket.Conn{})
}

func TestConcurrentBroadcastAndUnregister(t *testing.T) {
	hub := NewHub()
	conns := make([]*client, 8)
	for i := range conns {
		conns[i] = addTestClient(hub, BranchRoom("main"))
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			hub.SendToBranch("main", Event{Type: "qa.submitted"})
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range conns {
			hub.Unregister(c.conn)
		}
	}()
	wg.Wait()

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	assert.Empty(t, hub.clients)
}
