package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopzone/shopzone-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 1)
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(1)
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		return !hub.IsUserOnline(1)
	}, time.Second, 10*time.Millisecond)
}

func TestHub_UnregisterTwiceKeepsOtherSessionAlive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	dropped := newTestClient(hub, 3)
	survivor := newTestClient(hub, 3)
	hub.Register(dropped)
	hub.Register(survivor)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(3)
	}, time.Second, 10*time.Millisecond)

	// A slow-client drop and a read-side disconnect may both report the
	// same client. The second must not close the channel again.
	hub.Unregister(dropped)
	hub.Unregister(dropped)

	require.Eventually(t, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients[3]) == 1
	}, time.Second, 10*time.Millisecond)

	hub.NotifyOrderStatus(3, 11, model.OrderStatusPending, 10.0)

	select {
	case payload := <-survivor.Send:
		var event OrderStatusEvent
		require.NoError(t, json.Unmarshal(payload, &event))
		assert.Equal(t, uint(11), event.OrderID)
	case <-time.After(time.Second):
		t.Fatal("surviving session stopped receiving events")
	}
}

func TestHub_NotifyOrderStatus_FansOutToAllSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	tab1 := newTestClient(hub, 7)
	tab2 := newTestClient(hub, 7)
	stranger := newTestClient(hub, 8)
	hub.Register(tab1)
	hub.Register(tab2)
	hub.Register(stranger)

	require.Eventually(t, func() bool {
		return hub.IsUserOnline(7) && hub.IsUserOnline(8)
	}, time.Second, 10*time.Millisecond)

	hub.NotifyOrderStatus(7, 99, model.OrderStatusDelivering, 42.5)

	for _, client := range []*Client{tab1, tab2} {
		select {
		case payload := <-client.Send:
			var event OrderStatusEvent
			require.NoError(t, json.Unmarshal(payload, &event))
			assert.Equal(t, "order_status", event.Type)
			assert.Equal(t, uint(99), event.OrderID)
			assert.Equal(t, model.OrderStatusDelivering, event.Status)
			assert.Equal(t, 42.5, event.TotalAmount)
		case <-time.After(time.Second):
			t.Fatal("expected order event was not delivered")
		}
	}

	select {
	case <-stranger.Send:
		t.Fatal("event leaked to another user's session")
	case <-time.After(50 * time.Millisecond):
	}
}
