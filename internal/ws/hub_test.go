package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/botfleet/console/internal/campaigns"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	h := NewHub(nil)
	go h.Run()

	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	t.Cleanup(srv.Close)
	return h, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsEvents(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url)
	waitForClients(t, h, 1)

	h.Publish(campaigns.Event{
		Type:       campaigns.EventCampaignExecuted,
		BotID:      "bot-1",
		CampaignID: 7,
		Count:      42,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var got campaigns.Event
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, campaigns.EventCampaignExecuted, got.Type)
	assert.Equal(t, "bot-1", got.BotID)
	assert.Equal(t, int64(7), got.CampaignID)
	assert.Equal(t, 42, got.Count)
}

func TestHubFansOutToAllClients(t *testing.T) {
	h, url := startHub(t)
	conn1 := dial(t, url)
	conn2 := dial(t, url)
	waitForClients(t, h, 2)

	h.Publish(campaigns.Event{Type: campaigns.EventQueueRefreshed, BotID: "bot-1"})

	for _, conn := range []*websocket.Conn{conn1, conn2} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(payload), campaigns.EventQueueRefreshed)
	}
}

func TestHubPublishNeverBlocksWithoutClients(t *testing.T) {
	h := NewHub(nil)
	// Run is intentionally not started; the buffer absorbs what fits and
	// the rest is dropped.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 200; i++ {
			h.Publish(campaigns.Event{Type: campaigns.EventQueueRefreshed})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked")
	}
}

func TestHubClientDisconnect(t *testing.T) {
	h, url := startHub(t)
	conn := dial(t, url)
	waitForClients(t, h, 1)

	conn.Close()
	waitForClients(t, h, 0)
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
	t.Fatalf("expected %d connected clients, have %d", want, h.ClientCount())
}
