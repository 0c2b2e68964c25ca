package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealtime_OperationBroadcast(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/api/realtime/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	// Give the hub a beat to register the client before broadcasting.
	time.Sleep(50 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/insights/cards/1/actions/beverageAudit/execute", nil)
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "operation", msg.Type)

	payload := msg.Payload.(map[string]interface{})
	assert.Equal(t, "Beverage Sales Falling Short", payload["name"])
	assert.Equal(t, "in progress", payload["status"])
}

func TestRealtime_SnapshotRefreshBroadcast(t *testing.T) {
	s := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.hub.Run(ctx)

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := strings.Replace(srv.URL, "http://", "ws://", 1) + "/api/realtime/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	// A successful refresh tells connected dashboards to re-fetch.
	s.board.Start(context.Background())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg Message
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "snapshot_refreshed", msg.Type)

	payload := msg.Payload.(map[string]interface{})
	assert.Equal(t, "configured", payload["source"])
}

func TestRealtime_SlowConsumerDoesNotBlockExecute(t *testing.T) {
	s := newTestServer(t)

	// Hub intentionally not running: broadcasts queue and then drop, but
	// action execution must still succeed.
	for i := 0; i < 300; i++ {
		s.hub.BroadcastSnapshotRefreshed("configured")
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/insights/cards/1/actions/beverageAudit/execute", nil)
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
