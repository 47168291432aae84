package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-dashboard/internal/domain"
)

func testSnapshot() *domain.Snapshot {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Snapshot{
		GeneratedAt: t1,
		RecordCount: 3,
		Status: map[string]domain.StatusEntry{
			"Sys1": {SystemID: "Sys1", Value: "Running", Running: true, Timestamp: t1},
		},
		Equity: &domain.EquitySeries{
			Timeline:  []time.Time{t1},
			PerSystem: map[string][]float64{"Sys1": {100}},
			Total:     []float64{100},
		},
		Positions: []domain.Position{
			{SystemID: "Sys1", Symbol: "BTCUSDT", Size: "0.5", Entry: "34000", Timestamp: t1},
		},
		Signals: []domain.Signal{
			{Timestamp: t1, SystemID: "Sys1", Value: "BUY"},
		},
		Chart: []byte{0x89, 'P', 'N', 'G'},
	}
}

func TestServer_NoDataYet(t *testing.T) {
	srv := New(Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, path := range []string{"/api/snapshot", "/api/status", "/api/equity", "/api/positions", "/api/signals"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/chart.png")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestServer_ServesSnapshot(t *testing.T) {
	srv := New(Options{})
	srv.Publish(testSnapshot())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var statuses map[string]domain.StatusEntry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&statuses))
	assert.True(t, statuses["Sys1"].Running)

	resp, err = http.Get(ts.URL + "/api/equity")
	require.NoError(t, err)
	defer resp.Body.Close()
	var series domain.EquitySeries
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&series))
	assert.Equal(t, []float64{100}, series.Total)
}

func TestServer_ChartPNG(t *testing.T) {
	srv := New(Options{})
	srv.Publish(testSnapshot())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/chart.png")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestServer_HealthReflectsErrors(t *testing.T) {
	srv := New(Options{})
	srv.Publish(testSnapshot())
	srv.PublishError(errors.New("feed: request timed out"))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, false, health["ok"])
	assert.Equal(t, true, health["hasData"], "previous snapshot stays served")
	assert.Contains(t, health["lastError"], "timed out")

	// The data endpoints still serve the previous snapshot.
	resp, err = http.Get(ts.URL + "/api/snapshot")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_PublishClearsError(t *testing.T) {
	srv := New(Options{})
	srv.PublishError(errors.New("boom"))
	srv.Publish(testSnapshot())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, true, health["ok"])
}

func TestServer_WebsocketPush(t *testing.T) {
	srv := New(Options{})
	srv.Publish(testSnapshot())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Current snapshot arrives on connect.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, 3, snap.RecordCount)

	// A new publish is pushed.
	next := testSnapshot()
	next.RecordCount = 7
	srv.Publish(next)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &snap))
	assert.Equal(t, 7, snap.RecordCount)
}

func TestServer_IndexPage(t *testing.T) {
	srv := New(Options{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
}
