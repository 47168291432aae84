// Package server exposes the dashboard over HTTP: JSON views of the
// current snapshot, the rendered equity chart, a websocket channel that
// pushes each new snapshot, and the embedded browser page.
package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"trading-dashboard/internal/domain"
)

// sendBuffer is the per-client websocket queue; clients that fall this far
// behind are dropped.
const sendBuffer = 8

// Server holds the current snapshot and serves it. It implements the
// poller's Publisher: Publish replaces the snapshot whole and broadcasts
// it to websocket clients.
type Server struct {
	logger         *log.Logger
	metricsHandler http.Handler
	upgrader       websocket.Upgrader

	mu        sync.RWMutex
	current   *domain.Snapshot
	lastError string
	lastCycle time.Time

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]chan []byte
}

// Options configures the Server.
type Options struct {
	Logger *log.Logger
	// MetricsHandler, when set, is mounted at /metrics.
	MetricsHandler http.Handler
}

// New creates a Server with no snapshot yet; data endpoints answer 503
// until the first Publish.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger:         logger,
		metricsHandler: opts.MetricsHandler,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// Publish replaces the current snapshot and pushes it to all websocket
// clients.
func (s *Server) Publish(snap *domain.Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.lastError = ""
	s.lastCycle = snap.GeneratedAt
	s.mu.Unlock()

	payload, err := json.Marshal(snap)
	if err != nil {
		s.logger.Printf("marshal snapshot: %v", err)
		return
	}
	s.broadcast(payload)
}

// PublishError records a failed cycle. The previous snapshot stays
// served; only the error status is updated.
func (s *Server) PublishError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

// Handler returns the dashboard HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/snapshot", s.handleSnapshot)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/equity", s.handleEquity)
	mux.HandleFunc("/api/positions", s.handlePositions)
	mux.HandleFunc("/api/signals", s.handleSignals)
	mux.HandleFunc("/chart.png", s.handleChart)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	if s.metricsHandler != nil {
		mux.Handle("/metrics", s.metricsHandler)
	}
	return mux
}

// snapshot returns the current snapshot, or nil before the first publish.
func (s *Server) snapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}
	writeJSON(w, snap)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}
	writeJSON(w, snap.Status)
}

func (s *Server) handleEquity(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}
	writeJSON(w, snap.Equity)
}

func (s *Server) handlePositions(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}
	positions := snap.Positions
	if positions == nil {
		positions = []domain.Position{}
	}
	writeJSON(w, positions)
}

func (s *Server) handleSignals(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "no data yet")
		return
	}
	signals := snap.Signals
	if signals == nil {
		signals = []domain.Signal{}
	}
	writeJSON(w, signals)
}

func (s *Server) handleChart(w http.ResponseWriter, _ *http.Request) {
	snap := s.snapshot()
	if snap == nil || len(snap.Chart) == 0 {
		http.Error(w, "no chart available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(snap.Chart)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	health := map[string]any{
		"ok":        s.lastError == "",
		"hasData":   s.current != nil,
		"lastCycle": s.lastCycle.Format(time.RFC3339),
	}
	if s.lastError != "" {
		health["lastError"] = s.lastError
	}
	s.mu.RUnlock()
	writeJSON(w, health)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
