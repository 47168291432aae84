package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// handleWS upgrades the connection, sends the current snapshot, then
// forwards every published snapshot until the client goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("ws upgrade: %v", err)
		return
	}

	send := make(chan []byte, sendBuffer)
	s.clientsMu.Lock()
	s.clients[conn] = send
	s.clientsMu.Unlock()

	if snap := s.snapshot(); snap != nil {
		if payload, err := json.Marshal(snap); err == nil {
			select {
			case send <- payload:
			default:
			}
		}
	}

	go s.writeLoop(conn, send)

	// Reader only drains control frames and detects disconnect.
	go func() {
		defer s.dropClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) writeLoop(conn *websocket.Conn, send chan []byte) {
	defer conn.Close()
	for payload := range send {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			s.dropClient(conn)
			return
		}
	}
}

// broadcast queues the payload for every client; clients with a full
// queue are dropped rather than blocking the publisher.
func (s *Server) broadcast(payload []byte) {
	s.clientsMu.Lock()
	var slow []*websocket.Conn
	for conn, send := range s.clients {
		select {
		case send <- payload:
		default:
			slow = append(slow, conn)
		}
	}
	for _, conn := range slow {
		s.removeClientLocked(conn)
	}
	s.clientsMu.Unlock()
}

func (s *Server) dropClient(conn *websocket.Conn) {
	s.clientsMu.Lock()
	s.removeClientLocked(conn)
	s.clientsMu.Unlock()
}

func (s *Server) removeClientLocked(conn *websocket.Conn) {
	if send, ok := s.clients[conn]; ok {
		delete(s.clients, conn)
		close(send)
	}
	conn.Close()
}
