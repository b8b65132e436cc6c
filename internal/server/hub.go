package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aeroops/divert/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans alert refreshes out to connected WebSocket clients. The alert
// watcher is the single producer; each client gets the latest full list on
// connect and every refresh after that.
type Hub struct {
	mu            sync.RWMutex
	clients       map[*websocket.Conn]chan []byte
	latest        []byte
	lastBroadcast time.Time
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]chan []byte)}
}

// Broadcast serializes the alert list and pushes it to every client. Called
// by the feed watcher on each refresh.
func (h *Hub) Broadcast(alerts []model.AirspaceAlert) {
	msg, err := json.Marshal(map[string]any{
		"type":   "alerts",
		"alerts": alerts,
	})
	if err != nil {
		log.Printf("hub: marshal alerts: %v", err)
		return
	}

	h.mu.Lock()
	h.latest = msg
	h.lastBroadcast = time.Now()
	for conn, send := range h.clients {
		select {
		case send <- msg:
		default:
			// slow consumer: drop it rather than stalling the watcher
			log.Printf("hub: client %s send buffer full, dropping", conn.RemoteAddr())
			delete(h.clients, conn)
			close(send)
		}
	}
	h.mu.Unlock()
}

// LastBroadcast returns when alerts were last pushed, zero if never.
func (h *Hub) LastBroadcast() time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.lastBroadcast
}

func (h *Hub) add(conn *websocket.Conn) chan []byte {
	send := make(chan []byte, 8)
	h.mu.Lock()
	h.clients[conn] = send
	if h.latest != nil {
		send <- h.latest
	}
	h.mu.Unlock()
	return send
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
}

// handleStream upgrades the connection and streams alert refreshes until
// the client goes away.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("stream upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := s.hub.add(conn)
	defer s.hub.remove(conn)
	log.Printf("stream client connected: %s", conn.RemoteAddr())

	// drain reads so close/ping frames are processed
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for msg := range send {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("stream write to %s failed: %v", conn.RemoteAddr(), err)
			return
		}
	}
}
