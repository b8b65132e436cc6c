// Package server exposes the diversion engine over HTTP: a synchronous
// evaluate endpoint, a corridor alert query, and a WebSocket stream pushing
// alert refreshes to connected operator consoles.
package server

import (
	"net/http"

	"github.com/aeroops/divert/internal/config"
	"github.com/aeroops/divert/internal/diversion"
	"github.com/aeroops/divert/internal/feeds"
	"github.com/aeroops/divert/internal/store"
)

// Server holds dependencies for the HTTP handlers. store may be nil when
// the service runs without a database.
type Server struct {
	cfg       *config.Config
	engine    *diversion.Engine
	assembler *feeds.Assembler
	store     store.Store
	hub       *Hub
}

func New(cfg *config.Config, engine *diversion.Engine, assembler *feeds.Assembler, st store.Store, hub *Hub) *Server {
	return &Server{cfg: cfg, engine: engine, assembler: assembler, store: st, hub: hub}
}

// Router returns the HTTP handler with all routes registered.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("/api/v1/alerts", s.handleAlerts)
	mux.HandleFunc("/api/v1/decisions", s.handleRecentDecisions)
	mux.HandleFunc("/api/v1/stream", s.handleStream)
	mux.HandleFunc("/healthz", s.handleHealth)
	return s.corsMiddleware(mux)
}
