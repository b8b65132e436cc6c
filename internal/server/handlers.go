package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/mohae/deepcopy"

	"github.com/aeroops/divert/internal/alerts"
	"github.com/aeroops/divert/internal/diversion"
	"github.com/aeroops/divert/internal/feeds"
	"github.com/aeroops/divert/internal/model"
	"github.com/aeroops/divert/internal/perf"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleEvaluate runs one diversion decision. When the caller supplies no
// candidates, they are assembled from the airport directory and live feeds
// for the scenario's region; caller-supplied candidates and alerts are used
// as-is (the UI may re-rank a corrected snapshot).
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req model.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	defer r.Body.Close()

	if len(req.CandidateAirports) == 0 && s.assembler != nil {
		candidates, active, err := s.assembler.Assemble(r.Context(), req.Scenario)
		if err != nil {
			log.Printf("input assembly failed: %v", err)
			writeError(w, http.StatusBadGateway, "airport directory unavailable")
			return
		}
		req.CandidateAirports = candidates
		if len(req.ActiveAlerts) == 0 {
			req.ActiveAlerts = active
		}
	}

	resp, err := s.engine.Evaluate(req, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, diversion.ErrNoCandidates):
			writeError(w, http.StatusUnprocessableEntity, "no candidate airports available")
		case errors.Is(err, perf.ErrInvalidPerformanceInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			log.Printf("evaluate failed: %v", err)
			writeError(w, http.StatusInternalServerError, "evaluation failed")
		}
		return
	}

	if s.store != nil {
		// snapshot before handing to the goroutine: the request struct must
		// not be shared with a concurrent writer
		reqSnap := deepcopy.Copy(&req).(*model.DecisionRequest)
		go s.audit(reqSnap, resp)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) audit(req *model.DecisionRequest, resp model.DecisionResponse) {
	reqJSON, err := json.Marshal(req)
	if err != nil {
		log.Printf("audit: marshal request: %v", err)
		return
	}
	respJSON, err := json.Marshal(resp)
	if err != nil {
		log.Printf("audit: marshal response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.store.SaveDecision(ctx, reqJSON, respJSON); err != nil {
		log.Printf("audit: save decision: %v", err)
	}
}

// handleAlerts answers "what restrictions touch this corridor right now"
// without running a full decision.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.assembler == nil {
		writeError(w, http.StatusNotFound, "alert feed not configured")
		return
	}

	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	alt, err3 := strconv.ParseFloat(r.URL.Query().Get("alt"), 64)
	if err1 != nil || err2 != nil || err3 != nil {
		writeError(w, http.StatusBadRequest, "lat, lon and alt query parameters are required")
		return
	}

	corridor := model.FlightCorridor{
		CurrentPosition: model.Position{Lat: lat, Lon: lon},
		AltitudeFt:      alt,
	}

	region := feeds.RegionAround(corridor.CurrentPosition, s.cfg.Feeds.SearchRadiusNm)
	active, err := s.assembler.Alerts.Alerts(r.Context(), region)
	if err != nil {
		log.Printf("alert query failed: %v", err)
		writeError(w, http.StatusBadGateway, "alert feed unavailable")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"corridorAlerts": alerts.Relevant(active, corridor, time.Now().UTC()),
	})
}

func (s *Server) handleRecentDecisions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, "decision audit store not configured")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	blobs, err := s.store.RecentDecisions(r.Context(), limit)
	if err != nil {
		log.Printf("recent decisions query failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]json.RawMessage, len(blobs))
	for i, b := range blobs {
		out[i] = json.RawMessage(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{"decisions": out})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"status": "ok"}
	if t := s.hub.LastBroadcast(); !t.IsZero() {
		resp["last_alert_push"] = t.UTC().Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, resp)
}
