package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aeroops/divert/internal/config"
	"github.com/aeroops/divert/internal/diversion"
	"github.com/aeroops/divert/internal/model"
	"github.com/aeroops/divert/internal/store"
)

// memStore is an in-memory store.Store for exercising the audit path
// without a database.
type memStore struct {
	mu        sync.Mutex
	responses [][]byte
	saved     chan struct{}
}

func newMemStore() *memStore {
	return &memStore{saved: make(chan struct{}, 8)}
}

func (m *memStore) SaveDecision(ctx context.Context, request, response []byte) error {
	m.mu.Lock()
	m.responses = append(m.responses, response)
	m.mu.Unlock()
	m.saved <- struct{}{}
	return nil
}

func (m *memStore) RecentDecisions(ctx context.Context, limit int) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out [][]byte
	for i := len(m.responses) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.responses[i])
	}
	return out, nil
}

func (m *memStore) Migrate(ctx context.Context) error { return nil }

var _ store.Store = (*memStore)(nil)

func testServer() *Server {
	cfg := &config.Config{}
	cfg.Server.Port = "0"
	cfg.Feeds.SearchRadiusNm = 300
	return New(cfg, diversion.New(diversion.Config{}), nil, nil, NewHub())
}

func evaluateBody(t *testing.T) []byte {
	t.Helper()
	req := model.DecisionRequest{
		Scenario: model.EmergencyScenario{
			FailureType:     model.MedicalEmergency,
			AircraftType:    "A350-1000",
			CurrentPosition: model.Position{Lat: 45.18, Lon: -69.17},
			AltitudeFt:      40000,
			SpeedKt:         457,
			FuelRemainingKg: 42000,
			Passengers:      280,
		},
		CandidateAirports: []model.AlternateAirport{
			{ICAO: "CYHZ", Name: "Halifax Stanfield Intl",
				Position: model.Position{Lat: 44.8808, Lon: -63.5086}},
		},
	}
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestHandleEvaluate(t *testing.T) {
	srv := testServer()
	router := srv.Router()

	t.Run("caller-supplied candidates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
			bytes.NewReader(evaluateBody(t))))

		if rec.Code != http.StatusOK {
			t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
		}

		var resp model.DecisionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Options) != 1 || resp.Options[0].Airport.ICAO != "CYHZ" {
			t.Errorf("options = %+v", resp.Options)
		}
		if resp.Recommended == nil {
			t.Error("expected a recommendation for a reachable candidate")
		}
	})

	t.Run("no candidates maps to 422", func(t *testing.T) {
		req := model.DecisionRequest{Scenario: model.EmergencyScenario{
			AircraftType:    "A350-1000",
			CurrentPosition: model.Position{Lat: 45.18, Lon: -69.17},
			SpeedKt:         457,
			FuelRemainingKg: 42000,
		}}
		body, _ := json.Marshal(req)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
			bytes.NewReader(body)))

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status %d, want 422: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("invalid performance input maps to 400", func(t *testing.T) {
		var req model.DecisionRequest
		if err := json.Unmarshal(evaluateBody(t), &req); err != nil {
			t.Fatal(err)
		}
		req.Scenario.SpeedKt = 0
		body, _ := json.Marshal(req)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
			bytes.NewReader(body)))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed body maps to 400", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
			bytes.NewReader([]byte("{not json"))))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status %d, want 400", rec.Code)
		}
	})

	t.Run("GET rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/evaluate", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status %d, want 405", rec.Code)
		}
	})
}

func TestHandleAlertsNoAssembler(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/alerts?lat=45.18&lon=-69.17&alt=40000", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404 without a feed assembler", rec.Code)
	}
}

func TestHandleRecentDecisionsNoStore(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/decisions", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status %d, want 404 without an audit store", rec.Code)
	}
}

func TestDecisionAuditRoundTrip(t *testing.T) {
	st := newMemStore()
	cfg := &config.Config{}
	cfg.Feeds.SearchRadiusNm = 300
	srv := New(cfg, diversion.New(diversion.Config{}), nil, st, NewHub())
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/evaluate",
		bytes.NewReader(evaluateBody(t))))
	if rec.Code != http.StatusOK {
		t.Fatalf("evaluate status %d: %s", rec.Code, rec.Body.String())
	}

	// the audit write happens on a goroutine after the response
	select {
	case <-st.saved:
	case <-time.After(5 * time.Second):
		t.Fatal("audit save never happened")
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/decisions?limit=5", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("decisions status %d: %s", rec.Code, rec.Body.String())
	}

	var out struct {
		Decisions []model.DecisionResponse `json:"decisions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Decisions) != 1 {
		t.Fatalf("expected 1 audited decision, got %d", len(out.Decisions))
	}
	if len(out.Decisions[0].Options) != 1 || out.Decisions[0].Options[0].Airport.ICAO != "CYHZ" {
		t.Errorf("audited response = %+v", out.Decisions[0])
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer()
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status field = %v", resp["status"])
	}
	if _, ok := resp["last_alert_push"]; ok {
		t.Error("last_alert_push must be absent before any broadcast")
	}
}

func TestHubBroadcastLatest(t *testing.T) {
	hub := NewHub()
	if !hub.LastBroadcast().IsZero() {
		t.Error("LastBroadcast should be zero before any push")
	}

	hub.Broadcast([]model.AirspaceAlert{{ID: "W1", Severity: model.SeverityCritical}})
	if hub.LastBroadcast().IsZero() {
		t.Error("LastBroadcast not stamped by Broadcast")
	}

	hub.mu.RLock()
	latest := hub.latest
	hub.mu.RUnlock()

	var msg struct {
		Type   string               `json:"type"`
		Alerts []model.AirspaceAlert `json:"alerts"`
	}
	if err := json.Unmarshal(latest, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Type != "alerts" || len(msg.Alerts) != 1 || msg.Alerts[0].ID != "W1" {
		t.Errorf("latest frame = %s", latest)
	}
}
