package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"partfail-sim/internal/config"
	"partfail-sim/internal/rng"
	"partfail-sim/internal/sim"
	"partfail-sim/internal/telemetry"
	"partfail-sim/internal/vessel"
)

func newTestServer(t *testing.T) (*Server, *sim.Simulator) {
	t.Helper()
	cfg := config.Default()
	cfg.Damage.Kinds = nil
	cfg.Damage.Default.Interval = 1000

	wheel := vessel.NewPart("wheel", "Rover Wheel", "wheel")
	solar := vessel.NewPart("solar", "Solar Panel", "deployable-solar-panel")
	v := &vessel.Vessel{ID: "v1", Name: "Rover", Parts: []*vessel.Part{wheel, solar}}

	// Interval 1 with one draw below the threshold damages the first part.
	cfg.CheckInterval = 1
	src := &rng.Sequence{Floats: []float64{0.1}, Ints: []int{0}}
	s, err := sim.NewSimulator(v, cfg, nil, time.Second, sim.Options{Source: src})
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	s.Step(context.Background())
	s.Step(context.Background())
	return NewServer(s, nil), s
}

func TestHandleParts(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/parts", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var rows []telemetry.PartStatusRow
	if err := json.NewDecoder(w.Body).Decode(&rows); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(rows) != 2 || !rows[0].Damaged || rows[1].Damaged {
		t.Fatalf("unexpected part rows %+v", rows)
	}
}

func TestHandleRepair(t *testing.T) {
	srv, s := newTestServer(t)
	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing part", "/repair", http.StatusBadRequest},
		{"unknown part", "/repair?part=nope", http.StatusNotFound},
		{"out of range", "/repair?part=wheel&distance=10", http.StatusConflict},
		{"bad distance", "/repair?part=wheel&distance=x", http.StatusBadRequest},
		{"repaired", "/repair?part=wheel", http.StatusNoContent},
		{"already intact", "/repair?part=wheel", http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, tt.url, nil))
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d (%s)", tt.want, w.Code, w.Body.String())
			}
		})
	}
	for _, p := range s.Snapshot() {
		if p.Damaged {
			t.Fatalf("part %s still damaged", p.PartID)
		}
	}
}

func TestRepairRequiresPost(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/repair?part=wheel", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestHandleBroadcasts(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broadcasts", nil))
	var got []sim.Broadcast
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Message != "Rover Wheel has been damaged!" {
		t.Fatalf("unexpected broadcasts %+v", got)
	}
}

func TestHandleScheduler(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/scheduler", nil))
	var got struct {
		VesselID string  `json:"vessel_id"`
		UT       float64 `json:"ut"`
		State    struct {
			LastPollTime float64 `json:"last_poll_time"`
		} `json:"state"`
	}
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.VesselID != "v1" || got.UT != 2 || got.State.LastPollTime != 2 {
		t.Fatalf("unexpected scheduler payload %+v", got)
	}
}

func TestHandleIndex(t *testing.T) {
	srv, _ := newTestServer(t)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	body := w.Body.String()
	if w.Code != http.StatusOK || !strings.Contains(body, "Rover Wheel") || !strings.Contains(body, "1 damaged") {
		t.Fatalf("unexpected index page: %d %s", w.Code, body)
	}
}
