package admin

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"partfail-sim/internal/failure"
	"partfail-sim/internal/sim"
	"partfail-sim/internal/telemetry"
	"partfail-sim/internal/vessel"
)

// Server is the HTTP operator console for one simulator.
type Server struct {
	Sim *sim.Simulator
	tpl *template.Template
	mux *http.ServeMux
	log *slog.Logger
}

//go:embed templates/index.html
var content embed.FS

func NewServer(s *sim.Simulator, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	srv := &Server{Sim: s, tpl: tpl, mux: http.NewServeMux(), log: log}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /parts", s.handleParts)
	s.mux.HandleFunc("POST /repair", s.handleRepair)
	s.mux.HandleFunc("GET /broadcasts", s.handleBroadcasts)
	s.mux.HandleFunc("GET /scheduler", s.handleScheduler)
}

// Handler exposes the routes for embedding or tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Start listens on addr until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		_ = hs.Shutdown(context.Background())
	}()
	s.log.Info("admin console listening", "addr", addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	parts := s.Sim.Snapshot()
	damaged := 0
	for _, p := range parts {
		if p.Damaged {
			damaged++
		}
	}
	data := struct {
		VesselID   string
		UT         float64
		Phase      string
		Damaged    int
		Parts      []telemetry.PartStatusRow
		Broadcasts []sim.Broadcast
		Scheduler  failure.SchedulerState
	}{
		VesselID:   s.Sim.VesselID(),
		UT:         s.Sim.UT(),
		Phase:      s.Sim.Phase(),
		Damaged:    damaged,
		Parts:      parts,
		Broadcasts: s.Sim.Broadcasts(),
		Scheduler:  s.Sim.SchedulerState(),
	}
	if err := s.tpl.Execute(w, data); err != nil {
		s.log.Error("render index", "err", err)
	}
}

func (s *Server) handleParts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Snapshot())
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	partID := r.URL.Query().Get("part")
	if partID == "" {
		http.Error(w, "missing part", http.StatusBadRequest)
		return
	}
	distance := 0.0
	if d := r.URL.Query().Get("distance"); d != "" {
		v, err := strconv.ParseFloat(d, 64)
		if err != nil || v < 0 {
			http.Error(w, "invalid distance", http.StatusBadRequest)
			return
		}
		distance = v
	}
	_, err := s.Sim.Repair(r.Context(), partID, distance)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, vessel.ErrUnknownPart):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, failure.ErrNotDamaged), errors.Is(err, failure.ErrOutOfRange):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.log.Error("repair failed", "part_id", partID, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleBroadcasts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Broadcasts())
}

func (s *Server) handleScheduler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, struct {
		VesselID string                 `json:"vessel_id"`
		UT       float64                `json:"ut"`
		Phase    string                 `json:"phase,omitempty"`
		State    failure.SchedulerState `json:"state"`
	}{s.Sim.VesselID(), s.Sim.UT(), s.Sim.Phase(), s.Sim.SchedulerState()})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
