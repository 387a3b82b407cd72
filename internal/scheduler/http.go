package scheduler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/greerreNFL/nfelomarket-data/internal/runner"
)

// Router serves:
//
//	GET  /health   last run status; 503 when the last run failed
//	GET  /metrics  Prometheus exposition, when a metrics handler is set
//	POST /run      start a run (?mode=incremental|rebuild); 409 when busy
func (s *Scheduler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Post("/run", s.handleRun)

	return r
}

func (s *Scheduler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := s.Status()
	code := http.StatusOK
	if st.Error != "" {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, st)
}

func (s *Scheduler) handleRun(w http.ResponseWriter, r *http.Request) {
	mode, err := runner.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if !s.TriggerAsync(mode) {
		respondJSON(w, http.StatusConflict, map[string]string{"error": "run in progress"})
		return
	}
	respondJSON(w, http.StatusAccepted, map[string]string{"mode": string(mode)})
}

func respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
