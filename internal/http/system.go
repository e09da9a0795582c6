package http

import (
	"net/http"

	"fintrack/internal/services"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady reports readiness: the process is up and the database
// answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := services.Summarize(r.Context(), s.repo)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// handleSeed loads the development sample data set, replacing existing
// rows.
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	counts, err := services.Seed(r.Context(), s.repo)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, counts)
}
