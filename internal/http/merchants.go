package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
)

func (s *Server) handleListMappings(w http.ResponseWriter, r *http.Request) {
	mappings, err := s.repo.Queries().ListMerchantMappings(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMappingList(mappings))
}

func (s *Server) handleGetMapping(w http.ResponseWriter, r *http.Request) {
	m, err := s.merchants.Get(r.Context(), chi.URLParam(r, "rawName"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toMappingJSON(m))
}

func (s *Server) handleUpsertMapping(w http.ResponseWriter, r *http.Request) {
	var req mappingJSON
	if !decodeJSON(w, r, &req) {
		return
	}

	m := core.MerchantMapping{
		RawName:     req.RawName,
		DisplayName: req.DisplayName,
		Category:    req.Category,
	}
	if err := s.merchants.Put(r.Context(), m); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toMappingJSON(m))
}

func (s *Server) handleDeleteMapping(w http.ResponseWriter, r *http.Request) {
	if err := s.merchants.Delete(r.Context(), chi.URLParam(r, "rawName")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
