package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.ListTransactions(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionList(transactions))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(t))
}

type transactionRequest struct {
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
	Comments    string     `json:"comments"`
	Tags        []string   `json:"tags"`
	Category    string     `json:"category"`
	Type        string     `json:"type"`
	Date        string     `json:"date"`
	RawMerchant string     `json:"raw_merchant"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date"})
			return
		}
		date = parsed
	}

	t := core.Transaction{
		Amount:      req.Amount,
		Description: req.Description,
		Comments:    req.Comments,
		Tags:        req.Tags,
		Category:    req.Category,
		Type:        core.TransactionType(req.Type),
		Date:        date,
		RawMerchant: req.RawMerchant,
	}

	// Blank description or category may be filled from the merchant
	// mapping table when a raw merchant name is supplied.
	if err := s.merchants.ResolveTransaction(r.Context(), &t); err != nil {
		respondError(w, r, err)
		return
	}

	created, err := s.ledger.CreateTransaction(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toTransactionJSON(created))
}

type transactionPatchRequest struct {
	Amount      *core.Money `json:"amount"`
	Description *string     `json:"description"`
	Comments    *string     `json:"comments"`
	Tags        *[]string   `json:"tags"`
	Category    *string     `json:"category"`
	Date        *string     `json:"date"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	patch := services.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
		Comments:    req.Comments,
		Tags:        req.Tags,
		Category:    req.Category,
	}
	if req.Date != nil {
		parsed, err := parseDate(*req.Date)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid date"})
			return
		}
		patch.Date = &parsed
	}

	updated, err := s.ledger.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
