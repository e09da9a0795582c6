package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

// handleListBudgets returns all budgets, or one period's when month is
// given. A month without a year defaults to the current year.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	var p *core.Period
	if v := r.URL.Query().Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month"})
			return
		}
		year := time.Now().Year()
		if v := r.URL.Query().Get("year"); v != "" {
			year, err = strconv.Atoi(v)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
				return
			}
		}
		p = &core.Period{Month: month, Year: year}
	}

	budgets, err := s.budgets.List(r.Context(), p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetList(budgets))
}

func (s *Server) handleCurrentBudgets(w http.ResponseWriter, r *http.Request) {
	p := core.PeriodOf(time.Now())
	budgets, err := s.budgets.List(r.Context(), &p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetList(budgets))
}

func (s *Server) handleBudgetsByPeriod(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
		return
	}
	month, err := strconv.Atoi(chi.URLParam(r, "month"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month"})
		return
	}

	p := core.Period{Month: month, Year: year}
	budgets, err := s.budgets.List(r.Context(), &p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetList(budgets))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.budgets.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetJSON(b))
}

type budgetRequest struct {
	Category  string     `json:"category"`
	Amount    core.Money `json:"amount"`
	Month     int        `json:"month"`
	Year      int        `json:"year"`
	Recurring *bool      `json:"recurring"`
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := s.budgets.Create(r.Context(), services.BudgetParams{
		Category:  req.Category,
		Amount:    req.Amount,
		Month:     req.Month,
		Year:      req.Year,
		Recurring: req.Recurring,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetJSON(b))
}

type budgetPatchRequest struct {
	Amount    *core.Money `json:"amount"`
	Recurring *bool       `json:"recurring"`
	Month     *int        `json:"month"`
	Year      *int        `json:"year"`
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetPatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := s.budgets.Update(r.Context(), chi.URLParam(r, "id"), services.BudgetPatch{
		Amount:    req.Amount,
		Recurring: req.Recurring,
		Month:     req.Month,
		Year:      req.Year,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetJSON(b))
}

type spentRequest struct {
	Spent core.Money `json:"spent"`
}

// handleOverrideSpent writes a budget's spent total directly,
// bypassing reconciliation.
func (s *Server) handleOverrideSpent(w http.ResponseWriter, r *http.Request) {
	var req spentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	b, err := s.budgets.OverrideSpent(r.Context(), chi.URLParam(r, "id"), req.Spent)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toBudgetJSON(b))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRollover(w http.ResponseWriter, r *http.Request) {
	created, err := s.budgets.Rollover(r.Context(), time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBudgetList(created))
}
