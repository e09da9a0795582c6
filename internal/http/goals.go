package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.goals.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalList(goals))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toGoalJSON(g))
}

type goalRequest struct {
	Name          string     `json:"name"`
	TargetAmount  core.Money `json:"targetAmount"`
	CurrentAmount core.Money `json:"currentAmount"`
	Deadline      *string    `json:"deadline"`
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	g := core.SavingsGoal{
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
	}
	if req.Deadline != nil {
		parsed, err := parseDate(*req.Deadline)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid deadline"})
			return
		}
		g.Deadline = &parsed
	}

	created, err := s.goals.Create(r.Context(), g)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toGoalJSON(created))
}

// handleUpdateGoal patches a goal. The deadline key is tracked
// separately so an explicit null clears it while an absent key leaves
// it alone. Raising currentAmount records a contribution transaction.
func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var fields map[string]json.RawMessage
	if !decodeJSON(w, r, &fields) {
		return
	}

	var patch services.GoalPatch

	if raw, ok := fields["name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid name"})
			return
		}
		patch.Name = &name
	}
	if raw, ok := fields["targetAmount"]; ok {
		var m core.Money
		if err := json.Unmarshal(raw, &m); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid targetAmount"})
			return
		}
		patch.TargetAmount = &m
	}
	if raw, ok := fields["currentAmount"]; ok {
		var m core.Money
		if err := json.Unmarshal(raw, &m); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid currentAmount"})
			return
		}
		patch.CurrentAmount = &m
	}
	if raw, ok := fields["deadline"]; ok {
		patch.DeadlineSet = true
		var deadline *string
		if err := json.Unmarshal(raw, &deadline); err != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid deadline"})
			return
		}
		if deadline != nil {
			parsed, err := parseDate(*deadline)
			if err != nil {
				respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid deadline"})
				return
			}
			patch.Deadline = &parsed
		}
	}

	updated, contrib, err := s.goals.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := struct {
		goalJSON
		Contribution *transactionJSON `json:"contribution,omitempty"`
	}{goalJSON: toGoalJSON(updated)}
	if contrib != nil {
		t := toTransactionJSON(*contrib)
		resp.Contribution = &t
	}
	respondJSON(w, http.StatusOK, resp)
}

// handleDeleteGoal removes a goal. A funded goal's balance comes back
// as an income transaction in the response.
func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	transfer, err := s.goals.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	if transfer == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Transfer transactionJSON `json:"transfer"`
	}{Transfer: toTransactionJSON(*transfer)})
}
