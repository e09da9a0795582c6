// Package http exposes the REST API over a chi router.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type Server struct {
	http.Server

	repo      *storage.Repository
	ledger    *services.Ledger
	budgets   *services.Budgets
	goals     *services.Goals
	merchants *services.Merchants

	shutdownOnce sync.Once
}

func NewServer(addr string, repo *storage.Repository, ledger *services.Ledger, budgets *services.Budgets, goals *services.Goals, merchants *services.Merchants) *Server {
	s := &Server{
		repo:      repo,
		ledger:    ledger,
		budgets:   budgets,
		goals:     goals,
		merchants: merchants,
	}

	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(securityHeaders)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/{id}", s.handleGetTransaction)
			r.Put("/{id}", s.handleUpdateTransaction)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleCreateBudget)
			r.Get("/current", s.handleCurrentBudgets)
			r.Get("/period/{year}/{month}", s.handleBudgetsByPeriod)
			r.Post("/rollover", s.handleRollover)
			r.Get("/{id}", s.handleGetBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Put("/{id}/spent", s.handleOverrideSpent)
			r.Delete("/{id}", s.handleDeleteBudget)
		})

		r.Route("/savings-goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Get("/{id}", s.handleGetGoal)
			r.Put("/{id}", s.handleUpdateGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
		})

		r.Route("/merchant-mappings", func(r chi.Router) {
			r.Get("/", s.handleListMappings)
			r.Post("/", s.handleUpsertMapping)
			r.Get("/{rawName}", s.handleGetMapping)
			r.Delete("/{rawName}", s.handleDeleteMapping)
		})

		r.Get("/summary", s.handleSummary)
		r.Post("/seed", s.handleSeed)
	})

	return r
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}
