package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Budgets manages budget rows. All spent mutations flow through the
// reconciler except the explicit administrative override.
type Budgets struct {
	repo *storage.Repository
}

func NewBudgets(repo *storage.Repository) *Budgets {
	return &Budgets{repo: repo}
}

// BudgetParams are the caller-supplied fields for a new budget. A zero
// month/year defaults to the current period; recurring defaults to true.
type BudgetParams struct {
	Category  string
	Amount    core.Money
	Month     int
	Year      int
	Recurring *bool
}

func (s *Budgets) Create(ctx context.Context, params BudgetParams) (core.Budget, error) {
	now := time.Now()
	if params.Month == 0 {
		params.Month = int(now.Month())
	}
	if params.Year == 0 {
		params.Year = now.Year()
	}
	recurring := true
	if params.Recurring != nil {
		recurring = *params.Recurring
	}

	b := core.Budget{
		ID:        uuid.NewString(),
		Category:  params.Category,
		Amount:    params.Amount,
		Spent:     core.Money{},
		Month:     params.Month,
		Year:      params.Year,
		Recurring: recurring,
		CreatedAt: now.UTC(),
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	if err := s.repo.Queries().CreateBudget(ctx, b); err != nil {
		return core.Budget{}, fmt.Errorf("create budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget created",
		"budget_id", b.ID, "category", b.Category,
		"month", b.Month, "year", b.Year, "amount_cents", b.Amount.Cents)
	return b, nil
}

func (s *Budgets) Get(ctx context.Context, id string) (core.Budget, error) {
	return s.repo.Queries().GetBudget(ctx, id)
}

// List returns all budgets, or one period's budgets when p is non-nil.
func (s *Budgets) List(ctx context.Context, p *core.Period) ([]core.Budget, error) {
	if p != nil {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return s.repo.Queries().ListBudgets(ctx, p)
}

// BudgetPatch carries the fields present in an update request.
type BudgetPatch struct {
	Amount    *core.Money
	Recurring *bool
	Month     *int
	Year      *int
}

func (s *Budgets) Update(ctx context.Context, id string, patch BudgetPatch) (core.Budget, error) {
	var updated core.Budget
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		b, err := q.GetBudget(ctx, id)
		if err != nil {
			return err
		}
		if patch.Amount != nil {
			b.Amount = *patch.Amount
		}
		if patch.Recurring != nil {
			b.Recurring = *patch.Recurring
		}
		if patch.Month != nil {
			b.Month = *patch.Month
		}
		if patch.Year != nil {
			b.Year = *patch.Year
		}
		if err := b.Validate(); err != nil {
			return err
		}
		if err := q.UpdateBudget(ctx, b); err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return core.Budget{}, err
	}
	return updated, nil
}

// OverrideSpent writes the spent total directly, bypassing the
// reconciler. This is the administrative escape hatch for correcting
// drift; normal amount/category/date changes must go through the
// transaction update path instead.
func (s *Budgets) OverrideSpent(ctx context.Context, id string, spent core.Money) (core.Budget, error) {
	if spent.Cents < 0 {
		return core.Budget{}, core.ErrInvalidAmount
	}

	var updated core.Budget
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		b, err := q.GetBudget(ctx, id)
		if err != nil {
			return err
		}
		if err := q.SetBudgetSpent(ctx, b.ID, spent); err != nil {
			return err
		}
		b.Spent = spent
		updated = b
		return nil
	})
	if err != nil {
		return core.Budget{}, err
	}

	slog.WarnContext(ctx, "Budget spent overridden",
		"budget_id", id, "spent_cents", spent.Cents)
	return updated, nil
}

func (s *Budgets) Delete(ctx context.Context, id string) error {
	return s.repo.Queries().DeleteBudget(ctx, id)
}

// Rollover clones the current period's recurring budgets into the next
// period. Safe to call repeatedly; see RolloverRecurringBudgets.
func (s *Budgets) Rollover(ctx context.Context, now time.Time) ([]core.Budget, error) {
	return RolloverRecurringBudgets(ctx, s.repo, now)
}
