// Package services contains the stateless orchestration layer between
// the HTTP handlers and sqlite storage. Every mutating operation runs
// inside a single storage transaction so entity writes and budget
// reconciliation commit together.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// The reconciler keeps each Budget.spent equal to the sum of expense
// transaction amounts sharing its category and period. It is a set of
// pure functions over an injected query handle; callers pass the handle
// of whatever transaction the surrounding operation runs in.

// ApplyExpense adds amount to the spent total of the budget matching
// (category, period). When no budget exists this is a silent no-op:
// uncategorized spend does not auto-create a budget.
func ApplyExpense(ctx context.Context, q *storage.Queries, category string, p core.Period, amount core.Money) error {
	budget, err := q.GetBudgetByPeriod(ctx, category, p)
	if errors.Is(err, core.ErrNotFound) {
		slog.DebugContext(ctx, "No budget for expense, skipping",
			"category", category, "month", p.Month, "year", p.Year)
		return nil
	}
	if err != nil {
		return fmt.Errorf("find budget: %w", err)
	}

	if err := q.SetBudgetSpent(ctx, budget.ID, budget.Spent.Add(amount)); err != nil {
		return fmt.Errorf("apply expense to budget %s: %w", budget.ID, err)
	}
	return nil
}

// ReverseExpense subtracts amount from the matching budget's spent
// total, clamped at zero so double reversal or drifted data can never
// drive it negative. No-op when no budget exists.
func ReverseExpense(ctx context.Context, q *storage.Queries, category string, p core.Period, amount core.Money) error {
	budget, err := q.GetBudgetByPeriod(ctx, category, p)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find budget: %w", err)
	}

	if err := q.SetBudgetSpent(ctx, budget.ID, budget.Spent.SubClamped(amount)); err != nil {
		return fmt.Errorf("reverse expense from budget %s: %w", budget.ID, err)
	}
	return nil
}

// RolloverRecurringBudgets clones the current period's recurring budgets
// into the next period with spent reset to zero. If any budget already
// exists for the next period, regardless of category, the rollover is
// treated as already performed and an empty slice is returned — the
// guard is period-wide, so it is safe to trigger from a scheduler as
// often as needed.
func RolloverRecurringBudgets(ctx context.Context, repo *storage.Repository, now time.Time) ([]core.Budget, error) {
	current := core.PeriodOf(now)
	next := current.Next()

	var created []core.Budget
	err := repo.WithTx(ctx, func(q *storage.Queries) error {
		exists, err := q.AnyBudgetInPeriod(ctx, next)
		if err != nil {
			return err
		}
		if exists {
			slog.InfoContext(ctx, "Budgets already exist for next period, skipping rollover",
				"month", next.Month, "year", next.Year)
			return nil
		}

		recurring, err := q.ListRecurringBudgets(ctx, current)
		if err != nil {
			return err
		}

		for _, b := range recurring {
			clone := core.Budget{
				ID:        uuid.NewString(),
				Category:  b.Category,
				Amount:    b.Amount,
				Spent:     core.Money{},
				Month:     next.Month,
				Year:      next.Year,
				Recurring: b.Recurring,
				CreatedAt: now.UTC(),
			}
			if err := q.CreateBudget(ctx, clone); err != nil {
				return fmt.Errorf("clone budget %s: %w", b.ID, err)
			}
			created = append(created, clone)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rollover budgets: %w", err)
	}

	slog.InfoContext(ctx, "Rollover complete",
		"created", len(created), "month", next.Month, "year", next.Year)
	return created, nil
}
