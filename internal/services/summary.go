package services

import (
	"context"
	"fmt"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// Summarize computes the all-time financial position: total income,
// total expenses, total held in savings goals, and the balance left
// after both.
func Summarize(ctx context.Context, repo *storage.Repository) (core.Summary, error) {
	q := repo.Queries()

	income, err := q.SumTransactionsByType(ctx, core.Income)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum income: %w", err)
	}

	expenses, err := q.SumTransactionsByType(ctx, core.Expense)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum expenses: %w", err)
	}

	savings, err := q.SumSavingsGoalBalances(ctx)
	if err != nil {
		return core.Summary{}, fmt.Errorf("sum savings balances: %w", err)
	}

	return core.Summary{
		TotalIncome:      core.Money{Cents: income},
		TotalExpenses:    core.Money{Cents: expenses},
		TotalSavings:     core.Money{Cents: savings},
		AvailableBalance: core.Money{Cents: income - expenses - savings},
	}, nil
}
