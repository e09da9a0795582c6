package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func mustCreateBudget(t *testing.T, repo *storage.Repository, category string, amountCents int64, p core.Period, recurring bool) core.Budget {
	t.Helper()
	svc := NewBudgets(repo)
	b, err := svc.Create(context.Background(), BudgetParams{
		Category:  category,
		Amount:    core.Money{Cents: amountCents},
		Month:     p.Month,
		Year:      p.Year,
		Recurring: &recurring,
	})
	if err != nil {
		t.Fatalf("create budget %s: %v", category, err)
	}
	return b
}

func budgetSpent(t *testing.T, repo *storage.Repository, id string) int64 {
	t.Helper()
	b, err := repo.Queries().GetBudget(context.Background(), id)
	if err != nil {
		t.Fatalf("get budget %s: %v", id, err)
	}
	return b.Spent.Cents
}

func expenseOn(date time.Time, category string, cents int64) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: cents},
		Description: "test expense",
		Category:    category,
		Type:        core.Expense,
		Date:        date,
	}
}
