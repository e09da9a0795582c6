package services

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestSummarize(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	goals := NewGoals(repo)
	ctx := context.Background()

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	income := core.Transaction{
		Amount:      core.Money{Cents: 150000},
		Description: "Stipend",
		Category:    "Salary",
		Type:        core.Income,
		Date:        date,
	}
	if _, err := ledger.CreateTransaction(ctx, income); err != nil {
		t.Fatalf("create income: %v", err)
	}
	if _, err := ledger.CreateTransaction(ctx, expenseOn(date, "Food & Drinks", 2500)); err != nil {
		t.Fatalf("create expense: %v", err)
	}
	createGoal(t, goals, "Emergency Fund", 100000, 50000)

	s, err := Summarize(ctx, repo)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if s.TotalIncome.Cents != 150000 {
		t.Errorf("income = %d, want 150000", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 2500 {
		t.Errorf("expenses = %d, want 2500", s.TotalExpenses.Cents)
	}
	if s.TotalSavings.Cents != 50000 {
		t.Errorf("savings = %d, want 50000", s.TotalSavings.Cents)
	}
	if want := int64(150000 - 2500 - 50000); s.AvailableBalance.Cents != want {
		t.Errorf("balance = %d, want %d", s.AvailableBalance.Cents, want)
	}
}

func TestSummarizeEmptyDatabase(t *testing.T) {
	repo := newTestRepo(t)

	s, err := Summarize(context.Background(), repo)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.TotalIncome.Cents != 0 || s.TotalExpenses.Cents != 0 || s.TotalSavings.Cents != 0 || s.AvailableBalance.Cents != 0 {
		t.Errorf("summary of empty database = %+v", s)
	}
}

func TestSeedReplacesData(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if _, err := ledger.CreateTransaction(ctx, expenseOn(date, "Food & Drinks", 999)); err != nil {
		t.Fatalf("create: %v", err)
	}

	counts, err := Seed(ctx, repo)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if counts.Transactions != 4 || counts.Budgets != 4 || counts.SavingsGoals != 2 || counts.MerchantMappings != 3 {
		t.Errorf("counts = %+v", counts)
	}

	transactions, err := repo.Queries().ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(transactions) != 4 {
		t.Errorf("got %d transactions after seed, want 4 (old data kept?)", len(transactions))
	}

	// Seeding twice must not pile up mappings or rows.
	if _, err := Seed(ctx, repo); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	budgets, err := repo.Queries().ListBudgets(ctx, nil)
	if err != nil {
		t.Fatalf("list budgets: %v", err)
	}
	if len(budgets) != 4 {
		t.Errorf("got %d budgets after reseed, want 4", len(budgets))
	}
}
