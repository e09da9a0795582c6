package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

func createGoal(t *testing.T, svc *Goals, name string, targetCents, currentCents int64) core.SavingsGoal {
	t.Helper()
	g, err := svc.Create(context.Background(), core.SavingsGoal{
		Name:          name,
		TargetAmount:  core.Money{Cents: targetCents},
		CurrentAmount: core.Money{Cents: currentCents},
	})
	if err != nil {
		t.Fatalf("create goal: %v", err)
	}
	return g
}

func TestContributionSynthesizesExpense(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGoals(repo)
	ctx := context.Background()

	// A budget for the savings category must stay untouched: the
	// synthesized contribution bypasses reconciliation.
	b := mustCreateBudget(t, repo, core.CategorySavings, 100000, core.PeriodOf(time.Now()), true)

	g := createGoal(t, svc, "Emergency Fund", 100000, 30000)

	current := core.Money{Cents: 50000}
	updated, contrib, err := svc.Update(ctx, g.ID, GoalPatch{CurrentAmount: &current})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.CurrentAmount.Cents != 50000 {
		t.Errorf("current = %d, want 50000", updated.CurrentAmount.Cents)
	}
	if contrib == nil {
		t.Fatal("no contribution transaction returned")
	}
	if contrib.Amount.Cents != 20000 {
		t.Errorf("contribution amount = %d, want the 20000 delta", contrib.Amount.Cents)
	}
	if contrib.Type != core.Expense || contrib.Category != core.CategorySavings {
		t.Errorf("contribution = %s/%s, want expense/%s", contrib.Type, contrib.Category, core.CategorySavings)
	}
	if contrib.Description != "Contribution to Emergency Fund" {
		t.Errorf("description = %q", contrib.Description)
	}

	stored, err := repo.Queries().GetTransaction(ctx, contrib.ID)
	if err != nil {
		t.Fatalf("contribution not persisted: %v", err)
	}
	if len(stored.Tags) != 2 || stored.Tags[0] != "savings" || stored.Tags[1] != "automatic" {
		t.Errorf("tags = %v", stored.Tags)
	}

	if got := budgetSpent(t, repo, b.ID); got != 0 {
		t.Errorf("savings budget spent = %d, want 0", got)
	}
}

func TestLoweringBalanceSynthesizesNothing(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGoals(repo)
	ctx := context.Background()

	g := createGoal(t, svc, "Emergency Fund", 100000, 30000)

	current := core.Money{Cents: 10000}
	updated, contrib, err := svc.Update(ctx, g.ID, GoalPatch{CurrentAmount: &current})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if contrib != nil {
		t.Errorf("lowering the balance produced a transaction: %+v", contrib)
	}
	if updated.CurrentAmount.Cents != 10000 {
		t.Errorf("current = %d, want 10000", updated.CurrentAmount.Cents)
	}
}

func TestDeleteFundedGoalSynthesizesIncome(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGoals(repo)
	ctx := context.Background()

	g := createGoal(t, svc, "New Laptop", 120000, 30000)

	transfer, err := svc.Delete(ctx, g.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if transfer == nil {
		t.Fatal("no transfer transaction returned")
	}
	if transfer.Type != core.Income || transfer.Category != core.CategorySavingsTransfer {
		t.Errorf("transfer = %s/%s, want income/%s", transfer.Type, transfer.Category, core.CategorySavingsTransfer)
	}
	if transfer.Amount.Cents != 30000 {
		t.Errorf("transfer amount = %d, want 30000", transfer.Amount.Cents)
	}
	if transfer.Description != "Transferred from New Laptop savings goal" {
		t.Errorf("description = %q", transfer.Description)
	}

	if _, err := svc.Get(ctx, g.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
	if _, err := repo.Queries().GetTransaction(ctx, transfer.ID); err != nil {
		t.Errorf("transfer not persisted: %v", err)
	}
}

func TestDeleteEmptyGoalSynthesizesNothing(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGoals(repo)

	g := createGoal(t, svc, "Untouched", 50000, 0)

	transfer, err := svc.Delete(context.Background(), g.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if transfer != nil {
		t.Errorf("empty goal produced a transfer: %+v", transfer)
	}
}

func TestDeadlinePatchDistinguishesClearFromAbsent(t *testing.T) {
	repo := newTestRepo(t)
	svc := NewGoals(repo)
	ctx := context.Background()

	deadline := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	g, err := svc.Create(ctx, core.SavingsGoal{
		Name:         "Trip",
		TargetAmount: core.Money{Cents: 80000},
		Deadline:     &deadline,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Patch without the deadline key: unchanged.
	name := "Big Trip"
	updated, _, err := svc.Update(ctx, g.ID, GoalPatch{Name: &name})
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Deadline == nil {
		t.Error("deadline cleared by an unrelated patch")
	}

	// Patch with an explicit null deadline: cleared.
	updated, _, err = svc.Update(ctx, g.ID, GoalPatch{DeadlineSet: true})
	if err != nil {
		t.Fatalf("clear deadline: %v", err)
	}
	if updated.Deadline != nil {
		t.Errorf("deadline = %v, want nil", updated.Deadline)
	}
}
