package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

var testDate = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func TestCreateExpenseAppliesToBudget(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	b := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.PeriodOf(testDate), true)

	if _, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500)); err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if got := budgetSpent(t, repo, b.ID); got != 2500 {
		t.Errorf("spent = %d, want 2500", got)
	}

	if _, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500)); err != nil {
		t.Fatalf("create second transaction: %v", err)
	}
	if got := budgetSpent(t, repo, b.ID); got != 5000 {
		t.Errorf("spent after second expense = %d, want 5000", got)
	}
}

func TestCreateExpenseWithoutBudgetSucceeds(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)

	created, err := ledger.CreateTransaction(context.Background(), expenseOn(testDate, "Misc", 1000))
	if err != nil {
		t.Fatalf("expense with no budget should succeed: %v", err)
	}
	if created.ID == "" {
		t.Error("transaction not assigned an id")
	}
}

func TestCreateIncomeNeverTouchesBudgets(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	b := mustCreateBudget(t, repo, "Salary", 30000, core.PeriodOf(testDate), true)

	income := expenseOn(testDate, "Salary", 150000)
	income.Type = core.Income
	if _, err := ledger.CreateTransaction(ctx, income); err != nil {
		t.Fatalf("create income: %v", err)
	}

	if got := budgetSpent(t, repo, b.ID); got != 0 {
		t.Errorf("income changed budget spent to %d", got)
	}
}

func TestCreateRejectsInvalidTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*core.Transaction)
		want   error
	}{
		{"zero amount", func(tx *core.Transaction) { tx.Amount.Cents = 0 }, core.ErrInvalidAmount},
		{"negative amount", func(tx *core.Transaction) { tx.Amount.Cents = -100 }, core.ErrInvalidAmount},
		{"empty description", func(tx *core.Transaction) { tx.Description = "" }, core.ErrEmptyDescription},
		{"empty category", func(tx *core.Transaction) { tx.Category = "" }, core.ErrEmptyCategory},
		{"bad type", func(tx *core.Transaction) { tx.Type = "transfer" }, core.ErrInvalidType},
		{"zero date", func(tx *core.Transaction) { tx.Date = time.Time{} }, core.ErrZeroDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := expenseOn(testDate, "Food & Drinks", 2500)
			tt.mutate(&tx)
			if _, err := ledger.CreateTransaction(ctx, tx); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateAmountReconciles(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	b := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.PeriodOf(testDate), true)
	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, cents := range []int64{4000, 6500} {
		amount := core.Money{Cents: cents}
		if _, err := ledger.UpdateTransaction(ctx, created.ID, TransactionPatch{Amount: &amount}); err != nil {
			t.Fatalf("update to %d: %v", cents, err)
		}
		if got := budgetSpent(t, repo, b.ID); got != cents {
			t.Errorf("spent = %d, want %d", got, cents)
		}
	}
}

func TestUpdateCategoryMovesSpent(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	p := core.PeriodOf(testDate)
	food := mustCreateBudget(t, repo, "Food & Drinks", 30000, p, true)
	transport := mustCreateBudget(t, repo, "Transportation", 20000, p, true)

	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	category := "Transportation"
	updated, err := ledger.UpdateTransaction(ctx, created.ID, TransactionPatch{Category: &category})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := budgetSpent(t, repo, food.ID); got != 0 {
		t.Errorf("old budget spent = %d, want 0", got)
	}
	if got := budgetSpent(t, repo, transport.ID); got != 2500 {
		t.Errorf("new budget spent = %d, want 2500", got)
	}
	if updated.Category != "Transportation" {
		t.Errorf("category = %q, want Transportation", updated.Category)
	}
}

func TestUpdateAmountWinsOverCategory(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	p := core.PeriodOf(testDate)
	food := mustCreateBudget(t, repo, "Food & Drinks", 30000, p, true)
	transport := mustCreateBudget(t, repo, "Transportation", 20000, p, true)

	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	amount := core.Money{Cents: 4000}
	category := "Transportation"
	updated, err := ledger.UpdateTransaction(ctx, created.ID, TransactionPatch{Amount: &amount, Category: &category})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// The new amount lands on the target category's budget but the
	// transaction keeps its stored category.
	if got := budgetSpent(t, repo, food.ID); got != 0 {
		t.Errorf("old budget spent = %d, want 0", got)
	}
	if got := budgetSpent(t, repo, transport.ID); got != 4000 {
		t.Errorf("target budget spent = %d, want 4000", got)
	}
	if updated.Category != "Food & Drinks" {
		t.Errorf("category = %q, want Food & Drinks", updated.Category)
	}
	if updated.Amount.Cents != 4000 {
		t.Errorf("amount = %d, want 4000", updated.Amount.Cents)
	}
}

func TestUpdateDateMovesBetweenPeriods(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	march := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.Period{Month: 3, Year: 2025}, true)
	april := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.Period{Month: 4, Year: 2025}, true)

	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newDate := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
	if _, err := ledger.UpdateTransaction(ctx, created.ID, TransactionPatch{Date: &newDate}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := budgetSpent(t, repo, march.ID); got != 0 {
		t.Errorf("march spent = %d, want 0", got)
	}
	if got := budgetSpent(t, repo, april.ID); got != 2500 {
		t.Errorf("april spent = %d, want 2500", got)
	}
}

func TestUpdateDescriptionLeavesBudgetAlone(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	b := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.PeriodOf(testDate), true)
	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	desc := "lunch"
	if _, err := ledger.UpdateTransaction(ctx, created.ID, TransactionPatch{Description: &desc}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := budgetSpent(t, repo, b.ID); got != 2500 {
		t.Errorf("spent = %d, want 2500", got)
	}
}

func TestDeleteReversesSpent(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	b := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.PeriodOf(testDate), true)
	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := ledger.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := budgetSpent(t, repo, b.ID); got != 0 {
		t.Errorf("spent = %d, want 0", got)
	}
	if _, err := ledger.GetTransaction(ctx, created.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestReversalClampsAtZero(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)
	ctx := context.Background()

	created, err := ledger.CreateTransaction(ctx, expenseOn(testDate, "Food & Drinks", 2500))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Budget appears after the expense, so its spent total never saw
	// the apply. Deleting must clamp at zero, not go negative.
	b := mustCreateBudget(t, repo, "Food & Drinks", 30000, core.PeriodOf(testDate), true)

	if err := ledger.DeleteTransaction(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := budgetSpent(t, repo, b.ID); got != 0 {
		t.Errorf("spent = %d, want 0 (clamped)", got)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ledger := NewLedger(repo, nil)

	desc := "nope"
	_, err := ledger.UpdateTransaction(context.Background(), "no-such-id", TransactionPatch{Description: &desc})
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

type stubPublisher struct {
	published [][]string
	err       error
}

func (p *stubPublisher) PublishMerchantSuggest(_ context.Context, rawNames []string) error {
	p.published = append(p.published, rawNames)
	return p.err
}

func TestCreatePublishesSuggestForUnmappedMerchant(t *testing.T) {
	repo := newTestRepo(t)
	pub := &stubPublisher{}
	ledger := NewLedger(repo, pub)
	ctx := context.Background()

	tx := expenseOn(testDate, "Food & Drinks", 2500)
	tx.RawMerchant = "SQ *CORNER CAFE"
	if _, err := ledger.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(pub.published) != 1 || pub.published[0][0] != "SQ *CORNER CAFE" {
		t.Fatalf("published = %v, want one message for SQ *CORNER CAFE", pub.published)
	}
}

func TestCreateSkipsSuggestForMappedMerchant(t *testing.T) {
	repo := newTestRepo(t)
	pub := &stubPublisher{}
	ledger := NewLedger(repo, pub)
	ctx := context.Background()

	mapping := core.MerchantMapping{RawName: "CORNER CAFE", DisplayName: "Corner Cafe", Category: "Food & Drinks"}
	if err := repo.Queries().UpsertMerchantMapping(ctx, mapping); err != nil {
		t.Fatalf("upsert mapping: %v", err)
	}

	tx := expenseOn(testDate, "Food & Drinks", 2500)
	tx.RawMerchant = "SQ *CORNER CAFE 42"
	if _, err := ledger.CreateTransaction(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(pub.published) != 0 {
		t.Errorf("published = %v, want none for a substring-matched merchant", pub.published)
	}
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	repo := newTestRepo(t)
	pub := &stubPublisher{err: errors.New("broker down")}
	ledger := NewLedger(repo, pub)
	ctx := context.Background()

	tx := expenseOn(testDate, "Food & Drinks", 2500)
	tx.RawMerchant = "SQ *CORNER CAFE"
	created, err := ledger.CreateTransaction(ctx, tx)
	if err != nil {
		t.Fatalf("create should survive publish failure: %v", err)
	}
	if _, err := ledger.GetTransaction(ctx, created.ID); err != nil {
		t.Errorf("transaction not persisted: %v", err)
	}
}
