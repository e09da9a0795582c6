package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/merchant"
	"fintrack/internal/storage"
)

// SuggestPublisher queues raw merchant names for asynchronous display
// name and category suggestion. A nil publisher disables the feature.
type SuggestPublisher interface {
	PublishMerchantSuggest(ctx context.Context, rawNames []string) error
}

// Ledger orchestrates transaction mutations and their budget
// reconciliation side effects.
type Ledger struct {
	repo      *storage.Repository
	publisher SuggestPublisher
}

func NewLedger(repo *storage.Repository, publisher SuggestPublisher) *Ledger {
	return &Ledger{
		repo:      repo,
		publisher: publisher,
	}
}

func (l *Ledger) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return l.repo.Queries().GetTransaction(ctx, id)
}

func (l *Ledger) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return l.repo.Queries().ListTransactions(ctx)
}

// CreateTransaction stores a new transaction and, for expenses, applies
// its amount to the matching budget in the same commit.
func (l *Ledger) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t.ID = uuid.NewString()
	t.CreatedAt = time.Now().UTC()

	err := l.repo.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.CreateTransaction(ctx, t); err != nil {
			return err
		}
		if t.Type == core.Expense {
			return ApplyExpense(ctx, q, t.Category, t.Period(), t.Amount)
		}
		return nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction created",
		"transaction_id", t.ID,
		"type", string(t.Type),
		"category", t.Category,
		"amount_cents", t.Amount.Cents)

	l.maybeSuggestMerchant(ctx, t)
	return t, nil
}

// TransactionPatch carries the fields present in an update request. Nil
// means the field was absent.
type TransactionPatch struct {
	Amount      *core.Money
	Description *string
	Comments    *string
	Tags        *[]string
	Category    *string
	Date        *time.Time
}

// UpdateTransaction patches a transaction and keeps the affected
// budgets' spent totals consistent. Reversals are computed from the
// stored pre-image before any field is overwritten.
func (l *Ledger) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (core.Transaction, error) {
	var updated core.Transaction

	err := l.repo.WithTx(ctx, func(q *storage.Queries) error {
		t, err := q.GetTransaction(ctx, id)
		if err != nil {
			return err
		}

		orig := t // pre-image: reversals always use these values
		origPeriod := orig.Period()

		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Comments != nil {
			t.Comments = *patch.Comments
		}
		if patch.Tags != nil {
			t.Tags = *patch.Tags
		}
		if patch.Date != nil {
			t.Date = *patch.Date
		}

		if t.Type == core.Expense {
			newPeriod := t.Period()

			switch {
			case patch.Amount != nil && patch.Amount.Cents != orig.Amount.Cents:
				// Amount changes win over category changes: the new
				// amount lands on the target category's budget, but
				// the transaction's own category field stays as-is on
				// a combined patch. Long-standing behavior, kept so
				// existing budgets reconcile the same way they always
				// have.
				if err := ReverseExpense(ctx, q, orig.Category, origPeriod, orig.Amount); err != nil {
					return err
				}
				t.Amount = *patch.Amount
				targetCategory := orig.Category
				if patch.Category != nil {
					targetCategory = *patch.Category
				}
				if err := ApplyExpense(ctx, q, targetCategory, newPeriod, t.Amount); err != nil {
					return err
				}

			case patch.Category != nil && *patch.Category != orig.Category:
				// Move the amount between category budgets, landing in
				// the new period when the date changed too.
				if err := ReverseExpense(ctx, q, orig.Category, origPeriod, orig.Amount); err != nil {
					return err
				}
				if err := ApplyExpense(ctx, q, *patch.Category, newPeriod, orig.Amount); err != nil {
					return err
				}
				t.Category = *patch.Category

			case patch.Date != nil && newPeriod != origPeriod:
				// Same category, different period.
				if err := ReverseExpense(ctx, q, orig.Category, origPeriod, orig.Amount); err != nil {
					return err
				}
				if err := ApplyExpense(ctx, q, orig.Category, newPeriod, orig.Amount); err != nil {
					return err
				}
			}
		} else {
			// Income never touches a budget.
			if patch.Amount != nil {
				t.Amount = *patch.Amount
			}
			if patch.Category != nil {
				t.Category = *patch.Category
			}
		}

		if err := q.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}

	slog.InfoContext(ctx, "Transaction updated", "transaction_id", id)
	return updated, nil
}

// DeleteTransaction removes a transaction, first reversing its budget
// contribution when it is an expense.
func (l *Ledger) DeleteTransaction(ctx context.Context, id string) error {
	err := l.repo.WithTx(ctx, func(q *storage.Queries) error {
		t, err := q.GetTransaction(ctx, id)
		if err != nil {
			return err
		}
		if t.Type == core.Expense {
			if err := ReverseExpense(ctx, q, t.Category, t.Period(), t.Amount); err != nil {
				return err
			}
		}
		return q.DeleteTransaction(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// maybeSuggestMerchant queues the transaction's raw merchant name for
// suggestion when no mapping matches it. Publish failures are logged and
// dropped: the suggestion flow must never affect ledger persistence.
func (l *Ledger) maybeSuggestMerchant(ctx context.Context, t core.Transaction) {
	if l.publisher == nil || t.RawMerchant == "" {
		return
	}

	mappings, err := l.repo.Queries().ListMerchantMappings(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to load merchant mappings", "error", err)
		return
	}
	byRaw := make(map[string]core.MerchantMapping, len(mappings))
	for _, m := range mappings {
		byRaw[m.RawName] = m
	}
	if _, _, matched := merchant.Match(t.RawMerchant, byRaw); matched {
		return
	}

	if err := l.publisher.PublishMerchantSuggest(ctx, []string{t.RawMerchant}); err != nil {
		slog.ErrorContext(ctx, "Failed to publish merchant suggest message",
			"raw_merchant", t.RawMerchant, "error", err)
	}
}
