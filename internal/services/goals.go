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

// Goals manages savings goals. Raising a goal's balance synthesizes an
// expense transaction; deleting a funded goal synthesizes an income
// transaction. Neither synthesized transaction touches any budget:
// savings sit outside the budget system.
type Goals struct {
	repo *storage.Repository
}

func NewGoals(repo *storage.Repository) *Goals {
	return &Goals{repo: repo}
}

func (s *Goals) Get(ctx context.Context, id string) (core.SavingsGoal, error) {
	return s.repo.Queries().GetSavingsGoal(ctx, id)
}

func (s *Goals) List(ctx context.Context) ([]core.SavingsGoal, error) {
	return s.repo.Queries().ListSavingsGoals(ctx)
}

func (s *Goals) Create(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}

	g.ID = uuid.NewString()
	g.CreatedAt = time.Now().UTC()

	if err := s.repo.Queries().CreateSavingsGoal(ctx, g); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("create savings goal: %w", err)
	}

	slog.InfoContext(ctx, "Savings goal created",
		"goal_id", g.ID, "name", g.Name, "target_cents", g.TargetAmount.Cents)
	return g, nil
}

// GoalPatch carries the fields present in an update request. Deadline
// uses an explicit set flag so "clear the deadline" (set, nil value) is
// distinct from "leave it alone" (not set).
type GoalPatch struct {
	Name          *string
	TargetAmount  *core.Money
	CurrentAmount *core.Money
	Deadline      *time.Time
	DeadlineSet   bool
}

// Update patches a goal. When the new currentAmount exceeds the stored
// one, an expense transaction for the delta is persisted in the same
// commit to record the contribution.
func (s *Goals) Update(ctx context.Context, id string, patch GoalPatch) (core.SavingsGoal, *core.Transaction, error) {
	var (
		updated core.SavingsGoal
		contrib *core.Transaction
	)

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		g, err := q.GetSavingsGoal(ctx, id)
		if err != nil {
			return err
		}

		if patch.Name != nil {
			g.Name = *patch.Name
		}
		if patch.TargetAmount != nil {
			g.TargetAmount = *patch.TargetAmount
		}

		if patch.CurrentAmount != nil {
			if patch.CurrentAmount.Cents > g.CurrentAmount.Cents {
				delta := core.Money{Cents: patch.CurrentAmount.Cents - g.CurrentAmount.Cents}
				t := core.Transaction{
					ID:          uuid.NewString(),
					Amount:      delta,
					Description: fmt.Sprintf("Contribution to %s", g.Name),
					Comments:    "Automatic transaction for savings goal contribution",
					Tags:        []string{"savings", "automatic"},
					Category:    core.CategorySavings,
					Type:        core.Expense,
					Date:        time.Now().UTC(),
					CreatedAt:   time.Now().UTC(),
				}
				// Not run through the reconciler: savings contributions
				// do not count against any category budget.
				if err := q.CreateTransaction(ctx, t); err != nil {
					return fmt.Errorf("record contribution: %w", err)
				}
				contrib = &t
			}
			g.CurrentAmount = *patch.CurrentAmount
		}

		if patch.DeadlineSet {
			g.Deadline = patch.Deadline
		}

		if err := q.UpdateSavingsGoal(ctx, g); err != nil {
			return err
		}
		updated = g
		return nil
	})
	if err != nil {
		return core.SavingsGoal{}, nil, err
	}

	if contrib != nil {
		slog.InfoContext(ctx, "Savings contribution recorded",
			"goal_id", id, "transaction_id", contrib.ID, "amount_cents", contrib.Amount.Cents)
	}
	return updated, contrib, nil
}

// Delete removes a goal. A funded goal first gets an income transaction
// transferring its balance back, persisted in the same commit.
func (s *Goals) Delete(ctx context.Context, id string) (*core.Transaction, error) {
	var transfer *core.Transaction

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		g, err := q.GetSavingsGoal(ctx, id)
		if err != nil {
			return err
		}

		if g.CurrentAmount.Cents > 0 {
			t := core.Transaction{
				ID:          uuid.NewString(),
				Amount:      g.CurrentAmount,
				Description: fmt.Sprintf("Transferred from %s savings goal", g.Name),
				Comments:    "Automatic transaction for savings goal deletion",
				Tags:        []string{"savings", "transfer", "automatic"},
				Category:    core.CategorySavingsTransfer,
				Type:        core.Income,
				Date:        time.Now().UTC(),
				CreatedAt:   time.Now().UTC(),
			}
			if err := q.CreateTransaction(ctx, t); err != nil {
				return fmt.Errorf("record transfer: %w", err)
			}
			transfer = &t
		}

		return q.DeleteSavingsGoal(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "Savings goal deleted", "goal_id", id)
	return transfer, nil
}
