package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// SeedCounts reports how many rows a seeding run inserted.
type SeedCounts struct {
	Transactions     int `json:"transactions"`
	Budgets          int `json:"budgets"`
	SavingsGoals     int `json:"savings_goals"`
	MerchantMappings int `json:"merchant_mappings"`
}

// Seed replaces all transactions, budgets and savings goals with a
// small sample data set and upserts a few merchant mappings.
// Development use only.
func Seed(ctx context.Context, repo *storage.Repository) (SeedCounts, error) {
	now := time.Now().UTC()
	p := core.PeriodOf(now)

	transactions := []core.Transaction{
		{
			ID:          uuid.NewString(),
			Amount:      core.Money{Cents: 150000},
			Description: "Internship Stipend",
			Comments:    "Monthly stipend",
			Tags:        []string{"income", "work"},
			Category:    "Salary",
			Type:        core.Income,
			Date:        now,
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Amount:      core.Money{Cents: 2500},
			Description: "Coffee shop",
			Comments:    "Morning coffee with friends",
			Tags:        []string{"food", "social"},
			Category:    "Food & Drinks",
			Type:        core.Expense,
			Date:        now,
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Amount:      core.Money{Cents: 5000},
			Description: "Textbooks",
			Comments:    "Computer Science textbook",
			Tags:        []string{"education", "books"},
			Category:    "Education",
			Type:        core.Expense,
			Date:        now,
			CreatedAt:   now,
		},
		{
			ID:          uuid.NewString(),
			Amount:      core.Money{Cents: 20000},
			Description: "Freelance project",
			Comments:    "Website design for local business",
			Tags:        []string{"income", "freelance"},
			Category:    "Side Hustle",
			Type:        core.Income,
			Date:        now,
			CreatedAt:   now,
		},
	}

	budgets := []core.Budget{
		{ID: uuid.NewString(), Category: "Food & Drinks", Amount: core.Money{Cents: 30000}, Spent: core.Money{Cents: 2500}, Month: p.Month, Year: p.Year, Recurring: true, CreatedAt: now},
		{ID: uuid.NewString(), Category: "Transportation", Amount: core.Money{Cents: 20000}, Month: p.Month, Year: p.Year, Recurring: true, CreatedAt: now},
		{ID: uuid.NewString(), Category: "Entertainment", Amount: core.Money{Cents: 10000}, Month: p.Month, Year: p.Year, Recurring: true, CreatedAt: now},
		{ID: uuid.NewString(), Category: "Education", Amount: core.Money{Cents: 15000}, Spent: core.Money{Cents: 5000}, Month: p.Month, Year: p.Year, Recurring: true, CreatedAt: now},
	}

	deadline := now.AddDate(0, 6, 0)
	goals := []core.SavingsGoal{
		{ID: uuid.NewString(), Name: "Emergency Fund", TargetAmount: core.Money{Cents: 100000}, CurrentAmount: core.Money{Cents: 50000}, Deadline: &deadline, CreatedAt: now},
		{ID: uuid.NewString(), Name: "New Laptop", TargetAmount: core.Money{Cents: 120000}, CurrentAmount: core.Money{Cents: 30000}, Deadline: &deadline, CreatedAt: now},
	}

	mappings := []core.MerchantMapping{
		{RawName: "IC* INSTACART", DisplayName: "Instacart", Category: "Food & Drinks"},
		{RawName: "TIM HORTONS #", DisplayName: "Tim Hortons", Category: "Food & Drinks"},
		{RawName: "PRESTO APPL/", DisplayName: "Presto Transit", Category: "Transportation"},
	}

	err := repo.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.DeleteAllTransactions(ctx); err != nil {
			return err
		}
		if err := q.DeleteAllBudgets(ctx); err != nil {
			return err
		}
		if err := q.DeleteAllSavingsGoals(ctx); err != nil {
			return err
		}

		for _, t := range transactions {
			if err := q.CreateTransaction(ctx, t); err != nil {
				return fmt.Errorf("seed transaction: %w", err)
			}
		}
		for _, b := range budgets {
			if err := q.CreateBudget(ctx, b); err != nil {
				return fmt.Errorf("seed budget: %w", err)
			}
		}
		for _, g := range goals {
			if err := q.CreateSavingsGoal(ctx, g); err != nil {
				return fmt.Errorf("seed savings goal: %w", err)
			}
		}
		for _, m := range mappings {
			if err := q.UpsertMerchantMapping(ctx, m); err != nil {
				return fmt.Errorf("seed merchant mapping: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, err
	}

	return SeedCounts{
		Transactions:     len(transactions),
		Budgets:          len(budgets),
		SavingsGoals:     len(goals),
		MerchantMappings: len(mappings),
	}, nil
}
