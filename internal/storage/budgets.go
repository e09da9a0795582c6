package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

func (q *Queries) CreateBudget(ctx context.Context, b core.Budget) error {
	query := `
		INSERT INTO budgets (id, category, amount_cents, spent_cents, month, year, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.db.ExecContext(ctx, query,
		b.ID, b.Category, b.Amount.Cents, b.Spent.Cents, b.Month, b.Year, b.Recurring, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (q *Queries) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	query := `
		SELECT id, category, amount_cents, spent_cents, month, year, recurring, created_at
		FROM budgets WHERE id = ?
	`
	return scanBudget(q.db.QueryRowContext(ctx, query, id))
}

// GetBudgetByPeriod returns the unique budget for (category, month, year)
// or core.ErrNotFound. It never creates one.
func (q *Queries) GetBudgetByPeriod(ctx context.Context, category string, p core.Period) (core.Budget, error) {
	query := `
		SELECT id, category, amount_cents, spent_cents, month, year, recurring, created_at
		FROM budgets WHERE category = ? AND month = ? AND year = ?
	`
	return scanBudget(q.db.QueryRowContext(ctx, query, category, p.Month, p.Year))
}

// ListBudgets returns all budgets, or only those of one period when p is
// non-nil, ordered by category.
func (q *Queries) ListBudgets(ctx context.Context, p *core.Period) ([]core.Budget, error) {
	query := `
		SELECT id, category, amount_cents, spent_cents, month, year, recurring, created_at
		FROM budgets
	`
	var args []any
	if p != nil {
		query += ` WHERE month = ? AND year = ?`
		args = append(args, p.Month, p.Year)
	}
	query += ` ORDER BY category`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudgetRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListRecurringBudgets returns the recurring budgets of one period.
func (q *Queries) ListRecurringBudgets(ctx context.Context, p core.Period) ([]core.Budget, error) {
	query := `
		SELECT id, category, amount_cents, spent_cents, month, year, recurring, created_at
		FROM budgets WHERE month = ? AND year = ? AND recurring = 1
		ORDER BY category
	`
	rows, err := q.db.QueryContext(ctx, query, p.Month, p.Year)
	if err != nil {
		return nil, fmt.Errorf("list recurring budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudgetRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// AnyBudgetInPeriod reports whether any budget row exists for the
// period, regardless of category.
func (q *Queries) AnyBudgetInPeriod(ctx context.Context, p core.Period) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM budgets WHERE month = ? AND year = ?)`, p.Month, p.Year).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check budgets in period: %w", err)
	}
	return exists, nil
}

func (q *Queries) UpdateBudget(ctx context.Context, b core.Budget) error {
	query := `
		UPDATE budgets
		SET category = ?, amount_cents = ?, month = ?, year = ?, recurring = ?
		WHERE id = ?
	`
	res, err := q.db.ExecContext(ctx, query,
		b.Category, b.Amount.Cents, b.Month, b.Year, b.Recurring, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// SetBudgetSpent writes the spent total as a single UPDATE. Callers must
// route all reconciliation through the Reconciler; this is also the
// persistence behind the administrative override.
func (q *Queries) SetBudgetSpent(ctx context.Context, id string, spent core.Money) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE budgets SET spent_cents = ? WHERE id = ?`, spent.Cents, id)
	if err != nil {
		return fmt.Errorf("set budget spent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteBudget(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (q *Queries) DeleteAllBudgets(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM budgets`); err != nil {
		return fmt.Errorf("delete all budgets: %w", err)
	}
	return nil
}

func scanBudget(row *sql.Row) (core.Budget, error) {
	b, err := scanBudgetRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	return b, err
}

func scanBudgetRow(s rowScanner) (core.Budget, error) {
	var b core.Budget
	err := s.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Spent.Cents,
		&b.Month, &b.Year, &b.Recurring, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Budget{}, err
		}
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	return b, nil
}
