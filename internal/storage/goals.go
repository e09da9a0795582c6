package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

func (q *Queries) CreateSavingsGoal(ctx context.Context, g core.SavingsGoal) error {
	query := `
		INSERT INTO savings_goals (id, name, target_cents, current_cents, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	var deadline any
	if g.Deadline != nil {
		deadline = *g.Deadline
	}
	_, err := q.db.ExecContext(ctx, query,
		g.ID, g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert savings goal: %w", err)
	}
	return nil
}

func (q *Queries) GetSavingsGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	query := `
		SELECT id, name, target_cents, current_cents, deadline, created_at
		FROM savings_goals WHERE id = ?
	`
	g, err := scanSavingsGoalRow(q.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, core.ErrNotFound
	}
	return g, err
}

func (q *Queries) ListSavingsGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	query := `
		SELECT id, name, target_cents, current_cents, deadline, created_at
		FROM savings_goals ORDER BY created_at
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list savings goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanSavingsGoalRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateSavingsGoal(ctx context.Context, g core.SavingsGoal) error {
	query := `
		UPDATE savings_goals
		SET name = ?, target_cents = ?, current_cents = ?, deadline = ?
		WHERE id = ?
	`
	var deadline any
	if g.Deadline != nil {
		deadline = *g.Deadline
	}
	res, err := q.db.ExecContext(ctx, query,
		g.Name, g.TargetAmount.Cents, g.CurrentAmount.Cents, deadline, g.ID)
	if err != nil {
		return fmt.Errorf("update savings goal: %w", err)
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

func (q *Queries) DeleteSavingsGoal(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM savings_goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete savings goal: %w", err)
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

func (q *Queries) DeleteAllSavingsGoals(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM savings_goals`); err != nil {
		return fmt.Errorf("delete all savings goals: %w", err)
	}
	return nil
}

// SumSavingsGoalBalances totals currentAmount across all goals, in cents.
func (q *Queries) SumSavingsGoalBalances(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx, `SELECT SUM(current_cents) FROM savings_goals`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum savings goals: %w", err)
	}
	return total.Int64, nil
}

func scanSavingsGoalRow(s rowScanner) (core.SavingsGoal, error) {
	var (
		g        core.SavingsGoal
		deadline sql.NullTime
	)
	err := s.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &deadline, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.SavingsGoal{}, err
		}
		return core.SavingsGoal{}, fmt.Errorf("scan savings goal: %w", err)
	}
	if deadline.Valid {
		d := deadline.Time
		g.Deadline = &d
	}
	return g, nil
}
