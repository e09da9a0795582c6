package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

func (q *Queries) CreateTransaction(ctx context.Context, t core.Transaction) error {
	query := `
		INSERT INTO transactions (id, amount_cents, description, comments, tags, category, type, date, raw_merchant, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	var rawMerchant any
	if t.RawMerchant != "" {
		rawMerchant = t.RawMerchant
	}
	_, err := q.db.ExecContext(ctx, query,
		t.ID, t.Amount.Cents, t.Description, t.Comments, joinTags(t.Tags),
		t.Category, string(t.Type), t.Date, rawMerchant, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (q *Queries) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	query := `
		SELECT id, amount_cents, description, comments, tags, category, type, date, raw_merchant, created_at
		FROM transactions WHERE id = ?
	`
	return scanTransaction(q.db.QueryRowContext(ctx, query, id))
}

func (q *Queries) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	query := `
		SELECT id, amount_cents, description, comments, tags, category, type, date, raw_merchant, created_at
		FROM transactions ORDER BY date DESC
	`
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransactionRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (q *Queries) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	query := `
		UPDATE transactions
		SET amount_cents = ?, description = ?, comments = ?, tags = ?, category = ?, date = ?
		WHERE id = ?
	`
	res, err := q.db.ExecContext(ctx, query,
		t.Amount.Cents, t.Description, t.Comments, joinTags(t.Tags), t.Category, t.Date, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
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

func (q *Queries) DeleteTransaction(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
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

func (q *Queries) DeleteAllTransactions(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("delete all transactions: %w", err)
	}
	return nil
}

// SumTransactionsByType totals amounts for one transaction type, in cents.
func (q *Queries) SumTransactionsByType(ctx context.Context, typ core.TransactionType) (int64, error) {
	var total sql.NullInt64
	err := q.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM transactions WHERE type = ?`, string(typ)).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}
	return total.Int64, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row *sql.Row) (core.Transaction, error) {
	t, err := scanTransactionRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

func scanTransactionRow(s rowScanner) (core.Transaction, error) {
	var (
		t           core.Transaction
		typ         string
		tags        string
		rawMerchant sql.NullString
	)
	err := s.Scan(&t.ID, &t.Amount.Cents, &t.Description, &t.Comments, &tags,
		&t.Category, &typ, &t.Date, &rawMerchant, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Type = core.TransactionType(typ)
	t.Tags = splitTags(tags)
	t.RawMerchant = rawMerchant.String
	return t, nil
}
