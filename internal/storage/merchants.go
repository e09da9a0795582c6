package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fintrack/internal/core"
)

// UpsertMerchantMapping inserts or overwrites the mapping for a raw
// merchant name. The raw name is the natural key.
func (q *Queries) UpsertMerchantMapping(ctx context.Context, m core.MerchantMapping) error {
	query := `
		INSERT INTO merchant_mappings (raw_name, display_name, category)
		VALUES (?, ?, ?)
		ON CONFLICT(raw_name) DO UPDATE SET display_name = excluded.display_name, category = excluded.category
	`
	_, err := q.db.ExecContext(ctx, query, m.RawName, m.DisplayName, m.Category)
	if err != nil {
		return fmt.Errorf("upsert merchant mapping: %w", err)
	}
	return nil
}

func (q *Queries) GetMerchantMapping(ctx context.Context, rawName string) (core.MerchantMapping, error) {
	var m core.MerchantMapping
	err := q.db.QueryRowContext(ctx,
		`SELECT raw_name, display_name, category FROM merchant_mappings WHERE raw_name = ?`, rawName).
		Scan(&m.RawName, &m.DisplayName, &m.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return core.MerchantMapping{}, core.ErrNotFound
	}
	if err != nil {
		return core.MerchantMapping{}, fmt.Errorf("get merchant mapping: %w", err)
	}
	return m, nil
}

func (q *Queries) ListMerchantMappings(ctx context.Context) ([]core.MerchantMapping, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT raw_name, display_name, category FROM merchant_mappings ORDER BY raw_name`)
	if err != nil {
		return nil, fmt.Errorf("list merchant mappings: %w", err)
	}
	defer rows.Close()

	var out []core.MerchantMapping
	for rows.Next() {
		var m core.MerchantMapping
		if err := rows.Scan(&m.RawName, &m.DisplayName, &m.Category); err != nil {
			return nil, fmt.Errorf("scan merchant mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (q *Queries) DeleteMerchantMapping(ctx context.Context, rawName string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM merchant_mappings WHERE raw_name = ?`, rawName)
	if err != nil {
		return fmt.Errorf("delete merchant mapping: %w", err)
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
