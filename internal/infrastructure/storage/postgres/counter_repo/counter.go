// Package counter_repo provides the PostgreSQL implementation of the
// per-category batch counter store.
package counter_repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"galen/internal/core/batch"
	"galen/internal/infrastructure/storage/postgres"
)

const counterTable = "batch_counters"

// CounterRepo implements batchalloc.CounterStore over the
// batch_counters table. One row per category holds the decomposed
// fields of the last issued code.
type CounterRepo struct {
	txManager *postgres.TxManager
}

// NewCounterRepo creates a new counter repository.
func NewCounterRepo(txManager *postgres.TxManager) *CounterRepo {
	return &CounterRepo{txManager: txManager}
}

// GetLastIssued returns the last issued code for a category, or false
// when no codes have been issued for it yet.
func (r *CounterRepo) GetLastIssued(ctx context.Context, category batch.Category) (batch.Code, bool, error) {
	var code batch.Code

	querier := r.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
        SELECT prefix, number, number_width, suffix
        FROM `+counterTable+`
        WHERE category = $1
	`, string(category)).Scan(&code.Prefix, &code.Number, &code.NumberWidth, &code.Suffix)
	if err == pgx.ErrNoRows {
		return batch.Code{}, false, nil
	}
	if err != nil {
		return batch.Code{}, false, fmt.Errorf("get counter %s: %w", category, err)
	}

	return code, true, nil
}

// Advance persists issued as the new last-issued value. The upsert
// writes the same row on retry with the same code, so it is idempotent.
func (r *CounterRepo) Advance(ctx context.Context, category batch.Category, issued batch.Code) error {
	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, `
        INSERT INTO `+counterTable+` (category, prefix, number, number_width, suffix, updated_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (category) DO UPDATE SET
            prefix = EXCLUDED.prefix,
            number = EXCLUDED.number,
            number_width = EXCLUDED.number_width,
            suffix = EXCLUDED.suffix,
            updated_at = NOW()
	`, string(category), issued.Prefix, issued.Number, issued.NumberWidth, issued.Suffix)
	if err != nil {
		return fmt.Errorf("advance counter %s: %w", category, err)
	}

	return nil
}
