package postgres

import (
	"context"
	"fmt"
)

// SequenceStore allocates monotonic numbers from named sequences backed
// by the sys_sequences table. Used for catalog codes and document
// numbers. Implements domain.CodeSequencer.
type SequenceStore struct {
	txManager *TxManager
}

// NewSequenceStore creates a sequence store.
func NewSequenceStore(txManager *TxManager) *SequenceStore {
	return &SequenceStore{txManager: txManager}
}

// Next returns the next value of the named sequence. The upsert with
// RETURNING runs as one statement, so concurrent callers never see the
// same value.
func (s *SequenceStore) Next(ctx context.Context, key string) (int64, error) {
	var num int64

	querier := s.txManager.GetQuerier(ctx)
	err := querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", key, err)
	}

	return num, nil
}
