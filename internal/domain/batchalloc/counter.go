// Package batchalloc allocates manufacturing batch codes to production
// orders: it parses user input into one or more codes, stamps the first
// onto the target order, fans the rest out into cloned orders, and keeps
// a per-category last-issued counter used for next-code suggestions.
package batchalloc

import (
	"context"

	"galen/internal/core/batch"
)

// CounterStore keeps the last issued batch code per category.
// A category with no record is a normal state: no codes were ever
// issued for it.
type CounterStore interface {
	// GetLastIssued returns the last issued code for a category.
	// The second return value is false when no record exists.
	GetLastIssued(ctx context.Context, category batch.Category) (batch.Code, bool, error)

	// Advance persists issued as the new last-issued value for the
	// category. Must be idempotent under retry with the same value.
	Advance(ctx context.Context, category batch.Category, issued batch.Code) error
}

// SuggestNext computes the next code to offer for a category. With no
// issued history it starts the year's sequence at number 1; otherwise
// it increments the last issued code.
func SuggestNext(ctx context.Context, store CounterStore, category batch.Category, year int) (batch.Code, error) {
	last, ok, err := store.GetLastIssued(ctx, category)
	if err != nil {
		return batch.Code{}, err
	}
	if !ok {
		return batch.Code{
			Prefix:      category.DefaultPrefix(year),
			Number:      1,
			NumberWidth: batch.MinNumberWidth,
		}, nil
	}
	return last.Next(), nil
}
