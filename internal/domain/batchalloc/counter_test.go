package batchalloc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galen/internal/core/batch"
)

func TestSuggestNext(t *testing.T) {
	ctx := context.Background()

	t.Run("absent counter starts the year sequence", func(t *testing.T) {
		store := NewMemoryCounterStore()

		code, err := SuggestNext(ctx, store, batch.CategoryHuman, 2025)
		require.NoError(t, err)
		assert.Equal(t, "SFH25001", code.String())
	})

	t.Run("plain number increments", func(t *testing.T) {
		store := NewMemoryCounterStore()
		require.NoError(t, store.Advance(ctx, batch.CategoryHuman, batch.Code{
			Prefix: "SFH25", Number: 45, NumberWidth: 3,
		}))

		code, err := SuggestNext(ctx, store, batch.CategoryHuman, 2025)
		require.NoError(t, err)
		assert.Equal(t, "SFH25046", code.String())
	})

	t.Run("suffix advances before the number", func(t *testing.T) {
		store := NewMemoryCounterStore()
		require.NoError(t, store.Advance(ctx, batch.CategoryHuman, batch.Code{
			Prefix: "SFH25", Number: 45, NumberWidth: 3, Suffix: "A",
		}))

		code, err := SuggestNext(ctx, store, batch.CategoryHuman, 2025)
		require.NoError(t, err)
		assert.Equal(t, "SFH25045B", code.String())
	})

	t.Run("suffix Z rolls over and drops the suffix", func(t *testing.T) {
		store := NewMemoryCounterStore()
		require.NoError(t, store.Advance(ctx, batch.CategoryHuman, batch.Code{
			Prefix: "SFH25", Number: 45, NumberWidth: 3, Suffix: "Z",
		}))

		code, err := SuggestNext(ctx, store, batch.CategoryHuman, 2025)
		require.NoError(t, err)
		assert.Equal(t, "SFH25046", code.String())
	})

	t.Run("categories are independent", func(t *testing.T) {
		store := NewMemoryCounterStore()
		require.NoError(t, store.Advance(ctx, batch.CategoryHuman, batch.Code{
			Prefix: "SFH25", Number: 99, NumberWidth: 3,
		}))

		code, err := SuggestNext(ctx, store, batch.CategoryVeterinary, 2025)
		require.NoError(t, err)
		assert.Equal(t, "SFV25001", code.String())
	})
}

func TestAdvanceIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryCounterStore()
	code := batch.Code{Prefix: "SFV25", Number: 47, NumberWidth: 3, Suffix: "A"}

	require.NoError(t, store.Advance(ctx, batch.CategoryVeterinary, code))
	require.NoError(t, store.Advance(ctx, batch.CategoryVeterinary, code))

	got, ok, err := store.GetLastIssued(ctx, batch.CategoryVeterinary)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, code.Equal(got))
}
