package batchalloc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/clock"
	"galen/internal/core/id"
)

// fakeOrderStore records allocator mutations and can fail cloning after
// a set number of successful inserts.
type fakeOrderStore struct {
	orders    map[id.ID]string // orderID -> batch code
	cloneErrs int              // fail clones after this many succeed (-1: never)
	clones    int
}

func newFakeOrderStore(orderIDs ...id.ID) *fakeOrderStore {
	s := &fakeOrderStore{
		orders:    make(map[id.ID]string),
		cloneErrs: -1,
	}
	for _, oid := range orderIDs {
		s.orders[oid] = ""
	}
	return s
}

func (s *fakeOrderStore) SetBatchCode(_ context.Context, orderID id.ID, code batch.Code) error {
	if _, ok := s.orders[orderID]; !ok {
		return apperror.NewNotFound("production order", orderID.String())
	}
	s.orders[orderID] = code.String()
	return nil
}

func (s *fakeOrderStore) CloneWithCode(_ context.Context, orderID id.ID, code batch.Code) (id.ID, error) {
	if _, ok := s.orders[orderID]; !ok {
		return id.Nil(), apperror.NewNotFound("production order", orderID.String())
	}
	if s.cloneErrs >= 0 && s.clones >= s.cloneErrs {
		return id.Nil(), errors.New("insert failed")
	}
	s.clones++
	cloneID := id.New()
	s.orders[cloneID] = code.String()
	return cloneID, nil
}

func newTestAllocator(orders *fakeOrderStore, counters CounterStore) *Allocator {
	return New(Config{
		Counters: counters,
		Orders:   orders,
		Clock:    clock.NewFixed(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)),
	})
}

func TestAllocateSingleCode(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	counters := NewMemoryCounterStore()
	alloc := newTestAllocator(store, counters)

	outcome, err := alloc.Allocate(ctx, orderID, "045", batch.CategoryHuman)
	require.NoError(t, err)

	require.Len(t, outcome.Codes, 1)
	assert.Equal(t, "SFH25045", outcome.Codes[0].String())
	assert.Equal(t, orderID, outcome.PrimaryOrderID)
	assert.Empty(t, outcome.ClonedOrderIDs)
	assert.Equal(t, "SFH25045", store.orders[orderID])

	last, ok, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SFH25045", last.String())
}

func TestAllocateRangeFansOut(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	counters := NewMemoryCounterStore()
	alloc := newTestAllocator(store, counters)

	outcome, err := alloc.Allocate(ctx, orderID, "045A-047A", batch.CategoryVeterinary)
	require.NoError(t, err)

	assert.Equal(t, []string{"SFV25045A", "SFV25046A", "SFV25047A"}, outcome.CodeStrings())
	assert.Equal(t, orderID, outcome.PrimaryOrderID)
	require.Len(t, outcome.ClonedOrderIDs, 2)

	// Base order carries the first code, clones carry the rest.
	assert.Equal(t, "SFV25045A", store.orders[orderID])
	assert.Equal(t, "SFV25046A", store.orders[outcome.ClonedOrderIDs[0]])
	assert.Equal(t, "SFV25047A", store.orders[outcome.ClonedOrderIDs[1]])

	// Counter advances to the last code of the run.
	last, ok, err := counters.GetLastIssued(ctx, batch.CategoryVeterinary)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SFV25047A", last.String())
}

func TestAllocateBlankInputIsNoOp(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	counters := NewMemoryCounterStore()
	alloc := newTestAllocator(store, counters)

	outcome, err := alloc.Allocate(ctx, orderID, "   ", batch.CategoryHuman)
	require.NoError(t, err)

	assert.Empty(t, outcome.Codes)
	assert.Empty(t, outcome.ClonedOrderIDs)
	assert.Equal(t, "", store.orders[orderID])

	_, ok, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllocateMalformedInputMutatesNothing(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()

	tests := []struct {
		name string
		raw  string
	}{
		{"inverted range", "007-005"},
		{"mismatched suffixes", "045A-047"},
		{"letters before digits", "A045"},
		{"two-letter suffix", "045AB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeOrderStore(orderID)
			counters := NewMemoryCounterStore()
			alloc := newTestAllocator(store, counters)

			_, err := alloc.Allocate(ctx, orderID, tt.raw, batch.CategoryHuman)
			require.Error(t, err)
			assert.True(t, apperror.IsMalformedCode(err))

			assert.Equal(t, "", store.orders[orderID])
			_, ok, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestAllocateOrderNotFound(t *testing.T) {
	ctx := context.Background()
	store := newFakeOrderStore()
	counters := NewMemoryCounterStore()
	alloc := newTestAllocator(store, counters)

	_, err := alloc.Allocate(ctx, id.New(), "045", batch.CategoryHuman)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))

	_, ok, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllocateRangeTooLarge(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	alloc := New(Config{
		Counters:     NewMemoryCounterStore(),
		Orders:       store,
		Clock:        clock.NewFixed(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)),
		MaxRangeSize: 5,
	})

	_, err := alloc.Allocate(ctx, orderID, "001-010", batch.CategoryHuman)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRangeTooLarge, appErr.Code)
	assert.Equal(t, "", store.orders[orderID])
}

func TestAllocateOversizedRangeRejectedBeforeExpansion(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()

	tests := []struct {
		name string
		raw  string
	}{
		{"millions of codes", "1-100000000"},
		{"end at max int", "0-9223372036854775807"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeOrderStore(orderID)
			counters := NewMemoryCounterStore()
			alloc := newTestAllocator(store, counters)

			// Must fail cleanly without materializing the range.
			_, err := alloc.Allocate(ctx, orderID, tt.raw, batch.CategoryHuman)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeRangeTooLarge, appErr.Code)

			assert.Equal(t, "", store.orders[orderID])
			_, issued, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
			require.NoError(t, err)
			assert.False(t, issued)
		})
	}
}

// failingCounterStore reads normally but rejects every advance.
type failingCounterStore struct {
	CounterStore
}

func (s failingCounterStore) Advance(context.Context, batch.Category, batch.Code) error {
	return errors.New("counter write failed")
}

func TestAllocateCounterAdvanceFailure(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	alloc := newTestAllocator(store, failingCounterStore{NewMemoryCounterStore()})

	outcome, err := alloc.Allocate(ctx, orderID, "045-046", batch.CategoryHuman)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
	assert.Equal(t, 2, appErr.Details["codesCreated"])

	// The codes were issued before the counter write failed, so the
	// outcome still enumerates them in full.
	assert.Equal(t, []string{"SFH25045", "SFH25046"}, outcome.CodeStrings())
	require.Len(t, outcome.ClonedOrderIDs, 1)
	assert.Equal(t, "SFH25045", store.orders[orderID])
	assert.Equal(t, "SFH25046", store.orders[outcome.ClonedOrderIDs[0]])
}

func TestAllocatePartialCloneFailure(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	store.cloneErrs = 1 // first clone succeeds, second fails
	counters := NewMemoryCounterStore()
	alloc := newTestAllocator(store, counters)

	outcome, err := alloc.Allocate(ctx, orderID, "045-047", batch.CategoryHuman)
	require.Error(t, err)

	// Base update and the first clone stay in place.
	assert.Equal(t, []string{"SFH25045", "SFH25046"}, outcome.CodeStrings())
	require.Len(t, outcome.ClonedOrderIDs, 1)
	assert.Equal(t, "SFH25045", store.orders[orderID])
	assert.Equal(t, "SFH25046", store.orders[outcome.ClonedOrderIDs[0]])

	// Error reports how many of the requested codes were created.
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 3, appErr.Details["codesRequested"])
	assert.Equal(t, 2, appErr.Details["codesCreated"])

	// Counter reflects the highest code actually written.
	last, ok2, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
	require.NoError(t, err)
	require.True(t, ok2)
	assert.Equal(t, "SFH25046", last.String())
}

func TestAllocateExplicitPrefixOverridesCategoryDefault(t *testing.T) {
	ctx := context.Background()
	orderID := id.New()
	store := newFakeOrderStore(orderID)
	counters := NewMemoryCounterStore()
	alloc := newTestAllocator(store, counters)

	outcome, err := alloc.Allocate(ctx, orderID, "ABC24100", batch.CategoryHuman)
	require.NoError(t, err)
	require.Len(t, outcome.Codes, 1)
	assert.Equal(t, "ABC24100", outcome.Codes[0].String())
}

func TestAllocatorSuggestNextUsesClockYear(t *testing.T) {
	ctx := context.Background()
	alloc := newTestAllocator(newFakeOrderStore(), NewMemoryCounterStore())

	code, err := alloc.SuggestNext(ctx, batch.CategoryHuman)
	require.NoError(t, err)
	assert.Equal(t, "SFH25001", code.String())
}

func TestAllocateConcurrentSameCategory(t *testing.T) {
	ctx := context.Background()
	counters := NewMemoryCounterStore()

	const workers = 8
	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			orderID := id.New()
			store := newFakeOrderStore(orderID)
			alloc := newTestAllocator(store, counters)
			_, err := alloc.Allocate(ctx, orderID, "045-047", batch.CategoryHuman)
			done <- err
		}()
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, <-done)
	}

	last, ok, err := counters.GetLastIssued(ctx, batch.CategoryHuman)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "SFH25047", last.String())
}
