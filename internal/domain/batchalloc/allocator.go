package batchalloc

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/clock"
	"galen/internal/core/id"
	"galen/pkg/logger"
)

// DefaultMaxRangeSize caps range expansion when no explicit limit is
// configured.
const DefaultMaxRangeSize = 50

// OrderStore is the order-side collaborator of the allocator. The
// production implementation is the orders service; tests use an
// in-memory fake.
type OrderStore interface {
	// SetBatchCode stamps a rendered code onto an existing order.
	// Returns a not-found error when the order does not exist.
	SetBatchCode(ctx context.Context, orderID id.ID, code batch.Code) error

	// CloneWithCode creates a copy of the order carrying the given
	// code and returns the new order's ID.
	CloneWithCode(ctx context.Context, orderID id.ID, code batch.Code) (id.ID, error)
}

// Outcome reports what one allocation produced.
type Outcome struct {
	// Codes are the allocated codes in ascending order. Empty for a
	// blank-input no-op.
	Codes []batch.Code `json:"codes"`

	// PrimaryOrderID is the order updated in place with Codes[0].
	PrimaryOrderID id.ID `json:"primaryOrderId"`

	// ClonedOrderIDs are the new orders created for Codes[1:], in
	// order. On partial failure it holds the clones that succeeded.
	ClonedOrderIDs []id.ID `json:"clonedOrderIds"`
}

// CodeStrings renders the allocated codes.
func (o Outcome) CodeStrings() []string {
	out := make([]string, len(o.Codes))
	for i, c := range o.Codes {
		out[i] = c.String()
	}
	return out
}

// Allocator orchestrates batch-code allocation.
type Allocator struct {
	counters CounterStore
	orders   OrderStore
	clk      clock.Clock
	maxRange int

	// mu guards catMu; each category gets its own advance lock so
	// concurrent allocations cannot clobber each other's counter write.
	mu    sync.Mutex
	catMu map[batch.Category]*sync.Mutex
}

// Config configures the allocator.
type Config struct {
	Counters CounterStore
	Orders   OrderStore
	Clock    clock.Clock

	// MaxRangeSize caps how many codes one range may expand to.
	// Zero means DefaultMaxRangeSize.
	MaxRangeSize int
}

// New creates an allocator.
func New(cfg Config) *Allocator {
	maxRange := cfg.MaxRangeSize
	if maxRange <= 0 {
		maxRange = DefaultMaxRangeSize
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Allocator{
		counters: cfg.Counters,
		orders:   cfg.Orders,
		clk:      clk,
		maxRange: maxRange,
		catMu:    make(map[batch.Category]*sync.Mutex),
	}
}

// SuggestNext returns the next code to offer for a category, based on
// the stored last-issued value and the current year.
func (a *Allocator) SuggestNext(ctx context.Context, category batch.Category) (batch.Code, error) {
	if !category.Valid() {
		return batch.Code{}, apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(category))
	}
	return SuggestNext(ctx, a.counters, category, a.clk.Now().Year())
}

// Allocate parses rawInput, expands it into codes, stamps the first
// onto the order, clones the order for each remaining code, and
// advances the category counter.
//
// A blank rawInput is a deliberate no-op: the returned outcome carries
// no codes and nothing is touched.
//
// Clone insertions are independent: a failure partway through leaves
// earlier clones in place. The returned outcome then enumerates the
// codes and clones that succeeded, and the error carries the created
// count so the caller can report "N of M batches created". A counter
// write failure after the codes were issued is fatal for the call as
// well: the error propagates alongside the fully populated outcome.
func (a *Allocator) Allocate(ctx context.Context, orderID id.ID, rawInput string, category batch.Category) (Outcome, error) {
	outcome := Outcome{PrimaryOrderID: orderID}

	if !category.Valid() {
		return outcome, apperror.NewValidation("invalid category").
			WithDetail("field", "category").
			WithDetail("value", string(category))
	}

	// Blank input means "no code supplied": a deliberate no-op, not an
	// error.
	if strings.TrimSpace(rawInput) == "" {
		return outcome, nil
	}

	parsed, err := batch.Parse(rawInput, category, a.clk.Now().Year())
	if err != nil {
		return outcome, err
	}

	// Cap the range before expanding it. The span check must come first:
	// a pathological range would otherwise materialize its full slice
	// (or overflow the slice size) inside Expand.
	if parsed.IsRange {
		if span := parsed.Range.End.Number - parsed.Range.Start.Number; span >= a.maxRange {
			requested := span + 1
			if requested < 0 { // span+1 overflowed int
				requested = span
			}
			return outcome, apperror.NewRangeTooLarge(requested, a.maxRange)
		}
	}

	codes := batch.Expand(parsed)

	// Stamp the first code onto the base order. Any failure here means
	// no mutation happened at all.
	if err := a.orders.SetBatchCode(ctx, orderID, codes[0]); err != nil {
		return outcome, err
	}
	outcome.Codes = codes[:1]

	// Fan the remaining codes out into cloned orders. Each insert is
	// independent; on failure, what was created stays created.
	for _, code := range codes[1:] {
		cloneID, err := a.orders.CloneWithCode(ctx, orderID, code)
		if err != nil {
			if advErr := a.advanceAfterIssue(ctx, category, outcome.Codes[len(outcome.Codes)-1]); advErr != nil {
				logger.Error(ctx, "counter advance failed",
					"category", string(category),
					"error", advErr)
			}
			return outcome, apperror.NewInternal(err).
				WithDetail("codesRequested", len(codes)).
				WithDetail("codesCreated", len(outcome.Codes)).
				WithDetail("createdCodes", outcome.CodeStrings())
		}
		outcome.Codes = append(outcome.Codes, code)
		outcome.ClonedOrderIDs = append(outcome.ClonedOrderIDs, cloneID)
	}

	if err := a.advanceAfterIssue(ctx, category, codes[len(codes)-1]); err != nil {
		return outcome, apperror.NewInternal(err).
			WithDetail("codesCreated", len(outcome.Codes)).
			WithDetail("createdCodes", outcome.CodeStrings())
	}

	logger.Info(ctx, "batch codes allocated",
		"orderId", orderID,
		"category", string(category),
		"codes", outcome.CodeStrings())

	return outcome, nil
}

// advanceAfterIssue records the highest code actually written. Advances
// for one category are serialized so concurrent allocations cannot
// overwrite each other's counter value. A write failure is returned to
// the caller; the outcome built so far still enumerates the codes that
// were issued.
func (a *Allocator) advanceAfterIssue(ctx context.Context, category batch.Category, issued batch.Code) error {
	mu := a.categoryLock(category)
	mu.Lock()
	defer mu.Unlock()

	if err := a.counters.Advance(ctx, category, issued); err != nil {
		return fmt.Errorf("advance counter %s after %s: %w", category, issued.String(), err)
	}
	return nil
}

func (a *Allocator) categoryLock(category batch.Category) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	mu, ok := a.catMu[category]
	if !ok {
		mu = &sync.Mutex{}
		a.catMu[category] = mu
	}
	return mu
}
