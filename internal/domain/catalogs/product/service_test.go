package product

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
)

// fakeRepo overrides only the methods the service hooks touch.
type fakeRepo struct {
	Repository
	byATC   map[string]*Product
	findErr error
	created []*Product
}

func (r *fakeRepo) Create(_ context.Context, p *Product) error {
	r.created = append(r.created, p)
	return nil
}

func (r *fakeRepo) FindByATCCode(_ context.Context, atcCode string) (*Product, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if p, ok := r.byATC[atcCode]; ok {
		return p, nil
	}
	return nil, apperror.NewNotFound("product", atcCode)
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeSequencer struct{ last int64 }

func (s *fakeSequencer) Next(context.Context, string) (int64, error) {
	s.last++
	return s.last, nil
}

func atcPtr(s string) *string { return &s }

func newTabletWithATC(code, name, atc string) *Product {
	p := NewProduct(code, name, batch.CategoryHuman, FormTablet)
	p.ATCCode = atcPtr(atc)
	return p
}

func TestCheckUniquenessFreeWhenNoMatch(t *testing.T) {
	repo := &fakeRepo{byATC: map[string]*Product{}}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	p := newTabletWithATC("PR-000001", "Paracetamol 500mg", "N02BE01")
	require.NoError(t, svc.checkUniqueness(context.Background(), p))
}

func TestCheckUniquenessDuplicateATCCode(t *testing.T) {
	existing := newTabletWithATC("PR-000001", "Paracetamol 500mg", "N02BE01")
	repo := &fakeRepo{byATC: map[string]*Product{"N02BE01": existing}}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	// Same entity updating itself is fine.
	require.NoError(t, svc.checkUniqueness(context.Background(), existing))

	other := newTabletWithATC("PR-000002", "Paracetamol 1000mg", "N02BE01")
	err := svc.checkUniqueness(context.Background(), other)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestCheckUniquenessPropagatesLookupFailure(t *testing.T) {
	lookupErr := errors.New("connection reset")
	repo := &fakeRepo{findErr: lookupErr}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	p := newTabletWithATC("PR-000001", "Paracetamol 500mg", "N02BE01")
	err := svc.checkUniqueness(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
}

func TestCreateStopsOnUniquenessLookupFailure(t *testing.T) {
	lookupErr := errors.New("connection reset")
	repo := &fakeRepo{findErr: lookupErr}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	p := newTabletWithATC("PR-000001", "Paracetamol 500mg", "N02BE01")
	err := svc.Create(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, repo.created)
}
