package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galen/internal/core/apperror"
)

// fakeRepo overrides only the methods the service hooks touch.
type fakeRepo struct {
	Repository
	byTaxNumber map[string]*Customer
	findErr     error
	created     []*Customer
}

func (r *fakeRepo) Create(_ context.Context, c *Customer) error {
	r.created = append(r.created, c)
	return nil
}

func (r *fakeRepo) FindByTaxNumber(_ context.Context, taxNumber string) (*Customer, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if c, ok := r.byTaxNumber[taxNumber]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("customer", taxNumber)
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

func newCustomerWithTaxNumber(code, name, taxNumber string) *Customer {
	c := NewCustomer(code, name)
	c.TaxNumber = &taxNumber
	return c
}

func TestCheckUniquenessFreeWhenNoMatch(t *testing.T) {
	repo := &fakeRepo{byTaxNumber: map[string]*Customer{}}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	c := newCustomerWithTaxNumber("CU-000001", "Acme Pharma", "HU12345678")
	require.NoError(t, svc.checkUniqueness(context.Background(), c))
}

func TestCheckUniquenessDuplicateTaxNumber(t *testing.T) {
	existing := newCustomerWithTaxNumber("CU-000001", "Acme Pharma", "HU12345678")
	repo := &fakeRepo{byTaxNumber: map[string]*Customer{"HU12345678": existing}}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	// Same entity updating itself is fine.
	require.NoError(t, svc.checkUniqueness(context.Background(), existing))

	other := newCustomerWithTaxNumber("CU-000002", "Acme Pharma Kft.", "HU12345678")
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

	c := newCustomerWithTaxNumber("CU-000001", "Acme Pharma", "HU12345678")
	err := svc.checkUniqueness(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
}

func TestCreateStopsOnUniquenessLookupFailure(t *testing.T) {
	lookupErr := errors.New("connection reset")
	repo := &fakeRepo{findErr: lookupErr}
	svc := NewService(repo, passthroughTx{}, &fakeSequencer{})

	c := newCustomerWithTaxNumber("CU-000001", "Acme Pharma", "HU12345678")
	err := svc.Create(context.Background(), c)
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, repo.created)
}
