package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/id"
	"galen/internal/domain"
)

// fakeRepo keeps orders in memory.
type fakeRepo struct {
	orders map[id.ID]*ProductionOrder
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orders: make(map[id.ID]*ProductionOrder)}
}

func (r *fakeRepo) Create(_ context.Context, doc *ProductionOrder) error {
	r.orders[doc.ID] = doc
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, docID id.ID) (*ProductionOrder, error) {
	doc, ok := r.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("production order", docID.String())
	}
	return doc, nil
}

func (r *fakeRepo) GetByNumber(_ context.Context, number string) (*ProductionOrder, error) {
	for _, doc := range r.orders {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("production order", number)
}

func (r *fakeRepo) Update(_ context.Context, doc *ProductionOrder) error {
	if _, ok := r.orders[doc.ID]; !ok {
		return apperror.NewNotFound("production order", doc.ID.String())
	}
	r.orders[doc.ID] = doc
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, docID id.ID) error {
	if _, ok := r.orders[docID]; !ok {
		return apperror.NewNotFound("production order", docID.String())
	}
	delete(r.orders, docID)
	return nil
}

func (r *fakeRepo) GetByBatchCode(_ context.Context, code string) (*ProductionOrder, error) {
	for _, doc := range r.orders {
		if doc.BatchCode == code {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("production order", code)
}

func (r *fakeRepo) List(_ context.Context, _ ListFilter) (domain.ListResult[*ProductionOrder], error) {
	result := domain.ListResult[*ProductionOrder]{}
	for _, doc := range r.orders {
		result.Items = append(result.Items, doc)
	}
	result.TotalCount = int64(len(result.Items))
	return result, nil
}

func (r *fakeRepo) GetForUpdate(ctx context.Context, docID id.ID) (*ProductionOrder, error) {
	return r.GetByID(ctx, docID)
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeSequencer hands out consecutive numbers per key.
type fakeSequencer struct {
	vals map[string]int64
}

func (s *fakeSequencer) Next(_ context.Context, key string) (int64, error) {
	if s.vals == nil {
		s.vals = make(map[string]int64)
	}
	s.vals[key]++
	return s.vals[key], nil
}

func newTestService() (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, &fakeSequencer{}, passthroughTx{}), repo
}

func validOrder() *ProductionOrder {
	doc := NewProductionOrder(id.New(), id.New(), batch.CategoryHuman)
	doc.Quantity = decimal.NewFromInt(1000)
	doc.DueDate = time.Now().AddDate(0, 1, 0)
	return doc
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("generates document number", func(t *testing.T) {
		svc, repo := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))

		assert.Equal(t, "PO-000001", doc.Number)
		assert.Equal(t, StatusDraft, doc.Status)
		assert.Contains(t, repo.orders, doc.ID)

		second := validOrder()
		require.NoError(t, svc.Create(ctx, second))
		assert.Equal(t, "PO-000002", second.Number)
	})

	t.Run("rejects order without product", func(t *testing.T) {
		svc, _ := newTestService()

		doc := validOrder()
		doc.ProductID = id.Nil()

		err := svc.Create(ctx, doc)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	})
}

func TestServiceChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("allowed transition", func(t *testing.T) {
		svc, _ := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))

		updated, err := svc.ChangeStatus(ctx, doc.ID, StatusScheduled)
		require.NoError(t, err)
		assert.Equal(t, StatusScheduled, updated.Status)
	})

	t.Run("skipping stages is rejected", func(t *testing.T) {
		svc, _ := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))

		_, err := svc.ChangeStatus(ctx, doc.ID, StatusReleased)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidTransition, appErr.Code)
	})

	t.Run("cancel from any active status", func(t *testing.T) {
		svc, _ := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))

		for _, target := range []Status{StatusScheduled, StatusInProduction} {
			_, err := svc.ChangeStatus(ctx, doc.ID, target)
			require.NoError(t, err)
		}

		updated, err := svc.ChangeStatus(ctx, doc.ID, StatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, StatusCancelled, updated.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.ChangeStatus(ctx, id.New(), StatusScheduled)
		assert.True(t, apperror.IsNotFound(err))
	})
}

func TestServiceSetBatchCode(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps rendered code", func(t *testing.T) {
		svc, repo := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))

		code := batch.Code{Prefix: "SFH25", Number: 45, NumberWidth: 3}
		require.NoError(t, svc.SetBatchCode(ctx, doc.ID, code))

		assert.Equal(t, "SFH25045", repo.orders[doc.ID].BatchCode)
	})

	t.Run("terminal order is rejected", func(t *testing.T) {
		svc, repo := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))
		repo.orders[doc.ID].Status = StatusCancelled

		code := batch.Code{Prefix: "SFH25", Number: 45, NumberWidth: 3}
		err := svc.SetBatchCode(ctx, doc.ID, code)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	})
}

func TestServiceCloneWithCode(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	doc := validOrder()
	doc.Comment = "campaign run"
	require.NoError(t, svc.Create(ctx, doc))

	base := batch.Code{Prefix: "SFH25", Number: 45, NumberWidth: 3}
	require.NoError(t, svc.SetBatchCode(ctx, doc.ID, base))

	next := batch.Code{Prefix: "SFH25", Number: 46, NumberWidth: 3}
	cloneID, err := svc.CloneWithCode(ctx, doc.ID, next)
	require.NoError(t, err)

	clone := repo.orders[cloneID]
	require.NotNil(t, clone)
	assert.Equal(t, "SFH25046", clone.BatchCode)
	assert.Equal(t, "PO-000002", clone.Number)
	assert.Equal(t, StatusDraft, clone.Status)
	assert.Equal(t, doc.Comment, clone.Comment)
	assert.True(t, doc.Quantity.Equal(clone.Quantity))

	// Source keeps its own code and number.
	assert.Equal(t, "SFH25045", repo.orders[doc.ID].BatchCode)
	assert.Equal(t, "PO-000001", repo.orders[doc.ID].Number)
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("draft can be deleted", func(t *testing.T) {
		svc, repo := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))
		require.NoError(t, svc.Delete(ctx, doc.ID))
		assert.NotContains(t, repo.orders, doc.ID)
	})

	t.Run("in-production order cannot be deleted", func(t *testing.T) {
		svc, repo := newTestService()

		doc := validOrder()
		require.NoError(t, svc.Create(ctx, doc))
		repo.orders[doc.ID].Status = StatusInProduction

		err := svc.Delete(ctx, doc.ID)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
	})
}

func TestServiceUpdateTerminal(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService()

	doc := validOrder()
	require.NoError(t, svc.Create(ctx, doc))
	repo.orders[doc.ID].Status = StatusReleased

	doc.Comment = "late edit"
	doc.Status = StatusReleased
	err := svc.Update(ctx, doc)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}
