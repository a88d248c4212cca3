package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/clock"
	"galen/internal/core/id"
	"galen/internal/domain"
	"galen/internal/domain/batchalloc"
	"galen/internal/domain/orders"
	"galen/internal/infrastructure/http/v1/middleware"
)

// memOrderRepo is an in-memory production order repository.
type memOrderRepo struct {
	docs map[id.ID]*orders.ProductionOrder
}

func newMemOrderRepo(docs ...*orders.ProductionOrder) *memOrderRepo {
	r := &memOrderRepo{docs: make(map[id.ID]*orders.ProductionOrder)}
	for _, doc := range docs {
		r.docs[doc.ID] = doc
	}
	return r
}

func (r *memOrderRepo) Create(_ context.Context, doc *orders.ProductionOrder) error {
	r.docs[doc.ID] = doc
	return nil
}

func (r *memOrderRepo) GetByID(_ context.Context, docID id.ID) (*orders.ProductionOrder, error) {
	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("production order", docID.String())
	}
	return doc, nil
}

func (r *memOrderRepo) GetByNumber(_ context.Context, number string) (*orders.ProductionOrder, error) {
	for _, doc := range r.docs {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("production order", number)
}

func (r *memOrderRepo) GetByBatchCode(_ context.Context, code string) (*orders.ProductionOrder, error) {
	for _, doc := range r.docs {
		if doc.BatchCode == code {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("production order", code)
}

func (r *memOrderRepo) Update(_ context.Context, doc *orders.ProductionOrder) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("production order", doc.ID.String())
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, docID id.ID) error {
	delete(r.docs, docID)
	return nil
}

func (r *memOrderRepo) List(context.Context, orders.ListFilter) (domain.ListResult[*orders.ProductionOrder], error) {
	return domain.ListResult[*orders.ProductionOrder]{}, nil
}

func (r *memOrderRepo) GetForUpdate(ctx context.Context, docID id.ID) (*orders.ProductionOrder, error) {
	return r.GetByID(ctx, docID)
}

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubSequencer struct{ last int64 }

func (s *stubSequencer) Next(context.Context, string) (int64, error) {
	s.last++
	return s.last, nil
}

// stuckCounterStore reads normally but rejects every advance.
type stuckCounterStore struct{}

func (stuckCounterStore) GetLastIssued(context.Context, batch.Category) (batch.Code, bool, error) {
	return batch.Code{}, false, nil
}

func (stuckCounterStore) Advance(context.Context, batch.Category, batch.Code) error {
	return errors.New("counter write failed")
}

func newBatchTestRouter(repo *memOrderRepo, counters batchalloc.CounterStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	svc := orders.NewService(repo, &stubSequencer{}, passthroughTx{})
	alloc := batchalloc.New(batchalloc.Config{
		Counters: counters,
		Orders:   svc,
		Clock:    clock.NewFixed(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)),
	})
	h := NewBatchHandler(NewBaseHandler(), alloc, svc, nil)

	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/orders/:id/batch", h.Allocate)
	return r
}

func allocateBatch(t *testing.T, router *gin.Engine, orderID id.ID, input string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]string{"input": input})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/batch", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAllocateEndpointStampsCodes(t *testing.T) {
	doc := orders.NewProductionOrder(id.New(), id.New(), batch.CategoryHuman)
	repo := newMemOrderRepo(doc)
	router := newBatchTestRouter(repo, batchalloc.NewMemoryCounterStore())

	w := allocateBatch(t, router, doc.ID, "045-046")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Codes          []string `json:"codes"`
		PrimaryOrderID string   `json:"primaryOrderId"`
		ClonedOrderIDs []string `json:"clonedOrderIds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"SFH25045", "SFH25046"}, resp.Codes)
	assert.Equal(t, doc.ID.String(), resp.PrimaryOrderID)
	assert.Len(t, resp.ClonedOrderIDs, 1)
}

func TestAllocateEndpointErrorBodyCarriesPartialOutcome(t *testing.T) {
	doc := orders.NewProductionOrder(id.New(), id.New(), batch.CategoryHuman)
	repo := newMemOrderRepo(doc)
	router := newBatchTestRouter(repo, stuckCounterStore{})

	// Codes get stamped before the counter write fails, so the error
	// body must enumerate what was created.
	w := allocateBatch(t, router, doc.ID, "045-046")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp struct {
		Code    string `json:"code"`
		Outcome *struct {
			Codes          []string `json:"codes"`
			ClonedOrderIDs []string `json:"clonedOrderIds"`
		} `json:"outcome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, apperror.CodeInternal, resp.Code)
	require.NotNil(t, resp.Outcome)
	assert.Equal(t, []string{"SFH25045", "SFH25046"}, resp.Outcome.Codes)
	assert.Len(t, resp.Outcome.ClonedOrderIDs, 1)

	// The orders really carry the codes.
	assert.Equal(t, "SFH25045", repo.docs[doc.ID].BatchCode)
	_, err := repo.GetByBatchCode(context.Background(), "SFH25046")
	assert.NoError(t, err)
}

func TestAllocateEndpointErrorWithoutCodesHasNoOutcome(t *testing.T) {
	doc := orders.NewProductionOrder(id.New(), id.New(), batch.CategoryHuman)
	repo := newMemOrderRepo(doc)
	router := newBatchTestRouter(repo, batchalloc.NewMemoryCounterStore())

	w := allocateBatch(t, router, doc.ID, "A045")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, "code")
	assert.NotContains(t, resp, "outcome")
	assert.Equal(t, "", repo.docs[doc.ID].BatchCode)
}
