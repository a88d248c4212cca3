package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/id"
	"galen/internal/domain/batchalloc"
	"galen/internal/domain/orders"
	"galen/internal/infrastructure/http/v1/dto"
	"galen/internal/infrastructure/storage/postgres"
	"galen/pkg/logger"
)

// BatchHandler handles batch-code allocation endpoints.
type BatchHandler struct {
	*BaseHandler
	allocator *batchalloc.Allocator
	orders    *orders.Service
	audit     *postgres.AuditService
}

// NewBatchHandler creates a new batch allocation handler.
func NewBatchHandler(base *BaseHandler, allocator *batchalloc.Allocator, orderService *orders.Service, audit *postgres.AuditService) *BatchHandler {
	return &BatchHandler{
		BaseHandler: base,
		allocator:   allocator,
		orders:      orderService,
		audit:       audit,
	}
}

// Allocate handles POST /orders/:id/batch.
//
// The request input is a single code fragment or an inclusive range.
// The first code is stamped onto the order; each further code produces
// a cloned order. On a partial failure the error response carries the
// codes that were created so the operator can see what exists.
func (h *BatchHandler) Allocate(c *gin.Context) {
	ctx := c.Request.Context()

	docID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.AllocateBatchRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.orders.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	outcome, err := h.allocator.Allocate(ctx, docID, req.Input, doc.Category)

	// Codes issued before a failure are real database rows, so they get
	// audited whether or not the call as a whole succeeded.
	if h.audit != nil && len(outcome.Codes) > 0 {
		if auditErr := h.audit.LogChange(ctx, "production_order", docID,
			postgres.AuditActionAllocate,
			map[string]any{
				"input": req.Input,
				"codes": outcome.CodeStrings(),
			}); auditErr != nil {
			logger.Warn(ctx, "audit log failed", "error", auditErr)
		}
	}

	if err != nil {
		if len(outcome.Codes) == 0 {
			h.Error(c, err)
			return
		}
		// Render what was created alongside the error so the operator
		// can see which orders already carry a code.
		appErr, ok := apperror.AsAppError(err)
		if !ok {
			appErr = apperror.NewInternal(err)
		}
		c.JSON(appErr.HTTPStatus, gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
			"details": appErr.Details,
			"outcome": dto.FromOutcome(outcome),
		})
		return
	}

	c.JSON(http.StatusOK, dto.FromOutcome(outcome))
}

// NextCode handles GET /batch/next?category=human.
func (h *BatchHandler) NextCode(c *gin.Context) {
	ctx := c.Request.Context()

	category := batch.Category(c.Query("category"))

	code, err := h.allocator.SuggestNext(ctx, category)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NextCodeResponse{
		Category: category,
		Code:     code.String(),
	})
}
