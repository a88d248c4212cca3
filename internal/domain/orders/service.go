// Package orders provides the ProductionOrder document service.
package orders

import (
	"context"
	"fmt"

	"galen/internal/core/apperror"
	"galen/internal/core/batch"
	"galen/internal/core/id"
	"galen/internal/core/tx"
	"galen/internal/domain"
	"galen/pkg/logger"
)

// Service provides business operations for production orders.
type Service struct {
	repo      Repository
	sequencer domain.CodeSequencer
	txManager tx.Manager
	hooks     *domain.HookRegistry[*ProductionOrder]
}

// NewService creates a new production order service.
func NewService(
	repo Repository,
	sequencer domain.CodeSequencer,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		sequencer: sequencer,
		txManager: txManager,
		hooks:     domain.NewHookRegistry[*ProductionOrder](),
	}
}

// Hooks returns the hook registry for registering callbacks.
func (s *Service) Hooks() *domain.HookRegistry[*ProductionOrder] {
	return s.hooks
}

// Create creates a new production order.
func (s *Service) Create(ctx context.Context, doc *ProductionOrder) error {
	// Run before-create hooks (for enrichment, validation, etc.)
	if err := s.hooks.RunBeforeCreate(ctx, doc); err != nil {
		return err
	}

	if doc.Status == "" {
		doc.Status = StatusDraft
	}

	// Validate
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	// Generate number if empty
	if doc.Number == "" {
		n, err := s.sequencer.Next(ctx, "order_number")
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		doc.Number = fmt.Sprintf("PO-%06d", n)
	}

	// Create in transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, doc); err != nil {
			return fmt.Errorf("create document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Run after-create hooks
	if err := s.hooks.RunAfterCreate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-create hook failed", "error", err)
	}

	logger.Info(ctx, "production order created",
		"id", doc.ID,
		"number", doc.Number)

	return nil
}

// GetByID retrieves a production order.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*ProductionOrder, error) {
	return s.repo.GetByID(ctx, docID)
}

// GetByNumber retrieves a production order by document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*ProductionOrder, error) {
	return s.repo.GetByNumber(ctx, number)
}

// GetByBatchCode retrieves the order carrying a rendered batch code.
func (s *Service) GetByBatchCode(ctx context.Context, code string) (*ProductionOrder, error) {
	return s.repo.GetByBatchCode(ctx, code)
}

// Update updates a production order.
func (s *Service) Update(ctx context.Context, doc *ProductionOrder) error {
	// Run before-update hooks
	if err := s.hooks.RunBeforeUpdate(ctx, doc); err != nil {
		return err
	}

	if doc.Status.IsTerminal() {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"released or cancelled orders cannot be modified").
			WithDetail("status", string(doc.Status))
	}

	// Validate
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	// Update in transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Update(ctx, doc); err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.hooks.RunAfterUpdate(ctx, doc); err != nil {
		logger.Warn(ctx, "after-update hook failed", "error", err)
	}

	return nil
}

// Delete soft-deletes a production order. Only drafts and cancelled
// orders can be deleted.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if doc.Status != StatusDraft && doc.Status != StatusCancelled {
		return apperror.NewBusinessRule(apperror.CodeBusinessRule,
			"only draft or cancelled orders can be deleted").
			WithDetail("status", string(doc.Status))
	}

	if err := s.hooks.RunBeforeDelete(ctx, doc); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, docID); err != nil {
		return err
	}

	if err := s.hooks.RunAfterDelete(ctx, doc); err != nil {
		logger.Warn(ctx, "after-delete hook failed", "error", err)
	}

	return nil
}

// List retrieves production orders with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*ProductionOrder], error) {
	return s.repo.List(ctx, filter)
}

// ChangeStatus moves an order to a new shop-floor status, validating
// the transition against the status machine.
func (s *Service) ChangeStatus(ctx context.Context, docID id.ID, target Status) (*ProductionOrder, error) {
	if !target.Valid() {
		return nil, apperror.NewValidation("invalid order status").
			WithDetail("field", "status").
			WithDetail("value", string(target))
	}

	var doc *ProductionOrder
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if !doc.Status.CanTransitionTo(target) {
			return apperror.NewInvalidTransition(string(doc.Status), string(target))
		}

		doc.Status = target
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "order status changed",
		"id", docID,
		"status", string(target))

	return doc, nil
}

// --- Batch allocation collaborators ---

// SetBatchCode stamps a rendered batch code onto an existing order.
func (s *Service) SetBatchCode(ctx context.Context, docID id.ID, code batch.Code) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.repo.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}

		if doc.Status.IsTerminal() {
			return apperror.NewBusinessRule(apperror.CodeBusinessRule,
				"cannot assign a batch code to a released or cancelled order").
				WithDetail("status", string(doc.Status))
		}

		doc.BatchCode = code.String()
		return s.repo.Update(ctx, doc)
	})
}

// CloneWithCode creates a copy of an order carrying the given batch
// code and a fresh document number. Returns the new order's ID.
func (s *Service) CloneWithCode(ctx context.Context, docID id.ID, code batch.Code) (id.ID, error) {
	source, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return id.Nil(), err
	}

	clone := source.Clone()
	clone.BatchCode = code.String()

	n, err := s.sequencer.Next(ctx, "order_number")
	if err != nil {
		return id.Nil(), fmt.Errorf("generate number: %w", err)
	}
	clone.Number = fmt.Sprintf("PO-%06d", n)

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, clone)
	})
	if err != nil {
		return id.Nil(), err
	}

	logger.Info(ctx, "order cloned for batch fan-out",
		"sourceId", docID,
		"cloneId", clone.ID,
		"batchCode", clone.BatchCode)

	return clone.ID, nil
}
