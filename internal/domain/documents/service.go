package documents

import (
	"context"
	"fmt"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/numerator"
	"minibooks/internal/core/tx"
	"minibooks/internal/domain"
	"minibooks/pkg/logger"
)

// Service provides draft lifecycle operations for commercial documents.
// Posting and cancellation are owned by the posting engine; this service
// covers everything a document does while it is still editable.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new document service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{repo: repo, numerator: gen, txManager: txManager}
}

// Create persists a new draft, assigning its number from the per-kind series.
func (s *Service) Create(ctx context.Context, doc *Document) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}

	doc.RecalculateTotals()

	number, err := s.numerator.GetNextNumber(ctx,
		numerator.DefaultConfig(doc.Kind.NumberPrefix()),
		numerator.DefaultOptions(),
		doc.Date,
	)
	if err != nil {
		return fmt.Errorf("generate document number: %w", err)
	}
	doc.Number = number

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	logger.Info(ctx, "document created",
		"id", doc.ID,
		"kind", doc.Kind,
		"number", doc.Number,
	)

	return nil
}

// GetByID retrieves a document with its items.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Document, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("document", docID.String())
		}
		return nil, err
	}
	return doc, nil
}

// Update replaces the header and items of a draft. Posted and cancelled
// documents are immutable.
func (s *Service) Update(ctx context.Context, doc *Document) error {
	current, err := s.repo.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

	if err := current.CanModify(); err != nil {
		return err
	}

	if doc.Kind != current.Kind {
		return apperror.NewValidation("document kind cannot change").
			WithDetail("field", "kind")
	}

	if err := doc.Validate(ctx); err != nil {
		return err
	}

	doc.Number = current.Number
	doc.Status = current.Status
	doc.PaidAmount = current.PaidAmount
	doc.RecalculateTotals()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
}

// Delete removes a draft document. Posted documents cannot be deleted; they
// are cancelled instead so the audit trail survives.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	if err := doc.CanModify(); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
}

// List retrieves documents with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error) {
	return s.repo.List(ctx, filter)
}
