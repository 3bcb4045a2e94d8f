package counterparty

import (
	"context"
	"fmt"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/tx"
	"minibooks/internal/domain"
)

// Service provides CRUD operations for counterparties.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new counterparty service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create adds a counterparty.
func (s *Service) Create(ctx context.Context, c *Counterparty) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, c.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("counterparty", "code", c.Code)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, c)
	})
}

// GetByID retrieves a counterparty.
func (s *Service) GetByID(ctx context.Context, counterpartyID id.ID) (*Counterparty, error) {
	c, err := s.repo.GetByID(ctx, counterpartyID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("counterparty", counterpartyID.String())
		}
		return nil, err
	}
	return c, nil
}

// Update modifies catalog fields. Balance is owned by posting and payment
// settlement and is deliberately not writable here.
func (s *Service) Update(ctx context.Context, c *Counterparty) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	c.Balance = current.Balance

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, c)
	})
}

// Delete soft-deletes a counterparty.
func (s *Service) Delete(ctx context.Context, counterpartyID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.SetDeletionMark(ctx, counterpartyID, true)
	})
}

// List retrieves counterparties with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Counterparty], error) {
	return s.repo.List(ctx, filter)
}
