package accounts

import (
	"context"
	"fmt"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/tx"
	"minibooks/internal/domain"
)

// Service provides CRUD operations for the chart of accounts.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new accounts service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create adds an account to the chart of accounts.
func (s *Service) Create(ctx context.Context, account *Account) error {
	if err := account.Validate(ctx); err != nil {
		return err
	}

	exists, err := s.repo.ExistsByCode(ctx, account.Code)
	if err != nil {
		return fmt.Errorf("check code: %w", err)
	}
	if exists {
		return apperror.NewDuplicate("account", "code", account.Code)
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, account)
	})
}

// GetByID retrieves an account by ID.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("account", accountID.String())
		}
		return nil, err
	}
	return acc, nil
}

// GetByCode retrieves an account by its stable code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Account, error) {
	acc, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("account", code)
		}
		return nil, err
	}
	return acc, nil
}

// Update modifies an account. The code is a stable key and cannot change
// once journal lines reference the account.
func (s *Service) Update(ctx context.Context, account *Account) error {
	if err := account.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, account)
	})
}

// List retrieves accounts with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Account], error) {
	return s.repo.List(ctx, filter)
}
