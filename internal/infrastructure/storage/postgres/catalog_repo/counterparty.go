package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/infrastructure/storage/postgres"
)

const counterpartiesTable = "counterparties"

// CounterpartyRepo is the PostgreSQL repository for counterparties.
type CounterpartyRepo struct {
	*BaseCatalogRepo[*counterparty.Counterparty]
	txManager *postgres.TxManager
}

var _ counterparty.Repository = (*CounterpartyRepo)(nil)

// NewCounterpartyRepo creates a counterparty repository.
func NewCounterpartyRepo(txManager *postgres.TxManager) *CounterpartyRepo {
	return &CounterpartyRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			counterpartiesTable,
			postgres.ExtractDBColumns[counterparty.Counterparty](),
			func() *counterparty.Counterparty { return &counterparty.Counterparty{} },
		),
		txManager: txManager,
	}
}

// AdjustBalance applies a signed delta to the running balance in a single
// UPDATE, so concurrent postings and payments cannot lose increments.
func (r *CounterpartyRepo) AdjustBalance(ctx context.Context, counterpartyID id.ID, delta types.Money) error {
	sql, args, err := r.Builder().
		Update(counterpartiesTable).
		Set("balance", squirrel.Expr("balance + ?", delta)).
		Where(squirrel.Eq{"id": counterpartyID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(counterpartiesTable, counterpartyID.String())
	}

	return nil
}
