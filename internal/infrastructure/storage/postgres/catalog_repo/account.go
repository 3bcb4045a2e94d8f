package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/domain/accounts"
	"minibooks/internal/infrastructure/storage/postgres"
)

const accountsTable = "accounts"

// AccountRepo is the PostgreSQL repository for the chart of accounts.
type AccountRepo struct {
	*BaseCatalogRepo[*accounts.Account]
	txManager *postgres.TxManager
}

var _ accounts.Repository = (*AccountRepo)(nil)

// NewAccountRepo creates an account repository.
func NewAccountRepo(txManager *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			accountsTable,
			postgres.ExtractDBColumns[accounts.Account](),
			func() *accounts.Account { return &accounts.Account{} },
		),
		txManager: txManager,
	}
}

// GetByCodes retrieves accounts for a set of codes in one query. Missing
// codes are absent from the result map; the resolver decides what that means.
func (r *AccountRepo) GetByCodes(ctx context.Context, codes []string) (map[string]*accounts.Account, error) {
	result := make(map[string]*accounts.Account, len(codes))
	if len(codes) == 0 {
		return result, nil
	}

	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"code": codes}).
		Where(squirrel.Eq{"deletion_mark": false}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*accounts.Account
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("get accounts by codes: %w", err)
	}

	for _, acc := range rows {
		result[acc.Code] = acc
	}
	return result, nil
}
