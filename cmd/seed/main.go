// Package main provides a CLI tool for seeding the database with the
// default chart of accounts.
package main

import (
	"context"
	"fmt"
	"os"

	"minibooks/internal/core/apperror"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/infrastructure/storage/postgres"
	"minibooks/internal/infrastructure/storage/postgres/catalog_repo"
	"minibooks/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("MINIBOOKS_DATABASE_URL")
	if dbURL == "" {
		log.Fatal("MINIBOOKS_DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	repo := catalog_repo.NewAccountRepo(txManager)
	service := accounts.NewService(repo, txManager)

	if err := seedChartOfAccounts(ctx, service, log); err != nil {
		log.Fatalw("failed to seed chart of accounts", "error", err)
	}

	log.Info("seeding completed successfully")
}

// seedChartOfAccounts creates the well-known accounts document posting
// resolves by code. Existing accounts are left alone, so the tool is safe to
// run repeatedly.
func seedChartOfAccounts(ctx context.Context, service *accounts.Service, log *logger.Logger) error {
	defaults := []struct {
		code string
		name string
		typ  accounts.AccountType
	}{
		{accounts.CodeCash, "Cash", accounts.TypeAsset},
		{accounts.CodeCustomers, "Accounts Receivable", accounts.TypeAsset},
		{accounts.CodeInventory, "Inventory", accounts.TypeAsset},
		{accounts.CodeSuppliers, "Accounts Payable", accounts.TypeLiability},
		{accounts.CodeRevenue, "Sales Revenue", accounts.TypeRevenue},
		{accounts.CodeInventoryGain, "Inventory Gain", accounts.TypeRevenue},
		{accounts.CodeCOGS, "Cost of Goods Sold", accounts.TypeExpense},
		{accounts.CodeInventoryLoss, "Inventory Loss", accounts.TypeExpense},
	}

	for _, d := range defaults {
		acc := accounts.NewAccount(d.code, d.name, d.typ)
		if err := service.Create(ctx, acc); err != nil {
			if apperror.IsCode(err, apperror.CodeDuplicate) {
				log.Infow("account already exists", "code", d.code)
				continue
			}
			return fmt.Errorf("create account %s: %w", d.code, err)
		}
		log.Infow("account created", "code", d.code, "name", d.name)
	}

	return nil
}
