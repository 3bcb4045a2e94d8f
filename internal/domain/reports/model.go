// Package reports provides read-side reporting: trial balance, stock
// valuation, and the cross-kind document journal.
package reports

import (
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

// TrialBalanceRow is one account's turnover totals.
type TrialBalanceRow struct {
	AccountID   id.ID       `db:"account_id" json:"accountId"`
	AccountCode string      `db:"account_code" json:"accountCode"`
	AccountName string      `db:"account_name" json:"accountName"`
	AccountType string      `db:"account_type" json:"accountType"`
	TotalDebit  types.Money `db:"total_debit" json:"totalDebit"`
	TotalCredit types.Money `db:"total_credit" json:"totalCredit"`
}

// TrialBalance aggregates journal line turnover per account. When every
// journal entry respects the balance invariant, TotalDebit == TotalCredit.
type TrialBalance struct {
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  types.Money       `json:"totalDebit"`
	TotalCredit types.Money       `json:"totalCredit"`
	Balanced    bool              `json:"balanced"`
}

// StockRow is one product's stock position and valuation.
type StockRow struct {
	ProductID      id.ID          `db:"product_id" json:"productId"`
	ProductCode    string         `db:"product_code" json:"productCode"`
	ProductName    string         `db:"product_name" json:"productName"`
	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`
	AverageCost    types.Money    `db:"average_cost" json:"averageCost"`
	StockValue     types.Money    `db:"stock_value" json:"stockValue"`
	MinStockLevel  types.Quantity `db:"min_stock_level" json:"minStockLevel"`
	LowStock       bool           `db:"low_stock" json:"lowStock"`
}

// StockReport lists stock positions with a total valuation.
type StockReport struct {
	Rows       []StockRow  `json:"rows"`
	TotalValue types.Money `json:"totalValue"`
}

// DocumentJournalRow is one document across all kinds.
type DocumentJournalRow struct {
	DocumentID       id.ID       `db:"document_id" json:"documentId"`
	Kind             string      `db:"kind" json:"kind"`
	Number           string      `db:"number" json:"number"`
	Date             time.Time   `db:"date" json:"date"`
	Status           string      `db:"status" json:"status"`
	CounterpartyName string      `db:"counterparty_name" json:"counterpartyName,omitempty"`
	Total            types.Money `db:"total" json:"total"`
	PaidAmount       types.Money `db:"paid_amount" json:"paidAmount"`
}

// JournalPeriod bounds a report to a date range. Zero bounds mean unbounded.
type JournalPeriod struct {
	From *time.Time
	To   *time.Time
}
