// Package journal provides the double-entry journal generator.
package journal

import (
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

// Entry is a journal entry header. Entries are created posted, atomically
// with their lines, and are immutable thereafter: the only way to undo one
// is a reversing entry with debits and credits swapped.
type Entry struct {
	ID          id.ID       `db:"id" json:"id"`
	Number      string      `db:"number" json:"number"`
	Date        time.Time   `db:"date" json:"date"`
	Description string      `db:"description" json:"description"`
	TotalDebit  types.Money `db:"total_debit" json:"totalDebit"`
	TotalCredit types.Money `db:"total_credit" json:"totalCredit"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`

	Lines []Line `db:"-" json:"lines,omitempty"`
}

// Line is one leg of a journal entry. Exactly one of Debit/Credit is
// non-zero; both are always >= 0.
type Line struct {
	LineID    id.ID       `db:"line_id" json:"lineId"`
	EntryID   id.ID       `db:"entry_id" json:"entryId"`
	LineNo    int         `db:"line_no" json:"lineNo"`
	AccountID id.ID       `db:"account_id" json:"accountId"`
	Debit     types.Money `db:"debit" json:"debit"`
	Credit    types.Money `db:"credit" json:"credit"`
}

// DebitLine builds a debit leg.
func DebitLine(accountID id.ID, amount types.Money) Line {
	return Line{AccountID: accountID, Debit: amount, Credit: types.Zero()}
}

// CreditLine builds a credit leg.
func CreditLine(accountID id.ID, amount types.Money) Line {
	return Line{AccountID: accountID, Debit: types.Zero(), Credit: amount}
}

// BuildReversal returns mirror lines with every debit and credit swapped.
// Used by the cancellation engine to undo a posted document's accounting
// effect without deleting history.
func BuildReversal(lines []Line) []Line {
	mirrored := make([]Line, 0, len(lines))
	for _, l := range lines {
		mirrored = append(mirrored, Line{
			AccountID: l.AccountID,
			Debit:     l.Credit,
			Credit:    l.Debit,
		})
	}
	return mirrored
}
