// Package payments provides payment registration and the allocation
// reconciler that links payments to invoices.
package payments

import (
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

// NumberPrefix for generated payment numbers.
const NumberPrefix = "PAY"

// Direction of the cash movement.
type Direction string

const (
	// DirectionIncoming is money received from a customer
	DirectionIncoming Direction = "incoming"

	// DirectionOutgoing is money paid to a supplier
	DirectionOutgoing Direction = "outgoing"
)

// Payment is a registered cash movement. Like a journal entry it is created
// in its final state, atomically with its settlement entry, and never edited.
// What changes over time is its allocation to invoices.
type Payment struct {
	ID             id.ID       `db:"id" json:"id"`
	Number         string      `db:"number" json:"number"`
	Date           time.Time   `db:"date" json:"date"`
	CounterpartyID id.ID       `db:"counterparty_id" json:"counterpartyId"`
	Direction      Direction   `db:"direction" json:"direction"`
	Amount         types.Money `db:"amount" json:"amount"`
	JournalEntryID id.ID       `db:"journal_entry_id" json:"journalEntryId"`
	Comment        string      `db:"comment" json:"comment,omitempty"`
	CreatedAt      time.Time   `db:"created_at" json:"createdAt"`
}

// Allocation ties part of a payment to one invoice. The sum of a payment's
// allocations never exceeds its amount, and the sum of an invoice's
// allocations never exceeds its total.
type Allocation struct {
	ID        id.ID       `db:"id" json:"id"`
	PaymentID id.ID       `db:"payment_id" json:"paymentId"`
	InvoiceID id.ID       `db:"invoice_id" json:"invoiceId"`
	Amount    types.Money `db:"amount" json:"amount"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}
