package dto

import (
	"minibooks/internal/core/types"
)

// CreatePaymentRequest registers a payment and allocates it to one invoice
// in a single operation.
type CreatePaymentRequest struct {
	CounterpartyID string      `json:"counterpartyId" binding:"required"`
	InvoiceID      string      `json:"invoiceId" binding:"required"`
	Amount         types.Money `json:"amount" binding:"required"`
}

// LinkAllocationRequest allocates part of an existing payment to an invoice.
type LinkAllocationRequest struct {
	InvoiceID string      `json:"invoiceId" binding:"required"`
	Amount    types.Money `json:"amount" binding:"required"`
}
