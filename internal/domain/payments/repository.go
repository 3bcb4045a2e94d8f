package payments

import (
	"context"
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
)

// Repository defines storage operations for payments and allocations.
type Repository interface {
	// CreatePayment inserts a payment.
	CreatePayment(ctx context.Context, p *Payment) error

	// GetPayment retrieves a payment.
	GetPayment(ctx context.Context, paymentID id.ID) (*Payment, error)

	// ListPayments retrieves payments with filtering.
	ListPayments(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error)

	// CreateAllocation inserts an allocation.
	CreateAllocation(ctx context.Context, a *Allocation) error

	// GetAllocation retrieves an allocation.
	GetAllocation(ctx context.Context, allocationID id.ID) (*Allocation, error)

	// DeleteAllocation removes an allocation.
	DeleteAllocation(ctx context.Context, allocationID id.ID) error

	// GetAllocationsByPayment lists a payment's allocations.
	GetAllocationsByPayment(ctx context.Context, paymentID id.ID) ([]Allocation, error)

	// GetAllocationsByInvoice lists an invoice's allocations.
	GetAllocationsByInvoice(ctx context.Context, invoiceID id.ID) ([]Allocation, error)

	// SumAllocationsByPayment folds the allocated amount of a payment.
	SumAllocationsByPayment(ctx context.Context, paymentID id.ID) (types.Money, error)

	// SumAllocationsByInvoice folds the allocated amount of an invoice.
	// This fold is the source of truth for invoice.paid_amount.
	SumAllocationsByInvoice(ctx context.Context, invoiceID id.ID) (types.Money, error)
}

// ListFilter for querying payments.
type ListFilter struct {
	domain.ListFilter

	CounterpartyID *id.ID
	Direction      *Direction
	DateFrom       *time.Time
	DateTo         *time.Time
}
