package domaintest

import (
	"context"
	"sort"
	"sync"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
	"minibooks/internal/domain/payments"
)

// PaymentRepo is an in-memory payments.Repository.
type PaymentRepo struct {
	mu          sync.Mutex
	payments    map[id.ID]*payments.Payment
	allocations map[id.ID]*payments.Allocation
}

// NewPaymentRepo creates an empty payment fake.
func NewPaymentRepo() *PaymentRepo {
	return &PaymentRepo{
		payments:    make(map[id.ID]*payments.Payment),
		allocations: make(map[id.ID]*payments.Allocation),
	}
}

func (r *PaymentRepo) CreatePayment(_ context.Context, p *payments.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.payments[p.ID]; ok {
		return apperror.NewDuplicate("payment", "id", p.ID.String())
	}
	r.payments[p.ID] = p
	return nil
}

func (r *PaymentRepo) GetPayment(_ context.Context, paymentID id.ID) (*payments.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentID]
	if !ok {
		return nil, apperror.NewNotFound("payment", paymentID.String())
	}
	return p, nil
}

func (r *PaymentRepo) ListPayments(_ context.Context, filter payments.ListFilter) (domain.ListResult[*payments.Payment], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*payments.Payment, 0, len(r.payments))
	for _, p := range r.payments {
		if filter.CounterpartyID != nil && p.CounterpartyID != *filter.CounterpartyID {
			continue
		}
		if filter.Direction != nil && p.Direction != *filter.Direction {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Number < matched[j].Number
	})

	return domain.ListResult[*payments.Payment]{
		Items:      matched,
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func (r *PaymentRepo) CreateAllocation(_ context.Context, a *payments.Allocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.allocations[a.ID]; ok {
		return apperror.NewDuplicate("allocation", "id", a.ID.String())
	}
	r.allocations[a.ID] = a
	return nil
}

func (r *PaymentRepo) GetAllocation(_ context.Context, allocationID id.ID) (*payments.Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.allocations[allocationID]
	if !ok {
		return nil, apperror.NewNotFound("allocation", allocationID.String())
	}
	return a, nil
}

func (r *PaymentRepo) DeleteAllocation(_ context.Context, allocationID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.allocations[allocationID]; !ok {
		return apperror.NewNotFound("allocation", allocationID.String())
	}
	delete(r.allocations, allocationID)
	return nil
}

func (r *PaymentRepo) GetAllocationsByPayment(_ context.Context, paymentID id.ID) ([]payments.Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]payments.Allocation, 0)
	for _, a := range r.allocations {
		if a.PaymentID == paymentID {
			found = append(found, *a)
		}
	}
	return found, nil
}

func (r *PaymentRepo) GetAllocationsByInvoice(_ context.Context, invoiceID id.ID) ([]payments.Allocation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]payments.Allocation, 0)
	for _, a := range r.allocations {
		if a.InvoiceID == invoiceID {
			found = append(found, *a)
		}
	}
	return found, nil
}

func (r *PaymentRepo) SumAllocationsByPayment(_ context.Context, paymentID id.ID) (types.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := types.Zero()
	for _, a := range r.allocations {
		if a.PaymentID == paymentID {
			sum = sum.Add(a.Amount)
		}
	}
	return sum, nil
}

func (r *PaymentRepo) SumAllocationsByInvoice(_ context.Context, invoiceID id.ID) (types.Money, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sum := types.Zero()
	for _, a := range r.allocations {
		if a.InvoiceID == invoiceID {
			sum = sum.Add(a.Amount)
		}
	}
	return sum, nil
}
