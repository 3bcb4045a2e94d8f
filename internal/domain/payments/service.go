package payments

import (
	"context"
	"fmt"
	"time"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/numerator"
	"minibooks/internal/core/tx"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
	"minibooks/pkg/logger"
)

// Service is the payment allocation reconciler. It registers payments with
// their settlement journal entries and keeps invoice.paid_amount equal to the
// fold over allocations after every allocation-table mutation.
type Service struct {
	repo           Repository
	docs           documents.Repository
	counterparties counterparty.Repository
	resolver       *accounts.Resolver
	journal        *journal.Service
	numerator      numerator.Generator
	txManager      tx.Manager
}

// NewService creates a payment service.
func NewService(
	repo Repository,
	docs documents.Repository,
	counterparties counterparty.Repository,
	resolver *accounts.Resolver,
	journalSvc *journal.Service,
	gen numerator.Generator,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:           repo,
		docs:           docs,
		counterparties: counterparties,
		resolver:       resolver,
		journal:        journalSvc,
		numerator:      gen,
		txManager:      txManager,
	}
}

// CreateAndAllocate registers a payment against a single invoice and
// allocates the full amount to it.
//
// Requires 0 < amount <= invoice.total - invoice.paid_amount. Posts the
// settlement entry (debit cash / credit customers for incoming, the mirror
// for suppliers), creates the payment and its allocation, moves the
// counterparty balance, and recomputes the invoice's paid amount, all in one
// transaction.
func (s *Service) CreateAndAllocate(ctx context.Context, counterpartyID id.ID, amount types.Money, invoiceID id.ID) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("payment amount must be positive").
			WithDetail("field", "amount")
	}
	amount = types.RoundMoney(amount)

	var payment *Payment

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		invoice, err := s.lockInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		if invoice.CounterpartyID == nil || *invoice.CounterpartyID != counterpartyID {
			return apperror.NewValidation("invoice belongs to a different counterparty").
				WithDetail("invoice_id", invoiceID.String())
		}

		if amount.GreaterThan(invoice.Remaining()) {
			return apperror.NewAllocationLimit(
				fmt.Sprintf("payment of %s exceeds the invoice's remaining %s",
					amount.String(), invoice.Remaining().String()),
			)
		}

		direction := DirectionIncoming
		if invoice.Kind == documents.KindPurchaseInvoice {
			direction = DirectionOutgoing
		}

		entryID, err := s.postSettlement(ctx, direction, amount)
		if err != nil {
			return err
		}

		number, err := s.numerator.GetNextNumber(ctx,
			numerator.DefaultConfig(NumberPrefix), numerator.DefaultOptions(), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("generate payment number: %w", err)
		}

		payment = &Payment{
			ID:             id.New(),
			Number:         number,
			Date:           time.Now().UTC(),
			CounterpartyID: counterpartyID,
			Direction:      direction,
			Amount:         amount,
			JournalEntryID: entryID,
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.repo.CreatePayment(ctx, payment); err != nil {
			return fmt.Errorf("create payment: %w", err)
		}

		allocation := &Allocation{
			ID:        id.New(),
			PaymentID: payment.ID,
			InvoiceID: invoice.ID,
			Amount:    amount,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repo.CreateAllocation(ctx, allocation); err != nil {
			return fmt.Errorf("create allocation: %w", err)
		}

		// A payment reduces what the counterparty owes (or is owed).
		if err := s.counterparties.AdjustBalance(ctx, counterpartyID, amount.Neg()); err != nil {
			return fmt.Errorf("adjust counterparty balance: %w", err)
		}

		return s.recomputePaidAmount(ctx, invoice.ID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment created and allocated",
		"id", payment.ID,
		"number", payment.Number,
		"amount", amount.String(),
		"invoice_id", invoiceID,
	)

	return payment, nil
}

// LinkExisting allocates part of an existing payment to an invoice.
//
// Requires 0 < amount <= min(payment remaining, invoice remaining). The cash
// movement and the counterparty balance were settled when the payment was
// created, so only the allocation table and the invoice's paid amount change.
func (s *Service) LinkExisting(ctx context.Context, paymentID, invoiceID id.ID, amount types.Money) (*Allocation, error) {
	if !amount.IsPositive() {
		return nil, apperror.NewValidation("allocation amount must be positive").
			WithDetail("field", "amount")
	}
	amount = types.RoundMoney(amount)

	var allocation *Allocation

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.repo.GetPayment(ctx, paymentID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("payment", paymentID.String())
			}
			return err
		}

		invoice, err := s.lockInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}

		if invoice.CounterpartyID == nil || *invoice.CounterpartyID != payment.CounterpartyID {
			return apperror.NewValidation("invoice belongs to a different counterparty").
				WithDetail("invoice_id", invoiceID.String()).
				WithDetail("payment_id", paymentID.String())
		}

		allocated, err := s.repo.SumAllocationsByPayment(ctx, paymentID)
		if err != nil {
			return fmt.Errorf("sum payment allocations: %w", err)
		}

		paymentRemaining := payment.Amount.Sub(allocated)
		limit := types.MinMoney(paymentRemaining, invoice.Remaining())
		if amount.GreaterThan(limit) {
			return apperror.NewAllocationLimit(
				fmt.Sprintf("allocation of %s exceeds the available %s "+
					"(payment remaining %s, invoice remaining %s)",
					amount.String(), limit.String(),
					paymentRemaining.String(), invoice.Remaining().String()),
			)
		}

		allocation = &Allocation{
			ID:        id.New(),
			PaymentID: paymentID,
			InvoiceID: invoiceID,
			Amount:    amount,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.repo.CreateAllocation(ctx, allocation); err != nil {
			return fmt.Errorf("create allocation: %w", err)
		}

		return s.recomputePaidAmount(ctx, invoiceID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "payment linked to invoice",
		"payment_id", paymentID,
		"invoice_id", invoiceID,
		"amount", amount.String(),
	)

	return allocation, nil
}

// Unlink removes an allocation and recomputes the invoice's paid amount.
// The payment, its journal entry, and the counterparty balance stay as they
// are; unlinking only frees the amount for reallocation.
func (s *Service) Unlink(ctx context.Context, allocationID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		allocation, err := s.repo.GetAllocation(ctx, allocationID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("allocation", allocationID.String())
			}
			return err
		}

		if err := s.repo.DeleteAllocation(ctx, allocationID); err != nil {
			return fmt.Errorf("delete allocation: %w", err)
		}

		return s.recomputePaidAmount(ctx, allocation.InvoiceID)
	})
}

// GetPayment retrieves a payment.
func (s *Service) GetPayment(ctx context.Context, paymentID id.ID) (*Payment, error) {
	p, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID.String())
		}
		return nil, err
	}
	return p, nil
}

// ListPayments retrieves payments with filtering.
func (s *Service) ListPayments(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error) {
	return s.repo.ListPayments(ctx, filter)
}

// GetAllocationsByInvoice lists an invoice's allocations.
func (s *Service) GetAllocationsByInvoice(ctx context.Context, invoiceID id.ID) ([]Allocation, error) {
	return s.repo.GetAllocationsByInvoice(ctx, invoiceID)
}

// GetAllocationsByPayment lists a payment's allocations.
func (s *Service) GetAllocationsByPayment(ctx context.Context, paymentID id.ID) ([]Allocation, error) {
	return s.repo.GetAllocationsByPayment(ctx, paymentID)
}

// lockInvoice loads an invoice row with a lock and verifies it can receive
// allocations: it must be a posted sales or purchase invoice.
func (s *Service) lockInvoice(ctx context.Context, invoiceID id.ID) (*documents.Document, error) {
	invoice, err := s.docs.GetForUpdate(ctx, invoiceID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("invoice", invoiceID.String())
		}
		return nil, err
	}

	if !invoice.Kind.IsInvoice() {
		return nil, apperror.NewValidation("payments can only be allocated to invoices").
			WithDetail("document_id", invoiceID.String()).
			WithDetail("kind", string(invoice.Kind))
	}

	if !invoice.IsPosted() {
		return nil, apperror.NewBusinessRule(
			apperror.CodeBusinessRule,
			"Payments can only be allocated to posted invoices.",
		).WithDetail("document_id", invoiceID.String()).
			WithDetail("status", string(invoice.Status))
	}

	return invoice, nil
}

// postSettlement creates the cash-side journal entry for a new payment.
func (s *Service) postSettlement(ctx context.Context, direction Direction, amount types.Money) (id.ID, error) {
	var lines []journal.Line
	var description string

	switch direction {
	case DirectionIncoming:
		accts, err := s.resolver.Resolve(ctx, accounts.CodeCash, accounts.CodeCustomers)
		if err != nil {
			return id.Nil(), err
		}
		lines = []journal.Line{
			journal.DebitLine(accts[accounts.CodeCash].ID, amount),
			journal.CreditLine(accts[accounts.CodeCustomers].ID, amount),
		}
		description = "Customer payment"
	case DirectionOutgoing:
		accts, err := s.resolver.Resolve(ctx, accounts.CodeSuppliers, accounts.CodeCash)
		if err != nil {
			return id.Nil(), err
		}
		lines = []journal.Line{
			journal.DebitLine(accts[accounts.CodeSuppliers].ID, amount),
			journal.CreditLine(accts[accounts.CodeCash].ID, amount),
		}
		description = "Supplier payment"
	}

	entry, err := s.journal.Post(ctx, time.Now().UTC(), description, lines)
	if err != nil {
		return id.Nil(), err
	}

	return entry.ID, nil
}

// recomputePaidAmount overwrites invoice.paid_amount with the allocation
// fold. Called after every allocation mutation so the cache never drifts.
func (s *Service) recomputePaidAmount(ctx context.Context, invoiceID id.ID) error {
	sum, err := s.repo.SumAllocationsByInvoice(ctx, invoiceID)
	if err != nil {
		return fmt.Errorf("sum invoice allocations: %w", err)
	}

	if err := s.docs.UpdatePaidAmount(ctx, invoiceID, sum); err != nil {
		return fmt.Errorf("update paid amount: %w", err)
	}

	return nil
}
