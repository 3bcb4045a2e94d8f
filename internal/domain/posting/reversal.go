package posting

import (
	"context"
	"fmt"
	"time"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
	"minibooks/pkg/logger"
)

// Cancel transitions a posted invoice to the terminal cancelled state.
//
// The original journal entry stays untouched; a mirror entry with every
// debit and credit swapped undoes its effect, dated at cancellation time.
// The document's inventory movements are deleted from the register, stock and
// counterparty balance return to their pre-posting values. Cancellation is
// one-shot: a cancelled document cannot be re-posted or re-cancelled.
func (e *Engine) Cancel(ctx context.Context, docID id.ID) (*documents.Document, error) {
	var doc *documents.Document

	err := e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = e.docs.GetForUpdate(ctx, docID)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("document", docID.String())
			}
			return err
		}

		if !doc.Kind.Cancellable() {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"Documents of this kind cannot be cancelled.",
			).WithDetail("document_id", doc.ID.String()).
				WithDetail("kind", string(doc.Kind))
		}

		if doc.Status != entity.StatusPosted {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"Only posted documents can be cancelled.",
			).WithDetail("document_id", doc.ID.String()).
				WithDetail("status", string(doc.Status))
		}

		// An allocation against a cancelled invoice would settle a debt the
		// reversal just erased. The allocations must be unlinked first.
		if doc.PaidAmount.IsPositive() {
			return apperror.NewBusinessRule(
				apperror.CodeBusinessRule,
				"Invoices with payment allocations cannot be cancelled; unlink the allocations first.",
			).WithDetail("document_id", doc.ID.String()).
				WithDetail("paid_amount", doc.PaidAmount.String())
		}

		movements, err := e.register.GetByRecorder(ctx, doc.ID)
		if err != nil {
			return fmt.Errorf("get movements: %w", err)
		}

		// Stock comes back by negating each recorded movement, so the undo
		// follows what was actually posted rather than the current items.
		for _, m := range movements {
			if err := e.products.AdjustQuantity(ctx, m.ProductID, m.Quantity.Neg()); err != nil {
				return fmt.Errorf("restore stock quantity: %w", err)
			}
		}

		if err := e.register.DeleteByRecorder(ctx, doc.ID); err != nil {
			return err
		}

		if doc.CounterpartyID != nil {
			delta := postedBalanceDelta(doc)
			if !delta.IsZero() {
				if err := e.counterparties.AdjustBalance(ctx, *doc.CounterpartyID, delta.Neg()); err != nil {
					return fmt.Errorf("restore counterparty balance: %w", err)
				}
			}
		}

		if doc.JournalEntryID != nil {
			lines, err := e.journal.GetLines(ctx, *doc.JournalEntryID)
			if err != nil {
				return fmt.Errorf("get journal lines: %w", err)
			}

			mirror := journal.BuildReversal(lines)
			description := fmt.Sprintf("Reversal of %s", doc.Number)
			if _, err := e.journal.Post(ctx, time.Now().UTC(), description, mirror); err != nil {
				return err
			}
		}

		doc.MarkCancelled()
		if err := e.docs.UpdateStatus(ctx, doc); err != nil {
			return fmt.Errorf("update document status: %w", err)
		}

		if err := e.auditor.Record(ctx, "cancel", doc); err != nil {
			logger.Warn(ctx, "audit record failed", "document_id", doc.ID, "error", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document cancelled",
		"id", doc.ID,
		"kind", doc.Kind,
		"number", doc.Number,
	)

	return doc, nil
}

// postedBalanceDelta returns the balance change the original posting applied
// to the counterparty. Only invoices are cancellable, so only their deltas
// are needed here.
func postedBalanceDelta(doc *documents.Document) types.Money {
	switch doc.Kind {
	case documents.KindSalesInvoice:
		return doc.Subtotal
	case documents.KindPurchaseInvoice:
		return doc.Total
	}
	return types.Zero()
}
