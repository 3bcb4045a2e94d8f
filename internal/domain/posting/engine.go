package posting

import (
	"context"
	"fmt"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/tx"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/catalogs/product"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
	"minibooks/internal/domain/registers/inventory"
	"minibooks/pkg/logger"
)

// Auditor records posting and cancellation events for the audit trail.
// Audit failures are logged, never fatal to the business transaction.
type Auditor interface {
	Record(ctx context.Context, action string, doc *documents.Document) error
}

// NopAuditor discards audit events.
type NopAuditor struct{}

func (NopAuditor) Record(_ context.Context, _ string, _ *documents.Document) error { return nil }

// Engine drives the draft -> posted -> cancelled state machine. It is the
// only writer of posted-state side effects: journal entries, inventory
// movements, stock quantities, and counterparty balances all change together
// in one transaction or not at all.
type Engine struct {
	docs           documents.Repository
	products       product.Repository
	counterparties counterparty.Repository
	resolver       *accounts.Resolver
	journal        *journal.Service
	register       *inventory.Service
	txManager      tx.Manager
	auditor        Auditor
}

// NewEngine creates a posting engine.
func NewEngine(
	docs documents.Repository,
	products product.Repository,
	counterparties counterparty.Repository,
	resolver *accounts.Resolver,
	journalSvc *journal.Service,
	register *inventory.Service,
	txManager tx.Manager,
	auditor Auditor,
) *Engine {
	if auditor == nil {
		auditor = NopAuditor{}
	}
	return &Engine{
		docs:           docs,
		products:       products,
		counterparties: counterparties,
		resolver:       resolver,
		journal:        journalSvc,
		register:       register,
		txManager:      txManager,
		auditor:        auditor,
	}
}

// requiredAccountCodes lists the well-known accounts a document kind posts to.
func requiredAccountCodes(kind documents.Kind) []string {
	switch kind {
	case documents.KindSalesInvoice:
		return []string{accounts.CodeCustomers, accounts.CodeRevenue, accounts.CodeCOGS, accounts.CodeInventory}
	case documents.KindPurchaseInvoice:
		return []string{accounts.CodeInventory, accounts.CodeSuppliers}
	case documents.KindSalesReturn:
		return []string{accounts.CodeRevenue, accounts.CodeCustomers, accounts.CodeInventory, accounts.CodeCOGS}
	case documents.KindPurchaseReturn:
		return []string{accounts.CodeSuppliers, accounts.CodeInventory}
	case documents.KindAdjustment:
		return []string{accounts.CodeInventoryLoss, accounts.CodeInventoryGain, accounts.CodeInventory}
	}
	return nil
}

// Post transitions a draft document to posted.
//
// The whole transition runs in one transaction: the document row is locked,
// the side-effect plan is built (stock checks and average-cost capture happen
// here, against locked product rows), then the journal entry, inventory
// movements, stock deltas, counterparty balance, and document status are
// written together. Any failure aborts everything.
func (e *Engine) Post(ctx context.Context, docID id.ID) (*documents.Document, error) {
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

		if doc.Status != entity.StatusDraft {
			return apperror.NewBusinessRule(
				apperror.CodeDocumentPosted,
				"Only draft documents can be posted.",
			).WithDetail("document_id", doc.ID.String()).
				WithDetail("status", string(doc.Status))
		}

		if err := doc.Validate(ctx); err != nil {
			return err
		}

		accts, err := e.resolver.Resolve(ctx, requiredAccountCodes(doc.Kind)...)
		if err != nil {
			return err
		}

		plan, err := e.buildPlan(ctx, doc, accts)
		if err != nil {
			return err
		}

		var entryID *id.ID
		if len(plan.Lines) > 0 {
			entry, err := e.journal.Post(ctx, doc.Date, plan.Description, plan.Lines)
			if err != nil {
				return err
			}
			entryID = &entry.ID
		}

		if err := e.register.RecordMovements(ctx, plan.Movements); err != nil {
			return err
		}

		if err := e.applyStock(ctx, plan.Stock); err != nil {
			return err
		}

		if doc.CounterpartyID != nil && !plan.BalanceDelta.IsZero() {
			if err := e.counterparties.AdjustBalance(ctx, *doc.CounterpartyID, plan.BalanceDelta); err != nil {
				return fmt.Errorf("adjust counterparty balance: %w", err)
			}
		}

		doc.MarkPosted(entryID)
		if err := e.docs.UpdateStatus(ctx, doc); err != nil {
			return fmt.Errorf("update document status: %w", err)
		}

		if err := e.auditor.Record(ctx, "post", doc); err != nil {
			logger.Warn(ctx, "audit record failed", "document_id", doc.ID, "error", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document posted",
		"id", doc.ID,
		"kind", doc.Kind,
		"number", doc.Number,
	)

	return doc, nil
}

// buildPlan dispatches to the per-kind plan builder.
func (e *Engine) buildPlan(ctx context.Context, doc *documents.Document, accts map[string]*accounts.Account) (*Plan, error) {
	switch doc.Kind {
	case documents.KindSalesInvoice:
		return e.buildSalesInvoicePlan(ctx, doc, accts)
	case documents.KindPurchaseInvoice:
		return e.buildPurchaseInvoicePlan(ctx, doc, accts)
	case documents.KindSalesReturn:
		return e.buildSalesReturnPlan(ctx, doc, accts)
	case documents.KindPurchaseReturn:
		return e.buildPurchaseReturnPlan(ctx, doc, accts)
	case documents.KindAdjustment:
		return e.buildAdjustmentPlan(ctx, doc, accts)
	}
	return nil, apperror.NewValidation("invalid document kind").
		WithDetail("value", string(doc.Kind))
}

func (e *Engine) applyStock(ctx context.Context, effects []StockEffect) error {
	for _, eff := range effects {
		if eff.Absolute != nil {
			if err := e.products.SetQuantity(ctx, eff.ProductID, *eff.Absolute); err != nil {
				return fmt.Errorf("set stock quantity: %w", err)
			}
			continue
		}
		if eff.Delta == 0 {
			continue
		}
		if err := e.products.AdjustQuantity(ctx, eff.ProductID, eff.Delta); err != nil {
			return fmt.Errorf("adjust stock quantity: %w", err)
		}
	}
	return nil
}
