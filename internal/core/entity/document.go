package entity

import (
	"context"
	"time"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
)

// Status is the lifecycle state of a commercial document.
// Transitions are monotonic: draft -> posted -> cancelled. Posting is the
// irreversible forward step that fixes totals and creates side effects;
// cancellation is a one-shot terminal transition (invoices only).
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPosted    Status = "posted"
	StatusCancelled Status = "cancelled"
)

// Document is the base type for business transactions.
// Examples: SalesInvoice, PurchaseInvoice, Payment.
type Document struct {
	BaseDocument

	// Number is the document number (auto-generated, unique within type+period)
	Number string `db:"number" json:"number"`

	// Date is the business date of the document
	Date time.Time `db:"date" json:"date"`

	// Status tracks the posting state machine
	Status Status `db:"status" json:"status"`

	// PostedVersion tracks posting iterations for movement reconciliation
	PostedVersion int `db:"posted_version" json:"postedVersion"`

	// JournalEntryID references the journal entry created at posting time
	JournalEntryID *id.ID `db:"journal_entry_id" json:"journalEntryId,omitempty"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new draft Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		Date:         time.Now().UTC(),
		Status:       StatusDraft,
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}

// CanModify checks if document can be modified.
// Only drafts are editable; posted documents are immutable.
func (d *Document) CanModify() error {
	if d.Status != StatusDraft {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentPosted,
			"Cannot modify a document that is no longer a draft.",
		).WithDetail("document_id", d.ID.String()).
			WithDetail("status", string(d.Status))
	}
	return nil
}

// IsPosted returns true if document movements are recorded.
func (d *Document) IsPosted() bool {
	return d.Status == StatusPosted
}

// MarkPosted transitions the document to posted and records the journal
// entry. A nil entry id is allowed for postings with no accounting effect
// (an adjustment where every counted quantity matches the books).
func (d *Document) MarkPosted(journalEntryID *id.ID) {
	d.Status = StatusPosted
	d.JournalEntryID = journalEntryID
	d.PostedVersion++
	d.Touch()
}

// MarkCancelled transitions the document to the terminal cancelled state.
func (d *Document) MarkCancelled() {
	d.Status = StatusCancelled
	d.Touch()
}
