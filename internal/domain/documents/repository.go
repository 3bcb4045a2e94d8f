package documents

import (
	"context"
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
)

// Repository defines operations for commercial documents.
type Repository interface {
	// Create persists a document with its items.
	Create(ctx context.Context, doc *Document) error

	// GetByID retrieves a document with its items.
	GetByID(ctx context.Context, docID id.ID) (*Document, error)

	// GetForUpdate retrieves a document with a row lock. Posting and
	// cancellation read through this so concurrent attempts on the same
	// document serialize and the loser sees the new status.
	GetForUpdate(ctx context.Context, docID id.ID) (*Document, error)

	// Update replaces header fields and items (optimistic version check).
	Update(ctx context.Context, doc *Document) error

	// UpdateStatus persists the status fields changed by posting and
	// cancellation (status, posted_version, journal_entry_id).
	UpdateStatus(ctx context.Context, doc *Document) error

	// UpdatePaidAmount overwrites the derived paid_amount cache.
	UpdatePaidAmount(ctx context.Context, docID id.ID, paidAmount types.Money) error

	// Delete removes a draft document with its items.
	Delete(ctx context.Context, docID id.ID) error

	// List retrieves documents with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Document], error)
}

// ListFilter for querying documents.
type ListFilter struct {
	domain.ListFilter

	Kind           *Kind
	Status         *string
	CounterpartyID *id.ID
	DateFrom       *time.Time
	DateTo         *time.Time
}
