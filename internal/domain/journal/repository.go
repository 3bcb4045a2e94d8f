package journal

import (
	"context"
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/domain"
)

// Repository defines storage operations for journal entries.
// Entries and lines are insert-only; there is no update or delete.
type Repository interface {
	// CreateEntry inserts the header and all lines. Callers run this inside
	// a transaction so header and lines commit together.
	CreateEntry(ctx context.Context, entry *Entry, lines []Line) error

	// GetEntry retrieves a header by ID.
	GetEntry(ctx context.Context, entryID id.ID) (*Entry, error)

	// GetLines retrieves the lines of an entry ordered by line number.
	GetLines(ctx context.Context, entryID id.ID) ([]Line, error)

	// List retrieves entry headers with filtering.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Entry], error)
}

// ListFilter for filtering journal entries.
type ListFilter struct {
	domain.ListFilter

	DateFrom *time.Time
	DateTo   *time.Time
}
