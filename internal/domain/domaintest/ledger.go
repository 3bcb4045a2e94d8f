package domaintest

import (
	"context"
	"sort"
	"sync"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
	"minibooks/internal/domain/registers/inventory"
)

// DocumentRepo is an in-memory documents.Repository.
type DocumentRepo struct {
	mu   sync.Mutex
	docs map[id.ID]*documents.Document
}

// NewDocumentRepo creates an empty document fake.
func NewDocumentRepo() *DocumentRepo {
	return &DocumentRepo{docs: make(map[id.ID]*documents.Document)}
}

func (r *DocumentRepo) Create(_ context.Context, doc *documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; ok {
		return apperror.NewDuplicate("document", "id", doc.ID.String())
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *DocumentRepo) GetByID(_ context.Context, docID id.ID) (*documents.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[docID]
	if !ok {
		return nil, apperror.NewNotFound("document", docID.String())
	}
	return doc, nil
}

func (r *DocumentRepo) GetForUpdate(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return r.GetByID(ctx, docID)
}

func (r *DocumentRepo) Update(_ context.Context, doc *documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID]; !ok {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	r.docs[doc.ID] = doc
	return nil
}

func (r *DocumentRepo) UpdateStatus(_ context.Context, doc *documents.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.docs[doc.ID]
	if !ok {
		return apperror.NewNotFound("document", doc.ID.String())
	}
	stored.Status = doc.Status
	stored.PostedVersion = doc.PostedVersion
	stored.JournalEntryID = doc.JournalEntryID
	return nil
}

func (r *DocumentRepo) UpdatePaidAmount(_ context.Context, docID id.ID, paidAmount types.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, ok := r.docs[docID]
	if !ok {
		return apperror.NewNotFound("document", docID.String())
	}
	doc.PaidAmount = paidAmount
	return nil
}

func (r *DocumentRepo) Delete(_ context.Context, docID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[docID]; !ok {
		return apperror.NewNotFound("document", docID.String())
	}
	delete(r.docs, docID)
	return nil
}

func (r *DocumentRepo) List(_ context.Context, filter documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*documents.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		if filter.Kind != nil && doc.Kind != *filter.Kind {
			continue
		}
		if filter.Status != nil && string(doc.Status) != *filter.Status {
			continue
		}
		if filter.CounterpartyID != nil &&
			(doc.CounterpartyID == nil || *doc.CounterpartyID != *filter.CounterpartyID) {
			continue
		}
		matched = append(matched, doc)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Number < matched[j].Number
	})

	return domain.ListResult[*documents.Document]{
		Items:      matched,
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// JournalRepo is an in-memory journal.Repository.
type JournalRepo struct {
	mu      sync.Mutex
	entries map[id.ID]*journal.Entry
	lines   map[id.ID][]journal.Line
}

// NewJournalRepo creates an empty journal fake.
func NewJournalRepo() *JournalRepo {
	return &JournalRepo{
		entries: make(map[id.ID]*journal.Entry),
		lines:   make(map[id.ID][]journal.Line),
	}
}

func (r *JournalRepo) CreateEntry(_ context.Context, entry *journal.Entry, lines []journal.Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.ID]; ok {
		return apperror.NewDuplicate("journal entry", "id", entry.ID.String())
	}

	header := *entry
	header.Lines = nil
	r.entries[entry.ID] = &header
	r.lines[entry.ID] = append([]journal.Line(nil), lines...)
	return nil
}

func (r *JournalRepo) GetEntry(_ context.Context, entryID id.ID) (*journal.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[entryID]
	if !ok {
		return nil, apperror.NewNotFound("journal entry", entryID.String())
	}
	copied := *entry
	return &copied, nil
}

func (r *JournalRepo) GetLines(_ context.Context, entryID id.ID) ([]journal.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines, ok := r.lines[entryID]
	if !ok {
		return nil, apperror.NewNotFound("journal entry", entryID.String())
	}
	return append([]journal.Line(nil), lines...), nil
}

func (r *JournalRepo) List(_ context.Context, filter journal.ListFilter) (domain.ListResult[*journal.Entry], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*journal.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		if filter.DateFrom != nil && entry.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && entry.Date.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, entry)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Number < matched[j].Number
	})

	return domain.ListResult[*journal.Entry]{
		Items:      matched,
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// AllEntries returns every stored entry, for invariant sweeps in tests.
func (r *JournalRepo) AllEntries() []*journal.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]*journal.Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		copied := *entry
		copied.Lines = append([]journal.Line(nil), r.lines[entry.ID]...)
		all = append(all, &copied)
	}
	return all
}

// InventoryRepo is an in-memory inventory.Repository.
type InventoryRepo struct {
	mu        sync.Mutex
	movements []entity.InventoryMovement
}

// NewInventoryRepo creates an empty movement register fake.
func NewInventoryRepo() *InventoryRepo {
	return &InventoryRepo{movements: make([]entity.InventoryMovement, 0)}
}

func (r *InventoryRepo) CreateMovements(_ context.Context, movements []entity.InventoryMovement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.movements = append(r.movements, movements...)
	return nil
}

func (r *InventoryRepo) DeleteMovementsByRecorder(_ context.Context, recorderID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.movements[:0]
	for _, m := range r.movements {
		if m.RecorderID != recorderID {
			kept = append(kept, m)
		}
	}
	r.movements = kept
	return nil
}

func (r *InventoryRepo) GetMovementsByRecorder(_ context.Context, recorderID id.ID) ([]entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]entity.InventoryMovement, 0)
	for _, m := range r.movements {
		if m.RecorderID == recorderID {
			found = append(found, m)
		}
	}
	return found, nil
}

func (r *InventoryRepo) SumIncoming(_ context.Context, productID id.ID) (types.Money, types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	totalCost := types.Zero()
	var totalQty types.Quantity
	for _, m := range r.movements {
		if m.ProductID != productID || !m.MovementType.IncomingCost() {
			continue
		}
		totalCost = totalCost.Add(m.TotalCost)
		totalQty += m.Quantity
	}
	return totalCost, totalQty, nil
}

func (r *InventoryRepo) SumQuantity(_ context.Context, productID id.ID) (types.Quantity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var total types.Quantity
	for _, m := range r.movements {
		if m.ProductID == productID {
			total += m.Quantity
		}
	}
	return total, nil
}

func (r *InventoryRepo) GetMovementHistory(_ context.Context, productID id.ID, filter inventory.MovementFilter) ([]entity.InventoryMovement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	found := make([]entity.InventoryMovement, 0)
	for _, m := range r.movements {
		if m.ProductID != productID {
			continue
		}
		if filter.MovementType != nil && m.MovementType != *filter.MovementType {
			continue
		}
		if filter.FromDate != nil && m.Period.Before(*filter.FromDate) {
			continue
		}
		if filter.ToDate != nil && m.Period.After(*filter.ToDate) {
			continue
		}
		found = append(found, m)
	}
	return found, nil
}
