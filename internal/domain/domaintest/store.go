// Package domaintest provides in-memory repository fakes for domain-level
// tests. They honor the same contracts as the postgres implementations
// (not-found errors, soft deletion, signed balance arithmetic) without a
// database, the same way numerator.MockGenerator stands in for the strict
// number generator.
package domaintest

import (
	"context"
	"sort"
	"strings"
	"sync"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/domain"
)

// CatalogStore is a generic in-memory catalog repository. Concrete fakes
// embed it and add their type-specific queries.
type CatalogStore[T entity.Validatable] struct {
	mu    sync.Mutex
	items map[id.ID]T

	name       string
	getID      func(T) id.ID
	getCode    func(T) string
	getName    func(T) string
	isDeleted  func(T) bool
	setDeleted func(T, bool)
}

func newCatalogStore[T entity.Validatable](
	name string,
	getID func(T) id.ID,
	getCode func(T) string,
	getName func(T) string,
	isDeleted func(T) bool,
	setDeleted func(T, bool),
) CatalogStore[T] {
	return CatalogStore[T]{
		items:      make(map[id.ID]T),
		name:       name,
		getID:      getID,
		getCode:    getCode,
		getName:    getName,
		isDeleted:  isDeleted,
		setDeleted: setDeleted,
	}
}

func (s *CatalogStore[T]) Create(_ context.Context, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.getID(item)
	if _, ok := s.items[key]; ok {
		return apperror.NewDuplicate(s.name, "id", key.String())
	}
	s.items[key] = item
	return nil
}

func (s *CatalogStore[T]) GetByID(_ context.Context, key id.ID) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		var zero T
		return zero, apperror.NewNotFound(s.name, key.String())
	}
	return item, nil
}

func (s *CatalogStore[T]) GetByCode(_ context.Context, code string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if s.getCode(item) == code && !s.isDeleted(item) {
			return item, nil
		}
	}
	var zero T
	return zero, apperror.NewNotFound(s.name, code)
}

func (s *CatalogStore[T]) Update(_ context.Context, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := s.getID(item)
	if _, ok := s.items[key]; !ok {
		return apperror.NewNotFound(s.name, key.String())
	}
	s.items[key] = item
	return nil
}

func (s *CatalogStore[T]) SetDeletionMark(_ context.Context, key id.ID, marked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[key]
	if !ok {
		return apperror.NewNotFound(s.name, key.String())
	}
	s.setDeleted(item, marked)
	return nil
}

func (s *CatalogStore[T]) List(_ context.Context, filter domain.ListFilter) (domain.ListResult[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if s.isDeleted(item) && !filter.IncludeDeleted {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(s.getName(item)), strings.ToLower(filter.Search)) &&
			!strings.Contains(strings.ToLower(s.getCode(item)), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, item)
	}

	sort.Slice(matched, func(i, j int) bool {
		return s.getCode(matched[i]) < s.getCode(matched[j])
	})

	result := domain.ListResult[T]{
		TotalCount: int64(len(matched)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}

	start := filter.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if filter.Limit > 0 && start+filter.Limit < end {
		end = start + filter.Limit
	}
	result.Items = matched[start:end]

	return result, nil
}

func (s *CatalogStore[T]) Exists(_ context.Context, key id.ID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.items[key]
	return ok, nil
}

func (s *CatalogStore[T]) ExistsByCode(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if s.getCode(item) == code && !s.isDeleted(item) {
			return true, nil
		}
	}
	return false, nil
}

// TxManager is a pass-through transaction manager. The fakes mutate shared
// maps directly, so there is nothing to commit or roll back.
type TxManager struct{}

func (TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (TxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
