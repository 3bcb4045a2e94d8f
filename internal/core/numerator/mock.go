package numerator

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGenerator is a test implementation of Generator.
// Use in unit tests to avoid database dependencies.
type MockGenerator struct {
	GetNextNumberFunc func(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	mu   sync.Mutex
	next map[string]int64
}

// GetNextNumber implements Generator.
// Default behavior issues sequential numbers per prefix, starting at 1.
func (m *MockGenerator) GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error) {
	if m.GetNextNumberFunc != nil {
		return m.GetNextNumberFunc(ctx, cfg, opts, period)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next == nil {
		m.next = make(map[string]int64)
	}
	m.next[cfg.Prefix]++
	return fmt.Sprintf("%s-%d-%05d", cfg.Prefix, period.Year(), m.next[cfg.Prefix]), nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
