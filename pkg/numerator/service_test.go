package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	corenum "minibooks/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sys_sequences UPSERT arithmetic.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	var increment int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		}
	}

	m.currentValue += increment
	m.calls++
	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	cfg := corenum.DefaultConfig("INV")

	got, err := svc.GetNextNumber(ctx, cfg, corenum.DefaultOptions(), period)
	if err != nil {
		t.Fatalf("GetNextNumber failed: %v", err)
	}
	if got != "INV-2026-00001" {
		t.Errorf("got %q, want INV-2026-00001", got)
	}

	got, _ = svc.GetNextNumber(ctx, cfg, corenum.DefaultOptions(), period)
	if got != "INV-2026-00002" {
		t.Errorf("got %q, want INV-2026-00002", got)
	}

	if q.calls != 2 {
		t.Errorf("strict made %d round trips, want 2", q.calls)
	}
}

func TestGetNextNumber_CachedReservesRanges(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	period := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	cfg := corenum.DefaultConfig("ORD")
	opts := &corenum.Options{Strategy: corenum.StrategyCached, RangeSize: 10}

	for i := int64(1); i <= 10; i++ {
		got, err := svc.GetNextNumber(ctx, cfg, opts, period)
		if err != nil {
			t.Fatalf("GetNextNumber failed: %v", err)
		}
		want := formatNumber(cfg, period, i)
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}

	// Ten numbers from one round trip; the eleventh forces a refill.
	if q.calls != 1 {
		t.Fatalf("range of 10 took %d round trips, want 1", q.calls)
	}
	if _, err := svc.GetNextNumber(ctx, cfg, opts, period); err != nil {
		t.Fatalf("GetNextNumber failed: %v", err)
	}
	if q.calls != 2 {
		t.Errorf("refill took %d round trips total, want 2", q.calls)
	}
}

func TestGetNextNumber_ConcurrentCached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	period := time.Now()

	cfg := corenum.DefaultConfig("GRN")
	opts := &corenum.Options{Strategy: corenum.StrategyCached, RangeSize: 25}

	const n = 100
	var wg sync.WaitGroup
	seen := sync.Map{}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := svc.GetNextNumber(ctx, cfg, opts, period)
			if err != nil {
				t.Errorf("GetNextNumber failed: %v", err)
				return
			}
			if _, dup := seen.LoadOrStore(num, true); dup {
				t.Errorf("duplicate number issued: %s", num)
			}
		}()
	}
	wg.Wait()
}

func TestBuildKey_ResetPeriods(t *testing.T) {
	period := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		reset string
		want  string
	}{
		{reset: "year", want: "DOC_2026"},
		{reset: "month", want: "DOC_2026_07"},
		{reset: "never", want: "DOC"},
	}

	for _, tt := range tests {
		cfg := corenum.Config{Prefix: "DOC", ResetPeriod: tt.reset}
		if got := buildKey(cfg, period); got != tt.want {
			t.Errorf("reset %q: got %q, want %q", tt.reset, got, tt.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if got := ParseNumber("INV-2026-00042"); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := ParseNumber("PAY-00007"); got != 7 {
		t.Errorf("got %d, want 7", got)
	}
	if got := ParseNumber("garbage"); got != -1 {
		t.Errorf("got %d, want -1", got)
	}
}
