package journal_test

import (
	"context"
	"testing"
	"time"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/numerator"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/domaintest"
	"minibooks/internal/domain/journal"
)

func newService() (*journal.Service, *domaintest.JournalRepo) {
	repo := domaintest.NewJournalRepo()
	svc := journal.NewService(repo, &numerator.MockGenerator{}, domaintest.TxManager{})
	return svc, repo
}

func TestPost_BalancedEntry(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cash := id.New()
	revenue := id.New()

	entry, err := svc.Post(ctx, time.Now(), "test sale", []journal.Line{
		journal.DebitLine(cash, types.MustMoney("100.50")),
		journal.CreditLine(revenue, types.MustMoney("100.50")),
	})
	if err != nil {
		t.Fatalf("Post failed: %v", err)
	}

	if !entry.TotalDebit.Equal(types.MustMoney("100.50")) {
		t.Errorf("TotalDebit = %s, want 100.50", entry.TotalDebit)
	}
	if !entry.TotalDebit.Equal(entry.TotalCredit) {
		t.Errorf("header totals differ: %s vs %s", entry.TotalDebit, entry.TotalCredit)
	}
	if len(entry.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(entry.Lines))
	}
	if entry.Lines[0].LineNo != 1 || entry.Lines[1].LineNo != 2 {
		t.Errorf("line numbers not sequential: %d, %d", entry.Lines[0].LineNo, entry.Lines[1].LineNo)
	}
	if entry.Number == "" {
		t.Error("entry number not assigned")
	}
}

func TestPost_ImbalancedEntryRejected(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, err := svc.Post(ctx, time.Now(), "broken", []journal.Line{
		journal.DebitLine(id.New(), types.MustMoney("100")),
		journal.CreditLine(id.New(), types.MustMoney("99.98")),
	})
	if !apperror.IsCode(err, apperror.CodeImbalancedEntry) {
		t.Fatalf("expected IMBALANCED_ENTRY, got %v", err)
	}
	if len(repo.AllEntries()) != 0 {
		t.Error("imbalanced entry was persisted")
	}
}

func TestPost_OneCentToleranceAccepted(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	// Independently rounded legs may spread by one cent.
	_, err := svc.Post(ctx, time.Now(), "rounding spread", []journal.Line{
		journal.DebitLine(id.New(), types.MustMoney("33.33")),
		journal.CreditLine(id.New(), types.MustMoney("33.34")),
	})
	if err != nil {
		t.Fatalf("one-cent spread rejected: %v", err)
	}
}

func TestPost_LineValidation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	acc := id.New()

	tests := []struct {
		name  string
		lines []journal.Line
	}{
		{name: "no lines", lines: nil},
		{name: "nil account", lines: []journal.Line{
			journal.DebitLine(id.Nil(), types.MustMoney("10")),
			journal.CreditLine(acc, types.MustMoney("10")),
		}},
		{name: "both sides set", lines: []journal.Line{
			{AccountID: acc, Debit: types.MustMoney("10"), Credit: types.MustMoney("10")},
			journal.CreditLine(acc, types.Zero()),
		}},
		{name: "negative amount", lines: []journal.Line{
			journal.DebitLine(acc, types.MustMoney("-5")),
			journal.CreditLine(acc, types.MustMoney("-5")),
		}},
		{name: "empty line", lines: []journal.Line{
			{AccountID: acc, Debit: types.Zero(), Credit: types.Zero()},
			journal.DebitLine(acc, types.MustMoney("10")),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Post(ctx, time.Now(), "invalid", tt.lines)
			if !apperror.IsCode(err, apperror.CodeValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	}
}

func TestBuildReversal_SwapsSides(t *testing.T) {
	acc1, acc2 := id.New(), id.New()
	original := []journal.Line{
		journal.DebitLine(acc1, types.MustMoney("75.25")),
		journal.CreditLine(acc2, types.MustMoney("75.25")),
	}

	mirror := journal.BuildReversal(original)

	if len(mirror) != 2 {
		t.Fatalf("got %d mirror lines, want 2", len(mirror))
	}
	if !mirror[0].Credit.Equal(original[0].Debit) || !mirror[0].Debit.IsZero() {
		t.Error("first line not mirrored")
	}
	if !mirror[1].Debit.Equal(original[1].Credit) || !mirror[1].Credit.IsZero() {
		t.Error("second line not mirrored")
	}
	if mirror[0].AccountID != acc1 || mirror[1].AccountID != acc2 {
		t.Error("accounts changed during mirroring")
	}
}
