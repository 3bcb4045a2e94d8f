package journal

import (
	"context"
	"fmt"
	"time"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/numerator"
	"minibooks/internal/core/tx"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
	"minibooks/pkg/logger"
)

// NumberPrefix for generated journal entry numbers.
const NumberPrefix = "JE"

// Service is the journal generator. It is the single writer of journal
// entries: every posting, cancellation, and payment settlement goes through
// Post, which enforces the balance invariant before anything is persisted.
type Service struct {
	repo      Repository
	numerator numerator.Generator
	txManager tx.Manager
}

// NewService creates a new journal service.
func NewService(repo Repository, gen numerator.Generator, txManager tx.Manager) *Service {
	return &Service{repo: repo, numerator: gen, txManager: txManager}
}

// Post validates and persists a journal entry with its lines atomically.
//
// Preconditions: lines is non-empty, every line references an account, each
// line has exactly one non-zero side, and total debit equals total credit
// within types.BalanceTolerance. On violation nothing is persisted and an
// IMBALANCED_ENTRY (or validation) error is returned.
func (s *Service) Post(ctx context.Context, date time.Time, description string, lines []Line) (*Entry, error) {
	if len(lines) == 0 {
		return nil, apperror.NewValidation("journal entry requires at least one line")
	}

	totalDebit := types.Zero()
	totalCredit := types.Zero()

	for i := range lines {
		l := &lines[i]
		if id.IsNil(l.AccountID) {
			return nil, apperror.NewValidation("journal line requires an account").
				WithDetail("lineNo", i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return nil, apperror.NewValidation("journal line amounts must not be negative").
				WithDetail("lineNo", i+1)
		}
		if !l.Debit.IsZero() && !l.Credit.IsZero() {
			return nil, apperror.NewValidation("journal line must have exactly one non-zero side").
				WithDetail("lineNo", i+1)
		}
		if l.Debit.IsZero() && l.Credit.IsZero() {
			return nil, apperror.NewValidation("journal line must not be empty").
				WithDetail("lineNo", i+1)
		}

		// Amounts are rounded at the persist point; rates upstream keep
		// full precision.
		l.Debit = types.RoundMoney(l.Debit)
		l.Credit = types.RoundMoney(l.Credit)

		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(types.BalanceTolerance) {
		return nil, apperror.NewImbalancedEntry(totalDebit.String(), totalCredit.String())
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(NumberPrefix), numerator.DefaultOptions(), date)
	if err != nil {
		return nil, fmt.Errorf("generate journal number: %w", err)
	}

	entry := &Entry{
		ID:          id.New(),
		Number:      number,
		Date:        date,
		Description: description,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		CreatedAt:   time.Now().UTC(),
	}

	for i := range lines {
		lines[i].LineID = id.New()
		lines[i].EntryID = entry.ID
		lines[i].LineNo = i + 1
	}

	// Nested calls reuse the caller's transaction, so a document posting
	// commits its journal together with its other side effects.
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.CreateEntry(ctx, entry, lines)
	})
	if err != nil {
		return nil, fmt.Errorf("persist journal entry: %w", err)
	}

	entry.Lines = lines

	logger.Info(ctx, "journal entry posted",
		"id", entry.ID,
		"number", entry.Number,
		"total", totalDebit.String(),
	)

	return entry, nil
}

// GetEntry retrieves an entry with its lines.
func (s *Service) GetEntry(ctx context.Context, entryID id.ID) (*Entry, error) {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.GetLines(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	entry.Lines = lines

	return entry, nil
}

// GetLines retrieves the lines of an entry.
func (s *Service) GetLines(ctx context.Context, entryID id.ID) ([]Line, error) {
	return s.repo.GetLines(ctx, entryID)
}

// List retrieves entry headers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Entry], error) {
	return s.repo.List(ctx, filter)
}
