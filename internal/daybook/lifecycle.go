package daybook

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cleared-dev/daybook/internal/audit"
	"github.com/cleared-dev/daybook/internal/cashcount"
	"github.com/cleared-dev/daybook/internal/model"
)

// Open starts a not-started day with the counted opening cash.
func (s *Service) Open(ctx context.Context, date string, counts []model.DenominationCount) (model.DayStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return model.DayStatus{}, err
	}
	status := rec.Status

	if status.Phase != model.PhaseNotStarted {
		return status, s.reject("open", status.Date, fmt.Errorf("%w: cannot open a day that is %s", ErrIllegalTransition, status.Phase))
	}

	cp, err := s.checkpoint(counts)
	if err != nil {
		return status, s.reject("open", status.Date, err)
	}
	if cp.Balance.IsZero() {
		return status, s.reject("open", status.Date, ErrZeroOpeningBalance)
	}

	status.Phase = model.PhaseOpen
	status.Opening = cp
	if err := s.store.SaveStatus(ctx, status.Date, status); err != nil {
		return rec.Status, fmt.Errorf("saving status for %s: %w", status.Date, err)
	}

	s.logger.Info("day opened", slog.String("date", status.Date), slog.String("balance", cp.Balance.String()))
	s.record(ctx, audit.Entry{Date: status.Date, Action: audit.ActionOpen, Details: "balance " + cp.Balance.String()})
	return status, nil
}

// Close ends an open day with the counted closing cash.
func (s *Service) Close(ctx context.Context, date string, counts []model.DenominationCount) (model.DayStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return model.DayStatus{}, err
	}
	status := rec.Status

	if status.Phase != model.PhaseOpen {
		return status, s.reject("close", status.Date, fmt.Errorf("%w: cannot close a day that is %s", ErrIllegalTransition, status.Phase))
	}

	cp, err := s.checkpoint(counts)
	if err != nil {
		return status, s.reject("close", status.Date, err)
	}
	if s.requireClosingCash && cp.Balance.IsZero() {
		return status, s.reject("close", status.Date, ErrZeroClosingBalance)
	}

	status.Phase = model.PhaseClosed
	status.Closing = cp
	if err := s.store.SaveStatus(ctx, status.Date, status); err != nil {
		return rec.Status, fmt.Errorf("saving status for %s: %w", status.Date, err)
	}

	s.logger.Info("day closed", slog.String("date", status.Date), slog.String("balance", cp.Balance.String()))
	s.record(ctx, audit.Entry{Date: status.Date, Action: audit.ActionClose, Details: "balance " + cp.Balance.String()})
	return status, nil
}

// Reopen returns a closed day to open. Only accountants may reopen; the
// closing count is kept until the day is closed again.
func (s *Service) Reopen(ctx context.Context, date string) (model.DayStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return model.DayStatus{}, err
	}
	status := rec.Status

	if status.Phase != model.PhaseClosed {
		return status, s.reject("reopen", status.Date, fmt.Errorf("%w: cannot reopen a day that is %s", ErrIllegalTransition, status.Phase))
	}
	if !s.roles.CurrentRole(ctx).CanReopen() {
		return status, s.reject("reopen", status.Date, ErrReopenForbidden)
	}

	status.Phase = model.PhaseOpen
	if err := s.store.SaveStatus(ctx, status.Date, status); err != nil {
		return rec.Status, fmt.Errorf("saving status for %s: %w", status.Date, err)
	}

	s.logger.Info("day reopened", slog.String("date", status.Date))
	s.record(ctx, audit.Entry{Date: status.Date, Action: audit.ActionReopen})
	return status, nil
}

// checkpoint reduces raw counts to a frozen balance and its non-zero rows.
func (s *Service) checkpoint(counts []model.DenominationCount) (*model.Checkpoint, error) {
	counter, err := cashcount.FromEntries(counts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCount, err)
	}
	return &model.Checkpoint{
		Balance:       counter.Total(),
		Denominations: counter.NonZeroEntries(),
		Time:          s.now(),
	}, nil
}
