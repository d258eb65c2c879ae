package daybook

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/audit"
	"github.com/cleared-dev/daybook/internal/model"
)

// Service is the daybook ledger. It owns the status and transaction list of
// every date in its Store; callers only see copies.
type Service struct {
	store    Store
	roles    RoleProvider
	now      func() time.Time
	logger   *slog.Logger
	recorder Recorder
	accounts AccountChecker
	seeder   Seeder

	requireClosingCash bool

	// mu serializes load-modify-save sequences.
	mu sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source used for entry and checkpoint times.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithRecorder sets the activity log sink.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// WithAccounts restricts which payment accounts accept entries.
func WithAccounts(a AccountChecker) Option {
	return func(s *Service) { s.accounts = a }
}

// WithSeeder fills dates that have never been stored. Development only.
func WithSeeder(seed Seeder) Option {
	return func(s *Service) { s.seeder = seed }
}

// WithRequireClosingCash rejects closing a day with a zero cash count.
func WithRequireClosingCash(require bool) Option {
	return func(s *Service) { s.requireClosingCash = require }
}

// NewService creates a ledger over store. Roles come from roles.
func NewService(store Store, roles RoleProvider, opts ...Option) *Service {
	s := &Service{
		store:  store,
		roles:  roles,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Day is a read-only snapshot of one business date.
type Day struct {
	Status       model.DayStatus
	Transactions []model.Transaction
	Role         model.Role
	Editable     bool
}

// Editable reports whether entries may be added to a day by role: the day
// must be open, or closed and the role an accountant.
func Editable(status model.DayStatus, role model.Role) bool {
	return status.IsOpened() && (!status.IsClosed() || role.CanEditClosedDay())
}

// Load returns the snapshot for a date. A date never stored starts not started.
func (s *Service) Load(ctx context.Context, date string) (Day, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return Day{}, err
	}
	role := s.roles.CurrentRole(ctx)
	return Day{
		Status:       rec.Status,
		Transactions: copyTxns(rec.Transactions),
		Role:         role,
		Editable:     Editable(rec.Status, role),
	}, nil
}

// load must be called with s.mu held.
func (s *Service) load(ctx context.Context, date string) (Record, error) {
	key, err := model.ParseDate(date)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	rec, found, err := s.store.Load(ctx, key)
	if err != nil {
		return Record{}, fmt.Errorf("loading %s: %w", key, err)
	}
	if found {
		if err := rec.Status.Validate(); err != nil {
			return Record{}, fmt.Errorf("loading %s: %w", key, err)
		}
		if err := ValidateLedger(key, rec.Transactions).OrNil(); err != nil {
			return Record{}, fmt.Errorf("loading %s: %w", key, err)
		}
		return rec, nil
	}

	if s.seeder == nil {
		return Record{Status: model.NewDayStatus(key)}, nil
	}

	rec = s.seeder(key)
	if err := s.store.SaveStatus(ctx, key, rec.Status); err != nil {
		return Record{}, fmt.Errorf("saving seeded status for %s: %w", key, err)
	}
	if err := s.store.SaveTransactions(ctx, key, rec.Transactions); err != nil {
		return Record{}, fmt.Errorf("saving seeded transactions for %s: %w", key, err)
	}
	s.logger.Info("seeded demo day", slog.String("date", key), slog.Int("transactions", len(rec.Transactions)))
	s.record(ctx, audit.Entry{Date: key, Action: audit.ActionSeed, Details: fmt.Sprintf("%d transactions", len(rec.Transactions))})
	return rec, nil
}

// record writes an activity entry. Failures are logged, not returned.
func (s *Service) record(ctx context.Context, e audit.Entry) {
	if s.recorder == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	if e.Role == "" {
		e.Role = string(s.roles.CurrentRole(ctx))
	}
	if err := s.recorder.Record(ctx, e); err != nil {
		s.logger.Warn("failed to record activity",
			slog.String("date", e.Date),
			slog.String("action", string(e.Action)),
			slog.String("error", err.Error()))
	}
}

func (s *Service) reject(op, date string, err error) error {
	s.logger.Warn("rejected "+op, slog.String("date", date), slog.String("error", err.Error()))
	return err
}

func copyTxns(txns []model.Transaction) []model.Transaction {
	if txns == nil {
		return nil
	}
	return append([]model.Transaction(nil), txns...)
}
