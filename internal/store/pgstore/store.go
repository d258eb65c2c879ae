// Package pgstore keeps day records in PostgreSQL.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

const (
	checkpointOpening = "opening"
	checkpointClosing = "closing"
)

// Store is a daybook.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

var _ daybook.Store = (*Store)(nil)

// New wraps an existing pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect creates a pool for databaseURL and checks it answers.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

func parseDate(date string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d, nil
}

// Load implements daybook.Store.
func (s *Store) Load(ctx context.Context, date string) (daybook.Record, bool, error) {
	d, err := parseDate(date)
	if err != nil {
		return daybook.Record{}, false, err
	}

	var (
		phase                    string
		openingBal, closingBal   decimal.NullDecimal
		openingTime, closingTime *time.Time
	)
	err = s.pool.QueryRow(ctx, `
		SELECT phase, opening_balance, opening_time, closing_balance, closing_time
		FROM days
		WHERE date = $1`, d).Scan(&phase, &openingBal, &openingTime, &closingBal, &closingTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return daybook.Record{}, false, nil
	}
	if err != nil {
		return daybook.Record{}, false, fmt.Errorf("querying day %s: %w", date, err)
	}

	status := model.DayStatus{Date: date, Phase: model.Phase(phase)}
	if openingBal.Valid {
		status.Opening = &model.Checkpoint{Balance: openingBal.Decimal, Time: derefTime(openingTime)}
	}
	if closingBal.Valid {
		status.Closing = &model.Checkpoint{Balance: closingBal.Decimal, Time: derefTime(closingTime)}
	}

	if err := s.loadDenominations(ctx, d, &status); err != nil {
		return daybook.Record{}, false, err
	}
	if err := status.Validate(); err != nil {
		return daybook.Record{}, false, err
	}

	txns, err := loadTransactions(ctx, s.pool, d)
	if err != nil {
		return daybook.Record{}, false, err
	}

	return daybook.Record{Status: status, Transactions: txns}, true, nil
}

func (s *Store) loadDenominations(ctx context.Context, d time.Time, status *model.DayStatus) error {
	rows, err := s.pool.Query(ctx, `
		SELECT checkpoint, denomination, count
		FROM day_denominations
		WHERE date = $1
		ORDER BY checkpoint, denomination DESC`, d)
	if err != nil {
		return fmt.Errorf("querying denominations for %s: %w", status.Date, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			checkpoint string
			row        model.DenominationCount
		)
		if err := rows.Scan(&checkpoint, &row.Denomination, &row.Count); err != nil {
			return fmt.Errorf("scanning denomination: %w", err)
		}
		var cp *model.Checkpoint
		switch checkpoint {
		case checkpointOpening:
			cp = status.Opening
		case checkpointClosing:
			cp = status.Closing
		}
		if cp == nil {
			return fmt.Errorf("day %s: %s count without a %s balance", status.Date, checkpoint, checkpoint)
		}
		cp.Denominations = append(cp.Denominations, row)
	}
	return rows.Err()
}

// querier is satisfied by both the pool and an open pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func loadTransactions(ctx context.Context, q querier, d time.Time) ([]model.Transaction, error) {
	rows, err := q.Query(ctx, `
		SELECT id, occurred_at, type, amount, partner, account, description, paid, from_upload, COALESCE(reverses, '')
		FROM transactions
		WHERE date = $1
		ORDER BY position`, d)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		var (
			t          model.Transaction
			occurredAt *time.Time
			txnType    string
			account    string
		)
		if err := rows.Scan(&t.ID, &occurredAt, &txnType, &t.Amount, &t.Partner, &account,
			&t.Description, &t.Paid, &t.FromUpload, &t.Reverses); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Time = derefTime(occurredAt)
		t.Type = model.TxnType(txnType)
		t.Account = model.PaymentAccount(account)
		txns = append(txns, t)
	}
	return txns, rows.Err()
}

// SaveStatus implements daybook.Store. The day row and its denomination
// rows are replaced in one database transaction.
func (s *Store) SaveStatus(ctx context.Context, date string, status model.DayStatus) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	openingBal, openingTime := checkpointColumns(status.Opening)
	closingBal, closingTime := checkpointColumns(status.Closing)
	_, err = tx.Exec(ctx, `
		INSERT INTO days (date, phase, opening_balance, opening_time, closing_balance, closing_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO UPDATE SET
			phase = EXCLUDED.phase,
			opening_balance = EXCLUDED.opening_balance,
			opening_time = EXCLUDED.opening_time,
			closing_balance = EXCLUDED.closing_balance,
			closing_time = EXCLUDED.closing_time`,
		d, string(status.Phase), openingBal, openingTime, closingBal, closingTime)
	if err != nil {
		return fmt.Errorf("saving day %s: %w", date, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM day_denominations WHERE date = $1`, d); err != nil {
		return fmt.Errorf("clearing denominations for %s: %w", date, err)
	}

	batch := &pgx.Batch{}
	queueCounts(batch, d, checkpointOpening, status.Opening)
	queueCounts(batch, d, checkpointClosing, status.Closing)
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving denominations for %s: %w", date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing day %s: %w", date, err)
	}
	return nil
}

// SaveTransactions implements daybook.Store. Rows are append-only: txns must
// carry every stored entry unchanged, followed by the new ones. A list that
// drops or alters a stored entry, or an insert that loses to a concurrent
// writer, fails with apperrors.ErrConflict.
func (s *Store) SaveTransactions(ctx context.Context, date string, txns []model.Transaction) error {
	d, err := parseDate(date)
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) // no-op after commit

	if _, err := tx.Exec(ctx, `
		INSERT INTO days (date, phase) VALUES ($1, $2)
		ON CONFLICT (date) DO NOTHING`, d, string(model.PhaseNotStarted)); err != nil {
		return fmt.Errorf("ensuring day %s: %w", date, err)
	}
	// Serialize writers of the same day.
	if _, err := tx.Exec(ctx, `SELECT 1 FROM days WHERE date = $1 FOR UPDATE`, d); err != nil {
		return fmt.Errorf("locking day %s: %w", date, err)
	}

	stored, err := loadTransactions(ctx, tx, d)
	if err != nil {
		return err
	}
	byID := make(map[string]model.Transaction, len(stored))
	for _, t := range stored {
		byID[t.ID] = t
	}

	batch := &pgx.Batch{}
	kept := 0
	for i, t := range txns {
		if prev, ok := byID[t.ID]; ok {
			if !sameEntry(prev, t) {
				return fmt.Errorf("%w: transaction %s differs from the stored entry", apperrors.ErrConflict, t.ID)
			}
			kept++
			continue
		}
		var reverses *string
		if t.Reverses != "" {
			reverses = &t.Reverses
		}
		var occurredAt *time.Time
		if !t.Time.IsZero() {
			occurredAt = &t.Time
		}
		batch.Queue(`
			INSERT INTO transactions (id, date, position, occurred_at, type, amount, partner, account, description, paid, from_upload, reverses)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO NOTHING`,
			t.ID, d, i, occurredAt, string(t.Type), t.Amount, t.Partner, string(t.Account),
			t.Description, t.Paid, t.FromUpload, reverses)
	}
	if kept != len(stored) {
		return fmt.Errorf("%w: %s has %d stored transactions, save carries %d of them",
			apperrors.ErrConflict, date, len(stored), kept)
	}

	if batch.Len() > 0 {
		if err := execInserts(ctx, tx, batch); err != nil {
			return fmt.Errorf("saving transactions for %s: %w", date, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transactions for %s: %w", date, err)
	}
	return nil
}

// execInserts runs the queued inserts, each of which must add exactly one row.
func execInserts(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	br := tx.SendBatch(ctx, batch)
	for _, q := range batch.QueuedQueries {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return err
		}
		if tag.RowsAffected() != 1 {
			br.Close()
			return fmt.Errorf("%w: transaction %v already exists", apperrors.ErrConflict, q.Arguments[0])
		}
	}
	return br.Close()
}

func sameEntry(a, b model.Transaction) bool {
	return a.Type == b.Type && a.Amount.Equal(b.Amount) && a.Partner == b.Partner &&
		a.Account == b.Account && a.Reverses == b.Reverses
}

func checkpointColumns(cp *model.Checkpoint) (decimal.NullDecimal, *time.Time) {
	if cp == nil {
		return decimal.NullDecimal{}, nil
	}
	t := cp.Time
	return decimal.NewNullDecimal(cp.Balance), &t
}

func queueCounts(batch *pgx.Batch, d time.Time, checkpoint string, cp *model.Checkpoint) {
	if cp == nil {
		return
	}
	for _, row := range cp.Denominations {
		if row.Count <= 0 {
			continue
		}
		batch.Queue(`INSERT INTO day_denominations (date, checkpoint, denomination, count) VALUES ($1, $2, $3, $4)`,
			d, checkpoint, row.Denomination, row.Count)
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
