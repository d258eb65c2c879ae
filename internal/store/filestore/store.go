// Package filestore keeps each business date in its own directory under a
// repository root: <root>/YYYY/MM/DD/day.yaml and transactions.csv.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

const (
	statusFileName       = "day.yaml"
	transactionsFileName = "transactions.csv"
)

// Store is a daybook.Store on the local filesystem.
type Store struct {
	repoRoot string
}

var _ daybook.Store = (*Store)(nil)

// New returns a Store rooted at repoRoot.
func New(repoRoot string) *Store {
	return &Store{repoRoot: repoRoot}
}

// DayDir returns the directory holding a date's files.
func (s *Store) DayDir(date string) string {
	parts := strings.SplitN(date, "-", 3)
	return filepath.Join(append([]string{s.repoRoot}, parts...)...)
}

// Load implements daybook.Store.
func (s *Store) Load(_ context.Context, date string) (daybook.Record, bool, error) {
	dir := s.DayDir(date)
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return daybook.Record{}, false, nil
	}

	rec := daybook.Record{Status: model.NewDayStatus(date)}

	statusPath := filepath.Join(dir, statusFileName)
	data, err := os.ReadFile(statusPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return daybook.Record{}, false, fmt.Errorf("reading %s: %w", statusPath, err)
	default:
		status, err := UnmarshalStatus(data)
		if err != nil {
			return daybook.Record{}, false, fmt.Errorf("reading %s: %w", statusPath, err)
		}
		if status.Date != date {
			return daybook.Record{}, false, fmt.Errorf("reading %s: holds date %s", statusPath, status.Date)
		}
		rec.Status = status
	}

	txnPath := filepath.Join(dir, transactionsFileName)
	f, err := os.Open(txnPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return daybook.Record{}, false, fmt.Errorf("opening %s: %w", txnPath, err)
	default:
		defer f.Close()
		txns, err := ReadTransactions(f)
		if err != nil {
			return daybook.Record{}, false, fmt.Errorf("reading %s: %w", txnPath, err)
		}
		rec.Transactions = txns
	}

	return rec, true, nil
}

// SaveStatus implements daybook.Store.
func (s *Store) SaveStatus(_ context.Context, date string, status model.DayStatus) error {
	data, err := MarshalStatus(status)
	if err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.DayDir(date), statusFileName), data)
}

// SaveTransactions implements daybook.Store.
func (s *Store) SaveTransactions(_ context.Context, date string, txns []model.Transaction) error {
	var buf bytes.Buffer
	if err := WriteTransactions(&buf, txns); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(s.DayDir(date), transactionsFileName), buf.Bytes())
}

// writeAtomic replaces path with data via a temp file and rename, so a
// reader never sees a half-written file.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating day dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("setting mode on %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
