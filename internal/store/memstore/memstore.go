// Package memstore keeps day records in process memory.
package memstore

import (
	"context"
	"sync"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

// Store is a daybook.Store backed by a map. The zero value is not usable;
// call New.
type Store struct {
	mu   sync.RWMutex
	days map[string]daybook.Record
}

var _ daybook.Store = (*Store)(nil)

// New returns an empty Store.
func New() *Store {
	return &Store{days: make(map[string]daybook.Record)}
}

// Load implements daybook.Store.
func (s *Store) Load(_ context.Context, date string) (daybook.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.days[date]
	if !ok {
		return daybook.Record{}, false, nil
	}
	return clone(rec), true, nil
}

// SaveStatus implements daybook.Store.
func (s *Store) SaveStatus(_ context.Context, date string, status model.DayStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.days[date]
	rec.Status = cloneStatus(status)
	s.days[date] = rec
	return nil
}

// SaveTransactions implements daybook.Store.
func (s *Store) SaveTransactions(_ context.Context, date string, txns []model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		rec.Status = model.NewDayStatus(date)
	}
	rec.Transactions = append([]model.Transaction(nil), txns...)
	s.days[date] = rec
	return nil
}

// Dates returns every stored date in no particular order.
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	return out
}

func clone(rec daybook.Record) daybook.Record {
	return daybook.Record{
		Status:       cloneStatus(rec.Status),
		Transactions: append([]model.Transaction(nil), rec.Transactions...),
	}
}

func cloneStatus(s model.DayStatus) model.DayStatus {
	out := s
	out.Opening = cloneCheckpoint(s.Opening)
	out.Closing = cloneCheckpoint(s.Closing)
	return out
}

func cloneCheckpoint(cp *model.Checkpoint) *model.Checkpoint {
	if cp == nil {
		return nil
	}
	c := *cp
	c.Denominations = append([]model.DenominationCount(nil), cp.Denominations...)
	return &c
}
