package accounts

import (
	"fmt"

	"github.com/cleared-dev/daybook/internal/model"
)

// Service provides lookup over the payment accounts a business accepts.
type Service struct {
	accounts []Account
	byKey    map[model.PaymentAccount]Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []Account) *Service {
	byKey := make(map[model.PaymentAccount]Account, len(accounts))
	for _, a := range accounts {
		byKey[a.Key] = a
	}
	return &Service{accounts: accounts, byKey: byKey}
}

// FromNames restricts the default accounts to the given keys, keeping
// display order. An empty list enables every account.
func FromNames(names []string) (*Service, error) {
	all := DefaultAccounts()
	if len(names) == 0 {
		return NewService(all), nil
	}

	want := make(map[model.PaymentAccount]bool, len(names))
	for _, n := range names {
		key, err := model.ParsePaymentAccount(n)
		if err != nil {
			return nil, fmt.Errorf("configuring accounts: %w", err)
		}
		want[key] = true
	}

	var enabled []Account
	for _, a := range all {
		if want[a.Key] {
			enabled = append(enabled, a)
		}
	}
	return NewService(enabled), nil
}

// All returns the enabled accounts in display order.
func (s *Service) All() []Account {
	return s.accounts
}

// Get returns an account by key.
func (s *Service) Get(key model.PaymentAccount) (Account, bool) {
	a, ok := s.byKey[key]
	return a, ok
}

// Enabled reports whether entries may be recorded against the account.
func (s *Service) Enabled(key model.PaymentAccount) bool {
	_, ok := s.byKey[key]
	return ok
}

// Label returns the display label for a key, or the key itself if unknown.
func (s *Service) Label(key model.PaymentAccount) string {
	if a, ok := s.byKey[key]; ok {
		return a.Label
	}
	return string(key)
}
