package accounts

import "github.com/cleared-dev/daybook/internal/model"

// Account describes one payment channel as shown to the user.
type Account struct {
	Key   model.PaymentAccount
	Label string
}

// DefaultAccounts returns every payment account the ledger understands.
func DefaultAccounts() []Account {
	return []Account{
		{Key: model.AccountCash, Label: "Cash"},
		{Key: model.AccountBank, Label: "Bank"},
		{Key: model.AccountCreditCard, Label: "Credit Card"},
		{Key: model.AccountUPI, Label: "UPI"},
	}
}
