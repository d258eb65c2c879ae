package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TxnType classifies a daybook entry.
type TxnType string

const (
	TxnPurchase TxnType = "purchase"
	TxnSale     TxnType = "sale"
	TxnExpense  TxnType = "expense"
)

// TxnTypes lists every transaction type in display order.
var TxnTypes = []TxnType{TxnPurchase, TxnSale, TxnExpense}

// Valid reports whether t is a known transaction type.
func (t TxnType) Valid() bool {
	switch t {
	case TxnPurchase, TxnSale, TxnExpense:
		return true
	}
	return false
}

// ParseTxnType parses a transaction type name.
func ParseTxnType(s string) (TxnType, error) {
	t := TxnType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// PaymentAccount is the channel money moved through.
type PaymentAccount string

const (
	AccountCash       PaymentAccount = "cash"
	AccountBank       PaymentAccount = "bank"
	AccountCreditCard PaymentAccount = "credit_card"
	AccountUPI        PaymentAccount = "upi"
)

// PaymentAccounts lists every payment account in display order.
var PaymentAccounts = []PaymentAccount{AccountCash, AccountBank, AccountCreditCard, AccountUPI}

// Valid reports whether a is a known payment account.
func (a PaymentAccount) Valid() bool {
	switch a {
	case AccountCash, AccountBank, AccountCreditCard, AccountUPI:
		return true
	}
	return false
}

// ParsePaymentAccount parses a payment account name.
func ParsePaymentAccount(s string) (PaymentAccount, error) {
	a := PaymentAccount(s)
	if !a.Valid() {
		return "", fmt.Errorf("unknown payment account %q", s)
	}
	return a, nil
}

// Transaction is one row of a day's ledger. Rows are never mutated after
// creation; corrections are appended as reversal entries.
type Transaction struct {
	ID          string
	Type        TxnType
	Amount      decimal.Decimal // negative only on reversal entries
	Partner     string
	Account     PaymentAccount
	Description string
	Time        time.Time
	Paid        bool
	FromUpload  bool
	Reverses    string // ID of the offset entry, empty otherwise
}

// IsReversal reports whether the transaction offsets an earlier entry.
func (t Transaction) IsReversal() bool {
	return t.Reverses != ""
}

// DisplayTime formats the entry time the way the day view shows it.
func (t Transaction) DisplayTime() string {
	if t.Time.IsZero() {
		return ""
	}
	return t.Time.Format(TimeLayout)
}

// TimeLayout is the human-readable clock format used for entries and checkpoints.
const TimeLayout = "03:04 PM"
