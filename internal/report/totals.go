package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/model"
)

// Totals holds per-account sums for one transaction type.
type Totals struct {
	Cash       decimal.Decimal `json:"cash"`
	Bank       decimal.Decimal `json:"bank"`
	CreditCard decimal.Decimal `json:"credit_card"`
	UPI        decimal.Decimal `json:"upi"`
	Total      decimal.Decimal `json:"total"`
}

// For returns the bucket for a payment account.
func (t Totals) For(account model.PaymentAccount) decimal.Decimal {
	switch account {
	case model.AccountCash:
		return t.Cash
	case model.AccountBank:
		return t.Bank
	case model.AccountCreditCard:
		return t.CreditCard
	case model.AccountUPI:
		return t.UPI
	}
	return decimal.Zero
}

func (t *Totals) add(account model.PaymentAccount, amount decimal.Decimal) {
	switch account {
	case model.AccountCash:
		t.Cash = t.Cash.Add(amount)
	case model.AccountBank:
		t.Bank = t.Bank.Add(amount)
	case model.AccountCreditCard:
		t.CreditCard = t.CreditCard.Add(amount)
	case model.AccountUPI:
		t.UPI = t.UPI.Add(amount)
	default:
		return
	}
	t.Total = t.Total.Add(amount)
}

// CalculateTotalsByAccount sums the paid transactions of one type per account.
// Unpaid entries contribute to no bucket.
func CalculateTotalsByAccount(txns []model.Transaction, txnType model.TxnType) Totals {
	var totals Totals
	for _, t := range txns {
		if t.Type != txnType || !t.Paid {
			continue
		}
		totals.add(t.Account, t.Amount)
	}
	return totals
}

// PaidTotal returns the sum of paid entries of one type.
func PaidTotal(txns []model.Transaction, txnType model.TxnType) decimal.Decimal {
	return CalculateTotalsByAccount(txns, txnType).Total
}

// Unpaid returns the outstanding sum of one type.
func Unpaid(txns []model.Transaction, txnType model.TxnType) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txns {
		if t.Type == txnType && !t.Paid {
			sum = sum.Add(t.Amount)
		}
	}
	return sum
}

// ExpectedCash is the cash that should be in the drawer:
// opening + cash sales - cash purchases - cash expenses.
func ExpectedCash(opening decimal.Decimal, sales, purchases, expenses Totals) decimal.Decimal {
	return opening.Add(sales.Cash).Sub(purchases.Cash).Sub(expenses.Cash)
}

// GrossProfit is sales minus purchases. Operating expenses are not deducted.
func GrossProfit(sales, purchases Totals) decimal.Decimal {
	return sales.Total.Sub(purchases.Total)
}
