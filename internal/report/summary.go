package report

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/model"
)

// Outcome classifies a cash reconciliation.
type Outcome string

const (
	OutcomeBalanced Outcome = "balanced"
	OutcomeExcess   Outcome = "excess"
	OutcomeShort    Outcome = "short"
)

// Reconciliation compares counted cash with the cash the ledger expects.
type Reconciliation struct {
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Difference decimal.Decimal `json:"difference"` // positive = excess, negative = shortage
	Outcome    Outcome         `json:"outcome"`
}

// Reconcile computes actual - expected.
func Reconcile(expected, actual decimal.Decimal) Reconciliation {
	diff := actual.Sub(expected)
	outcome := OutcomeBalanced
	switch diff.Sign() {
	case 1:
		outcome = OutcomeExcess
	case -1:
		outcome = OutcomeShort
	}
	return Reconciliation{Expected: expected, Actual: actual, Difference: diff, Outcome: outcome}
}

// AccountNet is the net flow through one payment account.
type AccountNet struct {
	Account   model.PaymentAccount `json:"account"`
	Sales     decimal.Decimal      `json:"sales"`
	Purchases decimal.Decimal      `json:"purchases"`
	Expenses  decimal.Decimal      `json:"expenses"`
	Net       decimal.Decimal      `json:"net"`
}

// TypeStats describes the entries of one transaction type.
type TypeStats struct {
	Count      int             `json:"count"`
	Paid       decimal.Decimal `json:"paid"`
	Unpaid     decimal.Decimal `json:"unpaid"`
	FromUpload int             `json:"from_upload"`
	Manual     int             `json:"manual"`
}

// Summary is the day view. Every field is derived from the status and the
// transaction list at call time.
type Summary struct {
	Date           string                      `json:"date"`
	Phase          model.Phase                 `json:"phase"`
	OpeningBalance decimal.Decimal             `json:"opening_balance"`
	Sales          Totals                      `json:"sales"`
	Purchases      Totals                      `json:"purchases"`
	Expenses       Totals                      `json:"expenses"`
	Stats          map[model.TxnType]TypeStats `json:"stats"`
	Accounts       []AccountNet                `json:"accounts"`
	ExpectedCash   decimal.Decimal             `json:"expected_cash"`
	GrossProfit    *decimal.Decimal            `json:"gross_profit,omitempty"`
	Closing        *Reconciliation             `json:"closing,omitempty"`
}

// Build derives the summary for a day. Gross profit is always populated;
// callers hide it for roles that may not see it.
func Build(status model.DayStatus, txns []model.Transaction) Summary {
	sales := CalculateTotalsByAccount(txns, model.TxnSale)
	purchases := CalculateTotalsByAccount(txns, model.TxnPurchase)
	expenses := CalculateTotalsByAccount(txns, model.TxnExpense)

	expected := ExpectedCash(status.OpeningBalance(), sales, purchases, expenses)
	profit := GrossProfit(sales, purchases)

	s := Summary{
		Date:           status.Date,
		Phase:          status.Phase,
		OpeningBalance: status.OpeningBalance(),
		Sales:          sales,
		Purchases:      purchases,
		Expenses:       expenses,
		Stats:          make(map[model.TxnType]TypeStats, len(model.TxnTypes)),
		ExpectedCash:   expected,
		GrossProfit:    &profit,
	}

	for _, tt := range model.TxnTypes {
		s.Stats[tt] = typeStats(txns, tt)
	}

	for _, acct := range model.PaymentAccounts {
		net := sales.For(acct).Sub(purchases.For(acct)).Sub(expenses.For(acct))
		s.Accounts = append(s.Accounts, AccountNet{
			Account:   acct,
			Sales:     sales.For(acct),
			Purchases: purchases.For(acct),
			Expenses:  expenses.For(acct),
			Net:       net,
		})
	}

	if status.IsClosed() {
		r := Reconcile(expected, status.ClosingBalance())
		s.Closing = &r
	}

	return s
}

func typeStats(txns []model.Transaction, txnType model.TxnType) TypeStats {
	st := TypeStats{Paid: decimal.Zero, Unpaid: decimal.Zero}
	for _, t := range txns {
		if t.Type != txnType {
			continue
		}
		st.Count++
		if t.Paid {
			st.Paid = st.Paid.Add(t.Amount)
		} else {
			st.Unpaid = st.Unpaid.Add(t.Amount)
		}
		if t.FromUpload {
			st.FromUpload++
		} else {
			st.Manual++
		}
	}
	return st
}
