package report

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func txn(t model.TxnType, amount string, acct model.PaymentAccount, paid bool) model.Transaction {
	return model.Transaction{Type: t, Amount: dec(amount), Partner: "p", Account: acct, Paid: paid}
}

func openStatus(opening string) model.DayStatus {
	return model.DayStatus{
		Date:    "2025-01-15",
		Phase:   model.PhaseOpen,
		Opening: &model.Checkpoint{Balance: dec(opening), Time: time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC)},
	}
}

func TestCalculateTotalsByAccount(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TxnSale, "15750", model.AccountCash, true),
		txn(model.TxnSale, "8950", model.AccountUPI, true),
		txn(model.TxnSale, "23400", model.AccountBank, true),
		txn(model.TxnSale, "12200", model.AccountCreditCard, true),
		txn(model.TxnPurchase, "500", model.AccountCash, true),
	}
	got := CalculateTotalsByAccount(txns, model.TxnSale)
	assert.Equal(t, "15750", got.Cash.String())
	assert.Equal(t, "23400", got.Bank.String())
	assert.Equal(t, "12200", got.CreditCard.String())
	assert.Equal(t, "8950", got.UPI.String())
	assert.Equal(t, "60300", got.Total.String())
	assert.Equal(t, "8950", got.For(model.AccountUPI).String())
	assert.True(t, got.For("cheque").IsZero())
}

func TestCalculateTotalsByAccount_ExcludesUnpaid(t *testing.T) {
	txns := []model.Transaction{
		txn(model.TxnPurchase, "200", model.AccountCash, false),
		txn(model.TxnPurchase, "12800", model.AccountCreditCard, false),
		txn(model.TxnPurchase, "100", model.AccountCash, true),
	}
	got := CalculateTotalsByAccount(txns, model.TxnPurchase)
	assert.Equal(t, "100", got.Cash.String())
	assert.True(t, got.CreditCard.IsZero())
	assert.Equal(t, "100", got.Total.String())

	assert.Equal(t, "13000", Unpaid(txns, model.TxnPurchase).String())
	assert.Equal(t, "100", PaidTotal(txns, model.TxnPurchase).String())
}

func TestPaidOnlyAggregation_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var txns []model.Transaction
	for i := 0; i < 200; i++ {
		txns = append(txns, model.Transaction{
			Type:    model.TxnTypes[rng.Intn(len(model.TxnTypes))],
			Amount:  decimal.NewFromInt(int64(rng.Intn(10000))),
			Account: model.PaymentAccounts[rng.Intn(len(model.PaymentAccounts))],
			Paid:    rng.Intn(3) != 0,
		})
	}

	for _, tt := range model.TxnTypes {
		want := decimal.Zero
		for _, x := range txns {
			if x.Type == tt && x.Paid {
				want = want.Add(x.Amount)
			}
		}
		got := CalculateTotalsByAccount(txns, tt)
		assert.True(t, want.Equal(got.Total), "type %s", tt)
		bucketSum := got.Cash.Add(got.Bank).Add(got.CreditCard).Add(got.UPI)
		assert.True(t, bucketSum.Equal(got.Total), "buckets sum to total for %s", tt)
	}
}

func TestExpectedCashAndGrossProfit(t *testing.T) {
	sales := Totals{Cash: dec("300"), Total: dec("1300")}
	purchases := Totals{Cash: dec("100"), Total: dec("400")}
	expenses := Totals{Cash: dec("50"), Total: dec("80")}

	assert.Equal(t, "1150", ExpectedCash(dec("1000"), sales, purchases, expenses).String())
	assert.Equal(t, "900", GrossProfit(sales, purchases).String(), "expenses are not deducted")
}

func TestReconcile(t *testing.T) {
	r := Reconcile(dec("1300"), dec("1250"))
	assert.Equal(t, "-50", r.Difference.String())
	assert.Equal(t, OutcomeShort, r.Outcome)

	r = Reconcile(dec("1300"), dec("1400"))
	assert.Equal(t, "100", r.Difference.String())
	assert.Equal(t, OutcomeExcess, r.Outcome)

	r = Reconcile(dec("1300"), dec("1300"))
	assert.True(t, r.Difference.IsZero())
	assert.Equal(t, OutcomeBalanced, r.Outcome)
}

func TestBuild_BasicDay(t *testing.T) {
	status := openStatus("1000")
	txns := []model.Transaction{
		txn(model.TxnSale, "300", model.AccountCash, true),
	}

	s := Build(status, txns)
	assert.Equal(t, "300", s.Sales.Cash.String())
	assert.Equal(t, "1300", s.ExpectedCash.String())
	require.NotNil(t, s.GrossProfit)
	assert.Equal(t, "300", s.GrossProfit.String())
	assert.Nil(t, s.Closing, "no reconciliation before close")
}

func TestBuild_UnpaidExclusion(t *testing.T) {
	status := openStatus("1000")
	txns := []model.Transaction{
		txn(model.TxnSale, "300", model.AccountCash, true),
		txn(model.TxnPurchase, "200", model.AccountCash, false),
	}

	s := Build(status, txns)
	assert.True(t, s.Purchases.Cash.IsZero())
	assert.Equal(t, "1300", s.ExpectedCash.String())
	assert.Equal(t, "200", s.Stats[model.TxnPurchase].Unpaid.String())
	assert.Equal(t, 1, s.Stats[model.TxnPurchase].Count)
}

func TestBuild_ClosedDayReconciliation(t *testing.T) {
	status := openStatus("1000")
	status.Phase = model.PhaseClosed
	status.Closing = &model.Checkpoint{Balance: dec("1250")}
	txns := []model.Transaction{
		txn(model.TxnSale, "300", model.AccountCash, true),
	}

	s := Build(status, txns)
	require.NotNil(t, s.Closing)
	assert.Equal(t, "-50", s.Closing.Difference.String())
	assert.Equal(t, OutcomeShort, s.Closing.Outcome)
}

func TestBuild_AccountNetAndStats(t *testing.T) {
	status := openStatus("0")
	up := txn(model.TxnExpense, "40", model.AccountUPI, true)
	up.FromUpload = true
	txns := []model.Transaction{
		txn(model.TxnSale, "100", model.AccountUPI, true),
		txn(model.TxnPurchase, "30", model.AccountUPI, true),
		up,
	}

	s := Build(status, txns)
	require.Len(t, s.Accounts, 4)
	var upi AccountNet
	for _, a := range s.Accounts {
		if a.Account == model.AccountUPI {
			upi = a
		}
	}
	assert.Equal(t, "30", upi.Net.String())
	assert.Equal(t, 1, s.Stats[model.TxnExpense].FromUpload)
	assert.Equal(t, 0, s.Stats[model.TxnExpense].Manual)
	assert.Equal(t, 1, s.Stats[model.TxnSale].Manual)
}

func TestBuild_ReversalNetsOut(t *testing.T) {
	status := openStatus("1000")
	orig := txn(model.TxnSale, "300", model.AccountCash, true)
	orig.ID = "20250115-001"
	rev := txn(model.TxnSale, "-300", model.AccountCash, true)
	rev.Reverses = orig.ID

	s := Build(status, []model.Transaction{orig, rev})
	assert.True(t, s.Sales.Total.IsZero())
	assert.Equal(t, "1000", s.ExpectedCash.String())
}

func TestBuild_Idempotent(t *testing.T) {
	status := openStatus("25000")
	txns := []model.Transaction{
		txn(model.TxnSale, "6800", model.AccountCash, true),
		txn(model.TxnExpense, "1850", model.AccountCash, true),
		txn(model.TxnPurchase, "18500", model.AccountCash, true),
	}
	first := Build(status, txns)
	for i := 0; i < 3; i++ {
		again := Build(status, txns)
		assert.True(t, first.ExpectedCash.Equal(again.ExpectedCash))
	}
	assert.Equal(t, "11450", first.ExpectedCash.String())
}
