package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/report"
)

func TestDemo(t *testing.T) {
	rec := Demo("2025-01-15", time.UTC)

	require.NoError(t, rec.Status.Validate())
	assert.Equal(t, model.PhaseOpen, rec.Status.Phase)
	assert.Equal(t, "25000", rec.Status.OpeningBalance().String())
	assert.Equal(t, time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC), rec.Status.Opening.Time)

	require.Len(t, rec.Transactions, 14)
	assert.Equal(t, "20250115-001", rec.Transactions[0].ID)
	assert.Equal(t, "20250115-014", rec.Transactions[13].ID)
	assert.Equal(t, "02:45 PM", rec.Transactions[3].DisplayTime())
	assert.Empty(t, daybook.ValidateLedger("2025-01-15", rec.Transactions))
}

func TestDemo_Totals(t *testing.T) {
	rec := Demo("2025-01-15", time.UTC)
	sum := report.Build(rec.Status, rec.Transactions)

	assert.Equal(t, "67100", sum.Sales.Total.String())
	assert.Equal(t, "71700", sum.Purchases.Total.String(), "unpaid credit card purchase excluded")
	assert.Equal(t, "12800", sum.Stats[model.TxnPurchase].Unpaid.String())
	assert.Equal(t, "9600", sum.Expenses.Total.String())
	assert.Equal(t, "25050", sum.ExpectedCash.String())
	assert.Equal(t, 5, sum.Stats[model.TxnExpense].FromUpload)
	assert.Equal(t, 5, sum.Stats[model.TxnSale].Manual)
}

func TestDemo_Independent(t *testing.T) {
	a := Demo("2025-01-15", time.UTC)
	a.Status.Opening.Denominations[0].Count = 0

	b := Demo("2025-01-15", time.UTC)
	assert.Equal(t, 10, b.Status.Opening.Denominations[0].Count)
}
