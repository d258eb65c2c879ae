// Package storetest holds behavior every daybook.Store must share.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

// Date is the business date the suite writes to.
const Date = "2025-01-15"

var (
	openedAt = time.Date(2025, 1, 15, 8, 30, 0, 0, time.UTC)
	closedAt = time.Date(2025, 1, 15, 21, 0, 0, 0, time.UTC)
)

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) daybook.Store) {
	t.Run("MissingDate", func(t *testing.T) {
		s := newStore(t)
		_, found, err := s.Load(context.Background(), Date)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("StatusRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		status := ClosedStatus()
		require.NoError(t, s.SaveStatus(ctx, Date, status))

		rec, found, err := s.Load(ctx, Date)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, model.PhaseClosed, rec.Status.Phase)
		assert.Equal(t, Date, rec.Status.Date)
		require.NotNil(t, rec.Status.Opening)
		require.NotNil(t, rec.Status.Closing)
		assert.True(t, decimal.NewFromInt(1000).Equal(rec.Status.Opening.Balance))
		assert.True(t, decimal.NewFromInt(1250).Equal(rec.Status.Closing.Balance))
		assert.True(t, openedAt.Equal(rec.Status.Opening.Time))
		assert.True(t, closedAt.Equal(rec.Status.Closing.Time))
		assert.Equal(t, []model.DenominationCount{{Denomination: 500, Count: 2}}, rec.Status.Opening.Denominations)
		assert.Equal(t, []model.DenominationCount{
			{Denomination: 500, Count: 2},
			{Denomination: 200, Count: 1},
			{Denomination: 50, Count: 1},
		}, rec.Status.Closing.Denominations)
		assert.Empty(t, rec.Transactions)
	})

	t.Run("StatusOverwrite", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveStatus(ctx, Date, OpenStatus()))
		require.NoError(t, s.SaveStatus(ctx, Date, ClosedStatus()))

		rec, _, err := s.Load(ctx, Date)
		require.NoError(t, err)
		assert.Equal(t, model.PhaseClosed, rec.Status.Phase)
	})

	t.Run("TransactionsRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveStatus(ctx, Date, OpenStatus()))
		txns := Transactions()
		require.NoError(t, s.SaveTransactions(ctx, Date, txns[:1]))
		require.NoError(t, s.SaveTransactions(ctx, Date, txns))

		rec, found, err := s.Load(ctx, Date)
		require.NoError(t, err)
		require.True(t, found)
		require.Len(t, rec.Transactions, len(txns))
		for i, want := range txns {
			got := rec.Transactions[i]
			assert.Equal(t, want.ID, got.ID)
			assert.Equal(t, want.Type, got.Type)
			assert.True(t, want.Amount.Equal(got.Amount), "amount %s != %s", want.Amount, got.Amount)
			assert.Equal(t, want.Partner, got.Partner)
			assert.Equal(t, want.Account, got.Account)
			assert.Equal(t, want.Description, got.Description)
			assert.True(t, want.Time.Equal(got.Time))
			assert.Equal(t, want.Paid, got.Paid)
			assert.Equal(t, want.FromUpload, got.FromUpload)
			assert.Equal(t, want.Reverses, got.Reverses)
		}
	})

	t.Run("DatesAreIndependent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		require.NoError(t, s.SaveStatus(ctx, Date, OpenStatus()))
		_, found, err := s.Load(ctx, "2025-01-16")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

// OpenStatus is an open day with ₹1,000 counted as two 500 notes.
func OpenStatus() model.DayStatus {
	return model.DayStatus{
		Date:  Date,
		Phase: model.PhaseOpen,
		Opening: &model.Checkpoint{
			Balance:       decimal.NewFromInt(1000),
			Denominations: []model.DenominationCount{{Denomination: 500, Count: 2}},
			Time:          openedAt,
		},
	}
}

// ClosedStatus is OpenStatus closed with ₹1,250.
func ClosedStatus() model.DayStatus {
	s := OpenStatus()
	s.Phase = model.PhaseClosed
	s.Closing = &model.Checkpoint{
		Balance: decimal.NewFromInt(1250),
		Denominations: []model.DenominationCount{
			{Denomination: 500, Count: 2},
			{Denomination: 200, Count: 1},
			{Denomination: 50, Count: 1},
		},
		Time: closedAt,
	}
	return s
}

// Transactions covers every stored field, including a reversal.
func Transactions() []model.Transaction {
	return []model.Transaction{
		{
			ID: "20250115-001", Type: model.TxnSale, Amount: decimal.NewFromInt(300),
			Partner: "Walk-in, counter 2", Account: model.AccountCash, Description: "tea \"special\"",
			Time: openedAt.Add(time.Hour), Paid: true,
		},
		{
			ID: "20250115-002", Type: model.TxnPurchase, Amount: decimal.RequireFromString("12800.50"),
			Partner: "Metro Wholesale", Account: model.AccountCreditCard,
			Time: openedAt.Add(2 * time.Hour), Paid: false, FromUpload: true,
		},
		{
			ID: "20250115-003", Type: model.TxnSale, Amount: decimal.NewFromInt(-300),
			Partner: "Walk-in, counter 2", Account: model.AccountCash, Description: "Reversal of 20250115-001",
			Time: openedAt.Add(3 * time.Hour), Paid: true, Reverses: "20250115-001",
		},
	}
}
