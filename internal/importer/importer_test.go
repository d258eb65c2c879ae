package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/store/memstore"
)

const chaseHeader = "Details,Posting Date,Description,Amount,Type,Balance,Check or Slip #\n"

func parseFile(t *testing.T, p Parser, name string) []Draft {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	drafts, err := p.Parse(f)
	require.NoError(t, err)
	return drafts
}

func TestChaseParser_Parse(t *testing.T) {
	drafts := parseFile(t, &ChaseParser{}, "chase_checking.csv")
	require.Len(t, drafts, 6)

	first := drafts[0]
	assert.Equal(t, "2025-01-03", first.Date)
	assert.Equal(t, model.TxnExpense, first.Entry.Type)
	assert.Equal(t, "4.00", first.Entry.Amount.Decimal.StringFixed(2))
	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", first.Entry.Partner)
	assert.Equal(t, model.AccountBank, first.Entry.Account)
	assert.Equal(t, "ACH_DEBIT chase_20250103_GITHUBPROS", first.Entry.Description)
	assert.True(t, first.Entry.Paid)
	assert.True(t, first.Entry.FromUpload)

	income := drafts[3]
	assert.Equal(t, model.TxnSale, income.Entry.Type)
	assert.Equal(t, "3500.00", income.Entry.Amount.Decimal.StringFixed(2))

	assert.Equal(t, "2025-01-22", drafts[5].Date)
}

func TestChaseParser_AmountsAreNonNegative(t *testing.T) {
	for _, d := range parseFile(t, &ChaseParser{}, "chase_checking.csv") {
		assert.False(t, d.Entry.Amount.Decimal.IsNegative(), d.Entry.Partner)
		assert.Empty(t, daybook.ValidateNew(d.Entry, nil), d.Entry.Partner)
	}
}

func TestChaseParser_EmptyFile(t *testing.T) {
	drafts, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, drafts)
}

func TestChaseParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad date", "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,", "parsing date"},
		{"bad amount", "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,", "parsing amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "row 2")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDocumentsParser_Parse(t *testing.T) {
	drafts := parseFile(t, &DocumentsParser{}, "documents.csv")
	require.Len(t, drafts, 4)

	assert.Equal(t, "2025-01-15", drafts[0].Date)
	assert.Equal(t, model.TxnPurchase, drafts[0].Entry.Type)
	assert.Equal(t, "45000", drafts[0].Entry.Amount.Decimal.String())

	assert.Empty(t, drafts[1].Date)
	assert.False(t, drafts[1].Entry.Paid)
	assert.Equal(t, model.AccountCreditCard, drafts[1].Entry.Account)

	assert.True(t, drafts[2].Entry.Paid, "blank paid column means paid")
	assert.False(t, drafts[3].Entry.Amount.Valid)
}

func TestDocumentsParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"bad type", "2025-01-15,refund,10,x,cash,,true", "unknown transaction type"},
		{"bad account", "2025-01-15,sale,10,x,cheque,,true", "unknown payment account"},
		{"bad date", "15/01/2025,sale,10,x,cash,,true", "row 2"},
		{"bad paid", ",sale,10,x,cash,,sometimes", "parsing paid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&DocumentsParser{}).Parse(strings.NewReader(DocumentsHeader + "\n" + tt.row + "\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))

	r.Register(&ChaseParser{})
	require.NotNil(t, r.Get("Chase"))
	assert.NotNil(t, r.Get("CHASE"))
	assert.Panics(t, func() { r.Register(&ChaseParser{}) })

	assert.Equal(t, []string{"chase", "documents"}, DefaultRegistry().Formats())
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	svc := daybook.NewService(memstore.New(), daybook.StaticRole(model.RoleUser),
		daybook.WithClock(func() time.Time { return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC) }))
	_, err := svc.Open(ctx, "2025-01-15", []model.DenominationCount{{Denomination: 2000, Count: 5}})
	require.NoError(t, err)

	drafts := parseFile(t, &DocumentsParser{}, "documents.csv")
	res, err := Apply(ctx, svc, "2025-01-15", drafts)
	require.NoError(t, err)

	require.Len(t, res.Added, 3)
	for _, txn := range res.Added {
		assert.True(t, txn.FromUpload)
	}
	require.Len(t, res.Failed, 1)
	assert.Equal(t, 5, res.Failed[0].Row)
	assert.ErrorIs(t, res.Failed[0].Err, apperrors.ErrValidation)

	sum, err := svc.Summary(ctx, "2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, 3, sum.Stats[model.TxnPurchase].FromUpload+sum.Stats[model.TxnExpense].FromUpload)
	assert.Equal(t, "9050", sum.ExpectedCash.String())
}

func TestApply_DayNotOpen(t *testing.T) {
	svc := daybook.NewService(memstore.New(), daybook.StaticRole(model.RoleUser))
	drafts := parseFile(t, &ChaseParser{}, "chase_checking.csv")

	res, err := Apply(context.Background(), svc, "2025-01-15", drafts)
	require.NoError(t, err)
	assert.Empty(t, res.Added)
	require.Len(t, res.Failed, 6)
	assert.ErrorIs(t, res.Failed[0].Err, daybook.ErrDayNotOpen)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, "import", "processed")
	require.NoError(t, os.MkdirAll(processed, 0o755))

	for _, name := range []string{"b.csv", "a.CSV", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "import", name), []byte("data"), 0o644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.csv"), []byte("data"), 0o644))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.CSV", files[0].Name)
	assert.Equal(t, "b.csv", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_NoImportDir(t *testing.T) {
	files, err := Scan(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "import"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "import", "bank.csv"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, "bank.csv"))

	_, err := os.Stat(filepath.Join(dir, "import", "bank.csv"))
	assert.True(t, os.IsNotExist(err))
	assert.FileExists(t, filepath.Join(dir, "import", "processed", "bank.csv"))
}
