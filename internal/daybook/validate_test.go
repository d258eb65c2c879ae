package daybook

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/daybook/internal/model"
)

func TestValidateNew(t *testing.T) {
	valid := NewEntry(model.TxnSale, decimal.RequireFromString("10.50"), "Walk-in", model.AccountCash)
	assert.Empty(t, ValidateNew(valid, nil))

	tests := []struct {
		name  string
		edit  func(*NewTransaction)
		field string
	}{
		{"unknown type", func(n *NewTransaction) { n.Type = "refund" }, "type"},
		{"missing amount", func(n *NewTransaction) { n.Amount = decimal.NullDecimal{} }, "amount"},
		{"negative amount", func(n *NewTransaction) { n.Amount = decimal.NewNullDecimal(decimal.NewFromInt(-1)) }, "amount"},
		{"sub-paisa amount", func(n *NewTransaction) { n.Amount = decimal.NewNullDecimal(decimal.RequireFromString("1.005")) }, "amount"},
		{"blank partner", func(n *NewTransaction) { n.Partner = "\t" }, "partner"},
		{"unknown account", func(n *NewTransaction) { n.Account = "cheque" }, "account"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.edit(&in)
			errs := ValidateNew(in, nil)
			if assert.Len(t, errs, 1) {
				assert.Equal(t, tt.field, errs[0].Field)
			}
		})
	}
}

func TestValidateNew_ZeroAmountAllowed(t *testing.T) {
	in := NewEntry(model.TxnExpense, decimal.Zero, "Petty", model.AccountCash)
	assert.Empty(t, ValidateNew(in, nil))
}

func TestValidateLedger(t *testing.T) {
	good := []model.Transaction{
		{ID: "20250115-001", Amount: decimal.NewFromInt(300)},
		{ID: "20250115-002", Amount: decimal.NewFromInt(-300), Reverses: "20250115-001"},
	}
	assert.Empty(t, ValidateLedger("2025-01-15", good))

	tests := []struct {
		name string
		txns []model.Transaction
		want string
	}{
		{"bad id", []model.Transaction{{ID: "T-1"}}, "invalid transaction ID"},
		{"wrong date", []model.Transaction{{ID: "20250116-001"}}, "is not dated 2025-01-15"},
		{"duplicate", []model.Transaction{{ID: "20250115-001"}, {ID: "20250115-001"}}, "duplicate id"},
		{"dangling reversal", []model.Transaction{{ID: "20250115-001", Reverses: "20250115-009"}}, "reverses unknown entry"},
		{"double reversal", append(append([]model.Transaction{}, good...), model.Transaction{ID: "20250115-003", Reverses: "20250115-001"}), "reversed twice"},
		{"reversal of reversal", append(append([]model.Transaction{}, good...), model.Transaction{ID: "20250115-003", Reverses: "20250115-002"}), "reverses reversal"},
		{"negative entry", []model.Transaction{{ID: "20250115-001", Amount: decimal.NewFromInt(-5)}}, "negative amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateLedger("2025-01-15", tt.txns)
			if assert.NotEmpty(t, errs) {
				assert.Contains(t, errs.Error(), tt.want)
			}
		})
	}
}

func TestEditable(t *testing.T) {
	notStarted := model.NewDayStatus("2025-01-15")
	open := model.DayStatus{Date: "2025-01-15", Phase: model.PhaseOpen, Opening: &model.Checkpoint{}}
	closed := model.DayStatus{Date: "2025-01-15", Phase: model.PhaseClosed, Opening: &model.Checkpoint{}, Closing: &model.Checkpoint{}}

	assert.False(t, Editable(notStarted, model.RoleAccountant))
	assert.True(t, Editable(open, model.RoleUser))
	assert.False(t, Editable(closed, model.RoleOwner))
	assert.True(t, Editable(closed, model.RoleAccountant))
}
