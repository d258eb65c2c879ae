package httpapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/cashcount"
	"github.com/cleared-dev/daybook/internal/daybook"
	"github.com/cleared-dev/daybook/internal/model"
)

// CountInput is a raw count as typed into a tally field. It accepts a JSON
// number or string; anything that is not a whole number counts as zero.
type CountInput string

// UnmarshalJSON implements json.Unmarshaler.
func (c *CountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = CountInput(s)
	default:
		*c = CountInput(data)
	}
	return nil
}

// CountRequest is one row of a cash count.
type CountRequest struct {
	Denomination int64      `json:"denomination" binding:"required,denomination"`
	Count        CountInput `json:"count"`
}

// CountsRequest is the body of open, close and reconcile.
type CountsRequest struct {
	Counts []CountRequest `json:"counts" binding:"dive"`
}

// entries coerces the rows through a counter, so negative or malformed counts
// become zero and a repeated denomination keeps its last count.
func (r CountsRequest) entries() []model.DenominationCount {
	counter := cashcount.New()
	for _, row := range r.Counts {
		// Denominations are checked on bind.
		_ = counter.SetCountInput(row.Denomination, string(row.Count))
	}
	return counter.NonZeroEntries()
}

// AddTransactionRequest is the body of POST /days/:date/transactions.
// Paid defaults to true when omitted.
type AddTransactionRequest struct {
	Type        string      `json:"type" binding:"required,txntype"`
	Amount      json.Number `json:"amount" binding:"required,nonnegative"`
	Partner     string      `json:"partner" binding:"required"`
	Account     string      `json:"account" binding:"required,payaccount"`
	Description string      `json:"description"`
	Paid        *bool       `json:"paid"`
}

func (r AddTransactionRequest) draft() daybook.NewTransaction {
	in := daybook.NewTransaction{
		Type:        model.TxnType(r.Type),
		Partner:     r.Partner,
		Account:     model.PaymentAccount(r.Account),
		Description: r.Description,
		Paid:        r.Paid == nil || *r.Paid,
	}
	if d, err := decimal.NewFromString(r.Amount.String()); err == nil {
		in.Amount = decimal.NewNullDecimal(d)
	}
	return in
}

// ReverseRequest is the optional body of the reverse endpoint.
type ReverseRequest struct {
	Reason string `json:"reason"`
}

// CountResponse is a non-zero denomination row.
type CountResponse struct {
	Denomination int64           `json:"denomination"`
	Count        int             `json:"count"`
	Total        decimal.Decimal `json:"total"`
}

// CheckpointResponse is a frozen opening or closing count.
type CheckpointResponse struct {
	Balance       decimal.Decimal `json:"balance"`
	Denominations []CountResponse `json:"denominations"`
	Time          time.Time       `json:"time"`
}

// TransactionResponse is one ledger entry.
type TransactionResponse struct {
	ID          string               `json:"id"`
	Time        time.Time            `json:"time"`
	DisplayTime string               `json:"display_time"`
	Type        model.TxnType        `json:"type"`
	Amount      decimal.Decimal      `json:"amount"`
	Partner     string               `json:"partner"`
	Account     model.PaymentAccount `json:"account"`
	Description string               `json:"description,omitempty"`
	Paid        bool                 `json:"paid"`
	FromUpload  bool                 `json:"from_upload"`
	Reverses    string               `json:"reverses,omitempty"`
}

// StatusResponse is a day's lifecycle state.
type StatusResponse struct {
	Date       string              `json:"date"`
	Phase      model.Phase         `json:"phase"`
	PhaseLabel string              `json:"phase_label"`
	Opening    *CheckpointResponse `json:"opening,omitempty"`
	Closing    *CheckpointResponse `json:"closing,omitempty"`
}

// DayResponse is GET /days/:date.
type DayResponse struct {
	StatusResponse
	Role         model.Role            `json:"role"`
	Editable     bool                  `json:"editable"`
	Transactions []TransactionResponse `json:"transactions"`
}

// DenominationResponse describes one face value.
type DenominationResponse struct {
	Value int64          `json:"value"`
	Tier  cashcount.Tier `json:"tier"`
}

func toCheckpoint(cp *model.Checkpoint) *CheckpointResponse {
	if cp == nil {
		return nil
	}
	rows := make([]CountResponse, len(cp.Denominations))
	for i, d := range cp.Denominations {
		rows[i] = CountResponse{Denomination: d.Denomination, Count: d.Count, Total: d.Total()}
	}
	return &CheckpointResponse{Balance: cp.Balance, Denominations: rows, Time: cp.Time}
}

func toStatus(s model.DayStatus) StatusResponse {
	return StatusResponse{
		Date:       s.Date,
		Phase:      s.Phase,
		PhaseLabel: s.Phase.Label(),
		Opening:    toCheckpoint(s.Opening),
		Closing:    toCheckpoint(s.Closing),
	}
}

func toTransaction(t model.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Time:        t.Time,
		DisplayTime: t.DisplayTime(),
		Type:        t.Type,
		Amount:      t.Amount,
		Partner:     t.Partner,
		Account:     t.Account,
		Description: t.Description,
		Paid:        t.Paid,
		FromUpload:  t.FromUpload,
		Reverses:    t.Reverses,
	}
}

func toTransactions(txns []model.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		out[i] = toTransaction(t)
	}
	return out
}

func toDay(d daybook.Day) DayResponse {
	return DayResponse{
		StatusResponse: toStatus(d.Status),
		Role:           d.Role,
		Editable:       d.Editable,
		Transactions:   toTransactions(d.Transactions),
	}
}
