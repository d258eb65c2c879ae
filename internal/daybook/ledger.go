package daybook

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/audit"
	"github.com/cleared-dev/daybook/internal/cashcount"
	"github.com/cleared-dev/daybook/internal/id"
	"github.com/cleared-dev/daybook/internal/model"
	"github.com/cleared-dev/daybook/internal/report"
)

// NewTransaction is a draft entry. Amount is invalid when the user left it blank.
type NewTransaction struct {
	Type        model.TxnType
	Amount      decimal.NullDecimal
	Partner     string
	Account     model.PaymentAccount
	Description string
	Paid        bool
	FromUpload  bool
}

// NewEntry returns a paid draft for the given amount.
func NewEntry(txnType model.TxnType, amount decimal.Decimal, partner string, account model.PaymentAccount) NewTransaction {
	return NewTransaction{
		Type:    txnType,
		Amount:  decimal.NewNullDecimal(amount),
		Partner: partner,
		Account: account,
		Paid:    true,
	}
}

// AddTransaction appends a validated entry to an editable day and returns it
// with its assigned ID and time.
func (s *Service) AddTransaction(ctx context.Context, date string, in NewTransaction) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return model.Transaction{}, err
	}
	key := rec.Status.Date

	if errs := ValidateNew(in, s.accounts); len(errs) > 0 {
		return model.Transaction{}, s.reject("add", key, errs)
	}
	if err := s.checkEditable(ctx, rec.Status); err != nil {
		return model.Transaction{}, s.reject("add", key, err)
	}

	txn := model.Transaction{
		ID:          id.FormatTxnID(key, nextSeq(rec.Transactions)),
		Type:        in.Type,
		Amount:      in.Amount.Decimal,
		Partner:     strings.TrimSpace(in.Partner),
		Account:     in.Account,
		Description: strings.TrimSpace(in.Description),
		Time:        s.now(),
		Paid:        in.Paid,
		FromUpload:  in.FromUpload,
	}
	if err := s.append(ctx, rec, txn); err != nil {
		return model.Transaction{}, err
	}

	s.logger.Info("transaction added",
		slog.String("date", key),
		slog.String("id", txn.ID),
		slog.String("type", string(txn.Type)),
		slog.String("amount", txn.Amount.String()),
		slog.String("account", string(txn.Account)),
		slog.Bool("paid", txn.Paid))
	s.record(ctx, audit.Entry{
		Date:    key,
		Action:  audit.ActionAdd,
		TxnID:   txn.ID,
		Details: fmt.Sprintf("%s %s %s %s", txn.Type, txn.Amount, txn.Account, txn.Partner),
	})
	return txn, nil
}

// Reverse appends an entry that offsets txnID. The original is kept as is;
// an entry can be reversed once and reversals cannot be reversed.
func (s *Service) Reverse(ctx context.Context, date, txnID, reason string) (model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return model.Transaction{}, err
	}
	key := rec.Status.Date

	if err := s.checkEditable(ctx, rec.Status); err != nil {
		return model.Transaction{}, s.reject("reverse", key, err)
	}

	var orig *model.Transaction
	for i := range rec.Transactions {
		t := &rec.Transactions[i]
		if t.ID == txnID {
			orig = t
		}
		if t.Reverses != "" && t.Reverses == txnID {
			return model.Transaction{}, s.reject("reverse", key, fmt.Errorf("%w: %s", ErrAlreadyReversed, txnID))
		}
	}
	if orig == nil {
		return model.Transaction{}, s.reject("reverse", key, fmt.Errorf("%w %s", ErrTransactionMissing, txnID))
	}
	if orig.IsReversal() {
		return model.Transaction{}, s.reject("reverse", key, fmt.Errorf("%w: %s", ErrReverseReversal, txnID))
	}

	description := strings.TrimSpace(reason)
	if description == "" {
		description = "Reversal of " + orig.ID
	}
	txn := model.Transaction{
		ID:          id.FormatTxnID(key, nextSeq(rec.Transactions)),
		Type:        orig.Type,
		Amount:      orig.Amount.Neg(),
		Partner:     orig.Partner,
		Account:     orig.Account,
		Description: description,
		Time:        s.now(),
		Paid:        orig.Paid,
		Reverses:    orig.ID,
	}
	if err := s.append(ctx, rec, txn); err != nil {
		return model.Transaction{}, err
	}

	s.logger.Info("transaction reversed",
		slog.String("date", key),
		slog.String("id", txn.ID),
		slog.String("reverses", orig.ID))
	s.record(ctx, audit.Entry{Date: key, Action: audit.ActionReverse, TxnID: txn.ID, Details: "reverses " + orig.ID})
	return txn, nil
}

// ListTransactions returns the day's entries in insertion order, optionally
// only those of one type.
func (s *Service) ListTransactions(ctx context.Context, date string, only *model.TxnType) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return nil, err
	}
	if only == nil {
		return copyTxns(rec.Transactions), nil
	}
	out := make([]model.Transaction, 0, len(rec.Transactions))
	for _, t := range rec.Transactions {
		if t.Type == *only {
			out = append(out, t)
		}
	}
	return out, nil
}

// Summary computes the day's totals. Gross profit is only reported to roles
// allowed to see it.
func (s *Service) Summary(ctx context.Context, date string) (report.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return report.Summary{}, err
	}
	sum := report.Build(rec.Status, rec.Transactions)
	if !s.roles.CurrentRole(ctx).CanSeeGrossProfit() {
		sum.GrossProfit = nil
	}
	return sum, nil
}

// Reconcile compares a cash count against the day's expected cash without
// changing the day.
func (s *Service) Reconcile(ctx context.Context, date string, counts []model.DenominationCount) (report.Reconciliation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.load(ctx, date)
	if err != nil {
		return report.Reconciliation{}, err
	}
	if !rec.Status.IsOpened() {
		return report.Reconciliation{}, s.reject("reconcile", rec.Status.Date, ErrDayNotOpen)
	}
	counter, err := cashcount.FromEntries(counts)
	if err != nil {
		return report.Reconciliation{}, s.reject("reconcile", rec.Status.Date, fmt.Errorf("%w: %v", ErrInvalidCount, err))
	}
	sum := report.Build(rec.Status, rec.Transactions)
	return report.Reconcile(sum.ExpectedCash, counter.Total()), nil
}

func (s *Service) checkEditable(ctx context.Context, status model.DayStatus) error {
	if !status.IsOpened() {
		return ErrDayNotOpen
	}
	if !Editable(status, s.roles.CurrentRole(ctx)) {
		return ErrDayLocked
	}
	return nil
}

func (s *Service) append(ctx context.Context, rec Record, txn model.Transaction) error {
	txns := make([]model.Transaction, 0, len(rec.Transactions)+1)
	txns = append(txns, rec.Transactions...)
	txns = append(txns, txn)
	if err := s.store.SaveTransactions(ctx, rec.Status.Date, txns); err != nil {
		return fmt.Errorf("saving transactions for %s: %w", rec.Status.Date, err)
	}
	return nil
}

func nextSeq(txns []model.Transaction) int {
	ids := make([]string, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
	}
	return id.NextSeq(ids)
}
