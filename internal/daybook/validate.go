package daybook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/id"
	"github.com/cleared-dev/daybook/internal/model"
)

var hundred = decimal.NewFromInt(100)

// hasSubPaisa reports whether d carries more than two decimal places.
func hasSubPaisa(d decimal.Decimal) bool {
	scaled := d.Mul(hundred)
	return !scaled.Equal(scaled.Floor())
}

// ValidateNew checks a draft entry before it is appended. accounts may be nil,
// in which case every known payment account is accepted.
func ValidateNew(in NewTransaction, accounts AccountChecker) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors

	if !in.Type.Valid() {
		errs = append(errs, apperrors.FieldError{Field: "type", Message: fmt.Sprintf("unknown type %q", in.Type)})
	}

	switch {
	case !in.Amount.Valid:
		errs = append(errs, apperrors.FieldError{Field: "amount", Message: "is required"})
	case in.Amount.Decimal.IsNegative():
		errs = append(errs, apperrors.FieldError{Field: "amount", Message: "must not be negative"})
	case hasSubPaisa(in.Amount.Decimal):
		errs = append(errs, apperrors.FieldError{Field: "amount", Message: fmt.Sprintf("%s has more than 2 decimal places", in.Amount.Decimal)})
	}

	if strings.TrimSpace(in.Partner) == "" {
		errs = append(errs, apperrors.FieldError{Field: "partner", Message: "is required"})
	}

	switch {
	case !in.Account.Valid():
		errs = append(errs, apperrors.FieldError{Field: "account", Message: fmt.Sprintf("unknown account %q", in.Account)})
	case accounts != nil && !accounts.Enabled(in.Account):
		errs = append(errs, apperrors.FieldError{Field: "account", Message: fmt.Sprintf("account %q is not enabled", in.Account)})
	}

	return errs
}

// ValidateLedger checks a stored transaction list for one date: IDs are
// well formed, unique and dated on that day, and reversals point at an
// earlier non-reversal entry at most once.
func ValidateLedger(date string, txns []model.Transaction) apperrors.ValidationErrors {
	var errs apperrors.ValidationErrors
	seen := make(map[string]model.Transaction, len(txns))
	reversed := make(map[string]bool)
	for i, t := range txns {
		field := fmt.Sprintf("transactions[%d]", i)

		txnDate, _, err := id.ParseTxnID(t.ID)
		if err != nil {
			errs = append(errs, apperrors.FieldError{Field: field, Message: err.Error()})
		} else if txnDate != date {
			errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf("id %s is not dated %s", t.ID, date)})
		}
		if _, dup := seen[t.ID]; dup {
			errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf("duplicate id %s", t.ID)})
		}

		if t.IsReversal() {
			orig, ok := seen[t.Reverses]
			switch {
			case !ok:
				errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf("reverses unknown entry %s", t.Reverses)})
			case orig.IsReversal():
				errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf("reverses reversal %s", t.Reverses)})
			case reversed[t.Reverses]:
				errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf("%s reversed twice", t.Reverses)})
			}
			reversed[t.Reverses] = true
		} else if t.Amount.IsNegative() {
			errs = append(errs, apperrors.FieldError{Field: field, Message: fmt.Sprintf("negative amount %s on a non-reversal entry", t.Amount)})
		}

		seen[t.ID] = t
	}
	return errs
}
