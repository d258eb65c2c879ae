package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/daybook/internal/apperrors"
	"github.com/cleared-dev/daybook/internal/cashcount"
	"github.com/cleared-dev/daybook/internal/model"
)

var registerOnce sync.Once

// registerValidators adds the daybook tags to gin's validator and reports
// fields by their JSON names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("nonnegative", validateNonNegative)
		_ = v.RegisterValidation("txntype", validateTxnType)
		_ = v.RegisterValidation("payaccount", validatePaymentAccount)
		_ = v.RegisterValidation("denomination", validateDenomination)
	})
}

func validateNonNegative(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && !d.IsNegative()
}

func validateTxnType(fl validator.FieldLevel) bool {
	_, err := model.ParseTxnType(fl.Field().String())
	return err == nil
}

func validatePaymentAccount(fl validator.FieldLevel) bool {
	_, err := model.ParsePaymentAccount(fl.Field().String())
	return err == nil
}

func validateDenomination(fl validator.FieldLevel) bool {
	return slices.Contains(cashcount.Denominations, fl.Field().Int())
}

// bindError turns a binding failure into a validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: invalid request body: %v", apperrors.ErrValidation, err)
	}
	out := make(apperrors.ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apperrors.FieldError{Field: fieldPath(fe), Message: tagMessage(fe)})
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	// Namespace is "<Struct>.<json path>"; drop the struct name.
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "nonnegative":
		return "must be a non-negative amount"
	case "txntype":
		return "must be one of purchase, sale, expense"
	case "payaccount":
		return "must be one of cash, bank, credit_card, upi"
	case "denomination":
		return fmt.Sprintf("unknown denomination %v", fe.Value())
	case "min":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}
