package daybook

import (
	"fmt"

	"github.com/cleared-dev/daybook/internal/apperrors"
)

var (
	ErrZeroOpeningBalance = fmt.Errorf("%w: a day cannot be opened with zero cash", apperrors.ErrValidation)
	ErrZeroClosingBalance = fmt.Errorf("%w: a day cannot be closed with zero cash", apperrors.ErrValidation)
	ErrIllegalTransition  = fmt.Errorf("%w: illegal day transition", apperrors.ErrConflict)
	ErrDayNotOpen         = fmt.Errorf("%w: day has not been opened", apperrors.ErrConflict)
	ErrDayLocked          = fmt.Errorf("%w: day is closed", apperrors.ErrForbidden)
	ErrReopenForbidden    = fmt.Errorf("%w: only an accountant can reopen a day", apperrors.ErrForbidden)
	ErrTransactionMissing = fmt.Errorf("%w: transaction", apperrors.ErrNotFound)
	ErrAlreadyReversed    = fmt.Errorf("%w: transaction already reversed", apperrors.ErrConflict)
	ErrReverseReversal    = fmt.Errorf("%w: a reversal entry cannot be reversed", apperrors.ErrConflict)
	ErrInvalidCount       = fmt.Errorf("%w: invalid cash count", apperrors.ErrValidation)
)
