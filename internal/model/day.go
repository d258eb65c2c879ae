package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the layout of the ISO calendar-date keys that partition the ledger.
const DateLayout = "2006-01-02"

// ParseDate validates an ISO calendar date key and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.Format(DateLayout), nil
}

// Phase is the lifecycle state of a business day.
type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseOpen       Phase = "open"
	PhaseClosed     Phase = "closed"
)

// Label returns the banner text for a phase.
func (p Phase) Label() string {
	switch p {
	case PhaseOpen:
		return "Day Open"
	case PhaseClosed:
		return "Day Closed"
	default:
		return "Day Not Started"
	}
}

// Checkpoint is a frozen cash count taken when the day opens or closes.
type Checkpoint struct {
	Balance       decimal.Decimal
	Denominations []DenominationCount // non-zero rows only
	Time          time.Time
}

// DayStatus is the lifecycle record for one business date.
//
// Opening is set exactly when the day has been opened. Closing is set once
// the day has been closed and is kept, stale, across a reopen.
type DayStatus struct {
	Date    string
	Phase   Phase
	Opening *Checkpoint
	Closing *Checkpoint
}

// NewDayStatus returns the not-started status for a date.
func NewDayStatus(date string) DayStatus {
	return DayStatus{Date: date, Phase: PhaseNotStarted}
}

// IsOpened reports whether the day has ever been opened.
func (s DayStatus) IsOpened() bool { return s.Phase != PhaseNotStarted }

// IsClosed reports whether the day is currently closed.
func (s DayStatus) IsClosed() bool { return s.Phase == PhaseClosed }

// OpeningBalance returns the frozen opening balance, zero before opening.
func (s DayStatus) OpeningBalance() decimal.Decimal {
	if s.Opening == nil {
		return decimal.Zero
	}
	return s.Opening.Balance
}

// ClosingBalance returns the last counted closing balance, zero if never closed.
func (s DayStatus) ClosingBalance() decimal.Decimal {
	if s.Closing == nil {
		return decimal.Zero
	}
	return s.Closing.Balance
}

// Validate checks that phase and checkpoints agree.
func (s DayStatus) Validate() error {
	switch s.Phase {
	case PhaseNotStarted:
		if s.Opening != nil || s.Closing != nil {
			return fmt.Errorf("day %s: not started but has checkpoints", s.Date)
		}
	case PhaseOpen:
		if s.Opening == nil {
			return fmt.Errorf("day %s: open without an opening count", s.Date)
		}
	case PhaseClosed:
		if s.Opening == nil {
			return fmt.Errorf("day %s: closed but never opened", s.Date)
		}
		if s.Closing == nil {
			return fmt.Errorf("day %s: closed without a closing count", s.Date)
		}
	default:
		return fmt.Errorf("day %s: unknown phase %q", s.Date, s.Phase)
	}
	return nil
}
