package daybook

import (
	"context"

	"github.com/cleared-dev/daybook/internal/audit"
	"github.com/cleared-dev/daybook/internal/model"
)

// Record is everything stored for one business date.
type Record struct {
	Status       model.DayStatus
	Transactions []model.Transaction
}

// Store persists day records keyed by ISO date. Load reports found=false
// when nothing has been written for the date.
type Store interface {
	Load(ctx context.Context, date string) (rec Record, found bool, err error)
	SaveStatus(ctx context.Context, date string, status model.DayStatus) error
	SaveTransactions(ctx context.Context, date string, txns []model.Transaction) error
}

// RoleProvider supplies the role of the user driving the ledger.
type RoleProvider interface {
	CurrentRole(ctx context.Context) model.Role
}

// Recorder receives an entry for every ledger event.
type Recorder interface {
	Record(ctx context.Context, e audit.Entry) error
}

// AccountChecker tests whether entries may be recorded against a payment account.
type AccountChecker interface {
	Enabled(account model.PaymentAccount) bool
}

// Seeder builds the record used for a date that has never been stored.
type Seeder func(date string) Record

// StaticRole is a RoleProvider that always answers the same role.
type StaticRole model.Role

// CurrentRole implements RoleProvider.
func (r StaticRole) CurrentRole(context.Context) model.Role { return model.Role(r) }

type roleKey struct{}

// WithRole returns a context carrying the caller's role.
func WithRole(ctx context.Context, role model.Role) context.Context {
	return context.WithValue(ctx, roleKey{}, role)
}

// ContextRoles reads the role stored by WithRole, answering Fallback when
// the context carries none.
type ContextRoles struct {
	Fallback model.Role
}

// CurrentRole implements RoleProvider.
func (c ContextRoles) CurrentRole(ctx context.Context) model.Role {
	if r, ok := ctx.Value(roleKey{}).(model.Role); ok && r != "" {
		return r
	}
	return c.Fallback
}
