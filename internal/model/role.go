package model

import "fmt"

// Role is the user's position in the business.
type Role string

const (
	RoleUser       Role = "user"
	RoleAccountant Role = "accountant"
	RoleManager    Role = "manager"
	RoleOwner      Role = "owner"
)

// ParseRole parses a role name.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAccountant, RoleManager, RoleOwner:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// CanReopen reports whether the role may reopen a closed day.
func (r Role) CanReopen() bool { return r == RoleAccountant }

// CanEditClosedDay reports whether the role may record entries on a closed day.
func (r Role) CanEditClosedDay() bool { return r == RoleAccountant }

// CanSeeGrossProfit reports whether profit figures are shown to the role.
func (r Role) CanSeeGrossProfit() bool { return r == RoleManager || r == RoleOwner }
