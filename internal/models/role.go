package models

// Role is the caller's role as supplied by the user service.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleCEO        Role = "CEO"
	RoleAccounting Role = "ACCOUNTING"
	RoleDispatcher Role = "DISPATCHER"
	RoleCarrier    Role = "CARRIER"
)

// LedgerRoles may mutate settlements and approve or reject payments.
var LedgerRoles = []Role{RoleAdmin, RoleCEO, RoleAccounting}

// CanManageLedger reports whether r is one of LedgerRoles.
func (r Role) CanManageLedger() bool {
	for _, allowed := range LedgerRoles {
		if r == allowed {
			return true
		}
	}
	return false
}

// Actor identifies who is calling into the ledger.
type Actor struct {
	UserID string
	Role   Role
}
