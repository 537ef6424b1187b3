package auth

import "printstore/internal/domain"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Actor is the authenticated caller of a request.
type Actor struct {
	Subject string `json:"sub"`
	Role    Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Authorizer holds every ownership and role rule used by the services.
type Authorizer struct{}

func NewAuthorizer() Authorizer {
	return Authorizer{}
}

// CanAccessOrder reports whether the actor may read or mutate the order and
// its sub-records.
func (Authorizer) CanAccessOrder(actor Actor, order *domain.Order) bool {
	if order == nil || actor.Subject == "" {
		return false
	}
	return actor.IsAdmin() || order.UserID == actor.Subject
}

// CanActFor reports whether the actor may create records owned by userID.
func (Authorizer) CanActFor(actor Actor, userID string) bool {
	if actor.Subject == "" {
		return false
	}
	return actor.IsAdmin() || userID == actor.Subject
}

// CanManageVouchers is restricted to admins.
func (Authorizer) CanManageVouchers(actor Actor) bool {
	return actor.IsAdmin()
}

// ScopeUserID returns the user filter for list endpoints: customers only see
// their own records, admins see what they asked for.
func (Authorizer) ScopeUserID(actor Actor, requested string) string {
	if actor.IsAdmin() {
		return requested
	}
	return actor.Subject
}
