package shopkit

import (
	"slices"
	"time"
)

// RoleName is a normalized, provider-agnostic permission label.
type RoleName = string

const (
	// RoleAdmin can manage the catalog, staff, and orders.
	RoleAdmin RoleName = "Admin"
	// RoleStaff can manage the catalog and orders.
	RoleStaff RoleName = "Staff"
	// RoleCustomer is a storefront account.
	RoleCustomer RoleName = "Customer"
)

// Identity is the authenticated user's token and profile data as held by this
// client. It is immutable: state changes produce a new Identity via the With*
// helpers, never an in-place mutation.
type Identity struct {
	ID          string     `json:"id,omitempty"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Token       string     `json:"token,omitempty"`
	Roles       []RoleName `json:"roles,omitempty"`
	IssuedAt    time.Time  `json:"issued_at,omitempty"`
}

// WithToken returns a copy carrying a refreshed token.
func (i Identity) WithToken(token string, issuedAt time.Time) *Identity {
	next := i
	next.Token = token
	next.IssuedAt = issuedAt
	next.Roles = slices.Clone(i.Roles)
	return &next
}

// WithRoles returns a copy carrying a new normalized role set.
func (i Identity) WithRoles(roles []RoleName) *Identity {
	next := i
	next.Roles = slices.Clone(roles)
	return &next
}

// HasRole checks the normalized role set.
func (i *Identity) HasRole(role RoleName) bool {
	if i == nil {
		return false
	}
	return slices.Contains(i.Roles, role)
}

// HasAnyRole reports whether the identity's role set intersects the given set.
func (i *Identity) HasAnyRole(roles ...RoleName) bool {
	if i == nil {
		return false
	}
	for _, role := range roles {
		if slices.Contains(i.Roles, role) {
			return true
		}
	}
	return false
}
