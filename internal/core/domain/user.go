package domain

import "time"

// Role defines the closed set of platform roles. Every entitlement decision
// switches exhaustively over this type so adding a role forces each call site
// to be revisited.
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleAgent  Role = "AGENT"
	RoleAdmin  Role = "ADMIN"
)

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Principal is the authenticated caller handed to every operation.
type Principal struct {
	UserID string `json:"userID"`
	Role   Role   `json:"role"`
}

// IsAdmin is a convenience for the unrestricted role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// User represents a platform user in the domain.
type User struct {
	UserID       string  `json:"userID"` // Primary Key (e.g., UUID)
	Username     string  `json:"username"`
	Name         string  `json:"name"`
	Role         Role    `json:"role"`
	PasswordHash *string `json:"-"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
