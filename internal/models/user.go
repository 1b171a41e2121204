package models

import "time"

// User is the persistence shape of a platform user.
type User struct {
	UserID       string  `db:"user_id"`
	Username     string  `db:"username"`
	Name         string  `db:"name"`
	Role         string  `db:"role"`
	PasswordHash *string `db:"password_hash"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
