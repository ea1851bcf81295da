package model

import "time"

// User roles. ADMIN may cancel any reservation and read any user's
// listings; CUSTOMER only their own.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// User is an account in the identity surface. The reservation core only
// ever sees the opaque ID and the role.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
