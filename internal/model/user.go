package model

import "time"

// Role values carried in the session token's "role" claim.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// AdminUsername is the fixed username of the singleton admin row.
const AdminUsername = "admin"

// IsValidRole reports whether r is one of the known roles.
func IsValidRole(r string) bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a registered customer as stored in the `users` table.
//
// Fields:
//
//	ID           – primary key identifier of the user.
//	Name         – display name.
//	Email        – unique, lower-cased email address.
//	PasswordHash – bcrypt hash; never serialized.
//	CreatedAt    – timestamp of registration.
type User struct {
	ID           uint64    `db:"id" json:"id"`                // users.id
	Name         string    `db:"name" json:"name"`            // users.name
	Email        string    `db:"email" json:"email"`          // users.email
	PasswordHash string    `db:"password_hash" json:"-"`      // users.password_hash
	CreatedAt    time.Time `db:"created_at" json:"createdAt"` // users.created_at
}

// Admin models the single row of the `admins` table.  Exactly one row with
// username "admin" exists per deployment; it is created at first startup.
type Admin struct {
	ID           uint64    `db:"id"`            // admins.id
	Username     string    `db:"username"`      // admins.username (unique)
	PasswordHash string    `db:"password_hash"` // admins.password_hash
	CreatedAt    time.Time `db:"created_at"`    // admins.created_at
}
