package model

import "time"

// Role values assigned to accounts. Every account created through
// registration receives RoleProvider; other roles are reserved for
// future administrative tooling.
const (
	RoleProvider = "PROVIDER"
	RoleAdmin    = "ADMIN"
)

// Account represents a healthcare-provider login as stored in the
// `accounts` table. PasswordHash holds a bcrypt digest and must never
// leave the server; handlers expose accounts through sanitized response
// types instead of serializing this struct directly.
type Account struct {
	ID           uint64    // accounts.id
	Login        string    // accounts.login (unique, lower-cased)
	PasswordHash string    // accounts.password_hash (bcrypt)
	Role         string    // accounts.role
	CreatedAt    time.Time // accounts.created_at
}
