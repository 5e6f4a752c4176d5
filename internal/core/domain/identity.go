package domain

import "time"

// User mirrors the persisted representation in the users table. The access
// engine only needs identity and lifecycle fields; credentials are managed
// elsewhere.
type User struct {
	ID           string
	Username     string
	Email        string
	IsActive     bool
	RegisteredAt time.Time
}
