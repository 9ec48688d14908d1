package models

import "time"

// User represents a player account, created on first successful phone verification
type User struct {
	UserID    string
	Phone     string
	Name      string
	CreatedAt time.Time
}

// AuthCode represents a pending one-time code for a phone number.
// At most one live record exists per phone; only the sha256 hash is stored.
type AuthCode struct {
	Phone     string
	CodeHash  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the code has expired
func (c *AuthCode) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}
