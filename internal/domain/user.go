package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the domain entity for an account.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Bio          string
	ProfileImage string
	PasswordHash string
	CreatedAt    time.Time
}

// DisplayName returns the first name if set, otherwise the username.
// Used in outbound emails.
func (u User) DisplayName() string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
