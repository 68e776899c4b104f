package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	AccessToken  string    `json:"accessToken,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
