package auth

import "time"

// User is a registered account. Users are created on signup and never mutated
// or deleted afterwards.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
