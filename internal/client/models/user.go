package models

import "time"

// User is a locally registered account.
type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	CreatedAt time.Time
}
