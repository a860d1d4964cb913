package domain

import (
	"time"

	"github.com/google/uuid"
)

// User holds the owner data the ledger needs.
type User struct {
	ID        uuid.UUID
	FullName  string
	Email     string
	PINHash   string
	CreatedAt time.Time
}

// CreateUserParams is the input data to create a user.
type CreateUserParams struct {
	FullName string
	Email    string
	PINHash  string
}
