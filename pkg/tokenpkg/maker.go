package tokenpkg

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const minSecretKeySize = 32

// Maker is an interface for managing tokens.
type Maker interface {
	// CreateToken creates a new token for a specific user and duration.
	CreateToken(userID uuid.UUID, duration time.Duration) (string, *Payload, error)
	// VerifyToken checks if the token is valid or not.
	VerifyToken(token string) (*Payload, error)
}

// NewMaker returns the Maker for the configured token type.
func NewMaker(tokenType, symmetricKey string) (Maker, error) {
	switch tokenType {
	case "", "paseto":
		return NewPasetoMaker(symmetricKey)
	case "jwt":
		return NewJWTMaker(symmetricKey)
	}

	return nil, fmt.Errorf("unsupported token type %q", tokenType)
}
