package accountdelivery

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// AccountDTO is the json representation of an account.
type AccountDTO struct {
	ID            uuid.UUID `json:"id"`
	AccountNumber string    `json:"account_number"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Balance       string    `json:"balance"`
	Status        string    `json:"status"`
	AccountType   string    `json:"account_type"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewAccountDTO converts the account to its json representation.
func NewAccountDTO(a domain.Account) AccountDTO {
	return AccountDTO{
		ID:            a.ID,
		AccountNumber: a.AccountNumber,
		OwnerID:       a.OwnerID,
		Balance:       a.Balance.StringFixed(2),
		Status:        a.Status.String(),
		AccountType:   a.Type.String(),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
