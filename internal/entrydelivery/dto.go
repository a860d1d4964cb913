package entrydelivery

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// EntryDTO is the json representation of a ledger entry.
type EntryDTO struct {
	ID               uuid.UUID  `json:"id"`
	AccountID        uuid.UUID  `json:"account_id"`
	RelatedAccountID *uuid.UUID `json:"related_account_id,omitempty"`
	Type             string     `json:"type"`
	Amount           string     `json:"amount"`
	Description      string     `json:"description"`
	ReferenceNumber  string     `json:"reference_number"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
}

// NewEntryDTO converts the entry to its json representation.
func NewEntryDTO(e domain.Entry) EntryDTO {
	dto := EntryDTO{
		ID:              e.ID,
		AccountID:       e.AccountID,
		Type:            e.Kind.String(),
		Amount:          e.Amount.StringFixed(2),
		Description:     e.Description,
		ReferenceNumber: e.ReferenceNumber,
		Status:          e.Status.String(),
		CreatedAt:       e.CreatedAt,
	}

	if e.RelatedAccountID.Valid {
		related := e.RelatedAccountID.UUID
		dto.RelatedAccountID = &related
	}

	return dto
}

// NewEntryDTOs converts the entries keeping their order.
func NewEntryDTOs(entries []domain.Entry) []EntryDTO {
	dtos := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, NewEntryDTO(e))
	}

	return dtos
}
