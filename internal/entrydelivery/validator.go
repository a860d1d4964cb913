package entrydelivery

import (
	"github.com/go-playground/validator/v10"

	"github.com/go-petr/pet-ledger/internal/domain"
)

// ValidEntryKind validates whether the transaction type is known.
var ValidEntryKind validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseEntryKind(s)
		return err == nil
	}

	return false
}
