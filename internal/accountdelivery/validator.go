package accountdelivery

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/passpkg"
)

// ValidAccountType validates whether the account type is known.
var ValidAccountType validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		_, err := domain.ParseAccountType(s)
		return err == nil
	}

	return false
}

// ValidPIN validates whether the transaction PIN is well-formed.
var ValidPIN validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return passpkg.ValidPIN(s)
	}

	return false
}

// ValidAmount validates whether the amount is a positive number of cents.
var ValidAmount validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		d, err := decimal.NewFromString(s)
		return err == nil && d.IsPositive() && domain.ValidMoneyScale(d)
	}

	return false
}

// ValidBalance validates whether the balance is a non-negative number of cents.
var ValidBalance validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		d, err := decimal.NewFromString(s)
		return err == nil && !d.IsNegative() && domain.ValidMoneyScale(d)
	}

	return false
}

// RegisterValidators registers the custom tags used by the ledger requests.
func RegisterValidators(v *validator.Validate) error {
	validators := map[string]validator.Func{
		"account_type": ValidAccountType,
		"pin":          ValidPIN,
		"amount":       ValidAmount,
		"balance":      ValidBalance,
	}

	for tag, fn := range validators {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("cannot register %s validator: %w", tag, err)
		}
	}

	return nil
}
