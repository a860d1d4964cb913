// Package web defines common components for a web application.
package web

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Error wraps a given err into json frinedly struct.
func Error(err error) Response {
	return Response{Error: err.Error()}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// GetErrorMsg returns a human readable message for a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return fmt.Sprintf(" must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf(" must be at most %s", fe.Param())
	case "uuid":
		return " must be a valid UUID"
	case "account_type":
		return " is not supported"
	case "pin":
		return " must be exactly 4 digits"
	case "amount":
		return " must be a positive decimal number with at most 2 decimal places"
	case "balance":
		return " must be a non-negative decimal number with at most 2 decimal places"
	case "entry_kind":
		return " is not a known transaction type"
	case "datetime":
		return " must be an RFC3339 time"
	}

	return " is invalid"
}

// ValidationMessage turns a binding error into a response message.
func ValidationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		field := ve[0]
		return field.Field() + GetErrorMsg(field)
	}

	return err.Error()
}
