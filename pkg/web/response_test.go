package web

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestValidationMessage(t *testing.T) {
	v := validator.New()

	type request struct {
		PageID   int32 `validate:"required,min=1"`
		PageSize int32 `validate:"min=1,max=100"`
	}

	err := v.Struct(request{})
	require.Equal(t, "PageID is required", ValidationMessage(err))

	err = v.Struct(request{PageID: 1, PageSize: 500})
	require.Equal(t, "PageSize must be at most 100", ValidationMessage(err))

	require.Equal(t, "EOF", ValidationMessage(errors.New("EOF")))
}

func TestError(t *testing.T) {
	res := Error(errors.New("account not found"))

	require.Equal(t, "account not found", res.Error)
	require.Nil(t, res.Data)
}
