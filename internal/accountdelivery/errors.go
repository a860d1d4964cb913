package accountdelivery

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// ErrorStatus returns the http status of a service error and the error to show the client.
//
// Errors outside of the domain taxonomy are hidden behind errorspkg.ErrInternal.
func ErrorStatus(err error) (int, error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrNonZeroBalance):
		return http.StatusBadRequest, err
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, err
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err
	case errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrInvalidState):
		return http.StatusUnprocessableEntity, err
	}

	return http.StatusInternalServerError, errorspkg.ErrInternal
}

// WriteError writes the json response of a service error.
func WriteError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())

	code, shown := ErrorStatus(err)
	if code == http.StatusInternalServerError {
		l.Error().Err(err).Send()
	} else {
		l.Info().Err(err).Send()
	}

	gctx.JSON(code, web.Error(shown))
}

// WriteBindError writes the json response of a request that failed binding.
func WriteBindError(gctx *gin.Context, err error) {
	l := zerolog.Ctx(gctx.Request.Context())
	l.Info().Err(err).Send()

	gctx.JSON(http.StatusBadRequest, web.Response{Error: web.ValidationMessage(err)})
}
