package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "arcadia/internal/errors"
	"arcadia/internal/service"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{services: services}
}

// respondError maps domain errors onto HTTP statuses. Anything unmapped is
// a 500 with a generic body; the cause is logged, not leaked.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, apperrors.ErrInvalidInterval),
		errors.Is(err, apperrors.ErrInvalidAmount):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, apperrors.ErrBookingConflict),
		errors.Is(err, apperrors.ErrEventFull),
		errors.Is(err, apperrors.ErrAlreadyRegistered),
		errors.Is(err, apperrors.ErrMembershipExists),
		errors.Is(err, apperrors.ErrContended):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, apperrors.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
		message = err.Error()
	case errors.Is(err, apperrors.ErrPastInterval),
		errors.Is(err, apperrors.ErrResourceUnavailable),
		errors.Is(err, apperrors.ErrMembershipExpired),
		errors.Is(err, apperrors.ErrDeadlinePassed),
		errors.Is(err, apperrors.ErrRegistrationClosed):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = err.Error()
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		message = "Service temporarily unavailable"
		slog.Error("Store unavailable", "error", err)
	default:
		slog.Error("Unhandled error", "error", err)
	}

	c.JSON(status, gin.H{"error": message})
}
