package http

import (
	"errors"
	"net/http"

	"github.com/comitanigiacomo/liftbook/internal/core/aggregate"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/gin-gonic/gin"
)

var badRequestErrors = []error{
	domain.ErrInvalidDate,
	domain.ErrSeriesNameEmpty,
	domain.ErrSeriesNameTooLong,
	domain.ErrInvalidValue,
	domain.ErrInvalidReps,
	domain.ErrFractionalLift,
	domain.ErrDateRequired,
	domain.ErrInvalidKind,
	domain.ErrNotesTooLong,
	domain.ErrMeasurementNoOwner,
	domain.ErrMeasurementWrongKind,
	domain.ErrInvalidUsername,
	domain.ErrBirthDateInFuture,
	domain.ErrProfileInvalidOwner,
	domain.ErrRoutineNameEmpty,
	domain.ErrRoutineNameTooLong,
	domain.ErrRoutineNoLifts,
	domain.ErrRoutineNoOwner,
	domain.ErrLiftNotInRoutine,
	domain.ErrSetNotInRoutine,
	domain.ErrDuplicateSet,
	domain.ErrIncompleteSets,
	domain.ErrNoSetsToLog,
	domain.ErrInvalidUnit,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordMismatch,
	aggregate.ErrInvalidVolumeMode,
	aggregate.ErrInvalidMetric,
}

var notFoundErrors = []error{
	domain.ErrMeasurementNotFound,
	domain.ErrRoutineNotFound,
	domain.ErrProfileNotFound,
	domain.ErrUserNotFound,
}

var conflictErrors = []error{
	domain.ErrMeasurementConflict,
	domain.ErrEmailAlreadyExists,
	domain.ErrUsernameTaken,
	domain.ErrUsernameLocked,
}

var unauthenticatedErrors = []error{
	domain.ErrNotAuthenticated,
	domain.ErrInvalidCredentials,
	domain.ErrInvalidToken,
	domain.ErrTokenRevoked,
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case isAny(err, unauthenticatedErrors):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case isAny(err, notFoundErrors):
		return http.StatusNotFound
	case isAny(err, conflictErrors):
		return http.StatusConflict
	case isAny(err, badRequestErrors):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func isAny(err error, targets []error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// respondError writes the error body. Unknown errors are attached to the
// context for the request logger and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	if errors.Is(err, domain.ErrMeasurementConflict) {
		body["message"] = "Data has been modified elsewhere. Please reload."
	}
	c.JSON(status, body)
}
