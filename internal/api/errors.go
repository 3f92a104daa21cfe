package api

import (
	"context"
	"errors"
	"net/http"

	"fitcoach/platform/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrValidationFailed, http.StatusBadRequest},
	{service.ErrInvalidDate, http.StatusBadRequest},
	{service.ErrInvalidSetNumber, http.StatusBadRequest},

	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},

	{service.ErrAccessDenied, http.StatusForbidden},
	{service.ErrStudentNotManaged, http.StatusForbidden},
	{service.ErrStudentNotRole, http.StatusForbidden},
	{service.ErrExerciseAccessDenied, http.StatusForbidden},
	{service.ErrUploadKeyNotOwned, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrStudentNotFound, http.StatusNotFound},
	{service.ErrRecipientNotFound, http.StatusNotFound},
	{service.ErrExerciseNotFound, http.StatusNotFound},
	{service.ErrFoodItemNotFound, http.StatusNotFound},
	{service.ErrTrainingPlanNotFound, http.StatusNotFound},
	{service.ErrWorkoutNotFound, http.StatusNotFound},
	{service.ErrWorkoutExerciseNotFound, http.StatusNotFound},
	{service.ErrDietPlanNotFound, http.StatusNotFound},
	{service.ErrNoActiveDietPlan, http.StatusNotFound},
	{service.ErrMealNotFound, http.StatusNotFound},
	{service.ErrSessionNotFound, http.StatusNotFound},
	{service.ErrMessageNotFound, http.StatusNotFound},
	{service.ErrUploadObjectMissing, http.StatusNotFound},

	{service.ErrConflict, http.StatusConflict},
	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrStudentAlreadyAssigned, http.StatusConflict},
	{service.ErrSessionClosed, http.StatusConflict},

	{service.ErrUnsupportedMediaType, http.StatusUnsupportedMediaType},

	{service.ErrUnavailable, http.StatusServiceUnavailable},
	{service.ErrStorageDisabled, http.StatusServiceUnavailable},
	{context.Canceled, http.StatusServiceUnavailable},
	{context.DeadlineExceeded, http.StatusServiceUnavailable},
}

// statusFor maps a service error to an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// respondError aborts with the status of err. Server-side failures are
// logged and answered with a generic message.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	switch {
	case status == http.StatusServiceUnavailable:
		log.WithError(err).WithField("route", c.FullPath()).Warn("dependency unavailable")
		abortWithError(c, status, "Service temporarily unavailable, please retry.")
	case status >= http.StatusInternalServerError:
		log.WithError(err).WithField("route", c.FullPath()).Error("request failed")
		abortWithError(c, status, "An unexpected error occurred.")
	default:
		abortWithError(c, status, err.Error())
	}
}
