package api

import (
	"errors"
	"net/http"

	"github.com/Barry4747/ZnanyByk-sub001/internal/domain"
	"github.com/Barry4747/ZnanyByk-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err  error
	code int
}{
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrInvalidBounds, http.StatusBadRequest},
	{service.ErrInvalidWeekday, http.StatusBadRequest},
	{service.ErrInvalidSlot, http.StatusBadRequest},
	{service.ErrSelfBooking, http.StatusBadRequest},
	{service.ErrEmptyMessage, http.StatusBadRequest},
	{service.ErrMessageTooLong, http.StatusBadRequest},
	{service.ErrChatWithSelf, http.StatusBadRequest},
	{service.ErrInvalidAmount, http.StatusBadRequest},
	{service.ErrInvalidPaymentMethod, http.StatusBadRequest},
	{service.ErrUnsupportedPhotoType, http.StatusBadRequest},
	{service.ErrPhotoNotUploaded, http.StatusBadRequest},

	{service.ErrAuthenticationFailed, http.StatusUnauthorized},
	{service.ErrInvalidToken, http.StatusUnauthorized},

	{service.ErrAppointmentAccessDenied, http.StatusForbidden},
	{service.ErrChatAccessDenied, http.StatusForbidden},
	{service.ErrPaymentAccessDenied, http.StatusForbidden},
	{service.ErrPaymentConfirmDenied, http.StatusForbidden},
	{service.ErrPhotoKeyForeign, http.StatusForbidden},

	{service.ErrUserNotFound, http.StatusNotFound},
	{service.ErrTrainerNotFound, http.StatusNotFound},
	{service.ErrAppointmentNotFound, http.StatusNotFound},
	{service.ErrChatNotFound, http.StatusNotFound},
	{service.ErrRecipientNotFound, http.StatusNotFound},
	{service.ErrPaymentNotFound, http.StatusNotFound},
	{service.ErrNoPhoto, http.StatusNotFound},

	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrAppointmentInPast, http.StatusConflict},
	{service.ErrPaymentStateChanged, http.StatusConflict},
	{domain.ErrIllegalPaymentTransition, http.StatusConflict},
}

// respondError maps a service error to its HTTP status. Anything unknown is
// logged and reported as a 500 without details.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var bdErr *service.BirthDateError
	if errors.As(err, &bdErr) {
		abortWithError(c, http.StatusBadRequest, bdErr.Error())
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			abortWithError(c, e.code, err.Error())
			return
		}
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err))
	abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
}

// bindError answers 400 for a request body or query that failed binding.
func bindError(c *gin.Context, err error) {
	abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
}
