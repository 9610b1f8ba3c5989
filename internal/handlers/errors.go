package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/smb_books_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// statusFor maps an application error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrImbalance):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrNoCostBasis),
		errors.Is(err, apperrors.ErrCreditLimitExceeded),
		errors.Is(err, apperrors.ErrExactSettlementRequired),
		errors.Is(err, apperrors.ErrOverpayment),
		errors.Is(err, apperrors.ErrMissingAccount):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal failures are logged at Error and
// replaced by fallback; everything else is returned to the caller with its
// structured details.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": fallback})
		return
	}

	logger.Warn("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	body := gin.H{"error": err.Error()}
	var detailer apperrors.Detailer
	if errors.As(err, &detailer) {
		body["details"] = detailer.Details()
	}
	c.JSON(status, body)
}

// badRequest reports a binding failure.
func badRequest(c *gin.Context, logger *slog.Logger, what string, err error) {
	logger.Warn("Failed to bind "+what, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + what + ": " + err.Error()})
}
