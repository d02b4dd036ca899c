package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nathanmaher41/WorkScheduler/internal/apperrors"
)

// respondError maps a service error onto an HTTP status and JSON error body.
// Unknown errors become a generic 500 so internals never leak to clients.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		status := statusFor(appErr)
		if status >= http.StatusInternalServerError {
			c.JSON(status, gin.H{"error": "internal server error"})
			return
		}
		c.JSON(status, gin.H{"error": appErr.Message})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "state conflict"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": "resource already exists"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func statusFor(appErr *apperrors.AppError) int {
	if appErr.Code >= 400 && appErr.Code < 600 {
		return appErr.Code
	}
	switch {
	case errors.Is(appErr, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(appErr, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(appErr, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(appErr, apperrors.ErrConflict), errors.Is(appErr, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(appErr, apperrors.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
