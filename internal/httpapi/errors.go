package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cleared-dev/daybook/internal/apperrors"
)

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the mapped status. Internal errors are logged and
// their details withheld.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	logger := loggerFrom(c.Request.Context())
	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.String("error", err.Error()))
		c.JSON(status, errorBody{Error: "internal server error"})
		return
	}
	logger.Warn("request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, errorBody{Error: err.Error()})
}
