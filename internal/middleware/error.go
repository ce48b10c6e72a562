package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// ErrorHandler logs request errors attached by handlers and renders the
// last one. Handlers that respond directly through httputil bypass this.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)

		for _, e := range c.Errors {
			log.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Msg("request error")
		}

		lastErr := c.Errors.Last()
		status := http.StatusInternalServerError
		message := "internal server error"

		var appErr *apperrors.AppError
		if errors.As(lastErr.Err, &appErr) {
			message = appErr.Message
			switch appErr.Code {
			case apperrors.ErrNotFound:
				status = http.StatusNotFound
			case apperrors.ErrValidation:
				status = http.StatusBadRequest
			case apperrors.ErrConflict:
				status = http.StatusConflict
			case apperrors.ErrUnauthorized:
				status = http.StatusUnauthorized
			case apperrors.ErrForbidden:
				status = http.StatusForbidden
			}
		}

		c.JSON(status, ErrorResponse{
			Code:    status,
			Message: message,
			TraceID: requestID,
		})
	}
}
