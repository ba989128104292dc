package handlers

import (
	"errors"
	"net/http"

	"phoneauth/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing messages.
const (
	msgInvalidPhone       = "Phone must be a 10-digit number"
	msgUserExists         = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgItemNotFound       = "Item not found"
	msgForbidden          = "Forbidden"
	msgPasswordTooLong    = "Password must be at most 72 bytes"
	msgStorageUnavailable = "Storage temporarily unavailable"
	msgInternal           = "Internal server error"
	msgInvalidToken       = "Invalid or expired token"
	msgInvalidBody        = "Invalid request body"
)

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Detail string `json:"detail" example:"Invalid credentials"`
}

func abortWithDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, errorResponse{Detail: detail})
}

// writeServiceError maps service errors to status codes in one place.
// Unexpected errors are logged with logKey.
func (h *Handler) writeServiceError(c *gin.Context, err error, logKey string, kv ...interface{}) {
	code, detail := http.StatusInternalServerError, msgInternal
	switch {
	case errors.Is(err, service.ErrInvalidPhone):
		code, detail = http.StatusBadRequest, msgInvalidPhone
	case errors.Is(err, service.ErrPasswordTooLong):
		code, detail = http.StatusBadRequest, msgPasswordTooLong
	case errors.Is(err, service.ErrDuplicatePhone):
		code, detail = http.StatusConflict, msgUserExists
	case errors.Is(err, service.ErrInvalidCredentials):
		code, detail = http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, service.ErrInvalidToken):
		code, detail = http.StatusUnauthorized, msgInvalidToken
	case errors.Is(err, service.ErrItemNotFound):
		code, detail = http.StatusNotFound, msgItemNotFound
	case errors.Is(err, service.ErrStorageUnavailable):
		code, detail = http.StatusServiceUnavailable, msgStorageUnavailable
	}

	fields := append([]interface{}{"err", err, "status", code, "request_id", requestID(c)}, kv...)
	if code >= http.StatusInternalServerError {
		h.log.Errorw(logKey, fields...)
	} else {
		h.log.Infow(logKey, fields...)
	}
	abortWithDetail(c, code, detail)
}
