package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	auctiondomain "github.com/smallbiznis/spotlight/internal/auction/domain"
	settingsdomain "github.com/smallbiznis/spotlight/internal/settings/domain"
)

// APIError is the error envelope returned to callers.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *APIError) Error() string { return e.Code }

var (
	ErrNotFound = &APIError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: "resource not found",
	}
	ErrTooManyRequests = &APIError{
		Status:  http.StatusTooManyRequests,
		Code:    "too_many_requests",
		Message: "rate limit exceeded",
	}
	ErrServiceUnavailable = &APIError{
		Status:  http.StatusServiceUnavailable,
		Code:    "service_unavailable",
		Message: "service unavailable",
	}
)

func invalidRequestError() *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body could not be parsed",
	}
}

func newValidationError(field, code, message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Message: message,
		Field:   field,
	}
}

// AbortWithError maps domain errors onto the API envelope.
func AbortWithError(c *gin.Context, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.Status, gin.H{"error": apiErr})
		return
	}

	switch {
	case errors.Is(err, settingsdomain.ErrSettingsNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": &APIError{
			Code:    "settings_not_found",
			Message: "unknown locale/placement pair",
		}})
	case errors.Is(err, auctiondomain.ErrInvalidLocale),
		errors.Is(err, auctiondomain.ErrInvalidPlacement),
		errors.Is(err, auctiondomain.ErrInvalidWindowStart),
		errors.Is(err, auctiondomain.ErrInvalidStatus),
		errors.Is(err, settingsdomain.ErrInvalidSettings):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": &APIError{
			Code:    err.Error(),
			Message: "invalid request parameter",
		}})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": &APIError{
			Code:    "internal_error",
			Message: "internal server error",
		}})
	}
}
