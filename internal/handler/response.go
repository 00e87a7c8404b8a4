package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"eposupdate/internal/domain"
	"eposupdate/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// RespondErrorWithData sends an error response that still carries data.
func RespondErrorWithData(c *gin.Context, status int, code, msg string, data interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Data:    data,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, domain.CodeMissingFile, "file field is required"
	case errors.Is(err, domain.ErrUnknownUpdateOption):
		return http.StatusBadRequest, domain.CodeUnknownOption, err.Error()
	case errors.Is(err, domain.ErrNotCSV):
		return http.StatusBadRequest, domain.CodeNotCSV, "uploaded file must have a .csv extension"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, domain.CodeFileTooLarge, "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrRowLimitExceeded):
		return http.StatusUnprocessableEntity, domain.CodeRowLimitExceeded, err.Error()
	case errors.Is(err, domain.ErrValidationUnavailable):
		return http.StatusBadGateway, domain.CodeValidationUnavailable, "record validation service unavailable"
	case errors.Is(err, domain.ErrUpdateSubmissionFailed):
		return http.StatusBadGateway, domain.CodeUpdateSubmissionFailed, "record update failed"
	default:
		return http.StatusInternalServerError, domain.CodeInternal, "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Error("internal error", zap.Error(err))
	}
	RespondError(c, status, code, msg)
}
