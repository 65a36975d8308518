package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruiting-platform/internal/common/logger"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

// ErrorHandler converts application errors to HTTP responses.
type ErrorHandler struct {
	logger logger.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(log logger.Logger) *ErrorHandler {
	return &ErrorHandler{logger: log}
}

// HTTPStatus maps an error code to an HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeAuthenticationFailed, ErrCodeSessionInvalid:
		return http.StatusUnauthorized
	case ErrCodeForbidden, ErrCodeStageTransitionForbidden:
		return http.StatusForbidden
	case ErrCodeJobNotFound, ErrCodeProfileNotFound, ErrCodeApplicationNotFound, ErrCodeIndexNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateApplication:
		return http.StatusConflict
	case ErrCodeJobValidationFailed, ErrCodeProfileValidationFailed,
		ErrCodeAnswersValidationFailed, ErrCodeInvalidStage,
		ErrCodeInvalidResumeType, ErrCodeResumeRequired:
		return http.StatusUnprocessableEntity
	case ErrCodeQueryTimeout, ErrCodeSearchTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeDatabaseConnectionFailed, ErrCodeSearchQueryFailed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes the error as a JSON response and logs it with its category.
func (h *ErrorHandler) Respond(c *gin.Context, err error) {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) {
		h.logger.WithError(err).Error("Unhandled internal error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "An unexpected error occurred",
		})
		return
	}

	status := HTTPStatus(stdErr.Code)
	fields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
		"httpStatus":    status,
		"retryable":     stdErr.Retryable,
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(fields).WithError(stdErr).Error("Request failed")
	} else {
		h.logger.WithFields(fields).Warn("Request rejected")
	}

	c.JSON(status, ErrorResponse{
		Code:    stdErr.Code,
		Message: stdErr.Message,
		Details: stdErr.Details,
	})
}
