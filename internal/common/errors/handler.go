// internal/common/errors/handler.go
package errors

import "github.com/gin-gonic/gin"

// ErrorHandler writes standardized error responses for the dashboard API.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalizes err, logs it, and writes the JSON error body
// with the status code mapped from the error code.
func (h *ErrorHandler) HandleRequestError(c *gin.Context, err error) {
	stdErr := Normalize(err)

	h.logError(c, stdErr)

	c.JSON(HTTPStatusFor(stdErr.Code), gin.H{
		"status": "error",
		"error":  stdErr,
	})
}

func (h *ErrorHandler) logError(c *gin.Context, stdErr *StandardError) {
	h.logger.Error("Request failed", map[string]interface{}{
		"method":    c.Request.Method,
		"path":      c.FullPath(),
		"errorCode": string(stdErr.Code),
		"message":   stdErr.Message,
		"details":   stdErr.Details,
		"retryable": stdErr.Retryable,
	})
}
