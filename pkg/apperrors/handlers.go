package apperrors

import (
	"tdc_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Code    ErrorCode   `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

// GinErrorHandler writes AppErrors to a gin response.
type GinErrorHandler struct{}

// HandleGinError converts any error into the JSON envelope. Non-AppErrors and 5xx never
// leak their cause to the client.
func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		cause := error(appErr)
		if appErr.Err != nil {
			cause = appErr.Err
		}
		logger.CtxError(c.Request.Context(), "server error",
			"code", appErr.Code,
			"domain", appErr.Domain,
			"error", cause.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, ErrorResponse{
		Success: false,
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// HandleError is shorthand for GinErrorHandler.HandleGinError.
func HandleError(c *gin.Context, err error) {
	handler := &GinErrorHandler{}
	handler.HandleGinError(c, err)
}

// AsAppError unwraps err to an *AppError if it holds one.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
