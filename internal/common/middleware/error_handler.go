package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"participant-service/internal/common/errors"
	"participant-service/internal/common/logger"
)

// RequestID attaches an ID to every request, honoring one supplied by the
// caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// Recovery converts panics into the standard error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error().
			Str("request_id", getRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Interface("panic", recovered).
			Str("stack", string(debug.Stack())).
			Msg("Panic recovered")

		appErr := errors.New(errors.ErrCodeInternal, "Internal server error").
			WithDetail("panic", fmt.Sprintf("%v", recovered))
		SendError(c, appErr)
	})
}

// ErrorResponse is the uniform error envelope written by SendError.
type ErrorResponse struct {
	Success   bool                   `json:"success"`
	Error     string                 `json:"error"`
	ErrorCode string                 `json:"error_code"`
	Retryable bool                   `json:"retryable"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id"`
}

// SendError maps err to an HTTP status, logs it, and writes the envelope.
// Non-AppError values are treated as internal errors.
func SendError(c *gin.Context, err error) {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "Internal server error")
	}

	logError(c, appErr)

	c.AbortWithStatusJSON(StatusCode(appErr), ErrorResponse{
		Success:   false,
		Error:     appErr.Message,
		ErrorCode: string(appErr.Code),
		Retryable: appErr.Retryable(),
		Details:   appErr.Details,
		Timestamp: appErr.Timestamp,
		RequestID: getRequestID(c),
	})
}

// StatusCode maps an application error code to its HTTP status.
func StatusCode(appErr *errors.AppError) int {
	switch appErr.Code {
	case errors.ErrCodeValidation:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeGiveawayNotFound, errors.ErrCodeParticipantNotFound,
		errors.ErrCodeCaptchaSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeForbidden:
		return http.StatusForbidden
	case errors.ErrCodeConflict, errors.ErrCodeAlreadyParticipated:
		return http.StatusConflict
	case errors.ErrCodeCaptchaExpired:
		return http.StatusGone
	case errors.ErrCodeGiveawayNotActive, errors.ErrCodeNotSubscribed,
		errors.ErrCodeInsufficientParticipants, errors.ErrCodeCaptchaAlreadyCompleted:
		return http.StatusBadRequest
	case errors.ErrCodeChannelNotFound, errors.ErrCodeBotTokenMissing,
		errors.ErrCodeTelegramAPI, errors.ErrCodeExternalAPI:
		return http.StatusBadGateway
	case errors.ErrCodeDatabaseError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func logError(c *gin.Context, appErr *errors.AppError) {
	event := logger.Error()
	switch {
	case appErr.Code == errors.ErrCodeUnauthorized || appErr.Code == errors.ErrCodeForbidden:
		event = logger.Warn()
	case appErr.IsNotFound():
		event = logger.Info()
	case appErr.Code == errors.ErrCodeValidation || appErr.Code == errors.ErrCodeAlreadyParticipated ||
		appErr.Code == errors.ErrCodeNotSubscribed || appErr.Code == errors.ErrCodeGiveawayNotActive ||
		appErr.Code == errors.ErrCodeCaptchaExpired || appErr.Code == errors.ErrCodeCaptchaAlreadyCompleted:
		event = logger.Info()
	}

	event = event.
		Str("request_id", getRequestID(c)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("error_code", string(appErr.Code)).
		Str("error_message", appErr.Message)
	if appErr.Cause != nil {
		event = event.Err(appErr.Cause)
	}
	event.Msg("Request failed")
}

func getRequestID(c *gin.Context) string {
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return "unknown"
}
