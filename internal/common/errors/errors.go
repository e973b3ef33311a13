package errors

import (
	"fmt"
	"time"
)

// ErrorCode is a stable machine-readable error identifier surfaced to callers.
type ErrorCode string

const (
	// Generic
	ErrCodeInternal     ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeConflict     ErrorCode = "CONFLICT"

	// Participation
	ErrCodeAlreadyParticipated      ErrorCode = "ALREADY_PARTICIPATED"
	ErrCodeNotSubscribed            ErrorCode = "USER_NOT_SUBSCRIBED"
	ErrCodeGiveawayNotActive        ErrorCode = "GIVEAWAY_NOT_ACTIVE"
	ErrCodeGiveawayNotFound         ErrorCode = "GIVEAWAY_NOT_FOUND"
	ErrCodeParticipantNotFound      ErrorCode = "PARTICIPANT_NOT_FOUND"
	ErrCodeInsufficientParticipants ErrorCode = "INSUFFICIENT_PARTICIPANTS"

	// Captcha
	ErrCodeCaptchaExpired          ErrorCode = "CAPTCHA_EXPIRED"
	ErrCodeCaptchaSessionNotFound  ErrorCode = "CAPTCHA_SESSION_NOT_FOUND"
	ErrCodeCaptchaAlreadyCompleted ErrorCode = "CAPTCHA_ALREADY_COMPLETED"

	// Subscription verification dependencies
	ErrCodeChannelNotFound ErrorCode = "CHANNEL_NOT_FOUND"
	ErrCodeBotTokenMissing ErrorCode = "BOT_TOKEN_MISSING"
	ErrCodeTelegramAPI     ErrorCode = "TELEGRAM_API_ERROR"
	ErrCodeExternalAPI     ErrorCode = "EXTERNAL_API_ERROR"

	// Storage
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
)

// AppError is the typed application error carried through all core operations.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether the caller may retry the request unchanged.
// Dependency and storage failures leave no partial state behind.
func (e *AppError) Retryable() bool {
	switch e.Code {
	case ErrCodeTelegramAPI, ErrCodeExternalAPI, ErrCodeDatabaseError, ErrCodeInternal:
		return true
	}
	return false
}

// IsNotFound reports whether the error is a "not found" condition.
func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound ||
		e.Code == ErrCodeGiveawayNotFound ||
		e.Code == ErrCodeParticipantNotFound ||
		e.Code == ErrCodeCaptchaSessionNotFound
}

// WithDetail attaches structured context to the error.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap wraps an underlying error with an application code.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

// Wrapf wraps an underlying error with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewGiveawayNotFoundError creates a "giveaway not found" error.
func NewGiveawayNotFoundError(giveawayID int64) *AppError {
	return New(ErrCodeGiveawayNotFound, fmt.Sprintf("Giveaway not found: %d", giveawayID)).
		WithDetail("giveaway_id", giveawayID)
}

// NewDatabaseError wraps a storage failure.
func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError extracts an AppError from an error chain, if present.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if err != nil {
		appErr, _ = err.(*AppError)
	}
	return appErr, appErr != nil
}
