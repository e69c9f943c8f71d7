// Package errors provides custom error types for the intabyu API.
// All service-layer errors should use AppError so that responses stay
// consistent and never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is reports whether target is an AppError carrying the same code, so that
// errors.Is(err, ErrNotFound) matches values derived with Wrap or WithMessage.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Access errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrAdminNotConfigured = &AppError{Code: "ADMIN_NOT_CONFIGURED", Message: "Administrative endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrInvalidInput    = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound        = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrPayloadTooLarge = &AppError{Code: "PAYLOAD_TOO_LARGE", Message: "Payload exceeds the configured maximum size", StatusCode: http.StatusRequestEntityTooLarge}
	ErrInternalServer  = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)

// Question errors.
var (
	ErrQuestionNotFound = &AppError{Code: "QUESTION_NOT_FOUND", Message: "Question not found", StatusCode: http.StatusNotFound}
)

// Recording errors.
var (
	ErrRecordingNotFound = &AppError{Code: "RECORDING_NOT_FOUND", Message: "Recording not found", StatusCode: http.StatusNotFound}
	ErrAudioFileNotFound = &AppError{Code: "AUDIO_FILE_NOT_FOUND", Message: "Audio file for this recording is missing", StatusCode: http.StatusNotFound}
	ErrInvalidAudio      = &AppError{Code: "INVALID_AUDIO", Message: "Audio payload could not be decoded", StatusCode: http.StatusBadRequest}
)
