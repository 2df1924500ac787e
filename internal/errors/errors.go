package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a login names an unknown username.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid password")
	// ErrForbidden is returned when the acting role may not perform an operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a generic record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrIssueNotFound is returned when an issue id does not exist.
	ErrIssueNotFound = errors.New("issue not found")
	// ErrLecturerNotFound is returned when an id does not name a lecturer.
	ErrLecturerNotFound = errors.New("lecturer not found")
	// ErrProfileNotFound is returned when the caller has no profile of the requested kind.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidTransition is returned when an issue cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid issue status transition")
	// ErrLecturerIDRequired is returned when an assignment names no lecturer.
	ErrLecturerIDRequired = errors.New("lecturer ID is required")
	// ErrRefreshTokenRequired is returned when logout or refresh carries no token.
	ErrRefreshTokenRequired = errors.New("refresh token is required")
	// ErrInvalidRefreshToken is returned when a refresh token is malformed, expired or unknown.
	ErrInvalidRefreshToken = errors.New("token is invalid or expired")
	// ErrTokenBlacklisted is returned when a refresh token has already been revoked.
	ErrTokenBlacklisted = errors.New("token is blacklisted")
	// ErrCreation is returned when a record could not be persisted.
	ErrCreation = errors.New("could not create record")
)

// ForbiddenError carries a caller-facing reason for an authorization failure.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// Unwrap lets errors.Is match ErrForbidden.
func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// Forbidden builds a ForbiddenError with the given reason.
func Forbidden(reason string) error {
	return &ForbiddenError{Reason: reason}
}

// TransitionError explains why a lifecycle transition was refused.
type TransitionError struct {
	Reason string
}

func (e *TransitionError) Error() string {
	return e.Reason
}

// Unwrap lets errors.Is match ErrInvalidTransition.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrIssueNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ISSUE_NOT_FOUND")
	case errors.Is(err, ErrLecturerNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LECTURER_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrLecturerIDRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "LECTURER_ID_REQUIRED")
	case errors.Is(err, ErrRefreshTokenRequired):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "REFRESH_TOKEN_REQUIRED")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrTokenBlacklisted):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TOKEN_BLACKLISTED")
	case errors.Is(err, ErrCreation):
		// The cause stays in the logs; clients only see the category.
		return NewHTTPError(http.StatusBadRequest, ErrCreation.Error(), "CREATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
