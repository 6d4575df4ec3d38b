package errors

import (
	"errors"
	"fmt"
)

var (
	// Generic errors
	ErrInternal       = errors.New("internal server error")
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("resource not found")
	ErrAlreadyExists  = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized request")

	// Authentication errors
	ErrInvalidCredentials  = errors.New("invalid user credentials")
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenUsed    = errors.New("refresh token is expired or used")

	// User errors
	ErrUserNotFound    = errors.New("user does not exist")
	ErrEmailExists     = errors.New("email is already in use")
	ErrUsernameExists  = errors.New("username is already taken")
	ErrInvalidPassword = errors.New("invalid password")

	// Media errors
	ErrAvatarRequired = errors.New("avatar file is required")
	ErrUploadFailed   = errors.New("file upload failed")

	// Social graph errors
	ErrChannelNotFound = errors.New("channel does not exist")
	ErrVideoNotFound   = errors.New("video does not exist")
	ErrPostNotFound    = errors.New("post does not exist")
)

// AppError carries an error together with the information the HTTP layer
// needs to shape a response. Services return plain sentinels; handlers wrap.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// IsNotFound reports whether err is a "not found" class error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrChannelNotFound) ||
		errors.Is(err, ErrVideoNotFound) ||
		errors.Is(err, ErrPostNotFound)
}

// IsUnauthorized reports whether err must map to 401. Messages stay vague on
// purpose so callers cannot tell which check rejected the credential.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrInvalidRefreshToken) ||
		errors.Is(err, ErrRefreshTokenUsed)
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrUsernameExists)
}

// IsBadRequest reports whether err is caller-correctable input.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidPassword) ||
		errors.Is(err, ErrAvatarRequired)
}
