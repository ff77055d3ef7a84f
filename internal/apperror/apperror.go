// Package apperror defines the error kinds the API surfaces to clients.
// Services return *AppError for expected outcomes; anything else is treated
// as an internal failure by the HTTP layer.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind categorizes an application error
type Kind int

const (
	Internal Kind = iota
	Validation
	EmailTaken
	InvalidCredentials
	Unauthorized
	NotFound
	RateLimited
)

// AppError is an error with a client-safe message
type AppError struct {
	Kind    Kind
	Message string
	// Details lists individual violations for Validation errors.
	Details []string
	Err     error
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

// StatusCode returns the HTTP status for the error kind
func (e *AppError) StatusCode() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case EmailTaken:
		return http.StatusConflict
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case RateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Code returns a machine-readable code for the error kind
func (e *AppError) Code() string {
	switch e.Kind {
	case Validation:
		return "VALIDATION_ERROR"
	case EmailTaken:
		return "EMAIL_TAKEN"
	case InvalidCredentials:
		return "INVALID_CREDENTIALS"
	case Unauthorized:
		return "UNAUTHORIZED"
	case NotFound:
		return "NOT_FOUND"
	case RateLimited:
		return "RATE_LIMITED"
	default:
		return "INTERNAL_ERROR"
	}
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// NewValidation builds a Validation error whose message joins all violations.
func NewValidation(violations ...string) *AppError {
	msg := "invalid request"
	if len(violations) > 0 {
		msg = joinMessages(violations)
	}
	return &AppError{Kind: Validation, Message: msg, Details: violations}
}

func NewEmailTaken() *AppError {
	return New(EmailTaken, "Email already registered", nil)
}

func NewInvalidCredentials() *AppError {
	return New(InvalidCredentials, "Invalid credentials", nil)
}

func NewUnauthorized(message string, err error) *AppError {
	return New(Unauthorized, message, err)
}

func NewNotFound(message string) *AppError {
	return New(NotFound, message, nil)
}

func NewRateLimited() *AppError {
	return New(RateLimited, "Too many attempts, please try again later.", nil)
}

// As extracts an *AppError from the chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries an AppError of the given kind
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

func joinMessages(msgs []string) string {
	out := msgs[0]
	for _, m := range msgs[1:] {
		out += ", " + m
	}
	return out
}
