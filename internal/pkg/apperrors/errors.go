package apperrors

import "errors"

// Error kinds. Every error returned by a service wraps exactly one of these.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
)

// Authentication errors
var (
	ErrInvalidCredentials = &CustomError{Err: ErrUnauthorized, Message: "Invalid credentials"}
	ErrTokenInvalid       = &CustomError{Err: ErrUnauthorized, Message: "Token is not valid"}
	ErrTokenExpired       = &CustomError{Err: ErrUnauthorized, Message: "Token has expired"}
)

// Resource errors
var (
	ErrUserNotFound         = &CustomError{Err: ErrResourceNotFound, Message: "User not found"}
	ErrClassNotFound        = &CustomError{Err: ErrResourceNotFound, Message: "Class not found"}
	ErrPostNotFound         = &CustomError{Err: ErrResourceNotFound, Message: "Post not found"}
	ErrNoteNotFound         = &CustomError{Err: ErrResourceNotFound, Message: "Note not found"}
	ErrMessageNotFound      = &CustomError{Err: ErrResourceNotFound, Message: "Message not found"}
	ErrStudyGroupNotFound   = &CustomError{Err: ErrResourceNotFound, Message: "Study group not found"}
	ErrStudySessionNotFound = &CustomError{Err: ErrResourceNotFound, Message: "Study session not found"}
)

// Uniqueness errors
var (
	ErrEmailAlreadyExists = &CustomError{Err: ErrConflict, Message: "User already exists with this email"}
	ErrClassCodeExists    = &CustomError{Err: ErrConflict, Message: "A class with this code already exists"}
)

// Membership errors
var (
	ErrNotClassMember = &CustomError{Err: ErrPermissionDenied, Message: "You must be a member of this class"}
)

// CustomError carries a user-facing message on top of an error kind
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{Err: err, Message: message}
}

func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message)
}

func NewUnauthorizedError(message string) error {
	return NewCustomError(ErrUnauthorized, message)
}

func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message)
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message)
}

func NewConflictError(message string) error {
	return NewCustomError(ErrConflict, message)
}

// Message returns the user-facing message of err, or fallback when err carries none
func Message(err error, fallback string) string {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

// Is returns whether err matches target or any of errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
