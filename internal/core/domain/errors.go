package domain

import "errors"

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidToken         = errors.New("invalid token")
	ErrUserExists           = errors.New("email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidPassword      = errors.New("invalid password")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrNoContributions      = errors.New("no data available for export")
	ErrUploadTooLarge       = errors.New("upload too large")
	ErrUnsupportedUpload    = errors.New("unsupported upload type")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
