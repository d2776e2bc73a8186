package errors

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind classifies an error into one of the failure kinds callers branch on.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDuplicateEmail
	KindInternal
)

// String returns the wire name of the kind, used in API error payloads.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindDuplicateEmail:
		return "duplicate_email"
	case KindInternal:
		return "internal_error"
	default:
		return "unknown_error"
	}
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// NotFoundError reports that no resource matched the given criterion.
type NotFoundError struct {
	Resource  string
	Criterion string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, criterion string) *NotFoundError {
	return &NotFoundError{
		Resource:  resource,
		Criterion: criterion,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Criterion == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Criterion)
}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// DuplicateEmailError reports that an email is already held by another user.
type DuplicateEmailError struct {
	Email string
}

// NewDuplicateEmailError creates a new duplicate email error
func NewDuplicateEmailError(email string) *DuplicateEmailError {
	return &DuplicateEmailError{Email: email}
}

// Error implements the error interface
func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email already exists: %s", e.Email)
}

// GRPCStatus returns the gRPC status for this error
func (e *DuplicateEmailError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// GRPCStatus returns the gRPC status for this error.
// The wrapped cause is not exposed to callers.
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, e.Message)
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}

// KindOf walks the error chain and reports the first known failure kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		duplicateErr  *DuplicateEmailError
		internalErr   *InternalError
	)
	switch {
	case errors.As(err, &validationErr):
		return KindValidation
	case errors.As(err, &notFoundErr):
		return KindNotFound
	case errors.As(err, &duplicateErr):
		return KindDuplicateEmail
	case errors.As(err, &internalErr):
		return KindInternal
	default:
		return KindUnknown
	}
}

// IsValidation reports whether err carries a validation failure.
func IsValidation(err error) bool { return KindOf(err) == KindValidation }

// IsNotFound reports whether err carries a not-found failure.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsDuplicateEmail reports whether err carries a duplicate-email failure.
func IsDuplicateEmail(err error) bool { return KindOf(err) == KindDuplicateEmail }

// HTTPStatus maps an error to the HTTP status code the REST layer answers with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateEmail:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
