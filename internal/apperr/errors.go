// Package apperr defines the domain error taxonomy shared by every feature
// package. Handlers translate these into HTTP status codes; services and
// repositories only ever deal in these types.
package apperr

import "fmt"

// ValidationError reports malformed caller input, attributed to a field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validation builds a field-attributed ValidationError.
func Validation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError reports a state collision: double payment, duplicate
// assignment, duplicate receipt.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func Conflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IntegrityViolation reports a rejected destructive operation that would
// erase paid history. Never absorbed silently.
type IntegrityViolation struct {
	Message string
}

func (e *IntegrityViolation) Error() string { return e.Message }

func Integrity(format string, args ...interface{}) *IntegrityViolation {
	return &IntegrityViolation{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a missing referenced row.
type NotFoundError struct {
	Resource string
	ID       uint
}

func (e *NotFoundError) Error() string {
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NotFound(resource string, id uint) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// PermissionDenied reports a failed capability check at the boundary.
type PermissionDenied struct {
	Action string
}

func (e *PermissionDenied) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}

func Denied(action string) *PermissionDenied {
	return &PermissionDenied{Action: action}
}
