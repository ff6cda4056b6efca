package entity

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

const concurrencyConflictMessage = "The data was modified by another user while you were trying to save. Please refresh and try again."

// DomainError is a not found or conflict error carrying a message that is safe to show to the client.
type DomainError struct {
	kind    error
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.kind
}

func NewNotFoundError(format string, args ...any) error {
	return &DomainError{kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) error {
	return &DomainError{kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func NewConcurrencyConflictError() error {
	return &DomainError{kind: ErrConcurrencyConflict, Message: concurrencyConflictMessage}
}

// ValidationError maps a field name to the ordered list of messages describing what is wrong with it.
type ValidationError struct {
	Errors map[string][]string
}

func NewValidationError(field, message string) error {
	return &ValidationError{Errors: map[string][]string{field: {message}}}
}

func (e *ValidationError) Error() string {
	fields := lo.Keys(e.Errors)
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.Errors[field], ", "))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Validator collects field errors, so all broken rules are reported at once.
type Validator struct {
	errors map[string][]string
}

func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	if v.errors == nil {
		v.errors = map[string][]string{}
	}
	v.errors[field] = append(v.errors[field], message)
}

// Err returns nil when every check passed.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}
	return &ValidationError{Errors: v.errors}
}

// Merge copies field errors of a ValidationError, prefixing the field names. Other errors are ignored.
func (v *Validator) Merge(prefix string, err error) {
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		return
	}

	for field, messages := range validationErr.Errors {
		for _, message := range messages {
			v.Check(false, prefix+field, message)
		}
	}
}
