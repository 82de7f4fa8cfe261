package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("insufficient permissions")
	ErrReferenced   = errors.New("part is referenced")
	ErrNotFound     = errors.New("not found")

	ErrPartNotFound = fmt.Errorf("part %w", ErrNotFound)
)

// ValidationError lists field-level problems. It unwraps to ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Add(field, reason string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = reason
}

func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation error: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ReferentialError is returned when a part cannot be deleted because an order
// line or a cart line still points at it.
type ReferentialError struct {
	Reason string
}

func (e *ReferentialError) Error() string { return e.Reason }

func (e *ReferentialError) Unwrap() error { return ErrReferenced }
