package service

import (
	"errors"
	"fmt"
)

// Domain failure kinds. Everything here reaches the client as a 400 with a
// human-readable detail message; like-toggle uniqueness races are recovered
// internally and never surface.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrDuplicateTitle = errors.New("duplicate title")
)

// DomainError pairs a failure kind with the exact detail string the client
// receives. errors.Is works against the kind.
type DomainError struct {
	Kind   error
	Detail string
}

func (e *DomainError) Error() string { return e.Detail }

func (e *DomainError) Unwrap() error { return e.Kind }

func notFoundf(format string, args ...any) error {
	return &DomainError{Kind: ErrNotFound, Detail: fmt.Sprintf(format, args...)}
}

func validationf(format string, args ...any) error {
	return &DomainError{Kind: ErrValidation, Detail: fmt.Sprintf(format, args...)}
}

func duplicateTitlef(format string, args ...any) error {
	return &DomainError{Kind: ErrDuplicateTitle, Detail: fmt.Sprintf(format, args...)}
}
