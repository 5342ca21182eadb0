package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrTransient        = errors.New("transient remote failure")
	ErrAuthentication   = errors.New("authentication failed")
	ErrValidation       = errors.New("validation failed")
)

// Kind names the class of a remote store failure.
type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindPermissionDenied Kind = "permission_denied"
	KindTransient        Kind = "transient"
)

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindPermissionDenied:
		return ErrPermissionDenied
	default:
		return ErrTransient
	}
}

// StoreError is returned by row store operations. It matches both its kind
// sentinel and the underlying cause with errors.Is.
type StoreError struct {
	Op    string
	Table string
	Kind  Kind
	Err   error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %s", e.Op, e.Table, e.Kind)
	}
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind.sentinel()}
	}
	return []error{e.Kind.sentinel(), e.Err}
}

func NewStoreError(op, table string, kind Kind, err error) error {
	return &StoreError{Op: op, Table: table, Kind: kind, Err: err}
}

// KindOf reports the store failure kind carried by err, or "" when err is not
// a store failure.
func KindOf(err error) Kind {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Kind
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrPermissionDenied):
		return KindPermissionDenied
	case errors.Is(err, ErrTransient):
		return KindTransient
	}
	return ""
}
