package models

import (
	"errors"
	"fmt"
)

// ErrConcurrencyConflict indicates a deadlock or lock timeout reported by the
// datastore. The whole operation is safe to retry from scratch.
var ErrConcurrencyConflict = errors.New("concurrency conflict, retry the operation")

// ValidationError is raised before any transaction opens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when a referenced entity does not exist.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Entity, e.ID)
}

// InsufficientStockError aborts the enclosing transaction; nothing it touched
// is visible afterwards.
type InsufficientStockError struct {
	Product   string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested=%d, available=%d",
		e.Product, e.Requested, e.Available)
}

// InvalidStateTransitionError is a requisition state machine violation.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s -> %s", e.From, e.To)
}

// UniquenessConflictError maps a unique constraint violation (SKU, email,
// account number, order number, idempotency key).
type UniquenessConflictError struct {
	Field string
	Value string
}

func (e *UniquenessConflictError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Field, e.Value)
}
