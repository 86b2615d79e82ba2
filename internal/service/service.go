package service

import (
	"context"
	"errors"

	"pos-service/internal/models"
)

// EventPublisher is the slice of the broker the services publish through.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
	PublishStockTransferCompleted(ctx context.Context, event *models.StockTransferCompletedEvent) error
	PublishDepositRecorded(ctx context.Context, event *models.DepositRecordedEvent) error
	PublishLowStock(ctx context.Context, event *models.LowStockEvent) error
}

// Cache fronts inventory reads. It is advisory only; every write path
// invalidates and the database remains the source of truth.
type Cache interface {
	GetQuantity(ctx context.Context, storeID, productID int64) (int, bool, error)
	SetQuantity(ctx context.Context, storeID, productID int64, quantity int) error
	InvalidateQuantity(ctx context.Context, storeID, productID int64) error
	GetProductStock(ctx context.Context, productID int64) (int, bool, error)
	SetProductStock(ctx context.Context, productID int64, stock int) error
	InvalidateProductStock(ctx context.Context, productID int64) error
}

// failureReason labels an error for the failure counters.
func failureReason(err error) string {
	var insufficientStock *models.InsufficientStockError
	var notFoundErr *models.NotFoundError
	var validationErr *models.ValidationError
	var uniqueErr *models.UniquenessConflictError
	var transitionErr *models.InvalidStateTransitionError

	switch {
	case errors.As(err, &insufficientStock):
		return "insufficient_stock"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &uniqueErr):
		return "uniqueness_conflict"
	case errors.As(err, &transitionErr):
		return "invalid_transition"
	case errors.Is(err, models.ErrConcurrencyConflict):
		return "concurrency_conflict"
	default:
		return "db_error"
	}
}
