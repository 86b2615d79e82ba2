package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// NotificationStore is the persistence surface for notifications and the
// target lookups behind them.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotificationsFor(ctx context.Context, target models.Notifiable) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUsersByRole(ctx context.Context, role string) ([]models.User, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
}

// NotificationService writes notifications addressed to typed targets.
type NotificationService struct {
	store  NotificationStore
	logger *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(st NotificationStore) *NotificationService {
	return &NotificationService{
		store:  st,
		logger: util.GetLogger(),
	}
}

// ResolveTarget looks up the entity behind a notifiable target, rejecting
// unknown kinds.
func (s *NotificationService) ResolveTarget(ctx context.Context, target models.Notifiable) (interface{}, error) {
	switch target.Kind {
	case models.NotifiableUser:
		return s.store.GetUserByID(ctx, target.ID)
	case models.NotifiableCustomer:
		return s.store.GetCustomerByID(ctx, target.ID)
	default:
		return nil, &models.ValidationError{Field: "target_kind", Reason: "unknown notifiable kind " + target.Kind}
	}
}

// Notify writes one notification after resolving the target.
func (s *NotificationService) Notify(ctx context.Context, target models.Notifiable, title, body string) (*models.Notification, error) {
	if _, err := s.ResolveTarget(ctx, target); err != nil {
		return nil, err
	}

	n := &models.Notification{
		Notifiable: target,
		Title:      title,
		Body:       body,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	util.NotificationsCreatedTotal.WithLabelValues(target.Kind).Inc()
	return n, nil
}

// ListFor returns notifications for a target, newest first
func (s *NotificationService) ListFor(ctx context.Context, target models.Notifiable) ([]models.Notification, error) {
	return s.store.GetNotificationsFor(ctx, target)
}

// MarkRead flags a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.store.MarkNotificationRead(ctx, id)
}

// HandleOrderPlaced notifies the ordering customer, if any.
func (s *NotificationService) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	if event.CustomerID == nil {
		return nil
	}
	target := models.Notifiable{Kind: models.NotifiableCustomer, ID: *event.CustomerID}
	_, err := s.Notify(ctx, target,
		"Order "+event.OrderNo+" completed",
		fmt.Sprintf("Your order %s for %s has been completed.", event.OrderNo, event.Total))
	return err
}

// HandleDepositRecorded notifies the customer of their new balance.
func (s *NotificationService) HandleDepositRecorded(ctx context.Context, event *models.DepositRecordedEvent) error {
	target := models.Notifiable{Kind: models.NotifiableCustomer, ID: event.CustomerID}
	_, err := s.Notify(ctx, target,
		"Deposit received",
		fmt.Sprintf("A deposit of %s was credited. New balance: %s.", event.Amount, event.NewBalance))
	return err
}

// HandleLowStock fans out to every manager.
func (s *NotificationService) HandleLowStock(ctx context.Context, event *models.LowStockEvent) error {
	managers, err := s.store.GetUsersByRole(ctx, models.RoleManager)
	if err != nil {
		return err
	}

	for _, manager := range managers {
		target := models.Notifiable{Kind: models.NotifiableUser, ID: manager.ID}
		if _, err := s.Notify(ctx, target,
			"Low stock: "+event.ProductName,
			fmt.Sprintf("Stock for %s is down to %d (threshold %d).",
				event.ProductName, event.Stock, event.Threshold)); err != nil {
			s.logger.Error("Failed to notify manager",
				zap.Int64("user_id", manager.ID),
				zap.Error(err))
		}
	}
	return nil
}

// HandleStockTransferCompleted fans out to every manager.
func (s *NotificationService) HandleStockTransferCompleted(ctx context.Context, event *models.StockTransferCompletedEvent) error {
	managers, err := s.store.GetUsersByRole(ctx, models.RoleManager)
	if err != nil {
		return err
	}

	for _, manager := range managers {
		target := models.Notifiable{Kind: models.NotifiableUser, ID: manager.ID}
		if _, err := s.Notify(ctx, target,
			fmt.Sprintf("Stock transfer #%d completed", event.RequisitionID),
			fmt.Sprintf("%d items moved from store %d to store %d.",
				len(event.Items), event.FromStore, event.ToStore)); err != nil {
			s.logger.Error("Failed to notify manager",
				zap.Int64("user_id", manager.ID),
				zap.Error(err))
		}
	}
	return nil
}
