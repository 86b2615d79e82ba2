package worker

import (
	"context"

	"pos-service/internal/broker"
	"pos-service/internal/service"
	"pos-service/internal/util"
)

// NotificationWorker consumes domain events and turns them into notifications.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, notifications *service.NotificationService) *NotificationWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnOrderPlaced(notifications.HandleOrderPlaced)
	eventHandler.OnDepositRecorded(notifications.HandleDepositRecorded)
	eventHandler.OnLowStock(notifications.HandleLowStock)
	eventHandler.OnStockTransferCompleted(notifications.HandleStockTransferCompleted)

	return &NotificationWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
	}
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	util.GetLogger().Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	util.GetLogger().Info("Stopping notification worker")
	return w.consumer.Close()
}
