package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishOrderPlaced publishes an OrderPlaced event
func (ep *EventPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	key := fmt.Sprintf("order-%d", event.OrderID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishStockTransferCompleted publishes a StockTransferCompleted event
func (ep *EventPublisher) PublishStockTransferCompleted(ctx context.Context, event *models.StockTransferCompletedEvent) error {
	key := fmt.Sprintf("requisition-%d", event.RequisitionID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishDepositRecorded publishes a DepositRecorded event
func (ep *EventPublisher) PublishDepositRecorded(ctx context.Context, event *models.DepositRecordedEvent) error {
	key := fmt.Sprintf("customer-%d", event.CustomerID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// PublishLowStock publishes a LowStock event
func (ep *EventPublisher) PublishLowStock(ctx context.Context, event *models.LowStockEvent) error {
	key := fmt.Sprintf("product-%d", event.ProductID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// EventHandler routes consumed events to registered callbacks
type EventHandler struct {
	onOrderPlaced            func(context.Context, *models.OrderPlacedEvent) error
	onStockTransferCompleted func(context.Context, *models.StockTransferCompletedEvent) error
	onDepositRecorded        func(context.Context, *models.DepositRecordedEvent) error
	onLowStock               func(context.Context, *models.LowStockEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnOrderPlaced registers a handler for OrderPlaced events
func (eh *EventHandler) OnOrderPlaced(handler func(context.Context, *models.OrderPlacedEvent) error) {
	eh.onOrderPlaced = handler
}

// OnStockTransferCompleted registers a handler for StockTransferCompleted events
func (eh *EventHandler) OnStockTransferCompleted(handler func(context.Context, *models.StockTransferCompletedEvent) error) {
	eh.onStockTransferCompleted = handler
}

// OnDepositRecorded registers a handler for DepositRecorded events
func (eh *EventHandler) OnDepositRecorded(handler func(context.Context, *models.DepositRecordedEvent) error) {
	eh.onDepositRecorded = handler
}

// OnLowStock registers a handler for LowStock events
func (eh *EventHandler) OnLowStock(handler func(context.Context, *models.LowStockEvent) error) {
	eh.onLowStock = handler
}

// HandleMessage routes messages to the appropriate handler
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypeOrderPlaced:
		if eh.onOrderPlaced != nil {
			var event models.OrderPlacedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderPlaced event: %w", err)
			}
			return eh.onOrderPlaced(ctx, &event)
		}

	case models.EventTypeStockTransferCompleted:
		if eh.onStockTransferCompleted != nil {
			var event models.StockTransferCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal StockTransferCompleted event: %w", err)
			}
			return eh.onStockTransferCompleted(ctx, &event)
		}

	case models.EventTypeDepositRecorded:
		if eh.onDepositRecorded != nil {
			var event models.DepositRecordedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal DepositRecorded event: %w", err)
			}
			return eh.onDepositRecorded(ctx, &event)
		}

	case models.EventTypeLowStock:
		if eh.onLowStock != nil {
			var event models.LowStockEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal LowStock event: %w", err)
			}
			return eh.onLowStock(ctx, &event)
		}

	default:
		logger.Debug("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
