package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/money"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderStore is the persistence surface the order engine needs.
type OrderStore interface {
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
	InOrderTx(ctx context.Context, fn func(store.OrderTx) error) error
}

// OrderService places orders against shared stock.
type OrderService struct {
	store             OrderStore
	cache             Cache
	events            EventPublisher
	lowStockThreshold int
	logger            *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st OrderStore, cache Cache, events EventPublisher, lowStockThreshold int) *OrderService {
	return &OrderService{
		store:             st,
		cache:             cache,
		events:            events,
		lowStockThreshold: lowStockThreshold,
		logger:            util.GetLogger(),
	}
}

// PlaceOrderRequest represents a request to place an order
type PlaceOrderRequest struct {
	CustomerID     *int64             `json:"customer_id,omitempty"`
	Lines          []OrderLineRequest `json:"lines" binding:"required,min=1"`
	Notes          string             `json:"notes"`
	IdempotencyKey string             `json:"idempotency_key,omitempty"`
}

// OrderLineRequest represents one requested line
type OrderLineRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderResponse carries the persisted order with lines and customer attached
type PlaceOrderResponse struct {
	Order    *models.Order      `json:"order"`
	Lines    []models.OrderLine `json:"lines"`
	Customer *models.Customer   `json:"customer,omitempty"`
}

func validatePlaceOrder(req *PlaceOrderRequest) error {
	if len(req.Lines) == 0 {
		return &models.ValidationError{Field: "lines", Reason: "must not be empty"}
	}
	seen := make(map[int64]bool, len(req.Lines))
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return &models.ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		if seen[line.ProductID] {
			return &models.ValidationError{Field: "product_id", Reason: "duplicate product in order"}
		}
		seen[line.ProductID] = true
	}
	return nil
}

func newOrderNo() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// PlaceOrder validates the request, then runs the whole order as one atomic
// transaction: shell, row locks, sufficiency checks, lines, stock decrements
// and the total update. Nothing is visible if any line fails.
func (s *OrderService) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*PlaceOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderPlacementLatency.Observe(time.Since(start).Seconds())
	}()

	if err := validatePlaceOrder(req); err != nil {
		util.OrdersFailedTotal.WithLabelValues("validation").Inc()
		return nil, err
	}

	var customer *models.Customer
	if req.CustomerID != nil {
		c, err := s.store.GetCustomerByID(ctx, *req.CustomerID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
			return nil, err
		}
		customer = c
	}

	if req.IdempotencyKey != "" {
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			s.logger.Info("Duplicate order request detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.Int64("order_id", existing.ID))
			lines, err := s.store.GetOrderLines(ctx, existing.ID)
			if err != nil {
				return nil, err
			}
			return &PlaceOrderResponse{Order: existing, Lines: lines, Customer: customer}, nil
		}
	}

	// Locks are acquired in product-id order, not client line order, so two
	// overlapping orders cannot form a deadlock cycle.
	sorted := make([]OrderLineRequest, len(req.Lines))
	copy(sorted, req.Lines)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ProductID < sorted[j].ProductID })

	order := &models.Order{
		OrderNo:    newOrderNo(),
		CustomerID: req.CustomerID,
		Status:     models.OrderStatusCompleted,
		Total:      money.Zero(),
		Notes:      req.Notes,
	}
	if req.IdempotencyKey != "" {
		order.IdempotencyKey = &req.IdempotencyKey
	}

	var lines []models.OrderLine
	var lowStock []*models.LowStockEvent

	err := s.store.InOrderTx(ctx, func(tx store.OrderTx) error {
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		total := money.Zero()
		for _, lr := range sorted {
			product, err := tx.LockProduct(ctx, lr.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < lr.Quantity {
				return &models.InsufficientStockError{
					Product:   product.Name,
					Requested: lr.Quantity,
					Available: product.Stock,
				}
			}

			lineTotal := money.Mul(product.Price, lr.Quantity)
			line := models.OrderLine{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  lr.Quantity,
				UnitPrice: product.Price,
				LineTotal: lineTotal,
			}
			if err := tx.InsertOrderLine(ctx, &line); err != nil {
				return err
			}
			if err := tx.DecrementProductStock(ctx, product.ID, lr.Quantity); err != nil {
				return err
			}

			total = money.Add(total, lineTotal)
			lines = append(lines, line)

			if remaining := product.Stock - lr.Quantity; remaining <= s.lowStockThreshold {
				lowStock = append(lowStock, &models.LowStockEvent{
					BaseEvent: models.BaseEvent{
						EventID:   uuid.New().String(),
						EventType: models.EventTypeLowStock,
						Timestamp: time.Now(),
					},
					ProductID:   product.ID,
					ProductName: product.Name,
					Stock:       remaining,
					Threshold:   s.lowStockThreshold,
				})
			}
		}

		order.Total = total
		return tx.SetOrderTotal(ctx, order.ID, total)
	})
	if err != nil {
		util.OrdersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	// Side effects only after the transaction has committed.
	for _, lr := range sorted {
		if cacheErr := s.cache.InvalidateProductStock(ctx, lr.ProductID); cacheErr != nil {
			s.logger.Warn("Failed to invalidate stock cache",
				zap.Int64("product_id", lr.ProductID),
				zap.Error(cacheErr))
		}
	}

	util.OrdersPlacedTotal.Inc()
	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.String("order_no", order.OrderNo),
		zap.String("total", order.Total.StringFixed(2)))

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:    order.ID,
		OrderNo:    order.OrderNo,
		CustomerID: order.CustomerID,
		Total:      order.Total.StringFixed(2),
	}
	for _, line := range lines {
		event.Lines = append(event.Lines, models.OrderLineData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.StringFixed(2),
			LineTotal: line.LineTotal.StringFixed(2),
		})
	}
	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}

	for _, ev := range lowStock {
		util.LowStockEventsTotal.Inc()
		if err := s.events.PublishLowStock(ctx, ev); err != nil {
			s.logger.Error("Failed to publish LowStock event", zap.Error(err))
		}
	}

	return &PlaceOrderResponse{Order: order, Lines: lines, Customer: customer}, nil
}

// GetOrder retrieves an order with its lines and customer attached
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*PlaceOrderResponse, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	lines, err := s.store.GetOrderLines(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var customer *models.Customer
	if order.CustomerID != nil {
		customer, err = s.store.GetCustomerByID(ctx, *order.CustomerID)
		if err != nil {
			return nil, err
		}
	}

	return &PlaceOrderResponse{Order: order, Lines: lines, Customer: customer}, nil
}
