package models

import "time"

// Event types
const (
	EventTypeOrderPlaced            = "ORDER_PLACED"
	EventTypeStockTransferCompleted = "STOCK_TRANSFER_COMPLETED"
	EventTypeDepositRecorded        = "DEPOSIT_RECORDED"
	EventTypeLowStock               = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderLineData represents line data carried in events
type OrderLineData struct {
	ProductID int64  `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	LineTotal string `json:"line_total"`
}

// OrderPlacedEvent is published after an order transaction commits.
// Money fields travel as fixed-point strings.
type OrderPlacedEvent struct {
	BaseEvent
	OrderID    int64           `json:"order_id"`
	OrderNo    string          `json:"order_no"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	Total      string          `json:"total"`
	Lines      []OrderLineData `json:"lines"`
}

// TransferItemData represents one moved item in a transfer event
type TransferItemData struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// StockTransferCompletedEvent is published when a requisition completes.
type StockTransferCompletedEvent struct {
	BaseEvent
	RequisitionID int64              `json:"requisition_id"`
	FromStore     int64              `json:"from_store_id"`
	ToStore       int64              `json:"to_store_id"`
	Items         []TransferItemData `json:"items"`
}

// DepositRecordedEvent is published after a balance deposit commits.
type DepositRecordedEvent struct {
	BaseEvent
	CustomerID int64  `json:"customer_id"`
	Amount     string `json:"amount"`
	NewBalance string `json:"new_balance"`
}

// LowStockEvent is published when an order drops a product's stock to or
// below its threshold.
type LowStockEvent struct {
	BaseEvent
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Stock       int    `json:"stock"`
	Threshold   int    `json:"threshold"`
}

// Notifiable target kinds
const (
	NotifiableUser     = "user"
	NotifiableCustomer = "customer"
)

// Notifiable identifies a notification target as a typed pair instead of a
// loose string association.
type Notifiable struct {
	Kind string `db:"target_kind" json:"target_kind" form:"target_kind"`
	ID   int64  `db:"target_id" json:"target_id" form:"target_id"`
}

// Notification is one message addressed to a notifiable target.
type Notification struct {
	ID        int64     `db:"id" json:"id"`
	Notifiable
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
