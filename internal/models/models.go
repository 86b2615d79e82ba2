package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable item. Stock on the product row is the authoritative
// count for the direct sales path; per-store counts live in Inventory.
type Product struct {
	ID          int64           `db:"id" json:"id"`
	SKU         *string         `db:"sku" json:"sku,omitempty"`
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
	Stock       int             `db:"stock" json:"stock"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Inventory is the per (store, product) quantity ledger row. A row is created
// on the first stock event for the pair; quantity never goes negative.
type Inventory struct {
	StoreID   int64     `db:"store_id" json:"store_id"`
	ProductID int64     `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Order statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is a customer order. Total is always recomputed from its lines.
type Order struct {
	ID             int64           `db:"id" json:"id"`
	OrderNo        string          `db:"order_no" json:"order_no"`
	CustomerID     *int64          `db:"customer_id" json:"customer_id,omitempty"`
	Status         string          `db:"status" json:"status"`
	Total          decimal.Decimal `db:"total" json:"total"`
	Notes          string          `db:"notes" json:"notes"`
	IdempotencyKey *string         `db:"idempotency_key" json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updated_at"`
}

// OrderLine captures the unit price at order time; line total is
// unit price times quantity at two decimal places.
type OrderLine struct {
	ID        int64           `db:"id" json:"id"`
	OrderID   int64           `db:"order_id" json:"order_id"`
	ProductID int64           `db:"product_id" json:"product_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	LineTotal decimal.Decimal `db:"line_total" json:"line_total"`
}

// Requisition statuses
const (
	RequisitionStatusPending   = "pending"
	RequisitionStatusApproved  = "approved"
	RequisitionStatusRejected  = "rejected"
	RequisitionStatusCompleted = "completed"
)

// StockRequisition is an internal transfer request between two stores.
type StockRequisition struct {
	ID         int64     `db:"id" json:"id"`
	FromStore  int64     `db:"from_store_id" json:"from_store_id"`
	ToStore    int64     `db:"to_store_id" json:"to_store_id"`
	Status     string    `db:"status" json:"status"`
	ApprovedBy *int64    `db:"approved_by" json:"approved_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// RequisitionItem is one (product, quantity) entry of a requisition.
type RequisitionItem struct {
	ID            int64 `db:"id" json:"id"`
	RequisitionID int64 `db:"requisition_id" json:"requisition_id"`
	ProductID     int64 `db:"product_id" json:"product_id"`
	Quantity      int   `db:"quantity" json:"quantity"`
}

// Customer holds a running balance mutated only through the balance ledger.
type Customer struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Email       string          `db:"email" json:"email"`
	Phone       string          `db:"phone" json:"phone"`
	Address     string          `db:"address" json:"address"`
	Balance     decimal.Decimal `db:"balance" json:"balance"`
	CreditLimit decimal.Decimal `db:"credit_limit" json:"credit_limit"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// StoreLocation is a physical store / warehouse.
type StoreLocation struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Phone     string    `db:"phone" json:"phone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Supplier is a plain CRUD entity.
type Supplier struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Purchase order statuses
const (
	PurchaseOrderStatusDraft    = "draft"
	PurchaseOrderStatusOrdered  = "ordered"
	PurchaseOrderStatusReceived = "received"
)

// PurchaseOrder records procurement from a supplier. It is bookkeeping only;
// received goods enter stock through inventory adjustments.
type PurchaseOrder struct {
	ID         int64           `db:"id" json:"id"`
	SupplierID int64           `db:"supplier_id" json:"supplier_id"`
	Status     string          `db:"status" json:"status"`
	Total      decimal.Decimal `db:"total" json:"total"`
	Notes      string          `db:"notes" json:"notes"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at" json:"updated_at"`
}

// BankAccount balance is not auto-posted by transactions; the transaction
// table is an independent log.
type BankAccount struct {
	ID        int64           `db:"id" json:"id"`
	AccountNo string          `db:"account_no" json:"account_no"`
	Name      string          `db:"name" json:"name"`
	Balance   decimal.Decimal `db:"balance" json:"balance"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// Transaction kinds
const (
	TransactionKindCredit = "credit"
	TransactionKindDebit  = "debit"
)

// Transaction is one posted ledger entry against a bank account.
type Transaction struct {
	ID        int64           `db:"id" json:"id"`
	AccountID int64           `db:"account_id" json:"account_id"`
	Kind      string          `db:"kind" json:"kind"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Reference string          `db:"reference" json:"reference"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleCashier = "cashier"
	RoleFinance = "finance"
	RoleUser    = "user"
)

// User is a staff account. Authentication is handled upstream; the role is
// what this service cares about.
type User struct {
	ID        int64     `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
