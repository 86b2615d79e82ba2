package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

// OrderTx is the statement surface the order engine drives while its
// transaction is open. LockProduct takes the row lock; every stock mutation
// in this path goes through the same transaction.
type OrderTx interface {
	LockProduct(ctx context.Context, productID int64) (*models.Product, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	InsertOrderLine(ctx context.Context, line *models.OrderLine) error
	DecrementProductStock(ctx context.Context, productID int64, quantity int) error
	SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
}

// LedgerTx mutates the per (store, product) quantity ledger. LockQuantity
// returns 0 for a missing row without creating it; IncrementQuantity creates
// the row on first use.
type LedgerTx interface {
	LockQuantity(ctx context.Context, storeID, productID int64) (int, error)
	DecrementQuantity(ctx context.Context, storeID, productID int64, quantity int) error
	IncrementQuantity(ctx context.Context, storeID, productID int64, quantity int) error
}

// RequisitionTx extends the ledger surface with requisition row access so a
// transfer and its status change commit together.
type RequisitionTx interface {
	LedgerTx
	LockRequisition(ctx context.Context, id int64) (*models.StockRequisition, error)
	RequisitionItems(ctx context.Context, requisitionID int64) ([]models.RequisitionItem, error)
	SetRequisitionStatus(ctx context.Context, id int64, status string, approvedBy *int64) error
}

// CustomerTx is the single-row surface for balance mutations.
type CustomerTx interface {
	LockCustomer(ctx context.Context, id int64) (*models.Customer, error)
	SetCustomerBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}

// InOrderTx runs fn within one atomic order transaction.
func (s *Store) InOrderTx(ctx context.Context, fn func(OrderTx) error) error {
	return s.inTx(ctx, func(t *txn) error { return fn(t) })
}

// InRequisitionTx runs fn within one atomic requisition transaction.
func (s *Store) InRequisitionTx(ctx context.Context, fn func(RequisitionTx) error) error {
	return s.inTx(ctx, func(t *txn) error { return fn(t) })
}

// InCustomerTx runs fn within one atomic customer transaction.
func (s *Store) InCustomerTx(ctx context.Context, fn func(CustomerTx) error) error {
	return s.inTx(ctx, func(t *txn) error { return fn(t) })
}

// InLedgerTx runs fn within one atomic inventory ledger transaction.
func (s *Store) InLedgerTx(ctx context.Context, fn func(LedgerTx) error) error {
	return s.inTx(ctx, func(t *txn) error { return fn(t) })
}

type txn struct {
	tx *sqlx.Tx
}

func (t *txn) LockProduct(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	err := t.tx.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 FOR UPDATE", productID)
	if err != nil {
		return nil, notFound(err, "product", productID)
	}
	return &product, nil
}

func (t *txn) InsertOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (order_no, customer_id, status, total, notes, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := t.tx.QueryRowxContext(ctx, query,
		order.OrderNo, order.CustomerID, order.Status, order.Total,
		order.Notes, order.IdempotencyKey,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	return mapDBError(err)
}

func (t *txn) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	query := `
		INSERT INTO order_lines (order_id, product_id, quantity, unit_price, line_total)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	err := t.tx.QueryRowxContext(ctx, query,
		line.OrderID, line.ProductID, line.Quantity, line.UnitPrice, line.LineTotal,
	).Scan(&line.ID)
	return mapDBError(err)
}

func (t *txn) DecrementProductStock(ctx context.Context, productID int64, quantity int) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE id = $2 AND stock >= $1",
		quantity, productID)
	if err != nil {
		return mapDBError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if rows == 0 {
		return fmt.Errorf("stock decrement rejected for product %d", productID)
	}
	return nil
}

func (t *txn) SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE orders SET total = $1, updated_at = NOW() WHERE id = $2",
		total, orderID)
	return mapDBError(err)
}

func (t *txn) LockQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	var quantity int
	err := t.tx.GetContext(ctx, &quantity,
		"SELECT quantity FROM inventory WHERE store_id = $1 AND product_id = $2 FOR UPDATE",
		storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, mapDBError(err)
	}
	return quantity, nil
}

func (t *txn) DecrementQuantity(ctx context.Context, storeID, productID int64, quantity int) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE inventory SET quantity = quantity - $1, updated_at = NOW()
		 WHERE store_id = $2 AND product_id = $3 AND quantity >= $1`,
		quantity, storeID, productID)
	if err != nil {
		return mapDBError(err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return mapDBError(err)
	}
	if rows == 0 {
		return fmt.Errorf("ledger decrement rejected for store %d product %d", storeID, productID)
	}
	return nil
}

func (t *txn) IncrementQuantity(ctx context.Context, storeID, productID int64, quantity int) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO inventory (store_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (store_id, product_id)
		 DO UPDATE SET quantity = inventory.quantity + $3, updated_at = NOW()`,
		storeID, productID, quantity)
	return mapDBError(err)
}

func (t *txn) LockRequisition(ctx context.Context, id int64) (*models.StockRequisition, error) {
	var req models.StockRequisition
	err := t.tx.GetContext(ctx, &req,
		"SELECT * FROM stock_requisitions WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, notFound(err, "requisition", id)
	}
	return &req, nil
}

func (t *txn) RequisitionItems(ctx context.Context, requisitionID int64) ([]models.RequisitionItem, error) {
	var items []models.RequisitionItem
	err := t.tx.SelectContext(ctx, &items,
		"SELECT * FROM requisition_items WHERE requisition_id = $1 ORDER BY product_id",
		requisitionID)
	return items, mapDBError(err)
}

func (t *txn) SetRequisitionStatus(ctx context.Context, id int64, status string, approvedBy *int64) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE stock_requisitions SET status = $1, approved_by = COALESCE($2, approved_by), updated_at = NOW() WHERE id = $3",
		status, approvedBy, id)
	return mapDBError(err)
}

func (t *txn) LockCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := t.tx.GetContext(ctx, &customer,
		"SELECT * FROM customers WHERE id = $1 FOR UPDATE", id)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &customer, nil
}

func (t *txn) SetCustomerBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx,
		"UPDATE customers SET balance = $1, updated_at = NOW() WHERE id = $2",
		balance, id)
	return mapDBError(err)
}
