package store

import (
	"context"
	"database/sql"
	"errors"

	"pos-service/internal/models"
)

// GetQuantity returns the ledger quantity for a (store, product) pair.
// A missing row reads as 0 and is not an error.
func (s *Store) GetQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	var quantity int
	err := s.db.GetContext(ctx, &quantity,
		"SELECT quantity FROM inventory WHERE store_id = $1 AND product_id = $2",
		storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, mapDBError(err)
	}
	return quantity, nil
}

// GetInventoryByStore retrieves all ledger rows for a store
func (s *Store) GetInventoryByStore(ctx context.Context, storeID int64) ([]models.Inventory, error) {
	var rows []models.Inventory
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM inventory WHERE store_id = $1 ORDER BY product_id", storeID)
	return rows, mapDBError(err)
}

// GetInventoryByProduct retrieves all ledger rows for a product
func (s *Store) GetInventoryByProduct(ctx context.Context, productID int64) ([]models.Inventory, error) {
	var rows []models.Inventory
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM inventory WHERE product_id = $1 ORDER BY store_id", productID)
	return rows, mapDBError(err)
}
