package store

import (
	"context"

	"pos-service/internal/models"
)

// CreateRequisition inserts a requisition with its items in one transaction.
func (s *Store) CreateRequisition(ctx context.Context, req *models.StockRequisition, items []models.RequisitionItem) error {
	return s.inTx(ctx, func(t *txn) error {
		query := `
			INSERT INTO stock_requisitions (from_store_id, to_store_id, status)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, updated_at`

		err := t.tx.QueryRowxContext(ctx, query,
			req.FromStore, req.ToStore, req.Status,
		).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
		if err != nil {
			return mapDBError(err)
		}

		for i := range items {
			items[i].RequisitionID = req.ID
			err := t.tx.QueryRowxContext(ctx,
				`INSERT INTO requisition_items (requisition_id, product_id, quantity)
				 VALUES ($1, $2, $3) RETURNING id`,
				items[i].RequisitionID, items[i].ProductID, items[i].Quantity,
			).Scan(&items[i].ID)
			if err != nil {
				return mapDBError(err)
			}
		}
		return nil
	})
}

// GetRequisitionByID retrieves a requisition by ID
func (s *Store) GetRequisitionByID(ctx context.Context, id int64) (*models.StockRequisition, error) {
	var req models.StockRequisition
	err := s.db.GetContext(ctx, &req, "SELECT * FROM stock_requisitions WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "requisition", id)
	}
	return &req, nil
}

// GetRequisitionItems retrieves all items of a requisition
func (s *Store) GetRequisitionItems(ctx context.Context, requisitionID int64) ([]models.RequisitionItem, error) {
	var items []models.RequisitionItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM requisition_items WHERE requisition_id = $1 ORDER BY product_id",
		requisitionID)
	return items, mapDBError(err)
}

// GetRequisitions retrieves requisitions, newest first
func (s *Store) GetRequisitions(ctx context.Context) ([]models.StockRequisition, error) {
	var reqs []models.StockRequisition
	err := s.db.SelectContext(ctx, &reqs,
		"SELECT * FROM stock_requisitions ORDER BY created_at DESC")
	return reqs, mapDBError(err)
}
