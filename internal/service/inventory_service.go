package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// InventoryStore is the persistence surface for ledger reads and adjustments.
type InventoryStore interface {
	GetQuantity(ctx context.Context, storeID, productID int64) (int, error)
	GetInventoryByStore(ctx context.Context, storeID int64) ([]models.Inventory, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	InLedgerTx(ctx context.Context, fn func(store.LedgerTx) error) error
}

// InventoryService reads and adjusts the per (store, product) ledger.
type InventoryService struct {
	store  InventoryStore
	cache  Cache
	logger *zap.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(st InventoryStore, cache Cache) *InventoryService {
	return &InventoryService{
		store:  st,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// GetQuantity returns the ledger quantity for a (store, product) pair,
// serving from cache when possible. A pair with no ledger row reads as 0.
func (s *InventoryService) GetQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	quantity, hit, err := s.cache.GetQuantity(ctx, storeID, productID)
	if err != nil {
		s.logger.Warn("Quantity cache read failed, falling back to DB",
			zap.Int64("store_id", storeID),
			zap.Int64("product_id", productID),
			zap.Error(err))
	} else if hit {
		util.InventoryCacheHits.Inc()
		return quantity, nil
	}

	util.InventoryCacheMisses.Inc()
	quantity, err = s.store.GetQuantity(ctx, storeID, productID)
	if err != nil {
		return 0, err
	}

	if cacheErr := s.cache.SetQuantity(ctx, storeID, productID, quantity); cacheErr != nil {
		s.logger.Warn("Failed to populate quantity cache", zap.Error(cacheErr))
	}
	return quantity, nil
}

// GetProductStock returns the product-level stock count behind the order
// path, serving from cache when possible.
func (s *InventoryService) GetProductStock(ctx context.Context, productID int64) (int, error) {
	stock, hit, err := s.cache.GetProductStock(ctx, productID)
	if err != nil {
		s.logger.Warn("Stock cache read failed, falling back to DB",
			zap.Int64("product_id", productID),
			zap.Error(err))
	} else if hit {
		util.InventoryCacheHits.Inc()
		return stock, nil
	}

	util.InventoryCacheMisses.Inc()
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	if cacheErr := s.cache.SetProductStock(ctx, productID, product.Stock); cacheErr != nil {
		s.logger.Warn("Failed to populate stock cache", zap.Error(cacheErr))
	}
	return product.Stock, nil
}

// ListByStore returns every ledger row for a store
func (s *InventoryService) ListByStore(ctx context.Context, storeID int64) ([]models.Inventory, error) {
	return s.store.GetInventoryByStore(ctx, storeID)
}

// Adjust applies a manual stock correction. Positive deltas create the row if
// absent; negative deltas must not push the quantity below zero.
func (s *InventoryService) Adjust(ctx context.Context, storeID, productID int64, delta int) (int, error) {
	ctx, span := util.StartSpan(ctx, "InventoryService.Adjust")
	defer span.End()

	if delta == 0 {
		return 0, &models.ValidationError{Field: "delta", Reason: "must not be zero"}
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return 0, err
	}

	var result int
	err = s.store.InLedgerTx(ctx, func(tx store.LedgerTx) error {
		available, err := tx.LockQuantity(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if delta < 0 {
			if available < -delta {
				return &models.InsufficientStockError{
					Product:   product.Name,
					Requested: -delta,
					Available: available,
				}
			}
			if err := tx.DecrementQuantity(ctx, storeID, productID, -delta); err != nil {
				return err
			}
		} else {
			if err := tx.IncrementQuantity(ctx, storeID, productID, delta); err != nil {
				return err
			}
		}
		result = available + delta
		return nil
	})
	if err != nil {
		return 0, err
	}

	if cacheErr := s.cache.InvalidateQuantity(ctx, storeID, productID); cacheErr != nil {
		s.logger.Warn("Failed to invalidate quantity cache", zap.Error(cacheErr))
	}

	s.logger.Info("Inventory adjusted",
		zap.Int64("store_id", storeID),
		zap.Int64("product_id", productID),
		zap.Int("delta", delta),
		zap.Int("quantity", result))
	return result, nil
}
