package service

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequisitionStore is the persistence surface the requisition engine needs.
type RequisitionStore interface {
	CreateRequisition(ctx context.Context, req *models.StockRequisition, items []models.RequisitionItem) error
	GetRequisitionByID(ctx context.Context, id int64) (*models.StockRequisition, error)
	GetRequisitionItems(ctx context.Context, requisitionID int64) ([]models.RequisitionItem, error)
	GetRequisitions(ctx context.Context) ([]models.StockRequisition, error)
	GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error)
	InRequisitionTx(ctx context.Context, fn func(store.RequisitionTx) error) error
}

// RequisitionService runs the store-to-store transfer state machine:
// pending -> approved -> completed, or pending -> rejected.
type RequisitionService struct {
	store  RequisitionStore
	cache  Cache
	events EventPublisher
	logger *zap.Logger
}

// NewRequisitionService creates a new requisition service
func NewRequisitionService(st RequisitionStore, cache Cache, events EventPublisher) *RequisitionService {
	return &RequisitionService{
		store:  st,
		cache:  cache,
		events: events,
		logger: util.GetLogger(),
	}
}

// RequisitionItemRequest represents one requested transfer item
type RequisitionItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// CreateRequisitionRequest represents a request to open a transfer
type CreateRequisitionRequest struct {
	FromStore int64                    `json:"from_store_id" binding:"required"`
	ToStore   int64                    `json:"to_store_id" binding:"required"`
	Items     []RequisitionItemRequest `json:"items" binding:"required,min=1"`
}

// Create opens a pending requisition. Inventory is untouched until Complete.
func (s *RequisitionService) Create(ctx context.Context, req *CreateRequisitionRequest) (*models.StockRequisition, []models.RequisitionItem, error) {
	ctx, span := util.StartSpan(ctx, "RequisitionService.Create")
	defer span.End()

	if req.FromStore == req.ToStore {
		return nil, nil, &models.ValidationError{Field: "to_store_id", Reason: "source and destination stores must differ"}
	}
	if len(req.Items) == 0 {
		return nil, nil, &models.ValidationError{Field: "items", Reason: "must not be empty"}
	}

	seen := make(map[int64]bool, len(req.Items))
	ids := make([]int64, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, nil, &models.ValidationError{Field: "quantity", Reason: "must be at least 1"}
		}
		if seen[item.ProductID] {
			return nil, nil, &models.ValidationError{Field: "product_id", Reason: "duplicate product in requisition"}
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}

	products, err := s.store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(products) != len(ids) {
		known := make(map[int64]bool, len(products))
		for _, p := range products {
			known[p.ID] = true
		}
		for _, id := range ids {
			if !known[id] {
				return nil, nil, &models.NotFoundError{Entity: "product", ID: id}
			}
		}
	}

	requisition := &models.StockRequisition{
		FromStore: req.FromStore,
		ToStore:   req.ToStore,
		Status:    models.RequisitionStatusPending,
	}
	items := make([]models.RequisitionItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = models.RequisitionItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	if err := s.store.CreateRequisition(ctx, requisition, items); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Requisition created",
		zap.Int64("requisition_id", requisition.ID),
		zap.Int64("from_store", requisition.FromStore),
		zap.Int64("to_store", requisition.ToStore))
	return requisition, items, nil
}

// Approve records the approval decision. Stock does not move until Complete.
func (s *RequisitionService) Approve(ctx context.Context, requisitionID, approverID int64) (*models.StockRequisition, error) {
	ctx, span := util.StartSpan(ctx, "RequisitionService.Approve")
	defer span.End()

	return s.transition(ctx, requisitionID, models.RequisitionStatusPending,
		models.RequisitionStatusApproved, &approverID)
}

// Reject is terminal and has no inventory effect.
func (s *RequisitionService) Reject(ctx context.Context, requisitionID int64) (*models.StockRequisition, error) {
	ctx, span := util.StartSpan(ctx, "RequisitionService.Reject")
	defer span.End()

	return s.transition(ctx, requisitionID, models.RequisitionStatusPending,
		models.RequisitionStatusRejected, nil)
}

func (s *RequisitionService) transition(ctx context.Context, id int64, from, to string, approvedBy *int64) (*models.StockRequisition, error) {
	var requisition *models.StockRequisition
	err := s.store.InRequisitionTx(ctx, func(tx store.RequisitionTx) error {
		req, err := tx.LockRequisition(ctx, id)
		if err != nil {
			return err
		}
		if req.Status != from {
			return &models.InvalidStateTransitionError{From: req.Status, To: to}
		}
		if err := tx.SetRequisitionStatus(ctx, id, to, approvedBy); err != nil {
			return err
		}
		req.Status = to
		if approvedBy != nil {
			req.ApprovedBy = approvedBy
		}
		requisition = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Requisition transitioned",
		zap.Int64("requisition_id", id),
		zap.String("status", to))
	return requisition, nil
}

// Complete moves every item from the source to the destination ledger in one
// atomic transaction. If any item lacks source stock the whole transfer rolls
// back and the requisition stays approved, so it can be retried after a
// restock.
func (s *RequisitionService) Complete(ctx context.Context, requisitionID int64) (*models.StockRequisition, error) {
	ctx, span := util.StartSpan(ctx, "RequisitionService.Complete")
	defer span.End()

	start := time.Now()
	defer func() {
		util.StockTransferLatency.Observe(time.Since(start).Seconds())
	}()

	// Prefetch names for error reporting; items are immutable after create.
	names := make(map[int64]string)
	if prefetched, err := s.store.GetRequisitionItems(ctx, requisitionID); err == nil {
		ids := make([]int64, len(prefetched))
		for i, item := range prefetched {
			ids[i] = item.ProductID
		}
		if products, err := s.store.GetProductsByIDs(ctx, ids); err == nil {
			for _, p := range products {
				names[p.ID] = p.Name
			}
		}
	}

	var requisition *models.StockRequisition
	var items []models.RequisitionItem

	err := s.store.InRequisitionTx(ctx, func(tx store.RequisitionTx) error {
		req, err := tx.LockRequisition(ctx, requisitionID)
		if err != nil {
			return err
		}
		if req.Status != models.RequisitionStatusApproved {
			return &models.InvalidStateTransitionError{From: req.Status, To: models.RequisitionStatusCompleted}
		}

		// Items come back ordered by product id; that fixes the ledger lock
		// acquisition order across concurrent transfers.
		items, err = tx.RequisitionItems(ctx, requisitionID)
		if err != nil {
			return err
		}

		for _, item := range items {
			available, err := tx.LockQuantity(ctx, req.FromStore, item.ProductID)
			if err != nil {
				return err
			}
			if available < item.Quantity {
				name := names[item.ProductID]
				if name == "" {
					name = fmt.Sprintf("product %d", item.ProductID)
				}
				return &models.InsufficientStockError{
					Product:   name,
					Requested: item.Quantity,
					Available: available,
				}
			}
			if err := tx.DecrementQuantity(ctx, req.FromStore, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := tx.IncrementQuantity(ctx, req.ToStore, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.SetRequisitionStatus(ctx, requisitionID, models.RequisitionStatusCompleted, nil); err != nil {
			return err
		}
		req.Status = models.RequisitionStatusCompleted
		requisition = req
		return nil
	})
	if err != nil {
		util.StockTransfersFailedTotal.WithLabelValues(failureReason(err)).Inc()
		return nil, err
	}

	for _, item := range items {
		for _, storeID := range []int64{requisition.FromStore, requisition.ToStore} {
			if cacheErr := s.cache.InvalidateQuantity(ctx, storeID, item.ProductID); cacheErr != nil {
				s.logger.Warn("Failed to invalidate quantity cache",
					zap.Int64("store_id", storeID),
					zap.Int64("product_id", item.ProductID),
					zap.Error(cacheErr))
			}
		}
	}

	util.StockTransfersCompletedTotal.Inc()
	s.logger.Info("Requisition completed",
		zap.Int64("requisition_id", requisitionID),
		zap.Int("items", len(items)))

	event := &models.StockTransferCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockTransferCompleted,
			Timestamp: time.Now(),
		},
		RequisitionID: requisitionID,
		FromStore:     requisition.FromStore,
		ToStore:       requisition.ToStore,
	}
	for _, item := range items {
		event.Items = append(event.Items, models.TransferItemData{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if err := s.events.PublishStockTransferCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish StockTransferCompleted event", zap.Error(err))
	}

	return requisition, nil
}

// Get retrieves a requisition together with its items
func (s *RequisitionService) Get(ctx context.Context, requisitionID int64) (*models.StockRequisition, []models.RequisitionItem, error) {
	req, err := s.store.GetRequisitionByID(ctx, requisitionID)
	if err != nil {
		return nil, nil, err
	}
	items, err := s.store.GetRequisitionItems(ctx, requisitionID)
	if err != nil {
		return nil, nil, err
	}
	return req, items, nil
}

// List retrieves all requisitions
func (s *RequisitionService) List(ctx context.Context) ([]models.StockRequisition, error) {
	return s.store.GetRequisitions(ctx)
}
