package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/service"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

// Handler contains HTTP handlers
type Handler struct {
	orders        *service.OrderService
	requisitions  *service.RequisitionService
	inventory     *service.InventoryService
	customers     *service.CustomerService
	notifications *service.NotificationService
	store         *store.Store
}

// NewHandler creates a new HTTP handler
func NewHandler(
	orders *service.OrderService,
	requisitions *service.RequisitionService,
	inventory *service.InventoryService,
	customers *service.CustomerService,
	notifications *service.NotificationService,
	st *store.Store,
) *Handler {
	return &Handler{
		orders:        orders,
		requisitions:  requisitions,
		inventory:     inventory,
		customers:     customers,
		notifications: notifications,
		store:         st,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/orders", requireRole(service.OpPlaceOrder), h.placeOrder)
		v1.GET("/orders", requireRole(service.OpViewOrders), h.listOrders)
		v1.GET("/orders/:id", requireRole(service.OpViewOrders), h.getOrder)

		v1.POST("/requisitions", requireRole(service.OpCreateRequisition), h.createRequisition)
		v1.GET("/requisitions", requireRole(service.OpViewInventory), h.listRequisitions)
		v1.GET("/requisitions/:id", requireRole(service.OpViewInventory), h.getRequisition)
		v1.POST("/requisitions/:id/approve", requireRole(service.OpApproveRequisition), h.approveRequisition)
		v1.POST("/requisitions/:id/reject", requireRole(service.OpRejectRequisition), h.rejectRequisition)
		v1.POST("/requisitions/:id/complete", requireRole(service.OpCompleteRequisition), h.completeRequisition)

		v1.GET("/stores/:id/inventory", requireRole(service.OpViewInventory), h.listStoreInventory)
		v1.GET("/stores/:id/inventory/:productId", requireRole(service.OpViewInventory), h.getQuantity)
		v1.POST("/stores/:id/inventory/:productId/adjust", requireRole(service.OpAdjustInventory), h.adjustInventory)

		v1.POST("/customers/:id/deposits", requireRole(service.OpDeposit), h.deposit)

		h.setupCRUDRoutes(v1)
	}
}

// requireRole denies the request unless the caller's role is in the
// operation's allow-list. Authentication happens upstream; the gateway passes
// the resolved role in a header.
func requireRole(op service.Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetHeader("X-User-Role")
		if role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing role"})
			return
		}
		if !service.Allowed(op, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":     "role not permitted for this operation",
				"operation": string(op),
			})
			return
		}
		c.Next()
	}
}

// respondError maps typed domain errors onto status codes.
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var notFoundErr *models.NotFoundError
	var insufficientStock *models.InsufficientStockError
	var transitionErr *models.InvalidStateTransitionError
	var uniqueErr *models.UniquenessConflictError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &insufficientStock):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":     insufficientStock.Error(),
			"product":   insufficientStock.Product,
			"requested": insufficientStock.Requested,
			"available": insufficientStock.Available,
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusConflict, gin.H{"error": transitionErr.Error()})
	case errors.As(err, &uniqueErr):
		c.JSON(http.StatusConflict, gin.H{"error": uniqueErr.Error(), "field": uniqueErr.Field})
	case errors.Is(err, models.ErrConcurrencyConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "retryable": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	if err := h.store.GetDB().PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req service.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.GetHeader("Idempotency-Key")
	}

	resp, err := h.orders.PlaceOrder(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *Handler) getOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.store.GetOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) createRequisition(c *gin.Context) {
	var req service.CreateRequisitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	requisition, items, err := h.requisitions.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"requisition": requisition, "items": items})
}

func (h *Handler) getRequisition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	requisition, items, err := h.requisitions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requisition": requisition, "items": items})
}

func (h *Handler) listRequisitions(c *gin.Context) {
	requisitions, err := h.requisitions.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requisitions": requisitions})
}

type approveRequest struct {
	ApproverID int64 `json:"approver_id" binding:"required"`
}

func (h *Handler) approveRequisition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req approveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	requisition, err := h.requisitions.Approve(c.Request.Context(), id, req.ApproverID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requisition": requisition})
}

func (h *Handler) rejectRequisition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	requisition, err := h.requisitions.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requisition": requisition})
}

func (h *Handler) completeRequisition(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	requisition, err := h.requisitions.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requisition": requisition})
}

func (h *Handler) listStoreInventory(c *gin.Context) {
	storeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.inventory.ListByStore(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": rows})
}

func (h *Handler) getQuantity(c *gin.Context) {
	storeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	quantity, err := h.inventory.GetQuantity(c.Request.Context(), storeID, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store_id":   storeID,
		"product_id": productID,
		"quantity":   quantity,
	})
}

type adjustRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *Handler) adjustInventory(c *gin.Context) {
	storeID, ok := pathID(c, "id")
	if !ok {
		return
	}
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	quantity, err := h.inventory.Adjust(c.Request.Context(), storeID, productID, req.Delta)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"store_id":   storeID,
		"product_id": productID,
		"quantity":   quantity,
	})
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

func (h *Handler) deposit(c *gin.Context) {
	customerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	customer, err := h.customers.Deposit(c.Request.Context(), customerID, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
