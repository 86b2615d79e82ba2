package api

import (
	"net/http"
	"strings"

	"pos-service/internal/models"
	"pos-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// setupCRUDRoutes wires the mechanical resource endpoints. These carry no
// business logic beyond the store's constraints.
func (h *Handler) setupCRUDRoutes(v1 *gin.RouterGroup) {
	v1.POST("/products", requireRole(service.OpManageProducts), h.createProduct)
	v1.GET("/products", h.listProducts)
	v1.GET("/products/:id", h.getProduct)
	v1.PUT("/products/:id", requireRole(service.OpManageProducts), h.updateProduct)
	v1.DELETE("/products/:id", requireRole(service.OpManageProducts), h.deleteProduct)
	v1.GET("/products/:id/inventory", requireRole(service.OpViewInventory), h.listProductInventory)
	v1.GET("/products/:id/stock", requireRole(service.OpViewInventory), h.getProductStock)

	v1.POST("/customers", requireRole(service.OpManageCustomers), h.createCustomer)
	v1.GET("/customers", requireRole(service.OpManageCustomers), h.listCustomers)
	v1.GET("/customers/:id", requireRole(service.OpManageCustomers), h.getCustomer)
	v1.PUT("/customers/:id", requireRole(service.OpManageCustomers), h.updateCustomer)
	v1.DELETE("/customers/:id", requireRole(service.OpManageCustomers), h.deleteCustomer)
	v1.GET("/customers/:id/orders", requireRole(service.OpViewOrders), h.listCustomerOrders)

	v1.POST("/stores", requireRole(service.OpManageStores), h.createStore)
	v1.GET("/stores", h.listStores)
	v1.GET("/stores/:id", h.getStore)

	v1.POST("/suppliers", requireRole(service.OpManageSuppliers), h.createSupplier)
	v1.GET("/suppliers", requireRole(service.OpManageSuppliers), h.listSuppliers)
	v1.GET("/suppliers/:id", requireRole(service.OpManageSuppliers), h.getSupplier)

	v1.POST("/purchase-orders", requireRole(service.OpManageSuppliers), h.createPurchaseOrder)
	v1.GET("/purchase-orders", requireRole(service.OpManageSuppliers), h.listPurchaseOrders)
	v1.GET("/purchase-orders/:id", requireRole(service.OpManageSuppliers), h.getPurchaseOrder)
	v1.PUT("/purchase-orders/:id", requireRole(service.OpManageSuppliers), h.updatePurchaseOrder)
	v1.DELETE("/purchase-orders/:id", requireRole(service.OpManageSuppliers), h.deletePurchaseOrder)

	v1.POST("/accounts", requireRole(service.OpManageAccounts), h.createAccount)
	v1.GET("/accounts", requireRole(service.OpManageAccounts), h.listAccounts)
	v1.GET("/accounts/:id", requireRole(service.OpManageAccounts), h.getAccount)
	v1.PUT("/accounts/:id", requireRole(service.OpManageAccounts), h.updateAccount)
	v1.GET("/accounts/:id/transactions", requireRole(service.OpManageAccounts), h.listAccountTransactions)

	v1.POST("/transactions", requireRole(service.OpPostTransaction), h.createTransaction)
	v1.GET("/transactions", requireRole(service.OpManageAccounts), h.listTransactions)

	v1.GET("/notifications", requireRole(service.OpViewNotifications), h.listNotifications)
	v1.POST("/notifications/:id/read", requireRole(service.OpViewNotifications), h.markNotificationRead)
	v1.DELETE("/notifications/:id", requireRole(service.OpViewNotifications), h.deleteNotification)

	v1.POST("/users", requireRole(service.OpManageUsers), h.createUser)
	v1.GET("/users", requireRole(service.OpManageUsers), h.listUsers)
	v1.GET("/users/:id", requireRole(service.OpManageUsers), h.getUser)
}

func (h *Handler) createProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if product.Price.IsNegative() {
		respondError(c, &models.ValidationError{Field: "price", Reason: "must not be negative"})
		return
	}
	if product.Stock < 0 {
		respondError(c, &models.ValidationError{Field: "stock", Reason: "must not be negative"})
		return
	}
	if err := h.store.CreateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.store.GetProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	product, err := h.store.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if product.Price.IsNegative() {
		respondError(c, &models.ValidationError{Field: "price", Reason: "must not be negative"})
		return
	}
	product.ID = id
	if err := h.store.UpdateProduct(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if customer.Balance.IsNegative() || customer.CreditLimit.IsNegative() {
		respondError(c, &models.ValidationError{Field: "balance", Reason: "must not be negative"})
		return
	}
	if err := h.store.CreateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.store.GetCustomers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

func (h *Handler) getCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	customer, err := h.store.GetCustomerByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	customer.ID = id
	if err := h.store.UpdateCustomer(c.Request.Context(), &customer); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) listProductInventory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	rows, err := h.store.GetInventoryByProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": rows})
}

func (h *Handler) getProductStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	stock, err := h.inventory.GetProductStock(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": id, "stock": stock})
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteCustomer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listCustomerOrders(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	orders, err := h.store.GetOrdersByCustomerID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) createStore(c *gin.Context) {
	var loc models.StoreLocation
	if err := c.ShouldBindJSON(&loc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := h.store.CreateStoreLocation(c.Request.Context(), &loc); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *Handler) listStores(c *gin.Context) {
	locs, err := h.store.GetStoreLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": locs})
}

func (h *Handler) getStore(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	loc, err := h.store.GetStoreLocationByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (h *Handler) createSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := h.store.CreateSupplier(c.Request.Context(), &supplier); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.store.GetSuppliers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *Handler) getSupplier(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	supplier, err := h.store.GetSupplierByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) createPurchaseOrder(c *gin.Context) {
	var po models.PurchaseOrder
	if err := c.ShouldBindJSON(&po); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if po.Total.IsNegative() {
		respondError(c, &models.ValidationError{Field: "total", Reason: "must not be negative"})
		return
	}
	if po.Status == "" {
		po.Status = models.PurchaseOrderStatusDraft
	}
	if err := h.store.CreatePurchaseOrder(c.Request.Context(), &po); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, po)
}

func (h *Handler) listPurchaseOrders(c *gin.Context) {
	pos, err := h.store.GetPurchaseOrders(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchase_orders": pos})
}

func (h *Handler) getPurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	po, err := h.store.GetPurchaseOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *Handler) updatePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var po models.PurchaseOrder
	if err := c.ShouldBindJSON(&po); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if po.Total.IsNegative() {
		respondError(c, &models.ValidationError{Field: "total", Reason: "must not be negative"})
		return
	}
	po.ID = id
	if err := h.store.UpdatePurchaseOrder(c.Request.Context(), &po); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

func (h *Handler) deletePurchaseOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeletePurchaseOrder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createAccount(c *gin.Context) {
	var account models.BankAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if account.AccountNo == "" {
		account.AccountNo = "ACC-" + strings.ToUpper(uuid.New().String()[:8])
	}
	if err := h.store.CreateBankAccount(c.Request.Context(), &account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *Handler) listAccounts(c *gin.Context) {
	accounts, err := h.store.GetBankAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

func (h *Handler) getAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	account, err := h.store.GetBankAccountByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) updateAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var account models.BankAccount
	if err := c.ShouldBindJSON(&account); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	account.ID = id
	if err := h.store.UpdateBankAccount(c.Request.Context(), &account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *Handler) listAccountTransactions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	txs, err := h.store.GetTransactionsByAccountID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) createTransaction(c *gin.Context) {
	var tx models.Transaction
	if err := c.ShouldBindJSON(&tx); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if tx.Kind != models.TransactionKindCredit && tx.Kind != models.TransactionKindDebit {
		respondError(c, &models.ValidationError{Field: "kind", Reason: "must be credit or debit"})
		return
	}
	if !tx.Amount.IsPositive() {
		respondError(c, &models.ValidationError{Field: "amount", Reason: "must be positive"})
		return
	}
	if err := h.store.CreateTransaction(c.Request.Context(), &tx); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *Handler) listTransactions(c *gin.Context) {
	txs, err := h.store.GetTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}

func (h *Handler) listNotifications(c *gin.Context) {
	var target models.Notifiable
	if err := c.ShouldBindQuery(&target); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target", "details": err.Error()})
		return
	}
	notifications, err := h.notifications.ListFor(c.Request.Context(), target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *Handler) markNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteNotification(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}
	if err := h.store.CreateUser(c.Request.Context(), &user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.store.GetUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.store.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
