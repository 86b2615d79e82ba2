package service

import (
	"context"
	"fmt"
	"sync"

	"pos-service/internal/models"
	"pos-service/internal/store"

	"github.com/shopspring/decimal"
)

// fakeStore is an in-memory stand-in for the postgres store. A transaction
// takes the store mutex for its whole duration and restores a snapshot on
// error, which gives the engines the same commit-or-nothing and one-writer
// semantics the row locks provide in production.
type fakeStore struct {
	mu sync.Mutex

	products     map[int64]*models.Product
	inventory    map[[2]int64]int
	customers    map[int64]*models.Customer
	orders       map[int64]*models.Order
	orderLines   map[int64][]models.OrderLine
	requisitions map[int64]*models.StockRequisition
	reqItems     map[int64][]models.RequisitionItem
	users        map[int64]*models.User

	notifications []models.Notification
	nextID        int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:     make(map[int64]*models.Product),
		inventory:    make(map[[2]int64]int),
		customers:    make(map[int64]*models.Customer),
		orders:       make(map[int64]*models.Order),
		orderLines:   make(map[int64][]models.OrderLine),
		requisitions: make(map[int64]*models.StockRequisition),
		reqItems:     make(map[int64][]models.RequisitionItem),
		users:        make(map[int64]*models.User),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addProduct(id int64, name, price string, stock int) {
	f.products[id] = &models.Product{
		ID:    id,
		Name:  name,
		Price: decimal.RequireFromString(price),
		Stock: stock,
	}
}

func (f *fakeStore) addCustomer(id int64, name, balance string) {
	f.customers[id] = &models.Customer{
		ID:      id,
		Name:    name,
		Email:   fmt.Sprintf("%s@example.com", name),
		Balance: decimal.RequireFromString(balance),
	}
}

type fakeState struct {
	products     map[int64]*models.Product
	inventory    map[[2]int64]int
	customers    map[int64]*models.Customer
	orders       map[int64]*models.Order
	orderLines   map[int64][]models.OrderLine
	requisitions map[int64]*models.StockRequisition
	nextID       int64
}

func (f *fakeStore) snapshot() *fakeState {
	st := &fakeState{
		products:     make(map[int64]*models.Product, len(f.products)),
		inventory:    make(map[[2]int64]int, len(f.inventory)),
		customers:    make(map[int64]*models.Customer, len(f.customers)),
		orders:       make(map[int64]*models.Order, len(f.orders)),
		orderLines:   make(map[int64][]models.OrderLine, len(f.orderLines)),
		requisitions: make(map[int64]*models.StockRequisition, len(f.requisitions)),
		nextID:       f.nextID,
	}
	for id, p := range f.products {
		cp := *p
		st.products[id] = &cp
	}
	for k, v := range f.inventory {
		st.inventory[k] = v
	}
	for id, c := range f.customers {
		cp := *c
		st.customers[id] = &cp
	}
	for id, o := range f.orders {
		cp := *o
		st.orders[id] = &cp
	}
	for id, lines := range f.orderLines {
		st.orderLines[id] = append([]models.OrderLine(nil), lines...)
	}
	for id, r := range f.requisitions {
		cp := *r
		st.requisitions[id] = &cp
	}
	return st
}

func (f *fakeStore) restore(st *fakeState) {
	f.products = st.products
	f.inventory = st.inventory
	f.customers = st.customers
	f.orders = st.orders
	f.orderLines = st.orderLines
	f.requisitions = st.requisitions
	f.nextID = st.nextID
}

func (f *fakeStore) inTx(fn func(*fakeTx) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	st := f.snapshot()
	if err := fn(&fakeTx{s: f}); err != nil {
		f.restore(st)
		return err
	}
	return nil
}

func (f *fakeStore) InOrderTx(ctx context.Context, fn func(store.OrderTx) error) error {
	return f.inTx(func(t *fakeTx) error { return fn(t) })
}

func (f *fakeStore) InRequisitionTx(ctx context.Context, fn func(store.RequisitionTx) error) error {
	return f.inTx(func(t *fakeTx) error { return fn(t) })
}

func (f *fakeStore) InCustomerTx(ctx context.Context, fn func(store.CustomerTx) error) error {
	return f.inTx(func(t *fakeTx) error { return fn(t) })
}

func (f *fakeStore) InLedgerTx(ctx context.Context, fn func(store.LedgerTx) error) error {
	return f.inTx(func(t *fakeTx) error { return fn(t) })
}

type fakeTx struct {
	s *fakeStore
}

func (t *fakeTx) LockProduct(ctx context.Context, productID int64) (*models.Product, error) {
	p, ok := t.s.products[productID]
	if !ok {
		return nil, &models.NotFoundError{Entity: "product", ID: productID}
	}
	cp := *p
	return &cp, nil
}

func (t *fakeTx) InsertOrder(ctx context.Context, order *models.Order) error {
	if order.IdempotencyKey != nil {
		for _, existing := range t.s.orders {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *order.IdempotencyKey {
				return &models.UniquenessConflictError{Field: "idempotency_key", Value: *order.IdempotencyKey}
			}
		}
	}
	order.ID = t.s.id()
	cp := *order
	t.s.orders[order.ID] = &cp
	return nil
}

func (t *fakeTx) InsertOrderLine(ctx context.Context, line *models.OrderLine) error {
	for _, existing := range t.s.orderLines[line.OrderID] {
		if existing.ProductID == line.ProductID {
			return &models.UniquenessConflictError{Field: "product_id", Value: fmt.Sprint(line.ProductID)}
		}
	}
	line.ID = t.s.id()
	t.s.orderLines[line.OrderID] = append(t.s.orderLines[line.OrderID], *line)
	return nil
}

func (t *fakeTx) DecrementProductStock(ctx context.Context, productID int64, quantity int) error {
	p, ok := t.s.products[productID]
	if !ok {
		return &models.NotFoundError{Entity: "product", ID: productID}
	}
	if p.Stock < quantity {
		return fmt.Errorf("stock decrement rejected for product %d", productID)
	}
	p.Stock -= quantity
	return nil
}

func (t *fakeTx) SetOrderTotal(ctx context.Context, orderID int64, total decimal.Decimal) error {
	o, ok := t.s.orders[orderID]
	if !ok {
		return &models.NotFoundError{Entity: "order", ID: orderID}
	}
	o.Total = total
	return nil
}

func (t *fakeTx) LockQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	return t.s.inventory[[2]int64{storeID, productID}], nil
}

func (t *fakeTx) DecrementQuantity(ctx context.Context, storeID, productID int64, quantity int) error {
	key := [2]int64{storeID, productID}
	if t.s.inventory[key] < quantity {
		return fmt.Errorf("ledger decrement rejected for store %d product %d", storeID, productID)
	}
	t.s.inventory[key] -= quantity
	return nil
}

func (t *fakeTx) IncrementQuantity(ctx context.Context, storeID, productID int64, quantity int) error {
	t.s.inventory[[2]int64{storeID, productID}] += quantity
	return nil
}

func (t *fakeTx) LockRequisition(ctx context.Context, id int64) (*models.StockRequisition, error) {
	r, ok := t.s.requisitions[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "requisition", ID: id}
	}
	cp := *r
	return &cp, nil
}

func (t *fakeTx) RequisitionItems(ctx context.Context, requisitionID int64) ([]models.RequisitionItem, error) {
	return append([]models.RequisitionItem(nil), t.s.reqItems[requisitionID]...), nil
}

func (t *fakeTx) SetRequisitionStatus(ctx context.Context, id int64, status string, approvedBy *int64) error {
	r, ok := t.s.requisitions[id]
	if !ok {
		return &models.NotFoundError{Entity: "requisition", ID: id}
	}
	r.Status = status
	if approvedBy != nil {
		r.ApprovedBy = approvedBy
	}
	return nil
}

func (t *fakeTx) LockCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	c, ok := t.s.customers[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "customer", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (t *fakeTx) SetCustomerBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	c, ok := t.s.customers[id]
	if !ok {
		return &models.NotFoundError{Entity: "customer", ID: id}
	}
	c.Balance = balance
	return nil
}

// Non-transactional reads and writes.

func (f *fakeStore) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.customers[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "customer", ID: id}
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "order", ID: id}
	}
	cp := *o
	return &cp, nil
}

func (f *fakeStore) GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.IdempotencyKey != nil && *o.IdempotencyKey == key {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) GetOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderLine(nil), f.orderLines[orderID]...), nil
}

func (f *fakeStore) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "product", ID: id}
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetProductsByIDs(ctx context.Context, ids []int64) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var products []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			products = append(products, *p)
		}
	}
	return products, nil
}

func (f *fakeStore) GetQuantity(ctx context.Context, storeID, productID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inventory[[2]int64{storeID, productID}], nil
}

func (f *fakeStore) GetInventoryByStore(ctx context.Context, storeID int64) ([]models.Inventory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rows []models.Inventory
	for key, quantity := range f.inventory {
		if key[0] == storeID {
			rows = append(rows, models.Inventory{StoreID: key[0], ProductID: key[1], Quantity: quantity})
		}
	}
	return rows, nil
}

func (f *fakeStore) CreateRequisition(ctx context.Context, req *models.StockRequisition, items []models.RequisitionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.id()
	cp := *req
	f.requisitions[req.ID] = &cp
	for i := range items {
		items[i].ID = f.id()
		items[i].RequisitionID = req.ID
	}
	f.reqItems[req.ID] = append([]models.RequisitionItem(nil), items...)
	return nil
}

func (f *fakeStore) GetRequisitionByID(ctx context.Context, id int64) (*models.StockRequisition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requisitions[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "requisition", ID: id}
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetRequisitionItems(ctx context.Context, requisitionID int64) ([]models.RequisitionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.RequisitionItem(nil), f.reqItems[requisitionID]...), nil
}

func (f *fakeStore) GetRequisitions(ctx context.Context) ([]models.StockRequisition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reqs []models.StockRequisition
	for _, r := range f.requisitions {
		reqs = append(reqs, *r)
	}
	return reqs, nil
}

func (f *fakeStore) CreateNotification(ctx context.Context, n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = f.id()
	f.notifications = append(f.notifications, *n)
	return nil
}

func (f *fakeStore) GetNotificationsFor(ctx context.Context, target models.Notifiable) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.Kind == target.Kind && n.Notifiable.ID == target.ID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkNotificationRead(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.notifications {
		if f.notifications[i].ID == id {
			f.notifications[i].Read = true
			return nil
		}
	}
	return &models.NotFoundError{Entity: "notification", ID: id}
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, &models.NotFoundError{Entity: "user", ID: id}
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var users []models.User
	for _, u := range f.users {
		if u.Role == role {
			users = append(users, *u)
		}
	}
	return users, nil
}

// fakeCache is a map-backed Cache.
type fakeCache struct {
	mu         sync.Mutex
	quantities map[[2]int64]int
	stocks     map[int64]int
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		quantities: make(map[[2]int64]int),
		stocks:     make(map[int64]int),
	}
}

func (c *fakeCache) GetQuantity(ctx context.Context, storeID, productID int64) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.quantities[[2]int64{storeID, productID}]
	return q, ok, nil
}

func (c *fakeCache) SetQuantity(ctx context.Context, storeID, productID int64, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quantities[[2]int64{storeID, productID}] = quantity
	return nil
}

func (c *fakeCache) InvalidateQuantity(ctx context.Context, storeID, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.quantities, [2]int64{storeID, productID})
	return nil
}

func (c *fakeCache) GetProductStock(ctx context.Context, productID int64) (int, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.stocks[productID]
	return s, ok, nil
}

func (c *fakeCache) SetProductStock(ctx context.Context, productID int64, stock int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stocks[productID] = stock
	return nil
}

func (c *fakeCache) InvalidateProductStock(ctx context.Context, productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.stocks, productID)
	return nil
}

// stubPublisher records published events.
type stubPublisher struct {
	mu          sync.Mutex
	orderPlaced []*models.OrderPlacedEvent
	transfers   []*models.StockTransferCompletedEvent
	deposits    []*models.DepositRecordedEvent
	lowStock    []*models.LowStockEvent
}

func (p *stubPublisher) PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orderPlaced = append(p.orderPlaced, event)
	return nil
}

func (p *stubPublisher) PublishStockTransferCompleted(ctx context.Context, event *models.StockTransferCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.transfers = append(p.transfers, event)
	return nil
}

func (p *stubPublisher) PublishDepositRecorded(ctx context.Context, event *models.DepositRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deposits = append(p.deposits, event)
	return nil
}

func (p *stubPublisher) PublishLowStock(ctx context.Context, event *models.LowStockEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lowStock = append(p.lowStock, event)
	return nil
}
