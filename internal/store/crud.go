package store

import (
	"context"

	"pos-service/internal/models"
)

// CreateStoreLocation inserts a new store
func (s *Store) CreateStoreLocation(ctx context.Context, loc *models.StoreLocation) error {
	query := `
		INSERT INTO stores (name, address, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		loc.Name, loc.Address, loc.Phone,
	).Scan(&loc.ID, &loc.CreatedAt)
	return mapDBError(err)
}

// GetStoreLocationByID retrieves a store by ID
func (s *Store) GetStoreLocationByID(ctx context.Context, id int64) (*models.StoreLocation, error) {
	var loc models.StoreLocation
	err := s.db.GetContext(ctx, &loc, "SELECT * FROM stores WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "store", id)
	}
	return &loc, nil
}

// GetStoreLocations retrieves all stores
func (s *Store) GetStoreLocations(ctx context.Context) ([]models.StoreLocation, error) {
	var locs []models.StoreLocation
	err := s.db.SelectContext(ctx, &locs, "SELECT * FROM stores ORDER BY id")
	return locs, mapDBError(err)
}

// CreateSupplier inserts a new supplier
func (s *Store) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (name, email, phone, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		supplier.Name, supplier.Email, supplier.Phone, supplier.Address,
	).Scan(&supplier.ID, &supplier.CreatedAt)
	return mapDBError(err)
}

// GetSupplierByID retrieves a supplier by ID
func (s *Store) GetSupplierByID(ctx context.Context, id int64) (*models.Supplier, error) {
	var supplier models.Supplier
	err := s.db.GetContext(ctx, &supplier, "SELECT * FROM suppliers WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "supplier", id)
	}
	return &supplier, nil
}

// GetSuppliers retrieves all suppliers
func (s *Store) GetSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	err := s.db.SelectContext(ctx, &suppliers, "SELECT * FROM suppliers ORDER BY id")
	return suppliers, mapDBError(err)
}

// CreatePurchaseOrder inserts a new purchase order
func (s *Store) CreatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (supplier_id, status, total, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		po.SupplierID, po.Status, po.Total, po.Notes,
	).Scan(&po.ID, &po.CreatedAt, &po.UpdatedAt)
	return mapDBError(err)
}

// GetPurchaseOrderByID retrieves a purchase order by ID
func (s *Store) GetPurchaseOrderByID(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	var po models.PurchaseOrder
	err := s.db.GetContext(ctx, &po, "SELECT * FROM purchase_orders WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "purchase order", id)
	}
	return &po, nil
}

// GetPurchaseOrders retrieves purchase orders, newest first
func (s *Store) GetPurchaseOrders(ctx context.Context) ([]models.PurchaseOrder, error) {
	var pos []models.PurchaseOrder
	err := s.db.SelectContext(ctx, &pos, "SELECT * FROM purchase_orders ORDER BY created_at DESC")
	return pos, mapDBError(err)
}

// UpdatePurchaseOrder updates a purchase order's status, total and notes
func (s *Store) UpdatePurchaseOrder(ctx context.Context, po *models.PurchaseOrder) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE purchase_orders
		SET supplier_id = $1, status = $2, total = $3, notes = $4, updated_at = NOW()
		WHERE id = $5`,
		po.SupplierID, po.Status, po.Total, po.Notes, po.ID)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "purchase order", ID: po.ID}
	}
	return nil
}

// DeletePurchaseOrder deletes a purchase order
func (s *Store) DeletePurchaseOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM purchase_orders WHERE id = $1", id)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "purchase order", ID: id}
	}
	return nil
}

// CreateUser inserts a new staff user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (email, name, role)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		user.Email, user.Name, user.Role,
	).Scan(&user.ID, &user.CreatedAt)
	return mapDBError(err)
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

// GetUsersByRole retrieves all users holding a role
func (s *Store) GetUsersByRole(ctx context.Context, role string) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users,
		"SELECT * FROM users WHERE role = $1 ORDER BY id", role)
	return users, mapDBError(err)
}

// GetUsers retrieves all users
func (s *Store) GetUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY id")
	return users, mapDBError(err)
}
