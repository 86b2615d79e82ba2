package store

import (
	"context"

	"pos-service/internal/models"
)

// CreateCustomer inserts a new customer
func (s *Store) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, address, balance, credit_limit)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.Balance, customer.CreditLimit,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	return mapDBError(err)
}

// GetCustomerByID retrieves a customer by ID
func (s *Store) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer, "SELECT * FROM customers WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &customer, nil
}

// GetCustomers retrieves all customers
func (s *Store) GetCustomers(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := s.db.SelectContext(ctx, &customers, "SELECT * FROM customers ORDER BY id")
	return customers, mapDBError(err)
}

// UpdateCustomer updates contact fields and the credit limit. Balance only
// moves through the balance ledger.
func (s *Store) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = $1, email = $2, phone = $3, address = $4,
		 credit_limit = $5, updated_at = NOW() WHERE id = $6`,
		customer.Name, customer.Email, customer.Phone, customer.Address,
		customer.CreditLimit, customer.ID)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "customer", ID: customer.ID}
	}
	return nil
}

// DeleteCustomer deletes a customer
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "customer", ID: id}
	}
	return nil
}
