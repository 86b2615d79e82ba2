package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"pos-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// inTx runs fn inside a transaction, rolling back on any error.
func (s *Store) inTx(ctx context.Context, fn func(*txn) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return mapDBError(err)
	}
	defer tx.Rollback()

	if err := fn(&txn{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapDBError(err)
	}
	return nil
}

// uniqueConstraintFields maps postgres constraint names to the field reported
// to the caller.
var uniqueConstraintFields = map[string]string{
	"products_sku_key":                                "sku",
	"customers_email_key":                             "email",
	"users_email_key":                                 "email",
	"orders_order_no_key":                             "order_no",
	"orders_idempotency_key_key":                      "idempotency_key",
	"bank_accounts_account_no_key":                    "account_no",
	"order_lines_order_id_product_id_key":             "product_id",
	"requisition_items_requisition_id_product_id_key": "product_id",
}

// mapDBError converts driver errors into the domain's typed errors. Deadlocks,
// serialization failures and lock timeouts become a retryable conflict.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001", "40P01", "55P03":
			return models.ErrConcurrencyConflict
		case "23505":
			field := uniqueConstraintFields[pqErr.Constraint]
			if field == "" {
				field = pqErr.Constraint
			}
			return &models.UniquenessConflictError{Field: field, Value: pqErr.Detail}
		}
	}
	return err
}

func notFound(err error, entity string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &models.NotFoundError{Entity: entity, ID: id}
	}
	return mapDBError(err)
}
