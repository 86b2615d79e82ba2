package store

import (
	"context"

	"pos-service/internal/models"
)

// CreateBankAccount inserts a new bank account
func (s *Store) CreateBankAccount(ctx context.Context, account *models.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (account_no, name, balance)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		account.AccountNo, account.Name, account.Balance,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	return mapDBError(err)
}

// GetBankAccountByID retrieves a bank account by ID
func (s *Store) GetBankAccountByID(ctx context.Context, id int64) (*models.BankAccount, error) {
	var account models.BankAccount
	err := s.db.GetContext(ctx, &account, "SELECT * FROM bank_accounts WHERE id = $1", id)
	if err != nil {
		return nil, notFound(err, "bank account", id)
	}
	return &account, nil
}

// GetBankAccounts retrieves all bank accounts
func (s *Store) GetBankAccounts(ctx context.Context) ([]models.BankAccount, error) {
	var accounts []models.BankAccount
	err := s.db.SelectContext(ctx, &accounts, "SELECT * FROM bank_accounts ORDER BY id")
	return accounts, mapDBError(err)
}

// UpdateBankAccount updates account name and balance
func (s *Store) UpdateBankAccount(ctx context.Context, account *models.BankAccount) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bank_accounts SET name = $1, balance = $2, updated_at = NOW() WHERE id = $3",
		account.Name, account.Balance, account.ID)
	if err != nil {
		return mapDBError(err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return &models.NotFoundError{Entity: "bank account", ID: account.ID}
	}
	return nil
}

// CreateTransaction posts a transaction row. Account balances are not
// auto-posted; the transaction table is an independent log.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (account_id, kind, amount, reference)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRowxContext(ctx, query,
		tx.AccountID, tx.Kind, tx.Amount, tx.Reference,
	).Scan(&tx.ID, &tx.CreatedAt)
	return mapDBError(err)
}

// GetTransactionsByAccountID retrieves transactions for an account, newest first
func (s *Store) GetTransactionsByAccountID(ctx context.Context, accountID int64) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.SelectContext(ctx, &txs,
		"SELECT * FROM transactions WHERE account_id = $1 ORDER BY created_at DESC", accountID)
	return txs, mapDBError(err)
}

// GetTransactions retrieves all transactions, newest first
func (s *Store) GetTransactions(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := s.db.SelectContext(ctx, &txs, "SELECT * FROM transactions ORDER BY created_at DESC")
	return txs, mapDBError(err)
}
