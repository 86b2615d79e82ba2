package service

import (
	"context"
	"time"

	"pos-service/internal/models"
	"pos-service/internal/money"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerStore is the persistence surface for the balance ledger.
type CustomerStore interface {
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	InCustomerTx(ctx context.Context, fn func(store.CustomerTx) error) error
}

// CustomerService runs the customer balance ledger. Deposits are single-row
// transactions and take no other locks, so they cannot deadlock against the
// order or requisition engines.
type CustomerService struct {
	store  CustomerStore
	events EventPublisher
	logger *zap.Logger
}

// NewCustomerService creates a new customer service
func NewCustomerService(st CustomerStore, events EventPublisher) *CustomerService {
	return &CustomerService{
		store:  st,
		events: events,
		logger: util.GetLogger(),
	}
}

// Deposit adds a positive amount to the customer's balance inside a
// transaction scoped to that one row. A non-positive amount fails validation
// before any transaction opens.
func (s *CustomerService) Deposit(ctx context.Context, customerID int64, amount decimal.Decimal) (*models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "CustomerService.Deposit")
	defer span.End()

	if !money.IsPositive(amount) {
		return nil, &models.ValidationError{Field: "amount", Reason: "must be positive"}
	}

	var customer *models.Customer
	err := s.store.InCustomerTx(ctx, func(tx store.CustomerTx) error {
		c, err := tx.LockCustomer(ctx, customerID)
		if err != nil {
			return err
		}

		c.Balance = money.Add(c.Balance, amount)
		if err := tx.SetCustomerBalance(ctx, customerID, c.Balance); err != nil {
			return err
		}
		customer = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.DepositsTotal.Inc()
	s.logger.Info("Deposit recorded",
		zap.Int64("customer_id", customerID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", customer.Balance.StringFixed(2)))

	event := &models.DepositRecordedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeDepositRecorded,
			Timestamp: time.Now(),
		},
		CustomerID: customerID,
		Amount:     amount.StringFixed(2),
		NewBalance: customer.Balance.StringFixed(2),
	}
	if err := s.events.PublishDepositRecorded(ctx, event); err != nil {
		s.logger.Error("Failed to publish DepositRecorded event", zap.Error(err))
	}

	return customer, nil
}
