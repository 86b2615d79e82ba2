package service

import (
	"context"
	"sync"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderFixture() (*OrderService, *fakeStore, *stubPublisher) {
	st := newFakeStore()
	events := &stubPublisher{}
	svc := NewOrderService(st, newFakeCache(), events, 5)
	return svc, st, events
}

func TestPlaceOrderComputesExactTotal(t *testing.T) {
	svc, st, events := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 100)
	st.addProduct(2, "Gadget", "2.50", 100)

	resp, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		Lines: []OrderLineRequest{
			{ProductID: 1, Quantity: 3},
			{ProductID: 2, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "40.00", resp.Order.Total.StringFixed(2))
	assert.Equal(t, models.OrderStatusCompleted, resp.Order.Status)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "30.00", resp.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "10.00", resp.Lines[1].LineTotal.StringFixed(2))

	assert.Equal(t, 97, st.products[1].Stock)
	assert.Equal(t, 96, st.products[2].Stock)

	require.Len(t, events.orderPlaced, 1)
	assert.Equal(t, "40.00", events.orderPlaced[0].Total)
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	svc, st, events := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 100)
	st.addProduct(2, "Gadget", "2.50", 3)

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		Lines: []OrderLineRequest{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 4},
		},
	})

	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Gadget", stockErr.Product)
	assert.Equal(t, 4, stockErr.Requested)
	assert.Equal(t, 3, stockErr.Available)

	// The first line was processed before the failure; nothing may remain.
	assert.Equal(t, 100, st.products[1].Stock)
	assert.Equal(t, 3, st.products[2].Stock)
	assert.Empty(t, st.orders)
	assert.Empty(t, st.orderLines)
	assert.Empty(t, events.orderPlaced)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	svc, st, _ := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 100)

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		Lines: []OrderLineRequest{{ProductID: 99, Quantity: 1}},
	})

	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ID)
	assert.Equal(t, 100, st.products[1].Stock)
}

func TestPlaceOrderValidation(t *testing.T) {
	svc, _, _ := newOrderFixture()

	cases := []struct {
		name  string
		req   *PlaceOrderRequest
		field string
	}{
		{"empty lines", &PlaceOrderRequest{}, "lines"},
		{"zero quantity", &PlaceOrderRequest{
			Lines: []OrderLineRequest{{ProductID: 1, Quantity: 0}},
		}, "quantity"},
		{"duplicate product", &PlaceOrderRequest{
			Lines: []OrderLineRequest{
				{ProductID: 1, Quantity: 1},
				{ProductID: 1, Quantity: 2},
			},
		}, "product_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), tc.req)
			var vErr *models.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tc.field, vErr.Field)
		})
	}
}

func TestPlaceOrderConcurrentOversell(t *testing.T) {
	svc, st, _ := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
				Lines: []OrderLineRequest{{ProductID: 1, Quantity: 6}},
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range errs {
		if err != nil {
			var stockErr *models.InsufficientStockError
			require.ErrorAs(t, err, &stockErr)
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two overlapping orders must fail")
	assert.Equal(t, 4, st.products[1].Stock)
	assert.Len(t, st.orders, 1)
}

func TestPlaceOrderIdempotencyKeyReturnsExisting(t *testing.T) {
	svc, st, events := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 100)

	req := &PlaceOrderRequest{
		Lines:          []OrderLineRequest{{ProductID: 1, Quantity: 2}},
		IdempotencyKey: "req-42",
	}

	first, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	second, err := svc.PlaceOrder(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Order.ID, second.Order.ID)
	assert.Equal(t, first.Order.OrderNo, second.Order.OrderNo)
	assert.Equal(t, 98, st.products[1].Stock, "stock decremented only once")
	assert.Len(t, events.orderPlaced, 1)
}

func TestPlaceOrderLowStockEvents(t *testing.T) {
	svc, st, events := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 8)

	_, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		Lines: []OrderLineRequest{{ProductID: 1, Quantity: 4}},
	})
	require.NoError(t, err)

	require.Len(t, events.lowStock, 1)
	assert.Equal(t, int64(1), events.lowStock[0].ProductID)
	assert.Equal(t, 4, events.lowStock[0].Stock)
	assert.Equal(t, 5, events.lowStock[0].Threshold)
}

func TestPlaceOrderCustomerAttached(t *testing.T) {
	svc, st, _ := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 100)
	st.addCustomer(7, "alice", "50.00")

	customerID := int64(7)
	resp, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		CustomerID: &customerID,
		Lines:      []OrderLineRequest{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Customer)
	assert.Equal(t, int64(7), resp.Customer.ID)
	require.NotNil(t, resp.Order.CustomerID)
	assert.Equal(t, int64(7), *resp.Order.CustomerID)
}

func TestGetOrder(t *testing.T) {
	svc, st, _ := newOrderFixture()
	st.addProduct(1, "Widget", "10.00", 100)

	placed, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		Lines: []OrderLineRequest{{ProductID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	got, err := svc.GetOrder(context.Background(), placed.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Order.OrderNo, got.Order.OrderNo)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "20.00", got.Lines[0].LineTotal.StringFixed(2))

	_, err = svc.GetOrder(context.Background(), 9999)
	var notFound *models.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
