package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequisitionFixture() (*RequisitionService, *fakeStore, *stubPublisher) {
	st := newFakeStore()
	events := &stubPublisher{}
	svc := NewRequisitionService(st, newFakeCache(), events)
	return svc, st, events
}

func seedRequisition(t *testing.T, svc *RequisitionService, st *fakeStore) *models.StockRequisition {
	t.Helper()
	st.addProduct(1, "Widget", "10.00", 0)
	st.addProduct(2, "Gadget", "2.50", 0)
	st.inventory[[2]int64{1, 1}] = 20
	st.inventory[[2]int64{1, 2}] = 5

	req, _, err := svc.Create(context.Background(), &CreateRequisitionRequest{
		FromStore: 1,
		ToStore:   2,
		Items: []RequisitionItemRequest{
			{ProductID: 1, Quantity: 10},
			{ProductID: 2, Quantity: 5},
		},
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequisitionValidation(t *testing.T) {
	svc, st, _ := newRequisitionFixture()
	st.addProduct(1, "Widget", "10.00", 0)

	_, _, err := svc.Create(context.Background(), &CreateRequisitionRequest{
		FromStore: 1,
		ToStore:   1,
		Items:     []RequisitionItemRequest{{ProductID: 1, Quantity: 1}},
	})
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "to_store_id", vErr.Field)

	_, _, err = svc.Create(context.Background(), &CreateRequisitionRequest{
		FromStore: 1,
		ToStore:   2,
		Items:     []RequisitionItemRequest{{ProductID: 99, Quantity: 1}},
	})
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(99), notFound.ID)
}

func TestRequisitionCreateStartsPending(t *testing.T) {
	svc, st, _ := newRequisitionFixture()
	req := seedRequisition(t, svc, st)

	assert.Equal(t, models.RequisitionStatusPending, req.Status)
	// Creating a requisition must not touch either ledger.
	assert.Equal(t, 20, st.inventory[[2]int64{1, 1}])
	assert.Equal(t, 0, st.inventory[[2]int64{2, 1}])
}

func TestRequisitionApproveThenComplete(t *testing.T) {
	svc, st, events := newRequisitionFixture()
	req := seedRequisition(t, svc, st)

	approved, err := svc.Approve(context.Background(), req.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, int64(42), *approved.ApprovedBy)

	completed, err := svc.Complete(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusCompleted, completed.Status)

	// Conservation: every unit leaving the source arrives at the destination.
	assert.Equal(t, 10, st.inventory[[2]int64{1, 1}])
	assert.Equal(t, 10, st.inventory[[2]int64{2, 1}])
	assert.Equal(t, 0, st.inventory[[2]int64{1, 2}])
	assert.Equal(t, 5, st.inventory[[2]int64{2, 2}])

	require.Len(t, events.transfers, 1)
	assert.Equal(t, req.ID, events.transfers[0].RequisitionID)
	assert.Len(t, events.transfers[0].Items, 2)
}

func TestRequisitionRejectIsTerminal(t *testing.T) {
	svc, st, _ := newRequisitionFixture()
	req := seedRequisition(t, svc, st)

	rejected, err := svc.Reject(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusRejected, rejected.Status)

	var transErr *models.InvalidStateTransitionError
	_, err = svc.Approve(context.Background(), req.ID, 42)
	require.ErrorAs(t, err, &transErr)

	_, err = svc.Complete(context.Background(), req.ID)
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.RequisitionStatusRejected, transErr.From)

	assert.Equal(t, 20, st.inventory[[2]int64{1, 1}])
}

func TestRequisitionCompleteRequiresApproval(t *testing.T) {
	svc, st, _ := newRequisitionFixture()
	req := seedRequisition(t, svc, st)

	_, err := svc.Complete(context.Background(), req.ID)
	var transErr *models.InvalidStateTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.RequisitionStatusPending, transErr.From)
	assert.Equal(t, models.RequisitionStatusCompleted, transErr.To)
}

func TestRequisitionCompletePartialShortageMovesNothing(t *testing.T) {
	svc, st, events := newRequisitionFixture()
	req := seedRequisition(t, svc, st)

	// Drain the second item's source stock below the requested quantity.
	st.inventory[[2]int64{1, 2}] = 2

	_, err := svc.Approve(context.Background(), req.ID, 42)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), req.ID)
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Gadget", stockErr.Product)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, stockErr.Available)

	// The first item had enough stock; its transfer must roll back too.
	assert.Equal(t, 20, st.inventory[[2]int64{1, 1}])
	assert.Equal(t, 0, st.inventory[[2]int64{2, 1}])
	assert.Empty(t, events.transfers)

	// The requisition stays approved and succeeds after a restock.
	current, _, err := svc.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusApproved, current.Status)

	st.inventory[[2]int64{1, 2}] = 5
	completed, err := svc.Complete(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequisitionStatusCompleted, completed.Status)
}

func TestRequisitionCompleteTwiceFails(t *testing.T) {
	svc, st, _ := newRequisitionFixture()
	req := seedRequisition(t, svc, st)

	_, err := svc.Approve(context.Background(), req.ID, 42)
	require.NoError(t, err)
	_, err = svc.Complete(context.Background(), req.ID)
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), req.ID)
	var transErr *models.InvalidStateTransitionError
	require.ErrorAs(t, err, &transErr)

	// No double movement.
	assert.Equal(t, 10, st.inventory[[2]int64{1, 1}])
	assert.Equal(t, 10, st.inventory[[2]int64{2, 1}])
}
