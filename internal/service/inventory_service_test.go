package service

import (
	"context"
	"testing"

	"pos-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*InventoryService, *fakeStore, *fakeCache) {
	st := newFakeStore()
	cache := newFakeCache()
	svc := NewInventoryService(st, cache)
	return svc, st, cache
}

func TestGetQuantityMissingRowReadsZero(t *testing.T) {
	svc, _, _ := newInventoryFixture()

	quantity, err := svc.GetQuantity(context.Background(), 1, 99)
	require.NoError(t, err)
	assert.Equal(t, 0, quantity)
}

func TestGetQuantityPopulatesAndServesCache(t *testing.T) {
	svc, st, cache := newInventoryFixture()
	st.inventory[[2]int64{1, 1}] = 12

	quantity, err := svc.GetQuantity(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, quantity)

	cached, ok, err := cache.GetQuantity(context.Background(), 1, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 12, cached)

	// A stale DB row behind a warm cache is served from the cache; the cache
	// is advisory and write paths invalidate it.
	st.inventory[[2]int64{1, 1}] = 99
	quantity, err = svc.GetQuantity(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, quantity)
}

func TestGetProductStockReadThrough(t *testing.T) {
	svc, st, cache := newInventoryFixture()
	st.addProduct(1, "Widget", "10.00", 42)

	stock, err := svc.GetProductStock(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 42, stock)

	cached, ok, err := cache.GetProductStock(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 42, cached)

	_, err = svc.GetProductStock(context.Background(), 99)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAdjustIncrementCreatesRow(t *testing.T) {
	svc, st, _ := newInventoryFixture()
	st.addProduct(1, "Widget", "10.00", 0)

	quantity, err := svc.Adjust(context.Background(), 3, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, quantity)
	assert.Equal(t, 7, st.inventory[[2]int64{3, 1}])
}

func TestAdjustBelowZeroFails(t *testing.T) {
	svc, st, _ := newInventoryFixture()
	st.addProduct(1, "Widget", "10.00", 0)
	st.inventory[[2]int64{1, 1}] = 4

	_, err := svc.Adjust(context.Background(), 1, 1, -5)
	var stockErr *models.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, 4, st.inventory[[2]int64{1, 1}])

	quantity, err := svc.Adjust(context.Background(), 1, 1, -4)
	require.NoError(t, err)
	assert.Equal(t, 0, quantity)
}

func TestAdjustValidation(t *testing.T) {
	svc, st, _ := newInventoryFixture()
	st.addProduct(1, "Widget", "10.00", 0)

	_, err := svc.Adjust(context.Background(), 1, 1, 0)
	var vErr *models.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "delta", vErr.Field)

	_, err = svc.Adjust(context.Background(), 1, 99, 5)
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestAdjustInvalidatesCache(t *testing.T) {
	svc, st, cache := newInventoryFixture()
	st.addProduct(1, "Widget", "10.00", 0)
	st.inventory[[2]int64{1, 1}] = 10

	// Warm the cache, then adjust. The next read must see the new quantity.
	_, err := svc.GetQuantity(context.Background(), 1, 1)
	require.NoError(t, err)

	_, err = svc.Adjust(context.Background(), 1, 1, 5)
	require.NoError(t, err)

	_, ok, err := cache.GetQuantity(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	quantity, err := svc.GetQuantity(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 15, quantity)
}
