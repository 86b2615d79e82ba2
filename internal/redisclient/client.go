package redisclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// Client is a read-through cache in front of the inventory ledger. It is
// never authoritative: every stock mutation invalidates the affected keys and
// the next read falls through to postgres.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func quantityKey(storeID, productID int64) string {
	return fmt.Sprintf("inventory:%d:%d", storeID, productID)
}

func stockKey(productID int64) string {
	return fmt.Sprintf("stock:%d", productID)
}

// GetQuantity returns the cached ledger quantity and whether it was present
func (c *Client) GetQuantity(ctx context.Context, storeID, productID int64) (int, bool, error) {
	val, err := c.rdb.Get(ctx, quantityKey(storeID, productID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	quantity, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cache value for %s: %w", quantityKey(storeID, productID), err)
	}
	return quantity, true, nil
}

// SetQuantity caches a ledger quantity with the configured TTL
func (c *Client) SetQuantity(ctx context.Context, storeID, productID int64, quantity int) error {
	return c.rdb.Set(ctx, quantityKey(storeID, productID), quantity, c.ttl).Err()
}

// InvalidateQuantity drops the cached ledger quantity for a pair
func (c *Client) InvalidateQuantity(ctx context.Context, storeID, productID int64) error {
	return c.rdb.Del(ctx, quantityKey(storeID, productID)).Err()
}

// GetProductStock returns the cached product stock count and whether it was present
func (c *Client) GetProductStock(ctx context.Context, productID int64) (int, bool, error) {
	val, err := c.rdb.Get(ctx, stockKey(productID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	stock, err := strconv.Atoi(val)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt cache value for %s: %w", stockKey(productID), err)
	}
	return stock, true, nil
}

// SetProductStock caches a product stock count with the configured TTL
func (c *Client) SetProductStock(ctx context.Context, productID int64, stock int) error {
	return c.rdb.Set(ctx, stockKey(productID), stock, c.ttl).Err()
}

// InvalidateProductStock drops the cached stock count for a product
func (c *Client) InvalidateProductStock(ctx context.Context, productID int64) error {
	return c.rdb.Del(ctx, stockKey(productID)).Err()
}
