// Package rediscache provides a Redis-backed implementation of storage.Cache.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/storage"
)

const keyPrefix = "billsplitter:ocr:"

var _ storage.Cache = (*Cache)(nil)

// Cache stores OCR results as JSON values with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis at addr and checks the connection.
func New(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Get returns the cached bill for key, or storage.ErrCacheMiss.
func (c *Cache) Get(ctx context.Context, key string) (*models.OCRBill, error) {
	data, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	var bill models.OCRBill
	if err := json.Unmarshal(data, &bill); err != nil {
		return nil, fmt.Errorf("failed to decode cached receipt: %w", err)
	}
	return &bill, nil
}

// Put stores bill under key with the configured TTL.
func (c *Cache) Put(ctx context.Context, key string, bill *models.OCRBill) error {
	data, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store receipt: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
