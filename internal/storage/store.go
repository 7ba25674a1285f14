// Package storage provides caches for OCR results.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/ksdfg/bill-splitter/internal/models"
)

// ErrCacheMiss is returned by Cache.Get when no live entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// Cache stores bills extracted from receipt images so the same photo is
// only sent to the OCR provider once.
// This abstraction allows swapping backends (SQLite, Redis) without changing
// the OCR layer.
type Cache interface {
	// Get returns the cached bill for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) (*models.OCRBill, error)

	// Put stores bill under key, replacing any previous entry.
	Put(ctx context.Context, key string, bill *models.OCRBill) error

	// Close releases any resources held by the cache.
	Close() error
}

// Key derives the cache key for an image: the hex SHA-256 of its MIME type
// and bytes.
func Key(image []byte, mimeType string) string {
	h := sha256.New()
	h.Write([]byte(mimeType))
	h.Write([]byte{0})
	h.Write(image)
	return hex.EncodeToString(h.Sum(nil))
}
