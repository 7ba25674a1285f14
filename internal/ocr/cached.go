package ocr

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ksdfg/bill-splitter/internal/metrics"
	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/storage"
)

// Cached serves repeated uploads of the same image from a cache. Cache
// failures are logged and fall through to the provider.
type Cached struct {
	next    Extractor
	cache   storage.Cache
	metrics *metrics.Metrics
}

// NewCached wraps next with cache. m may be nil.
func NewCached(next Extractor, cache storage.Cache, m *metrics.Metrics) *Cached {
	return &Cached{next: next, cache: cache, metrics: m}
}

// Name implements Extractor.
func (c *Cached) Name() string { return c.next.Name() }

// ExtractBill implements Extractor.
func (c *Cached) ExtractBill(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error) {
	key := storage.Key(image, mimeType)

	bill, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.ObserveCacheLookup("hit")
		slog.Debug("OCR cache hit", "key", key)
		return bill, nil
	case errors.Is(err, storage.ErrCacheMiss):
		c.metrics.ObserveCacheLookup("miss")
	default:
		c.metrics.ObserveCacheLookup("error")
		slog.Warn("OCR cache lookup failed", "key", key, "error", err)
	}

	bill, err = c.next.ExtractBill(ctx, image, mimeType)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Put(ctx, key, bill); err != nil {
		slog.Warn("OCR cache store failed", "key", key, "error", err)
	}
	return bill, nil
}
