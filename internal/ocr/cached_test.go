package ocr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ksdfg/bill-splitter/internal/metrics"
	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/storage"
)

// countingExtractor returns a fixed bill or error and counts calls.
type countingExtractor struct {
	calls int
	bill  *models.OCRBill
	err   error
	delay time.Duration
}

func (c *countingExtractor) Name() string { return "fake" }

func (c *countingExtractor) ExtractBill(ctx context.Context, _ []byte, _ string) (*models.OCRBill, error) {
	c.calls++
	if c.delay > 0 {
		select {
		case <-time.After(c.delay):
		case <-ctx.Done():
			return nil, failed("%v", ctx.Err())
		}
	}
	return c.bill, c.err
}

// memoryCache is a map-backed storage.Cache.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*models.OCRBill
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*models.OCRBill)}
}

func (m *memoryCache) Get(_ context.Context, key string) (*models.OCRBill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	bill, ok := m.entries[key]
	if !ok {
		return nil, storage.ErrCacheMiss
	}
	return bill, nil
}

func (m *memoryCache) Put(_ context.Context, key string, bill *models.OCRBill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = bill
	return nil
}

func (m *memoryCache) Close() error { return nil }

var coffee = &models.OCRBill{Items: []models.OCRBillItem{{Name: "Coffee", Price: 3.5, Quantity: 1}}}

func TestCached(t *testing.T) {
	ctx := context.Background()
	m := metrics.New()
	inner := &countingExtractor{bill: coffee}
	cached := NewCached(inner, newMemoryCache(), m)

	for i := 0; i < 3; i++ {
		bill, err := cached.ExtractBill(ctx, []byte("same-image"), "image/png")
		if err != nil {
			t.Fatalf("ExtractBill failed: %v", err)
		}
		if bill.Items[0].Name != "Coffee" {
			t.Errorf("unexpected bill %+v", bill)
		}
	}
	if inner.calls != 1 {
		t.Errorf("provider called %d times, want 1", inner.calls)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 2 {
		t.Errorf("cache hits = %v, want 2", got)
	}

	if _, err := cached.ExtractBill(ctx, []byte("other-image"), "image/png"); err != nil {
		t.Fatalf("ExtractBill failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("provider called %d times, want 2", inner.calls)
	}
}

func TestCached_FailuresAreNotCached(t *testing.T) {
	inner := &countingExtractor{err: failed("provider down")}
	cache := newMemoryCache()
	cached := NewCached(inner, cache, metrics.New())

	for i := 0; i < 2; i++ {
		if _, err := cached.ExtractBill(context.Background(), []byte("img"), "image/png"); !errors.Is(err, ErrExtractionFailed) {
			t.Fatalf("ExtractBill() error = %v, want ErrExtractionFailed", err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("provider called %d times, want 2", inner.calls)
	}
	if len(cache.entries) != 0 {
		t.Errorf("failure was cached: %v", cache.entries)
	}
}

func TestCached_BrokenCacheFallsThrough(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("disk full")
	inner := &countingExtractor{bill: coffee}

	bill, err := NewCached(inner, cache, metrics.New()).ExtractBill(context.Background(), []byte("img"), "image/png")
	if err != nil || bill == nil {
		t.Fatalf("ExtractBill() = %v, %v; want the provider's bill", bill, err)
	}
}

func TestObserved_Timeout(t *testing.T) {
	m := metrics.New()
	inner := &countingExtractor{bill: coffee, delay: time.Second}
	observed := NewObserved(inner, 20*time.Millisecond, m)

	_, err := observed.ExtractBill(context.Background(), []byte("img"), "image/png")
	if !errors.Is(err, ErrExtractionFailed) {
		t.Fatalf("ExtractBill() error = %v, want ErrExtractionFailed", err)
	}
	if got := testutil.ToFloat64(m.OCRRequests.WithLabelValues("fake", "error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestDecorators_WithoutMetrics(t *testing.T) {
	inner := &countingExtractor{bill: coffee}
	e := NewCached(NewObserved(inner, time.Second, nil), newMemoryCache(), nil)

	for i := 0; i < 2; i++ {
		if _, err := e.ExtractBill(context.Background(), []byte("img"), "image/png"); err != nil {
			t.Fatalf("ExtractBill failed: %v", err)
		}
	}
	if inner.calls != 1 {
		t.Errorf("provider called %d times, want 1", inner.calls)
	}
}
