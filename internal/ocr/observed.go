package ocr

import (
	"context"
	"log/slog"
	"time"

	"github.com/ksdfg/bill-splitter/internal/metrics"
	"github.com/ksdfg/bill-splitter/internal/models"
)

// Observed bounds each provider call by a timeout and records its outcome
// in logs and metrics.
type Observed struct {
	next    Extractor
	timeout time.Duration
	metrics *metrics.Metrics
}

// NewObserved wraps next. A zero timeout leaves the caller's deadline alone.
// m may be nil.
func NewObserved(next Extractor, timeout time.Duration, m *metrics.Metrics) *Observed {
	return &Observed{next: next, timeout: timeout, metrics: m}
}

// Name implements Extractor.
func (o *Observed) Name() string { return o.next.Name() }

// ExtractBill implements Extractor.
func (o *Observed) ExtractBill(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	bill, err := o.next.ExtractBill(ctx, image, mimeType)
	elapsed := time.Since(start)
	o.metrics.ObserveOCR(o.next.Name(), err, elapsed)

	if err != nil {
		slog.Error("Bill extraction failed",
			"provider", o.next.Name(),
			"mime_type", mimeType,
			"bytes", len(image),
			"duration_ms", elapsed.Milliseconds(),
			"error", err,
		)
		return nil, err
	}

	slog.Info("Bill extracted",
		"provider", o.next.Name(),
		"items", len(bill.Items),
		"amount_paid", bill.AmountPaid,
		"duration_ms", elapsed.Milliseconds(),
	)
	return bill, nil
}
