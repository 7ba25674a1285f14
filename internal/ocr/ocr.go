// Package ocr turns photographed receipts into partial bills using an
// external language-model provider.
//
// Every provider implements Extractor. The provider is chosen explicitly by
// configuration; decorators add caching, metrics and timeouts around it.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ksdfg/bill-splitter/internal/config"
	"github.com/ksdfg/bill-splitter/internal/models"
)

var (
	// ErrExtractionFailed wraps every failure of the upstream provider:
	// transport errors, empty responses and unusable JSON.
	ErrExtractionFailed = errors.New("bill extraction failed")

	// ErrUnsupportedMediaType is returned for uploads that are not images.
	ErrUnsupportedMediaType = errors.New("invalid file type, please upload an image file")

	// ErrNotConfigured is returned when no provider is configured.
	ErrNotConfigured = errors.New("no OCR provider is configured")
)

// Extractor reads a receipt image and returns the bill printed on it,
// without payer or consumers.
type Extractor interface {
	// Name identifies the provider in logs and metrics.
	Name() string

	// ExtractBill sends the image to the provider. Provider failures are
	// wrapped in ErrExtractionFailed.
	ExtractBill(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error)
}

// CheckMediaType rejects MIME types other than image/*.
func CheckMediaType(mimeType string) error {
	if !strings.HasPrefix(strings.ToLower(mimeType), "image/") {
		return fmt.Errorf("%w: %q", ErrUnsupportedMediaType, mimeType)
	}
	return nil
}

// New builds the extractor selected by cfg.Provider.
func New(ctx context.Context, cfg config.OCRConfig) (Extractor, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGemini(ctx, cfg.Gemini)
	case config.ProviderLiteLLM:
		return NewLiteLLM(cfg.LiteLLM), nil
	case config.ProviderReceiptAPI:
		return NewReceiptAPI(cfg.ReceiptAPI), nil
	case config.ProviderNone, "":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown OCR provider %q", cfg.Provider)
	}
}

// Disabled is the extractor used when no provider is configured.
type Disabled struct{}

// Name implements Extractor.
func (Disabled) Name() string { return config.ProviderNone }

// ExtractBill always fails with ErrNotConfigured.
func (Disabled) ExtractBill(context.Context, []byte, string) (*models.OCRBill, error) {
	return nil, ErrNotConfigured
}

func failed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExtractionFailed, fmt.Sprintf(format, args...))
}
