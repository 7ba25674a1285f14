package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ksdfg/bill-splitter/internal/config"
	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/validation"
)

// ReceiptAPI extracts bills with a dedicated receipt OCR service that takes
// a multipart image upload and returns amounts rather than rates.
type ReceiptAPI struct {
	url    string
	apiKey string
	client *http.Client
}

// NewReceiptAPI creates a ReceiptAPI extractor.
func NewReceiptAPI(cfg config.ReceiptAPIConfig) *ReceiptAPI {
	return &ReceiptAPI{
		url:    cfg.URL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// receiptResponse is the service's response body.
type receiptResponse struct {
	MerchantName string `json:"merchant_name"`
	Items        []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	} `json:"items"`
	SubTotal      float64 `json:"sub_total"`
	VAT           float64 `json:"vat"`
	ServiceCharge float64 `json:"service_charge"`
	Total         float64 `json:"total"`
}

// Name implements Extractor.
func (r *ReceiptAPI) Name() string { return config.ProviderReceiptAPI }

// ExtractBill implements Extractor.
func (r *ReceiptAPI) ExtractBill(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "receipt"+extensionFor(mimeType))
	if err != nil {
		return nil, failed("failed to create form file: %v", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, failed("failed to write image to form: %v", err)
	}
	if err := writer.Close(); err != nil {
		return nil, failed("failed to close multipart writer: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, body)
	if err != nil {
		return nil, failed("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if r.apiKey != "" {
		req.Header.Set("X-Api-Key", r.apiKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, failed("receipt api request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failed("failed to read receipt api response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, failed("receipt api returned status %d: %s", resp.StatusCode, truncate(respBody, 512))
	}

	var result receiptResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, failed("failed to decode receipt api response: %v", err)
	}

	bill := &models.OCRBill{
		AmountPaid: result.Total,
		Items:      make([]models.OCRBillItem, len(result.Items)),
	}
	for i, item := range result.Items {
		bill.Items[i] = models.OCRBillItem{Name: item.Name, Price: item.Price, Quantity: item.Quantity}
	}
	// The service reports VAT and service charge as amounts
	if result.SubTotal > 0 {
		bill.TaxRate = result.VAT / result.SubTotal
		bill.ServiceCharge = result.ServiceCharge / result.SubTotal
	}

	if err := validation.OCRBill(bill); err != nil {
		return nil, failed("%v", err)
	}
	return bill, nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	default:
		return ""
	}
}
