package ocr

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/ksdfg/bill-splitter/internal/models"
	"github.com/ksdfg/bill-splitter/internal/validation"
)

// rawBill mirrors models.OCRBill but accepts fractional quantities, which
// models sometimes emit as 1.0.
type rawBill struct {
	Items []struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity float64 `json:"quantity"`
	} `json:"items"`
	TaxRate       float64 `json:"tax_rate"`
	ServiceCharge float64 `json:"service_charge"`
	AmountPaid    float64 `json:"amount_paid"`
}

// parseBill decodes and validates the JSON text a model returned.
func parseBill(text string) (*models.OCRBill, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, failed("empty response text")
	}

	var raw rawBill
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, failed("response is not valid bill JSON: %v", err)
	}

	bill := &models.OCRBill{
		TaxRate:       raw.TaxRate,
		ServiceCharge: raw.ServiceCharge,
		AmountPaid:    raw.AmountPaid,
		Items:         make([]models.OCRBillItem, len(raw.Items)),
	}
	for i, item := range raw.Items {
		bill.Items[i] = models.OCRBillItem{
			Name:     strings.TrimSpace(item.Name),
			Price:    item.Price,
			Quantity: int(math.Round(item.Quantity)),
		}
	}

	if err := validation.OCRBill(bill); err != nil {
		return nil, failed("%v", err)
	}
	return bill, nil
}

// stripCodeFence removes a surrounding ```json ... ``` block.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
