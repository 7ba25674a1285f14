package models

// OCRBill is the partial bill extracted from a receipt image.
// It omits paid_by and consumed_by, which only the caller knows.
type OCRBill struct {
	Items         []OCRBillItem `json:"items" validate:"required,min=1,dive"`
	TaxRate       float64       `json:"tax_rate" validate:"gte=0,lte=1"`
	ServiceCharge float64       `json:"service_charge" validate:"gte=0,lte=1"`

	// AmountPaid is the grand total printed on the receipt, if one was found.
	AmountPaid float64 `json:"amount_paid" validate:"gte=0"`
}

// OCRBillItem is a receipt line as read by the OCR provider.
type OCRBillItem struct {
	Name     string  `json:"name" validate:"required"`
	Price    float64 `json:"price" validate:"gt=0"`
	Quantity int     `json:"quantity" validate:"gt=0"`
}
