package models

import "encoding/json"

// DefaultTaxRate is applied to a bill whose tax_rate is omitted.
const DefaultTaxRate = 0.05

// Outing is a group event made of one or more bills settled together.
type Outing struct {
	// Bills are settled collectively; a person may pay one bill and consume
	// from another.
	Bills []Bill `json:"bills" validate:"required,min=1,dive"`
}

// Bill is one paid invoice within an outing.
type Bill struct {
	// Items are the lines on the bill, in receipt order.
	Items []Item `json:"items" validate:"required,min=1,dive"`

	// PaidBy is the participant who settled the bill with the venue.
	PaidBy string `json:"paid_by" validate:"required"`

	// AmountPaid is what was actually paid. It may differ from the nominal
	// total because of a discount, coupon or rounding.
	AmountPaid float64 `json:"amount_paid" validate:"gt=0"`

	// TaxRate is a fraction in [0, 1]. Defaults to DefaultTaxRate.
	TaxRate float64 `json:"tax_rate" validate:"gte=0,lte=1"`

	// ServiceCharge is a fraction in [0, 1]. Defaults to 0.
	ServiceCharge float64 `json:"service_charge" validate:"gte=0,lte=1"`
}

// UnmarshalJSON applies DefaultTaxRate when tax_rate is absent.
func (b *Bill) UnmarshalJSON(data []byte) error {
	type plain Bill
	p := plain{TaxRate: DefaultTaxRate}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Bill(p)
	return nil
}

// ChargeRate is the multiplier tax and service charge apply to item prices.
func (b Bill) ChargeRate() float64 {
	return 1 + b.TaxRate + b.ServiceCharge
}

// NominalTotal is the item total including tax and service charge, before
// any discount reflected in AmountPaid.
func (b Bill) NominalTotal() float64 {
	var subtotal float64
	for _, item := range b.Items {
		subtotal += item.Cost()
	}
	return subtotal * b.ChargeRate()
}

// Item is a single line on a bill.
type Item struct {
	// Name is the label on the receipt (e.g., "Pizza").
	Name string `json:"name" validate:"required"`

	// Price is the unit price.
	Price float64 `json:"price" validate:"gt=0"`

	// Quantity is the number of units ordered.
	Quantity int `json:"quantity" validate:"gt=0"`

	// ConsumedBy lists who shares this item. The cost is split equally.
	ConsumedBy []string `json:"consumed_by" validate:"required,min=1,dive,required"`
}

// Cost is the nominal cost of the line: price times quantity.
func (i Item) Cost() float64 {
	return i.Price * float64(i.Quantity)
}
