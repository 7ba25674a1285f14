package models

// PersonBalance is one participant's net position after an outing.
// Amount is never negative; whether it is owed or owing depends on which
// list of OutingPaymentBalance holds it.
type PersonBalance struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// OutingPaymentBalance partitions participants into creditors and debtors.
// Both lists are sorted by amount, largest first.
type OutingPaymentBalance struct {
	Creditors []PersonBalance `json:"creditors"`
	Debtors   []PersonBalance `json:"debtors"`
}

// TotalCredit sums what all creditors are owed.
func (b OutingPaymentBalance) TotalCredit() float64 {
	var total float64
	for _, c := range b.Creditors {
		total += c.Amount
	}
	return total
}

// TotalDebt sums what all debtors owe.
func (b OutingPaymentBalance) TotalDebt() float64 {
	var total float64
	for _, d := range b.Debtors {
		total += d.Amount
	}
	return total
}

// Payment is a single transfer from a debtor to a creditor.
type Payment struct {
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// PaymentPlan groups every payment one debtor has to make.
type PaymentPlan struct {
	Name     string    `json:"name"`
	Payments []Payment `json:"payments"`
}

// OutingSplit is the full settlement of an outing.
type OutingSplit struct {
	PaymentPlans []PaymentPlan `json:"payment_plans"`
}

// PaymentCount is the number of transfers needed to settle the outing.
func (s OutingSplit) PaymentCount() int {
	n := 0
	for _, plan := range s.PaymentPlans {
		n += len(plan.Payments)
	}
	return n
}
