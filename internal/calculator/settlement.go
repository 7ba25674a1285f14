package calculator

import "github.com/ksdfg/bill-splitter/internal/models"

// CalculateOutingSplitWithMinimalTransactions computes the payments that
// settle every balance using as few transactions as possible.
//
// Algorithm (greedy two-pointer matching):
//   - Walk creditors and debtors in the order given (largest first, as
//     produced by CalculateBalance); the lists are not re-sorted
//   - Settle min(debtor, creditor) between the current pair
//   - Move past whichever side has nothing left, or both
//
// Every step exhausts at least one side, so N creditors and M debtors need at
// most N+M-1 payments. A small residue left by rounding is ignored. The input
// balance is not modified.
func CalculateOutingSplitWithMinimalTransactions(balance models.OutingPaymentBalance) models.OutingSplit {
	// Work on copies so the caller's balance stays intact
	debtors := make([]float64, len(balance.Debtors))
	for i, d := range balance.Debtors {
		debtors[i] = d.Amount
	}
	creditors := make([]float64, len(balance.Creditors))
	for i, c := range balance.Creditors {
		creditors[i] = c.Amount
	}

	plans := []models.PaymentPlan{}
	planIndex := make(map[string]int)               // debtor -> index in plans
	paymentIndex := make(map[string]map[string]int) // debtor -> creditor -> index in payments

	record := func(debtor, creditor string, amount float64) {
		pi, ok := planIndex[debtor]
		if !ok {
			pi = len(plans)
			planIndex[debtor] = pi
			paymentIndex[debtor] = make(map[string]int)
			plans = append(plans, models.PaymentPlan{Name: debtor})
		}
		if idx, ok := paymentIndex[debtor][creditor]; ok {
			plans[pi].Payments[idx].Amount = roundCents(plans[pi].Payments[idx].Amount + amount)
			return
		}
		paymentIndex[debtor][creditor] = len(plans[pi].Payments)
		plans[pi].Payments = append(plans[pi].Payments, models.Payment{To: creditor, Amount: amount})
	}

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := roundCents(min(debtors[i], creditors[j]))
		if amount > 0 {
			record(balance.Debtors[i].Name, balance.Creditors[j].Name, amount)
		}

		debtors[i] -= amount
		creditors[j] -= amount

		// A non-positive remainder also counts as settled so malformed
		// input cannot stall the loop.
		if roundCents(debtors[i]) <= 0 {
			i++
		}
		if roundCents(creditors[j]) <= 0 {
			j++
		}
	}

	return models.OutingSplit{PaymentPlans: plans}
}
