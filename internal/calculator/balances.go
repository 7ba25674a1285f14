// Package calculator computes how an outing's bills net out between
// participants and the fewest payments that settle them.
package calculator

import (
	"math"
	"sort"

	"github.com/ksdfg/bill-splitter/internal/models"
)

// ledger accumulates signed balances and remembers the order in which
// participants first appeared, for deterministic tie-breaking.
type ledger struct {
	balances map[string]float64
	order    []string
}

func newLedger() *ledger {
	return &ledger{balances: make(map[string]float64)}
}

func (l *ledger) add(name string, amount float64) {
	if _, seen := l.balances[name]; !seen {
		l.order = append(l.order, name)
	}
	l.balances[name] += amount
}

// DiscountRate is the ratio of what was actually paid for a bill to its
// nominal total including tax and service charge. A rate below 1 means a
// discount was applied; above 1 means an extra surcharge was paid. A bill
// with a zero nominal total has a rate of 0.
func DiscountRate(bill models.Bill) float64 {
	nominal := bill.NominalTotal()
	if nominal == 0 {
		return 0
	}
	return bill.AmountPaid / nominal
}

// chargeShares debits each consumer of the bill with an equal share of every
// item they consumed, after tax, service charge and the bill's discount rate.
// Shares are not rounded.
func chargeShares(l *ledger, bill models.Bill) {
	chargeRate := bill.ChargeRate()
	discountRate := DiscountRate(bill)

	for _, item := range bill.Items {
		if len(item.ConsumedBy) == 0 {
			continue
		}
		perPerson := item.Cost() * chargeRate * discountRate / float64(len(item.ConsumedBy))
		for _, consumer := range item.ConsumedBy {
			l.add(consumer, -perPerson)
		}
	}
}

// CalculateBalance computes how much each person in the outing owes or is
// owed.
//
// Algorithm:
//   - For each bill the payer is credited with the amount actually paid
//   - Each item's cost is scaled by (1 + tax + service) and by the bill's
//     discount rate, then split equally among its consumers
//   - Balances accumulate across bills at full precision and are rounded to
//     cents only when the creditor and debtor lists are built
//
// Creditors and debtors are sorted by amount, largest first. Equal amounts
// keep the order in which the participants first appeared. Participants whose
// balance rounds to zero are left out of both lists. The debt total is kept
// within one cent of the credit total, see conserveDebts.
//
// The outing is assumed to be validated.
func CalculateBalance(outing models.Outing) models.OutingPaymentBalance {
	l := newLedger()

	for _, bill := range outing.Bills {
		l.add(bill.PaidBy, roundCents(bill.AmountPaid))
		chargeShares(l, bill)
	}

	creditors := []models.PersonBalance{}
	debtors := []models.PersonBalance{}
	var exactDebts []float64
	for _, name := range l.order {
		amount := roundCents(l.balances[name])
		switch {
		case amount > 0:
			creditors = append(creditors, models.PersonBalance{Name: name, Amount: amount})
		case amount < 0:
			debtors = append(debtors, models.PersonBalance{Name: name, Amount: -amount})
			exactDebts = append(exactDebts, -l.balances[name])
		}
	}
	conserveDebts(creditors, debtors, exactDebts)

	// Largest first so the settlement engine matches the biggest debts and
	// credits against each other.
	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].Amount > creditors[j].Amount })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].Amount > debtors[j].Amount })

	return models.OutingPaymentBalance{Creditors: creditors, Debtors: debtors}
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// conserveDebts moves whole cents between debtors and the rounding so that
// the debt total ends up within one cent of the credit total. Rounding every
// balance on its own lets the totals drift apart by up to half a cent per
// participant. Cents are added to the debtors rounded down the most, or taken
// from those rounded up the most (largest remainder). exact holds the
// unrounded debts in the same order as debtors.
func conserveDebts(creditors, debtors []models.PersonBalance, exact []float64) {
	if len(debtors) == 0 {
		return
	}

	var credit, debt int64
	for _, c := range creditors {
		credit += toCents(c.Amount)
	}
	cents := make([]int64, len(debtors))
	for i, d := range debtors {
		cents[i] = toCents(d.Amount)
		debt += cents[i]
	}

	drift := debt - credit
	if drift >= -1 && drift <= 1 {
		return
	}
	step, need := int64(1), -drift-1
	if drift > 0 {
		step, need = -1, drift-1
	}

	// remainder > 0 means the debtor was rounded down
	remainder := make([]float64, len(debtors))
	order := make([]int, len(debtors))
	for i := range debtors {
		remainder[i] = exact[i]*100 - float64(cents[i])
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return float64(step)*remainder[order[a]] > float64(step)*remainder[order[b]]
	})

	for need > 0 {
		moved := false
		for _, i := range order {
			if need == 0 {
				break
			}
			// Never take a debtor down to zero
			if step < 0 && cents[i] <= 1 {
				continue
			}
			cents[i] += step
			need--
			moved = true
		}
		if !moved {
			break
		}
	}

	for i := range debtors {
		debtors[i].Amount = float64(cents[i]) / 100
	}
}
