package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/ksdfg/bill-splitter/internal/models"
)

func checkPlans(t *testing.T, got, want []models.PaymentPlan) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d plans %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i].Name != want[i].Name {
			t.Errorf("plan[%d] name = %q, want %q", i, got[i].Name, want[i].Name)
			continue
		}
		if len(got[i].Payments) != len(want[i].Payments) {
			t.Errorf("plan %s: got %d payments %v, want %d", want[i].Name, len(got[i].Payments), got[i].Payments, len(want[i].Payments))
			continue
		}
		for k, p := range want[i].Payments {
			g := got[i].Payments[k]
			if g.To != p.To || !approxEqual(g.Amount, p.Amount) {
				t.Errorf("plan %s payment[%d] = %+v, want %+v", want[i].Name, k, g, p)
			}
		}
	}
}

func TestCalculateOutingSplitWithMinimalTransactions(t *testing.T) {
	tests := []struct {
		name    string
		balance models.OutingPaymentBalance
		want    []models.PaymentPlan
	}{
		{
			name: "two debtors pay one creditor",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{{Name: "bob", Amount: 891.25}},
				Debtors: []models.PersonBalance{
					{Name: "charlie", Amount: 575.00},
					{Name: "alice", Amount: 316.25},
				},
			},
			want: []models.PaymentPlan{
				{Name: "charlie", Payments: []models.Payment{{To: "bob", Amount: 575.00}}},
				{Name: "alice", Payments: []models.Payment{{To: "bob", Amount: 316.25}}},
			},
		},
		{
			name: "discounted single bill",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{{Name: "bob", Amount: 738.10}},
				Debtors: []models.PersonBalance{
					{Name: "charlie", Amount: 476.19},
					{Name: "alice", Amount: 261.90},
				},
			},
			want: []models.PaymentPlan{
				{Name: "charlie", Payments: []models.Payment{{To: "bob", Amount: 476.19}}},
				{Name: "alice", Payments: []models.Payment{{To: "bob", Amount: 261.90}}},
			},
		},
		{
			name: "one debtor pays two creditors",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{
					{Name: "bob", Amount: 360},
					{Name: "alice", Amount: 315},
				},
				Debtors: []models.PersonBalance{{Name: "charlie", Amount: 675}},
			},
			want: []models.PaymentPlan{
				{Name: "charlie", Payments: []models.Payment{
					{To: "bob", Amount: 360},
					{To: "alice", Amount: 315},
				}},
			},
		},
		{
			name: "rounding residue is tolerated",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{
					{Name: "bob", Amount: 293.33},
					{Name: "alice", Amount: 253.33},
				},
				Debtors: []models.PersonBalance{{Name: "charlie", Amount: 546.67}},
			},
			want: []models.PaymentPlan{
				{Name: "charlie", Payments: []models.Payment{
					{To: "bob", Amount: 293.33},
					{To: "alice", Amount: 253.33},
				}},
			},
		},
		{
			name: "zero amounts are skipped",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{
					{Name: "bob", Amount: 40},
					{Name: "erin", Amount: 0},
				},
				Debtors: []models.PersonBalance{
					{Name: "dana", Amount: 0},
					{Name: "alice", Amount: 40},
				},
			},
			want: []models.PaymentPlan{
				{Name: "alice", Payments: []models.Payment{{To: "bob", Amount: 40}}},
			},
		},
		{
			name:    "nothing to settle",
			balance: models.OutingPaymentBalance{},
			want:    []models.PaymentPlan{},
		},
		{
			name: "mismatched totals settle partially",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{{Name: "bob", Amount: 100}},
				Debtors: []models.PersonBalance{
					{Name: "alice", Amount: 70},
					{Name: "charlie", Amount: 70},
				},
			},
			want: []models.PaymentPlan{
				{Name: "alice", Payments: []models.Payment{{To: "bob", Amount: 70}}},
				{Name: "charlie", Payments: []models.Payment{{To: "bob", Amount: 30}}},
			},
		},
		{
			name: "negative amounts do not stall",
			balance: models.OutingPaymentBalance{
				Creditors: []models.PersonBalance{{Name: "bob", Amount: -5}, {Name: "erin", Amount: 10}},
				Debtors:   []models.PersonBalance{{Name: "alice", Amount: 10}},
			},
			want: []models.PaymentPlan{
				{Name: "alice", Payments: []models.Payment{{To: "erin", Amount: 10}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateOutingSplitWithMinimalTransactions(tt.balance)
			checkPlans(t, got.PaymentPlans, tt.want)
		})
	}
}

func TestCalculateOutingSplit_DoesNotMutateInput(t *testing.T) {
	balance := models.OutingPaymentBalance{
		Creditors: []models.PersonBalance{{Name: "bob", Amount: 360}, {Name: "alice", Amount: 315}},
		Debtors:   []models.PersonBalance{{Name: "charlie", Amount: 675}},
	}

	CalculateOutingSplitWithMinimalTransactions(balance)

	if balance.Creditors[0].Amount != 360 || balance.Creditors[1].Amount != 315 {
		t.Errorf("creditors modified: %v", balance.Creditors)
	}
	if balance.Debtors[0].Amount != 675 {
		t.Errorf("debtors modified: %v", balance.Debtors)
	}
}

func TestCalculateOutingSplit_EndToEnd(t *testing.T) {
	split := CalculateOutingSplitWithMinimalTransactions(CalculateBalance(cafeHop(990, 862.50)))
	checkPlans(t, split.PaymentPlans, []models.PaymentPlan{
		{Name: "charlie", Payments: []models.Payment{
			{To: "bob", Amount: 360},
			{To: "alice", Amount: 315},
		}},
	})
}

func TestCalculateOutingSplit_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(1234))
	for n := 0; n < 5000; n++ {
		balance := CalculateBalance(randomOuting(r))
		split := CalculateOutingSplitWithMinimalTransactions(balance)

		// Never more than N+M-1 transfers
		if limit := len(balance.Creditors) + len(balance.Debtors) - 1; len(balance.Creditors) > 0 && len(balance.Debtors) > 0 && split.PaymentCount() > limit {
			t.Fatalf("case %d: %d payments exceeds limit %d", n, split.PaymentCount(), limit)
		}

		paid := make(map[string]float64)
		received := make(map[string]float64)
		for _, plan := range split.PaymentPlans {
			if len(plan.Payments) == 0 {
				t.Fatalf("case %d: plan for %s has no payments", n, plan.Name)
			}
			for _, p := range plan.Payments {
				if p.Amount <= 0 {
					t.Fatalf("case %d: non-positive payment %+v", n, p)
				}
				paid[plan.Name] += p.Amount
				received[p.To] += p.Amount
			}
		}

		// The totals agree within a cent, and the last person on the longer
		// side absorbs the difference.
		tolerance := 0.01 + 1e-6
		for _, d := range balance.Debtors {
			if math.Abs(paid[d.Name]-d.Amount) > tolerance {
				t.Fatalf("case %d: %s paid %.2f, owes %.2f", n, d.Name, paid[d.Name], d.Amount)
			}
		}
		for _, c := range balance.Creditors {
			if math.Abs(received[c.Name]-c.Amount) > tolerance {
				t.Fatalf("case %d: %s received %.2f, is owed %.2f", n, c.Name, received[c.Name], c.Amount)
			}
		}
	}
}
