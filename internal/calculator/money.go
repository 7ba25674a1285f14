package calculator

import "github.com/shopspring/decimal"

// roundCents rounds an amount to 2 decimal places, half away from zero.
// Rounding goes through the shortest decimal representation of the float so
// that values like 1.005 round the way they read.
func roundCents(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}
