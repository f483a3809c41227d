package ledger

import "github.com/shopspring/decimal"

// SaleAmount derives the amount of a sale: quantity * rate + vehicle rent, rounded to two
// decimal places. A nil vehicle rent counts as zero.
func SaleAmount(quantity int, rate float64, vehicleRent *int) float64 {
	amount := decimal.NewFromInt(int64(quantity)).Mul(decimal.NewFromFloat(rate))
	if vehicleRent != nil {
		amount = amount.Add(decimal.NewFromInt(int64(*vehicleRent)))
	}
	return amount.Round(2).InexactFloat64()
}

// PendingBalance is what the customer still owes. Negative means over-payment.
func PendingBalance(totalSales, totalPayments float64) float64 {
	return decimal.NewFromFloat(totalSales).Sub(decimal.NewFromFloat(totalPayments)).InexactFloat64()
}
