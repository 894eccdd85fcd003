package tax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is an input-VAT ledger entry.
type Receipt struct {
	ID        string
	FileName  string
	VatAmount float64
	Date      time.Time
}

// Amounts are summed as decimals so the total does not depend on the order
// of receipts.
func sumInputVat(receipts []Receipt) decimal.Decimal {
	total := decimal.Zero

	for _, r := range receipts {
		total = total.Add(decimal.NewFromFloat(r.VatAmount))
	}

	return total
}

func TotalInputVat(receipts []Receipt) float64 {
	return sumInputVat(receipts).InexactFloat64()
}

// NetVat is the amount to remit. A negative result is a refund position.
func NetVat(outputVat float64, receipts []Receipt) float64 {
	return decimal.NewFromFloat(outputVat).Sub(sumInputVat(receipts)).InexactFloat64()
}
