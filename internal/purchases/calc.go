package purchases

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

// VATRate is applied to the purchase sub-total.
var VATRate = decimal.RequireFromString("0.15")

// ExpenseTotals holds the derived amounts of a purchase expense.
type ExpenseTotals struct {
	SubTotal decimal.Decimal
	VAT      decimal.Decimal
	Total    decimal.Decimal
}

// LineTotal is quantity times unit price, exact.
func LineTotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty)))
}

// Totals sums the stored line totals. VAT is rounded half-to-even to cents.
func Totals(lines []models.PurchaseProduct) ExpenseTotals {
	sub := decimal.Zero
	for _, line := range lines {
		sub = sub.Add(line.TotalPrice)
	}
	vat := sub.Mul(VATRate).RoundBank(2)
	return ExpenseTotals{SubTotal: sub, VAT: vat, Total: sub.Add(vat)}
}

// DerivePayment returns the paid and unpaid amounts implied by status.
func DerivePayment(status enums.PaymentStatus, total, paid decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	switch status {
	case enums.PaymentStatusPaid:
		return total, decimal.Zero
	case enums.PaymentStatusUnpaid:
		return decimal.Zero, total
	default:
		unpaid := total.Sub(paid)
		if unpaid.IsNegative() {
			unpaid = decimal.Zero
		}
		return paid, unpaid
	}
}
