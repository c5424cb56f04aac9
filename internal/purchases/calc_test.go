package purchases

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/stockroom-backend/pkg/db/models"
	"github.com/angelmondragon/stockroom-backend/pkg/enums"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(2, dec("10.00")).Equal(dec("20.00")))
	assert.True(t, LineTotal(3, dec("0.10")).Equal(dec("0.30")))
}

func TestTotals(t *testing.T) {
	totals := Totals([]models.PurchaseProduct{
		{TotalPrice: dec("20.00")},
		{TotalPrice: dec("5.00")},
	})
	assert.True(t, totals.SubTotal.Equal(dec("25.00")))
	assert.True(t, totals.VAT.Equal(dec("3.75")))
	assert.True(t, totals.Total.Equal(dec("28.75")))
}

func TestTotalsRoundsVATToCents(t *testing.T) {
	totals := Totals([]models.PurchaseProduct{{TotalPrice: dec("0.30")}})
	assert.True(t, totals.VAT.Equal(dec("0.04")), totals.VAT.String())
	assert.True(t, totals.Total.Equal(dec("0.34")))

	totals = Totals([]models.PurchaseProduct{{TotalPrice: dec("0.10")}})
	assert.True(t, totals.VAT.Equal(dec("0.02")), totals.VAT.String())
}

func TestTotalsOfNoLinesIsZero(t *testing.T) {
	totals := Totals(nil)
	assert.True(t, totals.SubTotal.IsZero())
	assert.True(t, totals.VAT.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestDerivePayment(t *testing.T) {
	total := dec("28.75")
	cases := []struct {
		name       string
		status     enums.PaymentStatus
		paid       string
		wantPaid   string
		wantUnpaid string
	}{
		{"paid ignores prior amount", enums.PaymentStatusPaid, "3.00", "28.75", "0"},
		{"unpaid clears paid", enums.PaymentStatusUnpaid, "10.00", "0", "28.75"},
		{"pending partial", enums.PaymentStatusPending, "10.00", "10.00", "18.75"},
		{"pending overpaid", enums.PaymentStatusPending, "40.00", "40.00", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			paid, unpaid := DerivePayment(tc.status, total, dec(tc.paid))
			assert.True(t, paid.Equal(dec(tc.wantPaid)), paid.String())
			assert.True(t, unpaid.Equal(dec(tc.wantUnpaid)), unpaid.String())
		})
	}
}
