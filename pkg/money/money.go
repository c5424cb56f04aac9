// Package money renders currency amounts for API payloads.
package money

import (
	"github.com/shopspring/decimal"
)

// Places is the number of fraction digits every amount is rendered with.
const Places = 2

// Amount is a decimal that marshals as a fixed two-place JSON string ("15.00").
// Decoding accepts anything decimal.Decimal does.
type Amount struct {
	decimal.Decimal
}

func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// Ptr converts an optional decimal; nil stays nil.
func Ptr(d *decimal.Decimal) *Amount {
	if d == nil {
		return nil
	}
	a := New(*d)
	return &a
}

func (a Amount) String() string {
	return a.StringFixed(Places)
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.StringFixed(Places) + `"`), nil
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.StringFixed(Places)), nil
}
