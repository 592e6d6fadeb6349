// Package render formats values for people: currency strings for the widget
// snapshot and terminal output.
package render

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when no currency is known for a value.
const DefaultCurrency = money.USD

// Money formats amount in currency, e.g. "$1,234.56". Unknown currency codes fall
// back to the amount with two decimals followed by the code.
func Money(amount float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, currency)
	}

	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := decimal.NewFromFloat(amount).Mul(factor).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// SignedMoney is Money with an explicit "+" for positive amounts.
func SignedMoney(amount float64, currency string) string {
	s := Money(amount, currency)
	if amount > 0 {
		return "+" + s
	}
	return s
}

// Percent formats a percentage with two decimals and a sign.
func Percent(p float64) string {
	return fmt.Sprintf("%+.2f%%", p)
}
