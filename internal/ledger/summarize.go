package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/model"
)

// Summary is the position derived from an asset's postings.
type Summary struct {
	Shares        decimal.Decimal // units held, never negative
	AverageCost   decimal.Decimal // per unit; always 1 for cash
	TotalCost     decimal.Decimal // cost basis of the units held
	TotalIncome   decimal.Decimal // dividends and interest
	RealizedGains decimal.Decimal // proceeds minus relieved cost on sells
}

// Float returns the summary values as float64 in field order.
func (s Summary) Float() (shares, averageCost, totalCost, income, realized float64) {
	return s.Shares.InexactFloat64(),
		s.AverageCost.InexactFloat64(),
		s.TotalCost.InexactFloat64(),
		s.TotalIncome.InexactFloat64(),
		s.RealizedGains.InexactFloat64()
}

// Summarize folds the postings of a single asset into a position using the
// average-cost method.
//
// Entries are processed in ascending date order. The sort is stable, so postings
// sharing a date keep the order they were given in. Sells relieve cost basis in
// proportion to the units removed. Deposits and withdrawals only count on cash
// assets; on any other asset they are ignored.
//
// Malformed input is not rejected: negative quantities flow through the
// arithmetic, and the resulting unit count is floored at zero.
func Summarize(entries []Entry, isCash bool) Summary {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].when().Before(sorted[j].when())
	})

	var shares, totalCost, income, realized decimal.Decimal

	for _, e := range sorted {
		amount := e.amount()
		units := e.units()

		switch e.kind() {
		case model.KindBuy:
			totalCost = totalCost.Add(amount)
			shares = shares.Add(units)
		case model.KindSell:
			costBasis := decimal.Zero
			if shares.IsPositive() {
				if units.Equal(shares) {
					costBasis = totalCost
				} else {
					costBasis = totalCost.Div(shares).Mul(units)
				}
			}
			realized = realized.Add(amount.Sub(costBasis))
			totalCost = totalCost.Sub(costBasis)
			shares = shares.Sub(units)
		case model.KindDividend, model.KindInterest:
			income = income.Add(amount)
		case model.KindDeposit:
			if isCash {
				shares = shares.Add(amount)
				totalCost = totalCost.Add(amount)
			}
		case model.KindWithdrawal:
			if isCash {
				shares = shares.Sub(amount)
				totalCost = totalCost.Sub(amount)
			}
		}
	}

	averageCost := decimal.Zero
	switch {
	case isCash:
		averageCost = decimal.NewFromInt(1)
	case shares.IsPositive():
		averageCost = totalCost.Div(shares)
	}

	if shares.IsNegative() {
		shares = decimal.Zero
	}

	return Summary{
		Shares:        shares,
		AverageCost:   averageCost,
		TotalCost:     totalCost,
		TotalIncome:   income,
		RealizedGains: realized,
	}
}
