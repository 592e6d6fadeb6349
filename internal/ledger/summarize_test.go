package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/model"
)

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func buy(d int, qty, price float64) Entry {
	return PositionEntry{Kind: model.KindBuy, Date: day(d), Quantity: dec(qty), Price: dec(price)}
}

func sell(d int, qty, price float64) Entry {
	return PositionEntry{Kind: model.KindSell, Date: day(d), Quantity: dec(qty), Price: dec(price)}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want float64) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("Expected %s %v, got %v", name, want, got)
	}
}

func TestSummarize(t *testing.T) {
	t.Run("buys only accumulate shares and blended cost", func(t *testing.T) {
		s := Summarize([]Entry{buy(1, 10, 100), buy(2, 5, 130), buy(3, 5, 90)}, false)

		assertDecimal(t, "shares", s.Shares, 20)
		assertDecimal(t, "total cost", s.TotalCost, 2100)
		assertDecimal(t, "average cost", s.AverageCost, 105)
		assertDecimal(t, "realized", s.RealizedGains, 0)
	})

	t.Run("partial sell realizes gain at average cost", func(t *testing.T) {
		s := Summarize([]Entry{buy(1, 10, 100), buy(2, 10, 120), sell(3, 5, 150)}, false)

		assertDecimal(t, "shares", s.Shares, 15)
		assertDecimal(t, "total cost", s.TotalCost, 1650)
		assertDecimal(t, "average cost", s.AverageCost, 110)
		assertDecimal(t, "realized", s.RealizedGains, 200)
	})

	t.Run("entries are sorted by date before folding", func(t *testing.T) {
		s := Summarize([]Entry{sell(3, 5, 150), buy(2, 10, 120), buy(1, 10, 100)}, false)

		assertDecimal(t, "realized", s.RealizedGains, 200)
		assertDecimal(t, "shares", s.Shares, 15)
	})

	t.Run("selling every share clears the cost basis", func(t *testing.T) {
		s := Summarize([]Entry{buy(1, 3, 33.33), buy(2, 7, 41.17), sell(3, 10, 50)}, false)

		if !s.TotalCost.IsZero() {
			t.Errorf("Expected zero cost after full sale, got %v", s.TotalCost)
		}
		if !s.Shares.IsZero() {
			t.Errorf("Expected zero shares, got %v", s.Shares)
		}
		if !s.AverageCost.IsZero() {
			t.Errorf("Expected zero average cost, got %v", s.AverageCost)
		}
	})

	t.Run("overselling clamps shares at zero", func(t *testing.T) {
		s := Summarize([]Entry{buy(1, 2, 10), sell(2, 5, 10)}, false)

		if s.Shares.IsNegative() {
			t.Errorf("Expected non-negative shares, got %v", s.Shares)
		}
		assertDecimal(t, "shares", s.Shares, 0)
		assertDecimal(t, "average cost", s.AverageCost, 0)
	})

	t.Run("selling with no holdings relieves no cost", func(t *testing.T) {
		s := Summarize([]Entry{sell(1, 5, 20)}, false)

		assertDecimal(t, "realized", s.RealizedGains, 100)
		assertDecimal(t, "total cost", s.TotalCost, 0)
		assertDecimal(t, "shares", s.Shares, 0)
	})

	t.Run("income does not change the position", func(t *testing.T) {
		s := Summarize([]Entry{
			buy(1, 10, 50),
			PositionEntry{Kind: model.KindDividend, Date: day(2), Quantity: dec(10), Price: dec(0.5)},
			PositionEntry{Kind: model.KindInterest, Date: day(3), Quantity: dec(1), Price: dec(12)},
		}, false)

		assertDecimal(t, "income", s.TotalIncome, 17)
		assertDecimal(t, "shares", s.Shares, 10)
		assertDecimal(t, "total cost", s.TotalCost, 500)
	})

	t.Run("cash deposits and withdrawals move the balance", func(t *testing.T) {
		s := Summarize([]Entry{
			CashEntry{Kind: model.KindDeposit, Date: day(1), Amount: dec(5000)},
			CashEntry{Kind: model.KindWithdrawal, Date: day(2), Amount: dec(2000)},
		}, true)

		assertDecimal(t, "balance", s.Shares, 3000)
		assertDecimal(t, "total cost", s.TotalCost, 3000)
		assertDecimal(t, "average cost", s.AverageCost, 1)
	})

	t.Run("cash average cost is always one", func(t *testing.T) {
		cases := [][]Entry{
			nil,
			{CashEntry{Kind: model.KindWithdrawal, Date: day(1), Amount: dec(10)}},
			{CashEntry{Kind: model.KindDeposit, Date: day(1), Amount: dec(0.01)}},
			{buy(1, 3, 7)},
		}
		for i, entries := range cases {
			s := Summarize(entries, true)
			if !s.AverageCost.Equal(decimal.NewFromInt(1)) {
				t.Errorf("case %d: expected average cost 1, got %v", i, s.AverageCost)
			}
		}
	})

	t.Run("cash movements are ignored on a non-cash asset", func(t *testing.T) {
		s := Summarize([]Entry{
			buy(1, 1, 100),
			CashEntry{Kind: model.KindDeposit, Date: day(2), Amount: dec(500)},
		}, false)

		assertDecimal(t, "shares", s.Shares, 1)
		assertDecimal(t, "total cost", s.TotalCost, 100)
	})

	t.Run("empty input yields an empty position", func(t *testing.T) {
		s := Summarize(nil, false)
		if !s.Shares.IsZero() || !s.TotalCost.IsZero() || !s.AverageCost.IsZero() {
			t.Errorf("Expected zero summary, got %+v", s)
		}
	})

	t.Run("input slice is not reordered", func(t *testing.T) {
		entries := []Entry{buy(2, 1, 1), buy(1, 1, 1)}
		Summarize(entries, false)
		if !entries[0].when().Equal(day(2)) {
			t.Error("Expected caller slice to keep its order")
		}
	})
}

func TestSummarizeBuysOnlyProperty(t *testing.T) {
	lots := [][2]float64{{1, 10}, {2.5, 11.2}, {0.75, 9.8}, {10, 12.34}, {3, 100}}
	var entries []Entry
	sumQty, sumAmount := decimal.Zero, decimal.Zero
	for i, lot := range lots {
		entries = append(entries, buy(i+1, lot[0], lot[1]))
		sumQty = sumQty.Add(dec(lot[0]))
		sumAmount = sumAmount.Add(dec(lot[0]).Mul(dec(lot[1])))

		s := Summarize(entries, false)
		if !s.Shares.Equal(sumQty) {
			t.Fatalf("after %d buys: expected shares %v, got %v", i+1, sumQty, s.Shares)
		}
		if !s.AverageCost.Equal(sumAmount.Div(sumQty)) {
			t.Fatalf("after %d buys: expected average %v, got %v", i+1, sumAmount.Div(sumQty), s.AverageCost)
		}
	}
}

func TestFromTransaction(t *testing.T) {
	t.Run("cash kinds become cash entries", func(t *testing.T) {
		e := FromTransaction(model.Transaction{Kind: model.KindDeposit, Amount: 250})
		ce, ok := e.(CashEntry)
		if !ok {
			t.Fatalf("Expected CashEntry, got %T", e)
		}
		assertDecimal(t, "amount", ce.Amount, 250)
	})

	t.Run("trades become position entries", func(t *testing.T) {
		e := FromTransaction(model.Transaction{Kind: model.KindBuy, Quantity: 4, PricePerUnit: 25})
		pe, ok := e.(PositionEntry)
		if !ok {
			t.Fatalf("Expected PositionEntry, got %T", e)
		}
		assertDecimal(t, "amount", pe.amount(), 100)
	})
}
