package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// Trade describes one logical transaction as entered by the user.
// For deposits and withdrawals on a cash asset only Amount is used; for every other
// kind the amount is Quantity × Price.
type Trade struct {
	Kind     model.TransactionKind
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Amount   decimal.Decimal
	Note     string
	PlanID   *string
}

// Journal is a logical transaction and its postings. Primary is the posting on the
// asset the user traded; Counter is the balancing posting on the cash asset, if any.
type Journal struct {
	ID      string
	Date    time.Time
	Note    string
	PlanID  *string
	Primary model.Transaction
	Counter *model.Transaction
}

// CounterKind returns the cash posting kind that balances a trade of kind k.
// Buys are funded by a withdrawal; sells and income are paid out as deposits.
func CounterKind(k model.TransactionKind) (model.TransactionKind, bool) {
	switch k {
	case model.KindBuy:
		return model.KindWithdrawal, true
	case model.KindSell, model.KindDividend, model.KindInterest:
		return model.KindDeposit, true
	}
	return "", false
}

// Allowed reports whether a posting of kind k may be recorded on an asset of type t.
func Allowed(t model.AssetType, k model.TransactionKind) bool {
	if t.IsCash() {
		return k.IsCashKind()
	}
	switch k {
	case model.KindBuy, model.KindSell, model.KindDividend, model.KindInterest:
		return true
	}
	return false
}

// NewJournal builds the postings for trade on asset. When cash is non-nil and the
// trade moves money (buy, sell, dividend, interest) a counter posting on cash is
// produced with the same date, note and amount.
func NewJournal(asset model.Asset, cash *model.Asset, trade Trade) (Journal, error) {
	j := Journal{
		ID: uuid.New().String(),
		Primary: model.Transaction{
			ID:      uuid.New().String(),
			AssetID: asset.ID,
		},
	}
	if cash != nil && !asset.Type.IsCash() {
		if !cash.Type.IsCash() {
			return Journal{}, apperrors.ErrCashAssetNotCash
		}
		j.Counter = &model.Transaction{
			ID:      uuid.New().String(),
			AssetID: cash.ID,
		}
	}
	return j.Repost(asset.Type, trade)
}

// Repost applies trade to the journal keeping the journal and posting ids.
// Both postings are regenerated from the trade, so editing the date, note or amount
// of a logical transaction updates its cash leg in the same step.
func (j Journal) Repost(assetType model.AssetType, trade Trade) (Journal, error) {
	if !Allowed(assetType, trade.Kind) {
		return Journal{}, fmt.Errorf("%w: %s on %s", apperrors.ErrKindNotAllowed, trade.Kind, assetType)
	}

	date := trade.Date.UTC().Truncate(24 * time.Hour)
	j.Date = date
	j.Note = trade.Note
	j.PlanID = trade.PlanID

	primary := j.Primary
	primary.EntryID = j.ID
	primary.Kind = trade.Kind
	primary.Date = date
	primary.Note = trade.Note
	primary.PlanID = trade.PlanID

	var amount decimal.Decimal
	if trade.Kind.IsCashKind() {
		amount = trade.Amount
		primary.Quantity = 0
		primary.PricePerUnit = 0
	} else {
		amount = trade.Quantity.Mul(trade.Price)
		primary.Quantity = trade.Quantity.InexactFloat64()
		primary.PricePerUnit = trade.Price.InexactFloat64()
	}
	primary.Amount = amount.InexactFloat64()
	primary.LinkedID = nil
	j.Primary = primary

	if j.Counter == nil {
		return j, nil
	}

	counterKind, ok := CounterKind(trade.Kind)
	if !ok {
		// the trade no longer moves cash; drop the leg
		j.Counter = nil
		return j, nil
	}

	counter := *j.Counter
	counter.EntryID = j.ID
	counter.Kind = counterKind
	counter.Date = date
	counter.Note = trade.Note
	counter.PlanID = trade.PlanID
	counter.Quantity = 0
	counter.PricePerUnit = 0
	counter.Amount = amount.InexactFloat64()

	primaryID, counterID := j.Primary.ID, counter.ID
	counter.LinkedID = &primaryID
	j.Primary.LinkedID = &counterID
	j.Counter = &counter

	return j, nil
}

// Postings returns the journal's postings, primary first.
func (j Journal) Postings() []model.Transaction {
	if j.Counter == nil {
		return []model.Transaction{j.Primary}
	}
	return []model.Transaction{j.Primary, *j.Counter}
}

// Balanced reports whether the counter posting offsets the primary posting's cash flow.
// A journal without a counter posting is trivially balanced.
func (j Journal) Balanced() bool {
	if j.Counter == nil {
		return true
	}
	want, ok := CounterKind(j.Primary.Kind)
	if !ok || j.Counter.Kind != want {
		return false
	}
	primary := decimal.NewFromFloat(j.Primary.Quantity).Mul(decimal.NewFromFloat(j.Primary.PricePerUnit))
	return primary.Round(6).Equal(decimal.NewFromFloat(j.Counter.Amount).Round(6))
}

// TradeOf reconstructs the trade a journal was built from.
func (j Journal) TradeOf() Trade {
	return Trade{
		Kind:     j.Primary.Kind,
		Date:     j.Date,
		Quantity: decimal.NewFromFloat(j.Primary.Quantity),
		Price:    decimal.NewFromFloat(j.Primary.PricePerUnit),
		Amount:   decimal.NewFromFloat(j.Primary.Amount),
		Note:     j.Note,
		PlanID:   j.PlanID,
	}
}
