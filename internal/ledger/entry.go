// Package ledger turns an asset's postings into a position and builds the
// balanced postings for a logical transaction.
//
// Postings come in two shapes. A PositionEntry moves units of a tradable asset at a
// unit price; a CashEntry moves currency on a cash asset and has a single amount.
// Keeping them distinct means a cash balance is never expressed as "shares at $1".
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/model"
)

// Entry is one posting fed to Summarize. It is implemented by PositionEntry and CashEntry.
type Entry interface {
	when() time.Time
	kind() model.TransactionKind
	units() decimal.Decimal
	amount() decimal.Decimal
}

// PositionEntry is a buy, sell, dividend or interest posting on a tradable asset.
type PositionEntry struct {
	Kind     model.TransactionKind
	Date     time.Time
	Quantity decimal.Decimal
	Price    decimal.Decimal
}

func (e PositionEntry) when() time.Time             { return e.Date }
func (e PositionEntry) kind() model.TransactionKind { return e.Kind }
func (e PositionEntry) units() decimal.Decimal      { return e.Quantity }
func (e PositionEntry) amount() decimal.Decimal     { return e.Quantity.Mul(e.Price) }

// CashEntry is a deposit or withdrawal on a cash asset.
type CashEntry struct {
	Kind   model.TransactionKind
	Date   time.Time
	Amount decimal.Decimal
}

func (e CashEntry) when() time.Time             { return e.Date }
func (e CashEntry) kind() model.TransactionKind { return e.Kind }
func (e CashEntry) units() decimal.Decimal      { return e.Amount }
func (e CashEntry) amount() decimal.Decimal     { return e.Amount }

// FromTransaction converts a stored posting into its entry shape.
func FromTransaction(t model.Transaction) Entry {
	if t.Kind.IsCashKind() {
		return CashEntry{Kind: t.Kind, Date: t.Date, Amount: decimal.NewFromFloat(t.Amount)}
	}
	return PositionEntry{
		Kind:     t.Kind,
		Date:     t.Date,
		Quantity: decimal.NewFromFloat(t.Quantity),
		Price:    decimal.NewFromFloat(t.PricePerUnit),
	}
}

// FromTransactions converts postings preserving their order.
func FromTransactions(txs []model.Transaction) []Entry {
	entries := make([]Entry, len(txs))
	for i, t := range txs {
		entries[i] = FromTransaction(t)
	}
	return entries
}
