package model

import "time"

// TransactionKind is the kind of a ledger posting.
type TransactionKind string

const (
	KindBuy        TransactionKind = "buy"
	KindSell       TransactionKind = "sell"
	KindDividend   TransactionKind = "dividend"
	KindInterest   TransactionKind = "interest"
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// IsCashKind reports whether the kind moves currency on a cash asset rather than units.
func (k TransactionKind) IsCashKind() bool {
	return k == KindDeposit || k == KindWithdrawal
}

// IsIncome reports whether the kind is dividend or interest income.
func (k TransactionKind) IsIncome() bool {
	return k == KindDividend || k == KindInterest
}

// Transaction is a single posting against one asset.
// Postings produced by the same logical operation share an EntryID; LinkedID is the
// id of the sibling posting when there is one.
//
// Position postings carry Quantity and PricePerUnit; cash postings carry Amount only.
type Transaction struct {
	ID           string          `json:"id"`
	AssetID      string          `json:"assetId"`
	EntryID      string          `json:"entryId"`
	Kind         TransactionKind `json:"kind"`
	Date         time.Time       `json:"date"`
	Quantity     float64         `json:"quantity"`
	PricePerUnit float64         `json:"pricePerUnit"`
	Amount       float64         `json:"amount"`
	Note         string          `json:"note,omitempty"`
	PlanID       *string         `json:"planId,omitempty"`
	LinkedID     *string         `json:"linkedId,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// TotalAmount returns quantity × price for position postings and the amount for cash postings.
func (t Transaction) TotalAmount() float64 {
	if t.Kind.IsCashKind() {
		return t.Amount
	}
	return t.Quantity * t.PricePerUnit
}

// TransactionResponse is a transaction enriched with the owning asset for API responses.
type TransactionResponse struct {
	Transaction
	Symbol      string    `json:"symbol"`
	AssetName   string    `json:"assetName"`
	AssetType   AssetType `json:"assetType"`
	TotalAmount float64   `json:"totalAmount"`
}

// Valid reports whether k is a known kind.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindBuy, KindSell, KindDividend, KindInterest, KindDeposit, KindWithdrawal:
		return true
	}
	return false
}

// TransactionFilter narrows a transaction listing. Zero values match everything.
type TransactionFilter struct {
	AssetID string
	Kinds   []TransactionKind
	From    *time.Time
	To      *time.Time
}

// JournalResponse is a logical transaction and its postings, primary first.
type JournalResponse struct {
	ID       string        `json:"id"`
	Date     time.Time     `json:"date"`
	Note     string        `json:"note,omitempty"`
	PlanID   *string       `json:"planId,omitempty"`
	Postings []Transaction `json:"postings"`
}
