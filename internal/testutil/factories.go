package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/folio/internal/ledger"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/planning"
	"github.com/ndewijer/folio/internal/repository"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	// Simple creation with defaults (a stock)
//	asset := testutil.NewAsset().Build(t, db)
//
//	// Customized asset
//	cash := testutil.NewAsset().
//	    WithSymbol("USD").
//	    WithType(model.AssetTypeCash).
//	    Build(t, db)
type AssetBuilder struct {
	ID           string
	Symbol       string
	Type         model.AssetType
	Name         string
	MaturityDate *time.Time
	InterestRate *float64
	CreatedAt    time.Time
}

// NewAsset creates an AssetBuilder with sensible defaults.
func NewAsset() *AssetBuilder {
	return &AssetBuilder{
		ID:     MakeID(),
		Symbol: MakeSymbol("TEST"),
		Type:   model.AssetTypeStock,
		Name:   MakeSymbolName("Test Asset"),
	}
}

// WithID sets a custom ID.
func (b *AssetBuilder) WithID(id string) *AssetBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *AssetBuilder) WithSymbol(symbol string) *AssetBuilder {
	b.Symbol = symbol
	return b
}

// WithType sets the asset type.
func (b *AssetBuilder) WithType(t model.AssetType) *AssetBuilder {
	b.Type = t
	return b
}

// WithName sets a custom name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.Name = name
	return b
}

// WithMaturity sets the maturity date and interest rate of a certificate of deposit.
func (b *AssetBuilder) WithMaturity(date time.Time, rate float64) *AssetBuilder {
	b.MaturityDate = &date
	b.InterestRate = &rate
	return b
}

// WithCreatedAt sets the creation time, which decides the default cash asset.
func (b *AssetBuilder) WithCreatedAt(ts time.Time) *AssetBuilder {
	b.CreatedAt = ts
	return b
}

// Cash makes the asset a cash asset.
func (b *AssetBuilder) Cash() *AssetBuilder {
	b.Type = model.AssetTypeCash
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	a := model.Asset{
		ID:           b.ID,
		Symbol:       b.Symbol,
		Type:         b.Type,
		Name:         b.Name,
		MaturityDate: b.MaturityDate,
		InterestRate: b.InterestRate,
		CreatedAt:    b.CreatedAt,
	}
	if err := repository.NewAssetRepository(db).InsertAsset(context.Background(), &a); err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}
	return a
}

// TransactionBuilder provides a fluent interface for recording test journals.
// Without a cash asset only the primary posting is stored.
//
// Example usage:
//
//	j := testutil.NewTransaction(stock).
//	    Buy(10, 150).
//	    OnDate(testutil.Date(2024, 1, 15)).
//	    FundedBy(cash).
//	    Build(t, db)
type TransactionBuilder struct {
	asset model.Asset
	cash  *model.Asset
	trade ledger.Trade
}

// NewTransaction creates a TransactionBuilder for asset. The default is a buy of
// 10 units at 100 today.
func NewTransaction(asset model.Asset) *TransactionBuilder {
	return &TransactionBuilder{
		asset: asset,
		trade: ledger.Trade{
			Kind:     model.KindBuy,
			Date:     time.Now().UTC().Truncate(24 * time.Hour),
			Quantity: decimal.NewFromInt(10),
			Price:    decimal.NewFromInt(100),
		},
	}
}

func (b *TransactionBuilder) position(kind model.TransactionKind, qty, price float64) *TransactionBuilder {
	b.trade.Kind = kind
	b.trade.Quantity = decimal.NewFromFloat(qty)
	b.trade.Price = decimal.NewFromFloat(price)
	return b
}

// Buy sets a buy of qty units at price.
func (b *TransactionBuilder) Buy(qty, price float64) *TransactionBuilder {
	return b.position(model.KindBuy, qty, price)
}

// Sell sets a sell of qty units at price.
func (b *TransactionBuilder) Sell(qty, price float64) *TransactionBuilder {
	return b.position(model.KindSell, qty, price)
}

// Dividend sets a dividend of perUnit on qty units.
func (b *TransactionBuilder) Dividend(qty, perUnit float64) *TransactionBuilder {
	return b.position(model.KindDividend, qty, perUnit)
}

// Deposit sets a cash deposit.
func (b *TransactionBuilder) Deposit(amount float64) *TransactionBuilder {
	b.trade.Kind = model.KindDeposit
	b.trade.Amount = decimal.NewFromFloat(amount)
	return b
}

// Withdrawal sets a cash withdrawal.
func (b *TransactionBuilder) Withdrawal(amount float64) *TransactionBuilder {
	b.trade.Kind = model.KindWithdrawal
	b.trade.Amount = decimal.NewFromFloat(amount)
	return b
}

// OnDate sets the trade date.
func (b *TransactionBuilder) OnDate(date time.Time) *TransactionBuilder {
	b.trade.Date = date
	return b
}

// WithNote sets the note.
func (b *TransactionBuilder) WithNote(note string) *TransactionBuilder {
	b.trade.Note = note
	return b
}

// ForPlan links the trade to a plan.
func (b *TransactionBuilder) ForPlan(planID string) *TransactionBuilder {
	b.trade.PlanID = &planID
	return b
}

// FundedBy adds a counter posting on the cash asset.
func (b *TransactionBuilder) FundedBy(cash model.Asset) *TransactionBuilder {
	b.cash = &cash
	return b
}

// Build stores the journal and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) ledger.Journal {
	t.Helper()

	j, err := ledger.NewJournal(b.asset, b.cash, b.trade)
	if err != nil {
		t.Fatalf("Failed to build test journal: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	if err := repository.NewTransactionRepository(db).WithTx(tx).InsertJournal(context.Background(), j); err != nil {
		_ = tx.Rollback()
		t.Fatalf("Failed to create test journal: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit test journal: %v", err)
	}
	return j
}

// PlanBuilder provides a fluent interface for creating test investment plans.
//
// Example usage:
//
//	plan := testutil.NewPlan(asset.ID).
//	    WithAmount(1200, 12).
//	    WithCadence(model.CadenceMonthly).
//	    Build(t, db)
type PlanBuilder struct {
	plan model.Plan
}

// NewPlan creates a PlanBuilder: 1000 over 10 weekly purchases starting today.
func NewPlan(assetID string) *PlanBuilder {
	return &PlanBuilder{plan: model.Plan{
		ID:                MakeID(),
		AssetID:           assetID,
		TotalAmount:       1000,
		NumberOfPurchases: 10,
		AmountPerPurchase: 100,
		Cadence:           model.CadenceWeekly,
		StartDate:         time.Now().UTC().Truncate(24 * time.Hour),
		Status:            model.PlanActive,
	}}
}

// WithAmount sets the total and count; amount per purchase is derived.
func (b *PlanBuilder) WithAmount(total float64, count int) *PlanBuilder {
	b.plan.TotalAmount = total
	b.plan.NumberOfPurchases = count
	b.plan.AmountPerPurchase = planning.AmountPerPurchase(total, count)
	return b
}

// WithCadence sets the cadence.
func (b *PlanBuilder) WithCadence(c model.Cadence) *PlanBuilder {
	b.plan.Cadence = c
	return b
}

// WithCustomDays sets a custom cadence of days.
func (b *PlanBuilder) WithCustomDays(days int) *PlanBuilder {
	b.plan.Cadence = model.CadenceCustom
	b.plan.CustomDays = days
	return b
}

// StartingOn sets the start date.
func (b *PlanBuilder) StartingOn(date time.Time) *PlanBuilder {
	b.plan.StartDate = date
	return b
}

// WithCompleted sets the completed purchase counter.
func (b *PlanBuilder) WithCompleted(n int) *PlanBuilder {
	b.plan.CompletedPurchases = n
	return b
}

// WithStatus sets the status.
func (b *PlanBuilder) WithStatus(s model.PlanStatus) *PlanBuilder {
	b.plan.Status = s
	return b
}

// Build creates the plan in the database and returns it.
func (b *PlanBuilder) Build(t *testing.T, db *sql.DB) model.Plan {
	t.Helper()

	p := b.plan
	if err := repository.NewPlanRepository(db).InsertPlan(context.Background(), &p); err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}
	return p
}

// CreatePrice stores a cached quote.
//
// Example usage:
//
//	testutil.CreatePrice(t, db, "AAPL", 150, 145)
func CreatePrice(t *testing.T, db *sql.DB, symbol string, price, previousClose float64) model.PriceQuote {
	t.Helper()

	q := model.PriceQuote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		Currency:      "USD",
		UpdatedAt:     time.Now().UTC(),
	}
	if err := repository.NewPriceRepository(db).UpsertPrice(context.Background(), q); err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
	return q
}

// CreateCashAsset creates a cash asset with the given symbol.
func CreateCashAsset(t *testing.T, db *sql.DB, symbol string) model.Asset {
	t.Helper()
	return NewAsset().WithSymbol(symbol).WithName(symbol + " cash").Cash().Build(t, db)
}

// CreateStock creates a stock asset with the given symbol.
func CreateStock(t *testing.T, db *sql.DB, symbol string) model.Asset {
	t.Helper()
	return NewAsset().WithSymbol(symbol).Build(t, db)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
