package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/ledger"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
// It folds each asset's postings through the ledger aggregator and values the
// resulting positions with the cached quotes.
type PortfolioService struct {
	assetRepo       *repository.AssetRepository
	transactionRepo *repository.TransactionRepository
	priceRepo       *repository.PriceRepository
}

// NewPortfolioService creates a new PortfolioService with the provided repository dependencies.
func NewPortfolioService(
	assetRepo *repository.AssetRepository,
	transactionRepo *repository.TransactionRepository,
	priceRepo *repository.PriceRepository,
) *PortfolioService {
	return &PortfolioService{
		assetRepo:       assetRepo,
		transactionRepo: transactionRepo,
		priceRepo:       priceRepo,
	}
}

// GetHoldings returns every asset with its derived position and valuation.
//
// Valuation rules:
//   - cash is worth its balance; price is 1 and it never has a day change
//   - certificates of deposit are valued at book (their cost basis)
//   - quoted assets use the cached quote, or average cost when none is cached yet
//
// Allocation is each holding's share of the total value, in percent.
func (s *PortfolioService) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	assets, err := s.assetRepo.GetAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveAssets, err)
	}
	postings, err := s.transactionRepo.GetTransactionsGroupedByAsset(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}
	prices, err := s.priceRepo.GetPrices(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	holdings := make([]model.Holding, 0, len(assets))
	totalValue := 0.0
	for _, a := range assets {
		var quote *model.PriceQuote
		if q, ok := prices[a.Symbol]; ok && a.Type.IsQuoted() {
			quote = &q
		}
		h := buildHolding(a, postings[a.ID], quote, now)
		totalValue += h.CurrentValue
		holdings = append(holdings, h)
	}

	for i := range holdings {
		holdings[i].Allocation = pct(holdings[i].CurrentValue, totalValue)
	}

	return holdings, nil
}

// GetHolding returns the derived position of one asset. Allocation is left at zero.
func (s *PortfolioService) GetHolding(ctx context.Context, assetID string) (model.Holding, error) {
	asset, err := s.assetRepo.GetAsset(ctx, assetID)
	if err != nil {
		return model.Holding{}, err
	}
	postings, err := s.transactionRepo.GetTransactionsByAsset(ctx, assetID)
	if err != nil {
		return model.Holding{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveTransactions, err)
	}

	var quote *model.PriceQuote
	if asset.Type.IsQuoted() {
		q, err := s.priceRepo.GetPrice(ctx, asset.Symbol)
		switch {
		case err == nil:
			quote = &q
		case !errors.Is(err, apperrors.ErrPriceNotFound):
			return model.Holding{}, err
		}
	}

	return buildHolding(asset, postings, quote, time.Now().UTC()), nil
}

func buildHolding(a model.Asset, postings []model.Transaction, quote *model.PriceQuote, now time.Time) model.Holding {
	summary := ledger.Summarize(ledger.FromTransactions(postings), a.Type.IsCash())
	shares, averageCost, totalCost, income, realized := summary.Float()

	h := model.Holding{
		Asset:            a,
		TotalShares:      shares,
		AverageCost:      round(averageCost),
		TotalCost:        round(totalCost),
		RealizedGain:     round(realized),
		TotalIncome:      round(income),
		TransactionCount: len(postings),
	}

	switch {
	case a.Type.IsCash():
		h.CurrentPrice = 1
		h.PreviousPrice = 1
		h.CurrentValue = round(shares)
		h.TotalCost = h.CurrentValue
		return h
	case a.Type == model.AssetTypeCD:
		h.CurrentPrice = round(averageCost)
		h.PreviousPrice = h.CurrentPrice
		h.CurrentValue = round(totalCost)
		h.Matured = a.MaturityDate != nil && !a.MaturityDate.After(now)
	case quote != nil:
		updated := quote.UpdatedAt
		h.CurrentPrice = quote.Price
		h.PreviousPrice = quote.PreviousClose
		h.CurrentValue = round(shares * quote.Price)
		h.PriceUpdatedAt = &updated
		if quote.PreviousClose > 0 {
			h.DayChange = round(shares * (quote.Price - quote.PreviousClose))
		}
	default:
		h.CurrentPrice = round(averageCost)
		h.PreviousPrice = h.CurrentPrice
		h.CurrentValue = round(totalCost)
	}

	h.UnrealizedGain = round(h.CurrentValue - totalCost)
	return h
}

// GetSummary aggregates the holdings into portfolio totals.
func (s *PortfolioService) GetSummary(ctx context.Context) (model.PortfolioSummary, error) {
	holdings, err := s.GetHoldings(ctx)
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	return Summarize(holdings), nil
}

// Summarize totals a set of holdings.
func Summarize(holdings []model.Holding) model.PortfolioSummary {
	summary := model.PortfolioSummary{Holdings: holdings}

	for _, h := range holdings {
		summary.TotalValue += h.CurrentValue
		summary.DayChange += h.DayChange
		summary.RealizedGain += h.RealizedGain
		summary.TotalIncome += h.TotalIncome

		if h.Type.IsCash() {
			summary.CashBalance += h.CurrentValue
		} else {
			summary.InvestedValue += h.CurrentValue
			summary.TotalCost += h.TotalCost
		}

		if h.PriceUpdatedAt != nil && (summary.LastPriceUpdate == nil || h.PriceUpdatedAt.After(*summary.LastPriceUpdate)) {
			updated := *h.PriceUpdatedAt
			summary.LastPriceUpdate = &updated
		}
	}

	summary.TotalValue = round(summary.TotalValue)
	summary.InvestedValue = round(summary.InvestedValue)
	summary.CashBalance = round(summary.CashBalance)
	summary.TotalCost = round(summary.TotalCost)
	summary.RealizedGain = round(summary.RealizedGain)
	summary.TotalIncome = round(summary.TotalIncome)
	summary.DayChange = round(summary.DayChange)
	summary.UnrealizedGain = round(summary.InvestedValue - summary.TotalCost)
	summary.UnrealizedGainPct = pct(summary.UnrealizedGain, summary.TotalCost)
	summary.DayChangePct = pct(summary.DayChange, summary.TotalValue-summary.DayChange)

	return summary
}
