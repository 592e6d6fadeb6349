package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/logging"
	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/repository"
	"github.com/ndewijer/folio/internal/yahoo"
)

// PriceService refreshes the quote cache.
type PriceService struct {
	assetRepo      *repository.AssetRepository
	priceRepo      *repository.PriceRepository
	settingRepo    *repository.SettingRepository
	quoteClient    yahoo.QuoteClient
	maxConcurrency int

	inFlight atomic.Bool
}

// NewPriceService creates a new PriceService. maxConcurrency bounds the number of
// quotes fetched at once; values below 1 mean 1.
func NewPriceService(
	assetRepo *repository.AssetRepository,
	priceRepo *repository.PriceRepository,
	settingRepo *repository.SettingRepository,
	quoteClient yahoo.QuoteClient,
	maxConcurrency int,
) *PriceService {
	return &PriceService{
		assetRepo:      assetRepo,
		priceRepo:      priceRepo,
		settingRepo:    settingRepo,
		quoteClient:    quoteClient,
		maxConcurrency: max(maxConcurrency, 1),
	}
}

// Refreshing reports whether a refresh is running.
func (s *PriceService) Refreshing() bool {
	return s.inFlight.Load()
}

// Refresh fetches a quote for every quoted symbol and stores it in the cache.
//
// Only one refresh runs at a time; a call made while another is in flight returns
// ErrRefreshInProgress immediately. A failed symbol does not stop the others: its
// error is reported in the result and its previous cached quote is kept.
func (s *PriceService) Refresh(ctx context.Context) (model.RefreshResult, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return model.RefreshResult{}, apperrors.ErrRefreshInProgress
	}
	defer s.inFlight.Store(false)

	result := model.RefreshResult{
		Updated:   []model.PriceQuote{},
		Errors:    map[string]string{},
		StartedAt: time.Now().UTC(),
	}

	symbols, err := s.quotedSymbols(ctx)
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshPrices, err)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.quoteClient.Quote(gctx, symbol)
			if err == nil {
				quote.Symbol = symbol
				if quote.UpdatedAt.IsZero() {
					quote.UpdatedAt = time.Now().UTC()
				}
				err = s.priceRepo.UpsertPrice(gctx, quote)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[symbol] = quoteErrorMessage(symbol, err)
				return nil
			}
			result.Updated = append(result.Updated, quote)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(result.Updated, func(i, j int) bool {
		return result.Updated[i].Symbol < result.Updated[j].Symbol
	})
	result.CompletedAt = time.Now().UTC()

	if len(result.Updated) > 0 {
		if err := s.settingRepo.SetSetting(ctx, repository.SettingLastRefresh, result.CompletedAt.Format(time.RFC3339)); err != nil {
			logging.Get().Warnw("failed to record refresh time", "error", err)
		}
	}

	logging.Get().Infow("price refresh finished",
		"symbols", len(symbols),
		"updated", len(result.Updated),
		"failed", len(result.Errors),
		"duration", result.CompletedAt.Sub(result.StartedAt),
	)

	return result, nil
}

// quotedSymbols returns the distinct symbols of assets that have a market quote.
func (s *PriceService) quotedSymbols(ctx context.Context) ([]string, error) {
	assets, err := s.assetRepo.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var symbols []string
	for _, a := range assets {
		if !a.Type.IsQuoted() || seen[a.Symbol] {
			continue
		}
		seen[a.Symbol] = true
		symbols = append(symbols, a.Symbol)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// GetPrices returns the cached quotes keyed by symbol.
func (s *PriceService) GetPrices(ctx context.Context) (map[string]model.PriceQuote, error) {
	return s.priceRepo.GetPrices(ctx)
}

// LastRefresh returns when the cache was last refreshed, or nil if never.
func (s *PriceService) LastRefresh(ctx context.Context) (*time.Time, error) {
	settings, err := s.settingRepo.GetSettings(ctx)
	if err != nil {
		return nil, err
	}
	v := settings[repository.SettingLastRefresh]
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, nil
	}
	return &t, nil
}

func quoteErrorMessage(symbol string, err error) string {
	switch {
	case errors.Is(err, apperrors.ErrSymbolNotFound):
		return fmt.Sprintf("No quote found for %s", symbol)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Sprintf("Timed out fetching %s", symbol)
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("Refresh cancelled before %s was fetched", symbol)
	}
	return err.Error()
}
