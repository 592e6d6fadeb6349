package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/folio/internal/model"
	"github.com/ndewijer/folio/internal/news"
	"github.com/ndewijer/folio/internal/repository"
)

// NewsService collects headlines for the symbols held in the portfolio.
type NewsService struct {
	assetRepo      *repository.AssetRepository
	newsClient     news.Client
	maxConcurrency int
}

// NewNewsService creates a new NewsService.
func NewNewsService(assetRepo *repository.AssetRepository, newsClient news.Client, maxConcurrency int) *NewsService {
	return &NewsService{
		assetRepo:      assetRepo,
		newsClient:     newsClient,
		maxConcurrency: max(maxConcurrency, 1),
	}
}

// GetNews fetches up to perSymbol headlines for each quoted symbol, or for symbol
// alone when it is non-empty, and merges them newest first. A feed that fails is
// reported in the Errors map and does not fail the call.
func (s *NewsService) GetNews(ctx context.Context, symbol string, perSymbol int) (model.NewsFeed, error) {
	symbols := []string{symbol}
	if symbol == "" {
		var err error
		if symbols, err = s.heldSymbols(ctx); err != nil {
			return model.NewsFeed{}, err
		}
	}

	feed := model.NewsFeed{Items: []model.NewsItem{}, Errors: map[string]string{}}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)
	for _, sym := range symbols {
		g.Go(func() error {
			items, err := s.newsClient.Headlines(gctx, sym, perSymbol)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				feed.Errors[sym] = fmt.Sprintf("Could not load news for %s", sym)
				return nil
			}
			feed.Items = append(feed.Items, items...)
			return nil
		})
	}
	_ = g.Wait()

	news.SortNewestFirst(feed.Items)
	if len(feed.Errors) == 0 {
		feed.Errors = nil
	}
	return feed, nil
}

func (s *NewsService) heldSymbols(ctx context.Context) ([]string, error) {
	assets, err := s.assetRepo.GetAssets(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var symbols []string
	for _, a := range assets {
		if a.Type.IsQuoted() && !seen[a.Symbol] {
			seen[a.Symbol] = true
			symbols = append(symbols, a.Symbol)
		}
	}
	sort.Strings(symbols)
	return symbols, nil
}
