// Package news reads per-symbol headlines from an RSS feed.
package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/ndewijer/folio/internal/model"
)

// DefaultFeedURL is the Yahoo Finance headline feed; %s is the symbol.
const DefaultFeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"

// Client fetches headlines for a symbol.
type Client interface {
	Headlines(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error)
}

// FeedClient fetches headlines from an RSS or Atom feed addressed by a URL template.
type FeedClient struct {
	parser   *gofeed.Parser
	template string
}

// NewFeedClient creates a FeedClient. template must contain one %s for the symbol;
// an empty template uses DefaultFeedURL.
func NewFeedClient(template string, timeout time.Duration) *FeedClient {
	if template == "" {
		template = DefaultFeedURL
	}
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = "folio/1.0"
	return &FeedClient{parser: parser, template: template}
}

// Headlines returns up to limit items for symbol, newest first. limit <= 0 returns all.
func (c *FeedClient) Headlines(ctx context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	addr := c.template
	if strings.Contains(addr, "%s") {
		addr = fmt.Sprintf(addr, url.QueryEscape(symbol))
	}

	feed, err := c.parser.ParseURLWithContext(addr, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read news feed for %s: %w", symbol, err)
	}

	items := make([]model.NewsItem, 0, len(feed.Items))
	for _, it := range feed.Items {
		if it == nil || strings.TrimSpace(it.Title) == "" {
			continue
		}
		item := model.NewsItem{
			Title:  strings.TrimSpace(it.Title),
			Link:   it.Link,
			Source: feed.Title,
			Symbol: symbol,
		}
		switch {
		case it.PublishedParsed != nil:
			published := it.PublishedParsed.UTC()
			item.PublishedAt = &published
		case it.UpdatedParsed != nil:
			updated := it.UpdatedParsed.UTC()
			item.PublishedAt = &updated
		}
		items = append(items, item)
	}

	SortNewestFirst(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// SortNewestFirst orders items by publication time, undated items last.
func SortNewestFirst(items []model.NewsItem) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i].PublishedAt, items[j].PublishedAt
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.After(*b)
	})
}
