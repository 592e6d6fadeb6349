package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// MockQuoteClient is a yahoo.QuoteClient returning canned quotes.
// Unknown symbols fail with ErrSymbolNotFound.
type MockQuoteClient struct {
	mu     sync.Mutex
	quotes map[string]model.PriceQuote
	errs   map[string]error
	calls  int

	// Block, when set, is waited on before every quote is returned.
	Block chan struct{}
}

// NewMockQuoteClient creates an empty MockQuoteClient.
func NewMockQuoteClient() *MockQuoteClient {
	return &MockQuoteClient{
		quotes: make(map[string]model.PriceQuote),
		errs:   make(map[string]error),
	}
}

// WithQuote configures the quote returned for symbol.
func (m *MockQuoteClient) WithQuote(symbol string, price, previousClose float64) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.quotes[symbol] = model.PriceQuote{
		Symbol:        symbol,
		Price:         price,
		PreviousClose: previousClose,
		Currency:      "USD",
		UpdatedAt:     time.Now().UTC(),
	}
	return m
}

// WithError configures symbol to fail with err.
func (m *MockQuoteClient) WithError(symbol string, err error) *MockQuoteClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
	return m
}

// Calls returns how many quotes were requested.
func (m *MockQuoteClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Quote implements yahoo.QuoteClient.
func (m *MockQuoteClient) Quote(ctx context.Context, symbol string) (model.PriceQuote, error) {
	m.mu.Lock()
	m.calls++
	block := m.Block
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return model.PriceQuote{}, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[symbol]; ok {
		return model.PriceQuote{}, err
	}
	q, ok := m.quotes[symbol]
	if !ok {
		return model.PriceQuote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return q, nil
}

// MockNewsClient is a news.Client returning canned headlines per symbol.
type MockNewsClient struct {
	mu    sync.Mutex
	items map[string][]model.NewsItem
	errs  map[string]error
}

// NewMockNewsClient creates an empty MockNewsClient.
func NewMockNewsClient() *MockNewsClient {
	return &MockNewsClient{
		items: make(map[string][]model.NewsItem),
		errs:  make(map[string]error),
	}
}

// WithHeadline adds a headline for symbol published at the given time.
func (m *MockNewsClient) WithHeadline(symbol, title string, published time.Time) *MockNewsClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := published
	m.items[symbol] = append(m.items[symbol], model.NewsItem{
		Title:       title,
		Link:        "https://example.com/" + symbol,
		Source:      "Mock",
		Symbol:      symbol,
		PublishedAt: &p,
	})
	return m
}

// WithError configures symbol to fail with err.
func (m *MockNewsClient) WithError(symbol string, err error) *MockNewsClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[symbol] = err
	return m
}

// Headlines implements news.Client.
func (m *MockNewsClient) Headlines(_ context.Context, symbol string, limit int) ([]model.NewsItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.errs[symbol]; ok {
		return nil, err
	}
	items := append([]model.NewsItem(nil), m.items[symbol]...)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// MockGenerator is an insight.Generator recording the last prompt.
type MockGenerator struct {
	Response string
	Err      error

	LastKey    string
	LastModel  string
	LastPrompt string
}

// Generate implements insight.Generator.
func (g *MockGenerator) Generate(_ context.Context, apiKey, model, prompt string) (string, error) {
	g.LastKey, g.LastModel, g.LastPrompt = apiKey, model, prompt
	if g.Err != nil {
		return "", g.Err
	}
	return g.Response, nil
}
