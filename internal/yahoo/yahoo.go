// Package yahoo fetches latest quotes from the Yahoo Finance chart endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"github.com/ndewijer/folio/internal/apperrors"
	"github.com/ndewijer/folio/internal/model"
)

// DefaultBaseURL is the chart endpoint; the symbol is appended to it.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// QuoteClient fetches the latest quote for a symbol.
type QuoteClient interface {
	Quote(ctx context.Context, symbol string) (model.PriceQuote, error)
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a Yahoo Finance client. An empty baseURL uses DefaultBaseURL.
func NewFinanceClient(baseURL string, timeout time.Duration) *FinanceClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &FinanceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

// Quote fetches the regular market price and previous close for symbol.
// The JSON document is walked with jsonpath; only the meta block is read.
func (c *FinanceClient) Quote(ctx context.Context, symbol string) (model.PriceQuote, error) {
	addr := fmt.Sprintf("%s%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))

	doc, err := c.queryYahoo(ctx, addr)
	if err != nil {
		return model.PriceQuote{}, fmt.Errorf("%s: %w", symbol, err)
	}

	if desc, err := getString(doc, "$.chart.error.description"); err == nil && desc != "" {
		if strings.Contains(strings.ToLower(desc), "no data found") {
			return model.PriceQuote{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
		}
		return model.PriceQuote{}, fmt.Errorf("yahoo error for %s: %s", symbol, desc)
	}

	price, err := getFloat(doc, "$.chart.result[0].meta.regularMarketPrice")
	if err != nil {
		return model.PriceQuote{}, fmt.Errorf("%w: %s: %v", apperrors.ErrSymbolNotFound, symbol, err)
	}

	quote := model.PriceQuote{
		Symbol:    symbol,
		Price:     price,
		UpdatedAt: time.Now().UTC(),
	}

	if prev, err := getFloat(doc, "$.chart.result[0].meta.chartPreviousClose"); err == nil {
		quote.PreviousClose = prev
	} else if prev, err := getFloat(doc, "$.chart.result[0].meta.previousClose"); err == nil {
		quote.PreviousClose = prev
	}
	if cur, err := getString(doc, "$.chart.result[0].meta.currency"); err == nil {
		quote.Currency = cur
	}
	if ts, err := getFloat(doc, "$.chart.result[0].meta.regularMarketTime"); err == nil && ts > 0 {
		quote.UpdatedAt = time.Unix(int64(ts), 0).UTC()
	}

	return quote, nil
}

// queryYahoo executes the request and decodes the body into a generic JSON value.
// Yahoo blocks requests without a browser User-Agent.
func (c *FinanceClient) queryYahoo(ctx context.Context, addr string) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("invalid response: %w", err)
	}

	return doc, nil
}

// first unwraps single-element result lists; jsonpath returns either form depending on the path.
func first(v any) any {
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return v
}

func getFloat(doc any, path string) (float64, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return 0, err
	}
	f, ok := first(v).(float64)
	if !ok {
		return 0, fmt.Errorf("%s is not a number", path)
	}
	return f, nil
}

func getString(doc any, path string) (string, error) {
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return "", err
	}
	s, ok := first(v).(string)
	if !ok {
		return "", fmt.Errorf("%s is not a string", path)
	}
	return s, nil
}
