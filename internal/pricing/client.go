// Package pricing implements the external historical-price collaborator: an
// HTTP lookup keyed by (ticker, date) with a TTL cache in front, used only
// to pre-fill price fields. It never participates in ledger arithmetic.
package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/portfolio-ledger/internal/config"
	"github.com/portfolio-ledger/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

// Client fetches historical quotes from the configured price API. The same
// (ticker, date) is typically requested repeatedly while a user fills a
// form, so fetched quotes are cached for the configured TTL. Constructed
// once at startup and shared.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *gocache.Cache
	logger  *slog.Logger
}

var _ pricing.QuoteSource = (*Client)(nil)

// NewClient creates a price API client with its quote cache
func NewClient(logger *slog.Logger, cfg *config.PricingConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		cache:   gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		logger:  logger,
	}
}

// quoteResponse is the price API's response body
type quoteResponse struct {
	Ticker string `json:"ticker"`
	Date   string `json:"date"`
	Price  string `json:"price"`
}

// Quote returns the closing price of externalTicker on date
func (c *Client) Quote(ctx context.Context, externalTicker string, date time.Time) (decimal.Decimal, error) {
	day := date.Format("2006-01-02")
	key := externalTicker + "@" + day

	if cached, found := c.cache.Get(key); found {
		return cached.(decimal.Decimal), nil
	}

	reqURL := fmt.Sprintf("%s/api/v1/prices/%s?date=%s", c.baseURL, url.PathEscape(externalTicker), day)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to build price request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch price for %s: %w", externalTicker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, ErrQuoteUnavailable{Ticker: externalTicker, Date: date}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("price API returned status %d: %s", resp.StatusCode, string(body))
	}

	var qr quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price response: %w", err)
	}

	price, err := decimal.NewFromString(qr.Price)
	if err != nil {
		return decimal.Zero, fmt.Errorf("price API returned malformed price %q: %w", qr.Price, err)
	}

	c.cache.Set(key, price, gocache.DefaultExpiration)
	c.logger.Debug("Fetched price", "ticker", externalTicker, "date", day, "price", price.String())

	return price, nil
}

// ErrQuoteUnavailable indicates the price API has no quote for the pair
type ErrQuoteUnavailable struct {
	Ticker string
	Date   time.Time
}

func (e ErrQuoteUnavailable) Error() string {
	return "no quote available for " + e.Ticker + " on " + e.Date.Format("2006-01-02")
}

// Is implements the errors.Is interface for ErrQuoteUnavailable
func (e ErrQuoteUnavailable) Is(target error) bool {
	_, ok := target.(ErrQuoteUnavailable)
	return ok
}
