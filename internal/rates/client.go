// Package rates fetches, caches and selects foreign-exchange rates from a
// Monobank-compatible public feed.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ISO 4217 numeric currency codes used by the feed and the currencies view.
const (
	CodeUAH = 980
	CodeUSD = 840
	CodeEUR = 978
)

// Snapshot is one currency-pair rate as returned by the feed. Buy, sell and
// cross rates are all optional; absent values decode as zero.
type Snapshot struct {
	CurrencyCodeA int     `json:"currencyCodeA"`
	CurrencyCodeB int     `json:"currencyCodeB"`
	Date          int64   `json:"date"`
	RateBuy       float64 `json:"rateBuy,omitempty"`
	RateSell      float64 `json:"rateSell,omitempty"`
	RateCross     float64 `json:"rateCross,omitempty"`
}

// FetchError reports a failed feed fetch. Status is zero for transport
// failures that never produced a response.
type FetchError struct {
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("rate feed returned status %d", e.Status)
	}
	return fmt.Sprintf("rate feed unreachable: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

const DefaultFeedURL = "https://api.monobank.ua/bank/currency"

// Client fetches the full rate batch with a single unauthenticated GET.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultFeedURL
	}
	return &Client{
		url:  url,
		http: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves the current rate batch. Any non-2xx status is a failure.
func (c *Client) Fetch(ctx context.Context) ([]Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var batch []Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
		return nil, &FetchError{Err: fmt.Errorf("decode rate feed: %w", err)}
	}
	return batch, nil
}
