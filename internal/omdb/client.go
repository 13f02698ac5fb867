// Package omdb is a client for the OMDb movie database API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Cache stores raw successful responses keyed by request parameters.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
}

// Client handles interactions with the OMDb API.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	cache   Cache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithRateLimit caps outgoing requests at perSecond with a small burst.
// Zero disables limiting.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 3)
	}
}

// WithCache serves repeated lookups from cache.
func WithCache(cache Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// NewClient creates a new API client. Callers bound individual requests
// with their context; the HTTP client timeout is only a backstop.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search looks movies up by free-text title.
func (c *Client) Search(ctx context.Context, query string) ([]MovieSummary, error) {
	var resp searchResponse
	if err := c.get(ctx, url.Values{"s": {query}}, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp.Error)
	}
	return resp.Search, nil
}

// Movie fetches the full record for one IMDb id.
func (c *Client) Movie(ctx context.Context, id string) (*MovieDetail, error) {
	var resp detailResponse
	if err := c.get(ctx, url.Values{"i": {id}, "plot": {"full"}}, &resp); err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, apiError(resp.Error)
	}
	d := resp.MovieDetail
	return &d, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out any) error {
	// The cache key leaves the credential out.
	cacheKey := params.Encode()
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, cacheKey); ok {
			if err := json.Unmarshal(body, out); err == nil {
				slog.Debug("omdb cache hit", "params", cacheKey)
				return nil
			}
		}
	}

	// A request cancelled while waiting for the limiter never goes out.
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("omdb: %w", err)
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("omdb: %w", err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("omdb: bad base url: %w", err)
	}
	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("omdb: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("omdb: read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("omdb: decode: %w", err)
	}

	if c.cache != nil {
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.ok() {
			c.cache.Set(ctx, cacheKey, body)
		}
	}
	return nil
}
