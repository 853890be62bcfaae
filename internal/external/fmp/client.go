package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/sellside/underwriter/pkg/config"
	"github.com/sellside/underwriter/pkg/httputil"
	"github.com/sellside/underwriter/pkg/logger"
	"github.com/sellside/underwriter/pkg/redis"
)

// Client handles communication with Financial Modeling Prep.
// Profiles, quotes, fundamentals, calendars, and index constituents.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	ratelimit  *redis.RateLimiter
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new FMP client. The cache and rate limiter are
// injected so tests can run without Redis.
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, ratelimit *redis.RateLimiter, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		ratelimit:  ratelimit,
		// Local pacing on top of the shared Redis limit keeps a
		// single sequential run from bursting.
		limiter: rate.NewLimiter(rate.Limit(4), 2),
		logger:  log,
		baseURL: cfg.FMP.BaseURL,
		apiKey:  cfg.FMP.APIKey,
	}
}

// getJSON fetches an FMP endpoint and decodes the response into dest.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if c.ratelimit != nil {
		if err := c.ratelimit.Wait(ctx, redis.FMPRateLimit); err != nil {
			return fmt.Errorf("shared rate limiter wait: %w", err)
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from FMP: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode FMP response: %w", err)
	}

	return nil
}
