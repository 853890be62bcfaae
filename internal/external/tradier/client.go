package tradier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sellside/underwriter/pkg/config"
	"github.com/sellside/underwriter/pkg/httputil"
	"github.com/sellside/underwriter/pkg/logger"
	"github.com/sellside/underwriter/pkg/redis"
)

// Client handles communication with the Tradier market data API, which
// serves option chains with greeks. The circuit breaker opens after
// repeated failures so chain lookups degrade fast instead of stacking
// timeouts during an outage.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	ratelimit  *redis.RateLimiter
	breaker    *gobreaker.CircuitBreaker
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewClient creates a new Tradier client.
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, ratelimit *redis.RateLimiter, log *logger.Logger) *Client {
	settings := gobreaker.Settings{
		Name:        "tradier",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: httpClient,
		cache:      cache,
		ratelimit:  ratelimit,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		logger:     log,
		baseURL:    cfg.Tradier.BaseURL,
		apiKey:     cfg.Tradier.APIKey,
	}
}

// getJSON fetches a Tradier endpoint through the breaker and decodes
// the response into dest.
func (c *Client) getJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	if c.ratelimit != nil {
		if err := c.ratelimit.Wait(ctx, redis.TradierRateLimit); err != nil {
			return fmt.Errorf("shared rate limiter wait: %w", err)
		}
	}

	fullURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Accept":        "application/json",
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, headers)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("unexpected status %d from Tradier: %s", resp.StatusCode, string(snippet))
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), dest); err != nil {
		return fmt.Errorf("decode Tradier response: %w", err)
	}

	return nil
}
