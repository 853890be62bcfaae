package fmp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/redis"
)

// quoteResponse mirrors the FMP /quote payload.
type quoteResponse struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previousClose"`
}

// Quote resolves a current price, cached for a minute. Transient
// failures are retried by the HTTP layer; a zero last price falls back
// to the previous close.
func (c *Client) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	var quote contracts.Quote
	err := c.cache.GetOrSet(ctx, redis.QuoteKey(ticker), &quote, redis.TTLQuote, func() (interface{}, error) {
		return c.fetchQuote(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) fetchQuote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	var payload []quoteResponse
	if err := c.getJSON(ctx, "/quote/"+strings.ToUpper(ticker), nil, &payload); err != nil {
		return nil, err
	}

	if len(payload) == 0 {
		return nil, fmt.Errorf("no quote found for %s", ticker)
	}

	q := payload[0]
	price := q.Price
	if price <= 0 {
		price = q.PreviousClose
	}
	if price <= 0 {
		return nil, fmt.Errorf("no usable price for %s", ticker)
	}

	return &contracts.Quote{
		Ticker: q.Symbol,
		Price:  price,
		AsOf:   time.Now(),
	}, nil
}
