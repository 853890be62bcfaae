package fmp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/redis"
)

// historicalResponse mirrors FMP /historical-price-full.
type historicalResponse struct {
	Symbol     string `json:"symbol"`
	Historical []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	} `json:"historical"`
}

// Trend computes moving-average metrics from daily closes. FMP returns
// history newest-first, which is the order the averages consume.
func (c *Client) Trend(ctx context.Context, ticker string) (*contracts.TrendMetrics, error) {
	var metrics contracts.TrendMetrics
	err := c.cache.GetOrSet(ctx, redis.TrendKey(ticker), &metrics, redis.TTLTrend, func() (interface{}, error) {
		return c.fetchTrend(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}

func (c *Client) fetchTrend(ctx context.Context, ticker string) (*contracts.TrendMetrics, error) {
	symbol := strings.ToUpper(ticker)

	params := url.Values{}
	params.Set("timeseries", "260")

	var resp historicalResponse
	if err := c.getJSON(ctx, "/historical-price-full/"+symbol, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Historical) < 200 {
		return nil, fmt.Errorf("insufficient history for %s: %d bars", symbol, len(resp.Historical))
	}

	closes := make([]float64, len(resp.Historical))
	for i, bar := range resp.Historical {
		closes[i] = bar.Close
	}

	price := closes[0]
	ma200 := average(closes[:200])

	metrics := &contracts.TrendMetrics{
		Ticker: symbol,
		Price:  price,
		MA50:   average(closes[:50]),
		MA100:  average(closes[:100]),
		MA200:  ma200,
	}
	if ma200 > 0 {
		metrics.DistFrom200 = (price - ma200) / ma200 * 100
	}
	return metrics, nil
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
