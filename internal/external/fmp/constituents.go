package fmp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sellside/underwriter/pkg/redis"
)

// constituentResponse mirrors one FMP index constituent row.
type constituentResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Sector string `json:"sector"`
}

var constituentEndpoints = map[string]string{
	"sp500":     "/sp500_constituent",
	"nasdaq100": "/nasdaq_constituent",
	"dowjones":  "/dowjones_constituent",
}

// Constituents returns the member tickers of a supported index, sorted
// and cached for a day. The recommended-source universe starts here.
func (c *Client) Constituents(ctx context.Context, profile string) ([]string, error) {
	key := strings.ToLower(strings.TrimSpace(profile))
	if key == "" {
		key = "sp500"
	}
	endpoint, ok := constituentEndpoints[key]
	if !ok {
		return nil, fmt.Errorf("unknown constituents profile %q", profile)
	}

	var tickers []string
	err := c.cache.GetOrSet(ctx, redis.ConstituentsKey(key), &tickers, redis.TTLConstituents, func() (interface{}, error) {
		var rows []constituentResponse
		if err := c.getJSON(ctx, endpoint, nil, &rows); err != nil {
			return nil, err
		}
		out := make([]string, 0, len(rows))
		for _, r := range rows {
			symbol := strings.ToUpper(strings.TrimSpace(r.Symbol))
			if symbol == "" {
				continue
			}
			out = append(out, symbol)
		}
		sort.Strings(out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return tickers, nil
}
