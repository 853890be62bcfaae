package fmp

import (
	"context"
	"fmt"
	"strings"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/redis"
)

// ratiosResponse mirrors the FMP /ratios-ttm payload, fields we use.
type ratiosResponse struct {
	ReturnOnEquityTTM  float64 `json:"returnOnEquityTTM"`
	NetProfitMarginTTM float64 `json:"netProfitMarginTTM"`
	DebtEquityRatioTTM float64 `json:"debtEquityRatioTTM"`
	CurrentRatioTTM    float64 `json:"currentRatioTTM"`
}

// Fundamentals resolves holdability figures, cached on an hours scale
// since they change slowly.
func (c *Client) Fundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	var fundamentals contracts.Fundamentals
	err := c.cache.GetOrSet(ctx, redis.FundamentalsKey(ticker), &fundamentals, redis.TTLFundamentals, func() (interface{}, error) {
		return c.fetchFundamentals(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &fundamentals, nil
}

func (c *Client) fetchFundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	symbol := strings.ToUpper(ticker)

	var profiles []profileResponse
	if err := c.getJSON(ctx, "/profile/"+symbol, nil, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("no profile found for %s", ticker)
	}

	var ratios []ratiosResponse
	if err := c.getJSON(ctx, "/ratios-ttm/"+symbol, nil, &ratios); err != nil {
		return nil, err
	}

	fundamentals := &contracts.Fundamentals{
		Ticker:    symbol,
		MarketCap: profiles[0].MktCap,
		Sector:    profiles[0].Sector,
		Industry:  profiles[0].Industry,
		Beta:      profiles[0].Beta,
	}

	if len(ratios) > 0 {
		fundamentals.ROE = ratios[0].ReturnOnEquityTTM
		fundamentals.NetMargin = ratios[0].NetProfitMarginTTM
		fundamentals.DebtToEquity = ratios[0].DebtEquityRatioTTM
		fundamentals.CurrentRatio = ratios[0].CurrentRatioTTM
	}

	return fundamentals, nil
}
