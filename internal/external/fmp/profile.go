package fmp

import (
	"context"
	"fmt"
	"strings"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/redis"
)

// profileResponse mirrors the FMP /profile payload, fields we use only.
type profileResponse struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"companyName"`
	Country   string  `json:"country"`
	Exchange  string  `json:"exchangeShortName"`
	Currency  string  `json:"currency"`
	IsADR     bool    `json:"isAdr"`
	VolAvg    int64   `json:"volAvg"`
	Price     float64 `json:"price"`
	Beta      float64 `json:"beta"`
	MktCap    float64 `json:"mktCap"`
	Sector    string  `json:"sector"`
	Industry  string  `json:"industry"`
}

// Profile resolves the company listing profile, cached for a day.
func (c *Client) Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	var profile contracts.CompanyProfile
	err := c.cache.GetOrSet(ctx, redis.ProfileKey(ticker), &profile, redis.TTLProfile, func() (interface{}, error) {
		return c.fetchProfile(ctx, ticker)
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) fetchProfile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	var payload []profileResponse
	if err := c.getJSON(ctx, "/profile/"+strings.ToUpper(ticker), nil, &payload); err != nil {
		return nil, err
	}

	if len(payload) == 0 {
		return nil, fmt.Errorf("no profile found for %s", ticker)
	}

	p := payload[0]
	return &contracts.CompanyProfile{
		Ticker:    p.Symbol,
		Name:      p.Name,
		Country:   p.Country,
		Exchange:  p.Exchange,
		Currency:  p.Currency,
		IsADR:     p.IsADR,
		AvgVolume: p.VolAvg,
		Price:     p.Price,
		Beta:      p.Beta,
	}, nil
}
