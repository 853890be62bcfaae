package contracts

import (
	"context"
	"time"
)

// CompanyProfile is the listing profile used by universe filtering.
type CompanyProfile struct {
	Ticker    string  `json:"ticker"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Exchange  string  `json:"exchange"`
	Currency  string  `json:"currency"`
	IsADR     bool    `json:"is_adr"`
	AvgVolume int64   `json:"avg_volume"`
	Price     float64 `json:"price"`
	Beta      float64 `json:"beta"`
}

// Quote is a current price snapshot.
type Quote struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	Bid    float64   `json:"bid"`
	Ask    float64   `json:"ask"`
	AsOf   time.Time `json:"as_of"`
}

// ProfileProvider resolves company listing profiles.
type ProfileProvider interface {
	Profile(ctx context.Context, ticker string) (*CompanyProfile, error)
}

// QuoteProvider resolves current prices. Implementations retry with
// backoff on transient failures and may fall back from last trade to
// mid-quote.
type QuoteProvider interface {
	Quote(ctx context.Context, ticker string) (*Quote, error)
}

// FundamentalsProvider resolves slowly-changing company figures.
type FundamentalsProvider interface {
	Fundamentals(ctx context.Context, ticker string) (*Fundamentals, error)
}

// ChainProvider resolves option chain snapshots across expirations.
type ChainProvider interface {
	Chain(ctx context.Context, ticker string) (*OptionChainSnapshot, error)
}

// TrendProvider resolves moving-average trend metrics for a ticker or
// a market index proxy.
type TrendProvider interface {
	Trend(ctx context.Context, ticker string) (*TrendMetrics, error)
}

// CalendarProvider resolves earnings and macro event calendars.
type CalendarProvider interface {
	Calendar(ctx context.Context, ticker string) (*CalendarSnapshot, error)
}

// ConstituentsProvider resolves recommended-universe index membership.
type ConstituentsProvider interface {
	Constituents(ctx context.Context, profile string) ([]string, error)
}
