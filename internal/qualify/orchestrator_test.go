package qualify

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/expiration"
	"github.com/sellside/underwriter/internal/scoring"
	"github.com/sellside/underwriter/internal/strike"
	"github.com/sellside/underwriter/internal/trend"
	"github.com/sellside/underwriter/internal/universe"
	"github.com/sellside/underwriter/pkg/logger"
	"github.com/sellside/underwriter/pkg/metrics"
)

type fakeMarket struct {
	profiles     map[string]*contracts.CompanyProfile
	quotes       map[string]*contracts.Quote
	fundamentals map[string]*contracts.Fundamentals
	chains       map[string]*contracts.OptionChainSnapshot
	calendars    map[string]*contracts.CalendarSnapshot
	trends       map[string]*contracts.TrendMetrics
	panicOnQuote string
}

func (f *fakeMarket) Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	if p, ok := f.profiles[ticker]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no profile for %s", ticker)
}

func (f *fakeMarket) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	if ticker == f.panicOnQuote {
		panic("quote provider blew up")
	}
	if q, ok := f.quotes[ticker]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("no quote for %s", ticker)
}

func (f *fakeMarket) Fundamentals(ctx context.Context, ticker string) (*contracts.Fundamentals, error) {
	if fd, ok := f.fundamentals[ticker]; ok {
		return fd, nil
	}
	return nil, fmt.Errorf("no fundamentals for %s", ticker)
}

func (f *fakeMarket) Chain(ctx context.Context, ticker string) (*contracts.OptionChainSnapshot, error) {
	if c, ok := f.chains[ticker]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no chain for %s", ticker)
}

func (f *fakeMarket) Calendar(ctx context.Context, ticker string) (*contracts.CalendarSnapshot, error) {
	if c, ok := f.calendars[ticker]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no calendar for %s", ticker)
}

func (f *fakeMarket) Trend(ctx context.Context, ticker string) (*contracts.TrendMetrics, error) {
	if m, ok := f.trends[ticker]; ok {
		return m, nil
	}
	return nil, fmt.Errorf("no trend for %s", ticker)
}

func (f *fakeMarket) Constituents(ctx context.Context, profile string) ([]string, error) {
	out := make([]string, 0, len(f.profiles))
	for t := range f.profiles {
		out = append(out, t)
	}
	return out, nil
}

func spreadChain(ticker string, expiration time.Time) *contracts.OptionChainSnapshot {
	mkPut := func(strike, delta, bid, ask float64) contracts.OptionContract {
		return contracts.OptionContract{
			Underlying:   ticker,
			Side:         contracts.SidePut,
			Expiration:   expiration,
			Strike:       strike,
			Delta:        delta,
			Bid:          bid,
			Ask:          ask,
			OpenInterest: 1500,
			Volume:       80,
			ImpliedVol:   0.35,
			Theta:        -0.05,
		}
	}
	return &contracts.OptionChainSnapshot{
		Underlying: ticker,
		AsOf:       time.Now(),
		Contracts: []contracts.OptionContract{
			mkPut(95, -0.20, 1.50, 1.60),
			mkPut(90, -0.10, 0.45, 0.50),
		},
	}
}

func bullTrend(ticker string) *contracts.TrendMetrics {
	return &contracts.TrendMetrics{
		Ticker: ticker, Price: 105, MA50: 104, MA100: 102, MA200: 100, DistFrom200: 5,
	}
}

func marketWith(tickers ...string) *fakeMarket {
	expiration := time.Now().AddDate(0, 0, 46).Truncate(24 * time.Hour)

	f := &fakeMarket{
		profiles:     make(map[string]*contracts.CompanyProfile),
		quotes:       make(map[string]*contracts.Quote),
		fundamentals: make(map[string]*contracts.Fundamentals),
		chains:       make(map[string]*contracts.OptionChainSnapshot),
		calendars:    make(map[string]*contracts.CalendarSnapshot),
		trends:       map[string]*contracts.TrendMetrics{MarketProxy: bullTrend(MarketProxy)},
	}

	for _, t := range tickers {
		f.profiles[t] = &contracts.CompanyProfile{
			Ticker: t, Name: t + " Inc", Country: "US", Exchange: "NASDAQ",
			Currency: "USD", AvgVolume: 50_000_000, Price: 105,
		}
		f.quotes[t] = &contracts.Quote{Ticker: t, Price: 105, AsOf: time.Now()}
		f.fundamentals[t] = &contracts.Fundamentals{
			Ticker: t, MarketCap: 40_000_000_000, Sector: "Technology",
			ROE: 0.30, NetMargin: 0.20, DebtToEquity: 1.0, CurrentRatio: 1.6, Beta: 1.1,
		}
		f.chains[t] = spreadChain(t, expiration)
		f.calendars[t] = &contracts.CalendarSnapshot{Ticker: t, DaysToEarnings: -1, AsOf: time.Now()}
		f.trends[t] = bullTrend(t)
	}
	return f
}

func newTestOrchestrator(f *fakeMarket) *Orchestrator {
	log := logger.NewNop()
	builder := universe.NewBuilder(f, f, f, universe.DefaultConfig(), log)

	return NewOrchestrator(
		builder,
		trend.NewScorer(trend.DefaultConfig()),
		strike.NewFinder(strike.DefaultConfig()),
		expiration.NewRanker(expiration.DefaultConfig()),
		scoring.NewEngine(log),
		Providers{Quotes: f, Fundamentals: f, Chains: f, Calendar: f, Trend: f},
		DefaultConfig(),
		metrics.New(prometheus.NewRegistry()),
		log,
	)
}

func TestRun_HappyPath(t *testing.T) {
	f := marketWith("AAPL")
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:      contracts.SourceManual,
		Tickers:     []string{"AAPL"},
		AccountSize: 100_000,
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.RunID)
	require.Len(t, response.Candidates, 1)
	assert.Empty(t, response.Disqualified)

	qc := response.Candidates[0]
	c := qc.Candidate
	assert.Equal(t, "AAPL", qc.Ticker)
	assert.Equal(t, 95.0, c.ShortStrike)
	assert.InDelta(t, 1.00, c.Credit, 1e-9)
	assert.InDelta(t, 94.0, c.Breakeven, 1e-9)
	assert.Equal(t, contracts.RegimeBull, c.StockRegime)
	assert.Equal(t, contracts.IVUnknown, c.IVRegime)

	assert.GreaterOrEqual(t, len(c.Why), 3)
	assert.GreaterOrEqual(t, c.Score.Breakdown.Total, 80)
	assert.Equal(t, contracts.TierHigh, c.Score.Tier)

	assert.True(t, qc.Sizing.WithinLimit)
	assert.Greater(t, qc.Sizing.RequiredCollateral, 0.0)
}

func TestRun_WhyCarriesTrendDistance(t *testing.T) {
	f := marketWith("AAPL")
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL"},
	})
	require.NoError(t, err)
	require.Len(t, response.Candidates, 1)

	found := false
	for _, bullet := range response.Candidates[0].Candidate.Why {
		if strings.Contains(bullet, "5.0% from the 200-day average") {
			found = true
		}
	}
	assert.True(t, found, "expected a 200-day distance bullet, got %v", response.Candidates[0].Candidate.Why)
}

func TestRun_ExcludedTickerIsDisqualified(t *testing.T) {
	f := marketWith("AAPL")
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL", "GME"},
	})
	require.NoError(t, err)

	require.Len(t, response.Candidates, 1)
	require.Len(t, response.Disqualified, 1)
	assert.Equal(t, "GME", response.Disqualified[0].Ticker)
	assert.NotEmpty(t, response.Disqualified[0].Reasons)
}

func TestRun_EmptyChainDisqualifies(t *testing.T) {
	f := marketWith("AAPL", "MSFT")
	f.chains["MSFT"] = &contracts.OptionChainSnapshot{Underlying: "MSFT", AsOf: time.Now()}
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL", "MSFT"},
	})
	require.NoError(t, err)

	require.Len(t, response.Candidates, 1)
	assert.Equal(t, "AAPL", response.Candidates[0].Ticker)
	require.Len(t, response.Disqualified, 1)
	assert.Contains(t, response.Disqualified[0].Reasons[0], "option chain for MSFT is empty")
}

func TestRun_PanicBecomesDisqualification(t *testing.T) {
	f := marketWith("AAPL", "MSFT")
	f.panicOnQuote = "MSFT"
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL", "MSFT"},
	})
	require.NoError(t, err)

	// The panicking ticker never aborts the batch.
	require.Len(t, response.Candidates, 1)
	assert.Equal(t, "AAPL", response.Candidates[0].Ticker)
	require.Len(t, response.Disqualified, 1)
	assert.Contains(t, response.Disqualified[0].Reasons[0], "internal error while evaluating MSFT")
}

func TestRun_QuoteFailureDisqualifies(t *testing.T) {
	f := marketWith("AAPL")
	delete(f.quotes, "AAPL")
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL"},
	})
	require.NoError(t, err)

	assert.Empty(t, response.Candidates)
	require.Len(t, response.Disqualified, 1)
	assert.Contains(t, response.Disqualified[0].Reasons[0], "could not resolve a current price")
}

func TestRun_RanksByScoreAndTruncates(t *testing.T) {
	f := marketWith("AAPL", "MSFT", "GOOG")
	// Weak fundamentals drag one name's score down.
	f.fundamentals["MSFT"] = &contracts.Fundamentals{
		Ticker: "MSFT", MarketCap: 2_000_000_000, Sector: "Technology",
		ROE: -0.05, NetMargin: -0.02, DebtToEquity: 3.0, CurrentRatio: 0.8,
	}
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL", "MSFT", "GOOG"},
	})
	require.NoError(t, err)
	require.Len(t, response.Candidates, 3)

	for i := 1; i < len(response.Candidates); i++ {
		assert.GreaterOrEqual(t,
			response.Candidates[i-1].Candidate.Score.Breakdown.Total,
			response.Candidates[i].Candidate.Score.Breakdown.Total)
	}
	assert.Equal(t, "MSFT", response.Candidates[2].Ticker)

	capped, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:        contracts.SourceManual,
		Tickers:       []string{"AAPL", "MSFT", "GOOG"},
		MaxCandidates: 1,
	})
	require.NoError(t, err)
	assert.Len(t, capped.Candidates, 1)
}

func TestRun_SizingWarningSurfaces(t *testing.T) {
	f := marketWith("AAPL")
	orch := newTestOrchestrator(f)

	// A 400 dollar spread against a 5,000 dollar account is an 8%
	// allocation, above the default 5% ceiling.
	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:      contracts.SourceManual,
		Tickers:     []string{"AAPL"},
		AccountSize: 5_000,
	})
	require.NoError(t, err)
	require.Len(t, response.Candidates, 1)

	sizing := response.Candidates[0].Sizing
	assert.False(t, sizing.WithinLimit)
	assert.True(t, strings.Contains(sizing.Warning, "per-trade limit"))
}

func TestRun_StrikeRejectionsAggregate(t *testing.T) {
	f := marketWith("AAPL")
	// Strip the long leg so every spread fails long-strike selection
	// and no single-leg strategy survives the thin credit.
	chain := f.chains["AAPL"]
	chain.Contracts = chain.Contracts[:1]
	chain.Contracts[0].Bid = 0.10
	chain.Contracts[0].Ask = 0.11
	orch := newTestOrchestrator(f)

	response, err := orch.Run(context.Background(), contracts.QualifyRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL"},
	})
	require.NoError(t, err)

	assert.Empty(t, response.Candidates)
	require.Len(t, response.Disqualified, 1)
	require.NotEmpty(t, response.Disqualified[0].Reasons)
	assert.Contains(t, response.Disqualified[0].Reasons[0], "expirations")
}
