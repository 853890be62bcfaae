package universe

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/logger"
)

type fakeProfiles struct {
	profiles map[string]*contracts.CompanyProfile
}

func (f *fakeProfiles) Profile(ctx context.Context, ticker string) (*contracts.CompanyProfile, error) {
	p, ok := f.profiles[ticker]
	if !ok {
		return nil, fmt.Errorf("no profile for %s", ticker)
	}
	return p, nil
}

type fakeChains struct {
	chains map[string]*contracts.OptionChainSnapshot
}

func (f *fakeChains) Chain(ctx context.Context, ticker string) (*contracts.OptionChainSnapshot, error) {
	c, ok := f.chains[ticker]
	if !ok {
		return nil, fmt.Errorf("no chain for %s", ticker)
	}
	return c, nil
}

type fakeConstituents struct {
	tickers []string
}

func (f *fakeConstituents) Constituents(ctx context.Context, profile string) ([]string, error) {
	return f.tickers, nil
}

func usProfile(ticker string, avgVolume int64) *contracts.CompanyProfile {
	return &contracts.CompanyProfile{
		Ticker:    ticker,
		Name:      ticker + " Inc",
		Country:   "US",
		Exchange:  "NASDAQ",
		Currency:  "USD",
		AvgVolume: avgVolume,
		Price:     100,
	}
}

func newTestBuilder(profiles *fakeProfiles, config Config) *Builder {
	return NewBuilder(profiles, &fakeChains{}, &fakeConstituents{}, config, logger.NewNop())
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "trims and uppercases",
			input:    []string{" aapl ", "Msft"},
			expected: []string{"AAPL", "MSFT"},
		},
		{
			name:     "dedupes case-insensitively",
			input:    []string{"AAPL", "aapl", " AAPL"},
			expected: []string{"AAPL"},
		},
		{
			name:     "drops empty entries",
			input:    []string{"", "  ", "SPY"},
			expected: []string{"SPY"},
		},
		{
			name:     "sorts output",
			input:    []string{"MSFT", "AAPL", "GOOG"},
			expected: []string{"AAPL", "GOOG", "MSFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	input := []string{" aapl", "MSFT ", "msft", "BRK.B"}
	once := Normalize(input)
	twice := Normalize(once)
	assert.Equal(t, once, twice)
}

func TestBuilder_Build_Exclusions(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*contracts.CompanyProfile{
		"AAPL": usProfile("AAPL", 50_000_000),
		"THIN": usProfile("THIN", 200_000),
		"GME":  usProfile("GME", 5_000_000),
		"NVO": {
			Ticker:    "NVO",
			Name:      "Novo Nordisk",
			Country:   "DK",
			Exchange:  "NYSE",
			Currency:  "DKK",
			IsADR:     true,
			AvgVolume: 3_000_000,
		},
	}}

	builder := newTestBuilder(profiles, DefaultConfig())

	result, err := builder.Build(context.Background(), BuildRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"AAPL", "THIN", "GME", "NVO", "xyz123", "MISSING"},
	})
	require.NoError(t, err)

	included := result.IncludedTickers()
	assert.Equal(t, []string{"AAPL"}, included)

	excluded := make(map[string][]contracts.ReasonCode)
	for _, d := range result.Excluded {
		for _, r := range d.Reasons {
			excluded[d.Ticker] = append(excluded[d.Ticker], r.Code)
		}
	}

	assert.Contains(t, excluded["THIN"], contracts.ExcludeLowVolume)
	assert.Contains(t, excluded["GME"], contracts.ExcludeMemeTicker)
	assert.Contains(t, excluded["XYZ123"], contracts.ExcludeInvalidSymbol)
	assert.Contains(t, excluded["MISSING"], contracts.ExcludeUnknownProfile)

	// ADR exclusion accumulates with the non-US listing reason.
	assert.Contains(t, excluded["NVO"], contracts.ExcludeADR)
	assert.Contains(t, excluded["NVO"], contracts.ExcludeNonUSListing)
}

func TestBuilder_Build_AccumulatesAllReasons(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*contracts.CompanyProfile{
		"GME": usProfile("GME", 100), // meme list and below the volume floor
	}}

	builder := newTestBuilder(profiles, DefaultConfig())

	result, err := builder.Build(context.Background(), BuildRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"GME"},
	})
	require.NoError(t, err)
	require.Len(t, result.Excluded, 1)

	codes := make([]contracts.ReasonCode, 0)
	for _, r := range result.Excluded[0].Reasons {
		codes = append(codes, r.Code)
	}
	assert.Contains(t, codes, contracts.ExcludeMemeTicker)
	assert.Contains(t, codes, contracts.ExcludeLowVolume)
}

func TestBuilder_Build_Deterministic(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*contracts.CompanyProfile{
		"AAPL": usProfile("AAPL", 50_000_000),
		"MSFT": usProfile("MSFT", 30_000_000),
	}}

	builder := newTestBuilder(profiles, DefaultConfig())
	req := BuildRequest{
		Source:  contracts.SourceManual,
		Tickers: []string{"msft", "AAPL", " aapl "},
	}

	first, err := builder.Build(context.Background(), req)
	require.NoError(t, err)
	second, err := builder.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.IncludedTickers(), second.IncludedTickers())
	assert.Equal(t, []string{"AAPL", "MSFT"}, first.IncludedTickers())
}

func TestBuilder_Build_RecommendedSource(t *testing.T) {
	profiles := &fakeProfiles{profiles: map[string]*contracts.CompanyProfile{
		"AAPL": usProfile("AAPL", 50_000_000),
		"MSFT": usProfile("MSFT", 30_000_000),
	}}
	constituents := &fakeConstituents{tickers: []string{"AAPL", "MSFT"}}

	builder := NewBuilder(profiles, &fakeChains{}, constituents, DefaultConfig(), logger.NewNop())

	result, err := builder.Build(context.Background(), BuildRequest{
		Source:                contracts.SourceRecommended,
		RecommendationProfile: "sp500",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, result.IncludedTickers())
}

func TestBuilder_SymbolPattern(t *testing.T) {
	assert.True(t, symbolPattern.MatchString("AAPL"))
	assert.True(t, symbolPattern.MatchString("BRK.B"))
	assert.False(t, symbolPattern.MatchString("TOOLONG"))
	assert.False(t, symbolPattern.MatchString("123"))
	assert.False(t, symbolPattern.MatchString("brk.b"))
}
