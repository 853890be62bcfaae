package explain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside/underwriter/internal/contracts"
)

func sampleScore(total int) *contracts.ScoreResult {
	b := contracts.ScoreBreakdown{Total: total}
	return &contracts.ScoreResult{Breakdown: b, Tier: b.Tier()}
}

func TestBuild_FullRationale(t *testing.T) {
	dist := 8.5
	result := Build(Input{
		Ticker:      "AAPL",
		Strategy:    contracts.StrategyPCS,
		ShortStrike: 140,
		ShortDelta:  -0.21,
		OTMPct:      0.09,
		DTE:         45,
		IV:          0.42,
		IVRegime:    contracts.IVStable,
		AvgVolume:   52_000_000,
		MarketCap:   2_800_000_000_000,
		DistFrom200: &dist,
		Score:       sampleScore(85),
	})

	require.GreaterOrEqual(t, len(result.Why), 3)
	assert.LessOrEqual(t, len(result.Why), 6)

	assert.Contains(t, result.Why[0], "IV at 42%")
	assert.Contains(t, result.Why[0], "STABLE")
	assert.Contains(t, result.Why[1], "short 140.00 strike at 0.21 delta")
	assert.Contains(t, result.Why[2], "45 DTE")
}

func TestBuild_DTEBulletTracksBand(t *testing.T) {
	tests := []struct {
		dte  int
		want string
	}{
		{45, "45 DTE inside the 30-60 day target window"},
		{30, "30 DTE inside the 30-60 day target window"},
		{60, "60 DTE inside the 30-60 day target window"},
		{25, "25 DTE near the 30-60 day target window"},
		{70, "70 DTE near the 30-60 day target window"},
		{14, "14 DTE outside the 30-60 day target window"},
		{90, "90 DTE outside the 30-60 day target window"},
	}

	for _, tt := range tests {
		result := Build(Input{Ticker: "AAPL", DTE: tt.dte, IV: 0.4, Score: sampleScore(70)})
		assert.Contains(t, result.Why, tt.want, "dte %d", tt.dte)
	}
}

func TestBuild_PadsToThreeBullets(t *testing.T) {
	result := Build(Input{
		Ticker: "XYZ",
		IV:     0.40,
		Score:  sampleScore(70),
	})

	require.Len(t, result.Why, 3)
	assert.Contains(t, result.Why[1], "confidence score 70/100")
	assert.Contains(t, result.Why[1], "ACCEPTABLE")
	assert.Equal(t, "meets baseline universe, liquidity, and strike filters", result.Why[2])
}

func TestBuild_ConsolidatesCalendarFlags(t *testing.T) {
	now := time.Now()
	earnings := now.AddDate(0, 0, 12)

	result := Build(Input{
		Ticker:      "NVDA",
		ShortStrike: 150,
		DTE:         45,
		IV:          0.55,
		Calendar: &contracts.CalendarSnapshot{
			NextEarnings:   &earnings,
			DaysToEarnings: 12,
			MacroEvents: []contracts.MacroEvent{
				{Type: contracts.MacroFOMC, Date: now.AddDate(0, 0, 5)},
			},
			AsOf: now,
		},
		RiskFlags: []contracts.RiskFlag{contracts.RiskEarningsWithinTrade},
	})

	// The earnings flag stays single despite arriving from two paths.
	count := 0
	for _, f := range result.RiskFlags {
		if f == contracts.RiskEarningsWithinTrade {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Contains(t, result.RiskFlags, contracts.RiskMacroEvent)
}

func TestBuild_UnknownIVRegimeOmitted(t *testing.T) {
	result := Build(Input{
		Ticker:   "XYZ",
		IV:       0.40,
		IVRegime: contracts.IVUnknown,
		Score:    sampleScore(70),
	})

	require.NotEmpty(t, result.Why)
	assert.Equal(t, "IV at 40%", result.Why[0])
}

func TestBuild_EarningsBullet(t *testing.T) {
	now := time.Now()
	result := Build(Input{
		Ticker:      "AAPL",
		ShortStrike: 140,
		ShortDelta:  -0.2,
		DTE:         45,
		IV:          0.4,
		AvgVolume:   10_000_000,
		Calendar: &contracts.CalendarSnapshot{
			DaysToEarnings: 70,
			AsOf:           now,
		},
	})

	assert.Contains(t, result.Why, "next earnings in 70 days")
}
