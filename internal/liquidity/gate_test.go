package liquidity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside/underwriter/internal/contracts"
)

func liquidContract(strike, bid, ask float64, oi int64) contracts.OptionContract {
	return contracts.OptionContract{
		Side:         contracts.SidePut,
		Strike:       strike,
		Bid:          bid,
		Ask:          ask,
		OpenInterest: oi,
	}
}

func TestEvaluate_StockVolumeFloor(t *testing.T) {
	cfg := DefaultConfig()
	chain := []contracts.OptionContract{liquidContract(95, 1.00, 1.05, 2000)}

	tests := []struct {
		name      string
		avgVolume int64
		passed    bool
	}{
		{"well below floor", 500_000, false},
		{"just below floor", 999_999, false},
		{"exactly at floor", 1_000_000, true},
		{"above floor", 5_000_000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate(Input{
				AvgDailyVolume: tt.avgVolume,
				ShortStrike:    95,
				Contracts:      chain,
			}, cfg)

			assert.Equal(t, tt.passed, result.Passed)
			if !tt.passed {
				require.Len(t, result.Reasons, 1)
				assert.Equal(t, contracts.DisqualifiedLowStockLiquidity, result.Reasons[0].Code)
			}
		})
	}
}

func TestEvaluate_SpreadCap(t *testing.T) {
	cfg := DefaultConfig()

	// Mid 1.10, spread 0.20 -> 18%, over the 10% cap.
	wide := []contracts.OptionContract{liquidContract(95, 1.00, 1.20, 2000)}
	result := Evaluate(Input{AvgDailyVolume: 2_000_000, ShortStrike: 95, Contracts: wide}, cfg)

	assert.False(t, result.Passed)
	require.Len(t, result.Reasons, 1)
	assert.Equal(t, contracts.DisqualifiedWideOptionsSpread, result.Reasons[0].Code)
	assert.InDelta(t, 0.1818, result.SpreadPct, 0.001)
}

func TestEvaluate_OpenInterestFloor(t *testing.T) {
	cfg := DefaultConfig()

	thin := []contracts.OptionContract{liquidContract(95, 1.00, 1.05, 120)}
	result := Evaluate(Input{AvgDailyVolume: 2_000_000, ShortStrike: 95, Contracts: thin}, cfg)

	assert.False(t, result.Passed)
	require.Len(t, result.Reasons, 1)
	assert.Equal(t, contracts.DisqualifiedLowOpenInterest, result.Reasons[0].Code)
}

func TestEvaluate_AllReasonsAccumulate(t *testing.T) {
	cfg := DefaultConfig()

	chain := []contracts.OptionContract{liquidContract(95, 1.00, 1.30, 50)}
	result := Evaluate(Input{AvgDailyVolume: 100_000, ShortStrike: 95, Contracts: chain}, cfg)

	assert.False(t, result.Passed)
	assert.Len(t, result.Reasons, 3)

	codes := make([]contracts.ReasonCode, 0, len(result.Reasons))
	for _, r := range result.Reasons {
		codes = append(codes, r.Code)
	}
	assert.Contains(t, codes, contracts.DisqualifiedLowStockLiquidity)
	assert.Contains(t, codes, contracts.DisqualifiedWideOptionsSpread)
	assert.Contains(t, codes, contracts.DisqualifiedLowOpenInterest)
}

func TestEvaluate_NoContracts(t *testing.T) {
	result := Evaluate(Input{AvgDailyVolume: 2_000_000}, DefaultConfig())

	// Option checks are skipped without a chain slice; the stock leg
	// alone decides.
	assert.True(t, result.Passed)
	assert.Zero(t, result.CheckedStrike)
}

func TestPickProbeContract(t *testing.T) {
	chain := []contracts.OptionContract{
		liquidContract(90, 0.50, 0.55, 3000),
		liquidContract(95, 1.00, 1.05, 500),
		liquidContract(100, 2.00, 2.10, 8000),
	}

	t.Run("nearest to target strike", func(t *testing.T) {
		probe := pickProbeContract(Input{ShortStrike: 96, Contracts: chain})
		require.NotNil(t, probe)
		assert.Equal(t, 95.0, probe.Strike)
	})

	t.Run("highest open interest without target", func(t *testing.T) {
		probe := pickProbeContract(Input{Contracts: chain})
		require.NotNil(t, probe)
		assert.Equal(t, 100.0, probe.Strike)
	})
}
