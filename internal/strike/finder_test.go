package strike

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellside/underwriter/internal/contracts"
)

var testExpiration = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func put(strike, delta, bid, ask float64) contracts.OptionContract {
	return contracts.OptionContract{
		Side:         contracts.SidePut,
		Expiration:   testExpiration,
		Strike:       strike,
		Delta:        delta,
		Bid:          bid,
		Ask:          ask,
		OpenInterest: 1000,
		Volume:       50,
		ImpliedVol:   0.35,
		Theta:        -0.05,
	}
}

func call(strike, delta, bid, ask float64) contracts.OptionContract {
	c := put(strike, delta, bid, ask)
	c.Side = contracts.SideCall
	return c
}

func TestFind_EmptyChain(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	candidate := finder.Find(Input{
		Underlying:      "AAPL",
		UnderlyingPrice: 100,
		Strategy:        contracts.StrategyCSP,
		Expiration:      testExpiration,
	})

	assert.False(t, candidate.Valid())
	require.Len(t, candidate.Reasons, 1)
	assert.Equal(t, contracts.NoTrade, candidate.Reasons[0].Code)
}

func TestFind_PicksClosestToTargetDelta(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	// Both strikes sit about 0.01 from the 0.20 target delta; the
	// richer 140 strike wins.
	chain := []contracts.OptionContract{
		put(145, -0.19, 0.20, 0.22),
		put(140, -0.21, 0.40, 0.44),
	}

	candidate := finder.Find(Input{
		Underlying:      "XYZ",
		UnderlyingPrice: 155,
		Strategy:        contracts.StrategyPCS,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	assert.Equal(t, 140.0, candidate.ShortStrike)
	assert.Equal(t, -0.21, candidate.ShortDelta)
}

func TestFind_EqualDeltaTieBreaksOnBid(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	chain := []contracts.OptionContract{
		put(145, -0.20, 0.20, 0.22),
		put(140, -0.20, 0.40, 0.44),
	}

	candidate := finder.Find(Input{
		Underlying:      "XYZ",
		UnderlyingPrice: 155,
		Strategy:        contracts.StrategyPCS,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	assert.Equal(t, 140.0, candidate.ShortStrike)
}

func TestFind_CSPEconomics(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	chain := []contracts.OptionContract{put(92, -0.25, 1.20, 1.30)}

	candidate := finder.Find(Input{
		Underlying:      "MSFT",
		UnderlyingPrice: 100,
		Strategy:        contracts.StrategyCSP,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	require.True(t, candidate.Valid(), "reasons: %v", candidate.Reasons)
	assert.Equal(t, 92.0, candidate.ShortStrike)
	assert.Nil(t, candidate.LongStrike)
	assert.InDelta(t, 1.20, candidate.Credit, 1e-9)
	assert.InDelta(t, 90.80, candidate.MaxLoss, 1e-9)
	assert.InDelta(t, 90.80, candidate.Breakeven, 1e-9)
	assert.InDelta(t, 0.75, candidate.POP, 1e-9)
	assert.InDelta(t, -0.05, candidate.ThetaPerDay, 1e-9)
}

func TestFind_PCSEconomics(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	chain := []contracts.OptionContract{
		put(95, -0.20, 1.50, 1.60),
		put(90, -0.10, 0.45, 0.50),
	}

	candidate := finder.Find(Input{
		Underlying:      "SPY",
		UnderlyingPrice: 105,
		Strategy:        contracts.StrategyPCS,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	require.True(t, candidate.Valid(), "reasons: %v", candidate.Reasons)
	assert.Equal(t, 95.0, candidate.ShortStrike)
	require.NotNil(t, candidate.LongStrike)
	assert.Equal(t, 90.0, *candidate.LongStrike)
	assert.InDelta(t, 1.00, candidate.Credit, 1e-9)  // 1.50 bid - 0.50 ask
	assert.InDelta(t, 4.00, candidate.MaxLoss, 1e-9) // width 5 - credit 1
	assert.InDelta(t, 94.0, candidate.Breakeven, 1e-9)
	assert.InDelta(t, 0.20, candidate.CreditToWidth(), 1e-9)
	assert.InDelta(t, 0.80, candidate.POP, 1e-9)
}

func TestFind_CCSUsesCallSide(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	chain := []contracts.OptionContract{
		call(110, 0.20, 1.50, 1.60),
		call(115, 0.10, 0.40, 0.45),
		put(90, -0.20, 1.50, 1.60), // wrong side, must be ignored
	}

	candidate := finder.Find(Input{
		Underlying:      "QQQ",
		UnderlyingPrice: 100,
		Strategy:        contracts.StrategyCCS,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	require.True(t, candidate.Valid(), "reasons: %v", candidate.Reasons)
	assert.Equal(t, 110.0, candidate.ShortStrike)
	require.NotNil(t, candidate.LongStrike)
	assert.Equal(t, 115.0, *candidate.LongStrike)
	// Breakeven sits above the short strike on the call side.
	assert.InDelta(t, 111.05, candidate.Breakeven, 1e-9)
}

func TestFind_NoShortStrikeReportsDiagnostics(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	// In the OTM band but outside the delta band.
	chain := []contracts.OptionContract{put(92, -0.45, 1.20, 1.30)}

	candidate := finder.Find(Input{
		Underlying:      "AAPL",
		UnderlyingPrice: 100,
		Strategy:        contracts.StrategyCSP,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	assert.False(t, candidate.Valid())
	require.Len(t, candidate.Reasons, 1)
	assert.Equal(t, contracts.NoValidShortStrike, candidate.Reasons[0].Code)

	require.NotNil(t, candidate.Diagnostics)
	assert.Equal(t, 1, candidate.Diagnostics.SideContracts)
	assert.Equal(t, 1, candidate.Diagnostics.OTMBandMatches)
	assert.Equal(t, 0, candidate.Diagnostics.DeltaMatches)
}

func TestFind_NoLongStrikeForSpread(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	// Only a short leg; no strike inside the width band.
	chain := []contracts.OptionContract{put(95, -0.20, 1.50, 1.60)}

	candidate := finder.Find(Input{
		Underlying:      "SPY",
		UnderlyingPrice: 105,
		Strategy:        contracts.StrategyPCS,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	assert.False(t, candidate.Valid())
	require.Len(t, candidate.Reasons, 1)
	assert.Equal(t, contracts.NoValidLongStrike, candidate.Reasons[0].Code)
	assert.Equal(t, 95.0, candidate.ShortStrike)
}

func TestFind_InsufficientCredit(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	chain := []contracts.OptionContract{put(92, -0.25, 0.10, 0.11)}

	candidate := finder.Find(Input{
		Underlying:      "AAPL",
		UnderlyingPrice: 100,
		Strategy:        contracts.StrategyCSP,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	assert.False(t, candidate.Valid())
	require.Len(t, candidate.Reasons, 1)
	assert.Equal(t, contracts.InsufficientCredit, candidate.Reasons[0].Code)
}

func TestFind_PoorCreditToWidth(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	chain := []contracts.OptionContract{
		put(95, -0.20, 0.60, 0.65),
		put(90, -0.08, 0.20, 0.25),
	}

	candidate := finder.Find(Input{
		Underlying:      "SPY",
		UnderlyingPrice: 105,
		Strategy:        contracts.StrategyPCS,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	// Credit 0.35 clears the absolute floor but only 7% of the width.
	assert.False(t, candidate.Valid())
	require.Len(t, candidate.Reasons, 1)
	assert.Equal(t, contracts.PoorCreditToWidth, candidate.Reasons[0].Code)
}

func TestFind_ATMExcludedByDefault(t *testing.T) {
	finder := NewFinder(DefaultConfig())

	// A strike at the money carries zero OTM distance.
	chain := []contracts.OptionContract{put(100, -0.50, 2.00, 2.10)}

	candidate := finder.Find(Input{
		Underlying:      "AAPL",
		UnderlyingPrice: 100,
		Strategy:        contracts.StrategyCSP,
		Expiration:      testExpiration,
		Contracts:       chain,
	})

	assert.False(t, candidate.Valid())
	require.NotNil(t, candidate.Diagnostics)
	assert.Equal(t, 0, candidate.Diagnostics.OTMBandMatches)
}
