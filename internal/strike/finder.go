package strike

import (
	"fmt"
	"math"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
)

// Finder selects short (and, for spreads, long) strikes for one
// strategy and expiration under the strategy's profile constraints.
type Finder struct {
	config Config
}

// NewFinder creates a new strike finder.
func NewFinder(config Config) *Finder {
	return &Finder{config: config}
}

// Input is one strike search: the chain slice for a single expiration
// plus the underlying price.
type Input struct {
	Underlying      string
	UnderlyingPrice float64
	Strategy        contracts.Strategy
	Expiration      time.Time
	Contracts       []contracts.OptionContract
}

// Find runs the two-stage search and applies the post-construction
// credit guardrails. A candidate with any reason attached means "no
// trade" for this (strategy, expiration) pair.
func (f *Finder) Find(input Input) contracts.StrikeCandidate {
	candidate := contracts.StrikeCandidate{
		Strategy:   input.Strategy,
		Expiration: input.Expiration,
	}

	if len(input.Contracts) == 0 {
		candidate.Reasons = append(candidate.Reasons, contracts.Exclude(
			contracts.NoTrade,
			fmt.Sprintf("no option contracts available for %s on %s", input.Underlying, input.Expiration.Format("2006-01-02")),
		))
		return candidate
	}

	profile, ok := f.config.Profiles[input.Strategy]
	if !ok {
		candidate.Reasons = append(candidate.Reasons, contracts.Exclude(
			contracts.NoTrade,
			fmt.Sprintf("no strike profile configured for strategy %s", input.Strategy),
		))
		return candidate
	}

	side := input.Strategy.Side()

	short, diag := f.selectShortStrike(input, profile, side)
	candidate.Diagnostics = &diag
	if short == nil {
		candidate.Reasons = append(candidate.Reasons, contracts.Exclude(
			contracts.NoValidShortStrike,
			fmt.Sprintf("no %s strike satisfied OTM %.0f%%-%.0f%%, delta %.2f-%.2f, and liquidity floors (%d side contracts, %d in OTM band, %d in delta band, %d liquid)",
				side, profile.OTMMin*100, profile.OTMMax*100, profile.DeltaMin, profile.DeltaMax,
				diag.SideContracts, diag.OTMBandMatches, diag.DeltaMatches, diag.LiquidityMatches),
		))
		return candidate
	}

	candidate.ShortStrike = short.Strike
	candidate.ShortDelta = short.Delta
	candidate.IV = short.ImpliedVol
	candidate.OTMPct = short.OTMPct(input.UnderlyingPrice)

	var long *contracts.OptionContract
	if input.Strategy.IsSpread() {
		long = f.selectLongStrike(input, side, short.Strike)
		if long == nil {
			candidate.Reasons = append(candidate.Reasons, contracts.Exclude(
				contracts.NoValidLongStrike,
				fmt.Sprintf("no %s strike found %.1f-%.1f points beyond the %.2f short strike",
					side, f.config.WidthMin, f.config.WidthMax, short.Strike),
			))
			return candidate
		}
		strike := long.Strike
		candidate.LongStrike = &strike
	}

	f.resolveEconomics(&candidate, short, long)
	f.applyGuardrails(&candidate)

	return candidate
}

// selectShortStrike filters same-side contracts through the OTM band,
// the delta band, and the per-contract liquidity floor, then picks the
// survivor whose delta is closest to target. Ties break by higher bid,
// then tighter spread.
func (f *Finder) selectShortStrike(input Input, profile Profile, side contracts.OptionSide) (*contracts.OptionContract, contracts.SearchDiagnostics) {
	diag := contracts.SearchDiagnostics{}
	survivors := make([]*contracts.OptionContract, 0)

	for i := range input.Contracts {
		c := &input.Contracts[i]
		if c.Side != side {
			continue
		}
		diag.SideContracts++

		otm := c.OTMPct(input.UnderlyingPrice)
		if otm <= 0 && !f.config.AllowATM {
			continue
		}
		if otm < profile.OTMMin || otm > profile.OTMMax {
			continue
		}
		diag.OTMBandMatches++

		absDelta := math.Abs(c.Delta)
		if absDelta < profile.DeltaMin || absDelta > profile.DeltaMax {
			continue
		}
		diag.DeltaMatches++

		if !f.passesContractLiquidity(c) {
			continue
		}
		diag.LiquidityMatches++

		survivors = append(survivors, c)
	}

	if len(survivors) == 0 {
		return nil, diag
	}

	best := survivors[0]
	for _, c := range survivors[1:] {
		if f.betterShort(c, best, profile.TargetDelta) {
			best = c
		}
	}
	return best, diag
}

// betterShort reports whether a should replace b as the short strike.
func (f *Finder) betterShort(a, b *contracts.OptionContract, targetDelta float64) bool {
	distA := math.Abs(math.Abs(a.Delta) - targetDelta)
	distB := math.Abs(math.Abs(b.Delta) - targetDelta)
	if distA != distB {
		return distA < distB
	}
	if a.Bid != b.Bid {
		return a.Bid > b.Bid
	}
	return a.SpreadPct() < b.SpreadPct()
}

// selectLongStrike picks the same-side contract whose distance from the
// short strike is inside [widthMin, widthMax], closest to the band
// midpoint.
func (f *Finder) selectLongStrike(input Input, side contracts.OptionSide, shortStrike float64) *contracts.OptionContract {
	midWidth := (f.config.WidthMin + f.config.WidthMax) / 2

	var best *contracts.OptionContract
	bestDist := math.MaxFloat64

	for i := range input.Contracts {
		c := &input.Contracts[i]
		if c.Side != side || c.Strike == shortStrike {
			continue
		}

		// The long leg sits further OTM than the short leg.
		var width float64
		if side == contracts.SidePut {
			width = shortStrike - c.Strike
		} else {
			width = c.Strike - shortStrike
		}
		if width < f.config.WidthMin || width > f.config.WidthMax {
			continue
		}

		dist := math.Abs(width - midWidth)
		if dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}

func (f *Finder) passesContractLiquidity(c *contracts.OptionContract) bool {
	if c.Bid < f.config.Liquidity.MinBid {
		return false
	}
	if c.SpreadPct() > f.config.Liquidity.MaxSpreadPct {
		return false
	}
	if c.OpenInterest < f.config.Liquidity.MinOI {
		return false
	}
	if c.Volume < f.config.Liquidity.MinVolume {
		return false
	}
	return true
}

// resolveEconomics computes credit, max loss, breakeven, theta/day, and
// POP from the resolved legs. Credit and max loss never go negative.
func (f *Finder) resolveEconomics(candidate *contracts.StrikeCandidate, short, long *contracts.OptionContract) {
	if long != nil {
		candidate.Credit = math.Max(short.Bid-long.Ask, 0)
		candidate.MaxLoss = math.Max(candidate.Width()-candidate.Credit, 0)
		candidate.ThetaPerDay = short.Theta - long.Theta
	} else {
		candidate.Credit = short.Bid
		candidate.MaxLoss = math.Max(candidate.ShortStrike-candidate.Credit, 0)
		candidate.ThetaPerDay = short.Theta
	}

	if short.Side == contracts.SidePut {
		candidate.Breakeven = candidate.ShortStrike - candidate.Credit
	} else {
		candidate.Breakeven = candidate.ShortStrike + candidate.Credit
	}

	if short.Delta != 0 {
		candidate.POP = 1 - math.Abs(short.Delta)
	} else {
		// Delta unavailable: assume a coin flip.
		candidate.POP = 0.5
	}
}

// applyGuardrails rejects candidates whose credit is economically not
// worth the risk, independent of strike selection.
func (f *Finder) applyGuardrails(candidate *contracts.StrikeCandidate) {
	if candidate.Credit < f.config.MinCredit {
		candidate.Reasons = append(candidate.Reasons, contracts.Exclude(
			contracts.InsufficientCredit,
			fmt.Sprintf("credit %.2f is below the %.2f floor", candidate.Credit, f.config.MinCredit),
		))
	}

	if candidate.LongStrike != nil {
		ratio := candidate.CreditToWidth()
		if ratio < f.config.MinCreditToWidth {
			candidate.Reasons = append(candidate.Reasons, contracts.Exclude(
				contracts.PoorCreditToWidth,
				fmt.Sprintf("credit/width %.2f is below the %.2f floor", ratio, f.config.MinCreditToWidth),
			))
		}
	}
}
