package strategy

import (
	"github.com/sellside/underwriter/internal/contracts"
)

// SelectionInput carries everything strategy eligibility depends on.
type SelectionInput struct {
	Fundamentals      *contracts.Fundamentals
	MarketRegime      contracts.Regime
	StockRegime       contracts.Regime
	PreferDefinedRisk bool
	OwnsShares        bool // covered calls need stock; kept advisory here
}

// Select maps regimes plus fundamental holdability into the eligible
// strategy set. The output is never a single forced strategy.
//
// Put-side strategies are off only when both regimes are BEAR;
// call-side strategies are off only when both regimes are BULL.
// Assignment-style strategies additionally require holdable
// fundamentals and no defined-risk bias.
func Select(input SelectionInput) contracts.StrategySelection {
	holdable := input.Fundamentals != nil && input.Fundamentals.Holdable()

	// Defined-risk bias is explicit or implied by failing holdability.
	definedRiskOnly := input.PreferDefinedRisk || !holdable

	selection := contracts.StrategySelection{
		Strategies:         make([]contracts.Strategy, 0, 4),
		MarketRegime:       input.MarketRegime,
		StockRegime:        input.StockRegime,
		AssignmentEligible: holdable,
	}

	bothBear := input.MarketRegime == contracts.RegimeBear && input.StockRegime == contracts.RegimeBear
	bothBull := input.MarketRegime == contracts.RegimeBull && input.StockRegime == contracts.RegimeBull

	if !bothBear {
		selection.Strategies = append(selection.Strategies, contracts.StrategyPCS)
		if !definedRiskOnly {
			selection.Strategies = append(selection.Strategies, contracts.StrategyCSP)
		}
	}

	if !bothBull {
		selection.Strategies = append(selection.Strategies, contracts.StrategyCCS)
		if !definedRiskOnly {
			selection.Strategies = append(selection.Strategies, contracts.StrategyCC)
		}
	}

	return selection
}
