package concentration

import (
	"fmt"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/logger"
)

// Config holds the portfolio concentration thresholds.
type Config struct {
	MaxSectorPct         float64 `yaml:"max_sector_pct"`
	CorrelatedSectorPct  float64 `yaml:"correlated_sector_pct"`
	MaxPositionsPerTicker int    `yaml:"max_positions_per_ticker"`
	HighBetaThreshold    float64 `yaml:"high_beta_threshold"`
}

// DefaultConfig returns the documented concentration defaults.
func DefaultConfig() Config {
	return Config{
		MaxSectorPct:          0.25,
		CorrelatedSectorPct:   0.40,
		MaxPositionsPerTicker: 1,
		HighBetaThreshold:     2.0,
	}
}

// Evaluator performs portfolio-scoped sector, ticker, and beta checks.
// It operates on a position set, independent of any single qualify run.
type Evaluator struct {
	config Config
	logger *logger.Logger
}

// NewEvaluator creates a new concentration evaluator.
func NewEvaluator(config Config, log *logger.Logger) *Evaluator {
	return &Evaluator{config: config, logger: log}
}

// Evaluate computes sector collateral shares and emits the applicable
// concentration flags with explanatory messages.
func (e *Evaluator) Evaluate(positions []contracts.Position) contracts.ConcentrationResult {
	result := contracts.ConcentrationResult{
		SectorShares: make(map[string]float64),
		Violations:   make([]contracts.ConcentrationViolation, 0),
	}

	for _, p := range positions {
		result.TotalCollateral += p.Collateral
	}

	flags := contracts.NewFlagSet()

	if result.TotalCollateral > 0 {
		sectorCollateral := make(map[string]float64)
		for _, p := range positions {
			sectorCollateral[p.Sector] += p.Collateral
		}

		for sector, collateral := range sectorCollateral {
			share := collateral / result.TotalCollateral
			result.SectorShares[sector] = share

			if share >= e.config.MaxSectorPct {
				flags.Add(contracts.RiskSectorConcentration)
				result.Violations = append(result.Violations, contracts.ConcentrationViolation{
					Flag: contracts.RiskSectorConcentration,
					Message: fmt.Sprintf("sector %s holds %.0f%% of collateral, above the %.0f%% limit",
						sector, share*100, e.config.MaxSectorPct*100),
				})
			}

			if share >= e.config.CorrelatedSectorPct {
				flags.Add(contracts.RiskCorrelatedExposure)
				result.Violations = append(result.Violations, contracts.ConcentrationViolation{
					Flag: contracts.RiskCorrelatedExposure,
					Message: fmt.Sprintf("sector %s holds %.0f%% of collateral, a correlated-exposure level",
						sector, share*100),
				})
			}
		}
	}

	tickerCounts := make(map[string]int)
	for _, p := range positions {
		tickerCounts[p.Ticker]++
	}
	for ticker, count := range tickerCounts {
		if count > e.config.MaxPositionsPerTicker {
			flags.Add(contracts.RiskCorrelatedExposure)
			result.Violations = append(result.Violations, contracts.ConcentrationViolation{
				Flag: contracts.RiskCorrelatedExposure,
				Message: fmt.Sprintf("%d open positions on %s exceed the %d allowed",
					count, ticker, e.config.MaxPositionsPerTicker),
			})
		}
	}

	for _, p := range positions {
		if p.Beta >= e.config.HighBetaThreshold {
			flags.Add(contracts.RiskCorrelatedExposure)
			result.Violations = append(result.Violations, contracts.ConcentrationViolation{
				Flag: contracts.RiskCorrelatedExposure,
				Message: fmt.Sprintf("%s carries beta %.1f, at or above the %.1f high-beta threshold",
					p.Ticker, p.Beta, e.config.HighBetaThreshold),
			})
		}
	}

	result.Flags = flags.Slice()

	e.logger.WithFields(map[string]interface{}{
		"positions":  len(positions),
		"violations": len(result.Violations),
	}).Debug("Concentration evaluation completed")

	return result
}
