package liquidity

import (
	"fmt"
	"math"

	"github.com/sellside/underwriter/internal/contracts"
)

// Config holds the liquidity gate thresholds.
type Config struct {
	MinAvgDailyVolume int64   `yaml:"min_avg_daily_volume"`
	MaxSpreadPct      float64 `yaml:"max_spread_pct"`
	MinOpenInterest   int64   `yaml:"min_open_interest"`
}

// DefaultConfig returns the documented gate defaults.
func DefaultConfig() Config {
	return Config{
		MinAvgDailyVolume: 1_000_000,
		MaxSpreadPct:      0.10,
		MinOpenInterest:   500,
	}
}

// Input is one gate evaluation: the stock's average volume, the chain
// slice for one expiration, and the target short strike (0 when none).
type Input struct {
	AvgDailyVolume int64
	ShortStrike    float64
	Contracts      []contracts.OptionContract
}

// Result is the gate outcome. Passed is true iff Reasons is empty. The
// gate is diagnostic only; the orchestrator decides whether to proceed.
type Result struct {
	Passed         bool               `json:"passed"`
	Reasons        []contracts.Reason `json:"reasons,omitempty"`
	SpreadPct      float64            `json:"spread_pct"`
	OpenInterest   int64              `json:"open_interest"`
	CheckedStrike  float64            `json:"checked_strike"`
}

// Evaluate applies all three checks independently and returns every
// applicable reason, not just the first.
func Evaluate(input Input, cfg Config) Result {
	result := Result{Reasons: make([]contracts.Reason, 0)}

	if input.AvgDailyVolume < cfg.MinAvgDailyVolume {
		result.Reasons = append(result.Reasons, contracts.Exclude(
			contracts.DisqualifiedLowStockLiquidity,
			fmt.Sprintf("average daily volume %d is below the %d floor", input.AvgDailyVolume, cfg.MinAvgDailyVolume),
		))
	}

	if probe := pickProbeContract(input); probe != nil {
		result.CheckedStrike = probe.Strike
		result.SpreadPct = probe.SpreadPct()
		result.OpenInterest = probe.OpenInterest

		if result.SpreadPct > cfg.MaxSpreadPct {
			result.Reasons = append(result.Reasons, contracts.Exclude(
				contracts.DisqualifiedWideOptionsSpread,
				fmt.Sprintf("bid/ask spread %.1f%% at strike %.2f exceeds the %.1f%% cap",
					result.SpreadPct*100, probe.Strike, cfg.MaxSpreadPct*100),
			))
		}

		if probe.OpenInterest < cfg.MinOpenInterest {
			result.Reasons = append(result.Reasons, contracts.Exclude(
				contracts.DisqualifiedLowOpenInterest,
				fmt.Sprintf("open interest %d at strike %.2f is below the %d floor",
					probe.OpenInterest, probe.Strike, cfg.MinOpenInterest),
			))
		}
	}

	result.Passed = len(result.Reasons) == 0
	return result
}

// pickProbeContract chooses the contract nearest the target strike, or
// the highest-open-interest contract when no target is given.
func pickProbeContract(input Input) *contracts.OptionContract {
	if len(input.Contracts) == 0 {
		return nil
	}

	var probe *contracts.OptionContract
	if input.ShortStrike > 0 {
		bestDist := math.MaxFloat64
		for i := range input.Contracts {
			dist := math.Abs(input.Contracts[i].Strike - input.ShortStrike)
			if dist < bestDist {
				bestDist = dist
				probe = &input.Contracts[i]
			}
		}
	} else {
		var bestOI int64 = -1
		for i := range input.Contracts {
			if input.Contracts[i].OpenInterest > bestOI {
				bestOI = input.Contracts[i].OpenInterest
				probe = &input.Contracts[i]
			}
		}
	}
	return probe
}
