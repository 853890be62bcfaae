package explain

import (
	"fmt"
	"math"

	"github.com/sellside/underwriter/internal/contracts"
)

const maxBullets = 6

// Input is the union of upstream signals for one candidate.
type Input struct {
	Ticker       string
	Strategy     contracts.Strategy
	ShortStrike  float64
	ShortDelta   float64
	OTMPct       float64
	DTE          int
	IV           float64
	IVRegime     contracts.IVRegime
	AvgVolume    int64
	MarketCap    float64
	DistFrom200  *float64
	Calendar     *contracts.CalendarSnapshot
	Score        *contracts.ScoreResult
	RiskFlags    []contracts.RiskFlag
}

// Result is the ranked rationale plus the consolidated flag set.
type Result struct {
	Why       []string             `json:"why"`
	RiskFlags []contracts.RiskFlag `json:"risk_flags"`
}

// Build turns upstream signals into ordered human-readable bullets and
// a de-duplicated risk-flag set. At least three bullets are guaranteed
// whenever a score is available.
func Build(input Input) Result {
	why := make([]string, 0, maxBullets)

	if input.IV > 0 {
		bullet := fmt.Sprintf("IV at %.0f%%", input.IV*100)
		if input.IVRegime != contracts.IVUnknown && input.IVRegime != "" {
			bullet += fmt.Sprintf(" (%s)", input.IVRegime)
		}
		why = append(why, bullet)
	}

	if input.ShortStrike > 0 {
		why = append(why, fmt.Sprintf("short %.2f strike at %.2f delta, %.1f%% OTM",
			input.ShortStrike, math.Abs(input.ShortDelta), input.OTMPct*100))
	}

	// Band wording tracks the expiration ranker's 30-60 hard and
	// 25-70 soft bands.
	if input.DTE > 0 {
		switch {
		case input.DTE >= 30 && input.DTE <= 60:
			why = append(why, fmt.Sprintf("%d DTE inside the 30-60 day target window", input.DTE))
		case input.DTE >= 25 && input.DTE <= 70:
			why = append(why, fmt.Sprintf("%d DTE near the 30-60 day target window", input.DTE))
		default:
			why = append(why, fmt.Sprintf("%d DTE outside the 30-60 day target window", input.DTE))
		}
	}

	if input.AvgVolume > 0 {
		why = append(why, fmt.Sprintf("average daily volume %.1fM shares", float64(input.AvgVolume)/1_000_000))
	}

	if input.MarketCap > 0 {
		why = append(why, fmt.Sprintf("market cap $%.1fB", input.MarketCap/1_000_000_000))
	}

	if input.DistFrom200 != nil {
		why = append(why, fmt.Sprintf("trading %.1f%% from the 200-day average", *input.DistFrom200))
	}

	if input.Calendar != nil && input.Calendar.DaysToEarnings >= 0 {
		why = append(why, fmt.Sprintf("next earnings in %d days", input.Calendar.DaysToEarnings))
	}

	if len(why) > maxBullets {
		why = why[:maxBullets]
	}

	// Pad to three bullets when the organic rationale is thin.
	if len(why) < 3 && input.Score != nil {
		why = append(why, fmt.Sprintf("confidence score %d/100 (%s)",
			input.Score.Breakdown.Total, input.Score.Tier))
		if len(why) < 3 {
			why = append(why, "meets baseline universe, liquidity, and strike filters")
		}
	}

	flags := contracts.NewFlagSet(input.RiskFlags...)
	if input.Calendar != nil {
		if input.Calendar.EarningsWithin(input.DTE) {
			flags.Add(contracts.RiskEarningsWithinTrade)
		}
		if input.Calendar.MacroEventWithin(14) {
			flags.Add(contracts.RiskMacroEvent)
		}
	}

	return Result{
		Why:       why,
		RiskFlags: flags.Slice(),
	}
}
