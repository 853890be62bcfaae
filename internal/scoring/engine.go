package scoring

import (
	"math"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/logger"
)

// Engine computes the 0-100 confidence score from the five weighted
// components of the product weight table.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new scoring engine.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Input carries the upstream signals one score depends on.
type Input struct {
	Ticker               string
	Fundamentals         *contracts.Fundamentals
	LiquidityEvaluated   bool
	LiquidityPassed      bool
	VolatilityMultiplier float64
	TrendScore           *float64 // nil when trend data was unavailable
	RiskFlags            []contracts.RiskFlag
}

// Score produces the clamped breakdown and its interpretation tier.
func (e *Engine) Score(input Input) contracts.ScoreResult {
	breakdown := contracts.ScoreBreakdown{
		Fundamentals: e.fundamentalsScore(input.Fundamentals),
		Liquidity:    e.liquidityScore(input.LiquidityEvaluated, input.LiquidityPassed),
		Volatility:   e.volatilityScore(input.VolatilityMultiplier),
		Trend:        e.trendScore(input.TrendScore),
		EventRisk:    e.eventRiskScore(input.RiskFlags),
	}

	total := breakdown.Fundamentals + breakdown.Liquidity + breakdown.Volatility +
		breakdown.Trend + breakdown.EventRisk
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	breakdown.Total = total

	result := contracts.ScoreResult{
		Breakdown: breakdown,
		Tier:      breakdown.Tier(),
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker": input.Ticker,
		"total":  breakdown.Total,
		"tier":   result.Tier,
	}).Debug("Scored candidate")

	return result
}

// fundamentalsScore accumulates discrete credits scaled to the
// component weight: large cap, positive ROE, positive net margin,
// moderate leverage, healthy current ratio.
func (e *Engine) fundamentalsScore(f *contracts.Fundamentals) int {
	if f == nil {
		return clampComponent(float64(contracts.WeightFundamentals)*0.5, contracts.WeightFundamentals)
	}

	credits := 0
	if f.MarketCap >= 10_000_000_000 {
		credits++
	}
	if f.ROE > 0 {
		credits++
	}
	if f.NetMargin > 0 {
		credits++
	}
	if f.DebtToEquity >= 0 && f.DebtToEquity <= 1.5 {
		credits++
	}
	if f.CurrentRatio >= 1.2 {
		credits++
	}

	score := float64(contracts.WeightFundamentals) * float64(credits) / 5.0
	return clampComponent(score, contracts.WeightFundamentals)
}

// liquidityScore is binary-ish: full weight on a pass, 20% on a fail,
// 50% when no gate was evaluated.
func (e *Engine) liquidityScore(evaluated, passed bool) int {
	weight := float64(contracts.WeightLiquidity)
	switch {
	case !evaluated:
		return clampComponent(weight*0.5, contracts.WeightLiquidity)
	case passed:
		return clampComponent(weight, contracts.WeightLiquidity)
	default:
		return clampComponent(weight*0.2, contracts.WeightLiquidity)
	}
}

func (e *Engine) volatilityScore(multiplier float64) int {
	return clampComponent(float64(contracts.WeightVolatility)*multiplier, contracts.WeightVolatility)
}

// trendScore scales the trend-safety score to the weight, defaulting to
// 50% when trend data was unavailable.
func (e *Engine) trendScore(score *float64) int {
	if score == nil {
		return clampComponent(float64(contracts.WeightTrend)*0.5, contracts.WeightTrend)
	}
	return clampComponent(float64(contracts.WeightTrend)*(*score), contracts.WeightTrend)
}

// eventRiskScore starts at the full weight and loses 2 points per
// active risk flag, floored at zero.
func (e *Engine) eventRiskScore(flags []contracts.RiskFlag) int {
	score := contracts.WeightEventRisk - 2*len(contracts.DedupeFlags(flags))
	if score < 0 {
		score = 0
	}
	return score
}

func clampComponent(score float64, ceiling int) int {
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > ceiling {
		return ceiling
	}
	return rounded
}
