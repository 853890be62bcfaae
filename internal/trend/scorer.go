package trend

import (
	"github.com/sellside/underwriter/internal/contracts"
)

// Config holds the trend blend weights and the conflict penalty.
type Config struct {
	AlignmentWeight float64 `yaml:"alignment_weight"`
	DistanceWeight  float64 `yaml:"distance_weight"`
	ConflictPenalty float64 `yaml:"conflict_penalty"`
}

// DefaultConfig returns the documented trend defaults.
func DefaultConfig() Config {
	return Config{
		AlignmentWeight: 0.5,
		DistanceWeight:  0.5,
		ConflictPenalty: 0.2,
	}
}

// Scorer computes regime and trend-safety scores from moving-average
// alignment.
type Scorer struct {
	config Config
}

// NewScorer creates a new trend scorer.
func NewScorer(config Config) *Scorer {
	return &Scorer{config: config}
}

// Regime classifies a single trend snapshot: price more than 3% above
// the 200DMA is BULL, more than 3% below is BEAR, else NEUTRAL.
func Regime(m contracts.TrendMetrics) contracts.Regime {
	if m.MA200 <= 0 {
		return contracts.RegimeNeutral
	}
	switch {
	case m.Price > m.MA200*1.03:
		return contracts.RegimeBull
	case m.Price < m.MA200*0.97:
		return contracts.RegimeBear
	default:
		return contracts.RegimeNeutral
	}
}

// AlignmentScore rewards stacked moving averages: 0.5 for 50>=100 and
// another 0.5 for 100>=200.
func AlignmentScore(m contracts.TrendMetrics) float64 {
	score := 0.0
	if m.MA50 >= m.MA100 {
		score += 0.5
	}
	if m.MA100 >= m.MA200 {
		score += 0.5
	}
	return score
}

// DistanceScore is a fixed step function of percent distance from the
// 200DMA.
func DistanceScore(distPct float64) float64 {
	switch {
	case distPct >= 15:
		return 1.0
	case distPct >= 5:
		return 0.7
	case distPct >= -5:
		return 0.5
	case distPct >= -15:
		return 0.3
	default:
		return 0.1
	}
}

// Assess blends alignment and distance into a safety score and flags a
// stock/market regime conflict.
func (s *Scorer) Assess(stock contracts.TrendMetrics, market contracts.TrendMetrics) contracts.TrendAssessment {
	stockRegime := Regime(stock)
	marketRegime := Regime(market)

	score := AlignmentScore(stock)*s.config.AlignmentWeight +
		DistanceScore(stock.DistFrom200)*s.config.DistanceWeight

	assessment := contracts.TrendAssessment{
		Ticker:       stock.Ticker,
		StockRegime:  stockRegime,
		MarketRegime: marketRegime,
	}

	if stockRegime != marketRegime {
		assessment.Conflict = true
		assessment.Flags = append(assessment.Flags, contracts.RiskTrendConflict)
		score -= s.config.ConflictPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	assessment.Score = score

	return assessment
}
