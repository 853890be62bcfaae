package contracts

// Component ceilings for the confidence score, per the product weight
// table (30/20/20/20/10).
const (
	WeightFundamentals = 30
	WeightLiquidity    = 20
	WeightVolatility   = 20
	WeightTrend        = 20
	WeightEventRisk    = 10
)

// Interpretation tiers.
type ScoreTier string

const (
	TierHigh       ScoreTier = "HIGH"       // >= 80
	TierAcceptable ScoreTier = "ACCEPTABLE" // >= 65
	TierPass       ScoreTier = "PASS"       // below 65: no trade
)

// ScoreBreakdown holds the five clamped integer sub-scores.
// Invariant: Total == sum of components and 0 <= Total <= 100.
type ScoreBreakdown struct {
	Fundamentals int `json:"fundamentals"` // <= 30
	Liquidity    int `json:"liquidity"`    // <= 20
	Volatility   int `json:"volatility"`   // <= 20
	Trend        int `json:"trend"`        // <= 20
	EventRisk    int `json:"event_risk"`   // <= 10
	Total        int `json:"total"`
}

// Tier returns the interpretation tier for the total.
func (b *ScoreBreakdown) Tier() ScoreTier {
	switch {
	case b.Total >= 80:
		return TierHigh
	case b.Total >= 65:
		return TierAcceptable
	default:
		return TierPass
	}
}

// ScoreResult pairs the breakdown with its tier.
type ScoreResult struct {
	Breakdown ScoreBreakdown `json:"breakdown"`
	Tier      ScoreTier      `json:"tier"`
}
