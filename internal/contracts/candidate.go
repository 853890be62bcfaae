package contracts

import "time"

// IVRegime classifies the implied-volatility trend.
type IVRegime string

const (
	IVExpanding IVRegime = "EXPANDING"
	IVCrushed   IVRegime = "CRUSHED"
	IVStable    IVRegime = "STABLE"
	IVUnknown   IVRegime = "UNKNOWN"
)

// TradeCandidate is the fully resolved, scored, explainable unit
// returned to callers. Immutable once built.
type TradeCandidate struct {
	Ticker      string     `json:"ticker"`
	Strategy    Strategy   `json:"strategy"`
	Expiration  time.Time  `json:"expiration"`
	DTE         int        `json:"dte"`
	ShortStrike float64    `json:"short_strike"`
	LongStrike  *float64   `json:"long_strike,omitempty"`
	Credit      float64    `json:"credit"`
	MaxLoss     float64    `json:"max_loss"`
	Breakeven   float64    `json:"breakeven"`
	ThetaPerDay float64    `json:"theta_per_day"`
	POP         float64    `json:"pop"`
	ShortDelta  float64    `json:"short_delta"`
	IV          float64    `json:"iv"`
	IVRegime    IVRegime   `json:"iv_regime"`
	StockRegime Regime     `json:"stock_regime"`
	RiskFlags   []RiskFlag `json:"risk_flags,omitempty"`
	Score       ScoreResult `json:"score"`
	Why         []string   `json:"why,omitempty"`
}

// RequiredCollateral returns the capital reserved for the trade:
// spread max loss per contract for defined-risk strategies, full strike
// value for a cash-secured put, and zero incremental cash for a covered
// call (shares are the collateral).
func (t *TradeCandidate) RequiredCollateral() float64 {
	const contractMultiplier = 100
	switch t.Strategy {
	case StrategyCSP:
		return (t.ShortStrike - t.Credit) * contractMultiplier
	case StrategyCC:
		return 0
	default:
		return t.MaxLoss * contractMultiplier
	}
}
