package contracts

import "time"

// SearchDiagnostics summarizes why a strike search failed, counting
// survivors at each filter stage so failures stay explainable.
type SearchDiagnostics struct {
	SideContracts  int `json:"side_contracts"`
	OTMBandMatches int `json:"otm_band_matches"`
	DeltaMatches   int `json:"delta_matches"`
	LiquidityMatches int `json:"liquidity_matches"`
}

// StrikeCandidate is the resolved strike pair (or lone short strike) for
// one (strategy, expiration). Non-empty Reasons means the candidate is
// invalid and must not be used downstream.
type StrikeCandidate struct {
	Strategy    Strategy   `json:"strategy"`
	Expiration  time.Time  `json:"expiration"`
	ShortStrike float64    `json:"short_strike"`
	LongStrike  *float64   `json:"long_strike,omitempty"`
	Credit      float64    `json:"credit"`
	MaxLoss     float64    `json:"max_loss"`
	Breakeven   float64    `json:"breakeven"`
	ThetaPerDay float64    `json:"theta_per_day"`
	POP         float64    `json:"pop"`
	ShortDelta  float64    `json:"short_delta"`
	OTMPct      float64    `json:"otm_pct"`
	IV          float64    `json:"iv"`
	Reasons     []Reason   `json:"reasons,omitempty"`
	Diagnostics *SearchDiagnostics `json:"diagnostics,omitempty"`
}

// Valid reports whether the candidate can be used downstream.
func (c *StrikeCandidate) Valid() bool {
	return len(c.Reasons) == 0
}

// Width returns the spread width, or 0 for single-leg strategies.
func (c *StrikeCandidate) Width() float64 {
	if c.LongStrike == nil {
		return 0
	}
	w := c.ShortStrike - *c.LongStrike
	if w < 0 {
		w = -w
	}
	return w
}

// CreditToWidth returns credit/width for spreads, 0 otherwise.
func (c *StrikeCandidate) CreditToWidth() float64 {
	w := c.Width()
	if w <= 0 {
		return 0
	}
	return c.Credit / w
}

// CreditToMaxLoss returns credit/maxLoss, 0 when maxLoss is zero.
func (c *StrikeCandidate) CreditToMaxLoss() float64 {
	if c.MaxLoss <= 0 {
		return 0
	}
	return c.Credit / c.MaxLoss
}
