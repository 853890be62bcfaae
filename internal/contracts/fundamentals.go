package contracts

// Fundamentals carries the slowly-changing company figures used for
// holdability checks and scoring. Cached on an hours scale.
type Fundamentals struct {
	Ticker       string  `json:"ticker"`
	MarketCap    float64 `json:"market_cap"`
	Sector       string  `json:"sector"`
	Industry     string  `json:"industry"`
	ROE          float64 `json:"roe"`
	NetMargin    float64 `json:"net_margin"`
	DebtToEquity float64 `json:"debt_to_equity"`
	CurrentRatio float64 `json:"current_ratio"`
	Beta         float64 `json:"beta"`
}

// Holdability thresholds: names failing any of these are ineligible for
// assignment-style strategies (CSP, CC).
const (
	HoldableMinMarketCap    = 5_000_000_000.0
	HoldableMaxDebtToEquity = 2.5
	HoldableMinCurrentRatio = 1.0
)

// Holdable reports whether the name passes the assignment-worthiness
// gate.
func (f *Fundamentals) Holdable() bool {
	return f.MarketCap >= HoldableMinMarketCap &&
		f.DebtToEquity <= HoldableMaxDebtToEquity &&
		f.CurrentRatio >= HoldableMinCurrentRatio
}
