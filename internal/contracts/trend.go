package contracts

// Regime classifies a market or single-stock trend.
type Regime string

const (
	RegimeBull    Regime = "BULL"
	RegimeNeutral Regime = "NEUTRAL"
	RegimeBear    Regime = "BEAR"
)

// TrendMetrics carries the moving-average inputs for regime detection.
type TrendMetrics struct {
	Ticker       string  `json:"ticker"`
	Price        float64 `json:"price"`
	MA50         float64 `json:"ma_50"`
	MA100        float64 `json:"ma_100"`
	MA200        float64 `json:"ma_200"`
	DistFrom200  float64 `json:"dist_from_200"` // percent distance from the 200DMA
}

// TrendAssessment is the scored trend output for one ticker.
type TrendAssessment struct {
	Ticker       string     `json:"ticker"`
	StockRegime  Regime     `json:"stock_regime"`
	MarketRegime Regime     `json:"market_regime"`
	Score        float64    `json:"score"` // [0,1] safety score
	Conflict     bool       `json:"conflict"`
	Flags        []RiskFlag `json:"flags,omitempty"`
}
