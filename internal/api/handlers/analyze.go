package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/expiration"
	"github.com/sellside/underwriter/internal/explain"
	"github.com/sellside/underwriter/internal/liquidity"
	"github.com/sellside/underwriter/internal/scoring"
	"github.com/sellside/underwriter/internal/sizing"
	"github.com/sellside/underwriter/internal/strategy"
	"github.com/sellside/underwriter/internal/strike"
	"github.com/sellside/underwriter/pkg/logger"
)

// AnalyzeHandler exposes the stateless evaluation stages over HTTP so
// callers can probe a single stage with their own inputs.
type AnalyzeHandler struct {
	strikeFinder *strike.Finder
	expRanker    *expiration.Ranker
	scorer       *scoring.Engine
	liquidityCfg liquidity.Config
	logger       *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(
	strikeFinder *strike.Finder,
	expRanker *expiration.Ranker,
	scorer *scoring.Engine,
	liquidityCfg liquidity.Config,
	log *logger.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		strikeFinder: strikeFinder,
		expRanker:    expRanker,
		scorer:       scorer,
		liquidityCfg: liquidityCfg,
		logger:       log,
	}
}

// LiquidityRequest carries one liquidity gate evaluation
type LiquidityRequest struct {
	AvgDailyVolume int64                      `json:"avg_daily_volume"`
	ShortStrike    float64                    `json:"short_strike,omitempty"`
	Contracts      []contracts.OptionContract `json:"contracts"`
}

// Liquidity evaluates the stock and options liquidity gate
// POST /api/analyze/liquidity
func (h *AnalyzeHandler) Liquidity(w http.ResponseWriter, r *http.Request) {
	var req LiquidityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AvgDailyVolume < 0 {
		respondError(w, http.StatusBadRequest, "Average daily volume cannot be negative")
		return
	}

	result := liquidity.Evaluate(liquidity.Input{
		AvgDailyVolume: req.AvgDailyVolume,
		ShortStrike:    req.ShortStrike,
		Contracts:      req.Contracts,
	}, h.liquidityCfg)

	respondJSON(w, http.StatusOK, result)
}

// StrategyRequest carries one strategy selection
type StrategyRequest struct {
	Fundamentals      *contracts.Fundamentals `json:"fundamentals,omitempty"`
	MarketRegime      contracts.Regime        `json:"market_regime"`
	StockRegime       contracts.Regime        `json:"stock_regime"`
	PreferDefinedRisk bool                    `json:"prefer_defined_risk,omitempty"`
	OwnsShares        bool                    `json:"owns_shares,omitempty"`
}

// Strategy maps regimes and fundamentals to the eligible strategy set
// POST /api/analyze/strategy
func (h *AnalyzeHandler) Strategy(w http.ResponseWriter, r *http.Request) {
	var req StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !validRegime(req.MarketRegime) || !validRegime(req.StockRegime) {
		respondError(w, http.StatusBadRequest, "Regimes must be BULL, NEUTRAL, or BEAR")
		return
	}

	selection := strategy.Select(strategy.SelectionInput{
		Fundamentals:      req.Fundamentals,
		MarketRegime:      req.MarketRegime,
		StockRegime:       req.StockRegime,
		PreferDefinedRisk: req.PreferDefinedRisk,
		OwnsShares:        req.OwnsShares,
	})

	respondJSON(w, http.StatusOK, selection)
}

// StrikeRequest carries one strike search for a single expiration
type StrikeRequest struct {
	Underlying      string                     `json:"underlying"`
	UnderlyingPrice float64                    `json:"underlying_price"`
	Strategy        contracts.Strategy         `json:"strategy"`
	Expiration      string                     `json:"expiration"` // YYYY-MM-DD
	Contracts       []contracts.OptionContract `json:"contracts"`
}

// Strike runs the two-stage strike search
// POST /api/analyze/strike
func (h *AnalyzeHandler) Strike(w http.ResponseWriter, r *http.Request) {
	var req StrikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UnderlyingPrice <= 0 {
		respondError(w, http.StatusBadRequest, "Underlying price must be positive")
		return
	}
	if !validStrategy(req.Strategy) {
		respondError(w, http.StatusBadRequest, "Strategy must be CSP, PCS, CCS, or CC")
		return
	}
	expiration, err := parseDate(req.Expiration)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid expiration date format (expected YYYY-MM-DD)")
		return
	}

	candidate := h.strikeFinder.Find(strike.Input{
		Underlying:      req.Underlying,
		UnderlyingPrice: req.UnderlyingPrice,
		Strategy:        req.Strategy,
		Expiration:      expiration,
		Contracts:       req.Contracts,
	})

	respondJSON(w, http.StatusOK, candidate)
}

// ExpirationsRequest carries strike-resolved expirations for ranking
type ExpirationsRequest struct {
	Candidates []contracts.ExpirationCandidate `json:"candidates"`
}

// Expirations ranks strike-resolved expirations by the DTE and yield
// composite
// POST /api/analyze/expirations
func (h *AnalyzeHandler) Expirations(w http.ResponseWriter, r *http.Request) {
	var req ExpirationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ranked := h.expRanker.Rank(req.Candidates)

	respondJSON(w, http.StatusOK, ranked)
}

// ScoreRequest carries the upstream signals for one confidence score
type ScoreRequest struct {
	Ticker               string                  `json:"ticker"`
	Fundamentals         *contracts.Fundamentals `json:"fundamentals,omitempty"`
	LiquidityEvaluated   bool                    `json:"liquidity_evaluated"`
	LiquidityPassed      bool                    `json:"liquidity_passed"`
	IV                   float64                 `json:"iv"`
	IVChangeRate         *float64                `json:"iv_change_rate,omitempty"`
	TrendScore           *float64                `json:"trend_score,omitempty"`
	RiskFlags            []contracts.RiskFlag    `json:"risk_flags,omitempty"`
}

// Score computes the 0-100 confidence score
// POST /api/analyze/score
func (h *AnalyzeHandler) Score(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TrendScore != nil && (*req.TrendScore < 0 || *req.TrendScore > 1) {
		respondError(w, http.StatusBadRequest, "Trend score must be within [0,1]")
		return
	}

	vol := scoring.AssessVolatility(req.IV, req.IVChangeRate, scoring.DefaultVolatilityConfig())

	result := h.scorer.Score(scoring.Input{
		Ticker:               req.Ticker,
		Fundamentals:         req.Fundamentals,
		LiquidityEvaluated:   req.LiquidityEvaluated,
		LiquidityPassed:      req.LiquidityPassed,
		VolatilityMultiplier: vol.Multiplier,
		TrendScore:           req.TrendScore,
		RiskFlags:            req.RiskFlags,
	})

	respondJSON(w, http.StatusOK, result)
}

// SizingRequest carries one advisory sizing check
type SizingRequest struct {
	AccountSize        float64 `json:"account_size"`
	RequiredCollateral float64 `json:"required_collateral"`
	MaxAllocationPct   float64 `json:"max_allocation_pct,omitempty"`
}

// Sizing runs the advisory per-trade allocation check
// POST /api/analyze/sizing
func (h *AnalyzeHandler) Sizing(w http.ResponseWriter, r *http.Request) {
	var req SizingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.RequiredCollateral < 0 {
		respondError(w, http.StatusBadRequest, "Required collateral cannot be negative")
		return
	}

	result := sizing.Check(sizing.Input{
		AccountSize:        req.AccountSize,
		RequiredCollateral: req.RequiredCollateral,
		MaxAllocationPct:   req.MaxAllocationPct,
	})

	respondJSON(w, http.StatusOK, result)
}

// ExplainRequest carries the signals behind one candidate rationale
type ExplainRequest struct {
	Ticker      string                     `json:"ticker"`
	Strategy    contracts.Strategy         `json:"strategy"`
	ShortStrike float64                    `json:"short_strike"`
	ShortDelta  float64                    `json:"short_delta"`
	OTMPct      float64                    `json:"otm_pct"`
	DTE         int                        `json:"dte"`
	IV          float64                    `json:"iv"`
	IVRegime    contracts.IVRegime         `json:"iv_regime,omitempty"`
	AvgVolume   int64                      `json:"avg_volume,omitempty"`
	MarketCap   float64                    `json:"market_cap,omitempty"`
	DistFrom200 *float64                   `json:"dist_from_200,omitempty"`
	Calendar    *contracts.CalendarSnapshot `json:"calendar,omitempty"`
	Score       *contracts.ScoreResult     `json:"score,omitempty"`
	RiskFlags   []contracts.RiskFlag       `json:"risk_flags,omitempty"`
}

// Explain builds the ordered rationale bullets and consolidated flags
// POST /api/analyze/explain
func (h *AnalyzeHandler) Explain(w http.ResponseWriter, r *http.Request) {
	var req ExplainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "Ticker is required")
		return
	}

	result := explain.Build(explain.Input{
		Ticker:      req.Ticker,
		Strategy:    req.Strategy,
		ShortStrike: req.ShortStrike,
		ShortDelta:  req.ShortDelta,
		OTMPct:      req.OTMPct,
		DTE:         req.DTE,
		IV:          req.IV,
		IVRegime:    req.IVRegime,
		AvgVolume:   req.AvgVolume,
		MarketCap:   req.MarketCap,
		DistFrom200: req.DistFrom200,
		Calendar:    req.Calendar,
		Score:       req.Score,
		RiskFlags:   req.RiskFlags,
	})

	respondJSON(w, http.StatusOK, result)
}

func parseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}

func validRegime(r contracts.Regime) bool {
	switch r {
	case contracts.RegimeBull, contracts.RegimeNeutral, contracts.RegimeBear:
		return true
	}
	return false
}

func validStrategy(s contracts.Strategy) bool {
	switch s {
	case contracts.StrategyCSP, contracts.StrategyPCS, contracts.StrategyCCS, contracts.StrategyCC:
		return true
	}
	return false
}
