package contracts

import "time"

// TickerSource selects where the qualify run gets its universe from.
type TickerSource string

const (
	SourceManual      TickerSource = "MANUAL"
	SourceRecommended TickerSource = "RECOMMENDED"
)

// Preferences carries per-run caller preferences.
type Preferences struct {
	PreferDefinedRisk bool    `json:"prefer_defined_risk,omitempty"`
	MaxPerTradePct    float64 `json:"max_per_trade_pct,omitempty"`
}

// QualifyRequest is the top-level qualification request.
type QualifyRequest struct {
	Source                TickerSource `json:"source"`
	Tickers               []string     `json:"tickers,omitempty"`
	RecommendationProfile string       `json:"recommendation_profile,omitempty"`
	AccountSize           float64      `json:"account_size"`
	Preferences           *Preferences `json:"preferences,omitempty"`
	MaxCandidates         int          `json:"max_candidates,omitempty"`
}

// SizingResult is the advisory position-sizing check attached to each
// returned candidate. It never blocks candidate generation.
type SizingResult struct {
	RequiredCollateral float64 `json:"required_collateral"`
	AllocationPct      float64 `json:"allocation_pct"`
	MaxAllocationPct   float64 `json:"max_allocation_pct"`
	WithinLimit        bool    `json:"within_limit"`
	Warning            string  `json:"warning,omitempty"`
}

// QualifiedCandidate pairs a trade candidate with its sizing result.
type QualifiedCandidate struct {
	Ticker    string         `json:"ticker"`
	Candidate TradeCandidate `json:"candidate"`
	Sizing    SizingResult   `json:"sizing"`
}

// DisqualifiedTicker explains why a ticker produced no candidate.
type DisqualifiedTicker struct {
	Ticker  string   `json:"ticker"`
	Reasons []string `json:"reasons"`
}

// QualifyResponse is the ranked output of one orchestration run.
type QualifyResponse struct {
	RunID        string               `json:"run_id"`
	GeneratedAt  time.Time            `json:"generated_at"`
	Candidates   []QualifiedCandidate `json:"candidates"`
	Disqualified []DisqualifiedTicker `json:"disqualified"`
}

// Position is one open or prospective position for portfolio-level
// concentration checks.
type Position struct {
	Ticker     string  `json:"ticker"`
	Sector     string  `json:"sector"`
	Collateral float64 `json:"collateral"`
	Beta       float64 `json:"beta"`
}

// ConcentrationViolation is one portfolio-level finding.
type ConcentrationViolation struct {
	Flag    RiskFlag `json:"flag"`
	Message string   `json:"message"`
}

// ConcentrationResult is the portfolio-scoped risk evaluation output.
type ConcentrationResult struct {
	TotalCollateral float64                  `json:"total_collateral"`
	SectorShares    map[string]float64       `json:"sector_shares"`
	Flags           []RiskFlag               `json:"flags"`
	Violations      []ConcentrationViolation `json:"violations"`
}
