package contracts

import "time"

// ExpirationCandidate is one strike-resolved expiration awaiting
// ranking.
type ExpirationCandidate struct {
	Strategy    Strategy   `json:"strategy"`
	Expiration  time.Time  `json:"expiration"`
	DTE         int        `json:"dte"`
	ThetaPerDay float64    `json:"theta_per_day"`
	Credit      float64    `json:"credit"`
	MaxLoss     float64    `json:"max_loss"`
	Flags       []RiskFlag `json:"flags,omitempty"`
}

// ExpirationRanked is an expiration candidate with its derived rank
// score in [0,1].
type ExpirationRanked struct {
	ExpirationCandidate
	Score float64 `json:"score"`
}
