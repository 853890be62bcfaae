package expiration

import (
	"sort"

	"github.com/sellside/underwriter/internal/contracts"
)

// Config holds the expiration ranking knobs.
type Config struct {
	MinDTE       int     `yaml:"min_dte"`
	MaxDTE       int     `yaml:"max_dte"`
	SoftMinDTE   int     `yaml:"soft_min_dte"`
	SoftMaxDTE   int     `yaml:"soft_max_dte"`
	TopN         int     `yaml:"top_n"`
	EventPenalty float64 `yaml:"event_penalty"`
}

// DefaultConfig returns the documented ranking defaults: a 30-60 DTE
// sweet spot inside a 25-70 soft band.
func DefaultConfig() Config {
	return Config{
		MinDTE:       30,
		MaxDTE:       60,
		SoftMinDTE:   25,
		SoftMaxDTE:   70,
		TopN:         3,
		EventPenalty: 0.1,
	}
}

// Ranker scores and orders strike-resolved expirations.
type Ranker struct {
	config Config
}

// NewRanker creates a new expiration ranker.
func NewRanker(config Config) *Ranker {
	return &Ranker{config: config}
}

// DTEScore is a rank penalty, never an outright filter: 1.0 inside the
// target window, 0.6 inside the soft band, 0.2 elsewhere.
func (r *Ranker) DTEScore(dte int) float64 {
	switch {
	case dte >= r.config.MinDTE && dte <= r.config.MaxDTE:
		return 1.0
	case dte >= r.config.SoftMinDTE && dte <= r.config.SoftMaxDTE:
		return 0.6
	default:
		return 0.2
	}
}

// Rank scores every candidate and returns the top-N sorted descending.
// Equal scores keep input order (stable sort); the output never
// contains a candidate absent from the input.
func (r *Ranker) Rank(candidates []contracts.ExpirationCandidate) []contracts.ExpirationRanked {
	if len(candidates) == 0 {
		return nil
	}

	// Theta normalizes against the best theta in this batch.
	maxTheta := 0.0
	for _, c := range candidates {
		if c.ThetaPerDay > maxTheta {
			maxTheta = c.ThetaPerDay
		}
	}

	ranked := make([]contracts.ExpirationRanked, 0, len(candidates))
	for _, c := range candidates {
		score := r.score(c, maxTheta)
		ranked = append(ranked, contracts.ExpirationRanked{
			ExpirationCandidate: c,
			Score:               score,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	topN := r.config.TopN
	if topN <= 0 {
		topN = 3
	}
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// score blends the DTE band score with a premium-efficiency score and
// applies the event penalty only when the candidate already carries
// risk flags.
func (r *Ranker) score(c contracts.ExpirationCandidate, maxTheta float64) float64 {
	dteScore := r.DTEScore(c.DTE)

	thetaScore := 0.0
	if maxTheta > 0 {
		thetaScore = c.ThetaPerDay / maxTheta
	}

	creditRatio := 0.0
	if c.MaxLoss > 0 {
		creditRatio = c.Credit / c.MaxLoss
		if creditRatio > 1 {
			creditRatio = 1
		}
	}

	efficiency := 0.5*thetaScore + 0.5*creditRatio

	score := 0.6*dteScore + 0.4*efficiency
	if len(c.Flags) > 0 {
		score -= r.config.EventPenalty
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
