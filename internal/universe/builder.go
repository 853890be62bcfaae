package universe

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/pkg/logger"
)

// Valid US ticker shape: 1-5 letters, optional class suffix.
var symbolPattern = regexp.MustCompile(`^[A-Z]{1,5}(\.[A-Z])?$`)

// Builder applies the hard exclusion rules that produce the investable
// universe for a qualify run.
type Builder struct {
	profiles     contracts.ProfileProvider
	chains       contracts.ChainProvider
	constituents contracts.ConstituentsProvider
	config       Config
	logger       *logger.Logger
}

// Config holds universe filter criteria.
type Config struct {
	MinAvgVolume         int64    `yaml:"min_avg_volume"`          // shares/day
	MemeTickers          []string `yaml:"meme_tickers"`            // hard-excluded symbols
	MinOptionOI          int64    `yaml:"min_option_oi"`           // aggregate chain OI floor, 0 disables
	MinOptionVolume      int64    `yaml:"min_option_volume"`       // aggregate chain volume floor, 0 disables
	AllowUnknownProfile  bool     `yaml:"allow_unknown_profile"`   // keep tickers whose profile lookup failed
	AllowUnknownOptions  bool     `yaml:"allow_unknown_options"`   // keep tickers whose chain lookup failed
	CheckOptionLiquidity bool     `yaml:"check_option_liquidity"`  // enable the aggregate option floor
}

// DefaultConfig returns the documented universe defaults.
func DefaultConfig() Config {
	return Config{
		MinAvgVolume: 1_000_000,
		MemeTickers: []string{
			"GME", "AMC", "BBBY", "DJT", "HKD", "MULN",
		},
		MinOptionOI:          5_000,
		MinOptionVolume:      1_000,
		AllowUnknownProfile:  false,
		AllowUnknownOptions:  true,
		CheckOptionLiquidity: false,
	}
}

// NewBuilder creates a new universe builder.
func NewBuilder(
	profiles contracts.ProfileProvider,
	chains contracts.ChainProvider,
	constituents contracts.ConstituentsProvider,
	config Config,
	log *logger.Logger,
) *Builder {
	return &Builder{
		profiles:     profiles,
		chains:       chains,
		constituents: constituents,
		config:       config,
		logger:       log,
	}
}

// BuildRequest selects the ticker source for a universe build.
type BuildRequest struct {
	Source                contracts.TickerSource
	Tickers               []string
	RecommendationProfile string
}

// Build resolves the ticker list, normalizes it, and splits it into
// included and excluded decisions. All exclusion reasons are preserved
// for explainability; re-running on the same normalized list with
// unchanged provider data yields identical results.
func (b *Builder) Build(ctx context.Context, req BuildRequest) (*contracts.UniverseResult, error) {
	tickers := req.Tickers
	if req.Source == contracts.SourceRecommended {
		list, err := b.constituents.Constituents(ctx, req.RecommendationProfile)
		if err != nil {
			return nil, fmt.Errorf("resolve recommended universe: %w", err)
		}
		tickers = list
	}

	normalized := Normalize(tickers)

	result := &contracts.UniverseResult{
		Included: make([]contracts.TickerDecision, 0, len(normalized)),
		Excluded: make([]contracts.TickerDecision, 0),
	}

	for _, ticker := range normalized {
		decision := b.evaluate(ctx, ticker)
		if decision.Excluded() {
			result.Excluded = append(result.Excluded, decision)
		} else {
			result.Included = append(result.Included, decision)
		}
	}

	b.logger.WithFields(map[string]interface{}{
		"input":    len(normalized),
		"included": len(result.Included),
		"excluded": len(result.Excluded),
	}).Info("Universe build completed")

	return result, nil
}

// Normalize trims, uppercases, dedupes, and sorts a ticker list.
func Normalize(tickers []string) []string {
	seen := make(map[string]struct{}, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// evaluate accumulates every applicable exclusion reason for one
// ticker. Provider failures degrade to "unknown" instead of aborting.
func (b *Builder) evaluate(ctx context.Context, ticker string) contracts.TickerDecision {
	decision := contracts.TickerDecision{Ticker: ticker}

	if !symbolPattern.MatchString(ticker) {
		decision.Reasons = append(decision.Reasons, contracts.Exclude(
			contracts.ExcludeInvalidSymbol,
			fmt.Sprintf("%s is not a valid US equity symbol", ticker),
		))
		// No point resolving a profile for a malformed symbol.
		return decision
	}

	if b.isMemeTicker(ticker) {
		decision.Reasons = append(decision.Reasons, contracts.Exclude(
			contracts.ExcludeMemeTicker,
			fmt.Sprintf("%s is on the meme-risk exclusion list", ticker),
		))
	}

	profile, err := b.profiles.Profile(ctx, ticker)
	if err != nil || profile == nil {
		if !b.config.AllowUnknownProfile {
			decision.Reasons = append(decision.Reasons, contracts.Exclude(
				contracts.ExcludeUnknownProfile,
				fmt.Sprintf("no company profile could be resolved for %s", ticker),
			))
		}
		return decision
	}

	decision.Meta = contracts.TickerMeta{
		CompanyName:    profile.Name,
		Country:        profile.Country,
		Exchange:       profile.Exchange,
		Currency:       profile.Currency,
		AvgDailyVolume: profile.AvgVolume,
		Price:          profile.Price,
	}

	if profile.Country != "" && profile.Country != "US" {
		decision.Reasons = append(decision.Reasons, contracts.Exclude(
			contracts.ExcludeNonUSListing,
			fmt.Sprintf("%s is listed in %s, not the US", ticker, profile.Country),
		))
	}

	if b.looksInternational(profile) {
		decision.Reasons = append(decision.Reasons, contracts.Exclude(
			contracts.ExcludeADR,
			fmt.Sprintf("%s trades as an ADR or on an OTC venue (%s, %s)", ticker, profile.Exchange, profile.Currency),
		))
	}

	if profile.AvgVolume < b.config.MinAvgVolume {
		decision.Reasons = append(decision.Reasons, contracts.Exclude(
			contracts.ExcludeLowVolume,
			fmt.Sprintf("average daily volume %d is below the %d floor", profile.AvgVolume, b.config.MinAvgVolume),
		))
	}

	if b.config.CheckOptionLiquidity {
		b.checkOptionLiquidity(ctx, ticker, &decision)
	}

	return decision
}

// checkOptionLiquidity applies the aggregate chain OI/volume floor.
func (b *Builder) checkOptionLiquidity(ctx context.Context, ticker string, decision *contracts.TickerDecision) {
	chain, err := b.chains.Chain(ctx, ticker)
	if err != nil || chain == nil {
		if !b.config.AllowUnknownOptions {
			decision.Reasons = append(decision.Reasons, contracts.Exclude(
				contracts.ExcludeOptionsIlliquidity,
				fmt.Sprintf("option chain for %s could not be resolved", ticker),
			))
		}
		return
	}

	oi := chain.TotalOpenInterest()
	vol := chain.TotalVolume()
	decision.Meta.OptionOI = oi
	decision.Meta.OptionVolume = vol

	if oi < b.config.MinOptionOI || vol < b.config.MinOptionVolume {
		decision.Reasons = append(decision.Reasons, contracts.Exclude(
			contracts.ExcludeOptionsIlliquidity,
			fmt.Sprintf("aggregate option liquidity too thin (OI %d, volume %d)", oi, vol),
		))
	}
}

// looksInternational flags ADR/international signals: a foreign trading
// currency or an OTC venue.
func (b *Builder) looksInternational(profile *contracts.CompanyProfile) bool {
	if profile.IsADR {
		return true
	}
	if profile.Currency != "" && profile.Currency != "USD" {
		return true
	}
	exchange := strings.ToUpper(profile.Exchange)
	return strings.Contains(exchange, "OTC") || strings.Contains(exchange, "PINK")
}

func (b *Builder) isMemeTicker(ticker string) bool {
	for _, m := range b.config.MemeTickers {
		if strings.EqualFold(m, ticker) {
			return true
		}
	}
	return false
}
