package qualify

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/expiration"
	"github.com/sellside/underwriter/internal/explain"
	"github.com/sellside/underwriter/internal/liquidity"
	"github.com/sellside/underwriter/internal/scoring"
	"github.com/sellside/underwriter/internal/sizing"
	"github.com/sellside/underwriter/internal/strategy"
	"github.com/sellside/underwriter/internal/strike"
	"github.com/sellside/underwriter/internal/trend"
	"github.com/sellside/underwriter/internal/universe"
	"github.com/sellside/underwriter/pkg/logger"
	"github.com/sellside/underwriter/pkg/metrics"
)

// DefaultMaxCandidates caps the ranked response.
const DefaultMaxCandidates = 25

// MarketProxy is the index ticker used for the market-regime leg of
// trend assessment.
const MarketProxy = "SPY"

// Providers bundles the external data sources one run depends on.
type Providers struct {
	Quotes       contracts.QuoteProvider
	Fundamentals contracts.FundamentalsProvider
	Chains       contracts.ChainProvider
	Calendar     contracts.CalendarProvider
	Trend        contracts.TrendProvider
}

// Config bundles the per-component configuration for one orchestrator.
type Config struct {
	Liquidity  liquidity.Config
	Volatility scoring.VolatilityConfig
	EventRisk  scoring.EventRiskConfig
}

// DefaultConfig returns the documented orchestrator defaults.
func DefaultConfig() Config {
	return Config{
		Liquidity:  liquidity.DefaultConfig(),
		Volatility: scoring.DefaultVolatilityConfig(),
		EventRisk:  scoring.DefaultEventRiskConfig(),
	}
}

// Orchestrator drives the full qualification pipeline per ticker and
// assembles the ranked output. Tickers are processed strictly
// sequentially so provider rate limits hold and disqualification
// ordering stays deterministic.
type Orchestrator struct {
	universeBuilder *universe.Builder
	trendScorer     *trend.Scorer
	strikeFinder    *strike.Finder
	expRanker       *expiration.Ranker
	scorer          *scoring.Engine
	providers       Providers
	config          Config
	metrics         *metrics.Metrics
	logger          *logger.Logger
}

// NewOrchestrator creates a new qualify orchestrator.
func NewOrchestrator(
	universeBuilder *universe.Builder,
	trendScorer *trend.Scorer,
	strikeFinder *strike.Finder,
	expRanker *expiration.Ranker,
	scorer *scoring.Engine,
	providers Providers,
	config Config,
	m *metrics.Metrics,
	log *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		universeBuilder: universeBuilder,
		trendScorer:     trendScorer,
		strikeFinder:    strikeFinder,
		expRanker:       expRanker,
		scorer:          scorer,
		providers:       providers,
		config:          config,
		metrics:         m,
		logger:          log,
	}
}

// Run executes one qualification pass. Per-ticker failures become
// disqualification entries; partial results are always returned.
func (o *Orchestrator) Run(ctx context.Context, req contracts.QualifyRequest) (*contracts.QualifyResponse, error) {
	startTime := time.Now()
	runID := uuid.NewString()

	response := &contracts.QualifyResponse{
		RunID:        runID,
		GeneratedAt:  startTime,
		Candidates:   make([]contracts.QualifiedCandidate, 0),
		Disqualified: make([]contracts.DisqualifiedTicker, 0),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":       runID,
		"source":       req.Source,
		"tickers":      len(req.Tickers),
		"account_size": req.AccountSize,
	}).Info("Starting qualify run")

	universeResult, err := o.universeBuilder.Build(ctx, universe.BuildRequest{
		Source:                req.Source,
		Tickers:               req.Tickers,
		RecommendationProfile: req.RecommendationProfile,
	})
	if err != nil {
		return nil, fmt.Errorf("universe build: %w", err)
	}

	for _, d := range universeResult.Excluded {
		response.Disqualified = append(response.Disqualified, contracts.DisqualifiedTicker{
			Ticker:  d.Ticker,
			Reasons: d.ReasonMessages(),
		})
	}

	// Market trend resolves once per run.
	marketTrend := o.resolveTrend(ctx, MarketProxy)

	for _, decision := range universeResult.Included {
		candidate, reasons := o.qualifyTicker(ctx, decision, marketTrend, req)
		if candidate == nil {
			response.Disqualified = append(response.Disqualified, contracts.DisqualifiedTicker{
				Ticker:  decision.Ticker,
				Reasons: reasons,
			})
			o.metrics.TickersDisqualified.Inc()
			continue
		}

		sizingResult := sizing.Check(sizing.Input{
			AccountSize:        req.AccountSize,
			RequiredCollateral: candidate.RequiredCollateral(),
			MaxAllocationPct:   maxPerTradePct(req.Preferences),
		})

		response.Candidates = append(response.Candidates, contracts.QualifiedCandidate{
			Ticker:    candidate.Ticker,
			Candidate: *candidate,
			Sizing:    sizingResult,
		})
		o.metrics.TickersQualified.Inc()
	}

	sort.SliceStable(response.Candidates, func(i, j int) bool {
		return response.Candidates[i].Candidate.Score.Breakdown.Total >
			response.Candidates[j].Candidate.Score.Breakdown.Total
	})

	maxCandidates := req.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if len(response.Candidates) > maxCandidates {
		response.Candidates = response.Candidates[:maxCandidates]
	}

	o.metrics.QualifyRuns.Inc()
	o.metrics.QualifyDuration.Observe(time.Since(startTime).Seconds())

	o.logger.WithFields(map[string]interface{}{
		"run_id":       runID,
		"candidates":   len(response.Candidates),
		"disqualified": len(response.Disqualified),
		"duration":     time.Since(startTime).Seconds(),
	}).Info("Qualify run completed")

	return response, nil
}

// qualifyTicker runs the full pipeline for one ticker. A nil candidate
// means disqualification; the returned strings explain why.
func (o *Orchestrator) qualifyTicker(
	ctx context.Context,
	decision contracts.TickerDecision,
	marketTrend *contracts.TrendMetrics,
	req contracts.QualifyRequest,
) (candidate *contracts.TradeCandidate, reasons []string) {
	ticker := decision.Ticker

	// A single ticker's failure never aborts the batch.
	defer func() {
		if r := recover(); r != nil {
			o.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"panic":  r,
			}).Error("Ticker evaluation panicked")
			candidate = nil
			reasons = []string{fmt.Sprintf("internal error while evaluating %s", ticker)}
		}
	}()

	fundamentals, err := o.providers.Fundamentals.Fundamentals(ctx, ticker)
	if err != nil {
		o.metrics.ProviderErrors.WithLabelValues("fundamentals").Inc()
		o.logger.WithError(err).WithField("ticker", ticker).Warn("Fundamentals lookup failed")
		fundamentals = nil
	}

	quote, err := o.providers.Quotes.Quote(ctx, ticker)
	if err != nil {
		o.metrics.ProviderErrors.WithLabelValues("quotes").Inc()
		return nil, []string{fmt.Sprintf("could not resolve a current price for %s: %v", ticker, err)}
	}

	chain, err := o.providers.Chains.Chain(ctx, ticker)
	if err != nil {
		o.metrics.ProviderErrors.WithLabelValues("chains").Inc()
		return nil, []string{fmt.Sprintf("could not resolve the option chain for %s: %v", ticker, err)}
	}
	if len(chain.Contracts) == 0 {
		return nil, []string{fmt.Sprintf("option chain for %s is empty", ticker)}
	}

	calendar, err := o.providers.Calendar.Calendar(ctx, ticker)
	if err != nil {
		o.metrics.ProviderErrors.WithLabelValues("calendar").Inc()
		calendar = nil
	}

	stockTrend := o.resolveTrend(ctx, ticker)

	trendAssessment := o.assessTrend(stockTrend, marketTrend)

	selection := strategy.Select(strategy.SelectionInput{
		Fundamentals:      fundamentals,
		MarketRegime:      regimeOf(trendAssessment, true),
		StockRegime:       regimeOf(trendAssessment, false),
		PreferDefinedRisk: preferDefinedRisk(req.Preferences),
	})

	best, rejectionCounts := o.bestCandidate(ctx, decision, quote, chain, calendar, fundamentals, stockTrend, trendAssessment, selection)
	if best == nil {
		return nil, aggregateRejections(ticker, rejectionCounts)
	}
	return best, nil
}

// bestCandidate evaluates every (strategy, expiration) pair and keeps
// the single highest-scoring valid trade.
func (o *Orchestrator) bestCandidate(
	ctx context.Context,
	decision contracts.TickerDecision,
	quote *contracts.Quote,
	chain *contracts.OptionChainSnapshot,
	calendar *contracts.CalendarSnapshot,
	fundamentals *contracts.Fundamentals,
	stockTrend *contracts.TrendMetrics,
	trendAssessment *contracts.TrendAssessment,
	selection contracts.StrategySelection,
) (*contracts.TradeCandidate, map[string]int) {
	ticker := decision.Ticker
	now := time.Now()
	rejections := make(map[string]int)

	var best *contracts.TradeCandidate

	for _, strat := range selection.Strategies {
		// Stage 1: resolve strikes for every expiration, keep valid ones.
		expCandidates := make([]contracts.ExpirationCandidate, 0)
		for _, exp := range chain.Expirations() {
			sc := o.strikeFinder.Find(strike.Input{
				Underlying:      ticker,
				UnderlyingPrice: quote.Price,
				Strategy:        strat,
				Expiration:      exp,
				Contracts:       chain.ForExpiration(exp),
			})
			if !sc.Valid() {
				for _, r := range sc.Reasons {
					rejections[r.Message]++
				}
				continue
			}

			dte := daysUntil(now, exp)
			flags := make([]contracts.RiskFlag, 0)
			if calendar != nil && calendar.EarningsWithin(dte) {
				flags = append(flags, contracts.RiskEarningsWithinTrade)
			}
			expCandidates = append(expCandidates, contracts.ExpirationCandidate{
				Strategy:    strat,
				Expiration:  exp,
				DTE:         dte,
				ThetaPerDay: sc.ThetaPerDay,
				Credit:      sc.Credit,
				MaxLoss:     sc.MaxLoss,
				Flags:       flags,
			})
		}

		// Stage 2: rank and fully evaluate the top expirations.
		for _, ranked := range o.expRanker.Rank(expCandidates) {
			tc := o.buildTradeCandidate(decision, quote, chain, calendar, fundamentals, stockTrend, trendAssessment, strat, ranked)
			if tc == nil {
				continue
			}
			if best == nil || tc.Score.Breakdown.Total > best.Score.Breakdown.Total {
				best = tc
			}
		}
	}

	return best, rejections
}

// buildTradeCandidate re-resolves strikes for a ranked expiration,
// gates liquidity, scores, and explains.
func (o *Orchestrator) buildTradeCandidate(
	decision contracts.TickerDecision,
	quote *contracts.Quote,
	chain *contracts.OptionChainSnapshot,
	calendar *contracts.CalendarSnapshot,
	fundamentals *contracts.Fundamentals,
	stockTrend *contracts.TrendMetrics,
	trendAssessment *contracts.TrendAssessment,
	strat contracts.Strategy,
	ranked contracts.ExpirationRanked,
) *contracts.TradeCandidate {
	ticker := decision.Ticker
	expContracts := chain.ForExpiration(ranked.Expiration)

	sc := o.strikeFinder.Find(strike.Input{
		Underlying:      ticker,
		UnderlyingPrice: quote.Price,
		Strategy:        strat,
		Expiration:      ranked.Expiration,
		Contracts:       expContracts,
	})
	if !sc.Valid() {
		return nil
	}

	gate := liquidity.Evaluate(liquidity.Input{
		AvgDailyVolume: decision.Meta.AvgDailyVolume,
		ShortStrike:    sc.ShortStrike,
		Contracts:      expContracts,
	}, o.config.Liquidity)

	flags := contracts.NewFlagSet()
	if !gate.Passed {
		for _, r := range gate.Reasons {
			switch r.Code {
			case contracts.DisqualifiedWideOptionsSpread:
				flags.Add(contracts.RiskWideSpreads)
			case contracts.DisqualifiedLowOpenInterest:
				flags.Add(contracts.RiskLowOpenInterest)
			}
		}
	}

	// Historical IV is not tracked, so the change rate is never
	// available here and the IV regime stays UNKNOWN.
	volAssessment := scoring.AssessVolatility(sc.IV, nil, o.config.Volatility)
	flags.AddAll(volAssessment.Flags)

	eventAssessment := scoring.AssessEventRisk(calendar, ranked.DTE, o.config.EventRisk)
	flags.AddAll(eventAssessment.Flags)

	var trendScore *float64
	if trendAssessment != nil {
		flags.AddAll(trendAssessment.Flags)
		s := trendAssessment.Score
		trendScore = &s
	}

	score := o.scorer.Score(scoring.Input{
		Ticker:               ticker,
		Fundamentals:         fundamentals,
		LiquidityEvaluated:   true,
		LiquidityPassed:      gate.Passed,
		VolatilityMultiplier: volAssessment.Multiplier,
		TrendScore:           trendScore,
		RiskFlags:            flags.Slice(),
	})

	explainInput := explain.Input{
		Ticker:      ticker,
		Strategy:    strat,
		ShortStrike: sc.ShortStrike,
		ShortDelta:  sc.ShortDelta,
		OTMPct:      sc.OTMPct,
		DTE:         ranked.DTE,
		IV:          sc.IV,
		IVRegime:    volAssessment.Regime,
		AvgVolume:   decision.Meta.AvgDailyVolume,
		Calendar:    calendar,
		Score:       &score,
		RiskFlags:   flags.Slice(),
	}
	if fundamentals != nil {
		explainInput.MarketCap = fundamentals.MarketCap
	}
	if stockTrend != nil {
		explainInput.DistFrom200 = &stockTrend.DistFrom200
	}
	explanation := explain.Build(explainInput)

	stockRegime := contracts.RegimeNeutral
	if trendAssessment != nil {
		stockRegime = trendAssessment.StockRegime
	}

	return &contracts.TradeCandidate{
		Ticker:      ticker,
		Strategy:    strat,
		Expiration:  ranked.Expiration,
		DTE:         ranked.DTE,
		ShortStrike: sc.ShortStrike,
		LongStrike:  sc.LongStrike,
		Credit:      sc.Credit,
		MaxLoss:     sc.MaxLoss,
		Breakeven:   sc.Breakeven,
		ThetaPerDay: sc.ThetaPerDay,
		POP:         sc.POP,
		ShortDelta:  sc.ShortDelta,
		IV:          sc.IV,
		IVRegime:    volAssessment.Regime,
		StockRegime: stockRegime,
		RiskFlags:   explanation.RiskFlags,
		Score:       score,
		Why:         explanation.Why,
	}
}

// resolveTrend fetches trend metrics, degrading to nil on failure.
func (o *Orchestrator) resolveTrend(ctx context.Context, ticker string) *contracts.TrendMetrics {
	metrics, err := o.providers.Trend.Trend(ctx, ticker)
	if err != nil {
		o.metrics.ProviderErrors.WithLabelValues("trend").Inc()
		o.logger.WithError(err).WithField("ticker", ticker).Warn("Trend lookup failed")
		return nil
	}
	return metrics
}

// assessTrend runs the trend scorer when both legs are available.
func (o *Orchestrator) assessTrend(stock, market *contracts.TrendMetrics) *contracts.TrendAssessment {
	if stock == nil || market == nil {
		return nil
	}
	assessment := o.trendScorer.Assess(*stock, *market)
	return &assessment
}

func regimeOf(assessment *contracts.TrendAssessment, market bool) contracts.Regime {
	if assessment == nil {
		return contracts.RegimeNeutral
	}
	if market {
		return assessment.MarketRegime
	}
	return assessment.StockRegime
}

// aggregateRejections summarizes the most common strike-rejection
// messages for a disqualified ticker, most frequent first.
func aggregateRejections(ticker string, counts map[string]int) []string {
	if len(counts) == 0 {
		return []string{fmt.Sprintf("no eligible strategy produced a valid strike for %s", ticker)}
	}

	type entry struct {
		message string
		count   int
	}
	entries := make([]entry, 0, len(counts))
	for m, c := range counts {
		entries = append(entries, entry{m, c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].message < entries[j].message
	})

	const maxReasons = 3
	out := make([]string, 0, maxReasons)
	for i, e := range entries {
		if i >= maxReasons {
			break
		}
		out = append(out, fmt.Sprintf("%s (%d expirations)", e.message, e.count))
	}
	return out
}

func daysUntil(now, exp time.Time) int {
	return int(exp.Sub(now).Hours() / 24)
}

func preferDefinedRisk(p *contracts.Preferences) bool {
	return p != nil && p.PreferDefinedRisk
}

func maxPerTradePct(p *contracts.Preferences) float64 {
	if p == nil {
		return 0
	}
	return p.MaxPerTradePct
}
