package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sellside/underwriter/internal/concentration"
	"github.com/sellside/underwriter/internal/expiration"
	"github.com/sellside/underwriter/internal/external/fmp"
	"github.com/sellside/underwriter/internal/external/tradier"
	"github.com/sellside/underwriter/internal/positions"
	"github.com/sellside/underwriter/internal/qualify"
	"github.com/sellside/underwriter/internal/scoring"
	"github.com/sellside/underwriter/internal/strike"
	"github.com/sellside/underwriter/internal/trend"
	"github.com/sellside/underwriter/internal/universe"
	"github.com/sellside/underwriter/pkg/config"
	"github.com/sellside/underwriter/pkg/database"
	"github.com/sellside/underwriter/pkg/httputil"
	"github.com/sellside/underwriter/pkg/logger"
	"github.com/sellside/underwriter/pkg/metrics"
	"github.com/sellside/underwriter/pkg/redis"
)

// app holds the wired application graph shared by the commands.
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.DB
	redisClient  *redis.Client
	orchestrator *qualify.Orchestrator
	builder      *universe.Builder
	strikeFinder *strike.Finder
	expRanker    *expiration.Ranker
	scorer       *scoring.Engine
	concentrator *concentration.Evaluator
	positionRepo *positions.Repository
	metrics      *metrics.Metrics
}

// bootstrap loads config and wires the full dependency graph. Database
// and Redis are both optional; the engine degrades to uncached provider
// calls and body-supplied positions without them.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	cache := redis.NewCache(redisClient, "underwriter")
	ratelimit := redis.NewRateLimiter(redisClient, "underwriter")

	httpClient := httputil.New(log)

	fmpClient := fmp.NewClient(cfg, httpClient, cache, ratelimit, log)
	tradierClient := tradier.NewClient(cfg, httpClient, cache, ratelimit, log)

	builder := universe.NewBuilder(fmpClient, tradierClient, fmpClient, universe.DefaultConfig(), log)

	strikeConfig := strike.DefaultConfig()
	if cfg.StrategyFile != "" {
		strikeConfig, err = strike.LoadConfig(cfg.StrategyFile)
		if err != nil {
			return nil, fmt.Errorf("load strategy config: %w", err)
		}
	}
	if err := strikeConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy config: %w", err)
	}

	// The orchestrator always records counters; without the /metrics
	// endpoint they land in a throwaway registry.
	m := metrics.New(prometheus.NewRegistry())
	if cfg.MetricsEnabled {
		m = metrics.NewDefault()
	}

	orchestrator := qualify.NewOrchestrator(
		builder,
		trend.NewScorer(trend.DefaultConfig()),
		strike.NewFinder(strikeConfig),
		expiration.NewRanker(expiration.DefaultConfig()),
		scoring.NewEngine(log),
		qualify.Providers{
			Quotes:       fmpClient,
			Fundamentals: fmpClient,
			Chains:       tradierClient,
			Calendar:     fmpClient,
			Trend:        fmpClient,
		},
		qualify.DefaultConfig(),
		m,
		log,
	)

	a := &app{
		cfg:          cfg,
		log:          log,
		redisClient:  redisClient,
		orchestrator: orchestrator,
		builder:      builder,
		strikeFinder: strike.NewFinder(strikeConfig),
		expRanker:    expiration.NewRanker(expiration.DefaultConfig()),
		scorer:       scoring.NewEngine(log),
		concentrator: concentration.NewEvaluator(concentration.DefaultConfig(), log),
		metrics:      m,
	}

	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.positionRepo = positions.NewRepository(db.Pool)
	}

	return a, nil
}

// close releases everything bootstrap opened.
func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redisClient != nil {
		a.redisClient.Close()
	}
}
