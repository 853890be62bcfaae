package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/qualify"
	"github.com/sellside/underwriter/pkg/logger"
)

// PreMarketQualifyJob runs a recommended-universe qualification sweep
// before the US market opens so warm candidates are cached when the
// first interactive request lands.
type PreMarketQualifyJob struct {
	orchestrator *qualify.Orchestrator
	profile      string
	accountSize  float64
	logger       *logger.Logger
}

// NewPreMarketQualifyJob creates a new pre-market qualify job
func NewPreMarketQualifyJob(orch *qualify.Orchestrator, profile string, accountSize float64, log *logger.Logger) *PreMarketQualifyJob {
	if profile == "" {
		profile = "sp500"
	}
	return &PreMarketQualifyJob{
		orchestrator: orch,
		profile:      profile,
		accountSize:  accountSize,
		logger:       log,
	}
}

// Name returns the job name
func (j *PreMarketQualifyJob) Name() string {
	return "premarket_qualify"
}

// Schedule returns the cron schedule expression.
// 13:00 UTC is 9:00 AM ET during DST, half an hour before the open.
func (j *PreMarketQualifyJob) Schedule() string {
	return "0 13 * * 1-5"
}

// Run executes one recommended-universe sweep.
func (j *PreMarketQualifyJob) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	response, err := j.orchestrator.Run(ctx, contracts.QualifyRequest{
		Source:                contracts.SourceRecommended,
		RecommendationProfile: j.profile,
		AccountSize:           j.accountSize,
	})
	if err != nil {
		return fmt.Errorf("pre-market qualify sweep: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":       response.RunID,
		"candidates":   len(response.Candidates),
		"disqualified": len(response.Disqualified),
	}).Info("Pre-market qualify sweep completed")

	return nil
}
