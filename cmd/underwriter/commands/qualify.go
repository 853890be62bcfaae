package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sellside/underwriter/internal/contracts"
)

// qualifyCmd represents the qualify command
var qualifyCmd = &cobra.Command{
	Use:   "qualify [tickers...]",
	Short: "Run a qualification pass from the command line",
	Long: `Run a full qualification pass and print the ranked candidates.

With ticker arguments the MANUAL source is used; with --recommended
the universe comes from index constituents instead.

Example:
  go run ./cmd/underwriter qualify AAPL MSFT --account-size 100000
  go run ./cmd/underwriter qualify --recommended --profile sp500`,
	RunE: runQualify,
}

var (
	qualifyAccountSize   float64
	qualifyRecommended   bool
	qualifyProfile       string
	qualifyDefinedRisk   bool
	qualifyMaxPerTrade   float64
	qualifyMaxCandidates int
)

func init() {
	rootCmd.AddCommand(qualifyCmd)

	qualifyCmd.Flags().Float64Var(&qualifyAccountSize, "account-size", 0, "account size in dollars for sizing checks")
	qualifyCmd.Flags().BoolVar(&qualifyRecommended, "recommended", false, "use the recommended index universe")
	qualifyCmd.Flags().StringVar(&qualifyProfile, "profile", "sp500", "recommendation profile (sp500|nasdaq100|dowjones)")
	qualifyCmd.Flags().BoolVar(&qualifyDefinedRisk, "defined-risk", false, "restrict to defined-risk strategies")
	qualifyCmd.Flags().Float64Var(&qualifyMaxPerTrade, "max-per-trade", 0, "per-trade allocation ceiling (0 = default 5%)")
	qualifyCmd.Flags().IntVar(&qualifyMaxCandidates, "max-candidates", 0, "candidate cap (0 = default 25)")
}

func runQualify(cmd *cobra.Command, args []string) error {
	if !qualifyRecommended && len(args) == 0 {
		return fmt.Errorf("pass tickers as arguments or use --recommended")
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	req := contracts.QualifyRequest{
		Source:      contracts.SourceManual,
		Tickers:     args,
		AccountSize: qualifyAccountSize,
		Preferences: &contracts.Preferences{
			PreferDefinedRisk: qualifyDefinedRisk,
			MaxPerTradePct:    qualifyMaxPerTrade,
		},
		MaxCandidates: qualifyMaxCandidates,
	}
	if qualifyRecommended {
		req.Source = contracts.SourceRecommended
		req.RecommendationProfile = qualifyProfile
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	response, err := a.orchestrator.Run(ctx, req)
	if err != nil {
		return fmt.Errorf("qualify run: %w", err)
	}

	printQualifyResponse(response)
	return nil
}

func printQualifyResponse(response *contracts.QualifyResponse) {
	fmt.Printf("Run %s (%d candidates, %d disqualified)\n\n",
		response.RunID, len(response.Candidates), len(response.Disqualified))

	for i, qc := range response.Candidates {
		c := qc.Candidate
		fmt.Printf("%2d. %-6s %-4s %s  score %d (%s)\n",
			i+1, qc.Ticker, c.Strategy, c.Expiration.Format("2006-01-02"),
			c.Score.Breakdown.Total, c.Score.Tier)
		fmt.Printf("    short %.2f  credit %.2f  max loss %.2f  breakeven %.2f\n",
			c.ShortStrike, c.Credit, c.MaxLoss, c.Breakeven)
		if qc.Sizing.Warning != "" {
			fmt.Printf("    sizing: %s\n", qc.Sizing.Warning)
		}
		for _, why := range c.Why {
			fmt.Printf("    - %s\n", why)
		}
		fmt.Println()
	}

	if len(response.Disqualified) > 0 {
		fmt.Println("Disqualified:")
		for _, d := range response.Disqualified {
			fmt.Printf("  %-6s %s\n", d.Ticker, strings.Join(d.Reasons, "; "))
		}
	}
}
