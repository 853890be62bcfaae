package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sellside/underwriter/internal/contracts"
	"github.com/sellside/underwriter/internal/universe"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe [tickers...]",
	Short: "Run universe filtering without qualification",
	Long: `Run universe filtering and print the included/excluded split.

Example:
  go run ./cmd/underwriter universe AAPL BRK.B GME xyz123
  go run ./cmd/underwriter universe --recommended --profile sp500`,
	RunE: runUniverse,
}

var (
	universeRecommended bool
	universeProfile     string
)

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().BoolVar(&universeRecommended, "recommended", false, "use the recommended index universe")
	universeCmd.Flags().StringVar(&universeProfile, "profile", "sp500", "recommendation profile (sp500|nasdaq100|dowjones)")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	if !universeRecommended && len(args) == 0 {
		return fmt.Errorf("pass tickers as arguments or use --recommended")
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	req := universe.BuildRequest{
		Source:  contracts.SourceManual,
		Tickers: args,
	}
	if universeRecommended {
		req.Source = contracts.SourceRecommended
		req.RecommendationProfile = universeProfile
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := a.builder.Build(ctx, req)
	if err != nil {
		return fmt.Errorf("universe build: %w", err)
	}

	fmt.Printf("Included (%d):\n", len(result.Included))
	for _, d := range result.Included {
		fmt.Printf("  %-6s", d.Ticker)
		if len(d.Reasons) > 0 {
			fmt.Printf("  warnings: %s", strings.Join(d.ReasonMessages(), "; "))
		}
		fmt.Println()
	}

	fmt.Printf("\nExcluded (%d):\n", len(result.Excluded))
	for _, d := range result.Excluded {
		fmt.Printf("  %-6s %s\n", d.Ticker, strings.Join(d.ReasonMessages(), "; "))
	}

	return nil
}
