package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "underwriter",
	Short: "Option-selling trade qualification engine",
	Long: `Underwriter qualifies tickers for option-selling trades.

It filters a ticker universe, gates on stock and options liquidity,
selects strategies from trend regimes, resolves strikes and
expirations, scores each candidate 0-100, and returns a ranked,
explained candidate list.

Usage:
  go run ./cmd/underwriter [command]

Examples:
  go run ./cmd/underwriter api
  go run ./cmd/underwriter qualify AAPL MSFT --account-size 100000
  go run ./cmd/underwriter universe AAPL BRK.B XYZ
  go run ./cmd/underwriter scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
