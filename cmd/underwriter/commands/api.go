package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sellside/underwriter/internal/api"
	"github.com/sellside/underwriter/internal/api/handlers"
	"github.com/sellside/underwriter/internal/liquidity"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Start the REST API server.

Endpoints:
  GET  /health                        - Health check
  GET  /metrics                       - Prometheus metrics
  POST /api/qualify                   - Full qualification run
  POST /api/universe/build            - Universe filtering only
  POST /api/analyze/liquidity         - Liquidity gate
  POST /api/analyze/strategy          - Strategy selection
  POST /api/analyze/strike            - Strike search
  POST /api/analyze/expirations       - Expiration ranking
  POST /api/analyze/score             - Confidence score
  POST /api/analyze/sizing            - Sizing check
  POST /api/analyze/explain           - Candidate rationale
  POST /api/portfolio/concentration   - Concentration check
  GET  /api/portfolio/positions       - Open positions

Example:
  go run ./cmd/underwriter api
  go run ./cmd/underwriter api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}

	qualifyHandler := handlers.NewQualifyHandler(a.orchestrator, a.builder, a.log)
	analyzeHandler := handlers.NewAnalyzeHandler(a.strikeFinder, a.expRanker, a.scorer, liquidity.DefaultConfig(), a.log)
	portfolioHandler := handlers.NewPortfolioHandler(a.concentrator, a.positionRepo, a.log)

	router := api.NewRouter(qualifyHandler, analyzeHandler, portfolioHandler, a.cfg.MetricsEnabled, a.log)
	server := api.New(a.cfg, a.log, router)

	go func() {
		if err := server.Start(); err != nil {
			a.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	a.log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	a.log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
