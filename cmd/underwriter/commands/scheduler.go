package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sellside/underwriter/internal/scheduler"
	"github.com/sellside/underwriter/internal/scheduler/jobs"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the scheduled job runner",
	Long: `Start the scheduled job runner.

Jobs:
  premarket_qualify - recommended-universe sweep before the US open

Example:
  go run ./cmd/underwriter scheduler
  go run ./cmd/underwriter scheduler --profile nasdaq100`,
	RunE: runScheduler,
}

var (
	schedulerProfile     string
	schedulerAccountSize float64
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	schedulerCmd.Flags().StringVar(&schedulerProfile, "profile", "sp500", "recommendation profile for the sweep")
	schedulerCmd.Flags().Float64Var(&schedulerAccountSize, "account-size", 0, "account size for sizing checks")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.log)

	sweep := jobs.NewPreMarketQualifyJob(a.orchestrator, schedulerProfile, schedulerAccountSize, a.log)
	if err := sched.AddJob(sweep); err != nil {
		return fmt.Errorf("add job: %w", err)
	}

	sched.Start()
	fmt.Println("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
