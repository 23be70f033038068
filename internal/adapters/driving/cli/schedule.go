package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the background catalog refresh scheduler",
	Long: `Runs the scheduler in the foreground until interrupted. The scheduler
rebuilds the catalog snapshot on the configured cadence and persists task
state, so a restart resumes where it left off.`,
	RunE: runSchedule,
}

func init() {
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if schedulerRunner == nil {
		return errors.New("scheduler not configured")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cmd.Println("Shutting down scheduler...")
		_ = schedulerRunner.Stop()
		cancel()
	}()

	cmd.Println("Scheduler running. Press Ctrl+C to stop.")
	if err := schedulerRunner.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
