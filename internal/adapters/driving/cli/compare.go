package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	compareLiveRCode   string
	compareLiveVersion string
)

var compareWithAPICmd = &cobra.Command{
	Use:   "compare-with-api",
	Short: "Compare the current snapshot's codes against the live catalog",
	Long: `Lists the clinical codes that exist only locally or only in the live
catalog, indicating the local snapshot has drifted and an update is due.`,
	RunE: runCompareWithAPI,
}

var compareLiveCmd = &cobra.Command{
	Use:   "compare-live",
	Short: "Diff a stored panel's gene set against the live catalog",
	Long: `Resolves a clinical code's gene set from a snapshot ("--version" selects
one; the current snapshot otherwise), fetches the same panel live and prints
the genes added and removed since the snapshot was taken.`,
	RunE: runCompareLive,
}

func init() {
	compareLiveCmd.Flags().StringVar(&compareLiveRCode, "r-code", "", "clinical code to compare (required)")
	compareLiveCmd.Flags().StringVar(&compareLiveVersion, "version", "", "snapshot version to compare from (default: current)")
	_ = compareLiveCmd.MarkFlagRequired("r-code")

	rootCmd.AddCommand(compareWithAPICmd)
	rootCmd.AddCommand(compareLiveCmd)
}

func runCompareWithAPI(cmd *cobra.Command, _ []string) error {
	if catalogOrchestrator == nil {
		return errors.New("catalog service not configured")
	}

	drift, err := catalogOrchestrator.CompareWithAPI(context.Background())
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if drift.InSync() {
		cmd.Printf("Snapshot %s covers exactly the live catalog's codes.\n", drift.SnapshotVersion)
		return nil
	}

	cmd.Printf("Snapshot %s has drifted from the live catalog.\n", drift.SnapshotVersion)
	if len(drift.OnlyLive) > 0 {
		cmd.Printf("Only live (%d):\n", len(drift.OnlyLive))
		for _, code := range drift.OnlyLive {
			cmd.Println("  + " + code)
		}
	}
	if len(drift.OnlyLocal) > 0 {
		cmd.Printf("Only local (%d):\n", len(drift.OnlyLocal))
		for _, code := range drift.OnlyLocal {
			cmd.Println("  - " + code)
		}
	}
	return nil
}

func runCompareLive(cmd *cobra.Command, _ []string) error {
	if reconcileService == nil {
		return errors.New("reconcile service not configured")
	}

	diff, err := reconcileService.ReconcileSnapshot(context.Background(), compareLiveVersion, compareLiveRCode)
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	if diff.Identical() {
		cmd.Printf("%s: gene content unchanged.\n", diff.ClinicalCode)
		return nil
	}

	cmd.Printf("%s: %d added, %d removed since the snapshot.\n",
		diff.ClinicalCode, len(diff.Added), len(diff.Removed))
	for _, gene := range diff.Added {
		cmd.Println("  + " + gene)
	}
	for _, gene := range diff.Removed {
		cmd.Println("  - " + gene)
	}
	return nil
}
